package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"id=42", "ratio=0.5", "ok=true", "name=Ada", "empty="})
	require.NoError(t, err)
	assert.Equal(t, int64(42), params["id"])
	assert.Equal(t, 0.5, params["ratio"])
	assert.Equal(t, true, params["ok"])
	assert.Equal(t, "Ada", params["name"])
	assert.Equal(t, "", params["empty"])

	_, err = parseParams([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseParams([]string{"=1"})
	assert.Error(t, err)
}
