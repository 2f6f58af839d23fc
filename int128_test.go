package kuzu_test

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kuzu "github.com/semihalev/go-kuzu"
)

func TestInt128RoundTrip(t *testing.T) {
	for _, s := range []string{
		"0",
		"1",
		"-1",
		"18446744073709551616",
		"-18446744073709551617",
		"170141183460469231731687303715884105727",
		"-170141183460469231731687303715884105728",
	} {
		i, err := kuzu.ParseInt128(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, i.String())
		assert.Equal(t, s, fmt.Sprintf("%d", i))
	}
}

func TestInt128Layout(t *testing.T) {
	assert.Equal(t, kuzu.Int128{Lo: ^uint64(0), Hi: -1}, kuzu.Int128FromInt64(-1))
	assert.Equal(t, kuzu.Int128{Lo: 42}, kuzu.Int128FromInt64(42))

	two64 := new(big.Int).Lsh(big.NewInt(1), 64)
	i, err := kuzu.Int128FromBig(two64)
	require.NoError(t, err)
	assert.Equal(t, kuzu.Int128{Lo: 0, Hi: 1}, i)
}

func TestInt128Overflow(t *testing.T) {
	_, err := kuzu.ParseInt128("170141183460469231731687303715884105728")
	assert.True(t, kuzu.IsError(err, kuzu.ErrOutOfRange))

	_, err = kuzu.ParseInt128("12abc")
	assert.True(t, kuzu.IsError(err, kuzu.ErrTypeMismatch))

	_, err = kuzu.Int128FromBig(nil)
	assert.Error(t, err)
}
