package kuzu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kuzu "github.com/semihalev/go-kuzu"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in                  string
		major, minor, patch int
		str                 string
	}{
		{"0.7.1", 0, 7, 1, "0.7.1"},
		{"v0.8.0", 0, 8, 0, "v0.8.0"},
		{"0.9.0-dev.12", 0, 9, 0, "0.9.0-dev.12"},
		{" 1.2 ", 1, 2, 0, "1.2"},
	}
	for _, tt := range tests {
		v, err := kuzu.ParseVersion(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, [3]int{tt.major, tt.minor, tt.patch}, [3]int{v.Major, v.Minor, v.Patch}, tt.in)
		assert.Equal(t, tt.str, v.String())
	}

	for _, bad := range []string{"", "x.y", "v"} {
		_, err := kuzu.ParseVersion(bad)
		assert.Error(t, err, bad)
	}
}

func TestVersionAtLeast(t *testing.T) {
	v := kuzu.Version{Major: 0, Minor: 8, Patch: 2}
	assert.True(t, v.AtLeast(0, 4, 0))
	assert.True(t, v.AtLeast(0, 8, 2))
	assert.False(t, v.AtLeast(0, 8, 3))
	assert.False(t, v.AtLeast(1, 0, 0))
	assert.Equal(t, "0.8.2", v.String())
}

func TestNativeInfo(t *testing.T) {
	t.Setenv("KUZU_LIBRARY_PATH", t.TempDir())
	info := kuzu.GetNativeInfo()
	if info.Available {
		assert.Contains(t, info.String(), "Native library: Available")
		return
	}
	assert.NotEmpty(t, info.Error)
	assert.Contains(t, info.String(), "Native library: Not available")

	_, err := kuzu.NativeEngineFrom(t.TempDir() + "/missing.so")
	assert.ErrorIs(t, err, kuzu.ErrNativeLibraryNotLoaded)

	vi := kuzu.GetVersionInfo()
	assert.Equal(t, kuzu.DriverVersion, vi.DriverVersion)
	assert.Contains(t, vi.String(), "Engine version: not loaded")
}
