package kuzu_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kuzu "github.com/semihalev/go-kuzu"
)

func TestColumnIndexLookup(t *testing.T) {
	for _, n := range []int{3, 20} {
		t.Run(fmt.Sprintf("%d columns", n), func(t *testing.T) {
			names := []string{"Name", "name", "AGE"}
			for i := len(names); i < n; i++ {
				names = append(names, fmt.Sprintf("c%d", i))
			}
			ci := kuzu.NewColumnIndex(names)
			assert.Equal(t, n, ci.Len())

			// case-insensitive, first match wins
			i, ok := ci.Ordinal("NAME")
			assert.True(t, ok)
			assert.Equal(t, 0, i)
			i, ok = ci.Ordinal("age")
			assert.True(t, ok)
			assert.Equal(t, 2, i)
			_, ok = ci.Ordinal("missing")
			assert.False(t, ok)

			name, err := ci.Name(1)
			require.NoError(t, err)
			assert.Equal(t, "name", name)
			_, err = ci.Name(n)
			assert.ErrorIs(t, err, kuzu.ErrIndexOutOfRange)
		})
	}
}

// Names that differ only by Unicode case folding resolve the same way
// whether the index scans or hashes.
func TestColumnIndexUnicodeFolding(t *testing.T) {
	for _, n := range []int{3, 20} {
		t.Run(fmt.Sprintf("%d columns", n), func(t *testing.T) {
			names := []string{"\u212Aelvin", "ſize", "Straße"}
			for i := len(names); i < n; i++ {
				names = append(names, fmt.Sprintf("c%d", i))
			}
			ci := kuzu.NewColumnIndex(names)

			for name, want := range map[string]int{
				"kelvin": 0,
				"KELVIN": 0,
				"size":   1,
				"SIZE":   1,
				"straße": 2,
				"STRAẞE": 2,
			} {
				i, ok := ci.Ordinal(name)
				assert.True(t, ok, name)
				assert.Equal(t, want, i, name)
			}
			_, ok := ci.Ordinal("strasse")
			assert.False(t, ok)
		})
	}

	a := kuzu.NewColumnIndex([]string{"\u212Aelvin"})
	b := kuzu.NewColumnIndex([]string{"kelvin"})
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestColumnIndexFingerprint(t *testing.T) {
	a := kuzu.NewColumnIndex([]string{"id", "Name"})
	b := kuzu.NewColumnIndex([]string{"ID", "name"})
	c := kuzu.NewColumnIndex([]string{"name", "id"})
	d := kuzu.NewColumnIndex([]string{"idName"})
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), d.Fingerprint())

	names := a.Names()
	names[0] = "changed"
	assert.Equal(t, []string{"id", "Name"}, a.Names())
}

// The column index of a result is built once, however many rows are read
// by name.
func TestColumnIndexBuiltOncePerResult(t *testing.T) {
	conn, _ := openTestDB(t)
	seedPeople(t, conn)

	res, err := conn.Query("MATCH (p:Person) RETURN p.name AS name, p.age AS age")
	require.NoError(t, err)
	defer res.Close()

	before := kuzu.ColumnIndexBuilds()
	rows := 0
	for row, err := range res.Rows() {
		require.NoError(t, err)
		_, err = row.ValueByName("NAME")
		require.NoError(t, err)
		age, err := kuzu.ValueAsByName[int64](row, "Age")
		require.NoError(t, err)
		assert.Positive(t, age)
		rows++
	}
	assert.Equal(t, 4, rows)
	assert.Equal(t, before+1, kuzu.ColumnIndexBuilds())
}
