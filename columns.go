package kuzu

import (
	"strings"
	"sync/atomic"
	"unicode"
	"unicode/utf8"

	"github.com/cespare/xxhash"
)

// linearScanLimit is the column count up to which Ordinal scans the names
// instead of consulting a map.
const linearScanLimit = 8

var columnIndexBuilds atomic.Uint64

// ColumnIndex resolves column names of one result to ordinals and back.
// Name lookups are case-insensitive. Ordinals are only stable within the
// result the index was built for.
type ColumnIndex struct {
	names       []string
	folded      map[string]int
	fingerprint uint64
}

func newColumnIndex(names []string) *ColumnIndex {
	columnIndexBuilds.Add(1)
	ci := &ColumnIndex{names: names}
	h := xxhash.New()
	for i, n := range names {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write([]byte(foldKey(n)))
	}
	ci.fingerprint = h.Sum64()
	if len(names) > linearScanLimit {
		ci.folded = make(map[string]int, len(names))
		for i := len(names) - 1; i >= 0; i-- {
			ci.folded[foldKey(names[i])] = i
		}
	}
	return ci
}

// Len returns the number of columns.
func (ci *ColumnIndex) Len() int {
	return len(ci.names)
}

// Names returns a copy of the column names in ordinal order.
func (ci *ColumnIndex) Names() []string {
	return append([]string(nil), ci.names...)
}

// Ordinal returns the position of the column called name. When several
// columns differ only by case the first one wins. ok is false when no column
// matches.
func (ci *ColumnIndex) Ordinal(name string) (ordinal int, ok bool) {
	if ci.folded != nil {
		if i, ok := ci.folded[foldKey(name)]; ok {
			return i, true
		}
		return -1, false
	}
	for i, n := range ci.names {
		if strings.EqualFold(n, name) {
			return i, true
		}
	}
	return -1, false
}

// Name returns the name of the column at ordinal i.
func (ci *ColumnIndex) Name(i int) (string, error) {
	if i < 0 || i >= len(ci.names) {
		return "", rangeError("column", i, len(ci.names))
	}
	return ci.names[i], nil
}

// Fingerprint identifies the column set, ignoring case. Two results with
// the same columns in the same order share a fingerprint.
func (ci *ColumnIndex) Fingerprint() uint64 {
	return ci.fingerprint
}

// foldKey maps name to a key that two names share exactly when
// strings.EqualFold reports them equal: every rune becomes the smallest
// member of its simple case folding orbit.
func foldKey(name string) string {
	ascii := true
	for i := 0; i < len(name); i++ {
		if name[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return strings.ToUpper(name)
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		m := r
		for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
			if f < m {
				m = f
			}
		}
		b.WriteRune(m)
	}
	return b.String()
}
