package kuzu_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kuzu "github.com/semihalev/go-kuzu"
	"github.com/semihalev/go-kuzu/kuzutest"
)

func testBlobs() [][]byte {
	small := []byte("small blob")
	medium := make([]byte, 1000)
	large := make([]byte, 10000)
	for i := range medium {
		medium[i] = byte(i % 256)
	}
	for i := range large {
		large[i] = byte(i % 256)
	}
	return [][]byte{small, medium, large, {}, []byte(`back\slash \x41`)}
}

func TestBlobHandling(t *testing.T) {
	for _, enc := range []kuzu.BlobEncoding{kuzu.BlobRaw, kuzu.BlobEscaped} {
		name := "raw"
		if enc == kuzu.BlobEscaped {
			name = "escaped"
		}
		t.Run(name, func(t *testing.T) {
			conn, _ := openTestDB(t, kuzutest.WithBlobEncoding(enc))
			blobs := testBlobs()
			for i, b := range blobs {
				mustExec(t, conn, "CREATE (:File {id: $id, data: $data})", map[string]any{"id": i, "data": b})
			}

			res, err := conn.Query("MATCH (f:File) RETURN f.id, f.data")
			require.NoError(t, err)
			defer res.Close()
			for row, err := range res.Rows() {
				require.NoError(t, err)
				var (
					id   int
					data []byte
				)
				require.NoError(t, row.Scan(&id, &data))
				assert.Equal(t, blobs[id], data, "blob %d", id)
			}
		})
	}
}

// Bytes, Span and Len agree whatever order they are called in, and the
// payload is decoded once per value.
func TestBlobAccessOrder(t *testing.T) {
	orders := map[string][]string{
		"bytes first": {"bytes", "span", "len"},
		"span first":  {"span", "len", "bytes"},
		"len first":   {"len", "bytes", "span"},
	}
	for _, enc := range []kuzu.BlobEncoding{kuzu.BlobRaw, kuzu.BlobEscaped} {
		for name, order := range orders {
			t.Run(fmt.Sprintf("%s/encoding %d", name, enc), func(t *testing.T) {
				conn, _ := openTestDB(t, kuzutest.WithBlobEncoding(enc))
				want := []byte{0x00, 'A', 0xff, '\\', 0x7f, 'z'}
				mustExec(t, conn, "CREATE (:File {data: $data})", map[string]any{"data": want})

				res, err := conn.Query("MATCH (f:File) RETURN f.data")
				require.NoError(t, err)
				defer res.Close()
				v, err := firstRow(t, res).Value(0)
				require.NoError(t, err)
				blob, err := v.Blob()
				require.NoError(t, err)
				again, err := v.Blob()
				require.NoError(t, err)
				assert.Same(t, blob, again)

				before := kuzu.BlobDecodes()
				for _, step := range order {
					switch step {
					case "bytes":
						b, err := blob.Bytes()
						require.NoError(t, err)
						assert.Equal(t, want, b)
						b[0] = 0x55 // the caller owns the copy
					case "span":
						s, err := blob.Span()
						require.NoError(t, err)
						assert.Equal(t, want, s)
					case "len":
						n, err := blob.Len()
						require.NoError(t, err)
						assert.Equal(t, len(want), n)
					}
				}
				assert.Equal(t, before+1, kuzu.BlobDecodes())

				_, err = res.Next()
				assert.Error(t, err)
				_, err = blob.Span()
				assert.ErrorIs(t, err, kuzu.ErrDisposedAccess)
			})
		}
	}
}

// A span keeps its bytes after the row it came from is released and the
// next blob is decoded.
func TestBlobSpanOutlivesRow(t *testing.T) {
	for _, enc := range []kuzu.BlobEncoding{kuzu.BlobRaw, kuzu.BlobEscaped} {
		t.Run(fmt.Sprintf("encoding %d", enc), func(t *testing.T) {
			conn, _ := openTestDB(t, kuzutest.WithBlobEncoding(enc))
			blobs := [][]byte{
				{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
				{0xf1, 0xf2, 0xf3, 0xf4, 0xf5, 0xf6, 0xf7, 0xf8},
			}
			for i, b := range blobs {
				mustExec(t, conn, "CREATE (:File {id: $id, data: $data})", map[string]any{"id": i, "data": b})
			}

			res, err := conn.Query("MATCH (f:File) RETURN f.id, f.data")
			require.NoError(t, err)
			defer res.Close()

			spans := map[int64][]byte{}
			for row, err := range res.Rows() {
				require.NoError(t, err)
				id, err := kuzu.ValueAs[int64](row, 0)
				require.NoError(t, err)
				v, err := row.Value(1)
				require.NoError(t, err)
				blob, err := v.Blob()
				require.NoError(t, err)
				span, err := blob.Span()
				require.NoError(t, err)
				spans[id] = span
			}
			require.Len(t, spans, 2)
			for i, want := range blobs {
				assert.Equal(t, want, spans[int64(i)], "blob %d", i)
			}
		})
	}
}

func TestBlobErrors(t *testing.T) {
	conn, _ := openTestDB(t)

	res, err := conn.Query("RETURN 'text', blob('\\xAA\\x0b')")
	require.NoError(t, err)
	defer res.Close()
	row := firstRow(t, res)

	text, err := row.Value(0)
	require.NoError(t, err)
	_, err = text.Blob()
	assert.ErrorIs(t, err, kuzu.ErrTypeMismatchAccess)

	b, err := kuzu.ValueAs[[]byte](row, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa, 0x0b}, b)

	// STRING scans into []byte as its UTF-8 bytes
	s, err := kuzu.ValueAs[[]byte](row, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("text"), s)
}

func TestUnescapeBlob(t *testing.T) {
	got, err := kuzu.UnescapeBlob([]byte(`ab\x00\xFF\x5Cc`))
	require.NoError(t, err)
	assert.Equal(t, []byte{'a', 'b', 0, 0xff, '\\', 'c'}, got)

	_, err = kuzu.UnescapeBlob([]byte(`\xZZ`))
	assert.ErrorIs(t, err, kuzu.ErrTypeMismatchAccess)
}
