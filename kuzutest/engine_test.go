package kuzutest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kuzu "github.com/semihalev/go-kuzu"
)

func connect(t *testing.T, e *Engine) (db, conn kuzu.Handle) {
	t.Helper()
	db, err := e.OpenDatabase(":memory:", kuzu.SystemConfig{})
	require.NoError(t, err)
	conn, err = e.Connect(db)
	require.NoError(t, err)
	return db, conn
}

func TestEngineHandleTracking(t *testing.T) {
	e := NewEngine()
	db, conn := connect(t, e)

	res, st := e.Query(conn, "RETURN 1 AS one, [1, 2] AS l")
	require.True(t, st.OK, st.Message)
	row, err := e.Next(res)
	require.NoError(t, err)
	l, err := e.TupleValue(row, 1)
	require.NoError(t, err)
	elem, err := e.ListElement(l, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, e.Stats().Live)

	// borrowed values are released with their owner only
	e.DestroyValue(elem)
	assert.Equal(t, 1, e.Stats().BorrowedDestroys)

	e.DestroyResult(res)
	assert.Equal(t, 2, e.Stats().Live)
	_, err = e.ListSize(l)
	assert.Error(t, err)

	e.DestroyResult(res)
	assert.Equal(t, 1, e.Stats().DoubleDestroys)

	e.Disconnect(conn)
	e.CloseDatabase(db)
	assert.Zero(t, e.Stats().Live)
}

func TestEnginePrepare(t *testing.T) {
	e := NewEngine()
	db, conn := connect(t, e)
	defer e.CloseDatabase(db)
	defer e.Disconnect(conn)

	bad, st := e.Prepare(conn, "RETURN 1; RETURN 2")
	assert.False(t, st.OK)
	e.DestroyStatement(bad)
	assert.Contains(t, st.Message, "prepare multiple statements")

	stmt, st := e.Prepare(conn, "RETURN $a AS a")
	require.True(t, st.OK, st.Message)
	defer e.DestroyStatement(stmt)

	v, err := e.CreateValue(kuzu.Scalar{Type: kuzu.TypeInt64, Int: 7})
	require.NoError(t, err)
	defer e.DestroyValue(v)
	assert.EqualError(t, e.BindValue(stmt, "b", v), "Parameter b not found")

	_, st = e.Execute(conn, stmt)
	assert.False(t, st.OK)
	assert.Contains(t, st.Message, "Parameter a not found")

	require.NoError(t, e.BindValue(stmt, "a", v))
	res, st := e.Execute(conn, stmt)
	require.True(t, st.OK, st.Message)
	defer e.DestroyResult(res)
	assert.Equal(t, uint64(1), e.TupleCount(res))
	name, err := e.ColumnName(res, 0)
	require.NoError(t, err)
	assert.Equal(t, "a", name)
}

func TestEngineWithoutReset(t *testing.T) {
	e := NewEngine(WithoutReset())
	db, conn := connect(t, e)
	defer e.CloseDatabase(db)
	defer e.Disconnect(conn)

	res, st := e.Query(conn, "RETURN 1")
	require.True(t, st.OK, st.Message)
	defer e.DestroyResult(res)
	err := e.ResetIterator(res)
	assert.True(t, kuzu.IsError(err, kuzu.ErrNotSupported))
}

func TestEngineBlobEncoding(t *testing.T) {
	for _, enc := range []kuzu.BlobEncoding{kuzu.BlobRaw, kuzu.BlobEscaped} {
		e := NewEngine(WithBlobEncoding(enc))
		v, err := e.CreateValue(kuzu.Scalar{Type: kuzu.TypeBlob, Bytes: []byte{'a', 0x00, '\\', 0xff}})
		require.NoError(t, err)
		b, got, err := e.ValueBlob(v)
		require.NoError(t, err)
		assert.Equal(t, enc, got)
		if enc == kuzu.BlobRaw {
			assert.Equal(t, []byte{'a', 0x00, '\\', 0xff}, b)
		} else {
			assert.Equal(t, `a\x00\x5C\xFF`, string(b))
		}
		e.DestroyValue(v)
		assert.Zero(t, e.Stats().Live)
	}
}
