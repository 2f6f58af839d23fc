package kuzu_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kuzu "github.com/semihalev/go-kuzu"
)

func countPeople(t *testing.T, conn *kuzu.Connection) int64 {
	t.Helper()
	n, err := conn.QueryScalar("MATCH (p:Person) RETURN count(*)")
	require.NoError(t, err)
	return n.(int64)
}

func TestTransactionCommit(t *testing.T) {
	conn, _ := openTestDB(t)
	seedPeople(t, conn)

	tx, err := conn.Begin()
	require.NoError(t, err)
	assert.Same(t, conn, tx.Connection())
	require.NoError(t, tx.Exec("CREATE (:Person {name: 'Eve', age: 22})"))

	res, err := tx.Query("MATCH (p:Person) WHERE p.name = 'Eve' RETURN p.age")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.TupleCount())
	require.NoError(t, res.Close())

	require.NoError(t, tx.Commit())
	assert.Equal(t, int64(5), countPeople(t, conn))

	// finishing twice is a no-op
	require.NoError(t, tx.Commit())
	require.NoError(t, tx.Rollback())
	assert.Equal(t, int64(5), countPeople(t, conn))

	_, err = tx.Query("RETURN 1")
	assert.True(t, kuzu.IsError(err, kuzu.ErrTransaction))
	assert.True(t, kuzu.IsError(tx.Exec("RETURN 1"), kuzu.ErrTransaction))
}

func TestTransactionRollback(t *testing.T) {
	conn, _ := openTestDB(t)
	seedPeople(t, conn)

	tx, err := conn.Begin()
	require.NoError(t, err)
	require.NoError(t, tx.Exec("CREATE (:Person {name: 'Eve', age: 22})"))
	require.NoError(t, tx.Exec("MATCH (a:Person), (b:Person) WHERE a.name = 'Eve' AND b.name = 'Alice' CREATE (a)-[:Knows {since: 2024}]->(b)"))
	require.NoError(t, tx.Rollback())

	assert.Equal(t, int64(4), countPeople(t, conn))
	n, err := conn.QueryScalar("MATCH ()-[k:Knows]->() RETURN count(*)")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	// the rolled back offsets are handed out again
	mustExec(t, conn, "CREATE (:Person {name: 'Frank', age: 50})")
	res, err := conn.Query("MATCH (p:Person) WHERE p.name = 'Frank' RETURN p")
	require.NoError(t, err)
	defer res.Close()
	node, err := kuzu.ValueAs[kuzu.Node](firstRow(t, res), 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), node.ID.Offset)
}

func TestTransact(t *testing.T) {
	conn, _ := openTestDB(t)
	seedPeople(t, conn)

	errAbort := errors.New("abort")
	err := conn.Transact(func(tx *kuzu.Transaction) error {
		if err := tx.Exec("CREATE (:Person {name: 'Eve', age: 22})"); err != nil {
			return err
		}
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)
	assert.Equal(t, int64(4), countPeople(t, conn))

	err = conn.Transact(func(tx *kuzu.Transaction) error {
		return tx.Exec("CREATE (:Person {name: 'Eve', age: 22})")
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), countPeople(t, conn))
}

func TestTransactPanicRollsBack(t *testing.T) {
	conn, _ := openTestDB(t)
	seedPeople(t, conn)

	assert.PanicsWithValue(t, "boom", func() {
		_ = conn.Transact(func(tx *kuzu.Transaction) error {
			if err := tx.Exec("CREATE (:Person {name: 'Eve', age: 22})"); err != nil {
				return err
			}
			panic("boom")
		})
	})
	assert.Equal(t, int64(4), countPeople(t, conn))

	// the connection is usable for a new transaction
	tx, err := conn.Begin()
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())
}

func TestNestedBegin(t *testing.T) {
	conn, _ := openTestDB(t)

	tx, err := conn.Begin()
	require.NoError(t, err)
	_, err = conn.Begin()
	assert.True(t, kuzu.IsError(err, kuzu.ErrTransaction))
	assert.Contains(t, err.Error(), "active transaction")
	require.NoError(t, tx.Rollback())
}

func TestReadOnlyTransaction(t *testing.T) {
	conn, _ := openTestDB(t)
	seedPeople(t, conn)

	mustExec(t, conn, "BEGIN TRANSACTION READ ONLY")
	err := conn.Exec("CREATE (:Person {name: 'Eve', age: 22})")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only transaction")
	mustExec(t, conn, "COMMIT")
	assert.Equal(t, int64(4), countPeople(t, conn))
}
