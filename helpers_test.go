package kuzu_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	kuzu "github.com/semihalev/go-kuzu"
	"github.com/semihalev/go-kuzu/kuzutest"
)

// openTestDB opens an in-memory database on a fresh fake engine. The
// cleanup closes everything and checks that no handle leaked.
func openTestDB(t *testing.T, opts ...kuzutest.Option) (*kuzu.Connection, *kuzutest.Engine) {
	t.Helper()
	e := kuzutest.NewEngine(opts...)
	db, err := kuzu.Open(":memory:", kuzu.WithEngine(e))
	require.NoError(t, err)
	conn, err := db.Connect()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
		stats := e.Stats()
		require.Zero(t, stats.Live, "leaked handles")
		require.Zero(t, stats.DoubleDestroys, "double destroys")
		require.Zero(t, stats.BorrowedDestroys, "borrowed values destroyed")
	})
	return conn, e
}

func mustExec(t *testing.T, conn *kuzu.Connection, query string, params ...any) {
	t.Helper()
	require.NoError(t, conn.Exec(query, params...), query)
}

// seedPeople creates a small social graph:
//
//	Alice -KNOWS-> Bob -KNOWS-> Carol -KNOWS-> Dave
func seedPeople(t *testing.T, conn *kuzu.Connection) {
	t.Helper()
	mustExec(t, conn, "CREATE NODE TABLE Person(name STRING, age INT64, PRIMARY KEY(name))")
	mustExec(t, conn, "CREATE REL TABLE Knows(FROM Person TO Person, since INT64)")
	for _, p := range []struct {
		name string
		age  int64
	}{{"Alice", 30}, {"Bob", 25}, {"Carol", 41}, {"Dave", 35}} {
		mustExec(t, conn, "CREATE (:Person {name: $name, age: $age})", map[string]any{"name": p.name, "age": p.age})
	}
	for i, pair := range [][2]string{{"Alice", "Bob"}, {"Bob", "Carol"}, {"Carol", "Dave"}} {
		mustExec(t, conn,
			"MATCH (a:Person), (b:Person) WHERE a.name = $a AND b.name = $b CREATE (a)-[:Knows {since: $since}]->(b)",
			map[string]any{"a": pair[0], "b": pair[1], "since": int64(2020 + i)})
	}
}

func firstRow(t *testing.T, res *kuzu.QueryResult) *kuzu.Row {
	t.Helper()
	require.True(t, res.HasNext())
	row, err := res.Next()
	require.NoError(t, err)
	return row
}
