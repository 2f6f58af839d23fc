package kuzu_test

import (
	"fmt"
	"testing"

	kuzu "github.com/semihalev/go-kuzu"
	"github.com/semihalev/go-kuzu/kuzutest"
)

func openBenchDB(b *testing.B) *kuzu.Connection {
	b.Helper()
	db, err := kuzu.Open(":memory:", kuzu.WithEngine(kuzutest.NewEngine()))
	if err != nil {
		b.Fatalf("failed to open database: %v", err)
	}
	b.Cleanup(func() { db.Close() })
	conn, err := db.Connect()
	if err != nil {
		b.Fatalf("failed to connect: %v", err)
	}
	return conn
}

func BenchmarkQueryScalar(b *testing.B) {
	conn := openBenchDB(b)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		v, err := conn.QueryScalar("RETURN 42")
		if err != nil {
			b.Fatalf("failed to read value: %v", err)
		}
		if v != int64(42) {
			b.Fatalf("expected 42, got %v", v)
		}
	}
}

func BenchmarkBindObject(b *testing.B) {
	conn := openBenchDB(b)
	stmt, err := conn.Prepare("RETURN $user_id, $display_name, $score")
	if err != nil {
		b.Fatalf("failed to prepare: %v", err)
	}
	defer stmt.Close()

	params := struct {
		UserID      int64
		DisplayName string
		Score       float64
	}{1, "alice", 0.5}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if err := stmt.BindObject(params, kuzu.NamingSnakeCase); err != nil {
			b.Fatalf("failed to bind: %v", err)
		}
	}
}

func BenchmarkColumnLookup(b *testing.B) {
	for _, n := range []int{4, 8, 32} {
		names := make([]string, n)
		for i := range names {
			names[i] = fmt.Sprintf("Column_%d", i)
		}
		ci := kuzu.NewColumnIndex(names)
		target := fmt.Sprintf("column_%d", n-1)

		b.Run(fmt.Sprintf("columns=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, ok := ci.Ordinal(target); !ok {
					b.Fatalf("column %s not found", target)
				}
			}
		})
	}
}

func BenchmarkCollectAs(b *testing.B) {
	conn := openBenchDB(b)
	if err := conn.Exec("CREATE NODE TABLE Item(id INT64, name STRING, PRIMARY KEY(id))"); err != nil {
		b.Fatalf("failed to create table: %v", err)
	}
	for i := 0; i < 100; i++ {
		err := conn.Exec("CREATE (:Item {id: $id, name: $name})", map[string]any{"id": i, "name": fmt.Sprintf("item %d", i)})
		if err != nil {
			b.Fatalf("failed to insert: %v", err)
		}
	}

	type item struct {
		ID   int64
		Name string
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		items, err := kuzu.QueryAs[item](conn, kuzu.NamingExact, "MATCH (i:Item) RETURN i.id AS id, i.name AS name")
		if err != nil {
			b.Fatalf("failed to query: %v", err)
		}
		if len(items) != 100 {
			b.Fatalf("expected 100 items, got %d", len(items))
		}
	}
}
