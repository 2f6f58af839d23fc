package kuzu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kuzu "github.com/semihalev/go-kuzu"
)

func TestNodeAndRelValues(t *testing.T) {
	conn, _ := openTestDB(t)
	seedPeople(t, conn)

	res, err := conn.Query("MATCH (a:Person)-[k:Knows]->(b:Person) WHERE a.name = 'Alice' RETURN a, k, b")
	require.NoError(t, err)
	defer res.Close()
	row := firstRow(t, res)

	a, err := row.Value(0)
	require.NoError(t, err)
	assert.Equal(t, kuzu.TypeNode, a.Type())
	label, err := a.Label()
	require.NoError(t, err)
	assert.Equal(t, "Person", label)
	n, err := a.PropertyCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	first, err := a.PropertyName(0)
	require.NoError(t, err)
	assert.Equal(t, "age", first)
	name, err := a.Property("name")
	require.NoError(t, err)
	s, err := name.GetString()
	require.NoError(t, err)
	assert.Equal(t, "Alice", s)
	_, err = a.Property("email")
	assert.ErrorIs(t, err, kuzu.ErrIndexOutOfRange)
	_, err = a.PropertyName(2)
	assert.ErrorIs(t, err, kuzu.ErrIndexOutOfRange)
	_, err = a.SrcID()
	assert.ErrorIs(t, err, kuzu.ErrTypeMismatchAccess)

	node, err := a.Node()
	require.NoError(t, err)
	assert.Equal(t, kuzu.Node{
		ID:         kuzu.InternalID{TableID: 0, Offset: 0},
		Label:      "Person",
		Properties: map[string]any{"name": "Alice", "age": int64(30)},
	}, node)

	k, err := row.Value(1)
	require.NoError(t, err)
	rel, err := k.Rel()
	require.NoError(t, err)
	assert.Equal(t, kuzu.Rel{
		ID:         kuzu.InternalID{TableID: 1, Offset: 0},
		Src:        kuzu.InternalID{TableID: 0, Offset: 0},
		Dst:        kuzu.InternalID{TableID: 0, Offset: 1},
		Label:      "Knows",
		Properties: map[string]any{"since": int64(2020)},
	}, rel)

	bob, err := kuzu.ValueAs[kuzu.Node](row, 2)
	require.NoError(t, err)
	assert.Equal(t, "Bob", bob.Properties["name"])

	id, err := kuzu.ValueAs[kuzu.InternalID](row, 2)
	require.NoError(t, err)
	assert.Equal(t, rel.Dst, id)

	type person struct {
		Name string
		Age  int
	}
	p, err := kuzu.ValueAs[person](row, 0)
	require.NoError(t, err)
	assert.Equal(t, person{Name: "Alice", Age: 30}, p)

	props, err := kuzu.ValueAs[map[string]any](row, 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"since": int64(2020)}, props)
}

type NamedEntity struct {
	Name string
}

// Members promoted through a nil embedded pointer are allocated when a node
// is projected into the struct.
func TestNodeIntoEmbeddedPointer(t *testing.T) {
	conn, _ := openTestDB(t)
	seedPeople(t, conn)

	type person struct {
		*NamedEntity
		Age int64
	}

	res, err := conn.Query("MATCH (p:Person) WHERE p.name = 'Alice' RETURN p")
	require.NoError(t, err)
	defer res.Close()
	row := firstRow(t, res)

	var p person
	require.NotPanics(t, func() {
		p, err = kuzu.ValueAs[person](row, 0)
	})
	require.NoError(t, err)
	require.NotNil(t, p.NamedEntity)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, int64(30), p.Age)

	var scanned person
	require.NoError(t, row.Scan(&scanned))
	require.NotNil(t, scanned.NamedEntity)
	assert.Equal(t, "Alice", scanned.Name)
}

func TestRecursiveRel(t *testing.T) {
	conn, _ := openTestDB(t)
	seedPeople(t, conn)

	res, err := conn.Query("MATCH (a:Person)-[r:Knows*2..3]->(b:Person) WHERE a.name = 'Alice' RETURN r, b.name")
	require.NoError(t, err)
	defer res.Close()
	assert.Equal(t, uint64(2), res.TupleCount())

	type path struct {
		R kuzu.RecursiveRel `kuzu:"r"`
		B string            `kuzu:"b.name"`
	}
	paths, err := kuzu.CollectAs[path](res, kuzu.NamingExact)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	assert.Equal(t, "Carol", paths[0].B)
	require.Len(t, paths[0].R.Nodes, 1)
	assert.Equal(t, "Bob", paths[0].R.Nodes[0].Properties["name"])
	require.Len(t, paths[0].R.Rels, 2)
	assert.Equal(t, int64(2021), paths[0].R.Rels[1].Properties["since"])

	assert.Equal(t, "Dave", paths[1].B)
	assert.Len(t, paths[1].R.Nodes, 2)
	assert.Len(t, paths[1].R.Rels, 3)

	require.NoError(t, res.Reset())
	r, err := firstRow(t, res).Value(0)
	require.NoError(t, err)
	rels, err := r.Rels()
	require.NoError(t, err)
	n, err := rels.Len()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	first, err := rels.Element(0)
	require.NoError(t, err)
	src, err := first.SrcID()
	require.NoError(t, err)
	assert.Equal(t, kuzu.InternalID{}, src)
	_, err = rels.Element(2)
	assert.ErrorIs(t, err, kuzu.ErrIndexOutOfRange)
	_, err = r.Label()
	assert.ErrorIs(t, err, kuzu.ErrTypeMismatchAccess)
}

func TestUndirectedMatch(t *testing.T) {
	conn, _ := openTestDB(t)
	seedPeople(t, conn)

	names, err := kuzu.QueryAs[string](conn, kuzu.NamingExact,
		"MATCH (a:Person)-[:Knows]-(b:Person) WHERE a.name = 'Bob' RETURN b.name")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Alice", "Carol"}, names)
}

func TestContainerValues(t *testing.T) {
	conn, _ := openTestDB(t)

	res, err := conn.Query("RETURN [1, 2, 3] AS l, {name: 'x', n: 1} AS s, map(['a', 'b'], [1, 2]) AS m, [] AS empty")
	require.NoError(t, err)
	defer res.Close()
	row := firstRow(t, res)

	values, err := row.Values()
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, values[0])
	assert.Equal(t, map[string]any{"name": "x", "n": int64(1)}, values[1])
	assert.Equal(t, []kuzu.MapEntry{{Key: "a", Value: int64(1)}, {Key: "b", Value: int64(2)}}, values[2])
	assert.Equal(t, []any{}, values[3])

	ints, err := kuzu.ValueAs[[]int](row, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ints)

	type pair struct {
		Name string
		N    int8
	}
	p, err := kuzu.ValueAs[pair](row, 1)
	require.NoError(t, err)
	assert.Equal(t, pair{Name: "x", N: 1}, p)

	m, err := kuzu.ValueAs[map[string]int](row, 2)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, m)

	l, err := row.ValueByName("l")
	require.NoError(t, err)
	second, err := l.Element(1)
	require.NoError(t, err)
	again, err := l.Element(1)
	require.NoError(t, err)
	assert.Same(t, second, again)
	assert.Equal(t, kuzu.Borrowed, second.Ownership())
	_, err = l.Element(3)
	assert.ErrorIs(t, err, kuzu.ErrIndexOutOfRange)
	_, err = l.Field(0)
	assert.ErrorIs(t, err, kuzu.ErrTypeMismatchAccess)

	s, err := row.Value(1)
	require.NoError(t, err)
	field, err := s.FieldByName("N")
	require.NoError(t, err)
	n, err := field.GetInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = s.FieldByName("missing")
	assert.ErrorIs(t, err, kuzu.ErrIndexOutOfRange)

	_, err = kuzu.ValueAs[int](row, 0)
	assert.Error(t, err)
}
