package kuzu_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kuzu "github.com/semihalev/go-kuzu"
)

type personRow struct {
	Name    string
	Age     int
	Friends *int64 `kuzu:"friend_count"`
}

func TestScanStruct(t *testing.T) {
	conn, _ := openTestDB(t)
	seedPeople(t, conn)

	res, err := conn.Query("MATCH (p:Person) WHERE p.name = 'Carol' RETURN p.name AS NAME, p.age AS age")
	require.NoError(t, err)
	defer res.Close()
	row := firstRow(t, res)

	var p personRow
	require.NoError(t, row.ScanStruct(&p, kuzu.NamingExact))
	assert.Equal(t, "Carol", p.Name)
	assert.Equal(t, 41, p.Age)
	assert.Nil(t, p.Friends, "members without a column stay untouched")

	err = row.ScanStruct(p, kuzu.NamingExact)
	assert.ErrorIs(t, err, kuzu.ErrTypeMismatchAccess)

	var wrong struct{ Name int }
	err = row.ScanStruct(&wrong, kuzu.NamingExact)
	assert.ErrorIs(t, err, kuzu.ErrTypeMismatchAccess)
	assert.Contains(t, err.Error(), "scan column Name")
}

func TestCollectAs(t *testing.T) {
	conn, _ := openTestDB(t)
	seedPeople(t, conn)

	type Extra struct {
		Age int64
	}
	type person struct {
		FullName string `kuzu:"name"`
		*Extra
	}

	res, err := conn.Query("MATCH (p:Person) RETURN p.name AS name, p.age AS age")
	require.NoError(t, err)
	defer res.Close()

	people, err := kuzu.CollectAs[person](res, kuzu.NamingExact)
	require.NoError(t, err)
	require.Len(t, people, 4)
	assert.Equal(t, "Alice", people[0].FullName)
	require.NotNil(t, people[0].Extra)
	assert.Equal(t, int64(30), people[0].Age)
	assert.Equal(t, "Dave", people[3].FullName)

	require.NoError(t, res.Reset())
	names, err := kuzu.CollectAs[string](res, kuzu.NamingExact)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob", "Carol", "Dave"}, names)
}

func TestQueryAs(t *testing.T) {
	conn, _ := openTestDB(t)
	seedPeople(t, conn)

	type friendship struct {
		FromName  string
		ToName    string
		SinceYear int32
	}
	rows, err := kuzu.QueryAs[friendship](conn, kuzu.NamingSnakeCase,
		"MATCH (a:Person)-[k:Knows]->(b:Person) WHERE k.since >= $year RETURN a.name AS from_name, b.name AS to_name, k.since AS since_year",
		map[string]any{"year": 2021})
	require.NoError(t, err)
	assert.Equal(t, []friendship{
		{FromName: "Bob", ToName: "Carol", SinceYear: 2021},
		{FromName: "Carol", ToName: "Dave", SinceYear: 2022},
	}, rows)

	_, err = kuzu.QueryAs[int](conn, kuzu.NamingExact, "MATCH (p:Person) RETURN p.nickname")
	assert.Error(t, err)
}

func TestProjectionPlanCache(t *testing.T) {
	conn, _ := openTestDB(t)
	seedPeople(t, conn)

	type cached struct {
		Name string
		Age  int
	}
	query := "MATCH (p:Person) RETURN p.name AS name, p.age AS age"
	_, err := kuzu.QueryAs[cached](conn, kuzu.NamingExact, query)
	require.NoError(t, err)
	before := kuzu.PlanCacheSize()

	for range 3 {
		out, err := kuzu.QueryAs[cached](conn, kuzu.NamingExact, query)
		require.NoError(t, err)
		require.Len(t, out, 4)
	}
	assert.Equal(t, before, kuzu.PlanCacheSize())

	_, err = kuzu.QueryAs[cached](conn, kuzu.NamingExact, "MATCH (p:Person) RETURN p.age AS age, p.name AS name")
	require.NoError(t, err)
	assert.Equal(t, before+1, kuzu.PlanCacheSize())
}

func TestRowScan(t *testing.T) {
	conn, _ := openTestDB(t)
	seedPeople(t, conn)

	res, err := conn.Query("MATCH (p:Person) WHERE p.name = 'Bob' RETURN p.name, p.age, NULL")
	require.NoError(t, err)
	defer res.Close()
	row := firstRow(t, res)

	var (
		name  string
		age   uint8
		empty sql.NullString
	)
	require.NoError(t, row.Scan(&name, &age, &empty))
	assert.Equal(t, "Bob", name)
	assert.Equal(t, uint8(25), age)
	assert.False(t, empty.Valid)

	err = row.Scan(&name)
	assert.ErrorIs(t, err, kuzu.ErrIndexOutOfRange)

	var notNull string
	err = row.Scan(&name, &age, &notNull)
	assert.ErrorIs(t, err, kuzu.ErrTypeMismatchAccess)

	age2, err := kuzu.ValueAsByName[int64](row, "P.AGE")
	require.NoError(t, err)
	assert.Equal(t, int64(25), age2)
}
