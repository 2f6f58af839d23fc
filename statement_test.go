package kuzu_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kuzu "github.com/semihalev/go-kuzu"
)

func TestTryPrepareFailure(t *testing.T) {
	conn, _ := openTestDB(t)

	stmt := conn.TryPrepare("MATCH (a RETURN a")
	defer stmt.Close()
	assert.False(t, stmt.IsSuccess())
	assert.Contains(t, stmt.ErrorMessage(), "Parser exception")
	assert.Equal(t, "MATCH (a RETURN a", stmt.Query())

	_, err := stmt.Execute()
	assert.ErrorIs(t, err, kuzu.ErrExecutionFailed)
	_, ok, msg := stmt.TryExecute()
	assert.False(t, ok)
	assert.Contains(t, msg, "failed to prepare")

	_, err = conn.Prepare("RETURN 1; RETURN 2")
	assert.ErrorIs(t, err, kuzu.ErrPrepareFailed)
	assert.Contains(t, err.Error(), "multiple statements")
}

func TestExecuteBindingErrors(t *testing.T) {
	conn, _ := openTestDB(t)

	stmt, err := conn.Prepare("RETURN $a")
	require.NoError(t, err)
	defer stmt.Close()
	assert.True(t, stmt.IsSuccess())
	assert.Empty(t, stmt.ErrorMessage())

	_, err = stmt.Execute()
	assert.ErrorIs(t, err, kuzu.ErrExecutionFailed)
	assert.Contains(t, err.Error(), "Parameter a not found")

	// names the query does not declare are reported when executing
	require.NoError(t, stmt.Bind("a", 1))
	require.NoError(t, stmt.Bind("b", 2))
	_, ok, msg := stmt.TryExecute()
	assert.False(t, ok)
	assert.Contains(t, msg, "Parameter b not found")

	stmt.ClearBindings()
	assert.Empty(t, stmt.ParameterNames())
	require.NoError(t, stmt.Bind("a", "x"))
	res := stmt.MustExecute()
	row, err := res.Next()
	require.NoError(t, err)
	s, err := kuzu.ValueAs[string](row, 0)
	require.NoError(t, err)
	assert.Equal(t, "x", s)
	res.Close()
}

func TestMustExecutePanics(t *testing.T) {
	conn, _ := openTestDB(t)
	stmt := conn.TryPrepare("RETURN")
	defer stmt.Close()
	assert.Panics(t, func() { stmt.MustExecute() })
}

func TestStatementClose(t *testing.T) {
	conn, e := openTestDB(t)
	live := e.Stats().Live

	stmt, err := conn.Prepare("RETURN $a")
	require.NoError(t, err)
	require.NoError(t, stmt.Bind("a", 1))
	require.NoError(t, stmt.Close())
	require.NoError(t, stmt.Close())
	assert.Equal(t, live, e.Stats().Live)

	assert.ErrorIs(t, stmt.Bind("a", 2), kuzu.ErrStatementClosed)
	_, err = stmt.Execute()
	assert.ErrorIs(t, err, kuzu.ErrStatementClosed)
}

func TestExecuteContext(t *testing.T) {
	conn, _ := openTestDB(t)
	stmt, err := conn.Prepare("RETURN 1")
	require.NoError(t, err)
	defer stmt.Close()

	res, err := stmt.ExecuteContext(context.Background())
	require.NoError(t, err)
	res.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = stmt.ExecuteContext(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// Closing a statement while executions are in flight either lets them
// finish or fails them with ErrStatementClosed, and leaks no handles.
func TestStatementCloseDuringExecute(t *testing.T) {
	conn, e := openTestDB(t)
	live := e.Stats().Live

	for range 50 {
		stmt, err := conn.Prepare("RETURN $a")
		require.NoError(t, err)
		require.NoError(t, stmt.Bind("a", 1))

		var wg sync.WaitGroup
		errs := make(chan error, 8)
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := stmt.ExecuteContext(context.Background())
				if err != nil {
					errs <- err
					return
				}
				res.Close()
			}()
		}
		require.NoError(t, stmt.Close())
		wg.Wait()
		close(errs)
		for err := range errs {
			assert.ErrorIs(t, err, kuzu.ErrStatementClosed)
		}
		assert.ErrorIs(t, stmt.Bind("a", 2), kuzu.ErrStatementClosed)
	}
	assert.Equal(t, live, e.Stats().Live)
}

func TestClosedConnection(t *testing.T) {
	conn, _ := openTestDB(t)
	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close())

	_, err := conn.Query("RETURN 1")
	assert.ErrorIs(t, err, kuzu.ErrConnectionClosed)
	stmt := conn.TryPrepare("RETURN 1")
	assert.False(t, stmt.IsSuccess())
	stmt.Close()
	assert.ErrorIs(t, conn.SetQueryTimeout(0), kuzu.ErrConnectionClosed)
}

func TestQueryTimeoutOption(t *testing.T) {
	conn, e := openTestDB(t)
	db := conn.Database()

	c2, err := db.Connect(kuzu.WithQueryTimeout(1500*time.Millisecond))
	require.NoError(t, err)
	defer c2.Close()
	require.NoError(t, c2.SetQueryTimeout(0))

	c2.Interrupt()
	assert.Equal(t, 1, e.Stats().Interrupts)
}

func TestPrepareBindExecute(t *testing.T) {
	conn, _ := openTestDB(t)
	mustExec(t, conn, "CREATE NODE TABLE P(id INT64, name STRING, PRIMARY KEY(id))")
	mustExec(t, conn, "CREATE (:P {id: 41, name: 'Grace'})")
	mustExec(t, conn, "CREATE (:P {id: 42, name: 'Ada'})")

	stmt, err := conn.Prepare("MATCH (p) WHERE p.id=$id RETURN p.name")
	require.NoError(t, err)
	defer stmt.Close()
	require.NoError(t, stmt.Bind("id", 42))

	res, err := stmt.Execute()
	require.NoError(t, err)
	defer res.Close()
	assert.Equal(t, uint64(1), res.TupleCount())
	name, err := kuzu.ValueAsByName[string](firstRow(t, res), "p.name")
	require.NoError(t, err)
	assert.Equal(t, "Ada", name)

	// rebinding reuses the prepared plan
	require.NoError(t, stmt.Bind("id", 41))
	res2, err := stmt.Execute()
	require.NoError(t, err)
	defer res2.Close()
	name, err = kuzu.ValueAs[string](firstRow(t, res2), 0)
	require.NoError(t, err)
	assert.Equal(t, "Grace", name)
}

func TestBindObjectSnakeCaseName(t *testing.T) {
	conn, _ := openTestDB(t)

	stmt, err := conn.Prepare("RETURN $user_id AS id")
	require.NoError(t, err)
	defer stmt.Close()
	require.NoError(t, stmt.BindObject(struct{ UserId int64 }{UserId: 7}, kuzu.NamingSnakeCase))

	v, ok := stmt.Binding("user_id")
	require.True(t, ok)
	n, err := v.GetInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, []string{"user_id"}, stmt.ParameterNames())

	res, err := stmt.Execute()
	require.NoError(t, err)
	defer res.Close()
	id, err := kuzu.ValueAsByName[int64](firstRow(t, res), "ID")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}
