package kuzu

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"
	"weak"
)

// Connection is a session on a Database. Statements and results created
// from a connection must be used by one goroutine at a time.
type Connection struct {
	settings
	db     *Database
	handle Handle
	closed int32
	self   weak.Pointer[Connection]
}

func (c *Connection) check() error {
	if atomic.LoadInt32(&c.closed) != 0 {
		return ErrConnectionClosed
	}
	return nil
}

// Database returns the database the connection belongs to.
func (c *Connection) Database() *Database {
	return c.db
}

// Engine returns the engine behind the connection.
func (c *Connection) Engine() Engine {
	return c.engine
}

// Close closes the connection. Calling Close more than once is a no-op.
func (c *Connection) Close() error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	c.engine.Disconnect(c.handle)
	c.db.forget(c)
	runtime.SetFinalizer(c, nil)
	return nil
}

func (c *Connection) finalize() {
	if atomic.LoadInt32(&c.closed) == 0 {
		c.logger.Warn("connection was not closed")
		c.Close()
	}
}

// Interrupt asks the engine to abort the query running on the connection.
// It is safe to call from another goroutine.
func (c *Connection) Interrupt() {
	if c.check() == nil {
		c.engine.Interrupt(c.handle)
	}
}

// SetQueryTimeout sets the engine timeout for queries on this connection.
// Zero disables it.
func (c *Connection) SetQueryTimeout(d time.Duration) error {
	if err := c.check(); err != nil {
		return err
	}
	if d < 0 {
		return errorf(ErrGeneric, "negative query timeout %s", d)
	}
	if err := c.engine.SetQueryTimeout(c.handle, d); err != nil {
		return &Error{Type: ErrConnection, Message: "set query timeout", Cause: err}
	}
	c.timeout = d
	return nil
}

// Query runs query and returns its result. Each element of params is bound
// with BindObject and NamingExact, so it may be a struct or a
// map[string]any; without params the query is run directly.
func (c *Connection) Query(query string, params ...any) (*QueryResult, error) {
	return c.query(context.Background(), query, params)
}

// QueryContext is Query that stops waiting when ctx is done. The engine is
// not interrupted; see Interrupt.
func (c *Connection) QueryContext(ctx context.Context, query string, params ...any) (*QueryResult, error) {
	return awaitResult(ctx, func() (*QueryResult, error) { return c.query(ctx, query, params) })
}

func (c *Connection) query(ctx context.Context, query string, params []any) (res *QueryResult, err error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	if len(params) > 0 {
		stmt := c.tryPrepare(ctx, query)
		defer stmt.Close()
		if !stmt.IsSuccess() {
			return nil, NewError(ErrPrepare, stmt.ErrorMessage())
		}
		for _, p := range params {
			if err := stmt.BindObject(p, NamingExact); err != nil {
				return nil, err
			}
		}
		return stmt.execute(ctx)
	}

	ctx, span := startSpan(ctx, c.tracer, SpanQuery, query)
	defer func() { endSpan(span, err) }()
	h, st := c.engine.Query(c.handle, query)
	if !st.OK {
		if h != 0 {
			c.engine.DestroyResult(h)
		}
		logContext(ctx, c.logger).Warn("query failed", "query", query, "error", st.Message)
		return nil, NewError(ErrExec, st.Message)
	}
	logContext(ctx, c.logger).Debug("ran query", "query", query)
	return newQueryResult(c.engine, h), nil
}

// Exec runs a statement for its side effects and discards its result.
func (c *Connection) Exec(query string, params ...any) error {
	res, err := c.Query(query, params...)
	if err != nil {
		return err
	}
	return res.Close()
}

// QueryScalar runs query and returns the first value of its first row with
// Value.Interface, or nil when there are no rows.
func (c *Connection) QueryScalar(query string, params ...any) (any, error) {
	res, err := c.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer res.Close()
	if !res.HasNext() {
		return nil, nil
	}
	row, err := res.Next()
	if err != nil {
		return nil, err
	}
	v, err := row.Value(0)
	if err != nil {
		return nil, err
	}
	return v.Interface()
}
