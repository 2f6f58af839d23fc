package kuzu

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
)

// PreparedStatement is a parsed and planned query with named parameters.
// A statement that failed to prepare still exists; IsSuccess and
// ErrorMessage describe the failure and Execute reports it.
//
// Bindings are applied to the engine when the statement executes, so binding
// a name the query does not declare is reported by Execute.
type PreparedStatement struct {
	conn    *Connection
	handle  Handle
	query   string
	ok      bool
	message string
	closed  int32

	mu       sync.Mutex
	bindings map[string]*Value
}

// TryPrepare prepares query and never fails: a parse or plan error is
// captured in the returned statement.
func (c *Connection) TryPrepare(query string) *PreparedStatement {
	return c.tryPrepare(context.Background(), query)
}

func (c *Connection) tryPrepare(ctx context.Context, query string) *PreparedStatement {
	s := &PreparedStatement{conn: c, query: query, bindings: make(map[string]*Value)}
	if err := c.check(); err != nil {
		s.message = err.Error()
		return s
	}
	_, span := startSpan(ctx, c.tracer, SpanPrepare, query)
	h, st := c.engine.Prepare(c.handle, query)
	s.handle = h
	s.ok = st.OK
	s.message = st.Message
	if !st.OK {
		if s.message == "" {
			s.message = "failed to prepare statement"
		}
		endSpan(span, NewError(ErrPrepare, s.message))
		logContext(ctx, c.logger).Warn("prepare failed", "query", query, "error", s.message)
		return s
	}
	endSpan(span, nil)
	logContext(ctx, c.logger).Debug("prepared statement", "query", query)
	return s
}

// Prepare prepares query, returning an ErrPrepare error when the engine
// rejects it.
func (c *Connection) Prepare(query string) (*PreparedStatement, error) {
	s := c.TryPrepare(query)
	if !s.ok {
		s.Close()
		return nil, NewError(ErrPrepare, s.message)
	}
	return s, nil
}

// Query returns the text the statement was prepared from.
func (s *PreparedStatement) Query() string {
	return s.query
}

// IsSuccess reports whether the statement prepared successfully.
func (s *PreparedStatement) IsSuccess() bool {
	return s.ok
}

// ErrorMessage returns the prepare error, or "" on success.
func (s *PreparedStatement) ErrorMessage() string {
	if s.ok {
		return ""
	}
	return s.message
}

func (s *PreparedStatement) check() error {
	if atomic.LoadInt32(&s.closed) != 0 {
		return ErrStatementClosed
	}
	return nil
}

// Bind binds x to the parameter name, replacing any previous binding. x may
// be a *Value, which is cloned, or any Go value NewValue accepts.
func (s *PreparedStatement) Bind(name string, x any) error {
	if v, ok := x.(*Value); ok {
		return s.BindValue(name, v)
	}
	if err := s.check(); err != nil {
		return err
	}
	v, err := NewValue(s.conn.engine, x)
	if err != nil {
		return &Error{Type: ErrBind, Message: "parameter " + name, Cause: err}
	}
	return s.store(name, v)
}

// BindValue binds a copy of v to the parameter name. The statement owns the
// copy; v stays owned by the caller.
func (s *PreparedStatement) BindValue(name string, v *Value) error {
	if err := s.check(); err != nil {
		return err
	}
	c, err := v.Clone()
	if err != nil {
		return &Error{Type: ErrBind, Message: "parameter " + name, Cause: err}
	}
	return s.store(name, c)
}

// BindObject binds the exported members of the struct obj points to, or the
// entries of a map with string keys, naming parameters with strategy. A
// member name given in a `kuzu:"name"` tag overrides the strategy and
// `kuzu:"-"` skips the member. If any member cannot be bound nothing is.
func (s *PreparedStatement) BindObject(obj any, strategy NamingStrategy) error {
	if err := s.check(); err != nil {
		return err
	}
	params, err := encodeObject(obj, strategy)
	if err != nil {
		return err
	}
	values := make([]*Value, 0, len(params))
	for _, p := range params {
		v, err := createValue(s.conn.engine, p.scalar)
		if err != nil {
			for _, created := range values {
				created.Close()
			}
			return &Error{Type: ErrBind, Message: "parameter " + p.name, Cause: err}
		}
		values = append(values, v)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		for _, v := range values {
			v.Close()
		}
		return err
	}
	for i, p := range params {
		s.storeLocked(p.name, values[i])
	}
	return nil
}

func (s *PreparedStatement) store(name string, v *Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		v.Close()
		return err
	}
	s.storeLocked(name, v)
	return nil
}

func (s *PreparedStatement) storeLocked(name string, v *Value) {
	if old, ok := s.bindings[name]; ok {
		old.Close()
	}
	s.bindings[name] = v
}

// Binding returns the value currently bound to name.
func (s *PreparedStatement) Binding(name string) (*Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.bindings[name]
	return v, ok
}

// ParameterNames returns the bound parameter names in sorted order.
func (s *PreparedStatement) ParameterNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.bindings))
	for name := range s.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClearBindings releases every bound value.
func (s *PreparedStatement) ClearBindings() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, v := range s.bindings {
		v.Close()
		delete(s.bindings, name)
	}
}

// Execute runs the statement with its current bindings.
func (s *PreparedStatement) Execute() (*QueryResult, error) {
	return s.execute(context.Background())
}

func (s *PreparedStatement) execute(ctx context.Context) (res *QueryResult, err error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if err := s.conn.check(); err != nil {
		return nil, err
	}
	if !s.ok {
		return nil, errorf(ErrExec, "cannot execute statement that failed to prepare: %s", s.message)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return nil, err
	}

	ctx, span := startSpan(ctx, s.conn.tracer, SpanExecute, s.query,
		attribute.Int(AttrParamCount, len(s.bindings)))
	defer func() { endSpan(span, err) }()

	names := make([]string, 0, len(s.bindings))
	for name := range s.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := s.conn.engine.BindValue(s.handle, name, s.bindings[name].handle); err != nil {
			return nil, &Error{Type: ErrExec, Message: "bind parameter " + name, Cause: err}
		}
	}

	h, st := s.conn.engine.Execute(s.conn.handle, s.handle)
	if !st.OK {
		if h != 0 {
			s.conn.engine.DestroyResult(h)
		}
		logContext(ctx, s.conn.logger).Warn("execute failed", "query", s.query, "error", st.Message)
		return nil, NewError(ErrExec, st.Message)
	}
	logContext(ctx, s.conn.logger).Debug("executed statement", "query", s.query, "params", len(names))
	return newQueryResult(s.conn.engine, h), nil
}

// TryExecute runs the statement and reports failure as a value instead of an
// error.
func (s *PreparedStatement) TryExecute() (res *QueryResult, ok bool, message string) {
	res, err := s.Execute()
	if err != nil {
		var kerr *Error
		if errors.As(err, &kerr) && kerr.Cause == nil {
			return nil, false, kerr.Message
		}
		return nil, false, err.Error()
	}
	return res, true, ""
}

// MustExecute is like Execute but panics on failure.
func (s *PreparedStatement) MustExecute() *QueryResult {
	res, err := s.Execute()
	if err != nil {
		panic(err)
	}
	return res
}

// ExecuteContext runs Execute on another goroutine and waits for it or for
// ctx. Cancellation does not stop the engine: a result that arrives after
// ctx is done is closed. Use Connection.Interrupt to abort the query itself.
func (s *PreparedStatement) ExecuteContext(ctx context.Context) (*QueryResult, error) {
	return awaitResult(ctx, func() (*QueryResult, error) { return s.execute(ctx) })
}

func awaitResult(ctx context.Context, run func() (*QueryResult, error)) (*QueryResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	type outcome struct {
		res *QueryResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := run()
		done <- outcome{res, err}
	}()
	select {
	case o := <-done:
		return o.res, o.err
	case <-ctx.Done():
		go func() {
			if o := <-done; o.res != nil {
				o.res.Close()
			}
		}()
		return nil, ctx.Err()
	}
}

// Close releases the statement and its bound values. Calling Close more than
// once is a no-op.
func (s *PreparedStatement) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, v := range s.bindings {
		v.Close()
		delete(s.bindings, name)
	}
	if s.handle != 0 {
		s.conn.engine.DestroyStatement(s.handle)
		s.handle = 0
	}
	return nil
}
