package kuzu

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"math"
	"reflect"
	"sync"

	"github.com/google/uuid"
)

func init() {
	sql.Register("kuzu", &Driver{})
}

// Driver implements database/sql/driver.Driver over the native engine. The
// data source name is the database path; an empty name opens an in-memory
// database.
//
// Queries take named parameters only: pass sql.Named("id", 42) for $id.
type Driver struct{}

// Open opens a database and one connection to it. The database is closed
// with the connection.
func (d *Driver) Open(name string) (driver.Conn, error) {
	c, err := d.OpenConnector(name)
	if err != nil {
		return nil, err
	}
	conn, err := c.Connect(context.Background())
	if err != nil {
		c.(*Connector).Close()
		return nil, err
	}
	conn.(*sqlConn).closeDB = true
	return conn, nil
}

// OpenConnector implements driver.DriverContext. All connections of the
// connector share one database.
func (d *Driver) OpenConnector(name string) (driver.Connector, error) {
	cfg := DefaultConfig()
	cfg.Path = name
	c, err := NewConnector(nil, cfg)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Connector opens connections on one database. It is closed by sql.DB.Close.
type Connector struct {
	cfg  Config
	opts []Option

	once sync.Once
	db   *Database
	err  error
}

// NewConnector returns a connector for sql.OpenDB. A nil engine loads the
// native library named by cfg.Library or found on the default search path.
func NewConnector(e Engine, cfg Config, opts ...Option) (*Connector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if e != nil {
		opts = append([]Option{WithEngine(e)}, opts...)
	}
	return &Connector{cfg: cfg, opts: opts}, nil
}

// Connect implements driver.Connector.
func (c *Connector) Connect(ctx context.Context) (driver.Conn, error) {
	c.once.Do(func() {
		c.db, c.err = OpenConfig(c.cfg, c.opts...)
	})
	if c.err != nil {
		return nil, c.err
	}
	conn, err := c.db.Connect()
	if err != nil {
		return nil, err
	}
	return &sqlConn{conn: conn, naming: c.cfg.NamingStrategy()}, nil
}

// Driver implements driver.Connector.
func (c *Connector) Driver() driver.Driver {
	return &Driver{}
}

// Close closes the shared database.
func (c *Connector) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

var _ io.Closer = (*Connector)(nil)

type sqlConn struct {
	conn    *Connection
	naming  NamingStrategy
	tx      *Transaction
	closeDB bool
}

var (
	_ driver.Conn               = (*sqlConn)(nil)
	_ driver.ConnPrepareContext = (*sqlConn)(nil)
	_ driver.QueryerContext     = (*sqlConn)(nil)
	_ driver.ExecerContext      = (*sqlConn)(nil)
	_ driver.ConnBeginTx        = (*sqlConn)(nil)
	_ driver.Pinger             = (*sqlConn)(nil)
	_ driver.NamedValueChecker  = (*sqlConn)(nil)
)

func (c *sqlConn) Prepare(query string) (driver.Stmt, error) {
	return c.PrepareContext(context.Background(), query)
}

func (c *sqlConn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	if c.conn.check() != nil {
		return nil, driver.ErrBadConn
	}
	stmt, err := c.conn.Prepare(query)
	if err != nil {
		return nil, err
	}
	return &sqlStmt{stmt: stmt}, nil
}

func (c *sqlConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if c.conn.check() != nil {
		return nil, driver.ErrBadConn
	}
	params, err := namedParams(args)
	if err != nil {
		return nil, err
	}
	var res *QueryResult
	if len(params) == 0 {
		res, err = c.conn.QueryContext(ctx, query)
	} else {
		res, err = c.conn.QueryContext(ctx, query, params)
	}
	if err != nil {
		return nil, err
	}
	return &sqlRows{res: res}, nil
}

func (c *sqlConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	rows, err := c.QueryContext(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return driver.ResultNoRows, rows.Close()
}

func (c *sqlConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *sqlConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if c.conn.check() != nil {
		return nil, driver.ErrBadConn
	}
	if sql.IsolationLevel(opts.Isolation) != sql.LevelDefault && sql.IsolationLevel(opts.Isolation) != sql.LevelSerializable {
		return nil, errorf(ErrNotSupported, "isolation level %s", sql.IsolationLevel(opts.Isolation))
	}
	if opts.ReadOnly {
		if err := c.conn.Exec("BEGIN TRANSACTION READ ONLY"); err != nil {
			return nil, &Error{Type: ErrTransaction, Message: "begin", Cause: err}
		}
		return &Transaction{conn: c.conn}, nil
	}
	return c.conn.Begin()
}

func (c *sqlConn) Ping(ctx context.Context) error {
	if c.conn.check() != nil {
		return driver.ErrBadConn
	}
	return nil
}

// CheckNamedValue passes every value the binder can encode through
// unchanged and leaves the rest to the default converter.
func (c *sqlConn) CheckNamedValue(nv *driver.NamedValue) error {
	if nv.Value == nil {
		return nil
	}
	if _, err := scalarOf(reflect.ValueOf(nv.Value)); err == nil {
		return nil
	}
	return driver.ErrSkip
}

func (c *sqlConn) Close() error {
	err := c.conn.Close()
	if c.closeDB {
		c.conn.Database().Close()
	}
	return err
}

func namedParams(args []driver.NamedValue) (map[string]any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	params := make(map[string]any, len(args))
	for _, a := range args {
		if a.Name == "" {
			return nil, errorf(ErrBind, "positional parameter %d is not supported, use sql.Named", a.Ordinal)
		}
		params[a.Name] = a.Value
	}
	return params, nil
}

type sqlStmt struct {
	stmt *PreparedStatement
}

func (s *sqlStmt) Close() error {
	return s.stmt.Close()
}

// NumInput returns -1: parameters are named and checked by the engine.
func (s *sqlStmt) NumInput() int {
	return -1
}

func (s *sqlStmt) Exec(args []driver.Value) (driver.Result, error) {
	return nil, errorf(ErrBind, "positional parameters are not supported, use sql.Named")
}

func (s *sqlStmt) Query(args []driver.Value) (driver.Rows, error) {
	return nil, errorf(ErrBind, "positional parameters are not supported, use sql.Named")
}

func (s *sqlStmt) bind(args []driver.NamedValue) error {
	params, err := namedParams(args)
	if err != nil {
		return err
	}
	s.stmt.ClearBindings()
	if params != nil {
		return s.stmt.BindObject(params, NamingExact)
	}
	return nil
}

func (s *sqlStmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	if err := s.bind(args); err != nil {
		return nil, err
	}
	res, err := s.stmt.ExecuteContext(ctx)
	if err != nil {
		return nil, err
	}
	return &sqlRows{res: res}, nil
}

func (s *sqlStmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	rows, err := s.QueryContext(ctx, args)
	if err != nil {
		return nil, err
	}
	return driver.ResultNoRows, rows.Close()
}

type sqlRows struct {
	res     *QueryResult
	current *QueryResult
}

var _ driver.RowsNextResultSet = (*sqlRows)(nil)

func (r *sqlRows) cursor() *QueryResult {
	if r.current != nil {
		return r.current
	}
	return r.res
}

func (r *sqlRows) Columns() []string {
	names, _ := r.cursor().ColumnNames()
	return names
}

func (r *sqlRows) Close() error {
	return r.res.Close()
}

func (r *sqlRows) Next(dest []driver.Value) error {
	cur := r.cursor()
	if !cur.HasNext() {
		return io.EOF
	}
	row, err := cur.Next()
	if err != nil {
		return err
	}
	for i := range dest {
		v, err := row.Value(i)
		if err != nil {
			return err
		}
		x, err := v.Interface()
		if err != nil {
			return err
		}
		dest[i] = driverValue(x)
	}
	return nil
}

func (r *sqlRows) HasNextResultSet() bool {
	return r.cursor().HasNextResult()
}

func (r *sqlRows) NextResultSet() error {
	next, err := r.cursor().NextResult()
	if err != nil {
		return io.EOF
	}
	r.current = next
	return nil
}

// driverValue narrows Value.Interface results to the types database/sql
// converts natively. Graph and container values are passed through for
// scanning into *any.
func driverValue(x any) driver.Value {
	switch v := x.(type) {
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v)
		}
		return v
	case float32:
		return float64(v)
	case Int128:
		if b := v.Big(); b.IsInt64() {
			return b.Int64()
		}
		return v.String()
	case uuid.UUID:
		return v.String()
	case Interval:
		return v.String()
	case InternalID:
		return v.String()
	}
	return x
}
