package kuzu

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
	"weak"

	"go.opentelemetry.io/otel/trace"
)

// settings are the knobs shared by databases and the connections they open.
type settings struct {
	engine  Engine
	logger  *slog.Logger
	tracer  trace.Tracer
	timeout time.Duration
}

// Option configures a Database, or a single Connection when passed to
// Database.Connect.
type Option func(*settings)

// WithEngine opens the database on e instead of the native library.
func WithEngine(e Engine) Option {
	return func(s *settings) {
		s.engine = e
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l.With(slog.String("component", "kuzu"))
		}
	}
}

// WithTracer sets the tracer used for prepare, execute and query spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *settings) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithQueryTimeout sets the engine query timeout of new connections.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.timeout = d
	}
}

// Database is an open database. Connections opened from it are closed
// with it.
type Database struct {
	settings
	handle Handle
	cfg    Config
	closed int32

	// Open connections, held weakly so a dropped connection can still be
	// finalized.
	mu    sync.Mutex
	conns map[weak.Pointer[Connection]]struct{}
}

// Open opens the database at path with the engine's default settings. An
// empty path or ":memory:" opens an in-memory database.
func Open(path string, opts ...Option) (*Database, error) {
	cfg := DefaultConfig()
	cfg.Path = path
	return OpenConfig(cfg, opts...)
}

// OpenConfig opens the database described by cfg.
func OpenConfig(cfg Config, opts ...Option) (*Database, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := settings{timeout: cfg.QueryTimeout}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	if s.tracer == nil {
		s.tracer = defaultTracer()
	}
	if s.engine == nil {
		e, err := NativeEngineFrom(cfg.Library)
		if err != nil {
			return nil, err
		}
		s.engine = e
	}

	h, err := s.engine.OpenDatabase(cfg.Path, cfg.System)
	if err != nil {
		return nil, &Error{Type: ErrConnection, Message: "failed to open database " + cfg.Path, Cause: err}
	}
	db := &Database{
		settings: s,
		handle:   h,
		cfg:      cfg,
		conns:    make(map[weak.Pointer[Connection]]struct{}),
	}
	db.logger.Debug("opened database", "path", cfg.Path, "read_only", cfg.System.ReadOnly)

	runtime.SetFinalizer(db, (*Database).finalize)
	return db, nil
}

// Config returns the configuration the database was opened with.
func (db *Database) Config() Config {
	return db.cfg
}

// Engine returns the engine behind the database, for creating values with
// NewValue.
func (db *Database) Engine() Engine {
	return db.engine
}

// Connect opens a connection. opts override the database's options for
// this connection only.
func (db *Database) Connect(opts ...Option) (*Connection, error) {
	if atomic.LoadInt32(&db.closed) != 0 {
		return nil, NewError(ErrConnection, "database is closed")
	}
	s := db.settings
	for _, opt := range opts {
		opt(&s)
	}
	h, err := db.engine.Connect(db.handle)
	if err != nil {
		return nil, &Error{Type: ErrConnection, Message: "failed to connect", Cause: err}
	}
	c := &Connection{db: db, settings: s, handle: h}
	if s.timeout > 0 {
		if err := c.SetQueryTimeout(s.timeout); err != nil {
			db.engine.Disconnect(h)
			return nil, err
		}
	}

	c.self = weak.Make(c)
	db.mu.Lock()
	db.conns[c.self] = struct{}{}
	db.mu.Unlock()

	runtime.SetFinalizer(c, (*Connection).finalize)
	return c, nil
}

func (db *Database) forget(c *Connection) {
	db.mu.Lock()
	delete(db.conns, c.self)
	db.mu.Unlock()
}

// Close closes every open connection and then the database. Calling Close
// more than once is a no-op.
func (db *Database) Close() error {
	if !atomic.CompareAndSwapInt32(&db.closed, 0, 1) {
		return nil
	}
	db.mu.Lock()
	conns := make([]*Connection, 0, len(db.conns))
	for p := range db.conns {
		if c := p.Value(); c != nil {
			conns = append(conns, c)
		}
	}
	db.mu.Unlock()
	for _, c := range conns {
		c.Close()
	}
	db.engine.CloseDatabase(db.handle)
	db.logger.Debug("closed database", "path", db.cfg.Path)
	runtime.SetFinalizer(db, nil)
	return nil
}

func (db *Database) finalize() {
	if atomic.LoadInt32(&db.closed) == 0 {
		db.logger.Warn("database was not closed", "path", db.cfg.Path)
		db.Close()
	}
}
