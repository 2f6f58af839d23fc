// Package kuzutest provides an in-memory kuzu.Engine for tests.
//
// The engine stores nodes and relationships in Go maps and understands a
// small Cypher subset: CREATE of nodes and single relationships, MATCH over
// one-hop and variable-length paths with WHERE conjunctions, RETURN of
// variables, properties, literals, parameters and COUNT(*), and explicit
// transactions. Statements separated by ';' produce chained results.
//
// Every handle it issues is tracked, so tests can assert that a piece of
// code released everything it acquired:
//
//	e := kuzutest.NewEngine()
//	db, _ := kuzu.Open(":memory:", kuzu.WithEngine(e))
//	...
//	db.Close()
//	require.Zero(t, e.Stats().Live)
package kuzutest

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	kuzu "github.com/semihalev/go-kuzu"
)

type objKind uint8

const (
	objDatabase objKind = iota + 1
	objConnection
	objStatement
	objResult
	objTuple
	objValue
)

var objNames = [...]string{"", "database", "connection", "statement", "result", "tuple", "value"}

type object struct {
	kind     objKind
	parent   kuzu.Handle
	children []kuzu.Handle
	owned    bool

	db    *database
	conn  *connection
	stmt  *prepared
	res   *resultData
	tuple []*datum
	val   *datum
}

type database struct {
	path     string
	g        *graph
	readOnly bool
}

type connection struct {
	db      *database
	tx      *txState
	timeout time.Duration
}

type txState struct {
	readOnly bool
	before   snapshot
}

type prepared struct {
	conn   kuzu.Handle
	stmts  []*statement
	params []string
	err    error
	bound  map[string]*datum
}

type resultData struct {
	columns []string
	rows    [][]*datum
	pos     int
	next    *resultData
	err     error
}

// Stats reports the engine's resource accounting.
type Stats struct {
	// Live is the number of handles currently issued and not released.
	Live int
	// Created counts every handle ever issued.
	Created int
	// DoubleDestroys counts destroy calls on handles that were already
	// released, directly or with their parent.
	DoubleDestroys int
	// BorrowedDestroys counts DestroyValue calls on borrowed values.
	BorrowedDestroys int
	// Interrupts counts Interrupt calls.
	Interrupts int
}

// Option configures an Engine.
type Option func(*Engine)

// WithoutReset makes ResetIterator fail, as engines that stream results do.
func WithoutReset() Option {
	return func(e *Engine) { e.noReset = true }
}

// WithBlobEncoding selects how ValueBlob delivers BLOB payloads.
func WithBlobEncoding(enc kuzu.BlobEncoding) Option {
	return func(e *Engine) { e.blobEncoding = enc }
}

// Engine is an in-memory kuzu.Engine. It is safe for concurrent use.
type Engine struct {
	mu      sync.Mutex
	next    kuzu.Handle
	objects map[kuzu.Handle]*object
	stores  map[string]*graph
	stats   Stats

	noReset      bool
	blobEncoding kuzu.BlobEncoding
}

var _ kuzu.Engine = (*Engine)(nil)

var errStale = errors.New("stale handle")

// NewEngine returns an empty engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		objects: make(map[kuzu.Handle]*object),
		stores:  make(map[string]*graph),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Stats returns a snapshot of the resource counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.stats
	s.Live = len(e.objects)
	return s
}

func (e *Engine) addLocked(obj *object) kuzu.Handle {
	e.next++
	h := e.next
	e.objects[h] = obj
	e.stats.Created++
	if obj.parent != 0 {
		if p, ok := e.objects[obj.parent]; ok {
			p.children = append(p.children, h)
		}
	}
	return h
}

func (e *Engine) getLocked(h kuzu.Handle, kind objKind) (*object, error) {
	obj, ok := e.objects[h]
	if !ok {
		return nil, fmt.Errorf("%s %d: %w", objNames[kind], h, errStale)
	}
	if obj.kind != kind {
		return nil, fmt.Errorf("handle %d is a %s, not a %s", h, objNames[obj.kind], objNames[kind])
	}
	return obj, nil
}

func (e *Engine) destroy(h kuzu.Handle, kind objKind) {
	e.mu.Lock()
	defer e.mu.Unlock()
	obj, ok := e.objects[h]
	if !ok || obj.kind != kind {
		e.stats.DoubleDestroys++
		return
	}
	e.dropLocked(h)
}

func (e *Engine) dropLocked(h kuzu.Handle) {
	obj, ok := e.objects[h]
	if !ok {
		return
	}
	delete(e.objects, h)
	for _, c := range obj.children {
		e.dropLocked(c)
	}
}

func (e *Engine) OpenDatabase(path string, cfg kuzu.SystemConfig) (kuzu.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	g := newGraph()
	if path != "" && path != ":memory:" {
		if stored, ok := e.stores[path]; ok {
			g = stored
		} else if cfg.ReadOnly {
			return 0, fmt.Errorf("database %s does not exist", path)
		} else {
			e.stores[path] = g
		}
	}
	db := &database{path: path, g: g, readOnly: cfg.ReadOnly}
	return e.addLocked(&object{kind: objDatabase, db: db}), nil
}

func (e *Engine) CloseDatabase(db kuzu.Handle) { e.destroy(db, objDatabase) }

func (e *Engine) Connect(db kuzu.Handle) (kuzu.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	obj, err := e.getLocked(db, objDatabase)
	if err != nil {
		return 0, err
	}
	return e.addLocked(&object{kind: objConnection, conn: &connection{db: obj.db}}), nil
}

func (e *Engine) Disconnect(conn kuzu.Handle) {
	e.mu.Lock()
	if obj, err := e.getLocked(conn, objConnection); err == nil && obj.conn.tx != nil {
		obj.conn.db.g.restore(obj.conn.tx.before)
		obj.conn.tx = nil
	}
	e.mu.Unlock()
	e.destroy(conn, objConnection)
}

func (e *Engine) Interrupt(conn kuzu.Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.Interrupts++
}

func (e *Engine) SetQueryTimeout(conn kuzu.Handle, timeout time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	obj, err := e.getLocked(conn, objConnection)
	if err != nil {
		return err
	}
	obj.conn.timeout = timeout
	return nil
}

// QueryTimeout returns the timeout last set on conn.
func (e *Engine) QueryTimeout(conn kuzu.Handle) time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	obj, err := e.getLocked(conn, objConnection)
	if err != nil {
		return 0
	}
	return obj.conn.timeout
}

func (e *Engine) Prepare(conn kuzu.Handle, query string) (kuzu.Handle, kuzu.Status) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.getLocked(conn, objConnection); err != nil {
		return 0, kuzu.Status{Message: err.Error()}
	}
	p := &prepared{conn: conn, bound: make(map[string]*datum)}
	p.stmts, p.params, p.err = parse(query)
	if p.err == nil && len(p.stmts) > 1 {
		p.err = errors.New("Connection exception: we do not support prepare multiple statements")
	}
	h := e.addLocked(&object{kind: objStatement, stmt: p})
	if p.err != nil {
		return h, kuzu.Status{Message: p.err.Error()}
	}
	return h, kuzu.Status{OK: true}
}

func (e *Engine) DestroyStatement(stmt kuzu.Handle) { e.destroy(stmt, objStatement) }

func (e *Engine) BindValue(stmt kuzu.Handle, name string, value kuzu.Handle) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.getLocked(stmt, objStatement)
	if err != nil {
		return err
	}
	v, err := e.getLocked(value, objValue)
	if err != nil {
		return err
	}
	if s.stmt.err != nil {
		return s.stmt.err
	}
	if !slices.Contains(s.stmt.params, name) {
		return fmt.Errorf("Parameter %s not found", name)
	}
	s.stmt.bound[name] = v.val.copy()
	return nil
}

func (e *Engine) Execute(conn, stmt kuzu.Handle) (kuzu.Handle, kuzu.Status) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.getLocked(conn, objConnection)
	if err != nil {
		return 0, kuzu.Status{Message: err.Error()}
	}
	s, err := e.getLocked(stmt, objStatement)
	if err != nil {
		return 0, kuzu.Status{Message: err.Error()}
	}
	if s.stmt.err != nil {
		return 0, kuzu.Status{Message: "prepared statement is not valid: " + s.stmt.err.Error()}
	}
	for _, name := range s.stmt.params {
		if _, ok := s.stmt.bound[name]; !ok {
			return 0, kuzu.Status{Message: fmt.Sprintf("Parameter %s not found", name)}
		}
	}
	return e.run(c.conn, s.stmt.stmts, s.stmt.bound)
}

func (e *Engine) Query(conn kuzu.Handle, query string) (kuzu.Handle, kuzu.Status) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.getLocked(conn, objConnection)
	if err != nil {
		return 0, kuzu.Status{Message: err.Error()}
	}
	stmts, _, err := parse(query)
	if err != nil {
		return 0, kuzu.Status{Message: err.Error()}
	}
	return e.run(c.conn, stmts, nil)
}

// run executes stmts in order and chains their results. Execution stops at
// the first failure, whose result carries the error.
func (e *Engine) run(c *connection, stmts []*statement, params map[string]*datum) (kuzu.Handle, kuzu.Status) {
	var head, tail *resultData
	for _, st := range stmts {
		res, err := e.exec(c, st, params)
		if err != nil {
			res = &resultData{err: err}
		}
		if head == nil {
			head = res
		} else {
			tail.next = res
		}
		tail = res
		if err != nil {
			break
		}
	}
	h := e.addLocked(&object{kind: objResult, res: head})
	if head.err != nil {
		return h, kuzu.Status{Message: head.err.Error()}
	}
	return h, kuzu.Status{OK: true}
}

func (e *Engine) exec(c *connection, st *statement, params map[string]*datum) (*resultData, error) {
	g := c.db.g
	if st.writes() {
		switch {
		case c.db.readOnly:
			return nil, errors.New("Connection exception: cannot execute write operations in a read-only database")
		case c.tx != nil && c.tx.readOnly:
			return nil, errors.New("Connection exception: cannot execute write operations in a read-only transaction")
		}
	}
	ev := &evaluator{g: g, params: params}
	switch st.kind {
	case stmtBegin:
		if c.tx != nil {
			return nil, errors.New("Transaction manager exception: connection already has an active transaction")
		}
		c.tx = &txState{readOnly: st.readOnly, before: g.snapshot()}
		return &resultData{}, nil
	case stmtCommit, stmtRollback:
		if c.tx == nil {
			return nil, errors.New("Transaction manager exception: no active transaction")
		}
		if st.kind == stmtRollback {
			g.restore(c.tx.before)
		}
		c.tx = nil
		return &resultData{}, nil
	case stmtDDL:
		g.table(st.table)
		return &resultData{}, nil
	case stmtCreate:
		return &resultData{}, e.atomically(c, func() error { return ev.create(st.create, binding{}) })
	case stmtReturn:
		return ev.project(st, []binding{{}})
	}

	bs, err := ev.match(st.match)
	if err != nil {
		return nil, err
	}
	if bs, err = ev.filter(bs, st.where); err != nil {
		return nil, err
	}
	if len(st.create) > 0 {
		return &resultData{}, e.atomically(c, func() error {
			for _, b := range bs {
				if err := ev.create(st.create, b); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return ev.project(st, bs)
}

// atomically undoes fn's writes when it fails outside a transaction.
func (e *Engine) atomically(c *connection, fn func() error) error {
	g := c.db.g
	before := g.snapshot()
	if err := fn(); err != nil {
		if c.tx == nil {
			g.restore(before)
		}
		return err
	}
	return nil
}

func (e *Engine) result(h kuzu.Handle) (*resultData, error) {
	obj, err := e.getLocked(h, objResult)
	if err != nil {
		return nil, err
	}
	return obj.res, nil
}

func (e *Engine) DestroyResult(res kuzu.Handle) { e.destroy(res, objResult) }

func (e *Engine) ColumnCount(res kuzu.Handle) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, err := e.result(res)
	if err != nil {
		return 0
	}
	return len(r.columns)
}

func (e *Engine) ColumnName(res kuzu.Handle, i int) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, err := e.result(res)
	if err != nil {
		return "", err
	}
	if i < 0 || i >= len(r.columns) {
		return "", fmt.Errorf("column %d out of range", i)
	}
	return r.columns[i], nil
}

func (e *Engine) TupleCount(res kuzu.Handle) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, err := e.result(res)
	if err != nil {
		return 0
	}
	return uint64(len(r.rows))
}

func (e *Engine) HasNext(res kuzu.Handle) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, err := e.result(res)
	return err == nil && r.pos < len(r.rows)
}

func (e *Engine) Next(res kuzu.Handle) (kuzu.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, err := e.result(res)
	if err != nil {
		return 0, err
	}
	if r.pos >= len(r.rows) {
		return 0, errors.New("no more tuples")
	}
	row := r.rows[r.pos]
	r.pos++
	return e.addLocked(&object{kind: objTuple, parent: res, tuple: row}), nil
}

func (e *Engine) HasNextResult(res kuzu.Handle) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, err := e.result(res)
	return err == nil && r.next != nil
}

func (e *Engine) NextResult(res kuzu.Handle) (kuzu.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, err := e.result(res)
	if err != nil {
		return 0, err
	}
	if r.next == nil {
		return 0, errors.New("no more query results")
	}
	if r.next.err != nil {
		return 0, r.next.err
	}
	return e.addLocked(&object{kind: objResult, res: r.next}), nil
}

func (e *Engine) ResetIterator(res kuzu.Handle) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, err := e.result(res)
	if err != nil {
		return err
	}
	if e.noReset {
		return kuzu.NewError(kuzu.ErrNotSupported, "result iterator cannot be reset")
	}
	r.pos = 0
	return nil
}

func (e *Engine) ResultString(res kuzu.Handle) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, err := e.result(res)
	if err != nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.Join(r.columns, "|"))
	b.WriteByte('\n')
	for _, row := range r.rows {
		b.WriteString(rowString(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func rowString(row []*datum) string {
	parts := make([]string, len(row))
	for i, d := range row {
		parts[i] = d.String()
	}
	return strings.Join(parts, "|")
}

func (e *Engine) DestroyTuple(row kuzu.Handle) { e.destroy(row, objTuple) }

func (e *Engine) TupleValue(row kuzu.Handle, i int) (kuzu.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	obj, err := e.getLocked(row, objTuple)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= len(obj.tuple) {
		return 0, fmt.Errorf("value %d out of range", i)
	}
	return e.addLocked(&object{kind: objValue, parent: row, val: obj.tuple[i]}), nil
}

func (e *Engine) TupleString(row kuzu.Handle) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	obj, err := e.getLocked(row, objTuple)
	if err != nil {
		return ""
	}
	return rowString(obj.tuple)
}

func (e *Engine) CreateValue(s kuzu.Scalar) (kuzu.Handle, error) {
	switch {
	case s.Type == kuzu.TypeAny && !s.Null:
		return 0, errors.New("cannot create a non-null ANY value")
	case s.Type.IsContainer():
		return 0, fmt.Errorf("cannot create %s values from a scalar", s.Type)
	}
	if s.Bytes != nil {
		s.Bytes = append([]byte(nil), s.Bytes...)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addLocked(&object{kind: objValue, owned: true, val: scalarDatum(s)}), nil
}

func (e *Engine) CloneValue(v kuzu.Handle) (kuzu.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	obj, err := e.getLocked(v, objValue)
	if err != nil {
		return 0, err
	}
	return e.addLocked(&object{kind: objValue, owned: true, val: obj.val.copy()}), nil
}

func (e *Engine) DestroyValue(v kuzu.Handle) {
	e.mu.Lock()
	obj, ok := e.objects[v]
	if ok && obj.kind == objValue && !obj.owned {
		e.stats.BorrowedDestroys++
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()
	e.destroy(v, objValue)
}

func (e *Engine) value(v kuzu.Handle) (*datum, error) {
	obj, err := e.getLocked(v, objValue)
	if err != nil {
		return nil, err
	}
	return obj.val, nil
}

func (e *Engine) ValueType(v kuzu.Handle) kuzu.DataType {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.value(v)
	if err != nil {
		return kuzu.TypeAny
	}
	return d.typ
}

func (e *Engine) ValueIsNull(v kuzu.Handle) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.value(v)
	return err != nil || d.null
}

func (e *Engine) ValueSetNull(v kuzu.Handle, null bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	obj, err := e.getLocked(v, objValue)
	if err != nil {
		return
	}
	// values read from tuples share storage with the graph
	d := obj.val.copy()
	d.null = null
	d.scalar.Null = null
	obj.val = d
}

func (e *Engine) ValueScalar(v kuzu.Handle) (kuzu.Scalar, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.value(v)
	if err != nil {
		return kuzu.Scalar{}, err
	}
	if !d.isScalar() {
		return kuzu.Scalar{}, fmt.Errorf("%s is not a scalar type", d.typ)
	}
	return d.scalar, nil
}

func (e *Engine) ValueBlob(v kuzu.Handle) ([]byte, kuzu.BlobEncoding, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.value(v)
	if err != nil {
		return nil, e.blobEncoding, err
	}
	if d.typ != kuzu.TypeBlob {
		return nil, e.blobEncoding, fmt.Errorf("%s is not BLOB", d.typ)
	}
	if e.blobEncoding == kuzu.BlobEscaped {
		return []byte(escapeBlob(d.scalar.Bytes)), kuzu.BlobEscaped, nil
	}
	return append([]byte(nil), d.scalar.Bytes...), kuzu.BlobRaw, nil
}

func (e *Engine) ValueString(v kuzu.Handle) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.value(v)
	if err != nil {
		return ""
	}
	return d.String()
}

// child registers c as a borrowed value of v.
func (e *Engine) child(v kuzu.Handle, c *datum) kuzu.Handle {
	return e.addLocked(&object{kind: objValue, parent: v, val: c})
}

func (e *Engine) container(v kuzu.Handle, types ...kuzu.DataType) (*datum, error) {
	d, err := e.value(v)
	if err != nil {
		return nil, err
	}
	for _, t := range types {
		if d.typ == t {
			if d.null {
				return nil, fmt.Errorf("%s value is null", d.typ)
			}
			return d, nil
		}
	}
	return nil, fmt.Errorf("%s value has no such accessor", d.typ)
}

func (e *Engine) ListSize(v kuzu.Handle) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.container(v, kuzu.TypeList, kuzu.TypeArray)
	if err != nil {
		return 0, err
	}
	return len(d.elems), nil
}

func (e *Engine) ListElement(v kuzu.Handle, i int) (kuzu.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.container(v, kuzu.TypeList, kuzu.TypeArray)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= len(d.elems) {
		return 0, fmt.Errorf("list index %d out of range", i)
	}
	return e.child(v, d.elems[i]), nil
}

func (e *Engine) StructFieldCount(v kuzu.Handle) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.container(v, kuzu.TypeStruct)
	if err != nil {
		return 0, err
	}
	return len(d.names), nil
}

func (e *Engine) StructFieldName(v kuzu.Handle, i int) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.container(v, kuzu.TypeStruct)
	if err != nil {
		return "", err
	}
	if i < 0 || i >= len(d.names) {
		return "", fmt.Errorf("field index %d out of range", i)
	}
	return d.names[i], nil
}

func (e *Engine) StructFieldValue(v kuzu.Handle, i int) (kuzu.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.container(v, kuzu.TypeStruct)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= len(d.fields) {
		return 0, fmt.Errorf("field index %d out of range", i)
	}
	return e.child(v, d.fields[i]), nil
}

func (e *Engine) MapSize(v kuzu.Handle) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.container(v, kuzu.TypeMap)
	if err != nil {
		return 0, err
	}
	return len(d.keys), nil
}

func (e *Engine) MapKey(v kuzu.Handle, i int) (kuzu.Handle, error) {
	return e.mapPart(v, i, true)
}

func (e *Engine) MapValue(v kuzu.Handle, i int) (kuzu.Handle, error) {
	return e.mapPart(v, i, false)
}

func (e *Engine) mapPart(v kuzu.Handle, i int, key bool) (kuzu.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.container(v, kuzu.TypeMap)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= len(d.keys) {
		return 0, fmt.Errorf("map index %d out of range", i)
	}
	if key {
		return e.child(v, d.keys[i]), nil
	}
	return e.child(v, d.vals[i]), nil
}

func (e *Engine) graphValue(v kuzu.Handle, types ...kuzu.DataType) (*datum, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.container(v, types...)
}

func (e *Engine) NodeID(v kuzu.Handle) (kuzu.InternalID, error) {
	d, err := e.graphValue(v, kuzu.TypeNode)
	if err != nil {
		return kuzu.InternalID{}, err
	}
	return d.id, nil
}

func (e *Engine) NodeLabel(v kuzu.Handle) (string, error) {
	d, err := e.graphValue(v, kuzu.TypeNode)
	if err != nil {
		return "", err
	}
	return d.label, nil
}

func (e *Engine) RelID(v kuzu.Handle) (kuzu.InternalID, error) {
	d, err := e.graphValue(v, kuzu.TypeRel)
	if err != nil {
		return kuzu.InternalID{}, err
	}
	return d.id, nil
}

func (e *Engine) RelSrcID(v kuzu.Handle) (kuzu.InternalID, error) {
	d, err := e.graphValue(v, kuzu.TypeRel)
	if err != nil {
		return kuzu.InternalID{}, err
	}
	return d.src, nil
}

func (e *Engine) RelDstID(v kuzu.Handle) (kuzu.InternalID, error) {
	d, err := e.graphValue(v, kuzu.TypeRel)
	if err != nil {
		return kuzu.InternalID{}, err
	}
	return d.dst, nil
}

func (e *Engine) RelLabel(v kuzu.Handle) (string, error) {
	d, err := e.graphValue(v, kuzu.TypeRel)
	if err != nil {
		return "", err
	}
	return d.label, nil
}

func (e *Engine) PropertyCount(v kuzu.Handle) (int, error) {
	d, err := e.graphValue(v, kuzu.TypeNode, kuzu.TypeRel)
	if err != nil {
		return 0, err
	}
	return len(d.names), nil
}

func (e *Engine) PropertyName(v kuzu.Handle, i int) (string, error) {
	d, err := e.graphValue(v, kuzu.TypeNode, kuzu.TypeRel)
	if err != nil {
		return "", err
	}
	if i < 0 || i >= len(d.names) {
		return "", fmt.Errorf("property index %d out of range", i)
	}
	return d.names[i], nil
}

func (e *Engine) PropertyValue(v kuzu.Handle, i int) (kuzu.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.container(v, kuzu.TypeNode, kuzu.TypeRel)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= len(d.fields) {
		return 0, fmt.Errorf("property index %d out of range", i)
	}
	return e.child(v, d.fields[i]), nil
}

func (e *Engine) RecursiveRelNodes(v kuzu.Handle) (kuzu.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.container(v, kuzu.TypeRecursiveRel)
	if err != nil {
		return 0, err
	}
	return e.child(v, d.nodes), nil
}

func (e *Engine) RecursiveRelRels(v kuzu.Handle) (kuzu.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.container(v, kuzu.TypeRecursiveRel)
	if err != nil {
		return 0, err
	}
	return e.child(v, d.rels), nil
}
