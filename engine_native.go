package kuzu

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"github.com/ebitengine/purego"
)

type objectKind uint8

const (
	kindDatabase objectKind = iota + 1
	kindConnection
	kindStatement
	kindResult
	kindTuple
	kindValue
)

var kindNames = [...]string{"", "database", "connection", "statement", "result", "tuple", "value"}

func (k objectKind) String() string { return kindNames[k] }

// nativeObject is one entry of the handle table. ptr is the address handed
// to the C API; mem keeps the Go allocation behind it reachable.
type nativeObject struct {
	kind     objectKind
	ptr      uintptr
	mem      any
	owned    bool
	tag      DataType
	tagKnown bool
	parent   Handle
	children []Handle
}

// nativeEngine implements Engine on top of the shared library's C API.
// Borrowed children are registered under their parent and dropped with it.
type nativeEngine struct {
	lib *nativeLibrary

	mu      sync.Mutex
	next    Handle
	objects map[Handle]*nativeObject
}

var errStaleHandle = errors.New("stale handle")

func newNativeEngine(lib *nativeLibrary) Engine {
	return &nativeEngine{lib: lib, objects: make(map[Handle]*nativeObject)}
}

func (e *nativeEngine) add(obj *nativeObject) Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.next++
	h := e.next
	e.objects[h] = obj
	if obj.parent != 0 {
		if p, ok := e.objects[obj.parent]; ok {
			p.children = append(p.children, h)
		}
	}
	return h
}

func (e *nativeEngine) get(h Handle, kind objectKind) (*nativeObject, error) {
	e.mu.Lock()
	obj, ok := e.objects[h]
	e.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%s %d: %w", kind, h, errStaleHandle)
	}
	if obj.kind != kind {
		return nil, fmt.Errorf("handle %d is a %s, not a %s", h, obj.kind, kind)
	}
	return obj, nil
}

func (e *nativeEngine) ptr(h Handle, kind objectKind) uintptr {
	obj, err := e.get(h, kind)
	if err != nil {
		return 0
	}
	return obj.ptr
}

// remove unregisters h and its borrowed descendants and returns h's entry.
func (e *nativeEngine) remove(h Handle, kind objectKind) *nativeObject {
	e.mu.Lock()
	defer e.mu.Unlock()
	obj, ok := e.objects[h]
	if !ok || obj.kind != kind {
		return nil
	}
	e.dropLocked(h)
	return obj
}

func (e *nativeEngine) dropLocked(h Handle) {
	obj, ok := e.objects[h]
	if !ok {
		return
	}
	delete(e.objects, h)
	for _, c := range obj.children {
		e.dropLocked(c)
	}
}

func (e *nativeEngine) OpenDatabase(path string, cfg SystemConfig) (Handle, error) {
	out := &cDatabase{}
	cpath, keepPath := cString(path)
	args, keepCfg := databaseInitArgs(cpath, uintptr(unsafe.Pointer(out)), cfg)
	r1, _, _ := purego.SyscallN(e.lib.symDatabaseInit, args...)
	runtime.KeepAlive(keepPath)
	runtime.KeepAlive(keepCfg)
	if int32(r1) != kuzuSuccess || out.database == 0 {
		return 0, fmt.Errorf("open database %q failed", path)
	}
	return e.add(&nativeObject{kind: kindDatabase, ptr: uintptr(unsafe.Pointer(out)), mem: out}), nil
}

func (e *nativeEngine) CloseDatabase(db Handle) {
	if obj := e.remove(db, kindDatabase); obj != nil {
		e.lib.databaseDestroy(obj.ptr)
	}
}

func (e *nativeEngine) Connect(db Handle) (Handle, error) {
	dbp, err := e.get(db, kindDatabase)
	if err != nil {
		return 0, err
	}
	out := &cConnection{}
	if e.lib.connectionInit(dbp.ptr, uintptr(unsafe.Pointer(out))) != kuzuSuccess {
		return 0, errors.New("connection init failed")
	}
	return e.add(&nativeObject{kind: kindConnection, ptr: uintptr(unsafe.Pointer(out)), mem: out}), nil
}

func (e *nativeEngine) Disconnect(conn Handle) {
	if obj := e.remove(conn, kindConnection); obj != nil {
		e.lib.connectionDestroy(obj.ptr)
	}
}

func (e *nativeEngine) Interrupt(conn Handle) {
	if p := e.ptr(conn, kindConnection); p != 0 && e.lib.connectionInterrupt != nil {
		e.lib.connectionInterrupt(p)
	}
}

func (e *nativeEngine) SetQueryTimeout(conn Handle, timeout time.Duration) error {
	p := e.ptr(conn, kindConnection)
	if p == 0 {
		return errStaleHandle
	}
	if e.lib.connectionSetQueryTimeout == nil {
		return errors.New("kuzu_connection_set_query_timeout not available")
	}
	if e.lib.connectionSetQueryTimeout(p, uint64(timeout.Milliseconds())) != kuzuSuccess {
		return errors.New("set query timeout failed")
	}
	return nil
}

func (e *nativeEngine) Prepare(conn Handle, query string) (Handle, Status) {
	p := e.ptr(conn, kindConnection)
	if p == 0 {
		return 0, Status{Message: "connection is closed"}
	}
	out := &cPreparedStatement{}
	e.lib.connectionPrepare(p, query, uintptr(unsafe.Pointer(out)))
	if out.statement == 0 {
		return 0, Status{Message: "prepare failed"}
	}
	ptr := uintptr(unsafe.Pointer(out))
	h := e.add(&nativeObject{kind: kindStatement, ptr: ptr, mem: out})
	if !e.lib.preparedStatementIsSuccess(ptr) {
		return h, Status{Message: e.lib.takeString(e.lib.preparedStatementGetErrorMessage(ptr))}
	}
	return h, Status{OK: true}
}

func (e *nativeEngine) DestroyStatement(stmt Handle) {
	if obj := e.remove(stmt, kindStatement); obj != nil {
		e.lib.preparedStatementDestroy(obj.ptr)
	}
}

func (e *nativeEngine) BindValue(stmt Handle, name string, value Handle) error {
	sp, err := e.get(stmt, kindStatement)
	if err != nil {
		return err
	}
	vp, err := e.get(value, kindValue)
	if err != nil {
		return err
	}
	if e.lib.preparedStatementBindValue(sp.ptr, name, vp.ptr) != kuzuSuccess {
		return fmt.Errorf("bind $%s failed", name)
	}
	return nil
}

func (e *nativeEngine) Execute(conn, stmt Handle) (Handle, Status) {
	cp := e.ptr(conn, kindConnection)
	sp := e.ptr(stmt, kindStatement)
	if cp == 0 || sp == 0 {
		return 0, Status{Message: "connection or statement is closed"}
	}
	out := &cQueryResult{}
	e.lib.connectionExecute(cp, sp, uintptr(unsafe.Pointer(out)))
	return e.result(out)
}

func (e *nativeEngine) Query(conn Handle, query string) (Handle, Status) {
	cp := e.ptr(conn, kindConnection)
	if cp == 0 {
		return 0, Status{Message: "connection is closed"}
	}
	out := &cQueryResult{}
	e.lib.connectionQuery(cp, query, uintptr(unsafe.Pointer(out)))
	return e.result(out)
}

func (e *nativeEngine) result(out *cQueryResult) (Handle, Status) {
	if out.result == 0 {
		return 0, Status{Message: "query failed"}
	}
	ptr := uintptr(unsafe.Pointer(out))
	h := e.add(&nativeObject{kind: kindResult, ptr: ptr, mem: out})
	if !e.lib.queryResultIsSuccess(ptr) {
		return h, Status{Message: e.lib.takeString(e.lib.queryResultGetErrorMessage(ptr))}
	}
	return h, Status{OK: true}
}

func (e *nativeEngine) DestroyResult(res Handle) {
	if obj := e.remove(res, kindResult); obj != nil {
		e.lib.queryResultDestroy(obj.ptr)
	}
}

func (e *nativeEngine) ColumnCount(res Handle) int {
	p := e.ptr(res, kindResult)
	if p == 0 {
		return 0
	}
	return int(e.lib.queryResultGetNumColumns(p))
}

func (e *nativeEngine) ColumnName(res Handle, i int) (string, error) {
	p := e.ptr(res, kindResult)
	if p == 0 {
		return "", errStaleHandle
	}
	var name uintptr
	if e.lib.queryResultGetColumnName(p, uint64(i), &name) != kuzuSuccess {
		return "", fmt.Errorf("column %d not available", i)
	}
	return e.lib.takeString(name), nil
}

func (e *nativeEngine) TupleCount(res Handle) uint64 {
	p := e.ptr(res, kindResult)
	if p == 0 {
		return 0
	}
	return e.lib.queryResultGetNumTuples(p)
}

func (e *nativeEngine) HasNext(res Handle) bool {
	p := e.ptr(res, kindResult)
	return p != 0 && e.lib.queryResultHasNext(p)
}

func (e *nativeEngine) Next(res Handle) (Handle, error) {
	p := e.ptr(res, kindResult)
	if p == 0 {
		return 0, errStaleHandle
	}
	out := &cFlatTuple{}
	if e.lib.queryResultGetNext(p, uintptr(unsafe.Pointer(out))) != kuzuSuccess {
		return 0, errors.New("fetch next tuple failed")
	}
	return e.add(&nativeObject{kind: kindTuple, ptr: uintptr(unsafe.Pointer(out)), mem: out, parent: res}), nil
}

func (e *nativeEngine) HasNextResult(res Handle) bool {
	p := e.ptr(res, kindResult)
	return p != 0 && e.lib.queryResultHasNextQueryResult(p)
}

func (e *nativeEngine) NextResult(res Handle) (Handle, error) {
	p := e.ptr(res, kindResult)
	if p == 0 {
		return 0, errStaleHandle
	}
	out := &cQueryResult{}
	if e.lib.queryResultGetNextQueryResult(p, uintptr(unsafe.Pointer(out))) != kuzuSuccess {
		return 0, errors.New("fetch next result failed")
	}
	return e.add(&nativeObject{kind: kindResult, ptr: uintptr(unsafe.Pointer(out)), mem: out}), nil
}

func (e *nativeEngine) ResetIterator(res Handle) error {
	p := e.ptr(res, kindResult)
	if p == 0 {
		return errStaleHandle
	}
	e.lib.queryResultResetIterator(p)
	return nil
}

func (e *nativeEngine) ResultString(res Handle) string {
	p := e.ptr(res, kindResult)
	if p == 0 {
		return ""
	}
	return e.lib.takeString(e.lib.queryResultToString(p))
}

func (e *nativeEngine) DestroyTuple(row Handle) {
	if obj := e.remove(row, kindTuple); obj != nil {
		e.lib.flatTupleDestroy(obj.ptr)
	}
}

func (e *nativeEngine) TupleValue(row Handle, i int) (Handle, error) {
	p := e.ptr(row, kindTuple)
	if p == 0 {
		return 0, errStaleHandle
	}
	return e.borrow(row, func(out uintptr) int32 {
		return e.lib.flatTupleGetValue(p, uint64(i), out)
	})
}

func (e *nativeEngine) TupleString(row Handle) string {
	p := e.ptr(row, kindTuple)
	if p == 0 {
		return ""
	}
	return e.lib.takeString(e.lib.flatTupleToString(p))
}

// borrow lets fill write a child value into a Go-owned kuzu_value and
// registers it under parent.
func (e *nativeEngine) borrow(parent Handle, fill func(out uintptr) int32) (Handle, error) {
	out := &cValue{}
	if fill(uintptr(unsafe.Pointer(out))) != kuzuSuccess || out.value == 0 {
		return 0, errors.New("child value not available")
	}
	return e.add(&nativeObject{kind: kindValue, ptr: uintptr(unsafe.Pointer(out)), mem: out, parent: parent}), nil
}

func (e *nativeEngine) CreateValue(s Scalar) (Handle, error) {
	ptr, err := e.create(s)
	if err != nil {
		return 0, err
	}
	if ptr == 0 {
		return 0, fmt.Errorf("create %s value failed", s.Type)
	}
	return e.add(&nativeObject{kind: kindValue, ptr: ptr, owned: true, tag: s.Type, tagKnown: true}), nil
}

func (e *nativeEngine) create(s Scalar) (uintptr, error) {
	l := e.lib
	if s.Null {
		if s.Type == TypeAny {
			return l.valueCreateNull(), nil
		}
		dt := &cLogicalType{}
		l.dataTypeCreate(int32(s.Type), 0, 0, uintptr(unsafe.Pointer(dt)))
		defer l.dataTypeDestroy(uintptr(unsafe.Pointer(dt)))
		return l.valueCreateNullWithDataType(uintptr(unsafe.Pointer(dt))), nil
	}
	switch s.Type {
	case TypeBool:
		return l.valueCreateBool(s.Bool), nil
	case TypeInt8:
		return l.valueCreateInt8(int8(s.Int)), nil
	case TypeInt16:
		return l.valueCreateInt16(int16(s.Int)), nil
	case TypeInt32:
		return l.valueCreateInt32(int32(s.Int)), nil
	case TypeInt64, TypeSerial:
		return l.valueCreateInt64(s.Int), nil
	case TypeUint8:
		return l.valueCreateUint8(uint8(s.Uint)), nil
	case TypeUint16:
		return l.valueCreateUint16(uint16(s.Uint)), nil
	case TypeUint32:
		return l.valueCreateUint32(uint32(s.Uint)), nil
	case TypeUint64:
		return l.valueCreateUint64(s.Uint), nil
	case TypeFloat:
		return l.valueCreateFloat(float32(s.Float)), nil
	case TypeDouble:
		return l.valueCreateDouble(s.Float), nil
	case TypeString, TypeUUID:
		return l.valueCreateString(s.String), nil
	case TypeDate:
		return l.valueCreateDate(int32(s.Int)), nil
	case TypeTimestamp:
		return l.valueCreateTimestamp(s.Int), nil
	case TypeTimestampNs:
		return l.valueCreateTimestampNs(s.Int), nil
	case TypeTimestampMs:
		return l.valueCreateTimestampMs(s.Int), nil
	case TypeTimestampSec:
		return l.valueCreateTimestampSec(s.Int), nil
	case TypeTimestampTz:
		return l.valueCreateTimestampTz(s.Int), nil
	case TypeInt128:
		return call16(l.symValueCreateInt128, s.Int128.Lo, uint64(s.Int128.Hi)), nil
	case TypeInterval:
		lo := uint64(uint32(s.Interval.Months)) | uint64(uint32(s.Interval.Days))<<32
		return call16(l.symValueCreateIntvl, lo, uint64(s.Interval.Micros)), nil
	case TypeInternalID:
		return call16(l.symValueCreateID, s.ID.TableID, s.ID.Offset), nil
	case TypeBlob:
		return 0, errors.New("the C API cannot create BLOB values")
	}
	return 0, fmt.Errorf("cannot create %s values", s.Type)
}

// call16 invokes a constructor whose only argument is a 16 byte struct.
func call16(sym uintptr, lo, hi uint64) uintptr {
	a, b, keep := pair16(lo, hi)
	args := []uintptr{a, b}[:pair16Args]
	r1, _, _ := purego.SyscallN(sym, args...)
	runtime.KeepAlive(keep)
	return r1
}

func (e *nativeEngine) CloneValue(v Handle) (Handle, error) {
	obj, err := e.get(v, kindValue)
	if err != nil {
		return 0, err
	}
	ptr := e.lib.valueClone(obj.ptr)
	if ptr == 0 {
		return 0, errors.New("clone failed")
	}
	return e.add(&nativeObject{kind: kindValue, ptr: ptr, owned: true, tag: obj.tag, tagKnown: obj.tagKnown}), nil
}

func (e *nativeEngine) DestroyValue(v Handle) {
	obj := e.remove(v, kindValue)
	if obj == nil {
		return
	}
	if obj.owned {
		e.lib.valueDestroy(obj.ptr)
	}
}

func (e *nativeEngine) ValueType(v Handle) DataType {
	obj, err := e.get(v, kindValue)
	if err != nil {
		return TypeAny
	}
	return e.typeOf(obj)
}

func (e *nativeEngine) typeOf(obj *nativeObject) DataType {
	e.mu.Lock()
	tag, known := obj.tag, obj.tagKnown
	e.mu.Unlock()
	if known {
		return tag
	}
	dt := &cLogicalType{}
	dtp := uintptr(unsafe.Pointer(dt))
	e.lib.valueGetDataType(obj.ptr, dtp)
	tag = DataType(e.lib.dataTypeGetID(dtp))
	e.lib.dataTypeDestroy(dtp)
	e.mu.Lock()
	obj.tag, obj.tagKnown = tag, true
	e.mu.Unlock()
	return tag
}

func (e *nativeEngine) ValueIsNull(v Handle) bool {
	p := e.ptr(v, kindValue)
	return p == 0 || e.lib.valueIsNull(p)
}

func (e *nativeEngine) ValueSetNull(v Handle, null bool) {
	if p := e.ptr(v, kindValue); p != 0 {
		e.lib.valueSetNull(p, null)
	}
}

func (e *nativeEngine) ValueScalar(v Handle) (Scalar, error) {
	obj, err := e.get(v, kindValue)
	if err != nil {
		return Scalar{}, err
	}
	l, p := e.lib, obj.ptr
	s := Scalar{Type: e.typeOf(obj)}
	var state int32
	switch s.Type {
	case TypeBool:
		state = l.valueGetBool(p, &s.Bool)
	case TypeInt8:
		var x int8
		state = l.valueGetInt8(p, &x)
		s.Int = int64(x)
	case TypeInt16:
		var x int16
		state = l.valueGetInt16(p, &x)
		s.Int = int64(x)
	case TypeInt32:
		var x int32
		state = l.valueGetInt32(p, &x)
		s.Int = int64(x)
	case TypeInt64, TypeSerial:
		state = l.valueGetInt64(p, &s.Int)
	case TypeUint8:
		var x uint8
		state = l.valueGetUint8(p, &x)
		s.Uint = uint64(x)
	case TypeUint16:
		var x uint16
		state = l.valueGetUint16(p, &x)
		s.Uint = uint64(x)
	case TypeUint32:
		var x uint32
		state = l.valueGetUint32(p, &x)
		s.Uint = uint64(x)
	case TypeUint64:
		state = l.valueGetUint64(p, &s.Uint)
	case TypeInt128:
		var x [2]uint64
		state = l.valueGetInt128(p, &x)
		s.Int128 = Int128{Lo: x[0], Hi: int64(x[1])}
	case TypeFloat:
		var x float32
		state = l.valueGetFloat(p, &x)
		s.Float = float64(x)
	case TypeDouble:
		state = l.valueGetDouble(p, &s.Float)
	case TypeDate:
		var x int32
		state = l.valueGetDate(p, &x)
		s.Int = int64(x)
	case TypeTimestamp:
		state = l.valueGetTimestamp(p, &s.Int)
	case TypeTimestampNs:
		state = l.valueGetTimestampNs(p, &s.Int)
	case TypeTimestampMs:
		state = l.valueGetTimestampMs(p, &s.Int)
	case TypeTimestampSec:
		state = l.valueGetTimestampS(p, &s.Int)
	case TypeTimestampTz:
		state = l.valueGetTimestampTz(p, &s.Int)
	case TypeInterval:
		var x cInterval
		state = l.valueGetInterval(p, &x)
		s.Interval = Interval{Months: x.months, Days: x.days, Micros: x.micros}
	case TypeInternalID:
		var x [2]uint64
		state = l.valueGetInternalID(p, &x)
		s.ID = InternalID{TableID: x[0], Offset: x[1]}
	case TypeString:
		var str uintptr
		state = l.valueGetString(p, &str)
		s.String = l.takeString(str)
	case TypeUUID:
		var str uintptr
		state = l.valueGetUUID(p, &str)
		s.String = l.takeString(str)
	default:
		return Scalar{}, fmt.Errorf("%s is not a scalar type", s.Type)
	}
	if state != kuzuSuccess {
		return Scalar{}, fmt.Errorf("read %s value failed", s.Type)
	}
	return s, nil
}

// ValueBlob returns the textual form, which escapes non-printable bytes as
// \xHH.
func (e *nativeEngine) ValueBlob(v Handle) ([]byte, BlobEncoding, error) {
	p := e.ptr(v, kindValue)
	if p == 0 {
		return nil, BlobEscaped, errStaleHandle
	}
	return []byte(e.lib.takeString(e.lib.valueToString(p))), BlobEscaped, nil
}

func (e *nativeEngine) ValueString(v Handle) string {
	p := e.ptr(v, kindValue)
	if p == 0 {
		return ""
	}
	return e.lib.takeString(e.lib.valueToString(p))
}

func (e *nativeEngine) size(v Handle, get func(p uintptr, out *uint64) int32) (int, error) {
	p := e.ptr(v, kindValue)
	if p == 0 {
		return 0, errStaleHandle
	}
	var n uint64
	if get(p, &n) != kuzuSuccess {
		return 0, errors.New("size not available")
	}
	return int(n), nil
}

func (e *nativeEngine) name(v Handle, i int, get func(p uintptr, i uint64, out *uintptr) int32) (string, error) {
	p := e.ptr(v, kindValue)
	if p == 0 {
		return "", errStaleHandle
	}
	var s uintptr
	if get(p, uint64(i), &s) != kuzuSuccess {
		return "", fmt.Errorf("name %d not available", i)
	}
	return e.lib.takeString(s), nil
}

func (e *nativeEngine) at(v Handle, i int, get func(p uintptr, i uint64, out uintptr) int32) (Handle, error) {
	p := e.ptr(v, kindValue)
	if p == 0 {
		return 0, errStaleHandle
	}
	return e.borrow(v, func(out uintptr) int32 { return get(p, uint64(i), out) })
}

func (e *nativeEngine) sub(v Handle, get func(p, out uintptr) int32) (Handle, error) {
	p := e.ptr(v, kindValue)
	if p == 0 {
		return 0, errStaleHandle
	}
	return e.borrow(v, func(out uintptr) int32 { return get(p, out) })
}

func (e *nativeEngine) ListSize(v Handle) (int, error) { return e.size(v, e.lib.valueGetListSize) }
func (e *nativeEngine) ListElement(v Handle, i int) (Handle, error) {
	return e.at(v, i, e.lib.valueGetListElement)
}
func (e *nativeEngine) StructFieldCount(v Handle) (int, error) {
	return e.size(v, e.lib.valueGetStructNumFields)
}
func (e *nativeEngine) StructFieldName(v Handle, i int) (string, error) {
	return e.name(v, i, e.lib.valueGetStructFieldName)
}
func (e *nativeEngine) StructFieldValue(v Handle, i int) (Handle, error) {
	return e.at(v, i, e.lib.valueGetStructFieldValue)
}
func (e *nativeEngine) MapSize(v Handle) (int, error) { return e.size(v, e.lib.valueGetMapSize) }
func (e *nativeEngine) MapKey(v Handle, i int) (Handle, error) {
	return e.at(v, i, e.lib.valueGetMapKey)
}
func (e *nativeEngine) MapValue(v Handle, i int) (Handle, error) {
	return e.at(v, i, e.lib.valueGetMapValue)
}

// internalID reads an id child value without registering it.
func (e *nativeEngine) internalID(v Handle, get func(p, out uintptr) int32) (InternalID, error) {
	p := e.ptr(v, kindValue)
	if p == 0 {
		return InternalID{}, errStaleHandle
	}
	out := &cValue{}
	if get(p, uintptr(unsafe.Pointer(out))) != kuzuSuccess {
		return InternalID{}, errors.New("id not available")
	}
	var x [2]uint64
	if e.lib.valueGetInternalID(uintptr(unsafe.Pointer(out)), &x) != kuzuSuccess {
		return InternalID{}, errors.New("read id failed")
	}
	return InternalID{TableID: x[0], Offset: x[1]}, nil
}

func (e *nativeEngine) label(v Handle, get func(p, out uintptr) int32) (string, error) {
	p := e.ptr(v, kindValue)
	if p == 0 {
		return "", errStaleHandle
	}
	out := &cValue{}
	if get(p, uintptr(unsafe.Pointer(out))) != kuzuSuccess {
		return "", errors.New("label not available")
	}
	var s uintptr
	if e.lib.valueGetString(uintptr(unsafe.Pointer(out)), &s) != kuzuSuccess {
		return "", errors.New("read label failed")
	}
	return e.lib.takeString(s), nil
}

func (e *nativeEngine) NodeID(v Handle) (InternalID, error) {
	return e.internalID(v, e.lib.nodeValGetIDVal)
}
func (e *nativeEngine) NodeLabel(v Handle) (string, error) {
	return e.label(v, e.lib.nodeValGetLabelVal)
}
func (e *nativeEngine) RelID(v Handle) (InternalID, error) {
	return e.internalID(v, e.lib.relValGetIDVal)
}
func (e *nativeEngine) RelSrcID(v Handle) (InternalID, error) {
	return e.internalID(v, e.lib.relValGetSrcIDVal)
}
func (e *nativeEngine) RelDstID(v Handle) (InternalID, error) {
	return e.internalID(v, e.lib.relValGetDstIDVal)
}
func (e *nativeEngine) RelLabel(v Handle) (string, error) {
	return e.label(v, e.lib.relValGetLabelVal)
}

func (e *nativeEngine) isRel(v Handle) bool {
	obj, err := e.get(v, kindValue)
	return err == nil && e.typeOf(obj) == TypeRel
}

func (e *nativeEngine) PropertyCount(v Handle) (int, error) {
	if e.isRel(v) {
		return e.size(v, e.lib.relValGetPropertySize)
	}
	return e.size(v, e.lib.nodeValGetPropertySize)
}

func (e *nativeEngine) PropertyName(v Handle, i int) (string, error) {
	if e.isRel(v) {
		return e.name(v, i, e.lib.relValGetPropertyNameAt)
	}
	return e.name(v, i, e.lib.nodeValGetPropertyNameAt)
}

func (e *nativeEngine) PropertyValue(v Handle, i int) (Handle, error) {
	if e.isRel(v) {
		return e.at(v, i, e.lib.relValGetPropertyValueAt)
	}
	return e.at(v, i, e.lib.nodeValGetPropertyValueAt)
}

func (e *nativeEngine) RecursiveRelNodes(v Handle) (Handle, error) {
	return e.sub(v, e.lib.valueGetRecursiveRelNodes)
}

func (e *nativeEngine) RecursiveRelRels(v Handle) (Handle, error) {
	return e.sub(v, e.lib.valueGetRecursiveRelRels)
}
