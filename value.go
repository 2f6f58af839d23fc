package kuzu

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Ownership says who releases the native resource behind a Value.
type Ownership uint8

const (
	// Owned values release their native resource exactly once, on Close.
	Owned Ownership = iota
	// Borrowed values live as long as their owner (a row, a result or a
	// parent value). Closing them never touches the native resource.
	Borrowed
)

// String returns "owned" or "borrowed".
func (o Ownership) String() string {
	if o == Owned {
		return "owned"
	}
	return "borrowed"
}

// Value wraps one native value handle as a tagged, typed value. The tag is
// read once when the wrapper is created and never changes.
//
// A Value is not safe for concurrent use.
type Value struct {
	engine    Engine
	handle    Handle
	tag       DataType
	ownership Ownership
	closed    int32

	// Borrowed values are valid while lease is valid and parent (if any)
	// is alive.
	lease  lease
	parent *Value

	children map[childKey]*Value
	blob     *Blob
}

type childKind uint8

const (
	childElement childKind = iota
	childField
	childMapKey
	childMapValue
	childProperty
	childNodes
	childRels
)

type childKey struct {
	kind childKind
	i    int
}

func newOwnedValue(e Engine, h Handle) *Value {
	return &Value{engine: e, handle: h, tag: e.ValueType(h), ownership: Owned}
}

func newBorrowedValue(e Engine, h Handle, le lease, parent *Value) *Value {
	return &Value{
		engine:    e,
		handle:    h,
		tag:       e.ValueType(h),
		ownership: Borrowed,
		lease:     le,
		parent:    parent,
	}
}

// Type returns the value's tag.
func (v *Value) Type() DataType {
	return v.tag
}

// Ownership reports whether v owns its native resource.
func (v *Value) Ownership() Ownership {
	return v.ownership
}

// Disposed reports whether v can no longer be used, either because it was
// closed or because its owner moved on.
func (v *Value) Disposed() bool {
	return v.check() != nil
}

func (v *Value) check() error {
	if atomic.LoadInt32(&v.closed) != 0 {
		return disposedError("value")
	}
	if !v.lease.valid() {
		return disposedError("borrowed value's owner")
	}
	if v.parent != nil {
		return v.parent.check()
	}
	return nil
}

// Close disposes the value. An owned value releases its native resource on
// the first call; a borrowed value only marks itself unusable. Further calls
// are no-ops.
func (v *Value) Close() error {
	if !atomic.CompareAndSwapInt32(&v.closed, 0, 1) {
		return nil
	}
	if v.blob != nil {
		v.blob.release()
	}
	v.children = nil
	if v.ownership == Owned && v.handle != 0 {
		v.engine.DestroyValue(v.handle)
	}
	return nil
}

// IsNull reports whether the value is null.
func (v *Value) IsNull() (bool, error) {
	if err := v.check(); err != nil {
		return false, err
	}
	return v.engine.ValueIsNull(v.handle), nil
}

// SetNull sets or clears the null flag.
func (v *Value) SetNull(null bool) error {
	if err := v.check(); err != nil {
		return err
	}
	v.engine.ValueSetNull(v.handle, null)
	return nil
}

// Clone returns an owned, independent copy, whatever v's ownership.
func (v *Value) Clone() (*Value, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	h, err := v.engine.CloneValue(v.handle)
	if err != nil {
		return nil, &Error{Type: ErrGeneric, Message: "clone value", Cause: err}
	}
	return newOwnedValue(v.engine, h), nil
}

// DisplayString renders the value the way the engine prints it.
func (v *Value) DisplayString() (string, error) {
	if err := v.check(); err != nil {
		return "", err
	}
	return v.engine.ValueString(v.handle), nil
}

// String implements fmt.Stringer.
func (v *Value) String() string {
	s, err := v.DisplayString()
	if err != nil {
		return "<disposed>"
	}
	return s
}

func (v *Value) scalar(want string, match func(DataType) bool) (Scalar, error) {
	if err := v.check(); err != nil {
		return Scalar{}, err
	}
	if !match(v.tag) {
		return Scalar{}, mismatchError(want, v.tag)
	}
	if v.engine.ValueIsNull(v.handle) {
		return Scalar{}, errorf(ErrTypeMismatch, "cannot read NULL %s as %s", v.tag, want)
	}
	s, err := v.engine.ValueScalar(v.handle)
	if err != nil {
		return Scalar{}, &Error{Type: ErrGeneric, Message: "read " + want, Cause: err}
	}
	return s, nil
}

func is(t DataType) func(DataType) bool {
	return func(got DataType) bool { return got == t }
}

// GetBool reads a BOOL value.
func (v *Value) GetBool() (bool, error) {
	s, err := v.scalar("BOOL", is(TypeBool))
	return s.Bool, err
}

// GetInt8 reads an INT8 value.
func (v *Value) GetInt8() (int8, error) {
	s, err := v.scalar("INT8", is(TypeInt8))
	return int8(s.Int), err
}

// GetInt16 reads an INT16 value.
func (v *Value) GetInt16() (int16, error) {
	s, err := v.scalar("INT16", is(TypeInt16))
	return int16(s.Int), err
}

// GetInt32 reads an INT32 value.
func (v *Value) GetInt32() (int32, error) {
	s, err := v.scalar("INT32", is(TypeInt32))
	return int32(s.Int), err
}

// GetInt64 reads an INT64 or SERIAL value.
func (v *Value) GetInt64() (int64, error) {
	s, err := v.scalar("INT64", func(t DataType) bool { return t == TypeInt64 || t == TypeSerial })
	return s.Int, err
}

// GetUint8 reads a UINT8 value.
func (v *Value) GetUint8() (uint8, error) {
	s, err := v.scalar("UINT8", is(TypeUint8))
	return uint8(s.Uint), err
}

// GetUint16 reads a UINT16 value.
func (v *Value) GetUint16() (uint16, error) {
	s, err := v.scalar("UINT16", is(TypeUint16))
	return uint16(s.Uint), err
}

// GetUint32 reads a UINT32 value.
func (v *Value) GetUint32() (uint32, error) {
	s, err := v.scalar("UINT32", is(TypeUint32))
	return uint32(s.Uint), err
}

// GetUint64 reads a UINT64 value.
func (v *Value) GetUint64() (uint64, error) {
	s, err := v.scalar("UINT64", is(TypeUint64))
	return s.Uint, err
}

// GetInt128 reads an INT128 value.
func (v *Value) GetInt128() (Int128, error) {
	s, err := v.scalar("INT128", is(TypeInt128))
	return s.Int128, err
}

// GetFloat reads a FLOAT value.
func (v *Value) GetFloat() (float32, error) {
	s, err := v.scalar("FLOAT", is(TypeFloat))
	return float32(s.Float), err
}

// GetDouble reads a DOUBLE value.
func (v *Value) GetDouble() (float64, error) {
	s, err := v.scalar("DOUBLE", is(TypeDouble))
	return s.Float, err
}

// GetString reads a STRING value.
func (v *Value) GetString() (string, error) {
	s, err := v.scalar("STRING", is(TypeString))
	return s.String, err
}

// GetDate reads a DATE value as midnight UTC.
func (v *Value) GetDate() (time.Time, error) {
	s, err := v.scalar("DATE", is(TypeDate))
	if err != nil {
		return time.Time{}, err
	}
	return TimeFromDays(int32(s.Int)), nil
}

// GetTimestamp reads a value of any of the five timestamp precisions.
func (v *Value) GetTimestamp() (time.Time, error) {
	s, err := v.scalar("TIMESTAMP", DataType.IsTimestamp)
	if err != nil {
		return time.Time{}, err
	}
	return TimeFromTicks(s.Int, v.tag)
}

// GetInterval reads an INTERVAL value.
func (v *Value) GetInterval() (Interval, error) {
	s, err := v.scalar("INTERVAL", is(TypeInterval))
	return s.Interval, err
}

// GetInternalID reads an INTERNAL_ID value.
func (v *Value) GetInternalID() (InternalID, error) {
	s, err := v.scalar("INTERNAL_ID", is(TypeInternalID))
	return s.ID, err
}

// GetUUID reads a UUID value. The engine exchanges UUIDs as text.
func (v *Value) GetUUID() (uuid.UUID, error) {
	s, err := v.scalar("UUID", is(TypeUUID))
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(s.String)
	if err != nil {
		return uuid.Nil, &Error{Type: ErrTypeMismatch, Message: "malformed UUID from engine", Cause: err}
	}
	return id, nil
}

// Interface returns the natural Go representation of the value: nil for
// null, the matching Go scalar type, time.Time for dates and timestamps,
// []byte for blobs, []any for lists and arrays, map[string]any for structs,
// []MapEntry for maps and Node, Rel or RecursiveRel for graph values.
func (v *Value) Interface() (any, error) {
	null, err := v.IsNull()
	if err != nil {
		return nil, err
	}
	if null || v.tag == TypeAny {
		return nil, nil
	}
	switch v.tag {
	case TypeBool:
		return v.GetBool()
	case TypeInt8:
		return v.GetInt8()
	case TypeInt16:
		return v.GetInt16()
	case TypeInt32:
		return v.GetInt32()
	case TypeInt64, TypeSerial:
		return v.GetInt64()
	case TypeUint8:
		return v.GetUint8()
	case TypeUint16:
		return v.GetUint16()
	case TypeUint32:
		return v.GetUint32()
	case TypeUint64:
		return v.GetUint64()
	case TypeInt128:
		return v.GetInt128()
	case TypeFloat:
		return v.GetFloat()
	case TypeDouble:
		return v.GetDouble()
	case TypeString:
		return v.GetString()
	case TypeDate:
		return v.GetDate()
	case TypeTimestamp, TypeTimestampSec, TypeTimestampMs, TypeTimestampNs, TypeTimestampTz:
		return v.GetTimestamp()
	case TypeInterval:
		return v.GetInterval()
	case TypeInternalID:
		return v.GetInternalID()
	case TypeUUID:
		return v.GetUUID()
	case TypeBlob:
		b, err := v.Blob()
		if err != nil {
			return nil, err
		}
		return b.Bytes()
	case TypeList, TypeArray:
		return v.listInterface()
	case TypeStruct:
		return v.structInterface()
	case TypeMap:
		return v.mapInterface()
	case TypeNode:
		return v.Node()
	case TypeRel:
		return v.Rel()
	case TypeRecursiveRel:
		return v.RecursiveRel()
	}
	return nil, errorf(ErrNotSupported, "no Go representation for %s", v.tag)
}
