package kuzu

import "time"

// Handle is an opaque resource id issued by an Engine. Zero is never a valid
// handle.
type Handle uintptr

// Status is the success flag and message an engine attaches to prepare and
// execute calls. Failures are values here; the error-returning API is built
// on top of it.
type Status struct {
	OK      bool
	Message string
}

// BlobEncoding describes how the engine delivered a BLOB payload.
type BlobEncoding uint8

const (
	// BlobRaw is a length-prefixed byte payload, used as is.
	BlobRaw BlobEncoding = iota
	// BlobEscaped is a text payload where non-printable bytes are written
	// as \xHH escapes.
	BlobEscaped
)

// Scalar is the plain payload exchanged with an Engine for scalar variants.
// Type selects which field is meaningful:
//
//   - Bool: TypeBool
//   - Int: signed integers, TypeDate (days since epoch) and every timestamp
//     precision (ticks since epoch in the unit of the tag)
//   - Uint: unsigned integers
//   - Int128: TypeInt128
//   - Float: TypeFloat and TypeDouble
//   - String: TypeString and TypeUUID (canonical text form)
//   - Bytes: TypeBlob
//   - Interval: TypeInterval
//   - ID: TypeInternalID
//
// A Scalar with Null set creates a null value of Type.
type Scalar struct {
	Type     DataType
	Null     bool
	Bool     bool
	Int      int64
	Uint     uint64
	Int128   Int128
	Float    float64
	String   string
	Bytes    []byte
	Interval Interval
	ID       InternalID
}

// Engine is the call surface the binding requires from the native graph
// engine. All methods are synchronous. A handle returned by TupleValue or by
// any container/graph getter is borrowed: the engine releases it together
// with its parent and it must never be passed to DestroyValue.
type Engine interface {
	OpenDatabase(path string, cfg SystemConfig) (Handle, error)
	CloseDatabase(db Handle)
	Connect(db Handle) (Handle, error)
	Disconnect(conn Handle)
	Interrupt(conn Handle)
	SetQueryTimeout(conn Handle, timeout time.Duration) error

	Prepare(conn Handle, query string) (Handle, Status)
	DestroyStatement(stmt Handle)
	BindValue(stmt Handle, name string, value Handle) error
	Execute(conn, stmt Handle) (Handle, Status)
	Query(conn Handle, query string) (Handle, Status)

	DestroyResult(res Handle)
	ColumnCount(res Handle) int
	ColumnName(res Handle, i int) (string, error)
	TupleCount(res Handle) uint64
	HasNext(res Handle) bool
	Next(res Handle) (Handle, error)
	HasNextResult(res Handle) bool
	NextResult(res Handle) (Handle, error)
	ResetIterator(res Handle) error
	ResultString(res Handle) string

	DestroyTuple(row Handle)
	TupleValue(row Handle, i int) (Handle, error)
	TupleString(row Handle) string

	CreateValue(s Scalar) (Handle, error)
	CloneValue(v Handle) (Handle, error)
	DestroyValue(v Handle)
	ValueType(v Handle) DataType
	ValueIsNull(v Handle) bool
	ValueSetNull(v Handle, null bool)
	ValueScalar(v Handle) (Scalar, error)
	ValueBlob(v Handle) ([]byte, BlobEncoding, error)
	ValueString(v Handle) string

	ListSize(v Handle) (int, error)
	ListElement(v Handle, i int) (Handle, error)
	StructFieldCount(v Handle) (int, error)
	StructFieldName(v Handle, i int) (string, error)
	StructFieldValue(v Handle, i int) (Handle, error)
	MapSize(v Handle) (int, error)
	MapKey(v Handle, i int) (Handle, error)
	MapValue(v Handle, i int) (Handle, error)

	NodeID(v Handle) (InternalID, error)
	NodeLabel(v Handle) (string, error)
	RelID(v Handle) (InternalID, error)
	RelSrcID(v Handle) (InternalID, error)
	RelDstID(v Handle) (InternalID, error)
	RelLabel(v Handle) (string, error)
	PropertyCount(v Handle) (int, error)
	PropertyName(v Handle, i int) (string, error)
	PropertyValue(v Handle, i int) (Handle, error)
	RecursiveRelNodes(v Handle) (Handle, error)
	RecursiveRelRels(v Handle) (Handle, error)
}
