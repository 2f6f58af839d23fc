package kuzu

import "reflect"

// NewValue creates an owned value from a Go value, choosing the engine type
// from the Go type: int is INT64, float64 is DOUBLE, time.Time is TIMESTAMP,
// Date is DATE, time.Duration is INTERVAL, []byte is BLOB and so on. A nil
// interface or pointer creates a null.
func NewValue(e Engine, x any) (*Value, error) {
	if v, ok := x.(*Value); ok {
		return v.Clone()
	}
	s, err := scalarOf(reflect.ValueOf(x))
	if err != nil {
		return nil, err
	}
	return createValue(e, s)
}

// NewTypedValue creates an owned value of type tag from x, for example a
// time.Time as TIMESTAMP_NS or DATE, or an int as INT16. Integers are range
// checked against the target width.
func NewTypedValue(e Engine, tag DataType, x any) (*Value, error) {
	s, err := encodeScalar(reflect.ValueOf(&x).Elem(), tag)
	if err != nil {
		return nil, err
	}
	return createValue(e, s)
}

// NullValue creates an owned null value of type ANY.
func NullValue(e Engine) (*Value, error) {
	return createValue(e, Scalar{Type: TypeAny, Null: true})
}

func createValue(e Engine, s Scalar) (*Value, error) {
	if e == nil {
		return nil, ErrNativeLibraryNotLoaded
	}
	h, err := e.CreateValue(s)
	if err != nil {
		return nil, &Error{Type: ErrGeneric, Message: "create " + s.Type.String() + " value", Cause: err}
	}
	return newOwnedValue(e, h), nil
}
