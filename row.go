package kuzu

import (
	"reflect"
	"strings"
)

// Row is one tuple of a QueryResult. Values read from a row are borrowed
// from it: they stay usable until the result advances or is closed, unless
// cloned.
type Row struct {
	result *QueryResult
	handle Handle
	lease  lease
	values []*Value
}

func (row *Row) check() error {
	if err := row.result.check(); err != nil {
		return err
	}
	if !row.lease.valid() {
		return disposedError("row")
	}
	return nil
}

func (row *Row) release() {
	for _, v := range row.values {
		if v != nil {
			v.Close()
		}
	}
	row.values = nil
	if row.handle != 0 {
		row.result.engine.DestroyTuple(row.handle)
		row.handle = 0
	}
}

// Len returns the number of values in the row.
func (row *Row) Len() int {
	ci, err := row.result.Columns()
	if err != nil {
		return 0
	}
	return ci.Len()
}

// Value returns the value at ordinal i. Repeated calls return the same
// wrapper.
func (row *Row) Value(i int) (*Value, error) {
	if err := row.check(); err != nil {
		return nil, err
	}
	n := row.Len()
	if i < 0 || i >= n {
		return nil, rangeError("column", i, n)
	}
	if row.values == nil {
		row.values = make([]*Value, n)
	}
	if v := row.values[i]; v != nil {
		return v, nil
	}
	h, err := row.result.engine.TupleValue(row.handle, i)
	if err != nil {
		return nil, &Error{Type: ErrGeneric, Message: "read tuple value", Cause: err}
	}
	v := newBorrowedValue(row.result.engine, h, row.lease, nil)
	row.values[i] = v
	return v, nil
}

// ValueByName returns the value of the column called name, compared
// case-insensitively.
func (row *Row) ValueByName(name string) (*Value, error) {
	if err := row.check(); err != nil {
		return nil, err
	}
	ci, err := row.result.Columns()
	if err != nil {
		return nil, err
	}
	i, ok := ci.Ordinal(name)
	if !ok {
		return nil, errorf(ErrOutOfRange, "no column %q", name)
	}
	return row.Value(i)
}

// Values converts every value of the row with Value.Interface.
func (row *Row) Values() ([]any, error) {
	n := row.Len()
	out := make([]any, n)
	for i := range out {
		v, err := row.Value(i)
		if err != nil {
			return nil, err
		}
		if out[i], err = v.Interface(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Scanner is implemented by destinations that convert a value themselves,
// such as the sql.Null types.
type Scanner interface {
	Scan(src any) error
}

// Scan copies the row's values into dest, which must hold one pointer per
// column. Conversions follow the binder's coercion table; NULL can only be
// scanned into pointers, interfaces and Scanners.
func (row *Row) Scan(dest ...any) error {
	if err := row.check(); err != nil {
		return err
	}
	if n := row.Len(); len(dest) != n {
		return errorf(ErrOutOfRange, "expected %d destination arguments in Scan, not %d", n, len(dest))
	}
	for i, d := range dest {
		v, err := row.Value(i)
		if err != nil {
			return err
		}
		if err := scanInto(d, v); err != nil {
			name, _ := row.result.columns.Name(i)
			return &Error{Type: ErrTypeMismatch, Message: "scan column " + name, Cause: err}
		}
	}
	return nil
}

func scanInto(dest any, v *Value) error {
	if s, ok := dest.(Scanner); ok {
		x, err := v.Interface()
		if err != nil {
			return err
		}
		return s.Scan(x)
	}
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errorf(ErrTypeMismatch, "destination %T is not a non-nil pointer", dest)
	}
	return assign(rv.Elem(), v)
}

// String renders the row the way the engine prints tuples.
func (row *Row) String() string {
	if row.check() != nil {
		return "<disposed>"
	}
	return strings.TrimRight(row.result.engine.TupleString(row.handle), "\n")
}
