package kuzu

import (
	"reflect"
	"sync"
)

// projectionPlan maps struct members to result ordinals for one column set.
type projectionPlan struct {
	fields []planField
}

type planField struct {
	index   []int
	ordinal int
	name    string
}

type planKey struct {
	typ         reflect.Type
	strategy    NamingStrategy
	columns     int
	fingerprint uint64
}

var planCache sync.Map // planKey -> *projectionPlan

func planFor(t reflect.Type, strategy NamingStrategy, ci *ColumnIndex) (*projectionPlan, error) {
	key := planKey{typ: t, strategy: strategy, columns: ci.Len(), fingerprint: ci.Fingerprint()}
	if p, ok := planCache.Load(key); ok {
		return p.(*projectionPlan), nil
	}
	meta, err := metadataFor(t, strategy)
	if err != nil {
		return nil, err
	}
	plan := &projectionPlan{}
	for _, m := range meta.members {
		ord, ok := ci.Ordinal(m.name)
		if !ok {
			continue
		}
		plan.fields = append(plan.fields, planField{index: m.index, ordinal: ord, name: m.name})
	}
	p, _ := planCache.LoadOrStore(key, plan)
	return p.(*projectionPlan), nil
}

// ScanStruct copies the row into the members of the struct dst points to.
// Members are matched to columns by their external name under strategy,
// case-insensitively; members without a column are left untouched.
func (row *Row) ScanStruct(dst any, strategy NamingStrategy) error {
	if err := row.check(); err != nil {
		return err
	}
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return errorf(ErrTypeMismatch, "ScanStruct destination %T is not a pointer to a struct", dst)
	}
	ci, err := row.result.Columns()
	if err != nil {
		return err
	}
	plan, err := planFor(rv.Elem().Type(), strategy, ci)
	if err != nil {
		return err
	}
	sv := rv.Elem()
	for _, f := range plan.fields {
		v, err := row.Value(f.ordinal)
		if err != nil {
			return err
		}
		if err := assign(fieldAlloc(sv, f.index), v); err != nil {
			return &Error{Type: ErrTypeMismatch, Message: "scan column " + f.name, Cause: err}
		}
	}
	return nil
}

// fieldAlloc is reflect.Value.FieldByIndex that allocates nil embedded
// struct pointers on the way.
func fieldAlloc(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

// ValueAs reads the value at ordinal i of row converted to T through the
// coercion table.
func ValueAs[T any](row *Row, i int) (T, error) {
	var out T
	v, err := row.Value(i)
	if err != nil {
		return out, err
	}
	err = assign(reflect.ValueOf(&out).Elem(), v)
	return out, err
}

// ValueAsByName is ValueAs for the column called name.
func ValueAsByName[T any](row *Row, name string) (T, error) {
	var out T
	v, err := row.ValueByName(name)
	if err != nil {
		return out, err
	}
	err = assign(reflect.ValueOf(&out).Elem(), v)
	return out, err
}

// CollectAs drains res into a slice of T. Struct types are filled with
// ScanStruct under strategy; any other T reads the first column.
func CollectAs[T any](res *QueryResult, strategy NamingStrategy) ([]T, error) {
	var (
		out      []T
		isStruct = isStructType(reflect.TypeOf((*T)(nil)).Elem())
	)
	for row, err := range res.Rows() {
		if err != nil {
			return nil, err
		}
		var item T
		if isStruct {
			err = row.ScanStruct(&item, strategy)
		} else {
			item, err = ValueAs[T](row, 0)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// QueryAs runs query on c with optional parameter objects and collects the
// result with CollectAs.
func QueryAs[T any](c *Connection, strategy NamingStrategy, query string, params ...any) ([]T, error) {
	res, err := c.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer res.Close()
	return CollectAs[T](res, strategy)
}

func isStructType(t reflect.Type) bool {
	switch t {
	case timeType, dateType, intervalType, int128Type, bigIntType, internalIDType, nodeType, relType, recursiveType:
		return false
	}
	return t.Kind() == reflect.Struct
}
