package kuzu

import (
	"math"
	"math/big"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	timeType       = reflect.TypeOf(time.Time{})
	dateType       = reflect.TypeOf(Date{})
	durationType   = reflect.TypeOf(time.Duration(0))
	intervalType   = reflect.TypeOf(Interval{})
	int128Type     = reflect.TypeOf(Int128{})
	bigIntType     = reflect.TypeOf(big.Int{})
	uuidType       = reflect.TypeOf(uuid.UUID{})
	internalIDType = reflect.TypeOf(InternalID{})
	bytesType      = reflect.TypeOf([]byte(nil))
	nodeType       = reflect.TypeOf(Node{})
	relType        = reflect.TypeOf(Rel{})
	recursiveType  = reflect.TypeOf(RecursiveRel{})
	valuePtrType   = reflect.TypeOf((*Value)(nil))
)

// tagFor returns the engine type a Go type binds as. Pointers bind as their
// element type. The second result is false for types with no coercion rule.
func tagFor(t reflect.Type) (DataType, bool) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t {
	case timeType:
		return TypeTimestamp, true
	case dateType:
		return TypeDate, true
	case durationType, intervalType:
		return TypeInterval, true
	case int128Type, bigIntType:
		return TypeInt128, true
	case uuidType:
		return TypeUUID, true
	case internalIDType:
		return TypeInternalID, true
	}
	switch t.Kind() {
	case reflect.Bool:
		return TypeBool, true
	case reflect.Int, reflect.Int64:
		return TypeInt64, true
	case reflect.Int32:
		return TypeInt32, true
	case reflect.Int16:
		return TypeInt16, true
	case reflect.Int8:
		return TypeInt8, true
	case reflect.Uint, reflect.Uint64:
		return TypeUint64, true
	case reflect.Uint32:
		return TypeUint32, true
	case reflect.Uint16:
		return TypeUint16, true
	case reflect.Uint8:
		return TypeUint8, true
	case reflect.Float32:
		return TypeFloat, true
	case reflect.Float64:
		return TypeDouble, true
	case reflect.String:
		return TypeString, true
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return TypeBlob, true
		}
	}
	return TypeAny, false
}

// encodeScalar converts rv to the payload of a value of type tag. A nil
// pointer or interface encodes a null of tag.
func encodeScalar(rv reflect.Value, tag DataType) (Scalar, error) {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Scalar{Type: tag, Null: true}, nil
		}
		if rv.Type() == reflect.PointerTo(bigIntType) {
			break
		}
		rv = rv.Elem()
	}
	s := Scalar{Type: tag}
	fail := func() (Scalar, error) {
		return Scalar{}, errorf(ErrTypeMismatch, "cannot encode %s as %s", rv.Type(), tag)
	}

	switch {
	case tag == TypeBool:
		if rv.Kind() != reflect.Bool {
			return fail()
		}
		s.Bool = rv.Bool()

	case tag.isSigned():
		i, ok := integerOf(rv)
		if !ok {
			return fail()
		}
		if !fitsSigned(i, tag) {
			return Scalar{}, errorf(ErrOutOfRange, "%v overflows %s", rv.Interface(), tag)
		}
		s.Int = i

	case tag.isUnsigned():
		u, ok := unsignedOf(rv)
		if !ok {
			return fail()
		}
		if !fitsUnsigned(u, tag) {
			return Scalar{}, errorf(ErrOutOfRange, "%v overflows %s", rv.Interface(), tag)
		}
		s.Uint = u

	case tag == TypeInt128:
		switch {
		case rv.Type() == int128Type:
			s.Int128 = rv.Interface().(Int128)
		case rv.Type() == bigIntType:
			b := rv.Interface().(big.Int)
			v, err := Int128FromBig(&b)
			if err != nil {
				return Scalar{}, err
			}
			s.Int128 = v
		case rv.Type() == reflect.PointerTo(bigIntType):
			v, err := Int128FromBig(rv.Interface().(*big.Int))
			if err != nil {
				return Scalar{}, err
			}
			s.Int128 = v
		case rv.Kind() == reflect.String:
			v, err := ParseInt128(rv.String())
			if err != nil {
				return Scalar{}, err
			}
			s.Int128 = v
		default:
			if i, ok := integerOf(rv); ok {
				s.Int128 = Int128FromInt64(i)
			} else if u, ok := unsignedOf(rv); ok {
				s.Int128 = Int128{Lo: u}
			} else {
				return fail()
			}
		}

	case tag == TypeFloat || tag == TypeDouble:
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			s.Float = rv.Float()
		default:
			if i, ok := integerOf(rv); ok {
				s.Float = float64(i)
			} else {
				return fail()
			}
		}
		if tag == TypeFloat && !math.IsInf(s.Float, 0) && math.Abs(s.Float) > math.MaxFloat32 {
			return Scalar{}, errorf(ErrOutOfRange, "%v overflows FLOAT", s.Float)
		}

	case tag == TypeString:
		switch {
		case rv.Kind() == reflect.String:
			s.String = rv.String()
		case rv.Type() == uuidType:
			s.String = rv.Interface().(uuid.UUID).String()
		default:
			return fail()
		}

	case tag == TypeBlob:
		switch {
		case rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8:
			s.Bytes = rv.Bytes()
		case rv.Kind() == reflect.String:
			s.Bytes = []byte(rv.String())
		default:
			return fail()
		}

	case tag == TypeDate:
		switch rv.Type() {
		case timeType:
			s.Int = int64(DaysFromTime(rv.Interface().(time.Time)))
		case dateType:
			s.Int = int64(DaysFromTime(rv.Interface().(Date).Time()))
		default:
			return fail()
		}

	case tag.IsTimestamp():
		var t time.Time
		switch rv.Type() {
		case timeType:
			t = rv.Interface().(time.Time)
		case dateType:
			t = rv.Interface().(Date).Time()
		default:
			return fail()
		}
		ticks, err := TicksFromTime(t, tag)
		if err != nil {
			return Scalar{}, err
		}
		s.Int = ticks

	case tag == TypeInterval:
		switch rv.Type() {
		case durationType:
			s.Interval = IntervalFromDuration(time.Duration(rv.Int()))
		case intervalType:
			s.Interval = rv.Interface().(Interval)
		default:
			return fail()
		}

	case tag == TypeUUID:
		switch {
		case rv.Type() == uuidType:
			s.String = rv.Interface().(uuid.UUID).String()
		case rv.Kind() == reflect.String:
			id, err := uuid.Parse(rv.String())
			if err != nil {
				return Scalar{}, &Error{Type: ErrTypeMismatch, Message: "invalid UUID", Cause: err}
			}
			s.String = id.String()
		default:
			return fail()
		}

	case tag == TypeInternalID:
		if rv.Type() != internalIDType {
			return fail()
		}
		s.ID = rv.Interface().(InternalID)

	default:
		return Scalar{}, errorf(ErrNotSupported, "cannot create %s values", tag)
	}
	return s, nil
}

func integerOf(rv reflect.Value) (int64, bool) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.Type() == durationType {
			return 0, false
		}
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if u := rv.Uint(); u <= math.MaxInt64 {
			return int64(u), true
		}
	}
	return 0, false
}

func unsignedOf(rv reflect.Value) (uint64, bool) {
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if i := rv.Int(); i >= 0 && rv.Type() != durationType {
			return uint64(i), true
		}
	}
	return 0, false
}

func fitsSigned(i int64, tag DataType) bool {
	switch tag {
	case TypeInt8:
		return i >= math.MinInt8 && i <= math.MaxInt8
	case TypeInt16:
		return i >= math.MinInt16 && i <= math.MaxInt16
	case TypeInt32:
		return i >= math.MinInt32 && i <= math.MaxInt32
	}
	return true
}

func fitsUnsigned(u uint64, tag DataType) bool {
	switch tag {
	case TypeUint8:
		return u <= math.MaxUint8
	case TypeUint16:
		return u <= math.MaxUint16
	case TypeUint32:
		return u <= math.MaxUint32
	}
	return true
}

// assign stores v into dst following the coercion table. dst must be
// settable.
func assign(dst reflect.Value, v *Value) error {
	null, err := v.IsNull()
	if err != nil {
		return err
	}
	switch dst.Kind() {
	case reflect.Pointer:
		if dst.Type() == valuePtrType {
			c, err := v.Clone()
			if err != nil {
				return err
			}
			dst.Set(reflect.ValueOf(c))
			return nil
		}
		if null {
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		if dst.Type() == reflect.PointerTo(bigIntType) {
			i, err := v.GetInt128()
			if err != nil {
				return err
			}
			dst.Set(reflect.ValueOf(i.Big()))
			return nil
		}
		elem := reflect.New(dst.Type().Elem())
		if err := assign(elem.Elem(), v); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	case reflect.Interface:
		x, err := v.Interface()
		if err != nil {
			return err
		}
		if x == nil {
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		xv := reflect.ValueOf(x)
		if !xv.Type().AssignableTo(dst.Type()) {
			return errorf(ErrTypeMismatch, "cannot assign %s to %s", xv.Type(), dst.Type())
		}
		dst.Set(xv)
		return nil
	}
	if null {
		return errorf(ErrTypeMismatch, "cannot assign NULL %s to %s", v.Type(), dst.Type())
	}

	switch dst.Type() {
	case timeType:
		var t time.Time
		if v.Type() == TypeDate {
			t, err = v.GetDate()
		} else {
			t, err = v.GetTimestamp()
		}
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(t))
		return nil
	case dateType:
		var t time.Time
		if v.Type() == TypeDate {
			t, err = v.GetDate()
		} else {
			t, err = v.GetTimestamp()
		}
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(DateOf(t)))
		return nil
	case durationType:
		i, err := v.GetInterval()
		if err != nil {
			return err
		}
		dst.SetInt(int64(i.Duration()))
		return nil
	case intervalType:
		i, err := v.GetInterval()
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(i))
		return nil
	case int128Type:
		var i Int128
		if v.Type() == TypeInt128 {
			i, err = v.GetInt128()
		} else {
			var n int64
			n, err = signedValue(v)
			i = Int128FromInt64(n)
		}
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(i))
		return nil
	case bigIntType:
		i, err := v.GetInt128()
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(i.Big()).Elem())
		return nil
	case uuidType:
		var id uuid.UUID
		if v.Type() == TypeString {
			var s string
			if s, err = v.GetString(); err == nil {
				id, err = uuid.Parse(s)
			}
		} else {
			id, err = v.GetUUID()
		}
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(id))
		return nil
	case internalIDType:
		var id InternalID
		switch v.Type() {
		case TypeNode, TypeRel:
			id, err = v.ID()
		default:
			id, err = v.GetInternalID()
		}
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(id))
		return nil
	case nodeType:
		n, err := v.Node()
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(n))
		return nil
	case relType:
		r, err := v.Rel()
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(r))
		return nil
	case recursiveType:
		r, err := v.RecursiveRel()
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(r))
		return nil
	}

	switch dst.Kind() {
	case reflect.Bool:
		b, err := v.GetBool()
		if err != nil {
			return err
		}
		dst.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := signedValue(v)
		if err != nil {
			return err
		}
		if dst.OverflowInt(i) {
			return errorf(ErrOutOfRange, "%d overflows %s", i, dst.Type())
		}
		dst.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := unsignedValue(v)
		if err != nil {
			return err
		}
		if dst.OverflowUint(u) {
			return errorf(ErrOutOfRange, "%d overflows %s", u, dst.Type())
		}
		dst.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := floatValue(v)
		if err != nil {
			return err
		}
		dst.SetFloat(f)
	case reflect.String:
		switch v.Type() {
		case TypeUUID:
			id, err := v.GetUUID()
			if err != nil {
				return err
			}
			dst.SetString(id.String())
		case TypeInt128:
			i, err := v.GetInt128()
			if err != nil {
				return err
			}
			dst.SetString(i.String())
		default:
			s, err := v.GetString()
			if err != nil {
				return err
			}
			dst.SetString(s)
		}
	case reflect.Slice:
		if dst.Type().Elem().Kind() == reflect.Uint8 && v.Type() != TypeList && v.Type() != TypeArray {
			var b []byte
			if v.Type() == TypeString {
				s, err := v.GetString()
				if err != nil {
					return err
				}
				b = []byte(s)
			} else {
				blob, err := v.Blob()
				if err != nil {
					return err
				}
				if b, err = blob.Bytes(); err != nil {
					return err
				}
			}
			dst.SetBytes(b)
			return nil
		}
		return assignList(dst, v)
	case reflect.Map:
		return assignMap(dst, v)
	case reflect.Struct:
		return assignStruct(dst, v)
	default:
		return errorf(ErrUnsupportedMemberType, "no coercion from %s to %s", v.Type(), dst.Type())
	}
	return nil
}

func signedValue(v *Value) (int64, error) {
	switch {
	case v.Type().isSigned():
		s, err := v.scalar("INT64", DataType.isSigned)
		return s.Int, err
	case v.Type().isUnsigned():
		s, err := v.scalar("UINT64", DataType.isUnsigned)
		if err == nil && s.Uint > math.MaxInt64 {
			return 0, errorf(ErrOutOfRange, "%d overflows int64", s.Uint)
		}
		return int64(s.Uint), err
	case v.Type() == TypeInt128:
		i, err := v.GetInt128()
		if err != nil {
			return 0, err
		}
		b := i.Big()
		if !b.IsInt64() {
			return 0, errorf(ErrOutOfRange, "%s overflows int64", b)
		}
		return b.Int64(), nil
	}
	return 0, mismatchError("integer", v.Type())
}

func unsignedValue(v *Value) (uint64, error) {
	if v.Type().isUnsigned() {
		s, err := v.scalar("UINT64", DataType.isUnsigned)
		return s.Uint, err
	}
	i, err := signedValue(v)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return 0, errorf(ErrOutOfRange, "%d is negative", i)
	}
	return uint64(i), nil
}

func floatValue(v *Value) (float64, error) {
	switch v.Type() {
	case TypeFloat, TypeDouble:
		s, err := v.scalar("DOUBLE", func(t DataType) bool { return t == TypeFloat || t == TypeDouble })
		return s.Float, err
	}
	if v.Type().isUnsigned() {
		u, err := unsignedValue(v)
		return float64(u), err
	}
	i, err := signedValue(v)
	if err != nil {
		return 0, mismatchError("DOUBLE", v.Type())
	}
	return float64(i), nil
}

func assignList(dst reflect.Value, v *Value) error {
	if err := v.expect("LIST", TypeList, TypeArray); err != nil {
		return err
	}
	n, err := v.Len()
	if err != nil {
		return err
	}
	out := reflect.MakeSlice(dst.Type(), n, n)
	for i := 0; i < n; i++ {
		e, err := v.Element(i)
		if err != nil {
			return err
		}
		if err := assign(out.Index(i), e); err != nil {
			return err
		}
	}
	dst.Set(out)
	return nil
}

func assignMap(dst reflect.Value, v *Value) error {
	t := dst.Type()
	switch v.Type() {
	case TypeStruct, TypeNode, TypeRel:
		if t.Key().Kind() != reflect.String {
			return errorf(ErrTypeMismatch, "cannot assign %s to %s", v.Type(), t)
		}
		n, err := v.Len()
		if err != nil {
			return err
		}
		out := reflect.MakeMapWithSize(t, n)
		for i := 0; i < n; i++ {
			var (
				name  string
				field *Value
			)
			if v.Type() == TypeStruct {
				if name, err = v.FieldName(i); err == nil {
					field, err = v.Field(i)
				}
			} else {
				if name, err = v.PropertyName(i); err == nil {
					field, err = v.PropertyAt(i)
				}
			}
			if err != nil {
				return err
			}
			elem := reflect.New(t.Elem()).Elem()
			if err := assign(elem, field); err != nil {
				return err
			}
			out.SetMapIndex(reflect.ValueOf(name).Convert(t.Key()), elem)
		}
		dst.Set(out)
		return nil
	case TypeMap:
		n, err := v.Len()
		if err != nil {
			return err
		}
		out := reflect.MakeMapWithSize(t, n)
		for i := 0; i < n; i++ {
			kv, err := v.Key(i)
			if err != nil {
				return err
			}
			vv, err := v.MapValue(i)
			if err != nil {
				return err
			}
			key := reflect.New(t.Key()).Elem()
			if err := assign(key, kv); err != nil {
				return err
			}
			elem := reflect.New(t.Elem()).Elem()
			if err := assign(elem, vv); err != nil {
				return err
			}
			out.SetMapIndex(key, elem)
		}
		dst.Set(out)
		return nil
	}
	return mismatchError("MAP", v.Type())
}

// assignStruct fills the members of a plain struct from the fields of a
// STRUCT or the properties of a NODE or REL, matching external names
// case-insensitively. Members without a counterpart are left untouched.
func assignStruct(dst reflect.Value, v *Value) error {
	if err := v.expect("STRUCT", TypeStruct, TypeNode, TypeRel); err != nil {
		return err
	}
	meta, err := metadataFor(dst.Type(), NamingExact)
	if err != nil {
		return err
	}
	for _, m := range meta.members {
		var (
			field *Value
			err   error
		)
		if v.Type() == TypeStruct {
			field, err = v.FieldByName(m.name)
		} else {
			field, err = propertyFold(v, m.name)
		}
		if IsError(err, ErrOutOfRange) {
			continue
		}
		if err != nil {
			return err
		}
		if err := assign(fieldAlloc(dst, m.index), field); err != nil {
			return &Error{Type: ErrTypeMismatch, Message: "member " + m.goName, Cause: err}
		}
	}
	return nil
}

func propertyFold(v *Value, name string) (*Value, error) {
	n, err := v.PropertyCount()
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		pn, err := v.PropertyName(i)
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(pn, name) {
			return v.PropertyAt(i)
		}
	}
	return nil, errorf(ErrOutOfRange, "no property %q", name)
}
