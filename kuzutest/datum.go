package kuzutest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	kuzu "github.com/semihalev/go-kuzu"
)

// datum is one value inside the fake engine. Scalars live in scalar; the
// other fields hold container and graph payloads.
type datum struct {
	typ    kuzu.DataType
	null   bool
	scalar kuzu.Scalar

	elems []*datum // LIST

	names  []string // STRUCT fields, NODE and REL properties
	fields []*datum

	keys, vals []*datum // MAP

	id, src, dst kuzu.InternalID // NODE and REL
	label        string

	nodes, rels *datum // RECURSIVE_REL, both LISTs
}

func nullDatum(t kuzu.DataType) *datum {
	return &datum{typ: t, null: true, scalar: kuzu.Scalar{Type: t, Null: true}}
}

func scalarDatum(s kuzu.Scalar) *datum {
	return &datum{typ: s.Type, null: s.Null, scalar: s}
}

func intDatum(v int64) *datum {
	return scalarDatum(kuzu.Scalar{Type: kuzu.TypeInt64, Int: v})
}

func stringDatum(v string) *datum {
	return scalarDatum(kuzu.Scalar{Type: kuzu.TypeString, String: v})
}

func listDatum(elems []*datum) *datum {
	return &datum{typ: kuzu.TypeList, elems: elems}
}

func (d *datum) isScalar() bool {
	return !d.typ.IsContainer()
}

// copy returns a shallow copy; payloads are never mutated in place apart
// from the null flag.
func (d *datum) copy() *datum {
	c := *d
	return &c
}

func (d *datum) property(name string) *datum {
	for i, n := range d.names {
		if n == name {
			return d.fields[i]
		}
	}
	return nullDatum(kuzu.TypeAny)
}

// String renders d the way the engine prints values.
func (d *datum) String() string {
	if d.null {
		return ""
	}
	var b strings.Builder
	d.write(&b)
	return b.String()
}

func (d *datum) write(b *strings.Builder) {
	if d.null {
		return
	}
	switch d.typ {
	case kuzu.TypeList, kuzu.TypeArray:
		b.WriteByte('[')
		for i, e := range d.elems {
			if i > 0 {
				b.WriteByte(',')
			}
			e.write(b)
		}
		b.WriteByte(']')
	case kuzu.TypeStruct:
		b.WriteByte('{')
		for i, n := range d.names {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(n)
			b.WriteString(": ")
			d.fields[i].write(b)
		}
		b.WriteByte('}')
	case kuzu.TypeMap:
		b.WriteByte('{')
		for i := range d.keys {
			if i > 0 {
				b.WriteString(", ")
			}
			d.keys[i].write(b)
			b.WriteByte('=')
			d.vals[i].write(b)
		}
		b.WriteByte('}')
	case kuzu.TypeNode:
		fmt.Fprintf(b, "{_ID: %s, _LABEL: %s", d.id, d.label)
		for i, n := range d.names {
			b.WriteString(", ")
			b.WriteString(n)
			b.WriteString(": ")
			d.fields[i].write(b)
		}
		b.WriteByte('}')
	case kuzu.TypeRel:
		fmt.Fprintf(b, "(%s)-{_LABEL: %s, _ID: %s", d.src, d.label, d.id)
		for i, n := range d.names {
			b.WriteString(", ")
			b.WriteString(n)
			b.WriteString(": ")
			d.fields[i].write(b)
		}
		fmt.Fprintf(b, "}->(%s)", d.dst)
	case kuzu.TypeRecursiveRel:
		b.WriteString("{_NODES: ")
		d.nodes.write(b)
		b.WriteString(", _RELS: ")
		d.rels.write(b)
		b.WriteByte('}')
	default:
		b.WriteString(formatScalar(d.scalar))
	}
}

func formatScalar(s kuzu.Scalar) string {
	switch {
	case s.Type == kuzu.TypeBool:
		if s.Bool {
			return "True"
		}
		return "False"
	case s.Type == kuzu.TypeInt128:
		return s.Int128.String()
	case s.Type == kuzu.TypeFloat:
		return strconv.FormatFloat(s.Float, 'g', -1, 32)
	case s.Type == kuzu.TypeDouble:
		return strconv.FormatFloat(s.Float, 'g', -1, 64)
	case s.Type == kuzu.TypeString, s.Type == kuzu.TypeUUID:
		return s.String
	case s.Type == kuzu.TypeBlob:
		return escapeBlob(s.Bytes)
	case s.Type == kuzu.TypeDate:
		return kuzu.TimeFromDays(int32(s.Int)).Format("2006-01-02")
	case s.Type.IsTimestamp():
		t, _ := kuzu.TimeFromTicks(s.Int, s.Type)
		return t.Format("2006-01-02 15:04:05.999999999")
	case s.Type == kuzu.TypeInterval:
		return s.Interval.String()
	case s.Type == kuzu.TypeInternalID:
		return s.ID.String()
	case isUnsigned(s.Type):
		return strconv.FormatUint(s.Uint, 10)
	}
	return strconv.FormatInt(s.Int, 10)
}

func isUnsigned(t kuzu.DataType) bool {
	switch t {
	case kuzu.TypeUint8, kuzu.TypeUint16, kuzu.TypeUint32, kuzu.TypeUint64:
		return true
	}
	return false
}

// escapeBlob writes printable ASCII as is and every other byte as \xHH.
func escapeBlob(p []byte) string {
	var b strings.Builder
	for _, c := range p {
		if c >= 0x20 && c < 0x7f && c != '\\' {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, `\x%02X`, c)
	}
	return b.String()
}

// number returns d as float64 for numeric comparison.
func (d *datum) number() (float64, bool) {
	s := d.scalar
	switch {
	case s.Type == kuzu.TypeFloat || s.Type == kuzu.TypeDouble:
		return s.Float, true
	case isUnsigned(s.Type):
		return float64(s.Uint), true
	case s.Type == kuzu.TypeInt8, s.Type == kuzu.TypeInt16, s.Type == kuzu.TypeInt32,
		s.Type == kuzu.TypeInt64, s.Type == kuzu.TypeSerial:
		return float64(s.Int), true
	case s.Type == kuzu.TypeInt128:
		f, _ := s.Int128.Big().Float64()
		return f, true
	}
	return 0, false
}

// compare orders two non-null scalars. ok is false when they are not
// comparable.
func compare(a, b *datum) (c int, ok bool) {
	if x, okx := a.number(); okx {
		y, oky := b.number()
		if !oky {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	}
	if a.typ != b.typ && !(isText(a.typ) && isText(b.typ)) {
		return 0, false
	}
	switch {
	case isText(a.typ):
		return strings.Compare(a.scalar.String, b.scalar.String), true
	case a.typ == kuzu.TypeBool:
		if a.scalar.Bool == b.scalar.Bool {
			return 0, true
		}
		if b.scalar.Bool {
			return -1, true
		}
		return 1, true
	case a.typ == kuzu.TypeDate || a.typ.IsTimestamp():
		return cmpInt(a.scalar.Int, b.scalar.Int), true
	}
	if a.String() == b.String() {
		return 0, true
	}
	return 0, false
}

func isText(t kuzu.DataType) bool {
	return t == kuzu.TypeString || t == kuzu.TypeUUID
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// literal turns a parsed literal token into a datum.
func literal(kind tokenKind, text string) (*datum, error) {
	switch kind {
	case tokInt:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer literal %s", text)
		}
		return intDatum(v), nil
	case tokFloat:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float literal %s", text)
		}
		return scalarDatum(kuzu.Scalar{Type: kuzu.TypeDouble, Float: v}), nil
	case tokString:
		return stringDatum(text), nil
	}
	switch strings.ToUpper(text) {
	case "TRUE":
		return scalarDatum(kuzu.Scalar{Type: kuzu.TypeBool, Bool: true}), nil
	case "FALSE":
		return scalarDatum(kuzu.Scalar{Type: kuzu.TypeBool}), nil
	case "NULL":
		return nullDatum(kuzu.TypeAny), nil
	}
	return nil, fmt.Errorf("unexpected literal %s", text)
}

// dateDatum is used by the date() function.
func dateDatum(s string) (*datum, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", s)
	}
	return scalarDatum(kuzu.Scalar{Type: kuzu.TypeDate, Int: int64(kuzu.DaysFromTime(t))}), nil
}

// timestampDatum is used by the timestamp() function.
func timestampDatum(s string) (*datum, error) {
	for _, layout := range []string{"2006-01-02 15:04:05.999999999", "2006-01-02T15:04:05.999999999Z07:00", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return scalarDatum(kuzu.Scalar{Type: kuzu.TypeTimestamp, Int: t.UnixMicro()}), nil
		}
	}
	return nil, fmt.Errorf("invalid timestamp %q", s)
}
