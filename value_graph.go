package kuzu

import "strings"

// Node is the Go representation of a NODE value.
type Node struct {
	ID         InternalID
	Label      string
	Properties map[string]any
}

// Rel is the Go representation of a REL value.
type Rel struct {
	ID         InternalID
	Src        InternalID
	Dst        InternalID
	Label      string
	Properties map[string]any
}

// RecursiveRel is the Go representation of a RECURSIVE_REL value: the nodes
// and relationships along a path.
type RecursiveRel struct {
	Nodes []Node
	Rels  []Rel
}

// MapEntry is one key/value pair of a MAP value, in engine order.
type MapEntry struct {
	Key   any
	Value any
}

// child returns the cached borrowed wrapper for a child handle, creating it
// with fetch on first use.
func (v *Value) child(key childKey, fetch func() (Handle, error)) (*Value, error) {
	if c, ok := v.children[key]; ok {
		return c, nil
	}
	h, err := fetch()
	if err != nil {
		return nil, &Error{Type: ErrGeneric, Message: "read child value", Cause: err}
	}
	c := newBorrowedValue(v.engine, h, lease{}, v)
	if v.children == nil {
		v.children = make(map[childKey]*Value)
	}
	v.children[key] = c
	return c, nil
}

func (v *Value) expect(want string, types ...DataType) error {
	if err := v.check(); err != nil {
		return err
	}
	for _, t := range types {
		if v.tag == t {
			return nil
		}
	}
	return mismatchError(want, v.tag)
}

// Len returns the number of elements of a LIST or ARRAY, fields of a
// STRUCT, entries of a MAP or properties of a NODE or REL.
func (v *Value) Len() (int, error) {
	if err := v.check(); err != nil {
		return 0, err
	}
	var (
		n   int
		err error
	)
	switch v.tag {
	case TypeList, TypeArray:
		n, err = v.engine.ListSize(v.handle)
	case TypeStruct, TypeUnion:
		n, err = v.engine.StructFieldCount(v.handle)
	case TypeMap:
		n, err = v.engine.MapSize(v.handle)
	case TypeNode, TypeRel:
		n, err = v.engine.PropertyCount(v.handle)
	default:
		return 0, mismatchError("container", v.tag)
	}
	if err != nil {
		return 0, &Error{Type: ErrGeneric, Message: "read container size", Cause: err}
	}
	return n, nil
}

func (v *Value) bounded(what string, i int) error {
	n, err := v.Len()
	if err != nil {
		return err
	}
	if i < 0 || i >= n {
		return rangeError(what, i, n)
	}
	return nil
}

// Element returns element i of a LIST or ARRAY. The element is borrowed
// from v and becomes unusable when v does.
func (v *Value) Element(i int) (*Value, error) {
	if err := v.expect("LIST", TypeList, TypeArray); err != nil {
		return nil, err
	}
	if err := v.bounded("list", i); err != nil {
		return nil, err
	}
	return v.child(childKey{childElement, i}, func() (Handle, error) {
		return v.engine.ListElement(v.handle, i)
	})
}

// FieldName returns the name of field i of a STRUCT.
func (v *Value) FieldName(i int) (string, error) {
	if err := v.expect("STRUCT", TypeStruct, TypeUnion); err != nil {
		return "", err
	}
	if err := v.bounded("struct field", i); err != nil {
		return "", err
	}
	return v.engine.StructFieldName(v.handle, i)
}

// Field returns field i of a STRUCT, borrowed from v.
func (v *Value) Field(i int) (*Value, error) {
	if err := v.expect("STRUCT", TypeStruct, TypeUnion); err != nil {
		return nil, err
	}
	if err := v.bounded("struct field", i); err != nil {
		return nil, err
	}
	return v.child(childKey{childField, i}, func() (Handle, error) {
		return v.engine.StructFieldValue(v.handle, i)
	})
}

// FieldByName returns the STRUCT field called name, compared
// case-insensitively.
func (v *Value) FieldByName(name string) (*Value, error) {
	n, err := v.Len()
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		fn, err := v.FieldName(i)
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(fn, name) {
			return v.Field(i)
		}
	}
	return nil, errorf(ErrOutOfRange, "struct has no field %q", name)
}

// Key returns the key of MAP entry i, borrowed from v.
func (v *Value) Key(i int) (*Value, error) {
	if err := v.expect("MAP", TypeMap); err != nil {
		return nil, err
	}
	if err := v.bounded("map", i); err != nil {
		return nil, err
	}
	return v.child(childKey{childMapKey, i}, func() (Handle, error) {
		return v.engine.MapKey(v.handle, i)
	})
}

// MapValue returns the value of MAP entry i, borrowed from v.
func (v *Value) MapValue(i int) (*Value, error) {
	if err := v.expect("MAP", TypeMap); err != nil {
		return nil, err
	}
	if err := v.bounded("map", i); err != nil {
		return nil, err
	}
	return v.child(childKey{childMapValue, i}, func() (Handle, error) {
		return v.engine.MapValue(v.handle, i)
	})
}

// ID returns the internal id of a NODE or REL.
func (v *Value) ID() (InternalID, error) {
	if err := v.expect("NODE or REL", TypeNode, TypeRel); err != nil {
		return InternalID{}, err
	}
	if v.tag == TypeNode {
		return v.engine.NodeID(v.handle)
	}
	return v.engine.RelID(v.handle)
}

// Label returns the label of a NODE or REL.
func (v *Value) Label() (string, error) {
	if err := v.expect("NODE or REL", TypeNode, TypeRel); err != nil {
		return "", err
	}
	if v.tag == TypeNode {
		return v.engine.NodeLabel(v.handle)
	}
	return v.engine.RelLabel(v.handle)
}

// SrcID returns the source node id of a REL.
func (v *Value) SrcID() (InternalID, error) {
	if err := v.expect("REL", TypeRel); err != nil {
		return InternalID{}, err
	}
	return v.engine.RelSrcID(v.handle)
}

// DstID returns the destination node id of a REL.
func (v *Value) DstID() (InternalID, error) {
	if err := v.expect("REL", TypeRel); err != nil {
		return InternalID{}, err
	}
	return v.engine.RelDstID(v.handle)
}

// PropertyCount returns the number of properties of a NODE or REL.
func (v *Value) PropertyCount() (int, error) {
	if err := v.expect("NODE or REL", TypeNode, TypeRel); err != nil {
		return 0, err
	}
	return v.Len()
}

// PropertyName returns the name of property i of a NODE or REL.
func (v *Value) PropertyName(i int) (string, error) {
	if err := v.expect("NODE or REL", TypeNode, TypeRel); err != nil {
		return "", err
	}
	if err := v.bounded("property", i); err != nil {
		return "", err
	}
	return v.engine.PropertyName(v.handle, i)
}

// PropertyAt returns property i of a NODE or REL, borrowed from v.
func (v *Value) PropertyAt(i int) (*Value, error) {
	if err := v.expect("NODE or REL", TypeNode, TypeRel); err != nil {
		return nil, err
	}
	if err := v.bounded("property", i); err != nil {
		return nil, err
	}
	return v.child(childKey{childProperty, i}, func() (Handle, error) {
		return v.engine.PropertyValue(v.handle, i)
	})
}

// Property returns the property called name of a NODE or REL.
func (v *Value) Property(name string) (*Value, error) {
	n, err := v.Len()
	if err != nil {
		return nil, err
	}
	if v.tag != TypeNode && v.tag != TypeRel {
		return nil, mismatchError("NODE or REL", v.tag)
	}
	for i := 0; i < n; i++ {
		pn, err := v.PropertyName(i)
		if err != nil {
			return nil, err
		}
		if pn == name {
			return v.PropertyAt(i)
		}
	}
	return nil, errorf(ErrOutOfRange, "no property %q", name)
}

// Nodes returns the LIST of nodes along a RECURSIVE_REL.
func (v *Value) Nodes() (*Value, error) {
	if err := v.expect("RECURSIVE_REL", TypeRecursiveRel); err != nil {
		return nil, err
	}
	return v.child(childKey{childNodes, 0}, func() (Handle, error) {
		return v.engine.RecursiveRelNodes(v.handle)
	})
}

// Rels returns the LIST of relationships along a RECURSIVE_REL.
func (v *Value) Rels() (*Value, error) {
	if err := v.expect("RECURSIVE_REL", TypeRecursiveRel); err != nil {
		return nil, err
	}
	return v.child(childKey{childRels, 0}, func() (Handle, error) {
		return v.engine.RecursiveRelRels(v.handle)
	})
}

func (v *Value) properties() (map[string]any, error) {
	n, err := v.Len()
	if err != nil {
		return nil, err
	}
	props := make(map[string]any, n)
	for i := 0; i < n; i++ {
		name, err := v.PropertyName(i)
		if err != nil {
			return nil, err
		}
		pv, err := v.PropertyAt(i)
		if err != nil {
			return nil, err
		}
		if props[name], err = pv.Interface(); err != nil {
			return nil, err
		}
	}
	return props, nil
}

// Node converts a NODE value.
func (v *Value) Node() (Node, error) {
	if err := v.expect("NODE", TypeNode); err != nil {
		return Node{}, err
	}
	var (
		n   Node
		err error
	)
	if n.ID, err = v.ID(); err != nil {
		return Node{}, err
	}
	if n.Label, err = v.Label(); err != nil {
		return Node{}, err
	}
	if n.Properties, err = v.properties(); err != nil {
		return Node{}, err
	}
	return n, nil
}

// Rel converts a REL value.
func (v *Value) Rel() (Rel, error) {
	if err := v.expect("REL", TypeRel); err != nil {
		return Rel{}, err
	}
	var (
		r   Rel
		err error
	)
	if r.ID, err = v.ID(); err != nil {
		return Rel{}, err
	}
	if r.Src, err = v.SrcID(); err != nil {
		return Rel{}, err
	}
	if r.Dst, err = v.DstID(); err != nil {
		return Rel{}, err
	}
	if r.Label, err = v.Label(); err != nil {
		return Rel{}, err
	}
	if r.Properties, err = v.properties(); err != nil {
		return Rel{}, err
	}
	return r, nil
}

// RecursiveRel converts a RECURSIVE_REL value.
func (v *Value) RecursiveRel() (RecursiveRel, error) {
	nodes, err := v.Nodes()
	if err != nil {
		return RecursiveRel{}, err
	}
	rels, err := v.Rels()
	if err != nil {
		return RecursiveRel{}, err
	}
	var out RecursiveRel
	if err := eachElement(nodes, func(e *Value) error {
		n, err := e.Node()
		out.Nodes = append(out.Nodes, n)
		return err
	}); err != nil {
		return RecursiveRel{}, err
	}
	if err := eachElement(rels, func(e *Value) error {
		r, err := e.Rel()
		out.Rels = append(out.Rels, r)
		return err
	}); err != nil {
		return RecursiveRel{}, err
	}
	return out, nil
}

func eachElement(list *Value, fn func(*Value) error) error {
	n, err := list.Len()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		e, err := list.Element(i)
		if err != nil {
			return err
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

func (v *Value) listInterface() ([]any, error) {
	n, err := v.Len()
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, n)
	err = eachElement(v, func(e *Value) error {
		x, err := e.Interface()
		out = append(out, x)
		return err
	})
	return out, err
}

func (v *Value) structInterface() (map[string]any, error) {
	n, err := v.Len()
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, n)
	for i := 0; i < n; i++ {
		name, err := v.FieldName(i)
		if err != nil {
			return nil, err
		}
		f, err := v.Field(i)
		if err != nil {
			return nil, err
		}
		if out[name], err = f.Interface(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (v *Value) mapInterface() ([]MapEntry, error) {
	n, err := v.Len()
	if err != nil {
		return nil, err
	}
	out := make([]MapEntry, n)
	for i := 0; i < n; i++ {
		k, err := v.Key(i)
		if err != nil {
			return nil, err
		}
		val, err := v.MapValue(i)
		if err != nil {
			return nil, err
		}
		if out[i].Key, err = k.Interface(); err != nil {
			return nil, err
		}
		if out[i].Value, err = val.Interface(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
