package kuzu

import (
	"reflect"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// memberMeta describes one bindable struct member.
type memberMeta struct {
	goName   string
	name     string // external name after tag override or naming strategy
	index    []int
	typ      reflect.Type
	tag      DataType
	nullable bool
	bindable bool
}

// typeMeta is the cached member list of one (type, naming strategy) pair.
type typeMeta struct {
	typ         reflect.Type
	strategy    NamingStrategy
	members     []memberMeta
	unsupported []string
	byName      map[string]int // lower-cased external name -> members index
}

type metaKey struct {
	typ      reflect.Type
	strategy NamingStrategy
}

var (
	metaCache   sync.Map // metaKey -> *typeMeta
	metaBuilds  atomic.Uint64
	metaEntries atomic.Int64
)

// BinderCacheStats reports the state of the process-wide object binder
// cache.
type BinderCacheStats struct {
	// Entries is the number of cached (type, naming strategy) pairs.
	Entries int
	// Builds counts how many times member metadata was built by reflection.
	Builds uint64
}

// BinderStats returns the object binder cache counters.
func BinderStats() BinderCacheStats {
	return BinderCacheStats{Entries: int(metaEntries.Load()), Builds: metaBuilds.Load()}
}

// metadataFor returns the cached metadata for t under strategy, building it
// on first use. Pointers to structs are accepted.
func metadataFor(t reflect.Type, strategy NamingStrategy) (*typeMeta, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, errorf(ErrTypeMismatch, "cannot bind members of %s, want a struct", t)
	}
	key := metaKey{typ: t, strategy: strategy}
	if m, ok := metaCache.Load(key); ok {
		return m.(*typeMeta), nil
	}
	m, loaded := metaCache.LoadOrStore(key, buildMeta(t, strategy))
	if !loaded {
		metaEntries.Add(1)
	}
	return m.(*typeMeta), nil
}

func buildMeta(t reflect.Type, strategy NamingStrategy) *typeMeta {
	metaBuilds.Add(1)
	meta := &typeMeta{typ: t, strategy: strategy, byName: make(map[string]int)}
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() {
			continue
		}
		tagName, hasTag := f.Tag.Lookup("kuzu")
		if tagName == "-" {
			continue
		}
		if idx := strings.IndexByte(tagName, ','); idx >= 0 {
			tagName = tagName[:idx]
		}
		ft := f.Type
		if f.Anonymous && !hasTag {
			if _, ok := tagFor(ft); !ok {
				base := ft
				if base.Kind() == reflect.Pointer {
					base = base.Elem()
				}
				if base.Kind() == reflect.Struct {
					// flattened: VisibleFields already lists its members
					continue
				}
			}
		}

		name := tagName
		if name == "" {
			name = strategy.Apply(f.Name)
		}
		tag, ok := tagFor(ft)
		if ok && tag == TypeTimestamp && isDateName(name) {
			tag = TypeDate
		}
		m := memberMeta{
			goName:   f.Name,
			name:     name,
			index:    f.Index,
			typ:      ft,
			tag:      tag,
			nullable: ft.Kind() == reflect.Pointer || ft.Kind() == reflect.Interface,
			bindable: ok,
		}
		if !ok {
			meta.unsupported = append(meta.unsupported, f.Name+" ("+ft.String()+")")
		}
		lower := strings.ToLower(name)
		if _, dup := meta.byName[lower]; !dup {
			meta.byName[lower] = len(meta.members)
		}
		meta.members = append(meta.members, m)
	}
	return meta
}

// isDateName is the member name heuristic that decides between DATE and
// TIMESTAMP for time.Time members. A timestamp member called update_date
// binds as DATE; use a Date member or an explicit Bind to avoid it.
func isDateName(name string) bool {
	return strings.Contains(strings.ToLower(name), "date")
}

// member returns the metadata of the member with external name name,
// compared case-insensitively.
func (m *typeMeta) member(name string) (*memberMeta, bool) {
	i, ok := m.byName[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return &m.members[i], true
}

// namedScalar is one encoded parameter ready to be bound.
type namedScalar struct {
	name   string
	scalar Scalar
}

// encodeObject reads the current member values of obj and encodes them.
// Nothing is returned unless every member can be encoded.
func encodeObject(obj any, strategy NamingStrategy) ([]namedScalar, error) {
	rv := reflect.ValueOf(obj)
	if !rv.IsValid() {
		return nil, errorf(ErrTypeMismatch, "cannot bind nil object")
	}
	if rv.Kind() == reflect.Map {
		return encodeMap(rv, strategy)
	}
	meta, err := metadataFor(rv.Type(), strategy)
	if err != nil {
		return nil, err
	}
	if len(meta.unsupported) > 0 {
		return nil, errorf(ErrUnsupportedMemberType, "%s: no coercion for member %s",
			meta.typ, strings.Join(meta.unsupported, ", "))
	}
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, errorf(ErrTypeMismatch, "cannot bind nil %s", rv.Type())
		}
		rv = rv.Elem()
	}
	out := make([]namedScalar, 0, len(meta.members))
	for _, m := range meta.members {
		fv, err := rv.FieldByIndexErr(m.index)
		if err != nil {
			// member promoted through a nil embedded pointer
			out = append(out, namedScalar{name: m.name, scalar: Scalar{Type: m.tag, Null: true}})
			continue
		}
		s, err := encodeScalar(fv, m.tag)
		if err != nil {
			return nil, &Error{Type: ErrBind, Message: "member " + m.goName, Cause: err}
		}
		out = append(out, namedScalar{name: m.name, scalar: s})
	}
	return out, nil
}

func encodeMap(rv reflect.Value, strategy NamingStrategy) ([]namedScalar, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, errorf(ErrTypeMismatch, "cannot bind %s, map keys must be strings", rv.Type())
	}
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	out := make([]namedScalar, 0, len(keys))
	for _, k := range keys {
		v := rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()))
		s, err := scalarOf(v)
		if err != nil {
			return nil, &Error{Type: ErrBind, Message: "key " + k, Cause: err}
		}
		out = append(out, namedScalar{name: strategy.Apply(k), scalar: s})
	}
	return out, nil
}

// scalarOf encodes a dynamic value with the tag its Go type binds as.
func scalarOf(rv reflect.Value) (Scalar, error) {
	for rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Scalar{Type: TypeAny, Null: true}, nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return Scalar{Type: TypeAny, Null: true}, nil
	}
	tag, ok := tagFor(rv.Type())
	if !ok {
		return Scalar{}, errorf(ErrUnsupportedMemberType, "no coercion for %s", rv.Type())
	}
	return encodeScalar(rv, tag)
}
