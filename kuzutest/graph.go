package kuzutest

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	kuzu "github.com/semihalev/go-kuzu"
)

type node struct {
	label string
	id    kuzu.InternalID
	props map[string]*datum
}

type rel struct {
	label    string
	id       kuzu.InternalID
	src, dst *node
	props    map[string]*datum
}

// graph is the storage of one fake database. Tables are created on first
// use; a table's columns are the union of the properties ever written.
type graph struct {
	tables  map[string]uint64
	columns map[string][]string
	offsets map[string]uint64
	nodes   []*node
	rels    []*rel
}

func newGraph() *graph {
	return &graph{
		tables:  make(map[string]uint64),
		columns: make(map[string][]string),
		offsets: make(map[string]uint64),
	}
}

// snapshot is what ROLLBACK restores.
type snapshot struct {
	nodes, rels int
	offsets     map[string]uint64
}

func (g *graph) snapshot() snapshot {
	return snapshot{nodes: len(g.nodes), rels: len(g.rels), offsets: maps.Clone(g.offsets)}
}

func (g *graph) restore(s snapshot) {
	g.nodes = g.nodes[:s.nodes]
	g.rels = g.rels[:s.rels]
	g.offsets = s.offsets
}

func (g *graph) table(label string) uint64 {
	id, ok := g.tables[label]
	if !ok {
		id = uint64(len(g.tables))
		g.tables[label] = id
	}
	return id
}

func (g *graph) nextID(label string) kuzu.InternalID {
	id := kuzu.InternalID{TableID: g.table(label), Offset: g.offsets[label]}
	g.offsets[label]++
	return id
}

func (g *graph) addColumns(label string, props map[string]*datum) {
	cols := g.columns[label]
	for _, name := range slices.Sorted(maps.Keys(props)) {
		if !slices.Contains(cols, name) {
			cols = append(cols, name)
		}
	}
	g.columns[label] = cols
}

func (g *graph) createNode(label string, props map[string]*datum) *node {
	n := &node{label: label, id: g.nextID(label), props: props}
	g.addColumns(label, props)
	g.nodes = append(g.nodes, n)
	return n
}

func (g *graph) createRel(label string, src, dst *node, props map[string]*datum) *rel {
	r := &rel{label: label, id: g.nextID(label), src: src, dst: dst, props: props}
	g.addColumns(label, props)
	g.rels = append(g.rels, r)
	return r
}

func (g *graph) nodeDatum(n *node) *datum {
	d := &datum{typ: kuzu.TypeNode, id: n.id, label: n.label}
	for _, c := range g.columns[n.label] {
		d.names = append(d.names, c)
		if v, ok := n.props[c]; ok {
			d.fields = append(d.fields, v)
		} else {
			d.fields = append(d.fields, nullDatum(kuzu.TypeAny))
		}
	}
	return d
}

func (g *graph) relDatum(r *rel) *datum {
	d := &datum{typ: kuzu.TypeRel, id: r.id, src: r.src.id, dst: r.dst.id, label: r.label}
	for _, c := range g.columns[r.label] {
		d.names = append(d.names, c)
		if v, ok := r.props[c]; ok {
			d.fields = append(d.fields, v)
		} else {
			d.fields = append(d.fields, nullDatum(kuzu.TypeAny))
		}
	}
	return d
}

// binding maps pattern variables to matched graph elements.
type binding map[string]*datum

func (b binding) with(name string, d *datum) binding {
	if name == "" {
		return b
	}
	out := make(binding, len(b)+1)
	maps.Copy(out, b)
	out[name] = d
	return out
}

// evaluator runs one statement against a graph.
type evaluator struct {
	g      *graph
	params map[string]*datum
}

func (ev *evaluator) eval(e *expr, b binding) (*datum, error) {
	switch e.kind {
	case exprLiteral:
		return e.lit, nil
	case exprParam:
		d, ok := ev.params[e.name]
		if !ok {
			return nil, fmt.Errorf("Runtime exception: parameter %s is not bound", e.name)
		}
		return d, nil
	case exprVar:
		d, ok := b[e.name]
		if !ok {
			return nil, fmt.Errorf("Binder exception: variable %s is not in scope", e.name)
		}
		return d, nil
	case exprProp:
		d, ok := b[e.name]
		if !ok {
			return nil, fmt.Errorf("Binder exception: variable %s is not in scope", e.name)
		}
		if d.typ != kuzu.TypeNode && d.typ != kuzu.TypeRel && d.typ != kuzu.TypeStruct {
			return nil, fmt.Errorf("Binder exception: %s has data type %s, expected NODE, REL or STRUCT", e.name, d.typ)
		}
		return d.property(e.prop), nil
	case exprList:
		elems := make([]*datum, len(e.elems))
		for i, el := range e.elems {
			d, err := ev.eval(el, b)
			if err != nil {
				return nil, err
			}
			elems[i] = d
		}
		return listDatum(elems), nil
	case exprStruct:
		d := &datum{typ: kuzu.TypeStruct, names: e.names}
		for _, el := range e.elems {
			f, err := ev.eval(el, b)
			if err != nil {
				return nil, err
			}
			d.fields = append(d.fields, f)
		}
		return d, nil
	case exprCall:
		args := make([]*datum, len(e.elems))
		for i, el := range e.elems {
			d, err := ev.eval(el, b)
			if err != nil {
				return nil, err
			}
			args[i] = d
		}
		return functions[e.name](args)
	}
	return nil, fmt.Errorf("Binder exception: COUNT_STAR() is only allowed in RETURN")
}

func (ev *evaluator) props(exprs []propExpr, b binding) (map[string]*datum, error) {
	out := make(map[string]*datum, len(exprs))
	for _, p := range exprs {
		d, err := ev.eval(p.value, b)
		if err != nil {
			return nil, err
		}
		out[p.name] = d
	}
	return out, nil
}

// matchProps reports whether every inline property equals the element's.
func (ev *evaluator) matchProps(exprs []propExpr, have map[string]*datum, b binding) (bool, error) {
	for _, p := range exprs {
		want, err := ev.eval(p.value, b)
		if err != nil {
			return false, err
		}
		got, ok := have[p.name]
		if !ok || got.null || want.null {
			return false, nil
		}
		if c, ok := compare(got, want); !ok || c != 0 {
			return false, nil
		}
	}
	return true, nil
}

func (ev *evaluator) nodeMatches(np nodePattern, n *node, b binding) (bool, error) {
	if np.label != "" && np.label != n.label {
		return false, nil
	}
	if prev, ok := b[np.variable]; ok && np.variable != "" {
		return prev.typ == kuzu.TypeNode && prev.id == n.id, nil
	}
	return ev.matchProps(np.props, n.props, b)
}

// match expands bindings over every pattern, as a cartesian product.
func (ev *evaluator) match(pats []pathPattern) ([]binding, error) {
	out := []binding{{}}
	for _, pat := range pats {
		var next []binding
		for _, b := range out {
			bs, err := ev.matchPath(pat, b)
			if err != nil {
				return nil, err
			}
			next = append(next, bs...)
		}
		out = next
	}
	return out, nil
}

func (ev *evaluator) matchPath(pat pathPattern, b binding) ([]binding, error) {
	var out []binding
	for _, n := range ev.g.nodes {
		ok, err := ev.nodeMatches(pat.nodes[0], n, b)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		nb := b.with(pat.nodes[0].variable, ev.g.nodeDatum(n))
		if pat.rel == nil {
			out = append(out, nb)
			continue
		}
		bs, err := ev.walk(pat, n, nb)
		if err != nil {
			return nil, err
		}
		out = append(out, bs...)
	}
	return out, nil
}

// step is one traversal of a relationship.
type step struct {
	r    *rel
	to   *node
	from *node
}

func (ev *evaluator) steps(rp *relPattern, from *node, b binding) ([]step, error) {
	var out []step
	for _, r := range ev.g.rels {
		if rp.label != "" && rp.label != r.label {
			continue
		}
		var to *node
		switch {
		case rp.direction >= 0 && r.src == from:
			to = r.dst
		case rp.direction <= 0 && r.dst == from:
			to = r.src
		default:
			continue
		}
		ok, err := ev.matchProps(rp.props, r.props, b)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, step{r: r, to: to, from: from})
		}
	}
	return out, nil
}

func (ev *evaluator) walk(pat pathPattern, start *node, b binding) ([]binding, error) {
	rp := pat.rel
	end := pat.nodes[1]
	var out []binding
	emit := func(path []step) error {
		last := path[len(path)-1].to
		ok, err := ev.nodeMatches(end, last, b)
		if err != nil || !ok {
			return err
		}
		var rd *datum
		if rp.recursive {
			rd = ev.recursive(path)
		} else {
			rd = ev.g.relDatum(path[0].r)
		}
		out = append(out, b.with(rp.variable, rd).with(end.variable, ev.g.nodeDatum(last)))
		return nil
	}

	if !rp.recursive {
		steps, err := ev.steps(rp, start, b)
		if err != nil {
			return nil, err
		}
		for _, s := range steps {
			if err := emit([]step{s}); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	var dfs func(at *node, path []step) error
	dfs = func(at *node, path []step) error {
		if len(path) >= rp.minHops {
			if err := emit(path); err != nil {
				return err
			}
		}
		if len(path) == rp.maxHops {
			return nil
		}
		steps, err := ev.steps(rp, at, b)
		if err != nil {
			return err
		}
		for _, s := range steps {
			if slices.ContainsFunc(path, func(p step) bool { return p.r == s.r }) {
				continue
			}
			if err := dfs(s.to, append(slices.Clone(path), s)); err != nil {
				return err
			}
		}
		return nil
	}
	if err := dfs(start, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// recursive builds a RECURSIVE_REL value; its node list holds the
// intermediate nodes only.
func (ev *evaluator) recursive(path []step) *datum {
	nodes := listDatum(nil)
	rels := listDatum(nil)
	for i, s := range path {
		if i > 0 {
			nodes.elems = append(nodes.elems, ev.g.nodeDatum(s.from))
		}
		rels.elems = append(rels.elems, ev.g.relDatum(s.r))
	}
	return &datum{typ: kuzu.TypeRecursiveRel, nodes: nodes, rels: rels}
}

func (ev *evaluator) filter(bs []binding, conds []condition) ([]binding, error) {
	if len(conds) == 0 {
		return bs, nil
	}
	var out []binding
	for _, b := range bs {
		keep := true
		for _, c := range conds {
			ok, err := ev.holds(c, b)
			if err != nil {
				return nil, err
			}
			if !ok {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, b)
		}
	}
	return out, nil
}

func (ev *evaluator) holds(c condition, b binding) (bool, error) {
	l, err := ev.eval(c.left, b)
	if err != nil {
		return false, err
	}
	r, err := ev.eval(c.right, b)
	if err != nil {
		return false, err
	}
	if l.null || r.null {
		return false, nil
	}
	cmp, ok := compare(l, r)
	if !ok {
		if c.op == "=" || c.op == "<>" {
			return c.op == "<>", nil
		}
		return false, fmt.Errorf("Binder exception: cannot compare %s and %s", l.typ, r.typ)
	}
	switch c.op {
	case "=":
		return cmp == 0, nil
	case "<>":
		return cmp != 0, nil
	case "<":
		return cmp < 0, nil
	case ">":
		return cmp > 0, nil
	case "<=":
		return cmp <= 0, nil
	}
	return cmp >= 0, nil
}

// create writes every pattern. A node variable already bound refers to the
// existing node.
func (ev *evaluator) create(pats []pathPattern, b binding) error {
	bound := map[string]*node{}
	for name, d := range b {
		if d.typ == kuzu.TypeNode {
			for _, n := range ev.g.nodes {
				if n.id == d.id {
					bound[name] = n
				}
			}
		}
	}
	for _, pat := range pats {
		var ends []*node
		for _, np := range pat.nodes {
			if n, ok := bound[np.variable]; ok && np.variable != "" {
				ends = append(ends, n)
				continue
			}
			if np.label == "" {
				return fmt.Errorf("Binder exception: create node %s expects a label", np.variable)
			}
			props, err := ev.props(np.props, b)
			if err != nil {
				return err
			}
			n := ev.g.createNode(np.label, props)
			if np.variable != "" {
				bound[np.variable] = n
			}
			ends = append(ends, n)
		}
		if pat.rel == nil {
			continue
		}
		rp := pat.rel
		if rp.label == "" || rp.recursive || rp.direction == 0 {
			return fmt.Errorf("Binder exception: create relationship expects a label and a direction")
		}
		props, err := ev.props(rp.props, b)
		if err != nil {
			return err
		}
		src, dst := ends[0], ends[1]
		if rp.direction < 0 {
			src, dst = dst, src
		}
		ev.g.createRel(rp.label, src, dst, props)
	}
	return nil
}

// project evaluates the RETURN items. With COUNT_STAR() the other items
// are grouping keys.
func (ev *evaluator) project(st *statement, bs []binding) (*resultData, error) {
	res := &resultData{}
	counting := -1
	for i, it := range st.items {
		res.columns = append(res.columns, it.column())
		if it.e.kind == exprCountStar {
			counting = i
		}
	}
	if counting < 0 {
		for _, b := range bs {
			row, err := ev.row(st.items, b, -1)
			if err != nil {
				return nil, err
			}
			res.rows = append(res.rows, row)
		}
	} else {
		var order []string
		groups := map[string][]*datum{}
		counts := map[string]int64{}
		for _, b := range bs {
			row, err := ev.row(st.items, b, counting)
			if err != nil {
				return nil, err
			}
			key := groupKey(row)
			if _, ok := groups[key]; !ok {
				order = append(order, key)
				groups[key] = row
			}
			counts[key]++
		}
		if len(order) == 0 && len(st.items) == 1 {
			order, groups[""] = []string{""}, make([]*datum, 1)
		}
		for _, key := range order {
			row := groups[key]
			row[counting] = intDatum(counts[key])
			res.rows = append(res.rows, row)
		}
	}
	if st.limit >= 0 && len(res.rows) > st.limit {
		res.rows = res.rows[:st.limit]
	}
	return res, nil
}

func (ev *evaluator) row(items []returnItem, b binding, skip int) ([]*datum, error) {
	row := make([]*datum, len(items))
	for i, it := range items {
		if i == skip {
			continue
		}
		d, err := ev.eval(it.e, b)
		if err != nil {
			return nil, err
		}
		row[i] = d
	}
	return row, nil
}

func groupKey(row []*datum) string {
	var b strings.Builder
	for _, d := range row {
		if d != nil {
			b.WriteString(d.typ.String())
			b.WriteByte('=')
			b.WriteString(d.String())
		}
		b.WriteByte('|')
	}
	return b.String()
}

var functions = map[string]func(args []*datum) (*datum, error){
	"date":      stringFunc("DATE", dateDatum),
	"timestamp": stringFunc("TIMESTAMP", timestampDatum),
	"uuid": stringFunc("UUID", func(s string) (*datum, error) {
		return scalarDatum(kuzu.Scalar{Type: kuzu.TypeUUID, String: strings.ToLower(s)}), nil
	}),
	"blob": stringFunc("BLOB", func(s string) (*datum, error) {
		p, err := unescape(s)
		if err != nil {
			return nil, err
		}
		return scalarDatum(kuzu.Scalar{Type: kuzu.TypeBlob, Bytes: p}), nil
	}),
	"map": func(args []*datum) (*datum, error) {
		if len(args) != 2 || args[0].typ != kuzu.TypeList || args[1].typ != kuzu.TypeList ||
			len(args[0].elems) != len(args[1].elems) {
			return nil, fmt.Errorf("Binder exception: MAP expects two lists of equal length")
		}
		return &datum{typ: kuzu.TypeMap, keys: args[0].elems, vals: args[1].elems}, nil
	},
}

func stringFunc(name string, fn func(string) (*datum, error)) func(args []*datum) (*datum, error) {
	return func(args []*datum) (*datum, error) {
		if len(args) != 1 || !isText(args[0].typ) {
			return nil, fmt.Errorf("Binder exception: %s expects one STRING argument", name)
		}
		if args[0].null {
			return nullDatum(kuzu.TypeAny), nil
		}
		return fn(args[0].scalar.String)
	}
}

// unescape decodes \xHH sequences.
func unescape(s string) ([]byte, error) {
	var out []byte
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) && (s[i+1] == 'x' || s[i+1] == 'X') {
			c, err := strconv.ParseUint(s[i+2:i+4], 16, 8)
			if err != nil {
				return nil, fmt.Errorf("Conversion exception: invalid blob escape %q", s[i:i+4])
			}
			out = append(out, byte(c))
			i += 3
			continue
		}
		out = append(out, s[i])
	}
	return out, nil
}
