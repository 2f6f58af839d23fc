package kuzutest

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

type stmtKind uint8

const (
	stmtCreate stmtKind = iota
	stmtMatch
	stmtReturn
	stmtBegin
	stmtCommit
	stmtRollback
	stmtDDL
)

type statement struct {
	kind     stmtKind
	readOnly bool // BEGIN TRANSACTION READ ONLY
	table    string

	match  []pathPattern
	where  []condition
	create []pathPattern
	items  []returnItem
	limit  int // -1 when absent
}

func (s *statement) writes() bool {
	return len(s.create) > 0 || s.kind == stmtDDL
}

type nodePattern struct {
	variable string
	label    string
	props    []propExpr
}

type relPattern struct {
	variable string
	label    string
	props    []propExpr
	// direction is 1 for -[]->, -1 for <-[]- and 0 for -[]-
	direction int
	recursive bool
	minHops   int
	maxHops   int
}

// pathPattern is a node optionally followed by one relationship and a node.
type pathPattern struct {
	nodes []nodePattern
	rel   *relPattern
}

type propExpr struct {
	name  string
	value *expr
}

type exprKind uint8

const (
	exprLiteral exprKind = iota
	exprParam
	exprVar
	exprProp
	exprList
	exprStruct
	exprCountStar
	exprCall
)

type expr struct {
	kind  exprKind
	lit   *datum
	name  string // param, variable or function name
	prop  string
	elems []*expr
	names []string // struct literal keys
	text  string
}

type condition struct {
	left, right *expr
	op          string
}

type returnItem struct {
	e     *expr
	alias string
}

func (it returnItem) column() string {
	if it.alias != "" {
		return it.alias
	}
	return it.e.text
}

type parser struct {
	toks   []token
	i      int
	params []string
}

// parse splits src into statements and collects every parameter it names.
func parse(src string) ([]*statement, []string, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, nil, err
	}
	p := &parser{toks: toks}
	var stmts []*statement
	for {
		for p.peek().is(";") {
			p.i++
		}
		if p.peek().kind == tokEOF {
			break
		}
		st, err := p.statement()
		if err != nil {
			return nil, nil, err
		}
		stmts = append(stmts, st)
		if t := p.peek(); !t.is(";") && t.kind != tokEOF {
			return nil, nil, p.unexpected()
		}
	}
	if len(stmts) == 0 {
		return nil, nil, syntaxError(0, "empty query")
	}
	return stmts, p.params, nil
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) unexpected() error {
	t := p.peek()
	return syntaxError(t.pos, "extraneous input "+t.String())
}

func (p *parser) expect(punct string) error {
	if !p.peek().is(punct) {
		t := p.peek()
		return syntaxError(t.pos, fmt.Sprintf("expected %q, found %s", punct, t))
	}
	p.i++
	return nil
}

func (p *parser) expectKeyword(kw string) error {
	if !p.peek().keyword(kw) {
		t := p.peek()
		return syntaxError(t.pos, fmt.Sprintf("expected %s, found %s", kw, t))
	}
	p.i++
	return nil
}

func (p *parser) accept(punct string) bool {
	if p.peek().is(punct) {
		p.i++
		return true
	}
	return false
}

func (p *parser) acceptKeyword(kw string) bool {
	if p.peek().keyword(kw) {
		p.i++
		return true
	}
	return false
}

func (p *parser) ident() (string, error) {
	t := p.peek()
	if t.kind != tokIdent {
		return "", syntaxError(t.pos, "expected identifier, found "+t.String())
	}
	p.i++
	return t.text, nil
}

func (p *parser) statement() (*statement, error) {
	st := &statement{limit: -1}
	switch t := p.peek(); {
	case t.keyword("BEGIN"):
		p.i++
		if err := p.expectKeyword("TRANSACTION"); err != nil {
			return nil, err
		}
		st.kind = stmtBegin
		if p.acceptKeyword("READ") {
			if err := p.expectKeyword("ONLY"); err != nil {
				return nil, err
			}
			st.readOnly = true
		}
		return st, nil
	case t.keyword("COMMIT"):
		p.i++
		st.kind = stmtCommit
		return st, nil
	case t.keyword("ROLLBACK"):
		p.i++
		st.kind = stmtRollback
		return st, nil
	case t.keyword("CREATE"):
		if n := p.toks[p.i+1]; n.keyword("NODE") || n.keyword("REL") {
			return p.ddl(st)
		}
		p.i++
		st.kind = stmtCreate
		pats, err := p.patterns()
		if err != nil {
			return nil, err
		}
		st.create = pats
		return st, nil
	case t.keyword("MATCH"):
		p.i++
		st.kind = stmtMatch
		pats, err := p.patterns()
		if err != nil {
			return nil, err
		}
		st.match = pats
		if p.acceptKeyword("WHERE") {
			if st.where, err = p.conditions(); err != nil {
				return nil, err
			}
		}
		if p.acceptKeyword("CREATE") {
			if st.create, err = p.patterns(); err != nil {
				return nil, err
			}
			return st, nil
		}
		if !p.peek().keyword("RETURN") {
			return nil, p.unexpected()
		}
		return p.returnClause(st)
	case t.keyword("RETURN"):
		st.kind = stmtReturn
		return p.returnClause(st)
	}
	return nil, p.unexpected()
}

// ddl accepts CREATE NODE|REL TABLE name (...) and records the table.
func (p *parser) ddl(st *statement) (*statement, error) {
	p.i += 2
	if err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	if err := p.expect("("); err != nil {
		return nil, err
	}
	for depth := 1; depth > 0; {
		t := p.next()
		switch {
		case t.kind == tokEOF:
			return nil, syntaxError(t.pos, "unterminated table definition")
		case t.is("("):
			depth++
		case t.is(")"):
			depth--
		}
	}
	st.kind = stmtDDL
	st.table = name
	return st, nil
}

func (p *parser) patterns() ([]pathPattern, error) {
	var out []pathPattern
	for {
		pat, err := p.path()
		if err != nil {
			return nil, err
		}
		out = append(out, pat)
		if !p.accept(",") {
			return out, nil
		}
	}
}

func (p *parser) path() (pathPattern, error) {
	var pat pathPattern
	n, err := p.node()
	if err != nil {
		return pat, err
	}
	pat.nodes = append(pat.nodes, n)
	if !p.peek().is("-") && !p.peek().is("<-") {
		return pat, nil
	}
	r, err := p.rel()
	if err != nil {
		return pat, err
	}
	pat.rel = &r
	if n, err = p.node(); err != nil {
		return pat, err
	}
	pat.nodes = append(pat.nodes, n)
	if p.peek().is("-") || p.peek().is("<-") {
		return pat, syntaxError(p.peek().pos, "paths longer than one relationship are not supported")
	}
	return pat, nil
}

func (p *parser) node() (nodePattern, error) {
	var n nodePattern
	if err := p.expect("("); err != nil {
		return n, err
	}
	if p.peek().kind == tokIdent {
		n.variable = p.next().text
	}
	if p.accept(":") {
		label, err := p.ident()
		if err != nil {
			return n, err
		}
		n.label = label
	}
	if p.peek().is("{") {
		props, err := p.properties()
		if err != nil {
			return n, err
		}
		n.props = props
	}
	return n, p.expect(")")
}

func (p *parser) rel() (relPattern, error) {
	r := relPattern{direction: 1}
	if p.accept("<-") {
		r.direction = -1
	} else if err := p.expect("-"); err != nil {
		return r, err
	}
	if err := p.expect("["); err != nil {
		return r, err
	}
	if p.peek().kind == tokIdent {
		r.variable = p.next().text
	}
	if p.accept(":") {
		label, err := p.ident()
		if err != nil {
			return r, err
		}
		r.label = label
	}
	if p.accept("*") {
		r.recursive = true
		r.minHops, r.maxHops = 1, 30
		if p.peek().kind == tokInt {
			r.minHops, _ = strconv.Atoi(p.next().text)
			r.maxHops = r.minHops
		}
		if p.accept("..") {
			t := p.next()
			if t.kind != tokInt {
				return r, syntaxError(t.pos, "expected upper bound, found "+t.String())
			}
			r.maxHops, _ = strconv.Atoi(t.text)
		}
		if r.minHops < 1 || r.maxHops < r.minHops {
			return r, syntaxError(p.peek().pos, "invalid hop range")
		}
	}
	if p.peek().is("{") {
		props, err := p.properties()
		if err != nil {
			return r, err
		}
		r.props = props
	}
	if err := p.expect("]"); err != nil {
		return r, err
	}
	switch {
	case p.accept("->"):
		if r.direction == -1 {
			return r, syntaxError(p.peek().pos, "relationship has two directions")
		}
	case p.accept("-"):
		if r.direction == 1 {
			r.direction = 0
		}
	default:
		return r, p.unexpected()
	}
	return r, nil
}

func (p *parser) properties() ([]propExpr, error) {
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	var props []propExpr
	for !p.accept("}") {
		if len(props) > 0 {
			if err := p.expect(","); err != nil {
				return nil, err
			}
		}
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		props = append(props, propExpr{name: name, value: e})
	}
	return props, nil
}

var comparisons = []string{"=", "<>", "<", ">", "<=", ">="}

func (p *parser) conditions() ([]condition, error) {
	var conds []condition
	for {
		left, err := p.expr()
		if err != nil {
			return nil, err
		}
		t := p.next()
		if t.kind != tokPunct || !slices.Contains(comparisons, t.text) {
			return nil, syntaxError(t.pos, "expected comparison, found "+t.String())
		}
		right, err := p.expr()
		if err != nil {
			return nil, err
		}
		conds = append(conds, condition{left: left, op: t.text, right: right})
		if !p.acceptKeyword("AND") {
			return conds, nil
		}
	}
}

func (p *parser) returnClause(st *statement) (*statement, error) {
	if err := p.expectKeyword("RETURN"); err != nil {
		return nil, err
	}
	for {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		it := returnItem{e: e}
		if p.acceptKeyword("AS") {
			if it.alias, err = p.ident(); err != nil {
				return nil, err
			}
		}
		st.items = append(st.items, it)
		if !p.accept(",") {
			break
		}
	}
	if p.acceptKeyword("LIMIT") {
		t := p.next()
		if t.kind != tokInt {
			return nil, syntaxError(t.pos, "expected row count, found "+t.String())
		}
		st.limit, _ = strconv.Atoi(t.text)
	}
	return st, nil
}

func (p *parser) expr() (*expr, error) {
	t := p.peek()
	switch {
	case t.kind == tokInt, t.kind == tokFloat, t.kind == tokString:
		p.i++
		d, err := literal(t.kind, t.text)
		if err != nil {
			return nil, syntaxError(t.pos, err.Error())
		}
		text := t.text
		if t.kind == tokString {
			text = "'" + t.text + "'"
		}
		return &expr{kind: exprLiteral, lit: d, text: text}, nil
	case t.is("-"):
		p.i++
		n := p.next()
		if n.kind != tokInt && n.kind != tokFloat {
			return nil, syntaxError(n.pos, "expected number after -")
		}
		d, err := literal(n.kind, "-"+n.text)
		if err != nil {
			return nil, syntaxError(n.pos, err.Error())
		}
		return &expr{kind: exprLiteral, lit: d, text: "-" + n.text}, nil
	case t.kind == tokParam:
		p.i++
		p.declare(t.text)
		return &expr{kind: exprParam, name: t.text, text: "$" + t.text}, nil
	case t.is("["):
		return p.list()
	case t.is("{"):
		return p.structLiteral()
	case t.kind == tokIdent:
		if t.keyword("TRUE") || t.keyword("FALSE") || t.keyword("NULL") {
			p.i++
			d, _ := literal(tokIdent, t.text)
			return &expr{kind: exprLiteral, lit: d, text: strings.ToUpper(t.text)}, nil
		}
		p.i++
		if p.peek().is("(") {
			return p.call(t.text)
		}
		if p.accept(".") {
			prop, err := p.ident()
			if err != nil {
				return nil, err
			}
			return &expr{kind: exprProp, name: t.text, prop: prop, text: t.text + "." + prop}, nil
		}
		return &expr{kind: exprVar, name: t.text, text: t.text}, nil
	}
	return nil, syntaxError(t.pos, "expected expression, found "+t.String())
}

func (p *parser) declare(name string) {
	if !slices.Contains(p.params, name) {
		p.params = append(p.params, name)
	}
}

func (p *parser) list() (*expr, error) {
	p.i++
	e := &expr{kind: exprList}
	var parts []string
	for !p.accept("]") {
		if len(e.elems) > 0 {
			if err := p.expect(","); err != nil {
				return nil, err
			}
		}
		el, err := p.expr()
		if err != nil {
			return nil, err
		}
		e.elems = append(e.elems, el)
		parts = append(parts, el.text)
	}
	e.text = "[" + strings.Join(parts, ",") + "]"
	return e, nil
}

func (p *parser) structLiteral() (*expr, error) {
	props, err := p.properties()
	if err != nil {
		return nil, err
	}
	e := &expr{kind: exprStruct}
	var parts []string
	for _, pr := range props {
		e.names = append(e.names, pr.name)
		e.elems = append(e.elems, pr.value)
		parts = append(parts, pr.name+": "+pr.value.text)
	}
	e.text = "{" + strings.Join(parts, ", ") + "}"
	return e, nil
}

func (p *parser) call(name string) (*expr, error) {
	p.i++ // (
	if strings.EqualFold(name, "count") && p.accept("*") {
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return &expr{kind: exprCountStar, text: "COUNT_STAR()"}, nil
	}
	e := &expr{kind: exprCall, name: strings.ToLower(name)}
	var parts []string
	for !p.accept(")") {
		if len(e.elems) > 0 {
			if err := p.expect(","); err != nil {
				return nil, err
			}
		}
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		e.elems = append(e.elems, arg)
		parts = append(parts, arg.text)
	}
	if _, ok := functions[e.name]; !ok {
		return nil, fmt.Errorf("Catalog exception: function %s does not exist", strings.ToUpper(name))
	}
	e.text = strings.ToUpper(name) + "(" + strings.Join(parts, ",") + ")"
	return e, nil
}
