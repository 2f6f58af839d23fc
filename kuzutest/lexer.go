package kuzutest

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokFloat
	tokString
	tokParam
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) is(punct string) bool {
	return t.kind == tokPunct && t.text == punct
}

func (t token) keyword(kw string) bool {
	return t.kind == tokIdent && strings.EqualFold(t.text, kw)
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokString:
		return fmt.Sprintf("'%s'", t.text)
	case tokParam:
		return "$" + t.text
	}
	return t.text
}

var punct2 = []string{"<>", "<=", ">=", "->", "<-", ".."}

// lex splits a query into tokens. Identifiers may be back-quoted.
func lex(src string) ([]token, error) {
	var toks []token
	rs := []rune(src)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '/' && i+1 < len(rs) && rs[i+1] == '/':
			for i < len(rs) && rs[i] != '\n' {
				i++
			}
		case r == '\'' || r == '"':
			start := i
			i++
			var b strings.Builder
			for {
				if i >= len(rs) {
					return nil, syntaxError(start, "unterminated string literal")
				}
				if rs[i] == '\\' && i+1 < len(rs) {
					switch rs[i+1] {
					case 'n':
						b.WriteRune('\n')
					case 't':
						b.WriteRune('\t')
					case '\\', '\'', '"':
						b.WriteRune(rs[i+1])
					default:
						b.WriteRune('\\')
						b.WriteRune(rs[i+1])
					}
					i += 2
					continue
				}
				if rs[i] == r {
					i++
					break
				}
				b.WriteRune(rs[i])
				i++
			}
			toks = append(toks, token{kind: tokString, text: b.String(), pos: start})
		case r == '`':
			start := i
			end := strings.IndexRune(string(rs[i+1:]), '`')
			if end < 0 {
				return nil, syntaxError(start, "unterminated quoted identifier")
			}
			name := string(rs[i+1:])[:end]
			i += len([]rune(name)) + 2
			toks = append(toks, token{kind: tokIdent, text: name, pos: start})
		case r == '$':
			start := i
			i++
			for i < len(rs) && isIdentRune(rs[i]) {
				i++
			}
			if i == start+1 {
				return nil, syntaxError(start, "expected parameter name after $")
			}
			toks = append(toks, token{kind: tokParam, text: string(rs[start+1 : i]), pos: start})
		case unicode.IsDigit(r):
			start := i
			kind := tokInt
			for i < len(rs) && unicode.IsDigit(rs[i]) {
				i++
			}
			// a dot followed by a digit continues the number; ".." is a range
			if i+1 < len(rs) && rs[i] == '.' && unicode.IsDigit(rs[i+1]) {
				kind = tokFloat
				i++
				for i < len(rs) && unicode.IsDigit(rs[i]) {
					i++
				}
			}
			toks = append(toks, token{kind: kind, text: string(rs[start:i]), pos: start})
		case isIdentRune(r):
			start := i
			for i < len(rs) && isIdentRune(rs[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: string(rs[start:i]), pos: start})
		default:
			if i+1 < len(rs) {
				two := string(rs[i : i+2])
				if slices.Contains(punct2, two) {
					toks = append(toks, token{kind: tokPunct, text: two, pos: i})
					i += 2
					continue
				}
			}
			if !strings.ContainsRune("()[]{}:,.=<>-;*", r) {
				return nil, syntaxError(i, fmt.Sprintf("unexpected character %q", r))
			}
			toks = append(toks, token{kind: tokPunct, text: string(r), pos: i})
			i++
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(rs)}), nil
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func syntaxError(pos int, msg string) error {
	return fmt.Errorf("Parser exception: %s (line: 1, offset: %d)", msg, pos)
}
