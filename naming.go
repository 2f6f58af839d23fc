package kuzu

import (
	"fmt"
	"strings"
	"unicode"
)

// NamingStrategy derives the external parameter or column name of a struct
// member from its Go name.
type NamingStrategy uint8

const (
	// NamingExact uses the Go member name unchanged.
	NamingExact NamingStrategy = iota
	// NamingSnakeCase maps UserID to user_id.
	NamingSnakeCase
	// NamingCamelCase maps UserID to userId.
	NamingCamelCase
	// NamingPascalCase maps user_id to UserId.
	NamingPascalCase
	// NamingLowerCase maps UserID to userid.
	NamingLowerCase
)

var namingNames = [...]string{
	NamingExact:      "exact",
	NamingSnakeCase:  "snake_case",
	NamingCamelCase:  "camelCase",
	NamingPascalCase: "PascalCase",
	NamingLowerCase:  "lowercase",
}

func (s NamingStrategy) String() string {
	if int(s) < len(namingNames) {
		return namingNames[s]
	}
	return fmt.Sprintf("NamingStrategy(%d)", uint8(s))
}

// Apply transforms name according to s.
func (s NamingStrategy) Apply(name string) string {
	switch s {
	case NamingSnakeCase:
		return ToSnakeCase(name)
	case NamingCamelCase:
		return ToCamelCase(name)
	case NamingPascalCase:
		return ToPascalCase(name)
	case NamingLowerCase:
		return ToLowerCase(name)
	}
	return name
}

// ParseNamingStrategy accepts the names printed by String, case-insensitively,
// plus the short forms "snake", "camel", "pascal" and "lower".
func ParseNamingStrategy(s string) (NamingStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact", "none":
		return NamingExact, nil
	case "snake", "snake_case":
		return NamingSnakeCase, nil
	case "camel", "camelcase":
		return NamingCamelCase, nil
	case "pascal", "pascalcase":
		return NamingPascalCase, nil
	case "lower", "lowercase":
		return NamingLowerCase, nil
	}
	return NamingExact, errorf(ErrGeneric, "unknown naming strategy %q", s)
}

// splitWords breaks an identifier into words at separators, at lower to
// upper transitions and at the end of an upper-case run ("HTTPServer" is
// "HTTP" "Server").
func splitWords(name string) []string {
	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	rs := []rune(name)
	for i, r := range rs {
		if r == '_' || r == '-' || r == ' ' || r == '.' {
			flush()
			continue
		}
		if i > 0 && len(cur) > 0 && unicode.IsUpper(r) {
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// ToSnakeCase converts an identifier to snake_case.
func ToSnakeCase(name string) string {
	words := splitWords(name)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "_")
}

// ToCamelCase converts an identifier to camelCase.
func ToCamelCase(name string) string {
	words := splitWords(name)
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(strings.ToLower(w))
			continue
		}
		b.WriteString(title(w))
	}
	return b.String()
}

// ToPascalCase converts an identifier to PascalCase.
func ToPascalCase(name string) string {
	var b strings.Builder
	for _, w := range splitWords(name) {
		b.WriteString(title(w))
	}
	return b.String()
}

// ToLowerCase lower-cases an identifier and keeps its separators.
func ToLowerCase(name string) string {
	return strings.ToLower(name)
}

func title(w string) string {
	rs := []rune(strings.ToLower(w))
	if len(rs) > 0 {
		rs[0] = unicode.ToUpper(rs[0])
	}
	return string(rs)
}
