// Package sanitize turns wire parameter names into argument identifiers.
package sanitize

import (
	"go/token"
	"go/types"
	"regexp"
	"strings"
)

// Func converts a parameter name into an argument name.
type Func func(name string) string

var (
	nonIdentChars   = regexp.MustCompile(`[^0-9a-zA-Z_]`)
	nonLetterPrefix = regexp.MustCompile(`^[^a-zA-Z_]+`)

	matchAcronym  = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
	matchLowerCap = regexp.MustCompile(`([a-z\d])([A-Z])`)
)

// Plain makes name a valid identifier: every "[" that does not open an empty
// "[]" pair becomes "_", all other characters outside [0-9a-zA-Z_] are
// dropped, and so is any leading run of characters that cannot start an
// identifier.
//
//	orderBy[eq] -> orderBy_eq
//	ids[]       -> ids
func Plain(name string) string {
	if name == "" {
		return name
	}
	name = openBrackets(name)
	name = nonIdentChars.ReplaceAllString(name, "")
	return nonLetterPrefix.ReplaceAllString(name, "")
}

// Idiomatic converts name to snake_case, shadow-protects reserved names and
// then applies Plain.
//
//	orderBy[eq] -> order_by_eq
//	type        -> type_
func Idiomatic(name string) string {
	if name == "" {
		return name
	}
	return Plain(SnakeAndShadow(name))
}

// SnakeAndShadow converts CamelCase to snake_case and appends "_" when the
// result is a Go keyword or a predeclared identifier.
func SnakeAndShadow(name string) string {
	snake := Underscore(name)
	if IsReserved(snake) {
		return snake + "_"
	}
	return snake
}

// Underscore converts CamelCase and dashed names to lower snake_case.
func Underscore(name string) string {
	name = matchAcronym.ReplaceAllString(name, "${1}_${2}")
	name = matchLowerCap.ReplaceAllString(name, "${1}_${2}")
	name = strings.ReplaceAll(name, "-", "_")
	return strings.ToLower(name)
}

// IsReserved reports whether name is a keyword or a predeclared identifier.
func IsReserved(name string) bool {
	return token.IsKeyword(name) || types.Universe.Lookup(name) != nil
}

// openBrackets replaces each "[" not immediately followed by "]" with "_".
func openBrackets(name string) string {
	if !strings.Contains(name, "[") {
		return name
	}

	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		if name[i] == '[' && (i+1 == len(name) || name[i+1] != ']') {
			b.WriteByte('_')
			continue
		}
		b.WriteByte(name[i])
	}
	return b.String()
}
