package query

import "strings"

// Method is the closed set of LINQ-style string methods. Method names are
// resolved at parse time, so an unknown method is a parse error rather
// than an evaluation-time surprise.
type Method int

const (
	MethodContains Method = iota
	MethodStartsWith
	MethodEndsWith
	MethodLength
	MethodIndexOf
	MethodToLower
	MethodToUpper
	MethodIsNullOrEmpty
)

var methodNames = []string{
	MethodContains:      "Contains",
	MethodStartsWith:    "StartsWith",
	MethodEndsWith:      "EndsWith",
	MethodLength:        "Length",
	MethodIndexOf:       "IndexOf",
	MethodToLower:       "ToLower",
	MethodToUpper:       "ToUpper",
	MethodIsNullOrEmpty: "IsNullOrEmpty",
}

func (m Method) String() string {
	if int(m) < len(methodNames) {
		return methodNames[m]
	}
	return "unknown"
}

// Arity returns the number of arguments the method takes.
func (m Method) Arity() int {
	switch m {
	case MethodContains, MethodStartsWith, MethodEndsWith, MethodIndexOf:
		return 1
	default:
		return 0
	}
}

// ReturnsValue reports whether the method yields a value that must be
// compared (Length, IndexOf, ToLower, ToUpper) rather than a boolean
// predicate (Contains, StartsWith, EndsWith, IsNullOrEmpty).
func (m Method) ReturnsValue() bool {
	switch m {
	case MethodLength, MethodIndexOf, MethodToLower, MethodToUpper:
		return true
	default:
		return false
	}
}

// ParseMethod resolves a method name case-insensitively.
func ParseMethod(name string) (Method, bool) {
	for m, n := range methodNames {
		if strings.EqualFold(n, name) {
			return Method(m), true
		}
	}
	return 0, false
}

// MethodNames returns the method names for completion suggestions.
func MethodNames() []string {
	return append([]string(nil), methodNames...)
}
