package data

import (
	"regexp"
	"strconv"
	"strings"
)

// datePatterns are the anchored formats accepted as DateTime. Every pattern
// pins the year to 19xx/20xx and validates month and day ranges, so
// ID-like strings with date-shaped substrings never match.
var datePatterns = []*regexp.Regexp{
	// YYYY-MM-DD
	regexp.MustCompile(`^(19|20)\d{2}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`),
	// MM/DD/YYYY
	regexp.MustCompile(`^(0[1-9]|1[0-2])/(0[1-9]|[12]\d|3[01])/(19|20)\d{2}$`),
	// DD/MM/YYYY
	regexp.MustCompile(`^(0[1-9]|[12]\d|3[01])/(0[1-9]|1[0-2])/(19|20)\d{2}$`),
	// DD-MM-YYYY
	regexp.MustCompile(`^(0[1-9]|[12]\d|3[01])-(0[1-9]|1[0-2])-(19|20)\d{2}$`),
	// YYYY/MM/DD
	regexp.MustCompile(`^(19|20)\d{2}/(0[1-9]|1[0-2])/(0[1-9]|[12]\d|3[01])$`),
	// ISO 8601 with time
	regexp.MustCompile(`^(19|20)\d{2}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])T\d{2}:\d{2}:\d{2}`),
}

// InferType infers the type of a single cell's text. Empty text is Null.
func InferType(s string) Type {
	if s == "" {
		return TypeNull
	}
	if strings.EqualFold(s, "true") || strings.EqualFold(s, "false") {
		return TypeBoolean
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return TypeInteger
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return TypeFloat
	}
	if LooksLikeDateTime(s) {
		return TypeDateTime
	}
	return TypeString
}

// LooksLikeDateTime reports whether s matches one of the strict date
// formats. Compound identifiers such as "BQ-81198596" must never match,
// even though they contain date-shaped digit runs.
func LooksLikeDateTime(s string) bool {
	if len(s) < 8 || len(s) > 35 {
		return false
	}
	for _, p := range datePatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// MergeTypes combines the types of two cells in the same column.
// Null yields to the other type, Integer and Float widen to Float, and any
// other mix degrades to String.
func MergeTypes(a, b Type) Type {
	switch {
	case a == b:
		return a
	case a == TypeNull:
		return b
	case b == TypeNull:
		return a
	case a.Numeric() && b.Numeric():
		return TypeFloat
	default:
		return TypeString
	}
}

// InferColumnType returns the narrowest type that fits every sample.
// A column of only empty cells stays String.
func InferColumnType(samples []string) Type {
	t := TypeNull
	for _, s := range samples {
		t = MergeTypes(t, InferType(s))
		if t == TypeString {
			break
		}
	}
	if t == TypeNull {
		return TypeString
	}
	return t
}

// Convert parses cell text as the given column type. Empty text converts to
// Null regardless of the target type. Text that does not parse falls back
// to a string value rather than failing, so a table build never errors on
// cell content.
func Convert(s string, t Type) Value {
	if s == "" {
		return Null
	}
	switch t {
	case TypeInteger:
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Integer(i)
		}
	case TypeFloat:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Float64(f)
		}
	case TypeBoolean:
		if strings.EqualFold(s, "true") {
			return Boolean(true)
		}
		if strings.EqualFold(s, "false") {
			return Boolean(false)
		}
	case TypeDateTime:
		if LooksLikeDateTime(s) {
			return DateTime(s)
		}
	}
	return String(s)
}
