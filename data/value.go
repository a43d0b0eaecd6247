// Package data provides the typed columnar data model: tables loaded once
// from a file, and cheap views that filter, sort, and project them.
//
// A Table is immutable after construction and may be shared by any number
// of Views. A View only holds index lists into its source table, so cloning
// and re-deriving views is cheap even for large tables.
package data

import (
	"fmt"
	"strconv"
	"strings"
)

// Type is the inferred type of a column or cell.
type Type int

const (
	TypeString Type = iota
	TypeInteger
	TypeFloat
	TypeBoolean
	TypeDateTime
	TypeNull
)

// String returns the lowercase type name.
func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeBoolean:
		return "boolean"
	case TypeDateTime:
		return "datetime"
	case TypeNull:
		return "null"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Numeric reports whether the type is Integer or Float.
func (t Type) Numeric() bool {
	return t == TypeInteger || t == TypeFloat
}

// Value is a tagged union holding one typed cell. The zero Value is Null.
type Value struct {
	Kind  Type
	Str   string // payload for TypeString and TypeDateTime
	Int   int64
	Float float64
	Bool  bool
}

// Null is the null value.
var Null = Value{Kind: TypeNull}

// String returns a string value.
func String(s string) Value { return Value{Kind: TypeString, Str: s} }

// Integer returns an integer value.
func Integer(i int64) Value { return Value{Kind: TypeInteger, Int: i} }

// Float64 returns a float value.
func Float64(f float64) Value { return Value{Kind: TypeFloat, Float: f} }

// Boolean returns a boolean value.
func Boolean(b bool) Value { return Value{Kind: TypeBoolean, Bool: b} }

// DateTime returns a datetime value. The textual form is kept as-is;
// supported formats sort correctly as strings.
func DateTime(s string) Value { return Value{Kind: TypeDateTime, Str: s} }

// IsNull reports whether the value is the Null variant.
func (v Value) IsNull() bool { return v.Kind == TypeNull }

// AsFloat returns the numeric value as float64. The second result is false
// for non-numeric variants.
func (v Value) AsFloat() (float64, bool) {
	switch v.Kind {
	case TypeInteger:
		return float64(v.Int), true
	case TypeFloat:
		return v.Float, true
	default:
		return 0, false
	}
}

// AsText returns the display form of the value. Null renders empty.
func (v Value) AsText() string {
	switch v.Kind {
	case TypeString, TypeDateTime:
		return v.Str
	case TypeInteger:
		return strconv.FormatInt(v.Int, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case TypeBoolean:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// Compare orders two values: -1 if v < other, 0 if equal, +1 if v > other.
// Integer and Float compare by numeric value. Strings compare
// lexicographically, case-folded when fold is true. Null sorts before
// everything and equals only Null.
func (v Value) Compare(other Value, fold bool) int {
	if v.IsNull() || other.IsNull() {
		switch {
		case v.IsNull() && other.IsNull():
			return 0
		case v.IsNull():
			return -1
		default:
			return 1
		}
	}

	if a, ok := v.AsFloat(); ok {
		if b, ok := other.AsFloat(); ok {
			switch {
			case a < b:
				return -1
			case a > b:
				return 1
			default:
				return 0
			}
		}
	}

	if v.Kind == TypeBoolean && other.Kind == TypeBoolean {
		switch {
		case v.Bool == other.Bool:
			return 0
		case other.Bool:
			return -1
		default:
			return 1
		}
	}

	a, b := v.AsText(), other.AsText()
	if fold {
		a, b = strings.ToLower(a), strings.ToLower(b)
	}
	return strings.Compare(a, b)
}

// Equal reports value equality under the same rules as Compare, except that
// Null never equals anything, including Null.
func (v Value) Equal(other Value, fold bool) bool {
	if v.IsNull() || other.IsNull() {
		return false
	}
	return v.Compare(other, fold) == 0
}
