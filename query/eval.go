package query

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tabq/tabq/data"
)

// Evaluate evaluates a binary AND/OR expression. Both operators
// short-circuit.
func (b *BinaryExpr) Evaluate(env *Env) (bool, error) {
	left, err := b.Left.Evaluate(env)
	if err != nil {
		return false, err
	}
	switch b.Operator {
	case TokenAnd:
		if !left {
			return false, nil
		}
	case TokenOr:
		if left {
			return true, nil
		}
	default:
		return false, evalErrorf("unsupported binary operator: %v", b.Operator)
	}
	return b.Right.Evaluate(env)
}

// Evaluate inverts the child's result.
func (n *NotExpr) Evaluate(env *Env) (bool, error) {
	inner, err := n.Expr.Evaluate(env)
	if err != nil {
		return false, err
	}
	return !inner, nil
}

// Evaluate compares the column's cell against the literal. The literal is
// coerced toward the cell's type: numeric cells compare numerically even
// when the literal was lexed as a quoted string. Case folding applies to
// equality only; string ordering stays case-sensitive so sort order and
// range filters agree. Null cells match nothing here; only IS NULL sees
// them.
func (c *CompareExpr) Evaluate(env *Env) (bool, error) {
	cell, err := env.value(c.Column)
	if err != nil {
		return false, err
	}
	if cell.IsNull() || c.Value.IsNull() {
		return false, nil
	}
	fold := env.CaseInsensitive && (c.Operator == OpEqual || c.Operator == OpNotEqual)
	cmp := compareValues(cell, c.Value, fold)
	switch c.Operator {
	case OpEqual:
		return cmp == 0, nil
	case OpNotEqual:
		return cmp != 0, nil
	case OpLess:
		return cmp < 0, nil
	case OpLessEqual:
		return cmp <= 0, nil
	case OpGreater:
		return cmp > 0, nil
	case OpGreaterEqual:
		return cmp >= 0, nil
	default:
		return false, evalErrorf("unsupported comparison operator: %v", c.Operator)
	}
}

// Evaluate checks low <= cell <= high, inclusive on both bounds. Mixed
// Integer/Float bounds compare numerically.
func (b *BetweenExpr) Evaluate(env *Env) (bool, error) {
	cell, err := env.value(b.Column)
	if err != nil {
		return false, err
	}
	if cell.IsNull() || b.Low.IsNull() || b.High.IsNull() {
		return false, nil
	}
	if cell.Kind == data.TypeBoolean || b.Low.Kind == data.TypeBoolean || b.High.Kind == data.TypeBoolean {
		return false, evalErrorf("BETWEEN is not defined for boolean values")
	}
	if cell.Kind.Numeric() {
		if _, ok := numericOf(b.Low); !ok {
			return false, evalErrorf("BETWEEN bound %q is not comparable with numeric column %q", b.Low.AsText(), b.Column)
		}
		if _, ok := numericOf(b.High); !ok {
			return false, evalErrorf("BETWEEN bound %q is not comparable with numeric column %q", b.High.AsText(), b.Column)
		}
	}
	// Range bounds never fold; see CompareExpr.
	return compareValues(cell, b.Low, false) >= 0 && compareValues(cell, b.High, false) <= 0, nil
}

// Evaluate tests set membership. Case folding applies to the membership
// test when the case-insensitive flag is set.
func (i *InExpr) Evaluate(env *Env) (bool, error) {
	cell, err := env.value(i.Column)
	if err != nil {
		return false, err
	}
	found := false
	if !cell.IsNull() {
		for _, v := range i.Values {
			if v.IsNull() {
				continue
			}
			if compareValues(cell, v, env.CaseInsensitive) == 0 {
				found = true
				break
			}
		}
	}
	if i.Negated {
		return !found, nil
	}
	return found, nil
}

// Evaluate tests the Null variant directly.
func (i *IsNullExpr) Evaluate(env *Env) (bool, error) {
	cell, err := env.value(i.Column)
	if err != nil {
		return false, err
	}
	if i.Negated {
		return !cell.IsNull(), nil
	}
	return cell.IsNull(), nil
}

// Evaluate matches the cell text against a SQL LIKE pattern.
func (l *LikeExpr) Evaluate(env *Env) (bool, error) {
	cell, err := env.value(l.Column)
	if err != nil {
		return false, err
	}
	if cell.IsNull() {
		return false, nil
	}
	text, pattern := cell.AsText(), l.Pattern
	if env.CaseInsensitive {
		text, pattern = strings.ToLower(text), strings.ToLower(pattern)
	}
	match := matchLikePattern(text, pattern)
	if l.Negated {
		return !match, nil
	}
	return match, nil
}

// Evaluate runs a string method against the cell. Predicate methods
// (Contains, StartsWith, EndsWith, IsNullOrEmpty) are the result directly;
// value methods (Length, IndexOf, ToLower, ToUpper) compare their result
// against the trailing operand.
func (m *MethodCallExpr) Evaluate(env *Env) (bool, error) {
	cell, err := env.value(m.Column)
	if err != nil {
		return false, err
	}

	if cell.IsNull() {
		// Only the null-ness predicate sees null cells.
		return m.Method == MethodIsNullOrEmpty, nil
	}

	text := cell.AsText()
	fold := env.CaseInsensitive

	arg := ""
	if len(m.Args) > 0 {
		arg = m.Args[0].AsText()
	}
	haystack, needle := text, arg
	if fold {
		haystack, needle = strings.ToLower(text), strings.ToLower(arg)
	}

	switch m.Method {
	case MethodContains:
		return strings.Contains(haystack, needle), nil
	case MethodStartsWith:
		return strings.HasPrefix(haystack, needle), nil
	case MethodEndsWith:
		return strings.HasSuffix(haystack, needle), nil
	case MethodIsNullOrEmpty:
		return text == "", nil
	case MethodLength:
		return m.compareResult(data.Integer(int64(utf8.RuneCountInString(text))), false)
	case MethodIndexOf:
		return m.compareResult(data.Integer(int64(strings.Index(haystack, needle))), false)
	case MethodToLower:
		return m.compareResult(data.String(strings.ToLower(text)), fold)
	case MethodToUpper:
		return m.compareResult(data.String(strings.ToUpper(text)), fold)
	default:
		return false, evalErrorf("unsupported method: %s", m.Method)
	}
}

// compareResult compares a value method's result with the parsed operand.
func (m *MethodCallExpr) compareResult(result data.Value, fold bool) (bool, error) {
	if !m.HasCmp {
		return false, evalErrorf("method %s requires a comparison", m.Method)
	}
	if result.Kind.Numeric() {
		if _, ok := numericOf(m.Operand); !ok {
			return false, evalErrorf("method %s requires a numeric operand, got %q", m.Method, m.Operand.AsText())
		}
	}
	cmp := compareValues(result, m.Operand, fold)
	switch m.Cmp {
	case OpEqual:
		return cmp == 0, nil
	case OpNotEqual:
		return cmp != 0, nil
	case OpLess:
		return cmp < 0, nil
	case OpLessEqual:
		return cmp <= 0, nil
	case OpGreater:
		return cmp > 0, nil
	case OpGreaterEqual:
		return cmp >= 0, nil
	default:
		return false, evalErrorf("unsupported comparison operator: %v", m.Cmp)
	}
}

// numericOf extracts a float from numeric variants, or parses string text
// as a number (scientific notation included).
func numericOf(v data.Value) (float64, bool) {
	if f, ok := v.AsFloat(); ok {
		return f, true
	}
	if v.Kind == data.TypeString {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// compareValues orders cell against literal with coercion: numeric when
// either side is numeric and the other coerces, boolean against boolean
// text, textual otherwise. fold applies only to the textual path.
func compareValues(cell, lit data.Value, fold bool) int {
	if a, aok := cell.AsFloat(); aok {
		if b, bok := numericOf(lit); bok {
			return cmpFloat(a, b)
		}
	}
	if b, bok := lit.AsFloat(); bok {
		if a, aok := numericOf(cell); aok {
			return cmpFloat(a, b)
		}
	}

	if cell.Kind == data.TypeBoolean {
		if b, ok := boolOf(lit); ok {
			switch {
			case cell.Bool == b:
				return 0
			case b:
				return -1
			default:
				return 1
			}
		}
	}

	a, b := cell.AsText(), lit.AsText()
	if fold {
		a, b = strings.ToLower(a), strings.ToLower(b)
	}
	return strings.Compare(a, b)
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func boolOf(v data.Value) (bool, bool) {
	switch v.Kind {
	case data.TypeBoolean:
		return v.Bool, true
	case data.TypeString:
		if strings.EqualFold(v.Str, "true") {
			return true, true
		}
		if strings.EqualFold(v.Str, "false") {
			return false, true
		}
	}
	return false, false
}

// matchLikePattern matches a string against a SQL LIKE pattern:
// % matches any run of characters, _ matches exactly one. Matching works
// in runes so _ covers a full character, not a UTF-8 byte.
func matchLikePattern(str, pattern string) bool {
	segments := strings.Split(pattern, "%")
	runes := []rune(str)
	pos := 0
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		seg := []rune(segment)
		matchPos := findSegmentMatch(runes[pos:], seg)
		if matchPos == -1 {
			return false
		}
		if i == 0 && !strings.HasPrefix(pattern, "%") && matchPos != 0 {
			return false
		}
		pos += matchPos + len(seg)
	}
	if !strings.HasSuffix(pattern, "%") && pos != len(runes) {
		return false
	}
	return true
}

// findSegmentMatch finds the rune offset where a pattern segment (possibly
// containing _ wildcards) first matches, or -1.
func findSegmentMatch(str, segment []rune) int {
	if len(segment) == 0 {
		return 0
	}
	for i := 0; i+len(segment) <= len(str); i++ {
		match := true
		for j := range segment {
			if segment[j] != '_' && str[i+j] != segment[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// FormatExpr renders a WHERE tree as a one-line debug string.
func FormatExpr(expr WhereExpr) string {
	switch e := expr.(type) {
	case *BinaryExpr:
		return fmt.Sprintf("(%s %v %s)", FormatExpr(e.Left), e.Operator, FormatExpr(e.Right))
	case *NotExpr:
		return fmt.Sprintf("NOT %s", FormatExpr(e.Expr))
	case *CompareExpr:
		return fmt.Sprintf("%s %v %s", e.Column, e.Operator, e.Value.AsText())
	case *BetweenExpr:
		return fmt.Sprintf("%s BETWEEN %s AND %s", e.Column, e.Low.AsText(), e.High.AsText())
	case *InExpr:
		vals := make([]string, len(e.Values))
		for i, v := range e.Values {
			vals[i] = v.AsText()
		}
		neg := ""
		if e.Negated {
			neg = "NOT "
		}
		return fmt.Sprintf("%s %sIN (%s)", e.Column, neg, strings.Join(vals, ", "))
	case *IsNullExpr:
		if e.Negated {
			return fmt.Sprintf("%s IS NOT NULL", e.Column)
		}
		return fmt.Sprintf("%s IS NULL", e.Column)
	case *LikeExpr:
		neg := ""
		if e.Negated {
			neg = "NOT "
		}
		return fmt.Sprintf("%s %sLIKE '%s'", e.Column, neg, e.Pattern)
	case *MethodCallExpr:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = "'" + a.AsText() + "'"
		}
		s := fmt.Sprintf("%s.%s(%s)", e.Column, e.Method, strings.Join(args, ", "))
		if e.HasCmp {
			s += fmt.Sprintf(" %v %s", e.Cmp, e.Operand.AsText())
		}
		return s
	default:
		return "?"
	}
}
