package query

import (
	"github.com/tabq/tabq/data"
)

// Statement is one parsed query. Built once per parse, immutable after.
type Statement struct {
	Columns []string // selected column names; a single "*" selects all
	Table   string
	Where   WhereExpr
	OrderBy []OrderByItem
	Limit   *int64
	Offset  *int64
}

// OrderByItem is one ORDER BY key.
type OrderByItem struct {
	Column string
	Desc   bool
}

// CompareOp is a comparison operator in a WHERE expression.
type CompareOp int

const (
	OpEqual CompareOp = iota
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
)

func (op CompareOp) String() string {
	switch op {
	case OpEqual:
		return "="
	case OpNotEqual:
		return "!="
	case OpLess:
		return "<"
	case OpLessEqual:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEqual:
		return ">="
	default:
		return "?"
	}
}

// Env carries the evaluation state threaded through every WHERE node: the
// table (for column resolution), the current row, and the single
// case-insensitive flag shared by the whole evaluator.
type Env struct {
	Table           *data.Table
	Row             data.Row
	CaseInsensitive bool
}

// value resolves a column name against the current row.
func (e *Env) value(column string) (data.Value, error) {
	idx, ok := e.Table.ColumnIndex(column)
	if !ok {
		return data.Null, evalErrorf("column %q not found", column)
	}
	if idx >= len(e.Row) {
		return data.Null, nil
	}
	return e.Row[idx], nil
}

// WhereExpr is a boolean expression evaluated against one row.
type WhereExpr interface {
	Evaluate(env *Env) (bool, error)
}

// BinaryExpr is AND / OR over two subexpressions. Both short-circuit.
type BinaryExpr struct {
	Left     WhereExpr
	Operator TokenType // TokenAnd or TokenOr
	Right    WhereExpr
}

// NotExpr inverts its child.
type NotExpr struct {
	Expr WhereExpr
}

// CompareExpr is column <op> literal.
type CompareExpr struct {
	Column   string
	Operator CompareOp
	Value    data.Value
}

// BetweenExpr is column BETWEEN low AND high, inclusive on both bounds.
type BetweenExpr struct {
	Column string
	Low    data.Value
	High   data.Value
}

// InExpr is column [NOT] IN (v1, v2, ...). NOT IN parses as a single
// negated node, not Not(In(...)).
type InExpr struct {
	Column  string
	Values  []data.Value
	Negated bool
}

// IsNullExpr is column IS [NOT] NULL.
type IsNullExpr struct {
	Column  string
	Negated bool
}

// LikeExpr is column [NOT] LIKE 'pattern' with % and _ wildcards.
type LikeExpr struct {
	Column  string
	Pattern string
	Negated bool
}

// MethodCallExpr is column.Method(args). Value-returning methods carry the
// trailing comparison (e.g. name.Length() > 5); predicate methods do not.
type MethodCallExpr struct {
	Column  string
	Method  Method
	Args    []data.Value
	HasCmp  bool
	Cmp     CompareOp
	Operand data.Value
}
