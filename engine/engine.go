// Package engine orchestrates query execution: parse, filter, sort,
// paginate, project. It is the only package the surrounding front end
// needs to call.
package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tabq/tabq/data"
	"github.com/tabq/tabq/query"
)

var (
	// ErrNoSuchTable is returned when the FROM clause names a table other
	// than the one being queried.
	ErrNoSuchTable = errors.New("no such table")

	// ErrNoSuchColumn is returned when a SELECT or ORDER BY column does
	// not exist in the table.
	ErrNoSuchColumn = errors.New("no such column")
)

// QueryError wraps any failure of a query execution together with the
// query text. Unwrap exposes the underlying lex, parse, or eval error so
// callers can inspect it with errors.As.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string { return e.Err.Error() }

func (e *QueryError) Unwrap() error { return e.Err }

// Engine executes queries against a single table. The zero value is a
// case-sensitive engine; set CaseInsensitive to fold all string matching
// in WHERE clauses.
//
// Execute is synchronous and must not be called concurrently against the
// same Engine, but the immutable source table may be shared freely.
type Engine struct {
	CaseInsensitive bool
}

// New returns an engine with default (case-sensitive) matching.
func New() *Engine {
	return &Engine{}
}

// Execute runs a query against the table and returns a view over it.
// Evaluation errors abort the whole query: a partially filtered view is
// never returned.
func (e *Engine) Execute(table *data.Table, text string) (*data.View, error) {
	view, err := e.execute(table, text)
	if err != nil {
		return nil, &QueryError{Query: text, Err: err}
	}
	return view, nil
}

func (e *Engine) execute(table *data.Table, text string) (*data.View, error) {
	stmt, err := query.Parse(text, query.Options{Columns: table.ColumnNames()})
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(stmt.Table, table.Name()) {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchTable, stmt.Table)
	}

	rows, err := e.filterRows(table, stmt.Where)
	if err != nil {
		return nil, err
	}
	view := data.NewView(table).WithRows(rows)

	if len(stmt.OrderBy) > 0 {
		keys := make([]data.SortKey, len(stmt.OrderBy))
		for i, item := range stmt.OrderBy {
			idx, ok := table.ColumnIndex(item.Column)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrNoSuchColumn, item.Column)
			}
			keys[i] = data.SortKey{ColumnIndex: idx, Desc: item.Desc}
		}
		view, err = view.SortByKeys(keys)
		if err != nil {
			return nil, err
		}
	}

	if stmt.Limit != nil || stmt.Offset != nil {
		limit := -1
		if stmt.Limit != nil {
			limit = int(*stmt.Limit)
		}
		offset := 0
		if stmt.Offset != nil {
			offset = int(*stmt.Offset)
		}
		view = view.WithLimit(limit, offset)
	}

	cols, err := resolveColumns(table, stmt.Columns)
	if err != nil {
		return nil, err
	}
	if cols != nil {
		view = view.WithColumns(cols)
	}
	return view, nil
}

// filterRows evaluates the WHERE expression against every row and returns
// the matching source row indices in table order. A nil expression keeps
// every row.
func (e *Engine) filterRows(table *data.Table, where query.WhereExpr) ([]int, error) {
	n := table.RowCount()
	if where == nil {
		rows := make([]int, n)
		for i := range rows {
			rows[i] = i
		}
		return rows, nil
	}

	env := &query.Env{Table: table, CaseInsensitive: e.CaseInsensitive}
	var rows []int
	for i := 0; i < n; i++ {
		env.Row = table.RowAt(i)
		match, err := where.Evaluate(env)
		if err != nil {
			return nil, err
		}
		if match {
			rows = append(rows, i)
		}
	}
	return rows, nil
}

// resolveColumns maps the SELECT list to source column indices. It returns
// nil when the list selects every column in table order, which lets the
// caller skip projection entirely.
func resolveColumns(table *data.Table, names []string) ([]int, error) {
	var cols []int
	for _, name := range names {
		if name == "*" {
			for i := 0; i < table.ColumnCount(); i++ {
				cols = append(cols, i)
			}
			continue
		}
		idx, ok := table.ColumnIndex(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoSuchColumn, name)
		}
		cols = append(cols, idx)
	}
	if len(names) == 1 && names[0] == "*" {
		return nil, nil
	}
	return cols, nil
}
