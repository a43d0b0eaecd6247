package data

import (
	"fmt"
	"strings"
)

// Column describes one table column.
type Column struct {
	Name  string
	Type  Type
	Index int
}

// Row is one table row: values positionally aligned with the column list.
type Row []Value

// Table is the immutable columnar store built once per loaded file.
type Table struct {
	name    string
	columns []Column
	rows    []Row
	byName  map[string]int // lowercased name -> ordinal
}

// NewTable builds a table from typed rows. Each row must have one value per
// column.
func NewTable(name string, columns []Column, rows []Row) (*Table, error) {
	byName := make(map[string]int, len(columns))
	for i := range columns {
		columns[i].Index = i
		byName[strings.ToLower(columns[i].Name)] = i
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, table has %d columns", i, len(row), len(columns))
		}
	}
	return &Table{name: name, columns: columns, rows: rows, byName: byName}, nil
}

// FromText builds a table from untyped cell text: column types are inferred
// from the cells, then every cell is converted to its column's type.
func FromText(name string, header []string, cells [][]string) (*Table, error) {
	for i, rec := range cells {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("record %d has %d fields, header has %d", i, len(rec), len(header))
		}
	}

	columns := make([]Column, len(header))
	samples := make([]string, len(cells))
	for col, colName := range header {
		for i, rec := range cells {
			samples[i] = rec[col]
		}
		columns[col] = Column{Name: colName, Type: InferColumnType(samples)}
	}

	rows := make([]Row, len(cells))
	for i, rec := range cells {
		row := make(Row, len(columns))
		for col := range columns {
			row[col] = Convert(rec[col], columns[col].Type)
		}
		rows[i] = row
	}

	return NewTable(name, columns, rows)
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// RowCount returns the number of rows.
func (t *Table) RowCount() int { return len(t.rows) }

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int { return len(t.columns) }

// Columns returns the column definitions in table order.
func (t *Table) Columns() []Column { return t.columns }

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// ColumnIndex resolves a column name to its ordinal. Lookup is
// case-insensitive; exact matches win when names differ only by case.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.columns {
		if c.Name == name {
			return i, true
		}
	}
	i, ok := t.byName[strings.ToLower(name)]
	return i, ok
}

// Value returns the cell at (row, col), or Null when out of range.
func (t *Table) Value(row, col int) Value {
	if row < 0 || row >= len(t.rows) || col < 0 || col >= len(t.columns) {
		return Null
	}
	return t.rows[row][col]
}

// RowAt returns the row at the given index.
func (t *Table) RowAt(i int) Row {
	if i < 0 || i >= len(t.rows) {
		return nil
	}
	return t.rows[i]
}
