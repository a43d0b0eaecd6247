package data

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MaxPinnedColumns caps how many columns can be pinned at once.
const MaxPinnedColumns = 4

// View is a read overlay over a Table: an ordered list of visible row
// indices (filter + sort), an ordered list of visible column indices
// (projection + hide + reorder), and pinned columns displayed first.
//
// The query engine produces a fresh View per executed query. Column
// visibility, pinning, and reordering are view-local edits that never touch
// the underlying table and never require re-running the query.
type View struct {
	source      *Table
	visibleRows []int
	visibleCols []int
	pinned      []int
	limit       int // -1 means no limit
	offset      int
}

// NewView returns a view showing every row and column of the table.
func NewView(source *Table) *View {
	rows := make([]int, source.RowCount())
	for i := range rows {
		rows[i] = i
	}
	cols := make([]int, source.ColumnCount())
	for i := range cols {
		cols[i] = i
	}
	return &View{source: source, visibleRows: rows, visibleCols: cols, limit: -1}
}

// Clone returns an independent copy of the view. The underlying table is
// shared, the index lists are not.
func (v *View) Clone() *View {
	c := &View{source: v.source, limit: v.limit, offset: v.offset}
	c.visibleRows = append([]int(nil), v.visibleRows...)
	c.visibleCols = append([]int(nil), v.visibleCols...)
	c.pinned = append([]int(nil), v.pinned...)
	return c
}

// Source returns the underlying table.
func (v *View) Source() *Table { return v.source }

// WithRows returns a copy of the view restricted to the given row indices.
func (v *View) WithRows(rows []int) *View {
	c := v.Clone()
	c.visibleRows = append([]int(nil), rows...)
	return c
}

// WithColumns returns a copy of the view projected to the given column
// indices, in the given order.
func (v *View) WithColumns(cols []int) *View {
	c := v.Clone()
	c.visibleCols = append([]int(nil), cols...)
	return c
}

// WithLimit returns a copy of the view paginated to at most n rows starting
// at offset. A negative n means no limit.
func (v *View) WithLimit(n, offset int) *View {
	c := v.Clone()
	c.limit = n
	if offset < 0 {
		offset = 0
	}
	c.offset = offset
	return c
}

// SortKey names one ORDER BY key: a source column and direction.
type SortKey struct {
	ColumnIndex int
	Desc        bool
}

// SortBy returns a copy of the view with visible rows ordered by the given
// source column. When every non-null value of the column across the view is
// numeric the comparison is numeric, otherwise it is case-sensitive
// lexicographic. The sort is stable so repeated sorts stay deterministic.
func (v *View) SortBy(columnIndex int, ascending bool) (*View, error) {
	return v.SortByKeys([]SortKey{{ColumnIndex: columnIndex, Desc: !ascending}})
}

// SortByKeys returns a copy of the view with visible rows ordered by the
// given keys in sequence; later keys break ties among earlier ones. Numeric
// vs lexicographic comparison is decided per key from the values actually
// visible in the view.
func (v *View) SortByKeys(keys []SortKey) (*View, error) {
	for _, k := range keys {
		if k.ColumnIndex < 0 || k.ColumnIndex >= v.source.ColumnCount() {
			return nil, fmt.Errorf("column index %d out of bounds", k.ColumnIndex)
		}
	}
	c := v.Clone()
	numeric := make([]bool, len(keys))
	for i, k := range keys {
		numeric[i] = c.columnNumeric(k.ColumnIndex)
	}
	sort.SliceStable(c.visibleRows, func(i, j int) bool {
		for ki, k := range keys {
			a := c.source.Value(c.visibleRows[i], k.ColumnIndex)
			b := c.source.Value(c.visibleRows[j], k.ColumnIndex)
			cmp := compareForSort(a, b, numeric[ki])
			if cmp == 0 {
				continue
			}
			if k.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	return c, nil
}

// columnNumeric reports whether every non-null visible value of the column
// is numeric, counting string cells whose text parses as a number. The
// check runs over the view, not the table, so a filtered view over a mixed
// column can still sort numerically.
func (v *View) columnNumeric(columnIndex int) bool {
	for _, r := range v.visibleRows {
		val := v.source.Value(r, columnIndex)
		if val.IsNull() {
			continue
		}
		if _, ok := sortNumber(val); !ok {
			return false
		}
	}
	return true
}

// sortNumber extracts the numeric sort key of a cell, parsing string text.
func sortNumber(val Value) (float64, bool) {
	if f, ok := val.AsFloat(); ok {
		return f, true
	}
	if val.Kind == TypeString {
		if f, err := strconv.ParseFloat(strings.TrimSpace(val.Str), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// compareForSort orders two cells for sorting. Nulls sort first.
func compareForSort(a, b Value, numeric bool) int {
	if a.IsNull() || b.IsNull() {
		return a.Compare(b, false)
	}
	if numeric {
		af, _ := sortNumber(a)
		bf, _ := sortNumber(b)
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	// Mixed or textual column: compare display text, case-sensitive.
	at, bt := a.AsText(), b.AsText()
	switch {
	case at < bt:
		return -1
	case at > bt:
		return 1
	default:
		return 0
	}
}

// HideColumn removes a source column from the visible set. Pinned columns
// cannot be hidden; the call reports whether anything changed.
func (v *View) HideColumn(columnIndex int) bool {
	for _, p := range v.pinned {
		if p == columnIndex {
			return false
		}
	}
	kept := v.visibleCols[:0]
	changed := false
	for _, c := range v.visibleCols {
		if c == columnIndex {
			changed = true
			continue
		}
		kept = append(kept, c)
	}
	v.visibleCols = kept
	return changed
}

// UnhideAllColumns restores every table column to the visible set, in table
// order.
func (v *View) UnhideAllColumns() {
	cols := make([]int, v.source.ColumnCount())
	for i := range cols {
		cols[i] = i
	}
	v.visibleCols = cols
}

// PinColumn pins a source column so it renders first regardless of view
// order. Pinning an already pinned column is a no-op.
func (v *View) PinColumn(columnIndex int) error {
	if columnIndex < 0 || columnIndex >= v.source.ColumnCount() {
		return fmt.Errorf("column index %d out of bounds", columnIndex)
	}
	for _, p := range v.pinned {
		if p == columnIndex {
			return nil
		}
	}
	if len(v.pinned) >= MaxPinnedColumns {
		return fmt.Errorf("cannot pin more than %d columns", MaxPinnedColumns)
	}
	v.pinned = append(v.pinned, columnIndex)
	return nil
}

// UnpinColumn removes a column from the pinned set, reporting whether it
// was pinned.
func (v *View) UnpinColumn(columnIndex int) bool {
	for i, p := range v.pinned {
		if p == columnIndex {
			v.pinned = append(v.pinned[:i], v.pinned[i+1:]...)
			return true
		}
	}
	return false
}

// PinnedColumns returns the pinned source column indices in pin order.
func (v *View) PinnedColumns() []int {
	return append([]int(nil), v.pinned...)
}

// MoveColumnLeft swaps the column at the given display position with its
// left neighbor. Pinned positions do not move.
func (v *View) MoveColumnLeft(displayIndex int) bool {
	i := displayIndex - len(v.pinned)
	if i <= 0 || i >= len(v.visibleCols) {
		return false
	}
	v.visibleCols[i-1], v.visibleCols[i] = v.visibleCols[i], v.visibleCols[i-1]
	return true
}

// MoveColumnRight swaps the column at the given display position with its
// right neighbor.
func (v *View) MoveColumnRight(displayIndex int) bool {
	i := displayIndex - len(v.pinned)
	if i < 0 || i >= len(v.visibleCols)-1 {
		return false
	}
	v.visibleCols[i], v.visibleCols[i+1] = v.visibleCols[i+1], v.visibleCols[i]
	return true
}

// DisplayColumns returns the source column indices in display order: pinned
// first, then the visible columns that are not pinned.
func (v *View) DisplayColumns() []int {
	out := append([]int(nil), v.pinned...)
	for _, c := range v.visibleCols {
		pinned := false
		for _, p := range v.pinned {
			if p == c {
				pinned = true
				break
			}
		}
		if !pinned {
			out = append(out, c)
		}
	}
	return out
}

// RowCount returns the number of rows visible after limit and offset.
func (v *View) RowCount() int {
	n := len(v.visibleRows) - v.offset
	if n < 0 {
		n = 0
	}
	if v.limit >= 0 && n > v.limit {
		n = v.limit
	}
	return n
}

// ColumnCount returns the number of displayed columns.
func (v *View) ColumnCount() int { return len(v.DisplayColumns()) }

// ColumnNames returns the displayed column names, pinned first.
func (v *View) ColumnNames() []string {
	cols := v.DisplayColumns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = v.source.Columns()[c].Name
	}
	return names
}

// GetRow returns the i-th visible row projected to the displayed columns.
func (v *View) GetRow(i int) (Row, bool) {
	if i < 0 || i >= v.RowCount() {
		return nil, false
	}
	src := v.source.RowAt(v.visibleRows[v.offset+i])
	cols := v.DisplayColumns()
	row := make(Row, len(cols))
	for j, c := range cols {
		row[j] = src[c]
	}
	return row, true
}

// RowIndices returns the visible source row indices after limit and offset.
func (v *View) RowIndices() []int {
	n := v.RowCount()
	start := v.offset
	if start > len(v.visibleRows) {
		start = len(v.visibleRows)
	}
	return append([]int(nil), v.visibleRows[start:start+n]...)
}
