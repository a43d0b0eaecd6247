package data

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func viewFixture(t *testing.T) *View {
	t.Helper()
	table, err := FromText("t",
		[]string{"name", "score"},
		[][]string{
			{"delta", "142"},
			{"alpha", "0.0006"},
			{"charlie", "16257"},
			{"bravo", "0.5"},
		})
	if err != nil {
		t.Fatalf("FromText failed: %v", err)
	}
	return NewView(table)
}

func sortedColumn(t *testing.T, v *View, col int) []string {
	t.Helper()
	var out []string
	for i := 0; i < v.RowCount(); i++ {
		row, ok := v.GetRow(i)
		if !ok {
			t.Fatalf("GetRow(%d) failed", i)
		}
		out = append(out, row[col].AsText())
	}
	return out
}

func TestSortByNumericColumn(t *testing.T) {
	v, err := viewFixture(t).SortBy(1, true)
	if err != nil {
		t.Fatalf("SortBy failed: %v", err)
	}
	// Numeric order, never lexicographic ("0.0006" < "0.5" < "142" < "16257").
	want := []string{"0.0006", "0.5", "142", "16257"}
	if diff := cmp.Diff(want, sortedColumn(t, v, 1)); diff != "" {
		t.Errorf("sort order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortByDescending(t *testing.T) {
	v, err := viewFixture(t).SortBy(1, false)
	if err != nil {
		t.Fatalf("SortBy failed: %v", err)
	}
	want := []string{"16257", "142", "0.5", "0.0006"}
	if diff := cmp.Diff(want, sortedColumn(t, v, 1)); diff != "" {
		t.Errorf("sort order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortByTextColumn(t *testing.T) {
	v, err := viewFixture(t).SortBy(0, true)
	if err != nil {
		t.Fatalf("SortBy failed: %v", err)
	}
	want := []string{"alpha", "bravo", "charlie", "delta"}
	if diff := cmp.Diff(want, sortedColumn(t, v, 0)); diff != "" {
		t.Errorf("sort order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortNumericStringsNumerically(t *testing.T) {
	// A String column whose visible values are all numeric text still
	// sorts numerically.
	table, err := FromText("t",
		[]string{"code"},
		[][]string{{"x9"}, {"10"}, {"2"}})
	if err != nil {
		t.Fatalf("FromText failed: %v", err)
	}
	if table.Columns()[0].Type != TypeString {
		t.Fatalf("fixture column should infer String")
	}
	// The full view holds "x9", so order is lexicographic.
	full, err := NewView(table).SortBy(0, true)
	if err != nil {
		t.Fatalf("SortBy failed: %v", err)
	}
	if diff := cmp.Diff([]string{"10", "2", "x9"}, sortedColumn(t, full, 0)); diff != "" {
		t.Errorf("full view order mismatch (-want +got):\n%s", diff)
	}

	// With "x9" filtered out, every visible value parses as a number and
	// the same column sorts numerically.
	filtered, err := NewView(table).WithRows([]int{1, 2}).SortBy(0, true)
	if err != nil {
		t.Fatalf("SortBy failed: %v", err)
	}
	if diff := cmp.Diff([]string{"2", "10"}, sortedColumn(t, filtered, 0)); diff != "" {
		t.Errorf("filtered view order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortNullsFirst(t *testing.T) {
	table, err := FromText("t",
		[]string{"score"},
		[][]string{{"5"}, {""}, {"1"}})
	if err != nil {
		t.Fatalf("FromText failed: %v", err)
	}
	v, err := NewView(table).SortBy(0, true)
	if err != nil {
		t.Fatalf("SortBy failed: %v", err)
	}
	want := []string{"", "1", "5"}
	if diff := cmp.Diff(want, sortedColumn(t, v, 0)); diff != "" {
		t.Errorf("sort order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortByKeysMultiKey(t *testing.T) {
	table, err := FromText("t",
		[]string{"group", "rank"},
		[][]string{
			{"b", "1"},
			{"a", "2"},
			{"b", "2"},
			{"a", "1"},
		})
	if err != nil {
		t.Fatalf("FromText failed: %v", err)
	}
	v, err := NewView(table).SortByKeys([]SortKey{
		{ColumnIndex: 0},
		{ColumnIndex: 1, Desc: true},
	})
	if err != nil {
		t.Fatalf("SortByKeys failed: %v", err)
	}
	wantGroups := []string{"a", "a", "b", "b"}
	wantRanks := []string{"2", "1", "2", "1"}
	if diff := cmp.Diff(wantGroups, sortedColumn(t, v, 0)); diff != "" {
		t.Errorf("group order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantRanks, sortedColumn(t, v, 1)); diff != "" {
		t.Errorf("rank order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortByKeysBadColumn(t *testing.T) {
	if _, err := viewFixture(t).SortBy(9, true); err == nil {
		t.Error("out-of-range column accepted, want error")
	}
}

func TestWithRowsAndLimit(t *testing.T) {
	v := viewFixture(t).WithRows([]int{2, 0, 3})
	if v.RowCount() != 3 {
		t.Fatalf("RowCount = %d, want 3", v.RowCount())
	}
	if diff := cmp.Diff([]int{2, 0, 3}, v.RowIndices()); diff != "" {
		t.Errorf("row indices mismatch (-want +got):\n%s", diff)
	}

	limited := v.WithLimit(1, 1)
	if limited.RowCount() != 1 {
		t.Fatalf("limited RowCount = %d, want 1", limited.RowCount())
	}
	if diff := cmp.Diff([]int{0}, limited.RowIndices()); diff != "" {
		t.Errorf("limited indices mismatch (-want +got):\n%s", diff)
	}

	// Offset past the end yields an empty view, not a panic.
	empty := v.WithLimit(-1, 10)
	if empty.RowCount() != 0 {
		t.Errorf("RowCount past end = %d, want 0", empty.RowCount())
	}
}

func TestRowIndicesOffsetPastEnd(t *testing.T) {
	v := viewFixture(t).WithLimit(5, 100)
	if v.RowCount() != 0 {
		t.Fatalf("RowCount = %d, want 0", v.RowCount())
	}
	if got := v.RowIndices(); len(got) != 0 {
		t.Errorf("RowIndices = %v, want empty", got)
	}
	if _, ok := v.GetRow(0); ok {
		t.Error("GetRow(0) succeeded on an empty view")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	v := viewFixture(t)
	c := v.Clone()
	c.HideColumn(0)
	if v.ColumnCount() != 2 {
		t.Errorf("hiding in clone affected original: ColumnCount = %d", v.ColumnCount())
	}
	if c.ColumnCount() != 1 {
		t.Errorf("clone ColumnCount = %d, want 1", c.ColumnCount())
	}
}

func TestHideAndUnhideColumns(t *testing.T) {
	v := viewFixture(t)
	if !v.HideColumn(0) {
		t.Fatal("HideColumn(0) = false, want true")
	}
	if diff := cmp.Diff([]string{"score"}, v.ColumnNames()); diff != "" {
		t.Errorf("columns after hide (-want +got):\n%s", diff)
	}
	if v.HideColumn(0) {
		t.Error("hiding an already hidden column reported a change")
	}
	v.UnhideAllColumns()
	if diff := cmp.Diff([]string{"name", "score"}, v.ColumnNames()); diff != "" {
		t.Errorf("columns after unhide (-want +got):\n%s", diff)
	}
}

func TestPinColumns(t *testing.T) {
	table, err := FromText("t",
		[]string{"a", "b", "c", "d", "e", "f"},
		[][]string{{"1", "2", "3", "4", "5", "6"}})
	if err != nil {
		t.Fatalf("FromText failed: %v", err)
	}
	v := NewView(table)

	if err := v.PinColumn(2); err != nil {
		t.Fatalf("PinColumn failed: %v", err)
	}
	if diff := cmp.Diff([]string{"c", "a", "b", "d", "e", "f"}, v.ColumnNames()); diff != "" {
		t.Errorf("pinned order mismatch (-want +got):\n%s", diff)
	}

	// Pinned columns cannot be hidden.
	if v.HideColumn(2) {
		t.Error("hid a pinned column")
	}

	// At most MaxPinnedColumns can be pinned.
	for _, c := range []int{0, 1, 3} {
		if err := v.PinColumn(c); err != nil {
			t.Fatalf("PinColumn(%d) failed: %v", c, err)
		}
	}
	if err := v.PinColumn(4); err == nil {
		t.Error("pinned a fifth column, want error")
	}

	// Re-pinning is a no-op, not an error.
	if err := v.PinColumn(2); err != nil {
		t.Errorf("re-pinning failed: %v", err)
	}

	if !v.UnpinColumn(2) {
		t.Error("UnpinColumn(2) = false, want true")
	}
	if v.UnpinColumn(2) {
		t.Error("unpinning twice reported a change")
	}
}

func TestMoveColumns(t *testing.T) {
	table, err := FromText("t",
		[]string{"a", "b", "c"},
		[][]string{{"1", "2", "3"}})
	if err != nil {
		t.Fatalf("FromText failed: %v", err)
	}
	v := NewView(table)

	if !v.MoveColumnRight(0) {
		t.Fatal("MoveColumnRight(0) = false, want true")
	}
	if diff := cmp.Diff([]string{"b", "a", "c"}, v.ColumnNames()); diff != "" {
		t.Errorf("after move right (-want +got):\n%s", diff)
	}
	if v.MoveColumnRight(2) {
		t.Error("moved last column right")
	}
	if !v.MoveColumnLeft(1) {
		t.Fatal("MoveColumnLeft(1) = false, want true")
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, v.ColumnNames()); diff != "" {
		t.Errorf("after move left (-want +got):\n%s", diff)
	}
	if v.MoveColumnLeft(0) {
		t.Error("moved first column left")
	}
}

func TestGetRowProjection(t *testing.T) {
	v := viewFixture(t).WithColumns([]int{1})
	row, ok := v.GetRow(0)
	if !ok {
		t.Fatal("GetRow(0) failed")
	}
	if len(row) != 1 || row[0].AsText() != "142" {
		t.Errorf("projected row = %v, want [142]", row)
	}
	if _, ok := v.GetRow(99); ok {
		t.Error("GetRow(99) succeeded, want false")
	}
}
