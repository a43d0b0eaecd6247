package engine

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tabq/tabq/data"
	"github.com/tabq/tabq/query"
)

func ordersTable(t *testing.T) *data.Table {
	t.Helper()
	table, err := data.FromText("orders",
		[]string{"id", "book", "price", "status", "created"},
		[][]string{
			{"1", "Commodities Trading", "142", "Pending", "2024-01-15"},
			{"2", "FX Trading", "0.0006", "done", "2024-02-01"},
			{"3", "Rates Trading", "16257", "PENDING", "2024-01-20"},
			{"4", "Equities", "0.5", "pending", ""},
		})
	if err != nil {
		t.Fatalf("FromText failed: %v", err)
	}
	return table
}

// column reads one column of the result view as text.
func column(t *testing.T, v *data.View, name string) []string {
	t.Helper()
	names := v.ColumnNames()
	idx := -1
	for i, n := range names {
		if n == name {
			idx = i
		}
	}
	if idx < 0 {
		t.Fatalf("column %q not in view (have %v)", name, names)
	}
	var out []string
	for i := 0; i < v.RowCount(); i++ {
		row, _ := v.GetRow(i)
		out = append(out, row[idx].AsText())
	}
	return out
}

func TestExecuteSelectAll(t *testing.T) {
	table := ordersTable(t)
	view, err := New().Execute(table, "SELECT * FROM orders")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	// SELECT * round-trips row count and column order.
	if view.RowCount() != table.RowCount() {
		t.Errorf("RowCount = %d, want %d", view.RowCount(), table.RowCount())
	}
	if diff := cmp.Diff(table.ColumnNames(), view.ColumnNames()); diff != "" {
		t.Errorf("column order mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteProjection(t *testing.T) {
	view, err := New().Execute(ordersTable(t), "SELECT book, id FROM orders")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if diff := cmp.Diff([]string{"book", "id"}, view.ColumnNames()); diff != "" {
		t.Errorf("projection mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteFilter(t *testing.T) {
	view, err := New().Execute(ordersTable(t), "SELECT id FROM orders WHERE price > 100")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if diff := cmp.Diff([]string{"1", "3"}, column(t, view, "id")); diff != "" {
		t.Errorf("filtered ids mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteCaseInsensitive(t *testing.T) {
	cs, err := New().Execute(ordersTable(t), "SELECT id FROM orders WHERE status = 'pending'")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if diff := cmp.Diff([]string{"4"}, column(t, cs, "id")); diff != "" {
		t.Errorf("case-sensitive ids mismatch (-want +got):\n%s", diff)
	}

	eng := &Engine{CaseInsensitive: true}
	ci, err := eng.Execute(ordersTable(t), "SELECT id FROM orders WHERE status = 'pending'")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if diff := cmp.Diff([]string{"1", "3", "4"}, column(t, ci, "id")); diff != "" {
		t.Errorf("case-insensitive ids mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteOrderBy(t *testing.T) {
	view, err := New().Execute(ordersTable(t), "SELECT price FROM orders ORDER BY price")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	want := []string{"0.0006", "0.5", "142", "16257"}
	if diff := cmp.Diff(want, column(t, view, "price")); diff != "" {
		t.Errorf("sort order mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteOrderByMultiKey(t *testing.T) {
	table, err := data.FromText("t",
		[]string{"grp", "n"},
		[][]string{{"b", "1"}, {"a", "1"}, {"b", "2"}, {"a", "2"}})
	if err != nil {
		t.Fatalf("FromText failed: %v", err)
	}
	view, err := New().Execute(table, "SELECT grp, n FROM t ORDER BY grp ASC, n DESC")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "a", "b", "b"}, column(t, view, "grp")); diff != "" {
		t.Errorf("group order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"2", "1", "2", "1"}, column(t, view, "n")); diff != "" {
		t.Errorf("n order mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteLimitOffset(t *testing.T) {
	view, err := New().Execute(ordersTable(t), "SELECT id FROM orders ORDER BY id LIMIT 2 OFFSET 1")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if diff := cmp.Diff([]string{"2", "3"}, column(t, view, "id")); diff != "" {
		t.Errorf("paginated ids mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteNoSuchTable(t *testing.T) {
	_, err := New().Execute(ordersTable(t), "SELECT * FROM nope")
	if !errors.Is(err, ErrNoSuchTable) {
		t.Fatalf("got %v, want ErrNoSuchTable", err)
	}
}

func TestExecuteTableNameCaseInsensitive(t *testing.T) {
	if _, err := New().Execute(ordersTable(t), "SELECT * FROM ORDERS"); err != nil {
		t.Fatalf("uppercase table name rejected: %v", err)
	}
}

func TestExecuteNoSuchColumn(t *testing.T) {
	for _, q := range []string{
		"SELECT nope FROM orders",
		"SELECT * FROM orders ORDER BY nope",
	} {
		_, err := New().Execute(ordersTable(t), q)
		if !errors.Is(err, ErrNoSuchColumn) {
			t.Errorf("Execute(%q) = %v, want ErrNoSuchColumn", q, err)
		}
	}
}

func TestExecuteWrapsQueryError(t *testing.T) {
	_, err := New().Execute(ordersTable(t), "SELECT * FROM orders WHERE (price > 1")
	var qe *QueryError
	if !errors.As(err, &qe) {
		t.Fatalf("got %T, want *QueryError", err)
	}
	var pe *query.ParseError
	if !errors.As(err, &pe) || pe.Kind != query.ParseErrUnmatchedOpenParen {
		t.Fatalf("unwrap = %v, want unmatched-open-paren parse error", qe.Err)
	}
	if qe.Query == "" {
		t.Error("QueryError does not carry the query text")
	}
}

func TestExecuteEvalErrorAborts(t *testing.T) {
	// The second row would error; no partial result may come back.
	table, err := data.FromText("t",
		[]string{"price"},
		[][]string{{"10"}, {"20"}})
	if err != nil {
		t.Fatalf("FromText failed: %v", err)
	}
	view, execErr := New().Execute(table, "SELECT * FROM t WHERE price BETWEEN 'a' AND 'z'")
	if execErr == nil {
		t.Fatalf("got view with %d rows, want evaluation error", view.RowCount())
	}
	var ee *query.EvalError
	if !errors.As(execErr, &ee) {
		t.Errorf("got %v, want *EvalError", execErr)
	}
}

func TestExecuteWhereWithMethodChain(t *testing.T) {
	view, err := New().Execute(ordersTable(t),
		"SELECT id FROM orders WHERE book.Contains('Trading') AND price < 1")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if diff := cmp.Diff([]string{"2"}, column(t, view, "id")); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteIsNullOr(t *testing.T) {
	view, err := New().Execute(ordersTable(t),
		"SELECT id FROM orders WHERE created IS NULL OR status = 'done'")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if diff := cmp.Diff([]string{"2", "4"}, column(t, view, "id")); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}
