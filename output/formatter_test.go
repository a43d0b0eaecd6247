package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tabq/tabq/data"
)

func sampleView(t *testing.T) *data.View {
	t.Helper()
	table, err := data.FromText("trades",
		[]string{"id", "book", "price"},
		[][]string{
			{"1", "FX Trading", "0.5"},
			{"2", "", "16257"},
		})
	if err != nil {
		t.Fatalf("FromText failed: %v", err)
	}
	return data.NewView(table)
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf).Format(sampleView(t)); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	want := "id,book,price\n1,FX Trading,0.5\n2,,16257\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("CSV output mismatch (-want +got):\n%s", diff)
	}
}

func TestCSVFormulaInjectionGuard(t *testing.T) {
	table, err := data.FromText("t",
		[]string{"memo"},
		[][]string{{"=SUM(A1:A9)"}, {"plain"}})
	if err != nil {
		t.Fatalf("FromText failed: %v", err)
	}
	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf).Format(data.NewView(table)); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if got := lines[1]; !strings.HasPrefix(got, "'=") {
		t.Errorf("formula cell = %q, want leading quote", got)
	}
	if got := lines[2]; got != "plain" {
		t.Errorf("plain cell = %q, want untouched", got)
	}
}

func TestCSVNegativeNumberNotEscaped(t *testing.T) {
	// The guard applies to text cells only; a typed negative number is not
	// a formula.
	table, err := data.FromText("t",
		[]string{"delta"},
		[][]string{{"-42"}})
	if err != nil {
		t.Fatalf("FromText failed: %v", err)
	}
	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf).Format(data.NewView(table)); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(buf.String(), "\n-42\n") {
		t.Errorf("output = %q, want bare -42", buf.String())
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter(&buf).Format(sampleView(t)); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 0 is not valid JSON: %v", err)
	}
	want := map[string]any{"id": float64(1), "book": "FX Trading", "price": 0.5}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Errorf("row 0 mismatch (-want +got):\n%s", diff)
	}

	var second map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("line 1 is not valid JSON: %v", err)
	}
	if second["book"] != nil {
		t.Errorf("null cell = %v, want JSON null", second["book"])
	}
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTableFormatter(&buf).Format(sampleView(t)); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"id", "book", "price", "FX Trading", "NULL", "(2 rows)"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestTableFormatterRespectsProjection(t *testing.T) {
	view := sampleView(t).WithColumns([]int{2, 0})
	var buf bytes.Buffer
	if err := NewTableFormatter(&buf).Format(view); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if strings.Contains(buf.String(), "book") {
		t.Errorf("hidden column rendered:\n%s", buf.String())
	}
}

func TestNewFormatterSelection(t *testing.T) {
	var buf bytes.Buffer
	tests := []struct {
		format string
		want   string
	}{
		{"csv", "*output.CSVFormatter"},
		{"json", "*output.JSONFormatter"},
		{"table", "*output.TableFormatter"},
		{"bogus", "*output.TableFormatter"},
	}
	for _, tt := range tests {
		if got := fmt.Sprintf("%T", New(tt.format, &buf)); got != tt.want {
			t.Errorf("New(%q) = %s, want %s", tt.format, got, tt.want)
		}
	}
}
