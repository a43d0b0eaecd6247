package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/parquet-go/parquet-go"

	"github.com/tabq/tabq/data"
)

type tradeRecord struct {
	ID    int64   `parquet:"id"`
	Book  string  `parquet:"book"`
	Price float64 `parquet:"price"`
}

func writeParquet(t *testing.T, dir string, rows []tradeRecord) string {
	t.Helper()
	path := filepath.Join(dir, "trades.parquet")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	w := parquet.NewGenericWriter[tradeRecord](file)
	if _, err := w.Write(rows); err != nil {
		t.Fatalf("writing rows: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("closing file: %v", err)
	}
	return path
}

func TestLoadParquet(t *testing.T) {
	path := writeParquet(t, t.TempDir(), []tradeRecord{
		{ID: 1, Book: "FX Trading", Price: 0.5},
		{ID: 2, Book: "Rates", Price: 16257},
	})

	table, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if table.Name() != "trades" {
		t.Errorf("Name = %q, want %q", table.Name(), "trades")
	}
	if diff := cmp.Diff([]string{"id", "book", "price"}, table.ColumnNames()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	wantTypes := []data.Type{data.TypeInteger, data.TypeString, data.TypeFloat}
	for i, col := range table.Columns() {
		if col.Type != wantTypes[i] {
			t.Errorf("column %s: type = %v, want %v", col.Name, col.Type, wantTypes[i])
		}
	}
	if got := table.Value(1, 1).AsText(); got != "Rates" {
		t.Errorf("Value(1, 1) = %q, want %q", got, "Rates")
	}
	if got := table.Value(0, 2).AsText(); got != "0.5" {
		t.Errorf("Value(0, 2) = %q, want %q", got, "0.5")
	}
}
