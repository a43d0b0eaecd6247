package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/tabq/tabq/data"
)

// CSVFormatter outputs a view as CSV with a header row.
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes the view's visible rows and columns as CSV. Null cells
// are written as empty fields.
func (c *CSVFormatter) Format(view *data.View) error {
	csvWriter := csv.NewWriter(c.writer)

	if err := csvWriter.Write(view.ColumnNames()); err != nil {
		return err
	}

	n := view.RowCount()
	for i := 0; i < n; i++ {
		row, ok := view.GetRow(i)
		if !ok {
			break
		}
		record := make([]string, len(row))
		for j, v := range row {
			record[j] = csvCell(v)
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}

// csvCell renders one cell for CSV output. Text starting with a character
// that spreadsheet applications interpret as a formula is prefixed with a
// quote to prevent formula injection.
func csvCell(v data.Value) string {
	if v.IsNull() {
		return ""
	}
	text := v.AsText()
	if v.Kind == data.TypeString && len(text) > 0 {
		switch text[0] {
		case '=', '+', '-', '@', '\t', '\r', '\n', '|':
			return "'" + strings.ReplaceAll(text, "'", "''")
		}
	}
	return text
}
