package output

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/tabq/tabq/data"
)

// TableFormatter outputs a view as an aligned ASCII table with a trailing
// row count, the default for interactive use.
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (t *TableFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format renders the view's visible rows and columns. Null cells render
// as NULL to stay distinguishable from empty strings.
func (t *TableFormatter) Format(view *data.View) error {
	table := tablewriter.NewWriter(t.writer)
	table.SetHeader(view.ColumnNames())
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	n := view.RowCount()
	for i := 0; i < n; i++ {
		row, ok := view.GetRow(i)
		if !ok {
			break
		}
		record := make([]string, len(row))
		for j, v := range row {
			if v.IsNull() {
				record[j] = "NULL"
			} else {
				record[j] = v.AsText()
			}
		}
		table.Append(record)
	}
	table.Render()

	_, err := fmt.Fprintf(t.writer, "(%d rows)\n", n)
	return err
}
