package output

import (
	"io"

	"github.com/tabq/tabq/data"
)

// Formatter renders a view to a writer.
//
// Implementers must provide Format to render the view's visible rows and
// columns, and SetOutput to change the output destination.
type Formatter interface {
	// Format writes the view in the formatter's specific format
	Format(view *data.View) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// New returns the formatter for a format name: "csv", "json", or "table".
// Unknown names fall back to the table formatter.
func New(format string, w io.Writer) Formatter {
	switch format {
	case "csv":
		return NewCSVFormatter(w)
	case "json":
		return NewJSONFormatter(w)
	default:
		return NewTableFormatter(w)
	}
}
