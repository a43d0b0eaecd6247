package output

import (
	"encoding/json"
	"io"

	"github.com/tabq/tabq/data"
)

// JSONFormatter outputs a view as JSON Lines, one object per row.
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes one JSON object per visible row, keyed by column name.
// Typed cells keep their types; null cells become JSON null.
func (j *JSONFormatter) Format(view *data.View) error {
	encoder := json.NewEncoder(j.writer)
	names := view.ColumnNames()
	n := view.RowCount()
	for i := 0; i < n; i++ {
		row, ok := view.GetRow(i)
		if !ok {
			break
		}
		obj := make(map[string]any, len(row))
		for k, v := range row {
			obj[names[k]] = jsonCell(v)
		}
		if err := encoder.Encode(obj); err != nil {
			return err
		}
	}
	return nil
}

// jsonCell maps a typed cell to its natural JSON value.
func jsonCell(v data.Value) any {
	switch v.Kind {
	case data.TypeNull:
		return nil
	case data.TypeInteger:
		return v.Int
	case data.TypeFloat:
		return v.Float
	case data.TypeBoolean:
		return v.Bool
	default:
		return v.AsText()
	}
}
