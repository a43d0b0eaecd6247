package loader

import (
	"encoding/json"
	"fmt"
	"os"
)

// readJSON reads a JSON array of flat objects. Column order follows the
// key order of the first object, with keys that only appear in later
// objects appended as they are first seen. Values are rendered back to
// text so the same type inference applies as for CSV input.
func readJSON(path string) (*rawTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	dec := json.NewDecoder(file)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("%s: expected a JSON array of objects", path)
	}

	raw := &rawTable{}
	colIndex := map[string]int{}
	for dec.More() {
		row, err := readJSONObject(dec, raw, colIndex)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		raw.cells = append(raw.cells, row)
	}
	if len(raw.header) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}

	// Earlier rows may predate later-discovered columns.
	for i, row := range raw.cells {
		if len(row) < len(raw.header) {
			padded := make([]string, len(raw.header))
			copy(padded, row)
			raw.cells[i] = padded
		}
	}
	return raw, nil
}

// readJSONObject decodes one object with the token API so key order is
// preserved, registering new columns as they appear.
func readJSONObject(dec *json.Decoder, raw *rawTable, colIndex map[string]int) ([]string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected an object, got %v", tok)
	}

	row := make([]string, len(raw.header))
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key := keyTok.(string)

		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}

		idx, ok := colIndex[key]
		if !ok {
			idx = len(raw.header)
			colIndex[key] = idx
			raw.header = append(raw.header, key)
		}
		for len(row) <= idx {
			row = append(row, "")
		}
		row[idx] = jsonCellText(value)
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return row, nil
}

// jsonCellText renders a decoded JSON value as a text cell. Nested arrays
// and objects keep their JSON form.
func jsonCellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
