package loader

import (
	"encoding/csv"
	"fmt"
	"os"
)

// readCSV reads a delimited text file. The first record is the header;
// short records are padded with empty cells so ragged files still load.
func readCSV(path string, delim rune) (*rawTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	r := csv.NewReader(file)
	r.Comma = delim
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}

	header := records[0]
	cells := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < len(header) {
			padded := make([]string, len(header))
			copy(padded, rec)
			rec = padded
		} else if len(rec) > len(header) {
			rec = rec[:len(header)]
		}
		cells = append(cells, rec)
	}
	return &rawTable{header: header, cells: cells}, nil
}
