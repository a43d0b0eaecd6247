package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/parquet-go/parquet-go"
)

// readParquet reads a parquet file into text cells. Column order follows
// the file schema; values are rendered to text so parquet input shares
// the inference pipeline with the text formats.
func readParquet(path string) (*rawTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	schema := pqFile.Schema()
	fields := schema.Fields()
	header := make([]string, len(fields))
	colIndex := make(map[string]int, len(fields))
	for i, f := range fields {
		header[i] = f.Name()
		colIndex[f.Name()] = i
	}

	reader := parquet.NewReader(pqFile)
	defer func() { _ = reader.Close() }()

	var cells [][]string
	for {
		row := make(map[string]interface{})
		if err := reader.Read(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		out := make([]string, len(header))
		for name, value := range row {
			idx, ok := colIndex[name]
			if !ok {
				continue
			}
			out[idx] = parquetCellText(value)
		}
		cells = append(cells, out)
	}
	return &rawTable{header: header, cells: cells}, nil
}

// parquetCellText renders one parquet value as a text cell.
func parquetCellText(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case bool:
		return strconv.FormatBool(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case time.Time:
		return t.Format("2006-01-02T15:04:05")
	default:
		return fmt.Sprint(t)
	}
}
