// Package loader ingests tabular files (CSV, TSV, JSON, Parquet) into typed
// tables. Every format is reduced to a header plus text cells and handed to
// the data package for per-column type inference, so a value behaves the
// same regardless of which file format it arrived in.
package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tabq/tabq/data"
)

// maxGlobFiles bounds how many files a single glob pattern may expand to.
const maxGlobFiles = 1000

// rawTable is the format-independent intermediate: a header and rows of
// text cells, ready for type inference.
type rawTable struct {
	header []string
	cells  [][]string
}

// Load reads one file (or a glob pattern) into a typed table. The format
// is chosen by file extension; the table is named after the file without
// its extension.
func Load(path string) (*data.Table, error) {
	if strings.ContainsAny(path, "*?[{") {
		return LoadGlob(path)
	}
	raw, err := loadSingle(path)
	if err != nil {
		return nil, err
	}
	return data.FromText(tableName(path), raw.header, raw.cells)
}

// LoadGlob reads every file matching the pattern and merges the rows into
// one table. Columns are the union across files, in first-seen order, with
// missing cells left empty; a trailing _file column records each row's
// source.
func LoadGlob(pattern string) (*data.Table, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}
	if len(matches) > maxGlobFiles {
		return nil, fmt.Errorf("glob pattern matched too many files (%d), maximum is %d", len(matches), maxGlobFiles)
	}

	var (
		header   []string
		cells    [][]string
		sources  []string
		colIndex = map[string]int{}
	)
	for _, path := range matches {
		raw, err := loadSingle(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		// Map this file's columns into the merged header.
		dest := make([]int, len(raw.header))
		for i, name := range raw.header {
			idx, ok := colIndex[name]
			if !ok {
				idx = len(header)
				colIndex[name] = idx
				header = append(header, name)
			}
			dest[i] = idx
		}
		for _, row := range raw.cells {
			out := make([]string, len(header))
			for i, cell := range row {
				out[dest[i]] = cell
			}
			cells = append(cells, out)
			sources = append(sources, path)
		}
	}

	// Earlier files may have fewer columns than the final union; square
	// every row and tag it with its source file.
	header = append(header, "_file")
	for i, row := range cells {
		squared := make([]string, len(header))
		copy(squared, row)
		squared[len(header)-1] = sources[i]
		cells[i] = squared
	}
	return data.FromText(tableName(matches[0]), header, cells)
}

func loadSingle(path string) (*rawTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path, ',')
	case ".tsv":
		return readCSV(path, '\t')
	case ".json":
		return readJSON(path)
	case ".parquet":
		return readParquet(path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", path)
	}
}

// tableName derives the query-addressable table name from a file path:
// base name without extension.
func tableName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
