package csvread

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Table is a fully materialized delimited file with a header row.
type Table struct {
	Name   string // dataset name used in errors, e.g. "demographics"
	Header []string
	Rows   [][]string
	index  map[string]int
}

// SchemaError reports a required column missing from a dataset header.
type SchemaError struct {
	Dataset string
	Column  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required column %q", e.Dataset, e.Column)
}

// Open reads the delimited file at path. Header names are trimmed and lowercased.
func Open(path, name string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()
	return Read(f, name)
}

// Read parses a comma-delimited stream with a header row.
func Read(r io.Reader, name string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: empty file, header row expected", name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", name, err)
	}

	t := &Table{Name: name, index: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		t.Header = append(t.Header, h)
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", name, line, err)
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// Has reports whether the header contains col.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Require returns a *SchemaError for the first column absent from the header.
func (t *Table) Require(cols ...string) error {
	for _, c := range cols {
		if !t.Has(c) {
			return &SchemaError{Dataset: t.Name, Column: c}
		}
	}
	return nil
}

// RequireOneOf returns the first of the alternative column names present in
// the header, or a *SchemaError naming the first alternative.
func (t *Table) RequireOneOf(alternatives ...string) (string, error) {
	for _, c := range alternatives {
		if t.Has(c) {
			return c, nil
		}
	}
	return "", &SchemaError{Dataset: t.Name, Column: strings.Join(alternatives, "|")}
}

// Cell returns the trimmed value at (row, col). ok is false when the cell is
// null: missing from a short record, or empty after trimming.
func (t *Table) Cell(row int, col string) (string, bool) {
	i, found := t.index[col]
	if !found {
		return "", false
	}
	rec := t.Rows[row]
	if i >= len(rec) {
		return "", false
	}
	v := strings.TrimSpace(rec[i])
	if v == "" {
		return "", false
	}
	return v, true
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// NullCounts returns, per header column, how many rows hold a null cell.
func (t *Table) NullCounts() map[string]int {
	counts := make(map[string]int, len(t.Header))
	for _, col := range t.Header {
		counts[col] = 0
	}
	for r := range t.Rows {
		for _, col := range t.Header {
			if _, ok := t.Cell(r, col); !ok {
				counts[col]++
			}
		}
	}
	return counts
}
