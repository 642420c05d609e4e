// Package tabular turns raw CSV file content into an ordered header list
// and a sequence of rows keyed by column name. It is the first stage of
// the import pipeline and depends on nothing else in the system.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
)

// ErrNoData indicates a file with no data rows: empty content,
// whitespace-only content, or a header row with nothing after it.
var ErrNoData = errors.New("no data rows")

// Cell is one named value of a row. Cells preserve source column order.
type Cell struct {
	Name  string
	Value string
}

// Row is an ordered mapping from column name to raw cell value,
// one per data line of a source file. Line is the 1-indexed line number
// in the source file, kept for error reporting.
type Row struct {
	Line  int
	Cells []Cell
}

// Get returns the value for a column name, compared case-insensitively.
func (r Row) Get(name string) (string, bool) {
	want := CleanHeader(name)
	for _, c := range r.Cells {
		if CleanHeader(c.Name) == want {
			return c.Value, true
		}
	}
	return "", false
}

// Len returns the number of cells in the row.
func (r Row) Len() int { return len(r.Cells) }

// RowIssue records a malformed data row that was skipped during parsing.
// Line is the 1-indexed line number in the source file.
type RowIssue struct {
	Line    int
	Message string
}

// Table is the parse result: the discovered header list plus every
// well-formed data row, in file order.
type Table struct {
	Headers []string
	Rows    []Row
	Issues  []RowIssue
}

// Parse reads CSV content into a Table. The first non-empty record is the
// header row; every record after it becomes a Row. Fully empty records are
// skipped. Records whose cell count differs from the header are collected
// as Issues — unless strict is true, in which case parsing halts at the
// first such record and the error carries its line number.
//
// Empty or whitespace-only input returns ErrNoData so callers can never
// mistake a contentless file for a successful import.
func Parse(data []byte, strict bool) (Table, error) {
	data = sanitizeUTF8(data)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("read csv: %w", err)
	}

	// Locate the header: first record with any non-blank cell.
	headerIdx := -1
	for i, rec := range records {
		if !isEmptyRecord(rec) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return Table{}, ErrNoData
	}

	headers := make([]string, 0, len(records[headerIdx]))
	for _, h := range records[headerIdx] {
		headers = append(headers, CleanCell(h))
	}

	t := Table{Headers: headers}

	for i, rec := range records[headerIdx+1:] {
		lineNum := headerIdx + i + 2 // 1-indexed, after header

		if isEmptyRecord(rec) {
			continue
		}

		if len(rec) != len(headers) {
			msg := fmt.Sprintf("row has %d columns, expected %d", len(rec), len(headers))
			if strict {
				return Table{}, fmt.Errorf("line %d: %s", lineNum, msg)
			}
			t.Issues = append(t.Issues, RowIssue{Line: lineNum, Message: msg})
			continue
		}

		row := Row{Line: lineNum, Cells: make([]Cell, len(rec))}
		for j, v := range rec {
			row.Cells[j] = Cell{Name: headers[j], Value: CleanCell(v)}
		}
		t.Rows = append(t.Rows, row)
	}

	if len(t.Rows) == 0 && len(t.Issues) == 0 {
		return Table{}, ErrNoData
	}

	return t, nil
}
