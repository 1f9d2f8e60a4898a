// Package sheet turns uploaded spreadsheet files into the in-memory
// ParsedSheet shape the import wizard consumes.
package sheet

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"courtside/internal/domain/importing"
)

// ParseError reports an unreadable or empty sheet. It is fatal to the wizard
// session: the wizard cannot proceed past SelectSheet.
type ParseError struct {
	FileName string
	Reason   string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot import %s: %s", e.FileName, e.Reason)
}

// Parse reads an uploaded spreadsheet by file extension (.xlsx or .csv).
// PRE: r streams the full file content
// POST: returns an immutable ParsedSheet with at least one data row, or a
// ParseError
func Parse(fileName string, r io.Reader) (importing.ParsedSheet, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx":
		return ParseXLSX(fileName, r)
	case ".csv":
		return ParseCSV(fileName, r)
	default:
		return importing.ParsedSheet{}, &ParseError{FileName: fileName, Reason: "unsupported file type (expected .xlsx or .csv)"}
	}
}

// column pairs a header with its cell position in the raw rows.
type column struct {
	header string
	pos    int
}

// buildSheet converts a header row plus raw cell rows into a ParsedSheet,
// deduplicating headers and dropping fully empty rows.
func buildSheet(fileName, sheetName string, raw [][]string) (importing.ParsedSheet, error) {
	if len(raw) == 0 {
		return importing.ParsedSheet{}, &ParseError{FileName: fileName, Reason: "sheet has no header row"}
	}

	columns := headerColumns(raw[0])
	if len(columns) == 0 {
		return importing.ParsedSheet{}, &ParseError{FileName: fileName, Reason: "sheet has no column headers"}
	}
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.header
	}

	var rows []map[string]string
	for _, cells := range raw[1:] {
		row := make(map[string]string, len(columns))
		empty := true
		for _, c := range columns {
			v := ""
			if c.pos < len(cells) {
				v = strings.TrimSpace(cells[c.pos])
			}
			row[c.header] = v
			if v != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}

	if len(rows) == 0 {
		return importing.ParsedSheet{}, &ParseError{FileName: fileName, Reason: "sheet has no data rows"}
	}
	return importing.ParsedSheet{Name: sheetName, Headers: headers, Rows: rows}, nil
}

// headerColumns trims the header cells, skips unnamed columns, and
// disambiguates duplicates so each header keys exactly one column.
func headerColumns(cells []string) []column {
	seen := map[string]int{}
	var columns []column
	for pos, c := range cells {
		h := strings.TrimSpace(c)
		if h == "" {
			continue
		}
		seen[h]++
		if n := seen[h]; n > 1 {
			h = fmt.Sprintf("%s (%d)", h, n)
		}
		columns = append(columns, column{header: h, pos: pos})
	}
	return columns
}
