package sheet

import (
	"encoding/csv"
	"io"
	"strings"

	"courtside/internal/domain/importing"
)

// ParseCSV reads a comma-separated file with a header row.
// PRE: r streams UTF-8 CSV content
// POST: returns the parsed rows, or a ParseError
func ParseCSV(fileName string, r io.Reader) (importing.ParsedSheet, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1 // ragged rows are padded per header position

	var raw [][]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return importing.ParsedSheet{}, &ParseError{FileName: fileName, Reason: "malformed CSV: " + err.Error()}
		}
		raw = append(raw, record)
	}

	name := strings.TrimSuffix(fileName, ".csv")
	return buildSheet(fileName, name, raw)
}
