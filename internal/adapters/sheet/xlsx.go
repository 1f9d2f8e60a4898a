package sheet

import (
	"io"

	"github.com/xuri/excelize/v2"

	"courtside/internal/domain/importing"
)

// ParseXLSX reads the first worksheet of an .xlsx file.
// PRE: r streams a complete xlsx document
// POST: returns the first sheet's data, or a ParseError
func ParseXLSX(fileName string, r io.Reader) (importing.ParsedSheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return importing.ParsedSheet{}, &ParseError{FileName: fileName, Reason: "file is not a readable xlsx document"}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return importing.ParsedSheet{}, &ParseError{FileName: fileName, Reason: "workbook has no sheets"}
	}
	sheetName := sheets[0]

	raw, err := f.GetRows(sheetName)
	if err != nil {
		return importing.ParsedSheet{}, &ParseError{FileName: fileName, Reason: "cannot read sheet rows"}
	}
	return buildSheet(fileName, sheetName, raw)
}
