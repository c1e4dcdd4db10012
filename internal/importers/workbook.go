package importers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbook loads the first sheet of an xlsx workbook as typed rows.
// Numeric cells come back as float64 (so date serials stay numeric), boolean
// cells as bool and everything else as string.
func ReadWorkbook(r io.Reader) ([][]any, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &FormatError{Reason: fmt.Sprintf("unable to read the spreadsheet: %v", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &FormatError{Reason: "the spreadsheet has no sheets"}
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &FormatError{Reason: fmt.Sprintf("unable to read sheet %q: %v", sheet, err)}
	}

	typed := make([][]any, 0, len(rows))
	for r, row := range rows {
		cells := make([]any, len(row))
		for c, raw := range row {
			cells[c] = typedCell(f, sheet, c, r, raw)
		}
		typed = append(typed, cells)
	}
	return typed, nil
}

func typedCell(f *excelize.File, sheet string, col, row int, raw string) any {
	if raw == "" {
		return ""
	}
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return raw
	}
	cellType, err := f.GetCellType(sheet, axis)
	if err != nil {
		return raw
	}

	switch cellType {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return n
		}
	}
	return raw
}
