package source

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadXLSXFile reads a worksheet of the workbook at path.
func ReadXLSXFile(path, sheetName string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return readSheet(f, sheetName)
}

// ReadXLSX reads a worksheet of the workbook read from r.
func ReadXLSX(r io.Reader, sheetName string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return readSheet(f, sheetName)
}

// readSheet returns the formatted cell values of a worksheet. Rows are
// padded to the width of the first row because excelize drops trailing
// empty cells; empty rows stay empty.
func readSheet(f *excelize.File, sheetName string) ([][]string, error) {
	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no worksheets")
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("worksheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return rows, nil
	}

	width := len(rows[0])
	for i, row := range rows {
		if len(row) == 0 || len(row) >= width {
			continue
		}
		padded := make([]string, width)
		copy(padded, row)
		rows[i] = padded
	}
	return rows, nil
}
