package grid

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// WriteCSV exports the table with every field quoted, quotes doubled and
// CRLF line endings, the framing spreadsheet imports expect.
func WriteCSV(w io.Writer, t *Table) error {
	writeLine := func(fields []string) error {
		quoted := make([]string, len(fields))
		for i, f := range fields {
			quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		}
		_, err := io.WriteString(w, strings.Join(quoted, ",")+"\r\n")
		return err
	}

	if err := writeLine(t.Headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, row := range t.Rows {
		if err := writeLine(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	return nil
}

// WriteXLSX exports the table as a single-sheet workbook named after the
// table.
func WriteXLSX(w io.Writer, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.Name
	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("name sheet: %w", err)
		}
	}

	write := func(rowIdx int, values []string) error {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		return nil
	}

	if err := write(1, t.Headers); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}
	for i, row := range t.Rows {
		if err := write(i+2, row); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", i, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
