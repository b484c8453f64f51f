package table

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXStore reads and writes Excel workbooks.
type XLSXStore struct {
	sheet string
}

// NewXLSXStore creates an xlsx store using sheet, or DefaultSheet when empty.
func NewXLSXStore(sheet string) *XLSXStore {
	if sheet == "" {
		sheet = DefaultSheet
	}
	return &XLSXStore{sheet: sheet}
}

// Read loads the configured sheet, or the first sheet of workbooks that do
// not have it.
func (s *XLSXStore) Read(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := s.sheet
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets: %s", path)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return split(rows), nil
}

// Write saves t as a single-sheet workbook.
func (s *XLSXStore) Write(path string, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), s.sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := s.writeRow(f, 1, t.Header); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := s.writeRow(f, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (s *XLSXStore) writeRow(f *excelize.File, n int, row []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	if err := f.SetSheetRow(s.sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", n, err)
	}
	return nil
}
