package bridge

import (
	"fmt"

	"github.com/leapstack-labs/leapsheet/pkg/core"
	"github.com/xuri/excelize/v2"
)

const defaultWorksheet = "Sheet1"

// WriteXLSX saves t as an Excel workbook at path with a header row followed
// by one row per table row. Dates are written as Excel dates and nulls as
// empty cells. An empty sheetName keeps the default worksheet name.
func WriteXLSX(t *core.Table, path, sheetName string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheetName == "" {
		sheetName = defaultWorksheet
	}
	if sheetName != defaultWorksheet {
		if err := f.SetSheetName(defaultWorksheet, sheetName); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
	}

	header := make([]any, len(t.Columns))
	for i, name := range t.Names() {
		header[i] = name
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: header: %w", err)
	}

	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v.Interface()
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("xlsx: row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx: save %s: %w", path, err)
	}
	return nil
}
