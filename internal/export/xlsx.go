package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"pricing_services/internal/view"
)

const xlsxSheetName = "Services"

// XLSX encodes the entries as a single-sheet workbook, same column order as
// the CSV export. Prices stay numeric cells.
func XLSX(columns []string, entries []view.Entry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(xlsxSheetName, cell, col); err != nil {
			return nil, err
		}
	}

	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			e.Record.Category,
			e.Record.Item,
			e.Record.Price,
			e.Record.Turnaround,
			e.Record.Notes,
		}
		if err := f.SetSheetRow(xlsxSheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
