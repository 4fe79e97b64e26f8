package parser

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Lenacars/adminpanel-sub000/internal/model"
)

// ParseXLSX reads the first sheet of an Excel workbook into vehicle rows,
// using the same header mapping as the CSV parser.
func ParseXLSX(r io.Reader) ([]model.VehicleRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rowsFromRecords(records)
}
