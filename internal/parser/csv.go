package parser

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Lenacars/adminpanel-sub000/internal/model"
)

// ParseCSV reads a header-driven CSV export into vehicle rows. Records may
// have ragged lengths; missing cells map to empty fields.
func ParseCSV(r io.Reader) ([]model.VehicleRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rowsFromRecords(records)
}
