// Package parser turns CSV and Excel exports of the vehicle sheet into the
// common row shape the import pipeline consumes.
package parser

import (
	"fmt"
	"strings"

	"github.com/Lenacars/adminpanel-sub000/internal/ingest"
	"github.com/Lenacars/adminpanel-sub000/internal/model"
)

// Canonical column names. Headers are normalized before lookup, so both the
// Turkish sheet exports and the English admin templates are accepted.
const (
	colStockCode    = "stock_code"
	colModel        = "model"
	colPrice        = "price"
	colMileage      = "mileage"
	colTerm         = "term"
	colFuelType     = "fuel_type"
	colTransmission = "transmission"
	colDescription  = "description"
)

var headerAliases = map[string]string{
	"stok-kodu":  colStockCode,
	"stok-no":    colStockCode,
	"stock-code": colStockCode,
	"stockcode":  colStockCode,

	"model":      colModel,
	"arac":       colModel,
	"arac-adi":   colModel,
	"name":       colModel,
	"model-name": colModel,

	"fiyat": colPrice,
	"price": colPrice,

	"kilometre": colMileage,
	"km-limiti": colMileage,
	"mileage":   colMileage,

	"vade": colTerm,
	"sure": colTerm,
	"term": colTerm,

	"yakit":     colFuelType,
	"fuel":      colFuelType,
	"fuel-type": colFuelType,

	"vites":        colTransmission,
	"sanziman":     colTransmission,
	"transmission": colTransmission,

	"aciklama":    colDescription,
	"description": colDescription,
}

// rowsFromRecords maps header-driven records (first record is the header) to
// vehicle rows. One record is one vehicle with a single pricing tier built
// from the price/mileage/term columns when any of them is present.
func rowsFromRecords(records [][]string) ([]model.VehicleRow, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("file has no header row")
	}

	columns := mapHeader(records[0])
	if _, ok := columns[colStockCode]; !ok {
		return nil, fmt.Errorf("header has no stock code column")
	}

	rows := make([]model.VehicleRow, 0, len(records)-1)
	for _, record := range records[1:] {
		if isEmptyRecord(record) {
			continue
		}
		row := model.VehicleRow{
			StockCode:    cell(record, columns, colStockCode),
			Name:         cell(record, columns, colModel),
			FuelType:     cell(record, columns, colFuelType),
			Transmission: cell(record, columns, colTransmission),
			Description:  cell(record, columns, colDescription),
		}

		price := cell(record, columns, colPrice)
		mileage := cell(record, columns, colMileage)
		term := cell(record, columns, colTerm)
		if price != "" || mileage != "" || term != "" {
			row.Variations = []model.VariationRow{{
				Price:   model.ParseLooseFloat(price),
				Mileage: mileage,
				Term:    term,
			}}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func mapHeader(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		canonical, ok := headerAliases[ingest.Normalize(name)]
		if !ok {
			continue
		}
		if _, seen := columns[canonical]; !seen {
			columns[canonical] = i
		}
	}
	return columns
}

func cell(record []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func isEmptyRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
