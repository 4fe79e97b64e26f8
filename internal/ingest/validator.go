package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Lenacars/adminpanel-sub000/internal/model"
)

var (
	ErrMissingModelName = errors.New("row has no model name")
	ErrMissingStockCode = errors.New("row has no stock code")
	ErrDuplicateInBatch = errors.New("stock code already seen in this batch")
)

// ValidRow is a row that passed validation, with any leniency warnings
// attached.
type ValidRow struct {
	model.VehicleRow
	Warnings []string
}

// Validator performs per-row checks and batch-local stock code deduplication.
// It is scoped to a single batch and not safe for concurrent use.
type Validator struct {
	seen map[string]struct{}
}

func NewValidator() *Validator {
	return &Validator{seen: make(map[string]struct{})}
}

// Validate rejects rows without a model name or stock code and drops repeated
// stock codes, first occurrence wins. Numeric leniency surfaces as warnings
// instead of failing the row: the upstream sheets are too inconsistently
// formatted for strict parsing to be useful. Callers needing strict
// validation must pre-filter.
func (v *Validator) Validate(row model.VehicleRow) (*ValidRow, error) {
	row.Name = strings.TrimSpace(row.Name)
	row.StockCode = strings.TrimSpace(row.StockCode)

	if row.Name == "" {
		return nil, ErrMissingModelName
	}
	if row.StockCode == "" {
		return nil, ErrMissingStockCode
	}
	if _, ok := v.seen[row.StockCode]; ok {
		return nil, ErrDuplicateInBatch
	}
	v.seen[row.StockCode] = struct{}{}

	valid := &ValidRow{VehicleRow: row}
	valid.Variations = make([]model.VariationRow, len(row.Variations))
	copy(valid.Variations, row.Variations)

	for i := range valid.Variations {
		vr := &valid.Variations[i]
		if vr.Price.Lossy {
			valid.Warnings = append(valid.Warnings, fmt.Sprintf("variation %d: unparseable price defaulted to 0", i+1))
		}
		if vr.Price.Value < 0 {
			valid.Warnings = append(valid.Warnings, fmt.Sprintf("variation %d: negative price clamped to 0", i+1))
			vr.Price.Value = 0
		}
	}
	return valid, nil
}
