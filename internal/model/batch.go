package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// LooseFloat is a numeric value that tolerates the inconsistent formats the
// upstream sheets produce: plain numbers, quoted numbers, Turkish decimal
// notation ("1.250,50") or garbage. Unparseable input becomes zero instead of
// failing the row; Lossy records that the original value was discarded so the
// import can surface a warning.
type LooseFloat struct {
	Value float64
	Lossy bool
}

func (f *LooseFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		f.Value = v
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*f = ParseLooseFloat(raw)
		return nil
	}
	f.Lossy = true
	return nil
}

func (f LooseFloat) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Value)
}

// ParseLooseFloat parses a numeric string permissively. Currency symbols and
// whitespace are stripped; a comma is treated as the decimal separator with
// dots as thousand separators when both appear.
func ParseLooseFloat(s string) LooseFloat {
	s = strings.TrimSpace(s)
	if s == "" {
		return LooseFloat{}
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return LooseFloat{Value: v}
	}

	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}
	if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return LooseFloat{Value: v}
	}
	return LooseFloat{Lossy: true}
}

// VehicleRow is the common row shape every batch source (JSON upload, CSV,
// Excel) converges on before validation.
type VehicleRow struct {
	Name         string         `json:"model"`
	StockCode    string         `json:"stock_code"`
	FuelType     string         `json:"fuel_type,omitempty"`
	Transmission string         `json:"transmission,omitempty"`
	Description  string         `json:"description,omitempty"`
	Variations   []VariationRow `json:"variations,omitempty"`
}

// VariationRow is one pricing tier as supplied by the batch source.
type VariationRow struct {
	Price   LooseFloat `json:"price"`
	Mileage string     `json:"mileage"`
	Term    string     `json:"term"`
}

// EnrichedRow is a successfully imported row annotated with the image URLs
// that were resolved for it.
type EnrichedRow struct {
	VehicleRow
	CoverImageURL    *string  `json:"cover_image_url"`
	GalleryImageURLs []string `json:"gallery_image_urls"`
}

// RowError describes a single failed row in an import batch.
type RowError struct {
	Index     int    `json:"index"`
	StockCode string `json:"stock_code,omitempty"`
	Message   string `json:"message"`
}

// ImportReport summarizes one import batch. Duplicated stock codes are
// excluded from both counts, so the counts need not sum to the input length.
type ImportReport struct {
	Message      string        `json:"message"`
	SuccessCount int           `json:"success_count"`
	ErrorCount   int           `json:"error_count"`
	WarningCount int           `json:"warning_count"`
	Rows         []EnrichedRow `json:"rows"`
	Errors       []RowError    `json:"errors,omitempty"`
}
