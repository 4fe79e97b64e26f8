package model

import "time"

// Variation display states used by the admin UI.
const (
	VariationStatusPublished   = "published"
	VariationStatusUnpublished = "unpublished"
)

// Vehicle is a catalog entry. StockCode is the external business key: the same
// stock code always resolves to the same row, re-ingestion updates in place.
type Vehicle struct {
	ID               string    `json:"id"`
	StockCode        string    `json:"stock_code"`
	Name             string    `json:"name"`
	FuelType         string    `json:"fuel_type,omitempty"`
	Transmission     string    `json:"transmission,omitempty"`
	Description      string    `json:"description,omitempty"`
	BasePrice        *float64  `json:"base_price"`
	CoverImageURL    *string   `json:"cover_image_url"`
	GalleryImageURLs []string  `json:"gallery_image_urls"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Variation is a rentable pricing tier of a vehicle. The variation set is
// fully owned by its vehicle and replaced wholesale on every re-ingestion.
type Variation struct {
	ID               string    `json:"id"`
	VehicleID        string    `json:"vehicle_id"`
	MileageAllowance string    `json:"mileage_allowance"`
	Term             string    `json:"term"`
	Price            float64   `json:"price"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}
