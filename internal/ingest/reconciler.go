package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Lenacars/adminpanel-sub000/internal/model"
)

// VehicleStore is the narrow persistence contract the reconciler needs.
// FindByStockCode returns (nil, nil) when no vehicle exists for the code.
type VehicleStore interface {
	FindByStockCode(ctx context.Context, stockCode string) (*model.Vehicle, error)
	Insert(ctx context.Context, v *model.Vehicle) (string, error)
	Update(ctx context.Context, v *model.Vehicle) error
}

// VariationStore owns the pricing tier rows of a vehicle.
type VariationStore interface {
	DeleteByVehicleID(ctx context.Context, vehicleID string) error
	BulkInsert(ctx context.Context, vehicleID string, variations []model.Variation) error
}

// EventPublisher is notified after each successful upsert.
type EventPublisher interface {
	VehicleUpserted(ctx context.Context, vehicle *model.Vehicle, created bool)
}

// Reconciler applies one validated row against the catalog: the vehicle is
// inserted or updated by stock code and its variation set replaced wholesale.
// Variations have no identity that survives re-ingestion, so delete-then-
// insert is the only idempotent strategy that does not invent synthetic keys.
type Reconciler struct {
	vehicles   VehicleStore
	variations VariationStore
	events     EventPublisher
	logger     *slog.Logger
}

func NewReconciler(vehicles VehicleStore, variations VariationStore, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		vehicles:   vehicles,
		variations: variations,
		logger:     logger,
	}
}

// SetEventPublisher enables upsert notifications. Optional.
func (r *Reconciler) SetEventPublisher(p EventPublisher) {
	r.events = p
}

// Reconcile upserts the vehicle for the row and replaces its variations. A
// store error at any step fails only this row; the id and stock code of an
// existing vehicle are never changed.
func (r *Reconciler) Reconcile(ctx context.Context, row *ValidRow, images ImageSet, publicURL func(string) string) (string, error) {
	vehicle := buildVehicle(row, images, publicURL)

	existing, err := r.vehicles.FindByStockCode(ctx, row.StockCode)
	if err != nil {
		return "", fmt.Errorf("lookup %s: %w", row.StockCode, err)
	}

	created := existing == nil
	if created {
		id, err := r.vehicles.Insert(ctx, vehicle)
		if err != nil {
			return "", fmt.Errorf("insert %s: %w", row.StockCode, err)
		}
		vehicle.ID = id
		r.logger.Debug("vehicle created", "stock_code", row.StockCode, "id", id)
	} else {
		vehicle.ID = existing.ID
		if err := r.vehicles.Update(ctx, vehicle); err != nil {
			return "", fmt.Errorf("update %s: %w", row.StockCode, err)
		}
		r.logger.Debug("vehicle updated", "stock_code", row.StockCode, "id", existing.ID)
	}

	if err := r.variations.DeleteByVehicleID(ctx, vehicle.ID); err != nil {
		return "", fmt.Errorf("clear variations of %s: %w", row.StockCode, err)
	}
	if variations := buildVariations(row.Variations); len(variations) > 0 {
		if err := r.variations.BulkInsert(ctx, vehicle.ID, variations); err != nil {
			return "", fmt.Errorf("insert variations of %s: %w", row.StockCode, err)
		}
	}

	if r.events != nil {
		r.events.VehicleUpserted(ctx, vehicle, created)
	}
	return vehicle.ID, nil
}

func buildVehicle(row *ValidRow, images ImageSet, publicURL func(string) string) *model.Vehicle {
	v := &model.Vehicle{
		StockCode:    row.StockCode,
		Name:         row.Name,
		FuelType:     row.FuelType,
		Transmission: row.Transmission,
		Description:  row.Description,
	}
	if len(row.Variations) > 0 {
		price := row.Variations[0].Price.Value
		v.BasePrice = &price
	}
	if images.Cover != "" {
		url := publicURL(images.Cover)
		v.CoverImageURL = &url
	}
	for _, name := range images.Gallery {
		v.GalleryImageURLs = append(v.GalleryImageURLs, publicURL(name))
	}
	return v
}

func buildVariations(rows []model.VariationRow) []model.Variation {
	variations := make([]model.Variation, 0, len(rows))
	for _, vr := range rows {
		variations = append(variations, model.Variation{
			MileageAllowance: vr.Mileage,
			Term:             vr.Term,
			Price:            vr.Price.Value,
			Status:           model.VariationStatusPublished,
		})
	}
	return variations
}
