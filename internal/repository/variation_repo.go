package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Lenacars/adminpanel-sub000/internal/model"
)

type VariationRepo struct {
	db DB
}

func NewVariationRepo(db DB) *VariationRepo {
	return &VariationRepo{db: db}
}

// DeleteByVehicleID drops every variation owned by a vehicle. Deleting zero
// rows is not an error; a freshly inserted vehicle has none.
func (r *VariationRepo) DeleteByVehicleID(ctx context.Context, vehicleID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM variations WHERE vehicle_id = $1`, vehicleID)
	if err != nil {
		return fmt.Errorf("delete variations: %w", err)
	}
	return nil
}

// BulkInsert attaches a variation set to a vehicle, generating ids.
func (r *VariationRepo) BulkInsert(ctx context.Context, vehicleID string, variations []model.Variation) error {
	query := `
		INSERT INTO variations (id, vehicle_id, mileage_allowance, term, price, status)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for i := range variations {
		v := &variations[i]
		if v.ID == "" {
			v.ID = uuid.New().String()
		}
		v.VehicleID = vehicleID
		_, err := r.db.Exec(ctx, query, v.ID, vehicleID, v.MileageAllowance, v.Term, v.Price, v.Status)
		if err != nil {
			return fmt.Errorf("insert variation %d: %w", i+1, err)
		}
	}
	return nil
}

// ListByVehicleID returns the variations of a vehicle, cheapest first.
func (r *VariationRepo) ListByVehicleID(ctx context.Context, vehicleID string) ([]model.Variation, error) {
	query := `
		SELECT id, vehicle_id, mileage_allowance, term, price, status, created_at
		FROM variations
		WHERE vehicle_id = $1
		ORDER BY price`

	rows, err := r.db.Query(ctx, query, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("list variations: %w", err)
	}
	defer rows.Close()

	var variations []model.Variation
	for rows.Next() {
		var v model.Variation
		if err := rows.Scan(&v.ID, &v.VehicleID, &v.MileageAllowance, &v.Term, &v.Price, &v.Status, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("list variations: %w", err)
		}
		variations = append(variations, v)
	}
	return variations, rows.Err()
}
