package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Lenacars/adminpanel-sub000/internal/model"
)

type VehicleRepo struct {
	db DB
}

func NewVehicleRepo(db DB) *VehicleRepo {
	return &VehicleRepo{db: db}
}

const vehicleColumns = `
	id, stock_code, name, fuel_type, transmission, description,
	base_price, cover_image_url, gallery_image_urls, created_at, updated_at`

// FindByStockCode looks up a vehicle by its external business key. Returns
// (nil, nil) when no vehicle exists for the code.
func (r *VehicleRepo) FindByStockCode(ctx context.Context, stockCode string) (*model.Vehicle, error) {
	query := `SELECT` + vehicleColumns + ` FROM vehicles WHERE stock_code = $1`

	v, err := scanVehicle(r.db.QueryRow(ctx, query, stockCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find vehicle by stock code: %w", err)
	}
	return v, nil
}

// Insert creates a vehicle, generating its id. The unique constraint on
// stock_code plus ON CONFLICT upsert keeps concurrent batches from creating
// duplicate vehicles for the same code.
func (r *VehicleRepo) Insert(ctx context.Context, v *model.Vehicle) (string, error) {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	gallery, err := marshalGallery(v.GalleryImageURLs)
	if err != nil {
		return "", err
	}

	query := `
		INSERT INTO vehicles (id, stock_code, name, fuel_type, transmission, description,
			base_price, cover_image_url, gallery_image_urls)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (stock_code) DO UPDATE SET
			name = EXCLUDED.name,
			fuel_type = EXCLUDED.fuel_type,
			transmission = EXCLUDED.transmission,
			description = EXCLUDED.description,
			base_price = EXCLUDED.base_price,
			cover_image_url = EXCLUDED.cover_image_url,
			gallery_image_urls = EXCLUDED.gallery_image_urls,
			updated_at = NOW()
		RETURNING id`

	var id string
	err = r.db.QueryRow(ctx, query,
		v.ID, v.StockCode, v.Name, v.FuelType, v.Transmission, v.Description,
		v.BasePrice, v.CoverImageURL, gallery,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert vehicle: %w", err)
	}
	return id, nil
}

// Update rewrites the mutable fields of an existing vehicle. Id and stock
// code never change.
func (r *VehicleRepo) Update(ctx context.Context, v *model.Vehicle) error {
	gallery, err := marshalGallery(v.GalleryImageURLs)
	if err != nil {
		return err
	}

	query := `
		UPDATE vehicles SET
			name = $2,
			fuel_type = $3,
			transmission = $4,
			description = $5,
			base_price = $6,
			cover_image_url = $7,
			gallery_image_urls = $8,
			updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		v.ID, v.Name, v.FuelType, v.Transmission, v.Description,
		v.BasePrice, v.CoverImageURL, gallery,
	)
	if err != nil {
		return fmt.Errorf("update vehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update vehicle %s: %w", v.ID, ErrNotFound)
	}
	return nil
}

// GetByID fetches a single vehicle.
func (r *VehicleRepo) GetByID(ctx context.Context, id string) (*model.Vehicle, error) {
	query := `SELECT` + vehicleColumns + ` FROM vehicles WHERE id = $1`

	v, err := scanVehicle(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	return v, nil
}

// List returns vehicles ordered by name.
func (r *VehicleRepo) List(ctx context.Context, limit, offset int) ([]model.Vehicle, error) {
	query := `SELECT` + vehicleColumns + ` FROM vehicles ORDER BY name LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []model.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("list vehicles: %w", err)
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, rows.Err()
}

// Delete removes a vehicle; variations cascade at the store level.
func (r *VehicleRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete vehicle %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanVehicle(row pgx.Row) (*model.Vehicle, error) {
	var v model.Vehicle
	var gallery []byte
	err := row.Scan(
		&v.ID, &v.StockCode, &v.Name, &v.FuelType, &v.Transmission, &v.Description,
		&v.BasePrice, &v.CoverImageURL, &gallery, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(gallery) > 0 {
		if err := json.Unmarshal(gallery, &v.GalleryImageURLs); err != nil {
			return nil, fmt.Errorf("decode gallery urls: %w", err)
		}
	}
	return &v, nil
}

func marshalGallery(urls []string) ([]byte, error) {
	if urls == nil {
		urls = []string{}
	}
	data, err := json.Marshal(urls)
	if err != nil {
		return nil, fmt.Errorf("encode gallery urls: %w", err)
	}
	return data, nil
}
