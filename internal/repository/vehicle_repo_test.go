package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lenacars/adminpanel-sub000/internal/model"
)

func setupVehicleRepo(t *testing.T) (*VehicleRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewVehicleRepo(mock), mock
}

func vehicleColumnNames() []string {
	return []string{
		"id", "stock_code", "name", "fuel_type", "transmission", "description",
		"base_price", "cover_image_url", "gallery_image_urls", "created_at", "updated_at",
	}
}

func sampleVehicle() *model.Vehicle {
	price := 4900.0
	cover := "https://cdn.example.com/storage/v1/object/public/vehicles/megane-head.webp"
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return &model.Vehicle{
		ID:               "veh-1",
		StockCode:        "LN-1001",
		Name:             "Megane 1.3 TCe",
		FuelType:         "Benzin",
		Transmission:     "Otomatik",
		BasePrice:        &price,
		CoverImageURL:    &cover,
		GalleryImageURLs: []string{"https://cdn.example.com/storage/v1/object/public/vehicles/megane-yan.webp"},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func vehicleRow(v *model.Vehicle) *pgxmock.Rows {
	return pgxmock.NewRows(vehicleColumnNames()).AddRow(
		v.ID, v.StockCode, v.Name, v.FuelType, v.Transmission, v.Description,
		v.BasePrice, v.CoverImageURL, []byte(`["https://cdn.example.com/storage/v1/object/public/vehicles/megane-yan.webp"]`),
		v.CreatedAt, v.UpdatedAt,
	)
}

func TestFindByStockCodeFound(t *testing.T) {
	repo, mock := setupVehicleRepo(t)
	want := sampleVehicle()

	mock.ExpectQuery(`FROM vehicles WHERE stock_code = \$1`).
		WithArgs("LN-1001").
		WillReturnRows(vehicleRow(want))

	got, err := repo.FindByStockCode(context.Background(), "LN-1001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.StockCode, got.StockCode)
	require.NotNil(t, got.BasePrice)
	assert.Equal(t, 4900.0, *got.BasePrice)
	assert.Len(t, got.GalleryImageURLs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByStockCodeAbsentIsNotAnError(t *testing.T) {
	repo, mock := setupVehicleRepo(t)

	mock.ExpectQuery(`FROM vehicles WHERE stock_code = \$1`).
		WithArgs("LN-9999").
		WillReturnRows(pgxmock.NewRows(vehicleColumnNames()))

	got, err := repo.FindByStockCode(context.Background(), "LN-9999")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByStockCodeQueryError(t *testing.T) {
	repo, mock := setupVehicleRepo(t)

	mock.ExpectQuery(`FROM vehicles WHERE stock_code = \$1`).
		WithArgs("LN-1001").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.FindByStockCode(context.Background(), "LN-1001")
	assert.Error(t, err)
}

func TestInsertGeneratesIDAndUpserts(t *testing.T) {
	repo, mock := setupVehicleRepo(t)
	v := sampleVehicle()
	v.ID = ""

	mock.ExpectQuery(`INSERT INTO vehicles .*ON CONFLICT \(stock_code\) DO UPDATE`).
		WithArgs(pgxmock.AnyArg(), v.StockCode, v.Name, v.FuelType, v.Transmission, v.Description,
			v.BasePrice, v.CoverImageURL, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("veh-1"))

	id, err := repo.Insert(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, "veh-1", id)
	assert.NotEmpty(t, v.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate(t *testing.T) {
	repo, mock := setupVehicleRepo(t)
	v := sampleVehicle()

	mock.ExpectExec(`UPDATE vehicles SET`).
		WithArgs(v.ID, v.Name, v.FuelType, v.Transmission, v.Description,
			v.BasePrice, v.CoverImageURL, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.Update(context.Background(), v))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingVehicle(t *testing.T) {
	repo, mock := setupVehicleRepo(t)
	v := sampleVehicle()

	mock.ExpectExec(`UPDATE vehicles SET`).
		WithArgs(v.ID, v.Name, v.FuelType, v.Transmission, v.Description,
			v.BasePrice, v.CoverImageURL, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), v)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := setupVehicleRepo(t)

	mock.ExpectQuery(`FROM vehicles WHERE id = \$1`).
		WithArgs("veh-404").
		WillReturnRows(pgxmock.NewRows(vehicleColumnNames()))

	_, err := repo.GetByID(context.Background(), "veh-404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	repo, mock := setupVehicleRepo(t)
	v := sampleVehicle()

	mock.ExpectQuery(`FROM vehicles ORDER BY name LIMIT \$1 OFFSET \$2`).
		WithArgs(50, 0).
		WillReturnRows(vehicleRow(v))

	vehicles, err := repo.List(context.Background(), 50, 0)
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.Equal(t, "LN-1001", vehicles[0].StockCode)
}

func TestDelete(t *testing.T) {
	repo, mock := setupVehicleRepo(t)

	mock.ExpectExec(`DELETE FROM vehicles WHERE id = \$1`).
		WithArgs("veh-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, repo.Delete(context.Background(), "veh-1"))
}

func TestDeleteNotFound(t *testing.T) {
	repo, mock := setupVehicleRepo(t)

	mock.ExpectExec(`DELETE FROM vehicles WHERE id = \$1`).
		WithArgs("veh-404").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "veh-404"), ErrNotFound)
}
