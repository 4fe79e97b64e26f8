package ingest

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Lenacars/adminpanel-sub000/internal/model"
)

// --- Mock stores ---

type mockVehicleStore struct {
	mock.Mock
}

func (m *mockVehicleStore) FindByStockCode(ctx context.Context, stockCode string) (*model.Vehicle, error) {
	args := m.Called(ctx, stockCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vehicle), args.Error(1)
}

func (m *mockVehicleStore) Insert(ctx context.Context, v *model.Vehicle) (string, error) {
	args := m.Called(ctx, v)
	return args.String(0), args.Error(1)
}

func (m *mockVehicleStore) Update(ctx context.Context, v *model.Vehicle) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

type mockVariationStore struct {
	mock.Mock
}

func (m *mockVariationStore) DeleteByVehicleID(ctx context.Context, vehicleID string) error {
	args := m.Called(ctx, vehicleID)
	return args.Error(0)
}

func (m *mockVariationStore) BulkInsert(ctx context.Context, vehicleID string, variations []model.Variation) error {
	args := m.Called(ctx, vehicleID, variations)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func publicURL(name string) string {
	return "https://cdn.example.com/storage/v1/object/public/vehicles/" + name
}

func sampleValidRow() *ValidRow {
	return &ValidRow{
		VehicleRow: model.VehicleRow{
			Name:         "Megane 1.3 TCe",
			StockCode:    "LN-1001",
			FuelType:     "Benzin",
			Transmission: "Otomatik",
			Variations: []model.VariationRow{
				{Price: model.LooseFloat{Value: 4900}, Mileage: "1.000 Kilometre / Ay", Term: "12 Ay"},
				{Price: model.LooseFloat{Value: 5400}, Mileage: "2.000 Kilometre / Ay", Term: "12 Ay"},
			},
		},
	}
}

// --- Tests ---

func TestReconcileInsertsNewVehicle(t *testing.T) {
	vehicles := new(mockVehicleStore)
	variations := new(mockVariationStore)
	r := NewReconciler(vehicles, variations, testLogger())

	vehicles.On("FindByStockCode", mock.Anything, "LN-1001").Return(nil, nil)
	vehicles.On("Insert", mock.Anything, mock.MatchedBy(func(v *model.Vehicle) bool {
		return v.StockCode == "LN-1001" &&
			v.Name == "Megane 1.3 TCe" &&
			v.BasePrice != nil && *v.BasePrice == 4900 &&
			v.CoverImageURL != nil && *v.CoverImageURL == publicURL("megane-head.webp") &&
			len(v.GalleryImageURLs) == 1
	})).Return("veh-1", nil)
	variations.On("DeleteByVehicleID", mock.Anything, "veh-1").Return(nil)
	variations.On("BulkInsert", mock.Anything, "veh-1", mock.MatchedBy(func(vs []model.Variation) bool {
		return len(vs) == 2 &&
			vs[0].Price == 4900 &&
			vs[0].Status == model.VariationStatusPublished &&
			vs[1].MileageAllowance == "2.000 Kilometre / Ay"
	})).Return(nil)

	images := ImageSet{Cover: "megane-head.webp", Gallery: []string{"megane-yan.webp"}}
	id, err := r.Reconcile(context.Background(), sampleValidRow(), images, publicURL)

	require.NoError(t, err)
	assert.Equal(t, "veh-1", id)
	vehicles.AssertExpectations(t)
	variations.AssertExpectations(t)
}

func TestReconcileUpdatesExistingVehicle(t *testing.T) {
	vehicles := new(mockVehicleStore)
	variations := new(mockVariationStore)
	r := NewReconciler(vehicles, variations, testLogger())

	existing := &model.Vehicle{ID: "veh-9", StockCode: "LN-1001", Name: "old name"}
	vehicles.On("FindByStockCode", mock.Anything, "LN-1001").Return(existing, nil)
	vehicles.On("Update", mock.Anything, mock.MatchedBy(func(v *model.Vehicle) bool {
		// The existing id is kept; insert must not happen.
		return v.ID == "veh-9" && v.Name == "Megane 1.3 TCe"
	})).Return(nil)
	variations.On("DeleteByVehicleID", mock.Anything, "veh-9").Return(nil)
	variations.On("BulkInsert", mock.Anything, "veh-9", mock.Anything).Return(nil)

	id, err := r.Reconcile(context.Background(), sampleValidRow(), ImageSet{}, publicURL)

	require.NoError(t, err)
	assert.Equal(t, "veh-9", id)
	vehicles.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	vehicles.AssertExpectations(t)
	variations.AssertExpectations(t)
}

func TestReconcileNoImagesNoBasePrice(t *testing.T) {
	vehicles := new(mockVehicleStore)
	variations := new(mockVariationStore)
	r := NewReconciler(vehicles, variations, testLogger())

	row := &ValidRow{VehicleRow: model.VehicleRow{Name: "Clio", StockCode: "LN-2002"}}
	vehicles.On("FindByStockCode", mock.Anything, "LN-2002").Return(nil, nil)
	vehicles.On("Insert", mock.Anything, mock.MatchedBy(func(v *model.Vehicle) bool {
		return v.BasePrice == nil && v.CoverImageURL == nil && len(v.GalleryImageURLs) == 0
	})).Return("veh-2", nil)
	variations.On("DeleteByVehicleID", mock.Anything, "veh-2").Return(nil)

	_, err := r.Reconcile(context.Background(), row, ImageSet{}, publicURL)

	require.NoError(t, err)
	// No variations on the row means nothing to bulk insert.
	variations.AssertNotCalled(t, "BulkInsert", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileLookupErrorFailsRow(t *testing.T) {
	vehicles := new(mockVehicleStore)
	variations := new(mockVariationStore)
	r := NewReconciler(vehicles, variations, testLogger())

	storeErr := errors.New("connection reset")
	vehicles.On("FindByStockCode", mock.Anything, "LN-1001").Return(nil, storeErr)

	_, err := r.Reconcile(context.Background(), sampleValidRow(), ImageSet{}, publicURL)

	assert.ErrorIs(t, err, storeErr)
	vehicles.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	variations.AssertNotCalled(t, "DeleteByVehicleID", mock.Anything, mock.Anything)
}

func TestReconcileVariationInsertErrorFailsRow(t *testing.T) {
	vehicles := new(mockVehicleStore)
	variations := new(mockVariationStore)
	r := NewReconciler(vehicles, variations, testLogger())

	storeErr := errors.New("insert failed")
	vehicles.On("FindByStockCode", mock.Anything, "LN-1001").Return(nil, nil)
	vehicles.On("Insert", mock.Anything, mock.Anything).Return("veh-1", nil)
	variations.On("DeleteByVehicleID", mock.Anything, "veh-1").Return(nil)
	variations.On("BulkInsert", mock.Anything, "veh-1", mock.Anything).Return(storeErr)

	_, err := r.Reconcile(context.Background(), sampleValidRow(), ImageSet{}, publicURL)

	assert.ErrorIs(t, err, storeErr)
}

type recordedEvent struct {
	stockCode string
	created   bool
}

type captureEvents struct {
	events []recordedEvent
}

func (c *captureEvents) VehicleUpserted(_ context.Context, v *model.Vehicle, created bool) {
	c.events = append(c.events, recordedEvent{stockCode: v.StockCode, created: created})
}

func TestReconcilePublishesUpsertEvent(t *testing.T) {
	vehicles := new(mockVehicleStore)
	variations := new(mockVariationStore)
	r := NewReconciler(vehicles, variations, testLogger())
	capture := &captureEvents{}
	r.SetEventPublisher(capture)

	vehicles.On("FindByStockCode", mock.Anything, "LN-1001").Return(nil, nil)
	vehicles.On("Insert", mock.Anything, mock.Anything).Return("veh-1", nil)
	variations.On("DeleteByVehicleID", mock.Anything, "veh-1").Return(nil)
	variations.On("BulkInsert", mock.Anything, "veh-1", mock.Anything).Return(nil)

	_, err := r.Reconcile(context.Background(), sampleValidRow(), ImageSet{}, publicURL)

	require.NoError(t, err)
	require.Len(t, capture.events, 1)
	assert.Equal(t, recordedEvent{stockCode: "LN-1001", created: true}, capture.events[0])
}
