package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Lenacars/adminpanel-sub000/internal/model"
	"github.com/Lenacars/adminpanel-sub000/internal/repository"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// VehicleReader lists and fetches catalog vehicles.
type VehicleReader interface {
	List(ctx context.Context, limit, offset int) ([]model.Vehicle, error)
	GetByID(ctx context.Context, id string) (*model.Vehicle, error)
	Delete(ctx context.Context, id string) error
}

// VariationReader fetches the pricing tiers of a vehicle.
type VariationReader interface {
	ListByVehicleID(ctx context.Context, vehicleID string) ([]model.Variation, error)
}

type VehicleHandler struct {
	vehicles   VehicleReader
	variations VariationReader
	logger     *slog.Logger
}

func NewVehicleHandler(vehicles VehicleReader, variations VariationReader, logger *slog.Logger) *VehicleHandler {
	return &VehicleHandler{
		vehicles:   vehicles,
		variations: variations,
		logger:     logger,
	}
}

// List handles GET /api/v1/vehicles.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultPageSize)
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	vehicles, err := h.vehicles.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list vehicles", "error", err)
		writeError(w, http.StatusInternalServerError, "database_error", "Could not list vehicles")
		return
	}
	if vehicles == nil {
		vehicles = []model.Vehicle{}
	}

	writeJSON(w, http.StatusOK, model.VehicleListResponse{
		Vehicles: vehicles,
		Limit:    limit,
		Offset:   offset,
	})
}

// Get handles GET /api/v1/vehicles/{id}.
func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	vehicle, err := h.vehicles.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Vehicle not found")
			return
		}
		h.logger.Error("get vehicle", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "database_error", "Could not fetch vehicle")
		return
	}

	variations, err := h.variations.ListByVehicleID(r.Context(), vehicle.ID)
	if err != nil {
		h.logger.Error("list variations", "vehicle_id", vehicle.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "database_error", "Could not fetch variations")
		return
	}
	if variations == nil {
		variations = []model.Variation{}
	}

	writeJSON(w, http.StatusOK, model.VehicleDetailResponse{
		Vehicle:    vehicle,
		Variations: variations,
	})
}

// Delete handles DELETE /api/v1/vehicles/{id}. Variations go with the
// vehicle via the FK cascade.
func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.vehicles.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Vehicle not found")
			return
		}
		h.logger.Error("delete vehicle", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "database_error", "Could not delete vehicle")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
