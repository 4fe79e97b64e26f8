package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Lenacars/adminpanel-sub000/internal/model"
)

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := model.HealthResponse{
		Status:    "ok",
		Database:  "up",
		Timestamp: time.Now().UTC(),
	}
	status := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.Database = "down"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}
