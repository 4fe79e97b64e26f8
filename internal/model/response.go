package model

import "time"

// VehicleListResponse is the paginated vehicle listing payload.
type VehicleListResponse struct {
	Vehicles []Vehicle `json:"vehicles"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}

// VehicleDetailResponse is a vehicle together with its pricing tiers.
type VehicleDetailResponse struct {
	Vehicle    *Vehicle    `json:"vehicle"`
	Variations []Variation `json:"variations"`
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse is the common error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
