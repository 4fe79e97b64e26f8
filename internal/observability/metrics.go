package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ImportRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_import_rows_total",
			Help: "Import rows by outcome (success, error, duplicate)",
		},
		[]string{"result"},
	)

	BatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_import_batch_duration_seconds",
			Help:    "Duration of one import batch",
			Buckets: prometheus.DefBuckets,
		},
	)

	ListingFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_storage_listing_fetches_total",
			Help: "Storage listing fetches by source (bucket, cache)",
		},
		[]string{"source"},
	)
)

// Register registers all collectors on the default registry. Call once at
// startup; the collectors themselves work unregistered, which keeps tests
// free of registry state.
func Register() {
	prometheus.MustRegister(ImportRows, BatchDuration, ListingFetches)
}

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
