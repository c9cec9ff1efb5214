package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "balanco_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "balanco_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Store operation metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "balanco_store_operation_duration_seconds",
			Help:    "Duration of document store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Propagation metrics: products touched by dependent syncs
	ProductSyncTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "balanco_product_sync_total",
			Help: "Total number of dependent product sync runs",
		},
		[]string{"entity"},
	)
)

// TrackStoreOperation records the duration of a store operation:
//
//	defer metrics.TrackStoreOperation("update")(time.Now())
func TrackStoreOperation(operation string) func(start time.Time) {
	return func(start time.Time) {
		StoreOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// RecordProductSync increments the sync counter for the entity type
// that triggered the fan-out.
func RecordProductSync(entity string) {
	ProductSyncTotal.WithLabelValues(entity).Inc()
}
