package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Provider metrics
	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_calls_total",
			Help: "Total number of calls to the file-hosting provider",
		},
		[]string{"operation", "status"},
	)

	ProviderCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_call_duration_seconds",
			Help:    "Provider call duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	// Gallery metrics
	FilesListed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gallery_files_listed",
			Help:    "Number of files returned per list call",
			Buckets: []float64{0, 10, 25, 50, 100, 250, 500},
		},
	)

	FilesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_files_deleted_total",
			Help: "Total number of files deleted through the facade",
		},
	)

	BulkOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_bulk_operations_total",
			Help: "Total number of viewer bulk operations",
		},
		[]string{"operation"},
	)
)
