// Package metrics provides Prometheus metrics for filedepot storage operations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Storage operation metrics
	storageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filedepot_storage_operations_total",
			Help: "Total number of storage backend operations",
		},
		[]string{"backend", "operation", "status"},
	)

	storageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filedepot_storage_operation_duration_seconds",
			Help:    "Storage backend operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	// Transfer metrics
	bytesUploaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filedepot_bytes_uploaded_total",
			Help: "Total bytes written to storage backends",
		},
	)

	bytesDownloaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filedepot_bytes_downloaded_total",
			Help: "Total bytes read back from storage backends",
		},
	)
)

// RecordOperation records a storage backend operation with its duration and outcome.
func RecordOperation(backend, operation string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	storageOperationsTotal.WithLabelValues(backend, operation, status).Inc()
	storageOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

// RecordUpload records bytes written by a save operation.
func RecordUpload(bytes int64) {
	if bytes > 0 {
		bytesUploaded.Add(float64(bytes))
	}
}

// RecordDownload records bytes fetched by a download operation.
func RecordDownload(bytes int64) {
	if bytes > 0 {
		bytesDownloaded.Add(float64(bytes))
	}
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
