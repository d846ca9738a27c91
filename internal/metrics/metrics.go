// Package metrics exposes Prometheus instrumentation for the archive
// client and session layer.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ArchiveRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "archivelens_archive_requests_total",
		Help: "Archive API requests by resource and status code",
	}, []string{"resource", "status"})
	ArchiveRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "archivelens_archive_request_duration_seconds",
		Help:    "Archive API request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource"})
	ArchiveRowsFetched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "archivelens_archive_rows_fetched_total",
		Help: "Rows returned by the archive API by resource",
	}, []string{"resource"})
	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "archivelens_active_sessions",
		Help: "Currently open explorer sessions",
	})
)

func init() {
	prometheus.MustRegister(ArchiveRequests, ArchiveRequestDuration, ArchiveRowsFetched, ActiveSessions)
}

// ArchiveRecorder adapts the package metrics to the archive client's
// Recorder interface.
type ArchiveRecorder struct{}

func (ArchiveRecorder) ObserveRequest(resource string, status int, elapsed time.Duration) {
	ArchiveRequests.WithLabelValues(resource, strconv.Itoa(status)).Inc()
	ArchiveRequestDuration.WithLabelValues(resource).Observe(elapsed.Seconds())
}

func (ArchiveRecorder) AddRowsFetched(resource string, rows int) {
	ArchiveRowsFetched.WithLabelValues(resource).Add(float64(rows))
}
