// Package metrics provides Prometheus metrics for the content pipeline and server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "contentkit"

// Metrics holds the collectors shared by the editor and the content server.
type Metrics struct {
	// Media metrics
	UploadsTotal   *prometheus.CounterVec
	UploadDuration prometheus.Histogram
	UploadBytes    prometheus.Counter

	// Persistence metrics
	SubmitsTotal *prometheus.CounterVec

	// Server metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	StoreOperations *prometheus.CounterVec
	EventClients    prometheus.Gauge
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which is what tests and embedded editors usually want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		UploadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "media_uploads_total",
				Help:      "Total number of media uploads by outcome",
			},
			[]string{"status"},
		),
		UploadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "media_upload_duration_seconds",
				Help:      "Duration of single media uploads in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		UploadBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "media_upload_bytes_total",
				Help:      "Total number of bytes accepted for upload",
			},
		),
		SubmitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submits_total",
				Help:      "Total number of editor submits by kind, operation and outcome",
			},
			[]string{"kind", "op", "status"},
		),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests served",
			},
			[]string{"route", "method", "code"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		StoreOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_operations_total",
				Help:      "Total number of store operations by kind, operation and outcome",
			},
			[]string{"kind", "op", "status"},
		),
		EventClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "event_clients",
				Help:      "Number of connected change event subscribers",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(
			m.UploadsTotal,
			m.UploadDuration,
			m.UploadBytes,
			m.SubmitsTotal,
			m.RequestsTotal,
			m.RequestDuration,
			m.StoreOperations,
			m.EventClients,
		)
	}
	return m
}

// RecordUpload records one media upload.
func (m *Metrics) RecordUpload(size int64, duration time.Duration, err error) {
	m.UploadsTotal.WithLabelValues(status(err)).Inc()
	m.UploadDuration.Observe(duration.Seconds())
	if err == nil && size > 0 {
		m.UploadBytes.Add(float64(size))
	}
}

// RecordSubmit records the outcome of an editor create, update or delete.
func (m *Metrics) RecordSubmit(kind, op string, err error) {
	m.SubmitsTotal.WithLabelValues(kind, op, status(err)).Inc()
}

// RecordStoreOperation records a store call.
func (m *Metrics) RecordStoreOperation(kind, op string, err error) {
	m.StoreOperations.WithLabelValues(kind, op, status(err)).Inc()
}

// RecordRequest records a served HTTP request.
func (m *Metrics) RecordRequest(route, method, code string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(route, method, code).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
