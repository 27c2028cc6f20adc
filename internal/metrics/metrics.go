// Package metrics exposes Prometheus instruments for analyses, session
// persistence and the HTTP API. Instruments register on the default registry
// and are served from GET /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalysesTotal counts analyses by kind (emotion, voice) and outcome.
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studypulse_analyses_total",
			Help: "Total number of emotion and voice analyses",
		},
		[]string{"kind", "outcome"},
	)

	// AnalysisDuration tracks end-to-end analysis latency including remote calls.
	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "studypulse_analysis_duration_seconds",
			Help:    "Duration of analyses in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind"},
	)

	// LabelsTotal counts the dominant labels and stress levels produced.
	LabelsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studypulse_labels_total",
			Help: "Total number of analyses per resulting label",
		},
		[]string{"kind", "label"},
	)

	// SessionsRecordedTotal counts persisted session records by backend.
	SessionsRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studypulse_sessions_recorded_total",
			Help: "Total number of session records written",
		},
		[]string{"backend"},
	)

	// HTTPRequestsTotal counts API requests by route, method and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studypulse_http_requests_total",
			Help: "Total number of HTTP API requests",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration tracks API latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "studypulse_http_request_duration_seconds",
			Help:    "Duration of HTTP API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// FeedClients is the number of connected live session feed clients.
	FeedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "studypulse_feed_clients",
			Help: "Number of connected session feed websocket clients",
		},
	)
)

// RecordAnalysis records one analysis outcome and its duration.
func RecordAnalysis(kind string, err error, d time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	AnalysesTotal.WithLabelValues(kind, outcome).Inc()
	AnalysisDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// RecordLabel counts a resulting label.
func RecordLabel(kind, label string) {
	LabelsTotal.WithLabelValues(kind, label).Inc()
}

// RecordSession counts a persisted session.
func RecordSession(backend string) {
	SessionsRecordedTotal.WithLabelValues(backend).Inc()
}

// RecordHTTPRequest records one API request.
func RecordHTTPRequest(route, method string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(d.Seconds())
}
