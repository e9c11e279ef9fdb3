package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the bike tracker
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec
	HTTPRateLimited      prometheus.Counter

	// Spreadsheet Metrics
	SheetCallsTotal   *prometheus.CounterVec
	SheetCallDuration *prometheus.HistogramVec
	SheetRetriesTotal *prometheus.CounterVec

	// Business Metrics
	RowsSkippedTotal       prometheus.Counter
	InconsistentRowsTotal  prometheus.Counter
	StatusTransitionsTotal *prometheus.CounterVec
	AuditLogFailuresTotal  prometheus.Counter
	StaleTogglesRejected   prometheus.Counter
}

// NewMetricsRegistry registers every metric with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	f := promauto.With(reg)
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bikes_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bikes_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bikes_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),
		HTTPRateLimited: f.NewCounter(
			prometheus.CounterOpts{
				Name: "bikes_http_rate_limited_total",
				Help: "Requests rejected by the per-IP rate limiter",
			},
		),

		// Spreadsheet Metrics
		SheetCallsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bikes_sheet_calls_total",
				Help: "Spreadsheet operations by operation and outcome, after retries",
			},
			[]string{"operation", "outcome"},
		),
		SheetCallDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bikes_sheet_call_duration_seconds",
				Help:    "Spreadsheet operation time in seconds, including retries",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
			},
			[]string{"operation"},
		),
		SheetRetriesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bikes_sheet_retries_total",
				Help: "Failed spreadsheet attempts that were retried",
			},
			[]string{"operation"},
		),

		// Business Metrics
		RowsSkippedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "bikes_rows_skipped_total",
				Help: "Malformed bike rows skipped while listing",
			},
		),
		InconsistentRowsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "bikes_inconsistent_rows_total",
				Help: "Listed bike rows whose status and user disagree",
			},
		),
		StatusTransitionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bikes_status_transitions_total",
				Help: "Successful status updates by audit action",
			},
			[]string{"action"},
		),
		AuditLogFailuresTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "bikes_audit_log_failures_total",
				Help: "Audit rows that could not be appended",
			},
		),
		StaleTogglesRejected: f.NewCounter(
			prometheus.CounterOpts{
				Name: "bikes_stale_toggles_rejected_total",
				Help: "Toggles rejected because the sheet status changed since the form was loaded",
			},
		),
	}
}
