package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	httpRequestsTotal    *prometheus.CounterVec
	httpLatencySeconds   *prometheus.HistogramVec
	httpErrorsTotal      *prometheus.CounterVec
	checkinAttemptsTotal *prometheus.CounterVec
)

// Check-in outcome labels recorded by the orchestrator.
const (
	CheckinOutcomeCreated       = "created"
	CheckinOutcomeRepeat        = "repeat"
	CheckinOutcomeInvalidToken  = "invalid_token"
	CheckinOutcomeExpiredToken  = "expired_token"
	CheckinOutcomeIPDenied      = "ip_denied"
	CheckinOutcomeNotStarted    = "not_started"
	CheckinOutcomeEnded         = "ended"
	CheckinOutcomeDisabled      = "disabled"
	CheckinOutcomeNotFound      = "not_found"
	CheckinOutcomeInternalError = "internal_error"
)

// RegisterMetrics initialises the Prometheus collectors used by the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "presente_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "presente_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "presente_http_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		checkinAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "presente_checkin_attempts_total",
			Help: "Check-in attempts evaluated by the orchestrator, by outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, httpErrorsTotal, checkinAttemptsTotal)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// CheckinAttempts exposes the per-outcome check-in counter.
func CheckinAttempts() *prometheus.CounterVec {
	RegisterMetrics()
	return checkinAttemptsTotal
}
