package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provider request outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeEmpty    = "empty"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movienote_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route", "status"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movienote_http_active_requests",
			Help: "Requests currently being served",
		},
	)

	// ProviderRequests counts outbound calls to TMDB/OMDB by outcome.
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movienote_provider_requests_total",
			Help: "Outbound movie provider requests",
		},
		[]string{"provider", "operation", "outcome"},
	)

	// SearchTierServed counts which tier answered a search (tmdb, omdb, none).
	SearchTierServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movienote_search_tier_served_total",
			Help: "Searches answered per provider tier",
		},
		[]string{"tier"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "movienote_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CatalogOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movienote_catalog_operations_total",
			Help: "Catalog store operations by result",
		},
		[]string{"operation", "result"},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route, status string, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

// RecordProviderRequest records one outbound provider call.
func RecordProviderRequest(provider, operation, outcome string) {
	ProviderRequests.WithLabelValues(provider, operation, outcome).Inc()
}

// RecordCatalogOperation records a catalog store operation result.
func RecordCatalogOperation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	CatalogOperations.WithLabelValues(operation, result).Inc()
}
