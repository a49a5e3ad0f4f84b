// Package observability provides logging, metrics, and tracing.
//
// It integrates with OpenTelemetry for distributed tracing and
// Prometheus for metrics, following the teacher's comprehensive
// observability shape.
package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTPRequestsTotal counts HTTP requests by route, method, and status label.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	// HTTPRequestDuration records request durations by route and method.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	// MatchDuration records Match operation wall-clock time.
	MatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_duration_ms",
			Help:    "Matching operation duration in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 75, 100, 150, 250, 500},
		},
	)
	// MatchFinalScore is the histogram of finalScore over recent matches.
	MatchFinalScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_final_score",
			Help:    "Distribution of finalScore ([0,1])",
			Buckets: []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)
	// MatchesByCompatibility counts matches by resulting compatibility band.
	MatchesByCompatibility = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matches_by_compatibility_total",
			Help: "Total matches by compatibility band",
		},
		[]string{"compatibility"},
	)
	// ScorerErrorsTotal counts scorer failures by component.
	ScorerErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scorer_errors_total",
			Help: "Total scorer failures by component",
		},
		[]string{"component"},
	)
	// ScorerTimeoutsTotal counts scorers that did not finish before the deadline.
	ScorerTimeoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scorer_timeouts_total",
			Help: "Total scorer deadline timeouts by component",
		},
		[]string{"component"},
	)
	// CacheLookupsTotal counts result cache lookups by outcome (hit/miss).
	CacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Total result cache lookups by outcome",
		},
		[]string{"outcome"},
	)
	// CacheSize is a gauge of the current number of entries in the result cache.
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Current number of entries in the result cache",
		},
	)
	// ComponentAverageScore is a gauge of the rolling average score per component.
	ComponentAverageScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "component_average_score",
			Help: "Rolling average score per scoring component",
		},
		[]string{"component"},
	)
	// WeightTableVersion is a gauge carrying the loaded synonym/weight table version as a label.
	WeightTableVersion = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "weight_table_version_info",
			Help: "Loaded synonym/weight table version (always 1, version is the label)",
		},
		[]string{"version"},
	)
	// CircuitBreakerStatus tracks circuit breaker state.
	CircuitBreakerStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_status",
			Help: "Circuit breaker status (0=closed, 1=open, 2=half-open)",
		},
		[]string{"service", "operation"},
	)
)

// InitMetrics registers all Prometheus metrics with the default registry.
func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(MatchDuration)
	prometheus.MustRegister(MatchFinalScore)
	prometheus.MustRegister(MatchesByCompatibility)
	prometheus.MustRegister(ScorerErrorsTotal)
	prometheus.MustRegister(ScorerTimeoutsTotal)
	prometheus.MustRegister(CacheLookupsTotal)
	prometheus.MustRegister(CacheSize)
	prometheus.MustRegister(ComponentAverageScore)
	prometheus.MustRegister(WeightTableVersion)
	prometheus.MustRegister(CircuitBreakerStatus)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			// fallback when route pattern is unavailable
			route = r.URL.Path
		}
		method := r.Method
		status := ww.Status()
		HTTPRequestsTotal.WithLabelValues(route, method, http.StatusText(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, method).Observe(dur)
	})
}

// ObserveMatch records metrics for one completed Match operation.
func ObserveMatch(durationMs float64, finalScore float64, compatibility string) {
	MatchDuration.Observe(durationMs)
	if finalScore >= 0 && finalScore <= 1 {
		MatchFinalScore.Observe(finalScore)
	}
	MatchesByCompatibility.WithLabelValues(compatibility).Inc()
}

// RecordScorerError increments the error counter for a component.
func RecordScorerError(component string) {
	ScorerErrorsTotal.WithLabelValues(component).Inc()
}

// RecordScorerTimeout increments the timeout counter for a component.
func RecordScorerTimeout(component string) {
	ScorerTimeoutsTotal.WithLabelValues(component).Inc()
}

// RecordCacheLookup increments the cache lookup counter for the given outcome ("hit"/"miss").
func RecordCacheLookup(outcome string) {
	CacheLookupsTotal.WithLabelValues(outcome).Inc()
}

// RecordCircuitBreakerStatus records circuit breaker state.
func RecordCircuitBreakerStatus(service, operation string, status int) {
	CircuitBreakerStatus.WithLabelValues(service, operation).Set(float64(status))
}
