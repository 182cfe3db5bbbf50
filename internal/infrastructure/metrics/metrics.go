package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Restaurant backend metrics
	BackendRequests *prometheus.CounterVec
	BackendDuration *prometheus.HistogramVec

	// Cache metrics
	CacheLookups *prometheus.CounterVec

	// Aggregation metrics
	AggregationDuration *prometheus.HistogramVec
	AggregationRows     *prometheus.HistogramVec

	// Authentication metrics
	LoginAttempts *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates all metrics and registers them with reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "restoledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "restoledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "restoledger_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		BackendRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "restoledger_backend_requests_total",
				Help: "Requests sent to the restaurant backend",
			},
			[]string{"method", "endpoint", "status"},
		),
		BackendDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "restoledger_backend_duration_seconds",
				Help:    "Restaurant backend round trip duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		CacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "restoledger_cache_lookups_total",
				Help: "Cache lookups by result",
			},
			[]string{"cache", "result"},
		),

		AggregationDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "restoledger_aggregation_duration_seconds",
				Help:    "Time spent building series and ledgers, backend fetches included",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		AggregationRows: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "restoledger_aggregation_rows",
				Help:    "Buckets or ledger rows produced per aggregation",
				Buckets: []float64{0, 10, 50, 100, 500, 1000, 5000},
			},
			[]string{"operation"},
		),

		LoginAttempts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "restoledger_login_attempts_total",
				Help: "Login attempts by result",
			},
			[]string{"result"},
		),

		RateLimitHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "restoledger_rate_limit_hits_total",
				Help: "Requests rejected by rate limiting",
			},
			[]string{"route"},
		),
	}
}

// ObserveBackendRequest records one backend round trip. Status 0 means the
// request never got a response.
func (m *Metrics) ObserveBackendRequest(method, endpoint string, status int, elapsed time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.BackendRequests.WithLabelValues(method, endpoint, code).Inc()
	m.BackendDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}

// ObserveCache records a cache hit or miss.
func (m *Metrics) ObserveCache(name string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(name, result).Inc()
}

// ObserveAggregation records an aggregation run.
func (m *Metrics) ObserveAggregation(operation string, elapsed time.Duration, rows int) {
	m.AggregationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	m.AggregationRows.WithLabelValues(operation).Observe(float64(rows))
}

// ObserveLogin records a login attempt.
func (m *Metrics) ObserveLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	m.LoginAttempts.WithLabelValues(result).Inc()
}

// ObserveRateLimited records a rejected request.
func (m *Metrics) ObserveRateLimited(route string) {
	m.RateLimitHits.WithLabelValues(route).Inc()
}
