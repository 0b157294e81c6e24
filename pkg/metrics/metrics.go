package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pfinance_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pfinance_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Quote metrics
	QuoteLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pfinance_quote_lookups_total",
			Help: "Total number of quote lookups by outcome",
		},
		[]string{"outcome"}, // ok, failed, timeout, mismatched
	)

	QuoteLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pfinance_quote_lookup_duration_seconds",
			Help:    "Duration of a single quote lookup in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
	)

	QuoteBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pfinance_quote_batch_size",
			Help:    "Distinct tickers per batch lookup",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	QuoteCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pfinance_quote_cache_total",
			Help: "Quote cache lookups by result",
		},
		[]string{"result"}, // hit, miss, error
	)

	// Valuation metrics
	ValuationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pfinance_valuations_total",
			Help: "Per-asset valuation results by asset type and status",
		},
		[]string{"type", "status"},
	)

	ValuationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pfinance_valuation_duration_seconds",
			Help:    "Duration of a full portfolio valuation pass",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		},
	)

	// System metrics
	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pfinance_database_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"operation", "table"},
	)

	// External service metrics
	ExternalAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pfinance_external_api_calls_total",
			Help: "Total number of external API calls",
		},
		[]string{"service", "endpoint", "status_code"},
	)

	ExternalAPICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pfinance_external_api_call_duration_seconds",
			Help:    "External API call duration in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
		},
		[]string{"service", "endpoint"},
	)

	CircuitBreakerStateGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pfinance_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"service"},
	)

	// Job metrics
	JobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pfinance_job_runs_total",
			Help: "Scheduled job executions by result",
		},
		[]string{"job", "result"},
	)

	RateLimitHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pfinance_rate_limit_hits_total",
			Help: "Total number of rate limit hits",
		},
		[]string{"endpoint"},
	)
)

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, endpoint, statusCode string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordQuoteLookup records the outcome and duration of one ticker lookup
func RecordQuoteLookup(outcome string, duration float64) {
	QuoteLookupsTotal.WithLabelValues(outcome).Inc()
	QuoteLookupDuration.Observe(duration)
}

// RecordQuoteBatch records the number of distinct tickers in a batch
func RecordQuoteBatch(size int) {
	QuoteBatchSize.Observe(float64(size))
}

// RecordQuoteCache records a cache hit, miss or error
func RecordQuoteCache(result string) {
	QuoteCacheTotal.WithLabelValues(result).Inc()
}

// RecordValuation records a single per-asset valuation result
func RecordValuation(assetType, status string) {
	ValuationsTotal.WithLabelValues(assetType, status).Inc()
}

// RecordValuationPass records the duration of a whole portfolio valuation
func RecordValuationPass(duration float64) {
	ValuationDuration.Observe(duration)
}

// RecordDatabaseQuery records database query metrics
func RecordDatabaseQuery(operation, table string, duration float64) {
	DatabaseQueryDuration.WithLabelValues(operation, table).Observe(duration)
}

// RecordExternalAPICall records external API call metrics
func RecordExternalAPICall(service, endpoint, statusCode string, duration float64) {
	ExternalAPICallsTotal.WithLabelValues(service, endpoint, statusCode).Inc()
	ExternalAPICallDuration.WithLabelValues(service, endpoint).Observe(duration)
}

// UpdateCircuitBreakerState updates circuit breaker state
func UpdateCircuitBreakerState(service string, state float64) {
	CircuitBreakerStateGauge.WithLabelValues(service).Set(state)
}

// RecordJobRun records a scheduled job execution
func RecordJobRun(job, result string) {
	JobRunsTotal.WithLabelValues(job, result).Inc()
}

// RecordRateLimitHit records rate limit hit
func RecordRateLimitHit(endpoint string) {
	RateLimitHitsTotal.WithLabelValues(endpoint).Inc()
}
