package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "phonedex",
			Name:      "search_requests_total",
			Help:      "Total number of faceted search requests",
		},
		[]string{"entity", "backend", "status"},
	)

	SearchRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "phonedex",
			Name:      "search_request_duration_seconds",
			Help:      "Faceted search round-trip duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"entity", "backend"},
	)

	SearchResultsTotal = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "phonedex",
			Name:      "search_results_total",
			Help:      "Total matches reported per search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"entity"},
	)

	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "phonedex",
			Name:      "search_cache_total",
			Help:      "Search cache hits and misses",
		},
		[]string{"entity", "result"}, // "hit" / "miss"
	)

	LoginAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "phonedex",
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome",
		},
		[]string{"outcome"}, // "ok" / "failed" / "locked"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers the search and auth metrics. Repeated calls are no-ops.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchRequestDuration)
	prometheus.MustRegister(SearchResultsTotal)
	prometheus.MustRegister(SearchCacheTotal)
	prometheus.MustRegister(LoginAttemptsTotal)
	searchMetricsRegistered = true
}
