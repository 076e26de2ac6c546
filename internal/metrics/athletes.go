package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "athletedex"

// Domain Prometheus metrics.
var (
	CacheOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Response cache operations by namespace and result",
		},
		[]string{"namespace", "result"}, // result: hit / miss / error / stored / deleted
	)

	RateLimitDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_decisions_total",
			Help:      "Rate limiter decisions per limiter",
		},
		[]string{"limiter", "decision"}, // decision: allowed / denied
	)

	RateLimitTrackedClients = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rate_limit_tracked_clients",
			Help:      "Number of client windows held in memory",
		},
		[]string{"limiter"},
	)

	StoreQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_query_duration_seconds",
			Help:      "Relational store query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation", "status"},
	)

	SearchMatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_highlighted_rows_total",
			Help:      "Rows returned with and without fuzzy highlight spans",
		},
		[]string{"result"}, // matched / unmatched
	)
)

var registerDomainOnce sync.Once

// RegisterDomainMetrics registers cache, rate limit, store and search metrics. Safe to call more than once.
func RegisterDomainMetrics(reg prometheus.Registerer) {
	registerDomainOnce.Do(func() {
		reg.MustRegister(
			CacheOperationsTotal,
			RateLimitDecisionsTotal,
			RateLimitTrackedClients,
			StoreQueryDuration,
			SearchMatchesTotal,
		)
	})
}
