package wpgraphql

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pubfront",
			Subsystem: "wpgraphql",
			Name:      "requests_total",
			Help:      "GraphQL requests sent to the CMS by operation and outcome",
		},
		[]string{"operation", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pubfront",
			Subsystem: "wpgraphql",
			Name:      "request_duration_seconds",
			Help:      "Latency of GraphQL requests sent to the CMS",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pubfront",
			Subsystem: "wpgraphql",
			Name:      "cache_lookups_total",
			Help:      "Response cache lookups by result (hit, miss, error)",
		},
		[]string{"operation", "result"},
	)

	sharedFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pubfront",
			Subsystem: "wpgraphql",
			Name:      "shared_fetches_total",
			Help:      "Queries answered by an identical in-flight request",
		},
		[]string{"operation"},
	)
)
