package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records query latency by statement kind, fed from
	// the GORM trace hook.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quill_database_query_latency_seconds",
		Help:    "Database query latency in seconds by statement kind",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// CounterMutations counts denormalized-counter adjustments by entity and direction.
	CounterMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_counter_mutations_total",
		Help: "Total number of denormalized counter adjustments",
	}, []string{"counter", "direction"})

	// CounterRepairRuns counts full counter recomputation runs by outcome.
	CounterRepairRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_counter_repair_runs_total",
		Help: "Total number of counter repair runs by outcome",
	}, []string{"outcome"})

	// CounterRepairDuration records how long a full counter recomputation takes.
	CounterRepairDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "quill_counter_repair_duration_seconds",
		Help:    "Duration of counter repair runs in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// CacheHits counts cache-aside hits and misses by key prefix.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_cache_requests_total",
		Help: "Total cache-aside lookups by key prefix and result",
	}, []string{"prefix", "result"})
)
