package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roamly_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by statement verb.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roamly_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// ObjectStorageOps counts object storage operations by type and outcome.
	ObjectStorageOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roamly_object_storage_ops_total",
		Help: "Total object storage operations by type and outcome",
	}, []string{"operation", "outcome"})

	// ChatStageLatency records latency per chat pipeline stage (embed, search, generate).
	ChatStageLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roamly_chat_stage_latency_seconds",
		Help:    "Latency of chat pipeline stages in seconds",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"stage"})

	// ChatRequestsTotal counts chat requests by outcome.
	ChatRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roamly_chat_requests_total",
		Help: "Total chat requests by outcome",
	}, []string{"outcome"})
)

// ObserveQuery records the latency of one database statement. operation is
// the leading SQL verb in lower case (select, insert, ...).
func ObserveQuery(operation string, elapsed time.Duration) {
	DatabaseQueryLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// TrackChatStage returns a function that records a chat pipeline stage's
// latency when called.
func TrackChatStage(stage string) func() {
	start := time.Now()
	return func() {
		ChatStageLatency.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
}

// RecordObjectStorageOp increments the object storage counter. Outcome is
// "ok" or "error".
func RecordObjectStorageOp(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ObjectStorageOps.WithLabelValues(operation, outcome).Inc()
}
