package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ImportFilesTotal counts files processed by the batch import pipeline by outcome.
	ImportFilesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mapinned_import_files_total",
		Help: "Total number of files processed by the batch import pipeline by outcome",
	}, []string{"outcome"})

	// ExternalRequestLatency records latency of calls to external collaborators.
	ExternalRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mapinned_external_request_latency_seconds",
		Help:    "Latency of calls to external services in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"target"})

	// CaptionStreamsTotal counts AI caption streams by result.
	CaptionStreamsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mapinned_caption_streams_total",
		Help: "Total number of AI caption streams by result",
	}, []string{"result"})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mapinned_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)

// ObserveExternalRequest records the latency of one external call.
func ObserveExternalRequest(target string, start time.Time) {
	ExternalRequestLatency.WithLabelValues(target).Observe(time.Since(start).Seconds())
}
