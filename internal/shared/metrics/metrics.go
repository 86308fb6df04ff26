package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "creerlio"

var (
	ingestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_total",
			Help:      "Resume ingestions by outcome",
		},
		[]string{"outcome"},
	)

	ingestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_duration_seconds",
			Help:      "Resume ingestion duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
	)

	llmRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Language model calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	geocodeCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocode cache lookups by result",
		},
		[]string{"result"}, // "hit" / "miss" / "error"
	)

	rateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter per group",
		},
		[]string{"group"},
	)

	panicsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_panics_total",
			Help:      "Handler panics recovered by middleware",
		},
	)
)

func init() {
	prometheus.MustRegister(
		ingestTotal,
		ingestDuration,
		llmRequestsTotal,
		httpRequestsTotal,
		httpRequestDuration,
		geocodeCacheTotal,
		rateLimitedTotal,
		panicsTotal,
	)
}

// ObserveIngest records one finished ingestion. outcome is "done" or a failure kind.
func ObserveIngest(outcome string, elapsed time.Duration) {
	ingestTotal.WithLabelValues(outcome).Inc()
	ingestDuration.Observe(elapsed.Seconds())
}

// IncLLMRequest counts a language model call.
func IncLLMRequest(operation, outcome string) {
	llmRequestsTotal.WithLabelValues(operation, outcome).Inc()
}

// IncGeocodeCache counts a geocode cache lookup.
func IncGeocodeCache(result string) {
	geocodeCacheTotal.WithLabelValues(result).Inc()
}

func IncRateLimited(group string) {
	rateLimitedTotal.WithLabelValues(group).Inc()
}

func IncPanic() {
	panicsTotal.Inc()
}

// Middleware records request count and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		method := c.Request.Method
		httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
