package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Collector owns the Prometheus registry and the metrics the dashboard
// service exposes. A private registry keeps the scrape output limited to
// what this process registers; default Go runtime collectors are added
// explicitly.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	fxFallbackTotal *prometheus.CounterVec
	rateBatchSize   prometheus.Histogram

	logger *zap.Logger
}

// NewCollector creates a Collector with all metrics registered
func NewCollector(logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Collector{
		registry: registry,
		requestsTotal: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		requestDuration: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		fxFallbackTotal: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "fx_rate_fallback_total",
			Help: "Conversions that fell back to rate 1.0 because no rate was stored",
		}, []string{"from", "to"}),
		rateBatchSize: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "fx_rate_batch_size",
			Help:    "Number of currency pairs requested per rate batch",
			Buckets: []float64{0, 1, 2, 5, 10, 20},
		}),
		logger: logger,
	}
}

// RecordFXFallback counts a conversion that used the 1.0 fallback rate
func (c *Collector) RecordFXFallback(from, to string) {
	c.fxFallbackTotal.WithLabelValues(from, to).Inc()
}

// RecordRateBatch records the pair count of one batched rate lookup
func (c *Collector) RecordRateBatch(pairs int) {
	c.rateBatchSize.Observe(float64(pairs))
}

// Handler returns the Prometheus scrape handler for this collector's registry
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request count and latency per route. The route
// template (c.FullPath) is used instead of the raw URL so tenant IDs and
// query strings do not explode the label cardinality.
func (c *Collector) GinMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		path := ctx.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := ctx.Request.Method
		status := strconv.Itoa(ctx.Writer.Status())

		c.requestsTotal.WithLabelValues(method, path, status).Inc()
		c.requestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
