// Package metrics exposes Prometheus collectors for the HTTP surface and the
// attempt ledger.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so tests can build several side by side.
type Collector struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	submissions     *prometheus.CounterVec
	scores          prometheus.Histogram
	timeSpent       prometheus.Histogram
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint"},
		),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aptitude_attempts_total",
				Help: "Recorded aptitude test attempts",
			},
			[]string{"test_id"},
		),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "aptitude_attempt_percentage",
			Help:    "Percentage scored per recorded attempt",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
		timeSpent: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "aptitude_attempt_duration_seconds",
			Help:    "Time candidates spent on a recorded attempt",
			Buckets: prometheus.ExponentialBuckets(30, 2, 8),
		}),
	}
	c.registry.MustRegister(
		c.requests,
		c.requestDuration,
		c.submissions,
		c.scores,
		c.timeSpent,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveSubmission records one graded attempt.
func (c *Collector) ObserveSubmission(testID string, percentage float64, timeSpent time.Duration) {
	c.submissions.WithLabelValues(testID).Inc()
	c.scores.Observe(percentage)
	c.timeSpent.Observe(timeSpent.Seconds())
}

// Middleware counts requests by route template, not raw path.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		endpoint := ctx.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		c.requests.WithLabelValues(
			ctx.Request.Method,
			endpoint,
			strconv.Itoa(ctx.Writer.Status()),
		).Inc()
		c.requestDuration.WithLabelValues(ctx.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
