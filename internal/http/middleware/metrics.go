package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedRoute labels requests that hit no route, keeping the path label
// bounded to registered templates.
const unmatchedRoute = "unmatched"

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "friendapp",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route template and status.",
	}, []string{"method", "path", "status"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "friendapp",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	requestsInflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "friendapp",
		Subsystem: "http",
		Name:      "requests_inflight",
		Help:      "Requests currently being served.",
	})

	// 128 B .. 256 KiB; profile images are capped at 100 KiB.
	responseBytes = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "friendapp",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response body size.",
		Buckets:   prometheus.ExponentialBuckets(128, 2, 12),
	}, []string{"method", "path"})
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration, requestsInflight, responseBytes)
}

// Metrics records Prometheus request metrics. The scrape endpoint is mounted
// separately with promhttp.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestsInflight.Inc()
		defer requestsInflight.Dec()
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		m := c.Request.Method
		requestsTotal.WithLabelValues(m, route, strconv.Itoa(c.Writer.Status())).Inc()
		requestDuration.WithLabelValues(m, route).Observe(time.Since(start).Seconds())
		if n := c.Writer.Size(); n >= 0 {
			responseBytes.WithLabelValues(m, route).Observe(float64(n))
		}
	}
}
