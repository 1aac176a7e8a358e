// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "librarydesk"

var (
	// httpRequestsTotal counts HTTP requests by method, route and status code
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	// httpRequestDuration tracks handler latency
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
	}, []string{"method", "route"})

	// queriesTotal counts engine queries by kind
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queries_total",
		Help:      "Total catalog, directory and activity queries by kind",
	}, []string{"kind"})

	// queryResults tracks result set sizes before pagination
	queryResults = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "query_results",
		Help:      "Number of matching records per query",
		Buckets:   []float64{0, 1, 5, 10, 50, 100, 500, 1000},
	}, []string{"kind"})

	// sessionRecords is the current size of each session collection
	sessionRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "session_records",
		Help:      "Records held by the session per collection",
	}, []string{"collection"})

	// recordsAdded counts records appended during the session
	recordsAdded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_added_total",
		Help:      "Records appended during the session per collection",
	}, []string{"collection"})

	// rateLimited counts requests rejected by the rate limiter
	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter",
	})
)

// ObserveQuery records one engine query and its match count.
func ObserveQuery(kind string, matches int) {
	queriesTotal.WithLabelValues(kind).Inc()
	queryResults.WithLabelValues(kind).Observe(float64(matches))
}

// SetSessionRecords publishes the size of a session collection.
func SetSessionRecords(collection string, n int) {
	sessionRecords.WithLabelValues(collection).Set(float64(n))
}

// RecordAdded counts one appended record.
func RecordAdded(collection string) {
	recordsAdded.WithLabelValues(collection).Inc()
}

// RateLimited counts one rejected request.
func RateLimited() {
	rateLimited.Inc()
}

// Middleware records request count and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
