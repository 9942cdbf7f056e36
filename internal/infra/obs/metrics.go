package obs

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered on one registry. A nil registry gets a fresh one.
type Metrics struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestCount    *prometheus.CounterVec
	queryDuration   *prometheus.HistogramVec
	queryCount      *prometheus.CounterVec
	diagnostics     *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		registry: reg,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "siteavail_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint", "status"}),
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "siteavail_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "siteavail_query_duration_seconds",
			Help:    "Query bus latency by query key",
			Buckets: prometheus.DefBuckets,
		}, []string{"query"}),
		queryCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "siteavail_queries_total",
			Help: "Queries served by key and outcome",
		}, []string{"query", "outcome"}),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "siteavail_diagnostics_total",
			Help: "Data inconsistencies detected while building availability",
		}, []string{"event"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "siteavail_site_cache_lookups_total",
			Help: "Site cache lookups by result",
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.requestDuration, m.requestCount,
		m.queryDuration, m.queryCount,
		m.diagnostics, m.cacheLookups,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
	return gin.WrapH(h)
}

// HTTP records request latency per route template to keep label cardinality bounded.
func (m *Metrics) HTTP() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.requestDuration.WithLabelValues(c.Request.Method, endpoint, status).Observe(time.Since(start).Seconds())
		m.requestCount.WithLabelValues(c.Request.Method, endpoint, status).Inc()
	}
}

// ObserveQuery implements middleware.QueryObserver.
func (m *Metrics) ObserveQuery(key string, d time.Duration, err error) {
	m.queryDuration.WithLabelValues(key).Observe(d.Seconds())
	m.queryCount.WithLabelValues(key, outcome(err)).Inc()
}

func (m *Metrics) IncDiagnostic(event string) {
	m.diagnostics.WithLabelValues(event).Inc()
}

// CacheLookup counts one site cache lookup; result is hit, miss or error.
func (m *Metrics) CacheLookup(result string) {
	m.cacheLookups.WithLabelValues(result).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
