package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics - метрики HTTP API и сборки контекста в собственном реестре.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	packedChars         *prometheus.HistogramVec
	droppedMessages     *prometheus.CounterVec
	injectionFindings   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "context_agent_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "context_agent_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
	m.packedChars = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "context_agent_packed_chars",
			Help:    "Characters kept by the packer",
			Buckets: prometheus.ExponentialBuckets(64, 2, 10),
		},
		[]string{"policy"},
	)
	m.droppedMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "context_agent_dropped_messages_total",
			Help: "Messages dropped by the packer",
		},
		[]string{"policy"},
	)
	m.injectionFindings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "context_agent_injection_findings_total",
			Help: "Injection heuristics triggered in external text",
		},
		[]string{"kind"},
	)

	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.packedChars,
		m.droppedMessages,
		m.injectionFindings,
	)
	return m
}

func (m *Metrics) ObservePack(policy string, finalChars, dropped int) {
	m.packedChars.WithLabelValues(policy).Observe(float64(finalChars))
	m.droppedMessages.WithLabelValues(policy).Add(float64(dropped))
}

func (m *Metrics) IncFinding(kind string) {
	m.injectionFindings.WithLabelValues(kind).Inc()
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
