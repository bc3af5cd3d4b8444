// Package metrics exposes prometheus collectors for the HTTP layer and the
// analysis writes.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec

	LinksCreated  prometheus.Counter
	FieldsCreated prometheus.Counter
	ValuesWritten *prometheus.CounterVec
}

// New registers every collector on a private registry, so several instances
// can live in one process (tests do this).
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		LinksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analysis_links_created_total",
			Help: "Project-post links created, explicitly or on first result.",
		}),
		FieldsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analysis_fields_created_total",
			Help: "Project fields created, explicitly or on first result.",
		}),
		ValuesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analysis_values_written_total",
			Help: "Analysis values written, by whether they were new or replaced.",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(
		prometheus.NewGoCollector(),
		m.requests, m.latency, m.LinksCreated, m.FieldsCreated, m.ValuesWritten,
	)
	return m
}

// Middleware records the count and latency of every request.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// RecordWrite counts the effects of one RecordResults call.
func (m *Metrics) RecordWrite(linkCreated bool, fieldsCreated, valuesCreated, valuesUpdated int) {
	if linkCreated {
		m.LinksCreated.Inc()
	}
	m.FieldsCreated.Add(float64(fieldsCreated))
	m.ValuesWritten.WithLabelValues("created").Add(float64(valuesCreated))
	m.ValuesWritten.WithLabelValues("updated").Add(float64(valuesUpdated))
}
