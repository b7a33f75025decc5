// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/northpoint/website/content"
)

type Metrics struct {
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	ContentErrors *prometheus.CounterVec
	FormsSent     *prometheus.CounterVec

	registry *prometheus.Registry
}

// New registers the site collectors, plus the Go and process collectors, on a
// private registry.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ContentErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_errors_total",
			Help:      "Classified content store errors by operation and kind.",
		}, []string{"op", "kind"}),
		FormsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "form_submissions_total",
			Help:      "Contact and consultation form submissions by outcome.",
		}, []string{"form", "outcome"}),
		registry: reg,
	}
	reg.MustRegister(m.HTTPRequests, m.HTTPDuration, m.ContentErrors, m.FormsSent)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordContentError matches the content.Service error hook signature.
func (m *Metrics) RecordContentError(op string, kind content.Kind) {
	m.ContentErrors.WithLabelValues(op, string(kind)).Inc()
}

func (m *Metrics) RecordForm(form, outcome string) {
	m.FormsSent.WithLabelValues(form, outcome).Inc()
}
