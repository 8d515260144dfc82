// Package observability holds the process-wide Prometheus collectors.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry        *prometheus.Registry
	exports         *prometheus.CounterVec
	compileDuration prometheus.Histogram
	sectionErrors   *prometheus.CounterVec
	profileUpdates  *prometheus.CounterVec
	rateLimited     prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resume",
			Name:      "exports_total",
			Help:      "Resume exports by requested format and outcome.",
		}, []string{"format", "outcome"}),
		compileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "resume",
			Name:      "compile_duration_seconds",
			Help:      "Wall time spent in the document compiler per export.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}),
		sectionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resume",
			Name:      "datastore_section_errors_total",
			Help:      "Datastore section reads that fell back to an empty default.",
		}, []string{"section"}),
		profileUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resume",
			Name:      "profile_updates_total",
			Help:      "Profile automation runs by site and result.",
		}, []string{"site", "result"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "resume",
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the per-client rate limiter.",
		}),
	}
	m.registry.MustRegister(
		m.exports, m.compileDuration, m.sectionErrors, m.profileUpdates, m.rateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveExport(format, outcome string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format, outcome).Inc()
}

func (m *Metrics) ObserveCompile(d time.Duration) {
	if m == nil {
		return
	}
	m.compileDuration.Observe(d.Seconds())
}

func (m *Metrics) SectionFailed(section string) {
	if m == nil {
		return
	}
	m.sectionErrors.WithLabelValues(section).Inc()
}

func (m *Metrics) ObserveProfileUpdate(site string, ok bool) {
	if m == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	m.profileUpdates.WithLabelValues(site, result).Inc()
}

func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}
