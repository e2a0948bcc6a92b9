// Package metrics defines the Prometheus collectors for analysis runs and
// exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors on a private registry.
type Metrics struct {
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec
	AnalysisResults  *prometheus.HistogramVec
	DocsLoadedTotal  prometheus.Counter

	registry *prometheus.Registry
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexstat_analyses_total",
				Help: "Total analyses by kind and outcome.",
			},
			[]string{"analysis", "status"},
		),
		AnalysisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lexstat_analysis_duration_seconds",
				Help:    "Wall time of an analysis.",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
			},
			[]string{"analysis"},
		),
		AnalysisResults: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lexstat_analysis_results",
				Help:    "Number of pairs or words an analysis returned.",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
			[]string{"analysis"},
		),
		DocsLoadedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lexstat_docs_loaded_total",
				Help: "Documents added to the store.",
			},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.AnalysesTotal,
		m.AnalysisDuration,
		m.AnalysisResults,
		m.DocsLoadedTotal,
	)

	return m
}

// Observe records one finished analysis. A nil *Metrics records nothing.
func (m *Metrics) Observe(analysis string, start time.Time, results int, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.AnalysesTotal.WithLabelValues(analysis, status).Inc()
	m.AnalysisDuration.WithLabelValues(analysis).Observe(time.Since(start).Seconds())
	if err == nil {
		m.AnalysisResults.WithLabelValues(analysis).Observe(float64(results))
	}
}

// DocLoaded counts one stored document.
func (m *Metrics) DocLoaded() {
	if m == nil {
		return
	}
	m.DocsLoadedTotal.Inc()
}

// Registry exposes the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus scrape HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
