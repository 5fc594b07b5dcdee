// Package metrics exposes Prometheus collectors for scrape requests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "conference_scraper"

// Result labels
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Fetch error kinds
const (
	KindStatus  = "status"
	KindNetwork = "network"
)

// Metrics holds the collectors on a dedicated registry
type Metrics struct {
	registry    *prometheus.Registry
	scrapes     *prometheus.CounterVec
	fetchErrors *prometheus.CounterVec
	duration    prometheus.Histogram
	requests    *prometheus.CounterVec
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.scrapes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scrapes_total",
		Help:      "Scrape attempts by result and extraction source",
	}, []string{"result", "source"})
	m.fetchErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_errors_total",
		Help:      "Failed page fetches by kind",
	}, []string{"kind"})
	m.duration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scrape_duration_seconds",
		Help:      "Time spent fetching and extracting an event page",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})
	m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "API requests by route and status code",
	}, []string{"route", "code"})

	m.registry.MustRegister(
		m.scrapes, m.fetchErrors, m.duration, m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveScrape records one scrape. source is empty for failed scrapes.
func (m *Metrics) ObserveScrape(source string, elapsed time.Duration, err error) {
	m.duration.Observe(elapsed.Seconds())

	if err != nil {
		m.scrapes.WithLabelValues(ResultError, "none").Inc()
		return
	}
	if source == "" {
		source = "none"
	}
	m.scrapes.WithLabelValues(ResultOK, source).Inc()
}

// ObserveFetchError records a failed fetch. statusCode is 0 for transport failures.
func (m *Metrics) ObserveFetchError(statusCode int) {
	if statusCode > 0 {
		m.fetchErrors.WithLabelValues(KindStatus).Inc()
		return
	}
	m.fetchErrors.WithLabelValues(KindNetwork).Inc()
}

// ObserveRequest counts an API response
func (m *Metrics) ObserveRequest(route string, code int) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
