// Package metrics holds the Prometheus collectors of the calendar service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/zapponejosh/calendar-api/internal/calendar"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for conversion and cache counters.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeRange   = "out_of_range"

	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Outcome classifies a conversion error for the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case calendar.IsOutOfRange(err):
		return OutcomeRange
	default:
		return OutcomeInvalid
	}
}

// Metrics owns a private registry so that several instances can coexist in
// tests. Every method is safe to call on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	Conversions      *prometheus.CounterVec
	RequestsTotal    *prometheus.CounterVec
	EndpointLatency  *prometheus.HistogramVec
	ConcordanceCache *prometheus.CounterVec
	ConcordanceBuilt prometheus.Counter
}

// New registers and returns the service collectors, plus the Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Conversions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "calendar_conversions_total",
			Help: "Calendar conversions by calendar, operation and outcome",
		}, []string{"calendar", "op", "outcome"}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "calendar_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		EndpointLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "calendar_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		ConcordanceCache: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "calendar_concordance_cache_total",
			Help: "Concordance cache lookups by result",
		}, []string{"result"}),
		ConcordanceBuilt: factory.NewCounter(prometheus.CounterOpts{
			Name: "calendar_concordance_rows_built_total",
			Help: "Concordance rows written by the builder",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) IncConversion(calendar, op, outcome string) {
	if m == nil {
		return
	}
	m.Conversions.WithLabelValues(calendar, op, outcome).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, start time.Time) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.EndpointLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncCache(result string) {
	if m == nil {
		return
	}
	m.ConcordanceCache.WithLabelValues(result).Inc()
}

func (m *Metrics) AddBuilt(n int) {
	if m == nil {
		return
	}
	m.ConcordanceBuilt.Add(float64(n))
}
