// Package metrics holds the Prometheus collectors of the form service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "qform"

// Submission outcomes.
const (
	Accepted = "accepted"
	Rejected = "rejected"
	Failed   = "failed"
)

type Metrics struct {
	Registry *prometheus.Registry

	Submissions      *prometheus.CounterVec
	FieldErrors      *prometheus.CounterVec
	StoreLatency     *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
}

// New registers every collector on a fresh registry, so tests can create as
// many as they like.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Submissions received, by outcome.",
		}, []string{"result"}),
		FieldErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Validation failures, by field id.",
		}, []string{"field"}),
		StoreLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_seconds",
			Help:      "Latency of submission store operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		RequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served.",
		}),
	}

	m.Registry.MustRegister(
		m.Submissions,
		m.FieldErrors,
		m.StoreLatency,
		m.RequestsInFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// InFlight tracks requests served by next.
func (m *Metrics) InFlight(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerInFlight(m.RequestsInFlight, next)
}
