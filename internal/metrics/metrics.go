// Package metrics provides Prometheus metrics for the calculation service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "carboncam"

// Outcome label values.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeMissing = "not_found"
	OutcomeError   = "error"
)

// Metrics holds every collector. Collectors are registered on the
// Registerer given to New, never on the global default.
type Metrics struct {
	gatherer prometheus.Gatherer

	Calculations     *prometheus.CounterVec
	CalculatedEnergy prometheus.Histogram
	BatchRows        *prometheus.CounterVec
	BatchDuration    prometheus.Histogram
	Mutations        *prometheus.CounterVec
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,

		Calculations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "calculations_total",
				Help:      "Total number of single-operation calculations",
			},
			[]string{"outcome"},
		),
		CalculatedEnergy: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "calculation_energy_kwh",
				Help:      "Total energy of successful calculations",
				Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 500},
			},
		),
		BatchRows: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "batch_rows_total",
				Help:      "Total number of batch rows processed",
			},
			[]string{"outcome"},
		),
		BatchDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "batch_duration_seconds",
				Help:      "Time taken to calculate a batch",
				Buckets:   prometheus.DefBuckets,
			},
		),
		Mutations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "profile_mutations_total",
				Help:      "Total number of custom profile changes",
			},
			[]string{"action"},
		),
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "code"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

// NewUnregistered returns Metrics on a private registry. Useful for tests and
// for callers that do not expose /metrics.
func NewUnregistered() *Metrics {
	return New(prometheus.NewRegistry())
}

// RecordCalculation counts one calculation and, when it succeeded, its energy.
func (m *Metrics) RecordCalculation(outcome string, totalKWh float64) {
	m.Calculations.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		m.CalculatedEnergy.Observe(totalKWh)
	}
}

// RecordBatch counts the rows of one batch.
func (m *Metrics) RecordBatch(ok, failed int, duration time.Duration) {
	m.BatchRows.WithLabelValues(OutcomeOK).Add(float64(ok))
	m.BatchRows.WithLabelValues(OutcomeError).Add(float64(failed))
	m.BatchDuration.Observe(duration.Seconds())
}

// RecordMutation counts one audit action.
func (m *Metrics) RecordMutation(action string) {
	m.Mutations.WithLabelValues(action).Inc()
}

// RecordHTTP counts one request on route.
func (m *Metrics) RecordHTTP(route string, code int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
