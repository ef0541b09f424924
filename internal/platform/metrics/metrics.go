package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// Metrics holds the application's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	HTTPRequestDuration *prometheus.HistogramVec
	AuthFailures        *prometheus.CounterVec
	AccountsRegistered  prometheus.Counter
	Mutations           *prometheus.CounterVec
	StoreUpdateRetries  *prometheus.CounterVec
	StoreUpdateDuration *prometheus.HistogramVec
	BreakerOpen         *prometheus.GaugeVec
}

// New registers all collectors with reg. Pass prometheus.DefaultRegisterer in
// main and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "devconnector_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and status",
			Buckets: durationBuckets,
		}, []string{"method", "route", "status"}),
		AuthFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "devconnector_auth_failures_total",
			Help: "Requests rejected by the auth middleware, by reason",
		}, []string{"reason"}),
		AccountsRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "devconnector_accounts_registered_total",
			Help: "Total number of accounts registered",
		}),
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "devconnector_collection_mutations_total",
			Help: "Nested collection mutations by kind and outcome",
		}, []string{"kind", "outcome"}),
		StoreUpdateRetries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "devconnector_store_update_retries_total",
			Help: "Atomic update attempts retried because of contention",
		}, []string{"backend", "collection"}),
		StoreUpdateDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "devconnector_store_update_duration_seconds",
			Help:    "Duration of atomic document updates including retries",
			Buckets: durationBuckets,
		}, []string{"backend", "collection"}),
		BreakerOpen: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "devconnector_circuit_breaker_open",
			Help: "1 when the named circuit breaker is open",
		}, []string{"name"}),
	}
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, start time.Time) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementAuthFailure(reason string) {
	if m == nil {
		return
	}
	m.AuthFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementAccountsRegistered() {
	if m == nil {
		return
	}
	m.AccountsRegistered.Inc()
}

// ObserveMutation records the outcome of a likes/comments/experience/education
// mutation.
func (m *Metrics) ObserveMutation(kind, outcome string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) IncrementStoreRetry(backend, collection string) {
	if m == nil {
		return
	}
	m.StoreUpdateRetries.WithLabelValues(backend, collection).Inc()
}

func (m *Metrics) ObserveStoreUpdate(backend, collection string, start time.Time) {
	if m == nil {
		return
	}
	m.StoreUpdateDuration.WithLabelValues(backend, collection).Observe(time.Since(start).Seconds())
}

func (m *Metrics) SetBreakerOpen(name string, open bool) {
	if m == nil {
		return
	}
	v := 0.0
	if open {
		v = 1
	}
	m.BreakerOpen.WithLabelValues(name).Set(v)
}
