package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

// CheckoutMetrics counts orchestrator activity. All methods are safe on a nil receiver.
type CheckoutMetrics struct {
	Transitions      *prometheus.CounterVec
	FinalizeOutcomes *prometheus.CounterVec
	FinalizeLatency  prometheus.Histogram
	ActiveSessions   prometheus.Gauge
}

func NewServerMetrics(reg prometheus.Registerer, service string) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "method", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})

	reg.MustRegister(requests, latency)
	return &ServerMetrics{Requests: requests, LatencyMS: latency}
}

func (m *ServerMetrics) Observe(handler, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(handler, method, strconv.Itoa(status)).Inc()
	m.LatencyMS.WithLabelValues(handler).Observe(float64(elapsed.Milliseconds()))
}

func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "state_transitions_total",
		Help:      "Checkout state transitions by target state.",
	}, []string{"to"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "finalize_total",
		Help:      "Finalize attempts by outcome.",
	}, []string{"outcome"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "finalize_duration_seconds",
		Help:      "Time spent in the finalize pipeline.",
		Buckets:   prometheus.DefBuckets,
	})
	active := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "active_sessions",
		Help:      "Checkout sessions currently held in memory.",
	})

	reg.MustRegister(transitions, outcomes, latency, active)
	return &CheckoutMetrics{
		Transitions:      transitions,
		FinalizeOutcomes: outcomes,
		FinalizeLatency:  latency,
		ActiveSessions:   active,
	}
}

func (m *CheckoutMetrics) Transition(to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(to).Inc()
}

func (m *CheckoutMetrics) Finalized(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.FinalizeOutcomes.WithLabelValues(outcome).Inc()
	m.FinalizeLatency.Observe(elapsed.Seconds())
}

func (m *CheckoutMetrics) SessionOpened() {
	if m == nil {
		return
	}
	m.ActiveSessions.Inc()
}

func (m *CheckoutMetrics) SessionClosed() {
	if m == nil {
		return
	}
	m.ActiveSessions.Dec()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
