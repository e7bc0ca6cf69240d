package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCheckoutMetricsCounts(t *testing.T) {
	m := NewCheckoutMetrics(prometheus.NewRegistry())

	m.Transition("review")
	m.Transition("review")
	m.Finalized("success", 120*time.Millisecond)
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transitions.WithLabelValues("review")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FinalizeOutcomes.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveSessions))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *CheckoutMetrics
	assert.NotPanics(t, func() {
		m.Transition("review")
		m.Finalized("failed", time.Second)
		m.SessionOpened()
		m.SessionClosed()
	})

	var s *ServerMetrics
	assert.NotPanics(t, func() { s.Observe("/x", "GET", 200, time.Millisecond) })
}

func TestServerMetricsObserve(t *testing.T) {
	s := NewServerMetrics(prometheus.NewRegistry(), "api")
	s.Observe("/api/v1/cart", "GET", 200, 15*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.Requests.WithLabelValues("/api/v1/cart", "GET", "200")))
}
