package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartPollMetrics records cart refresh cycles.
type CartPollMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	skipped  prometheus.Counter
}

// NewCartPollMetrics registers the cart poll metrics on the provided registerer.
func NewCartPollMetrics(reg prometheus.Registerer) *CartPollMetrics {
	if reg == nil {
		return &CartPollMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_refresh_duration_seconds",
		Help:    "Duration of cart refresh cycles in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"trigger"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_refresh_success",
		Help: "Successful cart refresh cycles.",
	}, []string{"trigger"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_refresh_failure",
		Help: "Failed cart refresh cycles.",
	}, []string{"trigger"})
	skipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_refresh_skipped_ticks",
		Help: "Poll ticks skipped because a refresh was still in flight.",
	})
	reg.MustRegister(duration, success, failure, skipped)
	return &CartPollMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		skipped:  skipped,
	}
}

// ObserveRefresh records one refresh cycle outcome.
func (c *CartPollMetrics) ObserveRefresh(trigger string, duration time.Duration, err error) {
	if c == nil || c.duration == nil {
		return
	}
	label := normalizeLabel(trigger)
	c.duration.WithLabelValues(label).Observe(duration.Seconds())
	if err != nil {
		c.failure.WithLabelValues(label).Inc()
		return
	}
	c.success.WithLabelValues(label).Inc()
}

// IncSkippedTick counts a poll tick dropped while a refresh was in flight.
func (c *CartPollMetrics) IncSkippedTick() {
	if c == nil || c.skipped == nil {
		return
	}
	c.skipped.Inc()
}

// CheckoutMetrics counts terminal checkout outcomes.
type CheckoutMetrics struct {
	outcomes *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_terminal_outcomes",
		Help: "Checkout sessions reaching a terminal state, by state.",
	}, []string{"state"})
	reg.MustRegister(outcomes)
	return &CheckoutMetrics{outcomes: outcomes}
}

// IncOutcome counts one terminal checkout state.
func (c *CheckoutMetrics) IncOutcome(state string) {
	if c == nil || c.outcomes == nil {
		return
	}
	c.outcomes.WithLabelValues(normalizeLabel(state)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
