package metrics

import "github.com/prometheus/client_golang/prometheus"

// AvailabilityMetrics exposes counters/histograms for availability
// queries and booking-key redemption.
type AvailabilityMetrics struct {
	requestsTotal  *prometheus.CounterVec
	computeLatency *prometheus.HistogramVec
	slotsReturned  *prometheus.CounterVec
	keysRedeemed   *prometheus.CounterVec
}

func NewAvailabilityMetrics(reg prometheus.Registerer) *AvailabilityMetrics {
	m := &AvailabilityMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "labs",
			Subsystem: "availability",
			Name:      "requests_total",
			Help:      "Total availability queries",
		}, []string{"booking_type", "serviceable"}),
		computeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "labs",
			Subsystem: "availability",
			Name:      "compute_latency_seconds",
			Help:      "Latency of availability computation",
			Buckets:   prometheus.DefBuckets,
		}, []string{"booking_type"}),
		slotsReturned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "labs",
			Subsystem: "availability",
			Name:      "slots_returned_total",
			Help:      "Total slots returned to callers",
		}, []string{"booking_type"}),
		keysRedeemed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "labs",
			Subsystem: "bookingkey",
			Name:      "redemptions_total",
			Help:      "Booking key redemption attempts",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.computeLatency, m.slotsReturned, m.keysRedeemed)
	return m
}

func (m *AvailabilityMetrics) ObserveRequest(bookingType string, serviceable bool) {
	if m == nil {
		return
	}
	label := "false"
	if serviceable {
		label = "true"
	}
	m.requestsTotal.WithLabelValues(bookingType, label).Inc()
}

func (m *AvailabilityMetrics) ObserveCompute(bookingType string, seconds float64) {
	if m == nil {
		return
	}
	m.computeLatency.WithLabelValues(bookingType).Observe(seconds)
}

func (m *AvailabilityMetrics) ObserveSlots(bookingType string, count int) {
	if m == nil {
		return
	}
	m.slotsReturned.WithLabelValues(bookingType).Add(float64(count))
}

func (m *AvailabilityMetrics) ObserveRedemption(outcome string) {
	if m == nil {
		return
	}
	m.keysRedeemed.WithLabelValues(outcome).Inc()
}
