package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking and payment flows.
type BookingMetrics struct {
	bookingsTotal        *prometheus.CounterVec
	reconciliationsTotal *prometheus.CounterVec
	slotReleasesTotal    *prometheus.CounterVec
	settledTotal         prometheus.Counter
	providerLatency      *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medipulse",
			Subsystem: "booking",
			Name:      "bookings_total",
			Help:      "Total booking attempts by payment mode and outcome",
		}, []string{"mode", "outcome"}),
		reconciliationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medipulse",
			Subsystem: "booking",
			Name:      "reconciliations_total",
			Help:      "Total payment verifications by outcome",
		}, []string{"outcome"}),
		slotReleasesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medipulse",
			Subsystem: "booking",
			Name:      "slot_releases_total",
			Help:      "Total slots returned to the ledger",
		}, []string{"reason"}),
		settledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "medipulse",
			Subsystem: "booking",
			Name:      "settled_total",
			Help:      "Completed appointments settled as paid by the maintenance pass",
		}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "medipulse",
			Subsystem: "payment",
			Name:      "provider_latency_seconds",
			Help:      "Latency of payment provider calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.reconciliationsTotal, m.slotReleasesTotal, m.settledTotal, m.providerLatency)
	return m
}

func (m *BookingMetrics) ObserveBooking(mode, outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(mode, outcome).Inc()
}

func (m *BookingMetrics) ObserveReconciliation(outcome string) {
	if m == nil {
		return
	}
	m.reconciliationsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveSlotRelease(reason string) {
	if m == nil {
		return
	}
	m.slotReleasesTotal.WithLabelValues(reason).Inc()
}

func (m *BookingMetrics) ObserveSettled(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.settledTotal.Add(float64(n))
}

func (m *BookingMetrics) ObserveProviderCall(operation string, err error, seconds float64) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.providerLatency.WithLabelValues(operation, status).Observe(seconds)
}
