package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveBooking("online", "booked")
	m.ObserveBooking("online", "booked")
	m.ObserveReconciliation("failed")
	m.ObserveSlotRelease("payment_failed")
	m.ObserveSettled(3)
	m.ObserveSettled(0)
	m.ObserveProviderCall("create_intent", errors.New("boom"), 0.2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookingsTotal.WithLabelValues("online", "booked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reconciliationsTotal.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.slotReleasesTotal.WithLabelValues("payment_failed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.settledTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(m.providerLatency))
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveBooking("offline", "booked")
	m.ObserveReconciliation("paid")
	m.ObserveSlotRelease("cancelled")
	m.ObserveSettled(1)
	m.ObserveProviderCall("retrieve_intent", nil, 0.1)
}
