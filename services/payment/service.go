package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"medipulse/metrics"
	"medipulse/models"
	"medipulse/services/booking"

	"go.uber.org/zap"
)

// PaymentService links appointments to provider charges and reconciles their outcome.
type PaymentService interface {
	CreatePaymentIntent(ctx context.Context, req IntentRequest) (*models.PaymentHandle, error)
	VerifyPayment(ctx context.Context, callerID, intentID, appointmentID string) (*models.Appointment, error)
	PayForAppointment(ctx context.Context, callerID, appointmentID string) (*models.PaymentHandle, error)
}

// DefaultPaymentService implements PaymentService on top of the booking core.
type DefaultPaymentService struct {
	Booking  booking.BookingService
	Provider Provider
	Registry *IntentRegistry
	Currency string
	Metrics  *metrics.BookingMetrics
	Logger   *zap.Logger
}

func NewPaymentService(b booking.BookingService, p Provider, registry *IntentRegistry, currency string, m *metrics.BookingMetrics, logger *zap.Logger) *DefaultPaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if currency == "" {
		currency = "usd"
	}
	return &DefaultPaymentService{
		Booking:  b,
		Provider: p,
		Registry: registry,
		Currency: strings.ToLower(currency),
		Metrics:  m,
		Logger:   logger,
	}
}

// PayForAppointment opens a charge for an existing unpaid appointment using its
// frozen amount and snapshots. No provider call happens when a check fails.
func (s *DefaultPaymentService) PayForAppointment(ctx context.Context, callerID, appointmentID string) (*models.PaymentHandle, error) {
	appt, err := s.Booking.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if callerID != "" && appt.UserID != callerID {
		return nil, booking.ErrForbidden
	}
	if appt.Payment {
		return nil, booking.ErrAlreadyPaid
	}
	if appt.Cancelled {
		return nil, booking.ErrAppointmentCancelled
	}

	desc := fmt.Sprintf("Payment for appointment with Dr. %s on %s at %s", appt.DocData.Name, appt.SlotDate, appt.SlotTime)
	return s.createIntent(ctx, appt, desc)
}

// timed runs one provider call and records its latency.
func (s *DefaultPaymentService) timed(operation string, call func() (*models.PaymentIntent, error)) (*models.PaymentIntent, error) {
	start := time.Now()
	pi, err := call()
	s.Metrics.ObserveProviderCall(operation, err, time.Since(start).Seconds())
	return pi, err
}
