package payment

import (
	"context"

	"medipulse/models"
	"medipulse/services/booking"

	"go.uber.org/zap"
)

// VerifyPayment settles an appointment from the final status of its intent. On
// success the appointment is marked paid; any other status cancels it and frees
// its slot. An intent opened for a different appointment changes nothing.
func (s *DefaultPaymentService) VerifyPayment(ctx context.Context, callerID, intentID, appointmentID string) (*models.Appointment, error) {
	if intentID == "" || appointmentID == "" {
		return nil, booking.Validation("Missing payment intent or appointment id")
	}

	pi, err := s.timed("retrieve_intent", func() (*models.PaymentIntent, error) {
		return s.Provider.RetrieveIntent(ctx, intentID)
	})
	if err != nil {
		s.Metrics.ObserveReconciliation("provider_error")
		return nil, booking.ErrPaymentProvider.Wrap(err)
	}
	if pi.Metadata["appointmentId"] != appointmentID {
		s.Metrics.ObserveReconciliation("mismatch")
		s.Logger.Warn("payment intent does not belong to appointment",
			zap.String("paymentIntentId", intentID),
			zap.String("appointmentId", appointmentID),
			zap.String("intentAppointmentId", pi.Metadata["appointmentId"]))
		return nil, booking.Validation("Payment does not match appointment")
	}
	if callerID != "" && pi.Metadata["userId"] != callerID {
		s.Metrics.ObserveReconciliation("forbidden")
		return nil, booking.ErrForbidden
	}

	if pi.Status == models.IntentSucceeded {
		appt, err := s.Booking.ConfirmPayment(ctx, appointmentID, intentID)
		if err != nil {
			return nil, err
		}
		s.forget(ctx, appointmentID)
		s.Metrics.ObserveReconciliation("paid")
		return appt, nil
	}

	changed, err := s.Booking.CancelForFailedPayment(ctx, appointmentID, pi.Status)
	if err != nil {
		s.Logger.Error("failed payment not applied", zap.String("appointmentId", appointmentID), zap.Error(err))
		return nil, err
	}
	s.forget(ctx, appointmentID)
	s.Metrics.ObserveReconciliation("failed")
	s.Logger.Info("payment verification failed",
		zap.String("appointmentId", appointmentID),
		zap.String("paymentIntentId", intentID),
		zap.String("status", pi.Status),
		zap.Bool("cancelled", changed))
	return nil, booking.ErrPaymentFailed
}

func (s *DefaultPaymentService) forget(ctx context.Context, appointmentID string) {
	if err := s.Registry.Forget(ctx, appointmentID); err != nil {
		s.Logger.Warn("pending intent not forgotten", zap.String("appointmentId", appointmentID), zap.Error(err))
	}
}
