package payment

import (
	"context"
	"fmt"

	"medipulse/models"
	"medipulse/services/booking"

	"go.uber.org/zap"
)

// IntentRequest is the input of CreatePaymentIntent.
type IntentRequest struct {
	UserID   string
	DocID    string
	SlotDate string
	SlotTime string
}

// CreatePaymentIntent books the slot online and opens a charge for it. A retry for
// a slot the caller already holds unpaid resumes that appointment instead of
// failing on its own reservation. If the provider call fails the fresh booking
// is rolled back.
func (s *DefaultPaymentService) CreatePaymentIntent(ctx context.Context, req IntentRequest) (*models.PaymentHandle, error) {
	if held, err := s.heldAppointment(ctx, req); err != nil {
		return nil, err
	} else if held != nil {
		s.Logger.Info("resuming pending online booking", zap.String("appointmentId", held.ID))
		return s.createIntent(ctx, held, bookingDescription(held))
	}

	appt, err := s.Booking.Book(ctx, booking.BookingRequest{
		UserID:      req.UserID,
		DocID:       req.DocID,
		SlotDate:    req.SlotDate,
		SlotTime:    req.SlotTime,
		PaymentMode: models.PaymentModeOnline,
	})
	if err != nil {
		return nil, err
	}

	handle, err := s.createIntent(ctx, appt, bookingDescription(appt))
	if err != nil {
		if rbErr := s.Booking.RollbackBooking(ctx, appt, err.Error()); rbErr != nil {
			s.Logger.Error("failed to roll back booking", zap.String("appointmentId", appt.ID), zap.Error(rbErr))
		}
		return nil, err
	}
	return handle, nil
}

func bookingDescription(appt *models.Appointment) string {
	return fmt.Sprintf("Appointment with Dr. %s on %s at %s", appt.DocData.Name, appt.SlotDate, appt.SlotTime)
}

// heldAppointment finds an open, unpaid online appointment of the caller on the requested slot.
func (s *DefaultPaymentService) heldAppointment(ctx context.Context, req IntentRequest) (*models.Appointment, error) {
	if req.UserID == "" {
		return nil, nil
	}
	appts, err := s.Booking.ListForUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	for i := range appts {
		a := &appts[i]
		if a.DocID == req.DocID && a.SlotDate == req.SlotDate && a.SlotTime == req.SlotTime &&
			a.PaymentMode == models.PaymentModeOnline && a.State() == models.StateBookedUnpaid {
			return a, nil
		}
	}
	return nil, nil
}

// createIntent opens a charge for appt, or hands back the remembered one while it
// can still be completed.
func (s *DefaultPaymentService) createIntent(ctx context.Context, appt *models.Appointment, description string) (*models.PaymentHandle, error) {
	amount := MinorUnits(appt.Amount)

	if pi := s.reusableIntent(ctx, appt, amount); pi != nil {
		s.Logger.Info("reusing pending payment intent", zap.String("appointmentId", appt.ID), zap.String("paymentIntentId", pi.ID))
		return &models.PaymentHandle{
			ClientSecret:    pi.ClientSecret,
			AppointmentID:   appt.ID,
			PaymentIntentID: pi.ID,
			Reused:          true,
		}, nil
	}

	req := models.PaymentRequest{
		AppointmentID: appt.ID,
		UserID:        appt.UserID,
		DocID:         appt.DocID,
		DoctorName:    appt.DocData.Name,
		PatientName:   appt.UserData.Name,
		Amount:        amount,
		Currency:      s.Currency,
		Description:   description,
	}
	pi, err := s.timed("create_intent", func() (*models.PaymentIntent, error) {
		return s.Provider.CreateIntent(ctx, req)
	})
	if err != nil {
		return nil, booking.ErrPaymentProvider.Wrap(err)
	}

	if err := s.Registry.Remember(ctx, appt.ID, pi.ID); err != nil {
		s.Logger.Warn("pending intent not remembered", zap.String("appointmentId", appt.ID), zap.Error(err))
	}
	s.Logger.Info("payment intent created",
		zap.String("appointmentId", appt.ID),
		zap.String("paymentIntentId", pi.ID),
		zap.Int64("amount", amount),
		zap.String("currency", s.Currency))

	return &models.PaymentHandle{
		ClientSecret:    pi.ClientSecret,
		AppointmentID:   appt.ID,
		PaymentIntentID: pi.ID,
	}, nil
}

// reusableIntent returns the remembered intent of appt when it is still open for
// the same amount. Lookup failures fall through to a new intent.
func (s *DefaultPaymentService) reusableIntent(ctx context.Context, appt *models.Appointment, amount int64) *models.PaymentIntent {
	id, err := s.Registry.Lookup(ctx, appt.ID)
	if err != nil {
		s.Logger.Warn("pending intent lookup failed", zap.String("appointmentId", appt.ID), zap.Error(err))
		return nil
	}
	if id == "" {
		return nil
	}
	pi, err := s.timed("retrieve_intent", func() (*models.PaymentIntent, error) {
		return s.Provider.RetrieveIntent(ctx, id)
	})
	if err != nil {
		s.Logger.Warn("pending intent not retrievable", zap.String("paymentIntentId", id), zap.Error(err))
		return nil
	}
	if !pi.Reusable() || pi.Amount != amount || pi.Metadata["appointmentId"] != appt.ID {
		return nil
	}
	return pi
}
