package booking

import (
	"context"
	"errors"

	"medipulse/database/repository"
	"medipulse/models"
	"medipulse/utils"

	"go.uber.org/zap"
)

// Actor is the authenticated caller of a lifecycle operation.
type Actor struct {
	ID   string
	Role string
}

// SystemActor is recorded for transitions made by the service itself.
const SystemActor = "system"

func (a Actor) label() string {
	if a.ID == "" {
		return a.Role
	}
	return a.Role + ":" + a.ID
}

// authorize lets admins touch anything and patients and doctors only their own appointments.
func authorize(actor Actor, appt *models.Appointment) error {
	switch actor.Role {
	case utils.RoleAdmin:
		return nil
	case utils.RolePatient:
		if actor.ID != "" && appt.UserID == actor.ID {
			return nil
		}
	case utils.RoleDoctor:
		if actor.ID != "" && appt.DocID == actor.ID {
			return nil
		}
	}
	return ErrForbidden
}

// Cancel closes an open appointment and frees its slot. Completed appointments
// cannot be cancelled.
func (s *DefaultBookingService) Cancel(ctx context.Context, actor Actor, appointmentID string) (*models.Appointment, error) {
	appt, err := s.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, appt); err != nil {
		return nil, err
	}
	if err := openCheck(appt); err != nil {
		return nil, err
	}

	changed, err := s.cancelAndRelease(ctx, s.Appointments.Cancel, appt, models.AuditCancelled, actor.label(), "cancelled")
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, s.closedReason(ctx, appointmentID)
	}
	appt.Cancelled = true
	return appt, nil
}

// Complete finalizes an appointment. The slot stays consumed. Completing twice is a no-op.
func (s *DefaultBookingService) Complete(ctx context.Context, actor Actor, appointmentID string) (*models.Appointment, error) {
	if actor.Role == utils.RolePatient {
		return nil, ErrForbidden
	}
	appt, err := s.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, appt); err != nil {
		return nil, err
	}
	if appt.Cancelled {
		return nil, ErrAppointmentCancelled
	}
	if appt.IsCompleted {
		return appt, nil
	}

	changed, err := s.Appointments.Complete(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !changed {
		// Lost a race: a concurrent cancel wins, a concurrent complete is fine.
		cur, err := s.GetAppointment(ctx, appointmentID)
		if err != nil {
			return nil, err
		}
		if cur.Cancelled {
			return nil, ErrAppointmentCancelled
		}
		return cur, nil
	}

	appt.IsCompleted = true
	s.audit(ctx, appt, models.AuditCompleted, actor.label(), "")
	s.Logger.Info("appointment completed", apptFields(appt)...)
	return appt, nil
}

// MarkPaid records an offline payment. Only admins may do this.
func (s *DefaultBookingService) MarkPaid(ctx context.Context, actor Actor, appointmentID string) (*models.Appointment, error) {
	if actor.Role != utils.RoleAdmin {
		return nil, ErrForbidden
	}
	appt, err := s.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.Cancelled {
		return nil, ErrAppointmentCancelled
	}
	if err := s.markPaid(ctx, appt, actor.label(), "manual settlement"); err != nil {
		return nil, err
	}
	return appt, nil
}

// ConfirmPayment applies a verified provider success. It is idempotent and, unlike
// MarkPaid, also records money that arrived for an appointment cancelled meanwhile.
func (s *DefaultBookingService) ConfirmPayment(ctx context.Context, appointmentID, intentID string) (*models.Appointment, error) {
	appt, err := s.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.Cancelled {
		s.Logger.Warn("payment succeeded for a cancelled appointment", append(apptFields(appt), zap.String("paymentIntentId", intentID))...)
	}
	if err := s.markPaid(ctx, appt, SystemActor, intentID); err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *DefaultBookingService) markPaid(ctx context.Context, appt *models.Appointment, actor, detail string) error {
	changed, err := s.Appointments.MarkPaid(ctx, appt.ID)
	if err != nil {
		return appointmentErr(err)
	}
	appt.Payment = true
	if changed {
		s.audit(ctx, appt, models.AuditPaid, actor, detail)
		s.Logger.Info("appointment paid", apptFields(appt)...)
	}
	return nil
}

// CancelForFailedPayment cancels an open, unpaid appointment after a failed
// charge and frees its slot. It reports whether this call did the cancelling;
// unknown and already paid appointments are left alone.
func (s *DefaultBookingService) CancelForFailedPayment(ctx context.Context, appointmentID, detail string) (bool, error) {
	appt, err := s.Appointments.GetByID(ctx, appointmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if appt.Payment {
		s.Logger.Warn("failed intent for a paid appointment ignored", append(apptFields(appt), zap.String("status", detail))...)
		return false, nil
	}
	return s.cancelAndRelease(ctx, s.Appointments.CancelUnpaid, appt, models.AuditPaymentFailed, SystemActor, detail)
}

// RollbackBooking undoes a booking whose payment could never be started.
func (s *DefaultBookingService) RollbackBooking(ctx context.Context, appt *models.Appointment, reason string) error {
	_, err := s.cancelAndRelease(ctx, s.Appointments.CancelUnpaid, appt, models.AuditBookingRolledBack, SystemActor, reason)
	return err
}

// cancelAndRelease flips appt to cancelled with the given conditional update
// and, only when this call made the change, returns the slot to the ledger. A
// failed release is logged: the appointment stays cancelled and the slot stays held.
func (s *DefaultBookingService) cancelAndRelease(ctx context.Context, cancel func(context.Context, string) (bool, error), appt *models.Appointment, action, actor, reason string) (bool, error) {
	changed, err := cancel(ctx, appt.ID)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}
	appt.Cancelled = true

	if err := s.Doctors.ReleaseSlot(ctx, appt.DocID, appt.SlotDate, appt.SlotTime); err != nil {
		s.Logger.Error("failed to release slot", append(apptFields(appt), zap.Error(err))...)
	} else {
		s.Metrics.ObserveSlotRelease(action)
	}

	s.audit(ctx, appt, action, actor, reason)
	s.Logger.Info("appointment cancelled", append(apptFields(appt), zap.String("action", action), zap.String("reason", reason))...)
	return true, nil
}

func openCheck(appt *models.Appointment) error {
	switch {
	case appt.IsCompleted:
		return ErrAppointmentCompleted
	case appt.Cancelled:
		return ErrAppointmentCancelled
	}
	return nil
}

// closedReason re-reads an appointment whose conditional update did not apply.
func (s *DefaultBookingService) closedReason(ctx context.Context, appointmentID string) error {
	cur, err := s.GetAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}
	if err := openCheck(cur); err != nil {
		return err
	}
	return ErrAppointmentCancelled
}
