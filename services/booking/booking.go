package booking

import (
	"context"
	"errors"

	"medipulse/database/repository"
	"medipulse/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingRequest is the input of Book. PaymentMode defaults to offline.
type BookingRequest struct {
	UserID      string
	DocID       string
	SlotDate    string
	SlotTime    string
	PaymentMode string
}

func (r *BookingRequest) validate() error {
	if r.UserID == "" {
		return Validation("Missing user")
	}
	if r.DocID == "" {
		return Validation("Missing doctor")
	}
	if err := validateSlot(r.SlotDate, r.SlotTime); err != nil {
		return err
	}
	switch r.PaymentMode {
	case "":
		r.PaymentMode = models.PaymentModeOffline
	case models.PaymentModeOffline, models.PaymentModeOnline:
	default:
		return Validation("Invalid payment mode")
	}
	return nil
}

// Book reserves the slot and records the appointment as one unit of work.
// On any failure nothing is written.
func (s *DefaultBookingService) Book(ctx context.Context, req BookingRequest) (*models.Appointment, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	doctor, err := s.Doctors.GetByID(ctx, req.DocID)
	if err != nil {
		s.Metrics.ObserveBooking(req.PaymentMode, "doctor_not_found")
		return nil, doctorErr(err)
	}
	if !doctor.Available {
		s.Metrics.ObserveBooking(req.PaymentMode, "doctor_unavailable")
		return nil, ErrDoctorUnavailable
	}

	user, err := s.Users.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Validation("User not found").Wrap(err)
		}
		return nil, err
	}

	appt := &models.Appointment{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		DocID:       doctor.ID,
		UserData:    models.NewPatientSnapshot(*user),
		DocData:     models.NewDoctorSnapshot(*doctor),
		Amount:      doctor.Fees,
		SlotDate:    req.SlotDate,
		SlotTime:    req.SlotTime,
		PaymentMode: req.PaymentMode,
		CreatedAt:   s.now().UnixMilli(),
	}

	if err := s.Store.BookSlot(ctx, appt); err != nil {
		outcome := "error"
		if errors.Is(err, repository.ErrSlotTaken) {
			outcome = "slot_unavailable"
		}
		s.Metrics.ObserveBooking(req.PaymentMode, outcome)
		return nil, doctorErr(err)
	}

	s.audit(ctx, appt, models.AuditBooked, appt.UserID, appt.PaymentMode)
	s.Metrics.ObserveBooking(req.PaymentMode, "booked")
	s.Logger.Info("appointment booked", append(apptFields(appt), zap.String("paymentMode", appt.PaymentMode))...)
	return appt, nil
}

func (s *DefaultBookingService) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	if id == "" {
		return nil, Validation("Missing appointment id")
	}
	appt, err := s.Appointments.GetByID(ctx, id)
	if err != nil {
		return nil, appointmentErr(err)
	}
	return appt, nil
}

func (s *DefaultBookingService) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	return s.Doctors.GetAll(ctx)
}

func (s *DefaultBookingService) ListForUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	return s.Appointments.List(ctx, models.AppointmentFilter{UserID: userID})
}

func (s *DefaultBookingService) ListForDoctor(ctx context.Context, docID string) ([]models.Appointment, error) {
	return s.Appointments.List(ctx, models.AppointmentFilter{DocID: docID})
}

func (s *DefaultBookingService) ListAll(ctx context.Context) ([]models.Appointment, error) {
	return s.Appointments.List(ctx, models.AppointmentFilter{})
}
