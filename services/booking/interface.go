package booking

import (
	"context"
	"time"

	appointmentRepo "medipulse/database/repository/appointment"
	auditRepo "medipulse/database/repository/audit"
	doctorRepo "medipulse/database/repository/doctor"
	schedulerRepo "medipulse/database/repository/scheduler"
	userRepo "medipulse/database/repository/user"
	"medipulse/metrics"
	"medipulse/models"

	"go.uber.org/zap"
)

// BookingService is the appointment core: slot ledger, booking and the appointment lifecycle.
type BookingService interface {
	// Slot ledger
	IsAvailable(ctx context.Context, docID, date, slotTime string) (bool, error)
	Reserve(ctx context.Context, docID, date, slotTime string) error
	Release(ctx context.Context, docID, date, slotTime string) error
	OpenSlots(ctx context.Context, docID, date string) ([]string, error)

	Book(ctx context.Context, req BookingRequest) (*models.Appointment, error)
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)

	// Lifecycle
	Cancel(ctx context.Context, actor Actor, appointmentID string) (*models.Appointment, error)
	Complete(ctx context.Context, actor Actor, appointmentID string) (*models.Appointment, error)
	MarkPaid(ctx context.Context, actor Actor, appointmentID string) (*models.Appointment, error)
	ConfirmPayment(ctx context.Context, appointmentID, intentID string) (*models.Appointment, error)
	CancelForFailedPayment(ctx context.Context, appointmentID, detail string) (bool, error)
	RollbackBooking(ctx context.Context, appt *models.Appointment, reason string) error
	SettleCompleted(ctx context.Context) (SettlementReport, error)

	ListDoctors(ctx context.Context) ([]models.Doctor, error)

	// Listings, newest first
	ListForUser(ctx context.Context, userID string) ([]models.Appointment, error)
	ListForDoctor(ctx context.Context, docID string) ([]models.Appointment, error)
	ListAll(ctx context.Context) ([]models.Appointment, error)

	PublicStats(ctx context.Context) (PublicStats, error)
	Dashboard(ctx context.Context) (Dashboard, error)
}

// DefaultBookingService implements BookingService over the repositories.
type DefaultBookingService struct {
	Doctors      doctorRepo.DoctorRepository
	Users        userRepo.UserRepository
	Appointments appointmentRepo.AppointmentRepository
	Audit        auditRepo.AuditRepository
	Store        schedulerRepo.BookingStore
	Metrics      *metrics.BookingMetrics
	Logger       *zap.Logger

	// Now and Location drive the open-slot grid; tests pin both.
	Now      func() time.Time
	Location *time.Location
}

// Repositories groups the storage a DefaultBookingService needs.
type Repositories struct {
	Doctors      doctorRepo.DoctorRepository
	Users        userRepo.UserRepository
	Appointments appointmentRepo.AppointmentRepository
	Audit        auditRepo.AuditRepository
	Store        schedulerRepo.BookingStore
}

func NewBookingService(repos Repositories, m *metrics.BookingMetrics, logger *zap.Logger) *DefaultBookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultBookingService{
		Doctors:      repos.Doctors,
		Users:        repos.Users,
		Appointments: repos.Appointments,
		Audit:        repos.Audit,
		Store:        repos.Store,
		Metrics:      m,
		Logger:       logger,
		Now:          time.Now,
		Location:     time.Local,
	}
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultBookingService) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.Local
}

// audit records entry and only logs on failure; history never blocks a transition.
func (s *DefaultBookingService) audit(ctx context.Context, appt *models.Appointment, action, actor, detail string) {
	if s.Audit == nil {
		return
	}
	entry := &models.AuditEntry{
		AppointmentID: appt.ID,
		Action:        action,
		Actor:         actor,
		Detail:        detail,
		At:            s.now(),
	}
	if err := s.Audit.Record(ctx, entry); err != nil {
		s.Logger.Error("failed to record audit entry",
			zap.String("appointmentId", appt.ID),
			zap.String("action", action),
			zap.Error(err))
	}
}

func apptFields(appt *models.Appointment) []zap.Field {
	return []zap.Field{
		zap.String("appointmentId", appt.ID),
		zap.String("docId", appt.DocID),
		zap.String("slotDate", appt.SlotDate),
		zap.String("slotTime", appt.SlotTime),
	}
}
