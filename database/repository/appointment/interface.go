// File: database/repository/appointment/interface.go
package appointmentRepo

import (
	"context"

	"medipulse/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AppointmentRepository persists appointment records. Status changes are
// conditional updates; the bool results report whether this call changed the record.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	// GetByID returns repository.ErrNotFound for unknown ids.
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	// List returns matching appointments, newest first.
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error)
	// MarkPaid sets payment=true. Already-paid records report false.
	MarkPaid(ctx context.Context, id string) (bool, error)
	// Cancel sets cancelled=true only on an open (not cancelled, not completed) record.
	Cancel(ctx context.Context, id string) (bool, error)
	// CancelUnpaid is Cancel restricted to records that have not been paid.
	CancelUnpaid(ctx context.Context, id string) (bool, error)
	// Complete sets isCompleted=true only on an open record.
	Complete(ctx context.Context, id string) (bool, error)
	// ListUnsettledCompleted returns completed, unpaid, non-cancelled records.
	ListUnsettledCompleted(ctx context.Context) ([]models.Appointment, error)
	// SettleCompleted sets payment=true only while the record is still completed,
	// unpaid and not cancelled.
	SettleCompleted(ctx context.Context, id string) (bool, error)
}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs an AppointmentRepository over the "appointments" collection.
func NewMongoAppointmentRepo(db *mongo.Database) AppointmentRepository {
	return &mongoAppointmentRepo{coll: db.Collection("appointments")}
}
