package models

import "time"

// Audit actions recorded for appointment transitions.
const (
	AuditBooked              = "booked"
	AuditPaid                = "paid"
	AuditCancelled           = "cancelled"
	AuditPaymentFailed       = "payment_failed"
	AuditCompleted           = "completed"
	AuditSettledOnCompletion = "settled_on_completion"
	AuditBookingRolledBack   = "booking_rolled_back"
)

// AuditEntry is one immutable line of an appointment's history.
type AuditEntry struct {
	ID            string    `bson:"id" json:"id"`
	AppointmentID string    `bson:"appointmentId" json:"appointmentId"`
	Action        string    `bson:"action" json:"action"`
	Actor         string    `bson:"actor" json:"actor"`
	Detail        string    `bson:"detail,omitempty" json:"detail,omitempty"`
	At            time.Time `bson:"at" json:"at"`
}
