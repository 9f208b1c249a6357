package models

// Payment modes accepted by the booking endpoints.
const (
	PaymentModeOffline = "offline"
	PaymentModeOnline  = "online"
)

// Appointment states derived from the three status flags.
const (
	StateBookedUnpaid = "booked_unpaid"
	StateBookedPaid   = "booked_paid"
	StateCancelled    = "cancelled"
	StateCompleted    = "completed"
)

// Appointment is never deleted; cancelled and completed records stay as the audit trail.
type Appointment struct {
	ID          string          `bson:"id" json:"_id"`
	UserID      string          `bson:"userId" json:"userId"`
	DocID       string          `bson:"docId" json:"docId"`
	UserData    PatientSnapshot `bson:"userData" json:"userData"`
	DocData     DoctorSnapshot  `bson:"docData" json:"docData"`
	Amount      float64         `bson:"amount" json:"amount"`
	SlotDate    string          `bson:"slotDate" json:"slotDate"`
	SlotTime    string          `bson:"slotTime" json:"slotTime"`
	PaymentMode string          `bson:"paymentMode" json:"paymentMode"`
	CreatedAt   int64           `bson:"date" json:"date"` // unix milliseconds
	Payment     bool            `bson:"payment" json:"payment"`
	Cancelled   bool            `bson:"cancelled" json:"cancelled"`
	IsCompleted bool            `bson:"isCompleted" json:"isCompleted"`
}

// State folds the flags into one lifecycle state. Completion wins over payment,
// cancellation wins over everything.
func (a *Appointment) State() string {
	switch {
	case a.Cancelled:
		return StateCancelled
	case a.IsCompleted:
		return StateCompleted
	case a.Payment:
		return StateBookedPaid
	default:
		return StateBookedUnpaid
	}
}

// AppointmentFilter narrows appointment listings. Empty fields match everything.
type AppointmentFilter struct {
	UserID string
	DocID  string
}
