package models

// Provider-side payment intent statuses the core reacts to.
const (
	IntentSucceeded             = "succeeded"
	IntentRequiresPaymentMethod = "requires_payment_method"
	IntentRequiresConfirmation  = "requires_confirmation"
	IntentRequiresAction        = "requires_action"
	IntentProcessing            = "processing"
	IntentCanceled              = "canceled"
)

// PaymentIntent is the local view of a provider charge handle.
type PaymentIntent struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"clientSecret"`
	Amount       int64             `json:"amount"` // minor currency units
	Currency     string            `json:"currency"`
	Status       string            `json:"status"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Reusable reports whether the intent can still be completed by the client,
// so handing it out again does not open a second charge.
func (pi *PaymentIntent) Reusable() bool {
	switch pi.Status {
	case IntentRequiresPaymentMethod, IntentRequiresConfirmation, IntentRequiresAction, IntentProcessing:
		return true
	}
	return false
}

// PaymentRequest describes a charge to open for one appointment.
type PaymentRequest struct {
	AppointmentID string
	UserID        string
	DocID         string
	DoctorName    string
	PatientName   string
	Amount        int64
	Currency      string
	Description   string
}

// PaymentHandle is what the client needs to finish a charge out of band.
type PaymentHandle struct {
	ClientSecret    string `json:"clientSecret"`
	AppointmentID   string `json:"appointmentId"`
	PaymentIntentID string `json:"paymentIntentId"`
	Reused          bool   `json:"reused,omitempty"`
}
