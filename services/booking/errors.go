package booking

import (
	"errors"
	"fmt"
	"net/http"

	"medipulse/database/repository"
)

// Error is a booking failure with the message clients see and the status it maps to.
type Error struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Code so wrapped copies still compare equal to the sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func (e *Error) HTTPStatus() int       { return e.Status }
func (e *Error) ClientMessage() string { return e.Message }

// Wrap returns a copy of e carrying cause.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

// WithMessage returns a copy of e with a different client message.
func (e *Error) WithMessage(msg string) *Error {
	cp := *e
	cp.Message = msg
	return &cp
}

var (
	ErrDoctorNotFound       = &Error{Code: "DoctorNotFound", Message: "Doctor not found", Status: http.StatusNotFound}
	ErrDoctorUnavailable    = &Error{Code: "DoctorUnavailable", Message: "Doctor Not Available", Status: http.StatusConflict}
	ErrSlotUnavailable      = &Error{Code: "SlotUnavailable", Message: "Slot Not Available", Status: http.StatusConflict}
	ErrAppointmentNotFound  = &Error{Code: "AppointmentNotFound", Message: "Appointment not found", Status: http.StatusNotFound}
	ErrAlreadyPaid          = &Error{Code: "AlreadyPaid", Message: "Appointment already paid", Status: http.StatusConflict}
	ErrAppointmentCancelled = &Error{Code: "AppointmentCancelled", Message: "Appointment is cancelled", Status: http.StatusConflict}
	ErrAppointmentCompleted = &Error{Code: "AppointmentCompleted", Message: "Appointment is already completed", Status: http.StatusConflict}
	ErrForbidden            = &Error{Code: "Forbidden", Message: "Unauthorized action", Status: http.StatusForbidden}
	ErrPaymentProvider      = &Error{Code: "PaymentProviderError", Message: "Payment provider error", Status: http.StatusBadGateway}
	ErrPaymentFailed        = &Error{Code: "PaymentFailed", Message: "Payment verification failed", Status: http.StatusPaymentRequired}
	ErrValidation           = &Error{Code: "ValidationError", Message: "Invalid request", Status: http.StatusBadRequest}
)

// Validation builds a ValidationError with msg as the client message.
func Validation(msg string) *Error {
	return ErrValidation.WithMessage(msg)
}

// doctorErr translates repository errors from doctor lookups and ledger writes.
func doctorErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrDoctorNotFound.Wrap(err)
	case errors.Is(err, repository.ErrSlotTaken):
		return ErrSlotUnavailable.Wrap(err)
	}
	return err
}

func appointmentErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrAppointmentNotFound.Wrap(err)
	}
	return err
}
