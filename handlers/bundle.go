package handlers

import (
	"medipulse/services/booking"
	"medipulse/services/payment"
	"medipulse/utils"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Signer    *utils.TokenSigner
	Responder utils.Responder

	Payment *PaymentHandler
	User    *UserHandler
	Doctor  *DoctorHandler
	Admin   *AdminHandler
	Public  *PublicHandler
}

// NewHandlerBundle wires every handler to the same services and responder.
func NewHandlerBundle(bookings booking.BookingService, payments payment.PaymentService, signer *utils.TokenSigner, health *utils.HealthMonitor, resp utils.Responder) *HandlerBundle {
	return &HandlerBundle{
		Signer:    signer,
		Responder: resp,
		Payment:   &PaymentHandler{Payments: payments, Resp: resp},
		User:      &UserHandler{Bookings: bookings, Resp: resp},
		Doctor:    &DoctorHandler{Bookings: bookings, Resp: resp},
		Admin:     &AdminHandler{Bookings: bookings, Resp: resp},
		Public:    &PublicHandler{Bookings: bookings, Health: health, Resp: resp},
	}
}
