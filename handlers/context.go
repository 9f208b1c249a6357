package handlers

import (
	"medipulse/middleware"
	"medipulse/services/booking"

	"github.com/gin-gonic/gin"
)

// actorFrom builds the caller identity JWTAuth put in the context.
func actorFrom(c *gin.Context) booking.Actor {
	return booking.Actor{
		ID:   c.GetString(middleware.CtxUserID),
		Role: c.GetString(middleware.CtxRole),
	}
}

// checkBodyUser rejects a body userId that names someone other than the caller.
// Older clients still send it; an empty value is fine.
func checkBodyUser(c *gin.Context, bodyUserID string) error {
	if bodyUserID != "" && bodyUserID != c.GetString(middleware.CtxUserID) {
		return booking.ErrForbidden
	}
	return nil
}

// bindError is what every handler reports for a body that fails binding.
var bindError = booking.Validation("Missing Details")

type appointmentRequest struct {
	AppointmentID string `json:"appointmentId" binding:"required"`
	UserID        string `json:"userId"`
}
