package handlers

import (
	"medipulse/models"
	"medipulse/services/booking"
	"medipulse/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler serves the patient appointment endpoints.
type UserHandler struct {
	Bookings booking.BookingService
	Resp     utils.Responder
}

type bookRequest struct {
	UserID      string `json:"userId"`
	DocID       string `json:"docId" binding:"required"`
	SlotDate    string `json:"slotDate" binding:"required,slotdate"`
	SlotTime    string `json:"slotTime" binding:"required,slottime"`
	PaymentMode string `json:"paymentMode" binding:"omitempty,oneof=offline online"`
}

// BookAppointment books a slot. Online bookings should go through the payment
// endpoints; here they are recorded unpaid like an offline booking.
func (h *UserHandler) BookAppointment(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		getLogger(c).Debug("invalid book-appointment body", zap.Error(err))
		h.Resp.Fail(c, bindError)
		return
	}
	if err := checkBodyUser(c, req.UserID); err != nil {
		h.Resp.Fail(c, err)
		return
	}

	appt, err := h.Bookings.Book(c.Request.Context(), booking.BookingRequest{
		UserID:      actorFrom(c).ID,
		DocID:       req.DocID,
		SlotDate:    req.SlotDate,
		SlotTime:    req.SlotTime,
		PaymentMode: req.PaymentMode,
	})
	if err != nil {
		h.Resp.Fail(c, err)
		return
	}
	h.Resp.OK(c, "Appointment Booked", gin.H{"appointmentId": appt.ID})
}

func (h *UserHandler) CancelAppointment(c *gin.Context) {
	cancelAppointment(c, h.Bookings, h.Resp)
}

func (h *UserHandler) ListAppointments(c *gin.Context) {
	appts, err := h.Bookings.ListForUser(c.Request.Context(), actorFrom(c).ID)
	respondList(c, h.Resp, appts, err)
}

// DoctorHandler serves the doctor's view of their appointments.
type DoctorHandler struct {
	Bookings booking.BookingService
	Resp     utils.Responder
}

func (h *DoctorHandler) ListAppointments(c *gin.Context) {
	appts, err := h.Bookings.ListForDoctor(c.Request.Context(), actorFrom(c).ID)
	respondList(c, h.Resp, appts, err)
}

func (h *DoctorHandler) CancelAppointment(c *gin.Context) {
	cancelAppointment(c, h.Bookings, h.Resp)
}

func (h *DoctorHandler) CompleteAppointment(c *gin.Context) {
	completeAppointment(c, h.Bookings, h.Resp)
}

// AdminHandler encapsulates elevated admin-level operations.
type AdminHandler struct {
	Bookings booking.BookingService
	Resp     utils.Responder
}

func (h *AdminHandler) ListAppointments(c *gin.Context) {
	appts, err := h.Bookings.ListAll(c.Request.Context())
	respondList(c, h.Resp, appts, err)
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	dash, err := h.Bookings.Dashboard(c.Request.Context())
	if err != nil {
		h.Resp.Fail(c, err)
		return
	}
	h.Resp.OK(c, "", gin.H{"dashData": dash})
}

func (h *AdminHandler) CancelAppointment(c *gin.Context) {
	cancelAppointment(c, h.Bookings, h.Resp)
}

func (h *AdminHandler) CompleteAppointment(c *gin.Context) {
	completeAppointment(c, h.Bookings, h.Resp)
}

// MarkPaid records a cash payment taken at the clinic.
func (h *AdminHandler) MarkPaid(c *gin.Context) {
	var req appointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Resp.Fail(c, bindError)
		return
	}
	if _, err := h.Bookings.MarkPaid(c.Request.Context(), actorFrom(c), req.AppointmentID); err != nil {
		h.Resp.Fail(c, err)
		return
	}
	h.Resp.OK(c, "Appointment marked as paid", nil)
}

// SettleCompleted runs the completed-appointment settlement pass on demand.
func (h *AdminHandler) SettleCompleted(c *gin.Context) {
	report, err := h.Bookings.SettleCompleted(c.Request.Context())
	if err != nil {
		h.Resp.Fail(c, err)
		return
	}
	h.Resp.OK(c, "Settlement complete", gin.H{"report": report})
}

func cancelAppointment(c *gin.Context, bookings booking.BookingService, resp utils.Responder) {
	var req appointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c, bindError)
		return
	}
	if err := checkBodyUser(c, req.UserID); err != nil {
		resp.Fail(c, err)
		return
	}
	if _, err := bookings.Cancel(c.Request.Context(), actorFrom(c), req.AppointmentID); err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, "Appointment Cancelled", nil)
}

func completeAppointment(c *gin.Context, bookings booking.BookingService, resp utils.Responder) {
	var req appointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c, bindError)
		return
	}
	if _, err := bookings.Complete(c.Request.Context(), actorFrom(c), req.AppointmentID); err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, "Appointment Completed", nil)
}

func respondList(c *gin.Context, resp utils.Responder, appts []models.Appointment, err error) {
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, "", gin.H{"appointments": appts})
}
