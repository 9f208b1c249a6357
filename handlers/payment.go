package handlers

import (
	"medipulse/models"
	"medipulse/services/payment"
	"medipulse/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler serves the online payment endpoints for patients.
type PaymentHandler struct {
	Payments payment.PaymentService
	Resp     utils.Responder
}

type createIntentRequest struct {
	UserID   string `json:"userId"`
	DocID    string `json:"docId" binding:"required"`
	SlotDate string `json:"slotDate" binding:"required,slotdate"`
	SlotTime string `json:"slotTime" binding:"required,slottime"`
}

type verifyPaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId" binding:"required"`
	AppointmentID   string `json:"appointmentId" binding:"required"`
}

// CreatePaymentIntent books the slot online and returns the charge handle.
func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	var req createIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		getLogger(c).Debug("invalid create-payment-intent body", zap.Error(err))
		h.Resp.Fail(c, bindError)
		return
	}
	if err := checkBodyUser(c, req.UserID); err != nil {
		h.Resp.Fail(c, err)
		return
	}

	handle, err := h.Payments.CreatePaymentIntent(c.Request.Context(), payment.IntentRequest{
		UserID:   actorFrom(c).ID,
		DocID:    req.DocID,
		SlotDate: req.SlotDate,
		SlotTime: req.SlotTime,
	})
	if err != nil {
		h.Resp.Fail(c, err)
		return
	}
	h.Resp.OK(c, "Payment intent created successfully", handleBody(handle))
}

// VerifyPayment reconciles an appointment with the final status of its intent.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Resp.Fail(c, bindError)
		return
	}

	if _, err := h.Payments.VerifyPayment(c.Request.Context(), actorFrom(c).ID, req.PaymentIntentID, req.AppointmentID); err != nil {
		h.Resp.Fail(c, err)
		return
	}
	h.Resp.OK(c, "Payment verified and appointment confirmed", nil)
}

// PayAppointment opens a charge for an existing unpaid appointment.
func (h *PaymentHandler) PayAppointment(c *gin.Context) {
	var req appointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Resp.Fail(c, bindError)
		return
	}

	handle, err := h.Payments.PayForAppointment(c.Request.Context(), actorFrom(c).ID, req.AppointmentID)
	if err != nil {
		h.Resp.Fail(c, err)
		return
	}
	h.Resp.OK(c, "Payment intent created successfully", handleBody(handle))
}

func handleBody(h *models.PaymentHandle) gin.H {
	return gin.H{
		"clientSecret":    h.ClientSecret,
		"appointmentId":   h.AppointmentID,
		"paymentIntentId": h.PaymentIntentID,
	}
}
