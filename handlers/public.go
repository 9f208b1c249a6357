package handlers

import (
	"net/http"

	"medipulse/services/booking"
	"medipulse/utils"

	"github.com/gin-gonic/gin"
)

// PublicHandler serves unauthenticated reads.
type PublicHandler struct {
	Bookings booking.BookingService
	Health   *utils.HealthMonitor
	Resp     utils.Responder
}

func (h *PublicHandler) ListDoctors(c *gin.Context) {
	doctors, err := h.Bookings.ListDoctors(c.Request.Context())
	if err != nil {
		h.Resp.Fail(c, err)
		return
	}
	h.Resp.OK(c, "", gin.H{"doctors": doctors})
}

// Stats serves the landing page counters.
func (h *PublicHandler) Stats(c *gin.Context) {
	stats, err := h.Bookings.PublicStats(c.Request.Context())
	if err != nil {
		h.Resp.Fail(c, err)
		return
	}
	h.Resp.OK(c, "", gin.H{"stats": stats})
}

// OpenSlots lists the free times of a doctor on ?date=D_M_YYYY.
func (h *PublicHandler) OpenSlots(c *gin.Context) {
	date := c.Query("date")
	slots, err := h.Bookings.OpenSlots(c.Request.Context(), c.Param("docId"), date)
	if err != nil {
		h.Resp.Fail(c, err)
		return
	}
	h.Resp.OK(c, "", gin.H{"slotDate": date, "slots": slots})
}

// HealthCheck reports the last backend check. It always uses real status codes.
func (h *PublicHandler) HealthCheck(c *gin.Context) {
	if h.Health == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	status := h.Health.Status()
	code := http.StatusOK
	label := "ok"
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
		label = "degraded"
	}
	c.JSON(code, gin.H{"status": label, "services": status})
}
