package routes

import (
	"net/http"
	"time"

	"medipulse/handlers"
	"medipulse/middleware"
	"medipulse/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterPaymentRoutes registers the online payment endpoints.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payment")
	{
		api.Use(middleware.JWTAuth(hb.Signer, utils.RolePatient, hb.Responder))
		api.POST("/create-payment-intent", hb.Payment.CreatePaymentIntent)
		api.POST("/verify-payment", hb.Payment.VerifyPayment)
		api.POST("/pay-appointment", hb.Payment.PayAppointment)
	}
}

// RegisterUserRoutes registers patient appointment endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/user")
	{
		api.Use(middleware.JWTAuth(hb.Signer, utils.RolePatient, hb.Responder))
		api.POST("/book-appointment", hb.User.BookAppointment)
		api.POST("/cancel-appointment", hb.User.CancelAppointment)
		api.GET("/appointments", hb.User.ListAppointments)
	}
}

// RegisterDoctorRoutes registers the doctor's appointment endpoints.
func RegisterDoctorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/doctor")
	{
		api.Use(middleware.JWTAuth(hb.Signer, utils.RoleDoctor, hb.Responder))
		api.GET("/appointments", hb.Doctor.ListAppointments)
		api.POST("/cancel-appointment", hb.Doctor.CancelAppointment)
		api.POST("/complete-appointment", hb.Doctor.CompleteAppointment)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuth(hb.Signer, utils.RoleAdmin, hb.Responder))
		adminGroup.GET("/dashboard", hb.Admin.Dashboard)
		adminGroup.GET("/appointments", hb.Admin.ListAppointments)
		adminGroup.POST("/cancel-appointment", hb.Admin.CancelAppointment)
		adminGroup.POST("/complete-appointment", hb.Admin.CompleteAppointment)
		adminGroup.POST("/mark-paid", hb.Admin.MarkPaid)
		adminGroup.POST("/settle-completed", hb.Admin.SettleCompleted)
	}
}

// RegisterPublicRoutes registers unauthenticated reads.
func RegisterPublicRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/doctors", hb.Public.ListDoctors)
	// Paths used by the patient and admin clients.
	r.GET("/api/user/doctors", hb.Public.ListDoctors)
	r.GET("/api/admin/public-stats", hb.Public.Stats)
	r.GET("/api/doctors/:docId/slots", hb.Public.OpenSlots)
	r.GET("/health", hb.Public.HealthCheck)
}

// RegisterMetricsRoute exposes gatherer on /metrics.
func RegisterMetricsRoute(r *gin.Engine, gatherer prometheus.Gatherer) {
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, origins []string, gatherer prometheus.Gatherer) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "token", "dtoken", "atoken"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: !allowsAll(origins),
		MaxAge:           12 * time.Hour,
	}))
	r.Use(handlers.RequestLogger())

	RegisterPaymentRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterDoctorRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterPublicRoutes(r, hb)
	if gatherer != nil {
		RegisterMetricsRoute(r, gatherer)
	}
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, utils.ErrorResponse{Success: false, Message: "Not Found"})
	})
}

func allowsAll(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
