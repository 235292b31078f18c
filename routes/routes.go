package routes

import (
	"net/http"
	"time"

	"casaluna/config"
	"casaluna/handlers"
	"casaluna/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers wired in main.
type HandlerBundle struct {
	Availability *handlers.AvailabilityHandler
	Reservation  *handlers.ReservationHandler
	Payment      *handlers.PaymentHandler
	Calendar     *handlers.CalendarHandler
	Admin        *handlers.AdminHandler
}

// RegisterBookingRoutes registers the guest-facing booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/availability", hb.Availability.CheckAvailability)
		api.POST("/quote", hb.Availability.Quote)
		api.POST("/reservations", hb.Reservation.Create)
		api.GET("/reservations/by-reference/:reference", hb.Reservation.GetByReference)
		api.POST("/reservations/:id/cancel", hb.Reservation.Cancel)
	}
}

// RegisterPaymentRoutes registers both provider confirmation endpoints.
// The Stripe webhook must see the raw request body, so it sits outside any
// body-consuming middleware.
func RegisterPaymentRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/payments")
	{
		api.POST("/stripe/webhook", hb.Payment.StripeWebhook)
		api.POST("/paypal/capture", hb.Payment.PayPalCapture)
	}
}

// RegisterCalendarRoute exposes the outbound occupancy feed.
func RegisterCalendarRoute(r *gin.Engine, hb *HandlerBundle) {
	r.GET("/calendar.ics", hb.Calendar.Export)
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.AdminAuthMiddleware(config.AppConfig.AdminToken))
		adminGroup.GET("/reservations", hb.Admin.ListReservations)
		adminGroup.DELETE("/reservations/:id", hb.Admin.CancelReservation)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "property": config.AppConfig.PropertyName})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterCalendarRoute(r, hb)
	RegisterAdminRoutes(r, hb)
}
