package routes

import (
	"drivehire/internal/handlers"
	"drivehire/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes wires the booking lifecycle endpoints.
func SetupBookingRoutes(r *gin.RouterGroup, jwtSecret string, bookingHandler *handlers.BookingHandler) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.AuthRequired(jwtSecret))
	{
		bookings.POST("", middleware.ClientRequired(), bookingHandler.CreateBooking)
		bookings.GET("/mine", bookingHandler.ListMyBookings)
		bookings.GET("/:id", bookingHandler.GetBooking)
		bookings.GET("/:id/settlement", bookingHandler.GetSettlement)

		// Driver transitions
		bookings.PUT("/:id/accept", middleware.DriverRequired(), bookingHandler.AcceptBooking)
		bookings.PUT("/:id/reject", middleware.DriverRequired(), bookingHandler.RejectBooking)
		bookings.PUT("/:id/start", middleware.DriverRequired(), bookingHandler.StartBooking)

		// Completion handshake, either party confirms
		bookings.PUT("/:id/confirm", bookingHandler.ConfirmCompletion)
		bookings.PUT("/:id/decline-completion", middleware.ClientRequired(), bookingHandler.DeclineCompletion)

		// Client cancellation
		bookings.PUT("/:id/cancel", middleware.ClientRequired(), bookingHandler.CancelBooking)
	}

	admin := r.Group("/admin/bookings")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.GET("", bookingHandler.ListByStatus)
		admin.PUT("/:id/force-complete", bookingHandler.ForceComplete)
		admin.PUT("/:id/force-cancel", bookingHandler.ForceCancel)
		admin.POST("/payouts/retry", bookingHandler.RetryPayouts)
	}
}
