package routes

import (
	"drivehire/internal/handlers"
	"drivehire/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupDisputeRoutes wires dispute reporting and admin resolution.
func SetupDisputeRoutes(r *gin.RouterGroup, jwtSecret string, disputeHandler *handlers.DisputeHandler) {
	disputes := r.Group("/disputes")
	disputes.Use(middleware.AuthRequired(jwtSecret))
	{
		disputes.POST("", disputeHandler.Open)
		disputes.GET("/:id", disputeHandler.Get)
		disputes.GET("/booking/:id", disputeHandler.ListForBooking)
	}

	admin := r.Group("/admin/disputes")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.GET("", disputeHandler.ListByStatus)
		admin.PUT("/:id", disputeHandler.Update)
	}
}
