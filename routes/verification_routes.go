package routes

import (
	"drivehire/internal/handlers"
	"drivehire/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupVerificationRoutes wires the identity verification endpoints.
func SetupVerificationRoutes(r *gin.RouterGroup, jwtSecret string, verificationHandler *handlers.VerificationHandler) {
	verification := r.Group("/verification")
	verification.Use(middleware.AuthRequired(jwtSecret))
	{
		verification.POST("/submit", middleware.ClientRequired(), verificationHandler.Submit)
		verification.GET("/status", verificationHandler.Status)
	}

	admin := r.Group("/admin/verification")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.GET("/pending", verificationHandler.ListPending)
		admin.GET("/:id/status", verificationHandler.Status)
		admin.GET("/:id/attempts", verificationHandler.ListAttempts)
		admin.PUT("/:id/flag", verificationHandler.Flag)
		admin.PUT("/:id/review", verificationHandler.Review)
		admin.PUT("/:id/unlock", verificationHandler.Unlock)
	}
}
