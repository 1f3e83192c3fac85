package routes

import (
	"drivehire/internal/handlers"
	"drivehire/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupSettingsRoutes wires the versioned platform settings endpoints.
func SetupSettingsRoutes(r *gin.RouterGroup, jwtSecret string, settingsHandler *handlers.SettingsHandler) {
	settings := r.Group("/settings")
	settings.Use(middleware.AuthRequired(jwtSecret))
	{
		settings.GET("", settingsHandler.Get)
	}

	admin := r.Group("/admin/settings")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.PUT("", settingsHandler.Update)
	}
}
