package routes

import (
	"drivehire/internal/handlers"
	"drivehire/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupPresenceRoutes wires driver availability endpoints.
func SetupPresenceRoutes(r *gin.RouterGroup, jwtSecret string, presenceHandler *handlers.PresenceHandler) {
	presence := r.Group("/presence")
	presence.Use(middleware.AuthRequired(jwtSecret), middleware.DriverRequired())
	{
		presence.PUT("/online", presenceHandler.GoOnline)
		presence.PUT("/offline", presenceHandler.GoOffline)
		presence.POST("/location", presenceHandler.ReportLocation)
	}

	drivers := r.Group("/drivers")
	drivers.Use(middleware.AuthRequired(jwtSecret))
	{
		drivers.GET("/:id/eligibility", presenceHandler.CheckEligibility)
	}
}
