package routes

import (
	"net/http"

	"drivehire/internal/handlers"
	"drivehire/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything Setup needs to mount the API.
type Handlers struct {
	Booking      *handlers.BookingHandler
	Presence     *handlers.PresenceHandler
	Verification *handlers.VerificationHandler
	Dispute      *handlers.DisputeHandler
	Settings     *handlers.SettingsHandler
	WS           *handlers.WSHandler
	HealthCheck  func() map[string]string
}

// Setup mounts the full API surface under /api/v1 plus the health and
// websocket endpoints.
func Setup(router *gin.Engine, jwtSecret string, h *Handlers) {
	router.GET("/health", func(c *gin.Context) {
		checks := map[string]string{}
		if h.HealthCheck != nil {
			checks = h.HealthCheck()
		}
		status := http.StatusOK
		for _, v := range checks {
			if v != "ok" {
				status = http.StatusServiceUnavailable
			}
		}
		c.JSON(status, gin.H{"status": "up", "checks": checks})
	})

	router.GET("/ws", middleware.AuthRequired(jwtSecret), h.WS.Connect)

	v1 := router.Group("/api/v1")

	SetupBookingRoutes(v1, jwtSecret, h.Booking)
	SetupPresenceRoutes(v1, jwtSecret, h.Presence)
	SetupVerificationRoutes(v1, jwtSecret, h.Verification)
	SetupDisputeRoutes(v1, jwtSecret, h.Dispute)
	SetupSettingsRoutes(v1, jwtSecret, h.Settings)
}
