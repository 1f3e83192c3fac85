package handlers

import (
	"drivehire/internal/middleware"
	"drivehire/internal/services"
	"drivehire/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PresenceHandler struct {
	presenceService services.PresenceService
}

func NewPresenceHandler(presenceService services.PresenceService) *PresenceHandler {
	return &PresenceHandler{
		presenceService: presenceService,
	}
}

type locationReport struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
}

// GoOnline starts the driver's activation chain
func (h *PresenceHandler) GoOnline(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	if err := h.presenceService.GoOnline(c.Request.Context(), actor.ID); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Driver is online", nil)
}

// GoOffline takes the driver offline, aborting any in-flight activation
func (h *PresenceHandler) GoOffline(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	if err := h.presenceService.GoOffline(c.Request.Context(), actor.ID); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Driver is offline", nil)
}

// ReportLocation ingests a position fix from the driver's device
func (h *PresenceHandler) ReportLocation(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var report locationReport
	if err := c.ShouldBindJSON(&report); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if report.Latitude < -90 || report.Latitude > 90 || report.Longitude < -180 || report.Longitude > 180 {
		utils.BadRequestResponse(c, "Coordinates out of range")
		return
	}

	if err := h.presenceService.ReportLocation(c.Request.Context(), actor.ID, report.Latitude, report.Longitude); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Location recorded", nil)
}

// CheckEligibility reports whether a driver can currently receive bookings
func (h *PresenceHandler) CheckEligibility(c *gin.Context) {
	driverID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid driver ID")
		return
	}

	eligible, reason, err := h.presenceService.IsEligible(c.Request.Context(), driverID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Eligibility checked", gin.H{
		"eligible": eligible,
		"reason":   reason,
	})
}
