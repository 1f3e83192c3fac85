package handlers

import (
	"drivehire/internal/middleware"
	"drivehire/internal/services"
	"drivehire/internal/utils"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsService services.SettingsService
}

func NewSettingsHandler(settingsService services.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// Get returns the settings version currently in effect
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsService.GetCurrent(c.Request.Context())
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Platform settings retrieved", settings)
}

// Update inserts the next settings version (admin)
func (h *SettingsHandler) Update(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request services.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), actor, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Platform settings updated", settings)
}
