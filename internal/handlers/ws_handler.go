package handlers

import (
	"drivehire/internal/middleware"
	"drivehire/internal/utils"
	"drivehire/pkg/realtime"

	"github.com/gin-gonic/gin"
)

type WSHandler struct {
	hub *realtime.Hub
}

func NewWSHandler(hub *realtime.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Connect upgrades the request to a websocket subscribed to the caller's
// personal room (and the admin firehose for admins).
func (h *WSHandler) Connect(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	if err := realtime.ServeWS(h.hub, c.Writer, c.Request, actor.ID, string(actor.Role)); err != nil {
		utils.BadRequestResponse(c, "Websocket upgrade failed")
		return
	}
}
