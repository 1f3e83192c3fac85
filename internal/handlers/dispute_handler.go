package handlers

import (
	"drivehire/internal/middleware"
	"drivehire/internal/models"
	"drivehire/internal/services"
	"drivehire/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DisputeHandler struct {
	disputeService services.DisputeService
}

func NewDisputeHandler(disputeService services.DisputeService) *DisputeHandler {
	return &DisputeHandler{
		disputeService: disputeService,
	}
}

// Open raises a dispute against a booking
func (h *DisputeHandler) Open(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request services.OpenDisputeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	dispute, err := h.disputeService.OpenDispute(c.Request.Context(), actor, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Dispute opened", dispute)
}

// Update moves a dispute through its status machine (admin)
func (h *DisputeHandler) Update(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	disputeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid dispute ID")
		return
	}

	var request services.UpdateDisputeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	dispute, err := h.disputeService.UpdateDispute(c.Request.Context(), actor, disputeID, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Dispute updated", dispute)
}

// Get retrieves one dispute
func (h *DisputeHandler) Get(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	disputeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid dispute ID")
		return
	}

	dispute, err := h.disputeService.GetDispute(c.Request.Context(), actor, disputeID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Dispute retrieved", dispute)
}

// ListForBooking returns all disputes tied to one booking
func (h *DisputeHandler) ListForBooking(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid booking ID")
		return
	}

	disputes, err := h.disputeService.GetBookingDisputes(c.Request.Context(), actor, bookingID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Disputes retrieved", disputes)
}

// ListByStatus returns disputes in a given status (admin)
func (h *DisputeHandler) ListByStatus(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)

	if c.Query("priority") == string(models.DisputePriorityHigh) {
		disputes, total, err := h.disputeService.ListOpenHighPriority(c.Request.Context(), actor, params)
		if err != nil {
			utils.AppErrorResponse(c, err)
			return
		}
		utils.SuccessResponseWithMeta(c, "Disputes retrieved", disputes, &utils.Meta{
			Pagination: utils.CreatePaginationMeta(params, total),
		})
		return
	}

	status := models.DisputeStatus(c.DefaultQuery("status", string(models.DisputeStatusOpen)))
	switch status {
	case models.DisputeStatusOpen, models.DisputeStatusInvestigating,
		models.DisputeStatusResolved, models.DisputeStatusClosed:
	default:
		utils.BadRequestResponse(c, "Invalid dispute status")
		return
	}

	disputes, total, err := h.disputeService.ListByStatus(c.Request.Context(), actor, status, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Disputes retrieved", disputes, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}
