package handlers

import (
	"encoding/base64"

	"drivehire/internal/middleware"
	"drivehire/internal/services"
	"drivehire/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VerificationHandler struct {
	verificationService services.VerificationService
}

func NewVerificationHandler(verificationService services.VerificationService) *VerificationHandler {
	return &VerificationHandler{
		verificationService: verificationService,
	}
}

type submitVerificationBody struct {
	NIN         string `json:"nin" binding:"required"`
	PhotoBase64 string `json:"photo" binding:"required"`
}

type reviewBody struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes"`
}

// Submit runs one identity-match attempt for the calling client
func (h *VerificationHandler) Submit(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var body submitVerificationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	photo, err := base64.StdEncoding.DecodeString(body.PhotoBase64)
	if err != nil {
		utils.BadRequestResponse(c, "Photo must be base64 encoded")
		return
	}

	result, err := h.verificationService.SubmitVerification(c.Request.Context(), actor, &services.SubmitVerificationRequest{
		NIN:   body.NIN,
		Photo: photo,
	})
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Verification attempt processed", result)
}

// Status returns the caller's verification state
func (h *VerificationHandler) Status(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	clientID := actor.ID
	if idParam := c.Param("id"); idParam != "" {
		parsed, err := primitive.ObjectIDFromHex(idParam)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid client ID")
			return
		}
		clientID = parsed
	}

	record, err := h.verificationService.GetStatus(c.Request.Context(), actor, clientID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Verification status retrieved", record)
}

// Review resolves a locked verification manually (admin)
func (h *VerificationHandler) Review(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	clientID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid client ID")
		return
	}

	var body reviewBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	record, err := h.verificationService.Review(c.Request.Context(), actor, clientID, body.Approve, body.Notes)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Verification reviewed", record)
}

// Flag routes a client's record into the manual review queue (admin)
func (h *VerificationHandler) Flag(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	clientID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid client ID")
		return
	}

	var body reasonRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	record, err := h.verificationService.FlagForReview(c.Request.Context(), actor, clientID, body.Reason)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Verification flagged for review", record)
}

// Unlock resets a locked client's attempt counter (admin)
func (h *VerificationHandler) Unlock(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	clientID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid client ID")
		return
	}

	var body reasonRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	record, err := h.verificationService.Unlock(c.Request.Context(), actor, clientID, body.Reason)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Verification unlocked", record)
}

// ListPending lists records awaiting manual review (admin)
func (h *VerificationHandler) ListPending(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)
	records, total, err := h.verificationService.ListPendingReview(c.Request.Context(), actor, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Pending verifications retrieved", records, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// ListAttempts returns a client's attempt audit trail (admin)
func (h *VerificationHandler) ListAttempts(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	clientID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid client ID")
		return
	}

	params := utils.GetPaginationParams(c)
	attempts, total, err := h.verificationService.ListAttempts(c.Request.Context(), actor, clientID, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Verification attempts retrieved", attempts, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}
