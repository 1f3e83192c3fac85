package handlers

import (
	"context"

	"drivehire/internal/middleware"
	"drivehire/internal/models"
	"drivehire/internal/services"
	"drivehire/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingHandler struct {
	bookingService    services.BookingService
	settlementService services.SettlementService
}

func NewBookingHandler(bookingService services.BookingService, settlementService services.SettlementService) *BookingHandler {
	return &BookingHandler{
		bookingService:    bookingService,
		settlementService: settlementService,
	}
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

type forceCancelRequest struct {
	Reason string `json:"reason"`
	Refund bool   `json:"refund"`
}

// CreateBooking creates a booking against a chosen driver
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request services.CreateBookingRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), actor, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Booking created successfully", booking)
}

// AcceptBooking lets the assigned driver take the booking
func (h *BookingHandler) AcceptBooking(c *gin.Context) {
	h.transition(c, h.bookingService.AcceptBooking, "Booking accepted")
}

// StartBooking moves an accepted booking into progress
func (h *BookingHandler) StartBooking(c *gin.Context) {
	h.transition(c, h.bookingService.StartBooking, "Booking started")
}

// ConfirmCompletion records one party's completion confirmation
func (h *BookingHandler) ConfirmCompletion(c *gin.Context) {
	h.transition(c, h.bookingService.ConfirmCompletion, "Completion confirmed")
}

// RejectBooking lets the assigned driver decline a pending booking
func (h *BookingHandler) RejectBooking(c *gin.Context) {
	h.transitionWithReason(c, h.bookingService.RejectBooking, "Booking rejected")
}

// CancelBooking lets the client cancel before the trip starts
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	h.transitionWithReason(c, h.bookingService.CancelBooking, "Booking cancelled")
}

// DeclineCompletion lets the client dispute the driver's completion claim
func (h *BookingHandler) DeclineCompletion(c *gin.Context) {
	h.transitionWithReason(c, h.bookingService.DeclineCompletion, "Completion declined")
}

// ForceComplete is the admin override to terminal completed
func (h *BookingHandler) ForceComplete(c *gin.Context) {
	h.transitionWithReason(c, h.bookingService.ForceComplete, "Booking force-completed")
}

// ForceCancel is the admin override to terminal cancelled. The refund
// flag decides whether the payment is unwound or left in place.
func (h *BookingHandler) ForceCancel(c *gin.Context) {
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

	var request forceCancelRequest
	if err := c.ShouldBindJSON(&request); err != nil && err.Error() != "EOF" {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	booking, err := h.bookingService.ForceCancel(c.Request.Context(), actor, bookingID, request.Reason, request.Refund)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking force-cancelled", booking)
}

// GetBooking retrieves booking details
func (h *BookingHandler) GetBooking(c *gin.Context) {
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

	booking, err := h.bookingService.GetBooking(c.Request.Context(), actor, bookingID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking retrieved", booking)
}

// GetSettlement retrieves the settlement for a completed booking
func (h *BookingHandler) GetSettlement(c *gin.Context) {
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

	// Access control rides on the booking lookup.
	if _, err := h.bookingService.GetBooking(c.Request.Context(), actor, bookingID); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	settlement, err := h.settlementService.GetByBookingID(c.Request.Context(), bookingID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Settlement retrieved", settlement)
}

// ListMyBookings returns the caller's booking history
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)

	var (
		bookings []*models.Booking
		total    int64
		err      error
	)
	if actor.IsDriver() {
		bookings, total, err = h.bookingService.GetDriverBookings(c.Request.Context(), actor.ID, params)
	} else {
		bookings, total, err = h.bookingService.GetClientBookings(c.Request.Context(), actor.ID, params)
	}
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Bookings retrieved", bookings, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// ListByStatus returns bookings in a given status (admin)
func (h *BookingHandler) ListByStatus(c *gin.Context) {
	status := models.BookingStatus(c.Query("status"))
	switch status {
	case models.BookingStatusPending, models.BookingStatusAccepted, models.BookingStatusOngoing,
		models.BookingStatusCompleted, models.BookingStatusCancelled:
	default:
		utils.BadRequestResponse(c, "Invalid booking status")
		return
	}

	params := utils.GetPaginationParams(c)
	bookings, total, err := h.bookingService.GetBookingsByStatus(c.Request.Context(), status, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Bookings retrieved", bookings, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// RetryPayouts re-attempts failed driver payouts (admin)
func (h *BookingHandler) RetryPayouts(c *gin.Context) {
	settled, err := h.settlementService.RetryPendingPayouts(c.Request.Context(), utils.MaxPageSize)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Payout retry finished", gin.H{"settled": settled})
}

func (h *BookingHandler) transition(c *gin.Context, op func(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*models.Booking, error), message string) {
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

	booking, err := op(c.Request.Context(), actor, bookingID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, message, booking)
}

func (h *BookingHandler) transitionWithReason(c *gin.Context, op func(ctx context.Context, actor models.Actor, id primitive.ObjectID, reason string) (*models.Booking, error), message string) {
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

	var request reasonRequest
	if err := c.ShouldBindJSON(&request); err != nil && err.Error() != "EOF" {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	booking, err := op(c.Request.Context(), actor, bookingID, request.Reason)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, message, booking)
}
