package services

import (
	"context"
	"time"

	"drivehire/internal/models"
	"drivehire/internal/repositories/interfaces"
	"drivehire/internal/utils"
	"drivehire/pkg/logger"
	"drivehire/pkg/realtime"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DisputeService handles complaints raised against a booking and their
// admin-driven resolution. Overrides on the booking itself go through the
// booking service; a dispute only tracks the investigation.
type DisputeService interface {
	OpenDispute(ctx context.Context, actor models.Actor, req *OpenDisputeRequest) (*models.Dispute, error)
	UpdateDispute(ctx context.Context, actor models.Actor, disputeID primitive.ObjectID, req *UpdateDisputeRequest) (*models.Dispute, error)
	GetDispute(ctx context.Context, actor models.Actor, disputeID primitive.ObjectID) (*models.Dispute, error)
	GetBookingDisputes(ctx context.Context, actor models.Actor, bookingID primitive.ObjectID) ([]*models.Dispute, error)
	ListByStatus(ctx context.Context, actor models.Actor, status models.DisputeStatus, params *utils.PaginationParams) ([]*models.Dispute, int64, error)
	ListOpenHighPriority(ctx context.Context, actor models.Actor, params *utils.PaginationParams) ([]*models.Dispute, int64, error)
}

type OpenDisputeRequest struct {
	BookingID   primitive.ObjectID     `json:"booking_id" binding:"required"`
	Subject     string                 `json:"subject" binding:"required"`
	Description string                 `json:"description"`
	Priority    models.DisputePriority `json:"priority"`
}

type UpdateDisputeRequest struct {
	Status     models.DisputeStatus `json:"status"`
	AssignedTo *primitive.ObjectID  `json:"assigned_to"`
	Resolution string               `json:"resolution"`
	AdminNotes string               `json:"admin_notes"`
}

type disputeService struct {
	disputeRepo interfaces.DisputeRepository
	bookingRepo interfaces.BookingRepository
	auditRepo   interfaces.AuditLogRepository
	publisher   RealtimePublisher
	logger      *logger.Logger
}

func NewDisputeService(
	disputeRepo interfaces.DisputeRepository,
	bookingRepo interfaces.BookingRepository,
	auditRepo interfaces.AuditLogRepository,
	publisher RealtimePublisher,
	logger *logger.Logger,
) DisputeService {
	return &disputeService{
		disputeRepo: disputeRepo,
		bookingRepo: bookingRepo,
		auditRepo:   auditRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

func (s *disputeService) OpenDispute(ctx context.Context, actor models.Actor, req *OpenDisputeRequest) (*models.Dispute, error) {
	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	switch {
	case actor.IsAdmin():
	case actor.IsClient() && booking.ClientID == actor.ID:
	case actor.IsDriver() && booking.DriverID == actor.ID:
	default:
		return nil, utils.NewUnauthorizedError("only a party to the booking can open a dispute")
	}

	if req.Subject == "" {
		return nil, utils.NewValidationError("dispute subject is required")
	}

	priority := req.Priority
	if priority == "" {
		priority = models.DisputePriorityMedium
	}

	dispute := &models.Dispute{
		DisputeNumber: utils.GenerateDisputeNumber(),
		BookingID:     booking.ID,
		ReporterID:    actor.ID,
		ReporterRole:  actor.Role,
		Status:        models.DisputeStatusOpen,
		Priority:      priority,
		Subject:       req.Subject,
		Description:   req.Description,
	}

	if err := s.disputeRepo.Create(ctx, dispute); err != nil {
		return nil, err
	}

	s.logger.WithBookingID(booking.ID).WithFields(map[string]interface{}{
		"dispute_number": dispute.DisputeNumber,
		"priority":       string(priority),
		"reporter_role":  string(actor.Role),
	}).Info("Dispute opened")

	if s.publisher != nil {
		s.publisher.Publish(realtime.Event{
			Type:       "dispute_opened",
			Resource:   "dispute",
			ResourceID: dispute.ID.Hex(),
			RoomID:     realtime.AdminRoom,
			Timestamp:  time.Now().Unix(),
			Data: map[string]interface{}{
				"dispute_number": dispute.DisputeNumber,
				"priority":       string(priority),
			},
		})
	}

	return dispute, nil
}

func (s *disputeService) UpdateDispute(ctx context.Context, actor models.Actor, disputeID primitive.ObjectID, req *UpdateDisputeRequest) (*models.Dispute, error) {
	if !actor.IsAdmin() {
		return nil, utils.NewUnauthorizedError("admin role required")
	}

	dispute, err := s.disputeRepo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}

	extra := map[string]interface{}{}
	if req.AssignedTo != nil {
		extra["assigned_to"] = *req.AssignedTo
	}
	if req.Resolution != "" {
		extra["resolution"] = req.Resolution
	}
	if req.AdminNotes != "" {
		extra["admin_notes"] = req.AdminNotes
	}

	if req.Status == "" || req.Status == dispute.Status {
		if len(extra) > 0 {
			if err := s.disputeRepo.Update(ctx, disputeID, extra); err != nil {
				return nil, err
			}
		}
		return s.disputeRepo.GetByID(ctx, disputeID)
	}

	if !dispute.CanTransitionTo(req.Status) {
		return nil, utils.NewConflictError("dispute cannot move from %s to %s", dispute.Status, req.Status)
	}
	if req.Status == models.DisputeStatusResolved && req.Resolution == "" {
		return nil, utils.NewValidationError("a resolution is required to resolve a dispute")
	}

	if req.Status == models.DisputeStatusResolved || req.Status == models.DisputeStatusClosed {
		extra["resolved_at"] = time.Now()
	}

	won, err := s.disputeRepo.TransitionStatus(ctx, disputeID, dispute.Status, req.Status, extra)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, utils.NewConflictError("dispute status changed concurrently")
	}

	s.audit(ctx, actor, disputeID, dispute.Status, req.Status, req.Resolution)

	return s.disputeRepo.GetByID(ctx, disputeID)
}

func (s *disputeService) GetDispute(ctx context.Context, actor models.Actor, disputeID primitive.ObjectID) (*models.Dispute, error) {
	dispute, err := s.disputeRepo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && dispute.ReporterID != actor.ID {
		return nil, utils.NewUnauthorizedError("cannot read another party's dispute")
	}
	return dispute, nil
}

func (s *disputeService) GetBookingDisputes(ctx context.Context, actor models.Actor, bookingID primitive.ObjectID) ([]*models.Dispute, error) {
	if !actor.IsAdmin() {
		booking, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if booking.ClientID != actor.ID && booking.DriverID != actor.ID {
			return nil, utils.NewUnauthorizedError("actor is not a party to this booking")
		}
	}
	return s.disputeRepo.GetByBooking(ctx, bookingID)
}

func (s *disputeService) ListByStatus(ctx context.Context, actor models.Actor, status models.DisputeStatus, params *utils.PaginationParams) ([]*models.Dispute, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, utils.NewUnauthorizedError("admin role required")
	}
	return s.disputeRepo.GetByStatus(ctx, status, params)
}

func (s *disputeService) ListOpenHighPriority(ctx context.Context, actor models.Actor, params *utils.PaginationParams) ([]*models.Dispute, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, utils.NewUnauthorizedError("admin role required")
	}
	return s.disputeRepo.GetOpenHighPriority(ctx, params)
}

func (s *disputeService) audit(ctx context.Context, actor models.Actor, disputeID primitive.ObjectID, from, to models.DisputeStatus, resolution string) {
	entry := &models.AuditLog{
		AdminID:    actor.ID,
		Action:     models.AuditActionDisputeUpdate,
		Resource:   "dispute",
		ResourceID: disputeID.Hex(),
		Reason:     resolution,
		Metadata: map[string]interface{}{
			"from": string(from),
			"to":   string(to),
		},
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.WithError(err).Error("Failed to write audit log entry")
	}
	s.logger.LogAuditEvent(actor.ID, string(models.AuditActionDisputeUpdate), "dispute", map[string]interface{}{
		"dispute_id": disputeID.Hex(),
		"from":       string(from),
		"to":         string(to),
	})
}
