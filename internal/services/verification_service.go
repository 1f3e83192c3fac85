package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"drivehire/internal/models"
	"drivehire/internal/repositories/interfaces"
	"drivehire/internal/utils"
	"drivehire/pkg/identity"
	"drivehire/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ninPattern = regexp.MustCompile(`^\d{11}$`)

// VerificationService runs the identity check that gates booking: a
// client submits their national identity number plus a live photo, the
// provider returns a confidence score, and three failed matches lock the
// record until an admin intervenes.
type VerificationService interface {
	SubmitVerification(ctx context.Context, actor models.Actor, req *SubmitVerificationRequest) (*VerificationResult, error)
	GetStatus(ctx context.Context, actor models.Actor, clientID primitive.ObjectID) (*models.ClientVerification, error)

	// Admin operations
	Review(ctx context.Context, actor models.Actor, clientID primitive.ObjectID, approve bool, notes string) (*models.ClientVerification, error)
	FlagForReview(ctx context.Context, actor models.Actor, clientID primitive.ObjectID, reason string) (*models.ClientVerification, error)
	Unlock(ctx context.Context, actor models.Actor, clientID primitive.ObjectID, reason string) (*models.ClientVerification, error)
	ListPendingReview(ctx context.Context, actor models.Actor, params *utils.PaginationParams) ([]*models.ClientVerification, int64, error)
	ListAttempts(ctx context.Context, actor models.Actor, clientID primitive.ObjectID, params *utils.PaginationParams) ([]*models.VerificationAttempt, int64, error)
}

type SubmitVerificationRequest struct {
	NIN   string `json:"nin" binding:"required"`
	Photo []byte `json:"photo" binding:"required"`
}

type VerificationResult struct {
	State             models.VerificationState `json:"state"`
	Verified          bool                     `json:"verified"`
	Confidence        float64                  `json:"confidence"`
	Threshold         float64                  `json:"threshold"`
	AttemptsRemaining int                      `json:"attempts_remaining"`
}

type verificationService struct {
	verificationRepo interfaces.VerificationRepository
	auditRepo        interfaces.AuditLogRepository
	identitySvc      identity.IdentityProvider
	logger           *logger.Logger
	threshold        float64
	attemptCap       int
}

func NewVerificationService(
	verificationRepo interfaces.VerificationRepository,
	auditRepo interfaces.AuditLogRepository,
	identitySvc identity.IdentityProvider,
	logger *logger.Logger,
) VerificationService {
	return &verificationService{
		verificationRepo: verificationRepo,
		auditRepo:        auditRepo,
		identitySvc:      identitySvc,
		logger:           logger,
		threshold:        utils.DefaultConfidenceThreshold,
		attemptCap:       models.MaxVerificationAttempts,
	}
}

func (s *verificationService) SubmitVerification(ctx context.Context, actor models.Actor, req *SubmitVerificationRequest) (*VerificationResult, error) {
	if !actor.IsClient() {
		return nil, utils.NewUnauthorizedError("only clients submit identity verification")
	}
	if !ninPattern.MatchString(req.NIN) {
		return nil, utils.NewValidationError("identity number must be exactly %d digits", utils.NINLength)
	}
	if len(req.Photo) == 0 {
		return nil, utils.NewValidationError("a photo is required")
	}

	record, err := s.getOrCreate(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	switch record.State {
	case models.VerificationStateVerified:
		return nil, utils.NewConflictError("client is already verified")
	case models.VerificationStateLocked:
		return nil, utils.NewLockedError("verification is locked after too many failed attempts")
	}
	if record.AttemptsCount >= s.attemptCap {
		if err := s.verificationRepo.SetState(ctx, actor.ID, models.VerificationStateLocked, nil); err != nil {
			return nil, err
		}
		return nil, utils.NewLockedError("verification is locked after too many failed attempts")
	}

	requestMeta := map[string]interface{}{
		"nin_masked":  MaskNIN(req.NIN),
		"photo_bytes": len(req.Photo),
	}

	// The provider is only called for clients with attempts left; a
	// provider outage reports external failure without consuming one.
	resp, err := s.identitySvc.Verify(ctx, &identity.VerifyRequest{
		IDNumber: req.NIN,
		Photo:    req.Photo,
	})
	if err != nil {
		s.recordAttempt(ctx, actor.ID, req.NIN, 0, "", false, "identity provider error: "+err.Error(), requestMeta, nil)
		return nil, utils.NewExternalError("identity provider unavailable", err)
	}

	updated, consumed, err := s.verificationRepo.ConsumeAttempt(ctx, actor.ID, s.attemptCap)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, utils.NewLockedError("verification is locked after too many failed attempts")
	}

	succeeded := resp.Confidence >= s.threshold
	failureReason := ""
	if !succeeded {
		failureReason = "confidence below threshold"
	}
	s.recordAttempt(ctx, actor.ID, req.NIN, resp.Confidence, resp.ReferenceID, succeeded, failureReason, requestMeta, resp.Metadata)

	result := &VerificationResult{
		Confidence:        resp.Confidence,
		Threshold:         s.threshold,
		AttemptsRemaining: updated.AttemptsRemaining(),
	}

	if succeeded {
		if err := s.verificationRepo.SetState(ctx, actor.ID, models.VerificationStateVerified, map[string]interface{}{
			"last_confidence_score": resp.Confidence,
		}); err != nil {
			return nil, err
		}
		result.State = models.VerificationStateVerified
		result.Verified = true
		s.logger.LogVerificationEvent(actor.ID, "client_verified", map[string]interface{}{
			"confidence": resp.Confidence,
		})
		return result, nil
	}

	state := updated.State
	if updated.AttemptsCount >= s.attemptCap {
		state = models.VerificationStateLocked
	}
	if err := s.verificationRepo.SetState(ctx, actor.ID, state, map[string]interface{}{
		"last_confidence_score": resp.Confidence,
	}); err != nil {
		return nil, err
	}

	result.State = state
	s.logger.LogVerificationEvent(actor.ID, "verification_failed", map[string]interface{}{
		"confidence":         resp.Confidence,
		"attempts_remaining": result.AttemptsRemaining,
		"locked":             state == models.VerificationStateLocked,
	})

	return result, nil
}

func (s *verificationService) GetStatus(ctx context.Context, actor models.Actor, clientID primitive.ObjectID) (*models.ClientVerification, error) {
	if !actor.IsAdmin() && !(actor.IsClient() && actor.ID == clientID) {
		return nil, utils.NewUnauthorizedError("cannot read another client's verification status")
	}

	record, err := s.verificationRepo.GetByClientID(ctx, clientID)
	if err != nil {
		if utils.IsKind(err, utils.ErrorKindNotFound) {
			return &models.ClientVerification{
				ClientID: clientID,
				State:    models.VerificationStateUnverified,
			}, nil
		}
		return nil, err
	}

	return record, nil
}

// Review resolves a locked or pending record. Approval verifies the
// client outright; denial keeps the record locked with the reviewer's
// notes attached.
func (s *verificationService) Review(ctx context.Context, actor models.Actor, clientID primitive.ObjectID, approve bool, notes string) (*models.ClientVerification, error) {
	if !actor.IsAdmin() {
		return nil, utils.NewUnauthorizedError("admin role required")
	}

	record, err := s.verificationRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if record.State == models.VerificationStateVerified {
		return nil, utils.NewConflictError("client is already verified")
	}

	now := time.Now()
	state := models.VerificationStateLocked
	if approve {
		state = models.VerificationStateVerified
	}

	if err := s.verificationRepo.SetState(ctx, clientID, state, map[string]interface{}{
		"reviewed_by":  actor.ID,
		"reviewed_at":  now,
		"review_notes": notes,
	}); err != nil {
		return nil, err
	}

	s.auditVerification(ctx, actor, models.AuditActionVerificationReview, clientID, notes, map[string]interface{}{
		"approved": approve,
	})

	return s.verificationRepo.GetByClientID(ctx, clientID)
}

// FlagForReview routes a client's record into the manual review queue,
// typically after a fraud report or a support escalation. The record
// moves to pending_manual and waits for Review to resolve it.
func (s *verificationService) FlagForReview(ctx context.Context, actor models.Actor, clientID primitive.ObjectID, reason string) (*models.ClientVerification, error) {
	if !actor.IsAdmin() {
		return nil, utils.NewUnauthorizedError("admin role required")
	}
	if len(reason) < utils.MinOverrideReasonLength {
		return nil, utils.NewValidationError("flag reason must be at least %d characters", utils.MinOverrideReasonLength)
	}

	record, err := s.getOrCreate(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if record.State == models.VerificationStateVerified {
		return nil, utils.NewConflictError("client is already verified")
	}

	if err := s.verificationRepo.SetState(ctx, clientID, models.VerificationStatePendingManual, nil); err != nil {
		return nil, err
	}

	s.auditVerification(ctx, actor, models.AuditActionVerificationFlag, clientID, reason, nil)

	return s.verificationRepo.GetByClientID(ctx, clientID)
}

// Unlock resets the attempt counter so the client can retry the
// automatic flow. Admin only, reason mandatory.
func (s *verificationService) Unlock(ctx context.Context, actor models.Actor, clientID primitive.ObjectID, reason string) (*models.ClientVerification, error) {
	if !actor.IsAdmin() {
		return nil, utils.NewUnauthorizedError("admin role required")
	}
	if len(reason) < utils.MinOverrideReasonLength {
		return nil, utils.NewValidationError("unlock reason must be at least %d characters", utils.MinOverrideReasonLength)
	}

	record, err := s.verificationRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if record.State == models.VerificationStateVerified {
		return nil, utils.NewConflictError("client is already verified")
	}

	if err := s.verificationRepo.ResetAttempts(ctx, clientID); err != nil {
		return nil, err
	}

	s.auditVerification(ctx, actor, models.AuditActionVerificationUnlock, clientID, reason, nil)

	return s.verificationRepo.GetByClientID(ctx, clientID)
}

func (s *verificationService) ListPendingReview(ctx context.Context, actor models.Actor, params *utils.PaginationParams) ([]*models.ClientVerification, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, utils.NewUnauthorizedError("admin role required")
	}
	return s.verificationRepo.GetPendingReview(ctx, params)
}

func (s *verificationService) ListAttempts(ctx context.Context, actor models.Actor, clientID primitive.ObjectID, params *utils.PaginationParams) ([]*models.VerificationAttempt, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, utils.NewUnauthorizedError("admin role required")
	}
	return s.verificationRepo.GetAttemptsByClient(ctx, clientID, params)
}

func (s *verificationService) getOrCreate(ctx context.Context, clientID primitive.ObjectID) (*models.ClientVerification, error) {
	record, err := s.verificationRepo.GetByClientID(ctx, clientID)
	if err == nil {
		return record, nil
	}
	if !utils.IsKind(err, utils.ErrorKindNotFound) {
		return nil, err
	}

	record = &models.ClientVerification{
		ClientID: clientID,
		State:    models.VerificationStateUnverified,
	}
	if createErr := s.verificationRepo.Create(ctx, record); createErr != nil {
		if utils.IsKind(createErr, utils.ErrorKindConflict) {
			// Lost the creation race; the winner's record is ours.
			return s.verificationRepo.GetByClientID(ctx, clientID)
		}
		return nil, createErr
	}

	return record, nil
}

// recordAttempt writes the audit row. The raw identity number never
// reaches storage, only its masked form.
func (s *verificationService) recordAttempt(ctx context.Context, clientID primitive.ObjectID, nin string, confidence float64, providerRef string, succeeded bool, failureReason string, requestMeta, responseMeta map[string]interface{}) {
	attempt := &models.VerificationAttempt{
		ClientID:        clientID,
		NINMasked:       MaskNIN(nin),
		ConfidenceScore: confidence,
		Threshold:       s.threshold,
		ProviderRef:     providerRef,
		Succeeded:       succeeded,
		FailureReason:   failureReason,
		RequestMeta:     requestMeta,
		ResponseMeta:    responseMeta,
	}
	if err := s.verificationRepo.CreateAttempt(ctx, attempt); err != nil {
		s.logger.WithError(err).WithClientID(clientID).Error("Failed to record verification attempt")
	}
}

func (s *verificationService) auditVerification(ctx context.Context, actor models.Actor, action models.AuditAction, clientID primitive.ObjectID, reason string, metadata map[string]interface{}) {
	entry := &models.AuditLog{
		AdminID:    actor.ID,
		Action:     action,
		Resource:   "client_verification",
		ResourceID: clientID.Hex(),
		Reason:     reason,
		Metadata:   metadata,
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.WithError(err).WithClientID(clientID).Error("Failed to write audit log entry")
	}
	s.logger.LogAuditEvent(actor.ID, string(action), "client_verification", map[string]interface{}{
		"client_id": clientID.Hex(),
		"reason":    reason,
	})
}

// MaskNIN keeps the last four digits visible.
func MaskNIN(nin string) string {
	if len(nin) <= 4 {
		return nin
	}
	return strings.Repeat("*", len(nin)-4) + nin[len(nin)-4:]
}
