package interfaces

import (
	"context"

	"drivehire/internal/models"
	"drivehire/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VerificationRepository interface {
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) (*models.ClientVerification, error)
	Create(ctx context.Context, verification *models.ClientVerification) error

	// ConsumeAttempt atomically bumps attempts_used when the record is
	// still below the cap and not yet verified. It returns the updated
	// record, or consumed=false when the cap was already reached.
	ConsumeAttempt(ctx context.Context, clientID primitive.ObjectID, cap int) (v *models.ClientVerification, consumed bool, err error)

	// SetState moves the verification record to the given state.
	SetState(ctx context.Context, clientID primitive.ObjectID, state models.VerificationState, updates map[string]interface{}) error

	// ResetAttempts zeroes attempts_used and reopens the record. Used by
	// the admin unlock path.
	ResetAttempts(ctx context.Context, clientID primitive.ObjectID) error

	// Attempt audit trail
	CreateAttempt(ctx context.Context, attempt *models.VerificationAttempt) error
	GetAttemptsByClient(ctx context.Context, clientID primitive.ObjectID, params *utils.PaginationParams) ([]*models.VerificationAttempt, int64, error)

	GetPendingReview(ctx context.Context, params *utils.PaginationParams) ([]*models.ClientVerification, int64, error)
}
