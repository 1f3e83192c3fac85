package interfaces

import (
	"context"

	"drivehire/internal/models"
	"drivehire/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DisputeRepository interface {
	Create(ctx context.Context, dispute *models.Dispute) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Dispute, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// TransitionStatus applies the status change only when the dispute
	// currently holds the expected status.
	TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.DisputeStatus, extra map[string]interface{}) (bool, error)

	GetByBooking(ctx context.Context, bookingID primitive.ObjectID) ([]*models.Dispute, error)
	GetByStatus(ctx context.Context, status models.DisputeStatus, params *utils.PaginationParams) ([]*models.Dispute, int64, error)
	GetOpenHighPriority(ctx context.Context, params *utils.PaginationParams) ([]*models.Dispute, int64, error)
}
