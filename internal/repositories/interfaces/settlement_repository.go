package interfaces

import (
	"context"

	"drivehire/internal/models"
	"drivehire/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SettlementRepository interface {
	// CreateIfAbsent inserts the settlement unless one already exists
	// for the same booking. The unique index on booking_id backs the
	// guarantee; on a duplicate the existing document is returned with
	// created=false.
	CreateIfAbsent(ctx context.Context, settlement *models.Settlement) (existing *models.Settlement, created bool, err error)

	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Settlement, error)
	GetByBookingID(ctx context.Context, bookingID primitive.ObjectID) (*models.Settlement, error)

	// MarkSettled records a successful payout. It only fires on an
	// unsettled document so a retried payout cannot double-record.
	MarkSettled(ctx context.Context, id primitive.ObjectID, payoutReference string) (bool, error)

	// RecordPayoutFailure bumps payout_attempts and stores the error.
	RecordPayoutFailure(ctx context.Context, id primitive.ObjectID, reason string) error

	GetUnsettled(ctx context.Context, limit int) ([]*models.Settlement, error)
	GetByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Settlement, int64, error)
}
