package interfaces

import (
	"context"

	"drivehire/internal/models"
	"drivehire/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	GetByBookingNumber(ctx context.Context, bookingNumber string) (*models.Booking, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// Guarded transitions. TransitionStatus performs the atomic
	// conditional update ("SET status=to WHERE status IN from") and
	// reports whether this call won the transition. Extra fields are
	// applied in the same update.
	TransitionStatus(ctx context.Context, id primitive.ObjectID, from []models.BookingStatus, to models.BookingStatus, extra map[string]interface{}) (bool, error)

	// SetConfirmation sets the party's confirmation flag and returns the
	// booking as it stands after the update, so the caller can observe
	// both flags from a single atomic read-modify-write.
	SetConfirmation(ctx context.Context, id primitive.ObjectID, role models.Role) (*models.Booking, error)

	// IncrementCompletionDeclines bumps the decline counter and returns
	// the new value.
	IncrementCompletionDeclines(ctx context.Context, id primitive.ObjectID) (int, error)

	// HasActiveBooking reports whether the driver already holds an
	// accepted or ongoing booking.
	HasActiveBooking(ctx context.Context, driverID primitive.ObjectID) (bool, error)

	// Search and filtering
	GetByClient(ctx context.Context, clientID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	GetByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	GetByStatus(ctx context.Context, status models.BookingStatus, params *utils.PaginationParams) ([]*models.Booking, int64, error)
}
