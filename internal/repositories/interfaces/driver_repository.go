package interfaces

import (
	"context"
	"time"

	"drivehire/internal/models"
	"drivehire/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DriverRepository interface {
	Create(ctx context.Context, driver *models.Driver) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Driver, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Driver, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// SetOnlineStatus flips online_status only when the driver currently
	// holds one of the expected statuses, reporting whether this call
	// performed the flip.
	SetOnlineStatus(ctx context.Context, id primitive.ObjectID, from []models.OnlineStatus, to models.OnlineStatus) (bool, error)

	// UpdateLocation stores the driver's current position and stamps
	// last_location_update.
	UpdateLocation(ctx context.Context, id primitive.ObjectID, location *models.Location, at time.Time) error

	GetOnline(ctx context.Context, params *utils.PaginationParams) ([]*models.Driver, int64, error)
	GetNearby(ctx context.Context, location *models.Location, radiusKM float64, limit int) ([]*models.Driver, error)
}
