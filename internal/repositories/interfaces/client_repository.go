package interfaces

import (
	"context"

	"drivehire/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error)
	GetByEmail(ctx context.Context, email string) (*models.Client, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
}
