package interfaces

import (
	"context"

	"drivehire/internal/models"
	"drivehire/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	GetByResource(ctx context.Context, resourceType string, resourceID primitive.ObjectID, params *utils.PaginationParams) ([]*models.AuditLog, int64, error)
	GetByActor(ctx context.Context, actorID primitive.ObjectID, params *utils.PaginationParams) ([]*models.AuditLog, int64, error)
}
