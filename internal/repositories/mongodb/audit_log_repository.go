package mongodb

import (
	"context"
	"fmt"
	"time"

	"drivehire/internal/models"
	"drivehire/internal/repositories/interfaces"
	"drivehire/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type auditLogRepository struct {
	collection *mongo.Collection
}

func NewAuditLogRepository(db *mongo.Database) interfaces.AuditLogRepository {
	return &auditLogRepository{
		collection: db.Collection("audit_logs"),
	}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to create audit log entry: %w", err)
	}

	return nil
}

func (r *auditLogRepository) GetByResource(ctx context.Context, resourceType string, resourceID primitive.ObjectID, params *utils.PaginationParams) ([]*models.AuditLog, int64, error) {
	filter := bson.M{"resource": resourceType, "resource_id": resourceID.Hex()}
	return r.findPaginated(ctx, filter, params)
}

func (r *auditLogRepository) GetByActor(ctx context.Context, actorID primitive.ObjectID, params *utils.PaginationParams) ([]*models.AuditLog, int64, error) {
	return r.findPaginated(ctx, bson.M{"admin_id": actorID}, params)
}

func (r *auditLogRepository) findPaginated(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.AuditLog, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count audit log entries: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find audit log entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*models.AuditLog
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, 0, fmt.Errorf("failed to decode audit log entries: %w", err)
	}

	return entries, total, nil
}
