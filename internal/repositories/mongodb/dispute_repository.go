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

type disputeRepository struct {
	collection *mongo.Collection
}

func NewDisputeRepository(db *mongo.Database) interfaces.DisputeRepository {
	return &disputeRepository{
		collection: db.Collection("disputes"),
	}
}

func (r *disputeRepository) Create(ctx context.Context, dispute *models.Dispute) error {
	dispute.ID = primitive.NewObjectID()
	dispute.CreatedAt = time.Now()
	dispute.UpdatedAt = dispute.CreatedAt
	if dispute.Status == "" {
		dispute.Status = models.DisputeStatusOpen
	}
	if dispute.Priority == "" {
		dispute.Priority = models.DisputePriorityMedium
	}

	_, err := r.collection.InsertOne(ctx, dispute)
	if err != nil {
		return fmt.Errorf("failed to create dispute: %w", err)
	}

	return nil
}

func (r *disputeRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Dispute, error) {
	var dispute models.Dispute
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&dispute)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("dispute")
		}
		return nil, fmt.Errorf("failed to get dispute: %w", err)
	}

	return &dispute, nil
}

func (r *disputeRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update dispute: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("dispute")
	}

	return nil
}

func (r *disputeRepository) TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.DisputeStatus, extra map[string]interface{}) (bool, error) {
	updates := bson.M{
		"status":     to,
		"updated_at": time.Now(),
	}
	for k, v := range extra {
		updates[k] = v
	}

	filter := bson.M{"_id": id, "status": from}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": updates})
	if err != nil {
		return false, fmt.Errorf("failed to transition dispute status: %w", err)
	}

	return result.MatchedCount > 0, nil
}

func (r *disputeRepository) GetByBooking(ctx context.Context, bookingID primitive.ObjectID) ([]*models.Dispute, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"booking_id": bookingID})
	if err != nil {
		return nil, fmt.Errorf("failed to find disputes for booking: %w", err)
	}
	defer cursor.Close(ctx)

	var disputes []*models.Dispute
	if err := cursor.All(ctx, &disputes); err != nil {
		return nil, fmt.Errorf("failed to decode disputes: %w", err)
	}

	return disputes, nil
}

func (r *disputeRepository) GetByStatus(ctx context.Context, status models.DisputeStatus, params *utils.PaginationParams) ([]*models.Dispute, int64, error) {
	return r.findPaginated(ctx, bson.M{"status": status}, params)
}

func (r *disputeRepository) GetOpenHighPriority(ctx context.Context, params *utils.PaginationParams) ([]*models.Dispute, int64, error) {
	filter := bson.M{
		"status":   bson.M{"$in": []models.DisputeStatus{models.DisputeStatusOpen, models.DisputeStatusInvestigating}},
		"priority": models.DisputePriorityHigh,
	}
	return r.findPaginated(ctx, filter, params)
}

func (r *disputeRepository) findPaginated(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Dispute, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count disputes: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find disputes: %w", err)
	}
	defer cursor.Close(ctx)

	var disputes []*models.Dispute
	if err := cursor.All(ctx, &disputes); err != nil {
		return nil, 0, fmt.Errorf("failed to decode disputes: %w", err)
	}

	return disputes, total, nil
}
