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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type settlementRepository struct {
	collection *mongo.Collection
}

func NewSettlementRepository(db *mongo.Database) interfaces.SettlementRepository {
	return &settlementRepository{
		collection: db.Collection("settlements"),
	}
}

// CreateIfAbsent inserts the settlement. The unique index on booking_id
// turns a concurrent second insert into a duplicate-key error, which is
// resolved by loading the winner's document.
func (r *settlementRepository) CreateIfAbsent(ctx context.Context, settlement *models.Settlement) (*models.Settlement, bool, error) {
	settlement.ID = primitive.NewObjectID()
	settlement.CreatedAt = time.Now()
	settlement.UpdatedAt = settlement.CreatedAt

	_, err := r.collection.InsertOne(ctx, settlement)
	if err == nil {
		return settlement, true, nil
	}

	if !mongo.IsDuplicateKeyError(err) {
		return nil, false, fmt.Errorf("failed to create settlement: %w", err)
	}

	existing, err := r.GetByBookingID(ctx, settlement.BookingID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load existing settlement: %w", err)
	}

	return existing, false, nil
}

func (r *settlementRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Settlement, error) {
	var settlement models.Settlement
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&settlement)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("settlement")
		}
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	return &settlement, nil
}

func (r *settlementRepository) GetByBookingID(ctx context.Context, bookingID primitive.ObjectID) (*models.Settlement, error) {
	var settlement models.Settlement
	err := r.collection.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&settlement)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("settlement")
		}
		return nil, fmt.Errorf("failed to get settlement by booking: %w", err)
	}

	return &settlement, nil
}

func (r *settlementRepository) MarkSettled(ctx context.Context, id primitive.ObjectID, payoutReference string) (bool, error) {
	now := time.Now()
	filter := bson.M{"_id": id, "settled": false}
	update := bson.M{"$set": bson.M{
		"settled":          true,
		"payout_reference": payoutReference,
		"settled_at":       now,
		"updated_at":       now,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to mark settlement settled: %w", err)
	}

	return result.MatchedCount > 0, nil
}

func (r *settlementRepository) RecordPayoutFailure(ctx context.Context, id primitive.ObjectID, reason string) error {
	update := bson.M{
		"$inc": bson.M{"payout_attempts": 1},
		"$set": bson.M{
			"last_payout_error": reason,
			"updated_at":        time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to record payout failure: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("settlement")
	}

	return nil
}

func (r *settlementRepository) GetUnsettled(ctx context.Context, limit int) ([]*models.Settlement, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"settled": false}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find unsettled settlements: %w", err)
	}
	defer cursor.Close(ctx)

	var settlements []*models.Settlement
	if err := cursor.All(ctx, &settlements); err != nil {
		return nil, fmt.Errorf("failed to decode settlements: %w", err)
	}

	return settlements, nil
}

func (r *settlementRepository) GetByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Settlement, int64, error) {
	filter := bson.M{"driver_id": driverID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count settlements: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find settlements: %w", err)
	}
	defer cursor.Close(ctx)

	var settlements []*models.Settlement
	if err := cursor.All(ctx, &settlements); err != nil {
		return nil, 0, fmt.Errorf("failed to decode settlements: %w", err)
	}

	return settlements, total, nil
}
