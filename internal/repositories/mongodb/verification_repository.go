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

type verificationRepository struct {
	collection *mongo.Collection
	attempts   *mongo.Collection
}

func NewVerificationRepository(db *mongo.Database) interfaces.VerificationRepository {
	return &verificationRepository{
		collection: db.Collection("client_verifications"),
		attempts:   db.Collection("verification_attempts"),
	}
}

func (r *verificationRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) (*models.ClientVerification, error) {
	var verification models.ClientVerification
	err := r.collection.FindOne(ctx, bson.M{"client_id": clientID}).Decode(&verification)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("verification record")
		}
		return nil, fmt.Errorf("failed to get verification record: %w", err)
	}

	return &verification, nil
}

func (r *verificationRepository) Create(ctx context.Context, verification *models.ClientVerification) error {
	verification.ID = primitive.NewObjectID()
	verification.CreatedAt = time.Now()
	verification.UpdatedAt = verification.CreatedAt
	if verification.State == "" {
		verification.State = models.VerificationStateUnverified
	}

	_, err := r.collection.InsertOne(ctx, verification)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewConflictError("verification record already exists")
		}
		return fmt.Errorf("failed to create verification record: %w", err)
	}

	return nil
}

// ConsumeAttempt bumps attempts_count only while the record is below the
// cap and still eligible for automatic matching. Returning the updated
// document lets the caller see the exact attempt number it holds.
func (r *verificationRepository) ConsumeAttempt(ctx context.Context, clientID primitive.ObjectID, cap int) (*models.ClientVerification, bool, error) {
	now := time.Now()
	filter := bson.M{
		"client_id":      clientID,
		"attempts_count": bson.M{"$lt": cap},
		"state":          bson.M{"$in": []models.VerificationState{models.VerificationStateUnverified, models.VerificationStatePendingManual}},
	}
	update := bson.M{
		"$inc": bson.M{"attempts_count": 1},
		"$set": bson.M{
			"last_attempt_at": now,
			"updated_at":      now,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var verification models.ClientVerification
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&verification)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to consume verification attempt: %w", err)
	}

	return &verification, true, nil
}

func (r *verificationRepository) SetState(ctx context.Context, clientID primitive.ObjectID, state models.VerificationState, updates map[string]interface{}) error {
	set := bson.M{
		"state":      state,
		"updated_at": time.Now(),
	}
	for k, v := range updates {
		set[k] = v
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"client_id": clientID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to set verification state: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("verification record")
	}

	return nil
}

func (r *verificationRepository) ResetAttempts(ctx context.Context, clientID primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{
		"attempts_count": 0,
		"state":          models.VerificationStateUnverified,
		"updated_at":     time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"client_id": clientID}, update)
	if err != nil {
		return fmt.Errorf("failed to reset verification attempts: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("verification record")
	}

	return nil
}

// Attempt audit trail
func (r *verificationRepository) CreateAttempt(ctx context.Context, attempt *models.VerificationAttempt) error {
	attempt.ID = primitive.NewObjectID()
	attempt.CreatedAt = time.Now()

	_, err := r.attempts.InsertOne(ctx, attempt)
	if err != nil {
		return fmt.Errorf("failed to record verification attempt: %w", err)
	}

	return nil
}

func (r *verificationRepository) GetAttemptsByClient(ctx context.Context, clientID primitive.ObjectID, params *utils.PaginationParams) ([]*models.VerificationAttempt, int64, error) {
	filter := bson.M{"client_id": clientID}

	total, err := r.attempts.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count verification attempts: %w", err)
	}

	cursor, err := r.attempts.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find verification attempts: %w", err)
	}
	defer cursor.Close(ctx)

	var attempts []*models.VerificationAttempt
	if err := cursor.All(ctx, &attempts); err != nil {
		return nil, 0, fmt.Errorf("failed to decode verification attempts: %w", err)
	}

	return attempts, total, nil
}

func (r *verificationRepository) GetPendingReview(ctx context.Context, params *utils.PaginationParams) ([]*models.ClientVerification, int64, error) {
	filter := bson.M{"state": bson.M{"$in": []models.VerificationState{models.VerificationStatePendingManual, models.VerificationStateLocked}}}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count pending verifications: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find pending verifications: %w", err)
	}
	defer cursor.Close(ctx)

	var verifications []*models.ClientVerification
	if err := cursor.All(ctx, &verifications); err != nil {
		return nil, 0, fmt.Errorf("failed to decode verification records: %w", err)
	}

	return verifications, total, nil
}
