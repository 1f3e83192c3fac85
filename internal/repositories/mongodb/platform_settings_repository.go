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

type platformSettingsRepository struct {
	collection *mongo.Collection
}

func NewPlatformSettingsRepository(db *mongo.Database) interfaces.PlatformSettingsRepository {
	return &platformSettingsRepository{
		collection: db.Collection("platform_settings"),
	}
}

func (r *platformSettingsRepository) Current(ctx context.Context) (*models.PlatformSettings, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "version", Value: -1}})

	var settings models.PlatformSettings
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&settings)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("platform settings")
		}
		return nil, fmt.Errorf("failed to get current platform settings: %w", err)
	}

	return &settings, nil
}

func (r *platformSettingsRepository) GetByVersion(ctx context.Context, version int) (*models.PlatformSettings, error) {
	var settings models.PlatformSettings
	err := r.collection.FindOne(ctx, bson.M{"version": version}).Decode(&settings)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("platform settings version")
		}
		return nil, fmt.Errorf("failed to get platform settings by version: %w", err)
	}

	return &settings, nil
}

func (r *platformSettingsRepository) Create(ctx context.Context, settings *models.PlatformSettings) error {
	settings.ID = primitive.NewObjectID()
	settings.CreatedAt = time.Now()
	if settings.EffectiveFrom.IsZero() {
		settings.EffectiveFrom = settings.CreatedAt
	}

	_, err := r.collection.InsertOne(ctx, settings)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewConflictError("platform settings version already exists")
		}
		return fmt.Errorf("failed to create platform settings: %w", err)
	}

	return nil
}
