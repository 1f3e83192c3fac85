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

type driverRepository struct {
	collection *mongo.Collection
}

func NewDriverRepository(db *mongo.Database) interfaces.DriverRepository {
	return &driverRepository{
		collection: db.Collection("drivers"),
	}
}

func (r *driverRepository) Create(ctx context.Context, driver *models.Driver) error {
	driver.ID = primitive.NewObjectID()
	driver.CreatedAt = time.Now()
	driver.UpdatedAt = driver.CreatedAt
	if driver.OnlineStatus == "" {
		driver.OnlineStatus = models.OnlineStatusOffline
	}

	_, err := r.collection.InsertOne(ctx, driver)
	if err != nil {
		return fmt.Errorf("failed to create driver: %w", err)
	}

	return nil
}

func (r *driverRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Driver, error) {
	var driver models.Driver
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&driver)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("driver")
		}
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}

	return &driver, nil
}

func (r *driverRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Driver, error) {
	var driver models.Driver
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&driver)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("driver")
		}
		return nil, fmt.Errorf("failed to get driver by user: %w", err)
	}

	return &driver, nil
}

func (r *driverRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update driver: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("driver")
	}

	return nil
}

func (r *driverRepository) SetOnlineStatus(ctx context.Context, id primitive.ObjectID, from []models.OnlineStatus, to models.OnlineStatus) (bool, error) {
	filter := bson.M{
		"_id":           id,
		"online_status": bson.M{"$in": from},
	}
	update := bson.M{"$set": bson.M{
		"online_status": to,
		"updated_at":    time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to set online status: %w", err)
	}

	return result.MatchedCount > 0, nil
}

func (r *driverRepository) UpdateLocation(ctx context.Context, id primitive.ObjectID, location *models.Location, at time.Time) error {
	update := bson.M{"$set": bson.M{
		"current_location":     location,
		"last_location_update": at,
		"updated_at":           time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update driver location: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("driver")
	}

	return nil
}

func (r *driverRepository) GetOnline(ctx context.Context, params *utils.PaginationParams) ([]*models.Driver, int64, error) {
	filter := bson.M{"online_status": models.OnlineStatusOnline}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count online drivers: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find online drivers: %w", err)
	}
	defer cursor.Close(ctx)

	var drivers []*models.Driver
	if err := cursor.All(ctx, &drivers); err != nil {
		return nil, 0, fmt.Errorf("failed to decode drivers: %w", err)
	}

	return drivers, total, nil
}

func (r *driverRepository) GetNearby(ctx context.Context, location *models.Location, radiusKM float64, limit int) ([]*models.Driver, error) {
	filter := bson.M{
		"online_status": models.OnlineStatusOnline,
		"verified":      true,
		"current_location": bson.M{
			"$nearSphere": bson.M{
				"$geometry":    location,
				"$maxDistance": radiusKM * 1000,
			},
		},
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("failed to find nearby drivers: %w", err)
	}
	defer cursor.Close(ctx)

	var drivers []*models.Driver
	if err := cursor.All(ctx, &drivers); err != nil {
		return nil, fmt.Errorf("failed to decode nearby drivers: %w", err)
	}

	return drivers, nil
}
