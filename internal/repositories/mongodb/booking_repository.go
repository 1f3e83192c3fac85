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

type bookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) interfaces.BookingRepository {
	return &bookingRepository{
		collection: db.Collection("bookings"),
	}
}

// Basic CRUD operations
func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	booking.ID = primitive.NewObjectID()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt

	_, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("booking")
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &booking, nil
}

func (r *bookingRepository) GetByBookingNumber(ctx context.Context, bookingNumber string) (*models.Booking, error) {
	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"booking_number": bookingNumber}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("booking")
		}
		return nil, fmt.Errorf("failed to get booking by number: %w", err)
	}

	return &booking, nil
}

func (r *bookingRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("booking")
	}

	return nil
}

// TransitionStatus applies "SET status=to WHERE _id=id AND status IN from"
// in one round trip. MatchedCount tells the caller whether it won the
// transition; losing is not an error at this layer.
func (r *bookingRepository) TransitionStatus(ctx context.Context, id primitive.ObjectID, from []models.BookingStatus, to models.BookingStatus, extra map[string]interface{}) (bool, error) {
	updates := bson.M{
		"status":     to,
		"updated_at": time.Now(),
	}
	for k, v := range extra {
		updates[k] = v
	}

	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": from},
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": updates})
	if err != nil {
		return false, fmt.Errorf("failed to transition booking status: %w", err)
	}

	return result.MatchedCount > 0, nil
}

func (r *bookingRepository) SetConfirmation(ctx context.Context, id primitive.ObjectID, role models.Role) (*models.Booking, error) {
	var field string
	switch role {
	case models.RoleDriver:
		field = "driver_confirmed"
	case models.RoleClient:
		field = "client_confirmed"
	default:
		return nil, fmt.Errorf("role %s cannot confirm completion", role)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{field: true, "updated_at": time.Now()}}

	var booking models.Booking
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("booking")
		}
		return nil, fmt.Errorf("failed to set confirmation: %w", err)
	}

	return &booking, nil
}

func (r *bookingRepository) IncrementCompletionDeclines(ctx context.Context, id primitive.ObjectID) (int, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{
		"$inc": bson.M{"completion_declines": 1},
		"$set": bson.M{"updated_at": time.Now()},
	}

	var booking models.Booking
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, utils.NewNotFoundError("booking")
		}
		return 0, fmt.Errorf("failed to increment completion declines: %w", err)
	}

	return booking.CompletionDeclines, nil
}

func (r *bookingRepository) HasActiveBooking(ctx context.Context, driverID primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"driver_id": driverID,
		"status":    bson.M{"$in": []models.BookingStatus{models.BookingStatusAccepted, models.BookingStatusOngoing}},
	}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to count active bookings: %w", err)
	}

	return count > 0, nil
}

// Search and filtering
func (r *bookingRepository) GetByClient(ctx context.Context, clientID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	return r.findPaginated(ctx, bson.M{"client_id": clientID}, params)
}

func (r *bookingRepository) GetByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	return r.findPaginated(ctx, bson.M{"driver_id": driverID}, params)
}

func (r *bookingRepository) GetByStatus(ctx context.Context, status models.BookingStatus, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	return r.findPaginated(ctx, bson.M{"status": status}, params)
}

func (r *bookingRepository) findPaginated(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, total, nil
}
