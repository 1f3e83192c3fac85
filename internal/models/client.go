package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Client struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID         primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	FullName       string             `json:"full_name" bson:"full_name" validate:"required"`
	Phone          string             `json:"phone" bson:"phone"`
	Email          string             `json:"email" bson:"email"`
	PaymentCustomerRef string         `json:"payment_customer_ref" bson:"payment_customer_ref"`
	DefaultPaymentMethod string       `json:"default_payment_method" bson:"default_payment_method"`
	DeviceToken    string             `json:"device_token" bson:"device_token"`
	DevicePlatform string             `json:"device_platform" bson:"device_platform"`
	TotalBookings  int64              `json:"total_bookings" bson:"total_bookings" default:"0"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}
