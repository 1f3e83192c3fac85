package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Settlement struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BookingID            primitive.ObjectID `json:"booking_id" bson:"booking_id" validate:"required"` // unique index
	DriverID             primitive.ObjectID `json:"driver_id" bson:"driver_id"`
	TotalFare            float64            `json:"total_fare" bson:"total_fare"`
	CommissionPercentage float64            `json:"commission_percentage" bson:"commission_percentage"` // snapshot, immutable
	CommissionVersion    int                `json:"commission_version" bson:"commission_version"`
	PlatformShare        float64            `json:"platform_share" bson:"platform_share"`
	DriverShare          float64            `json:"driver_share" bson:"driver_share"`
	Currency             string             `json:"currency" bson:"currency" default:"NGN"`
	Settled              bool               `json:"settled" bson:"settled" default:"false"`
	PayoutReference      string             `json:"payout_reference" bson:"payout_reference"`
	PayoutAttempts       int                `json:"payout_attempts" bson:"payout_attempts" default:"0"`
	LastPayoutError      string             `json:"last_payout_error" bson:"last_payout_error"`
	CreatedAt            time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at" bson:"updated_at"`
	SettledAt            *time.Time         `json:"settled_at" bson:"settled_at"`
}
