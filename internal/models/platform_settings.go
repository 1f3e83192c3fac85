package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlatformSettings is versioned configuration. A new version is inserted for
// every change; settlements snapshot the values they used, so historical rows
// stay reproducible after the commission changes.
type PlatformSettings struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Version              int                `json:"version" bson:"version"` // unique index
	CommissionPercentage float64            `json:"commission_percentage" bson:"commission_percentage"`
	PerKMRate            float64            `json:"per_km_rate" bson:"per_km_rate"`
	Currency             string             `json:"currency" bson:"currency" default:"NGN"`
	EffectiveFrom        time.Time          `json:"effective_from" bson:"effective_from"`
	CreatedBy            primitive.ObjectID `json:"created_by" bson:"created_by"`
	CreatedAt            time.Time          `json:"created_at" bson:"created_at"`
}
