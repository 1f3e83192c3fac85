package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OnlineStatus string

const (
	OnlineStatusOnline  OnlineStatus = "online"
	OnlineStatusOffline OnlineStatus = "offline"
)

type Driver struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID             primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	FullName           string             `json:"full_name" bson:"full_name" validate:"required"`
	Phone              string             `json:"phone" bson:"phone"`
	OnlineStatus       OnlineStatus       `json:"online_status" bson:"online_status" default:"offline"`
	CurrentLocation    *Location          `json:"current_location" bson:"current_location"`
	LastLocationUpdate *time.Time         `json:"last_location_update" bson:"last_location_update"`
	Verified           bool               `json:"verified" bson:"verified" default:"false"`
	HourlyRate         float64            `json:"hourly_rate" bson:"hourly_rate"`
	Rating             float64            `json:"rating" bson:"rating" default:"0"`
	TotalTrips         int64              `json:"total_trips" bson:"total_trips" default:"0"`
	TotalEarnings      float64            `json:"total_earnings" bson:"total_earnings" default:"0"`
	PayoutAccount      *PayoutAccount     `json:"payout_account" bson:"payout_account"`
	DeviceToken        string             `json:"device_token" bson:"device_token"`
	DevicePlatform     string             `json:"device_platform" bson:"device_platform"` // android, ios
	CreatedAt          time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" bson:"updated_at"`
}

type PayoutAccount struct {
	AccountNumber string `json:"account_number" bson:"account_number"`
	BankCode      string `json:"bank_code" bson:"bank_code"`
	AccountName   string `json:"account_name" bson:"account_name"`
	ProviderRef   string `json:"provider_ref" bson:"provider_ref"`
	IsVerified    bool   `json:"is_verified" bson:"is_verified" default:"false"`
}

// HasFreshLocation reports whether the driver's last persisted location is
// recent enough to count for booking eligibility.
func (d *Driver) HasFreshLocation(maxAge time.Duration, now time.Time) bool {
	if d.CurrentLocation == nil || d.LastLocationUpdate == nil {
		return false
	}
	return now.Sub(*d.LastLocationUpdate) <= maxAge
}
