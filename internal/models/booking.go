package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string
type PaymentStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusAccepted  BookingStatus = "accepted"
	BookingStatusOngoing   BookingStatus = "ongoing"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"

	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusAuthorized PaymentStatus = "authorized"
	PaymentStatusPaid       PaymentStatus = "paid"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

type Booking struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BookingNumber      string             `json:"booking_number" bson:"booking_number" validate:"required"`
	ClientID           primitive.ObjectID `json:"client_id" bson:"client_id" validate:"required"`
	DriverID           primitive.ObjectID `json:"driver_id" bson:"driver_id" validate:"required"`
	StartLocation      Location           `json:"start_location" bson:"start_location" validate:"required"`
	Destination        Location           `json:"destination" bson:"destination" validate:"required"`
	DistanceKM         float64            `json:"distance_km" bson:"distance_km"`
	DurationHours      float64            `json:"duration_hours" bson:"duration_hours"`
	HourlyRate         float64            `json:"hourly_rate" bson:"hourly_rate"` // snapshot, never recomputed
	TotalCost          float64            `json:"total_cost" bson:"total_cost"`   // frozen at creation
	Currency           string             `json:"currency" bson:"currency" default:"NGN"`
	Status             BookingStatus      `json:"status" bson:"status" default:"pending"`
	PaymentStatus      PaymentStatus      `json:"payment_status" bson:"payment_status" default:"pending"`
	PaymentHoldRef     string             `json:"payment_hold_ref" bson:"payment_hold_ref"`
	DriverConfirmed    bool               `json:"driver_confirmed" bson:"driver_confirmed" default:"false"`
	ClientConfirmed    bool               `json:"client_confirmed" bson:"client_confirmed" default:"false"`
	CompletionDeclines int                `json:"completion_declines" bson:"completion_declines" default:"0"`
	ScheduledTime      *time.Time         `json:"scheduled_time" bson:"scheduled_time"`
	AcceptedAt         *time.Time         `json:"accepted_at" bson:"accepted_at"`
	StartedAt          *time.Time         `json:"started_at" bson:"started_at"`
	CompletedAt        *time.Time         `json:"completed_at" bson:"completed_at"`
	CancelledAt        *time.Time         `json:"cancelled_at" bson:"cancelled_at"`
	CancellationReason string             `json:"cancellation_reason" bson:"cancellation_reason"`
	CancelledBy        string             `json:"cancelled_by" bson:"cancelled_by"`
	Archived           bool               `json:"archived" bson:"archived" default:"false"`
	CreatedAt          time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" bson:"updated_at"`
}

// IsTerminal reports whether the booking can no longer change status.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCompleted || b.Status == BookingStatusCancelled
}

// IsActive reports whether the booking currently occupies the driver.
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusAccepted || b.Status == BookingStatusOngoing
}
