package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DisputeStatus string
type DisputePriority string

const (
	DisputeStatusOpen          DisputeStatus = "open"
	DisputeStatusInvestigating DisputeStatus = "investigating"
	DisputeStatusResolved      DisputeStatus = "resolved"
	DisputeStatusClosed        DisputeStatus = "closed"

	DisputePriorityLow    DisputePriority = "low"
	DisputePriorityMedium DisputePriority = "medium"
	DisputePriorityHigh   DisputePriority = "high"
)

type Dispute struct {
	ID            primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	DisputeNumber string              `json:"dispute_number" bson:"dispute_number" validate:"required"`
	BookingID     primitive.ObjectID  `json:"booking_id" bson:"booking_id" validate:"required"`
	ReporterID    primitive.ObjectID  `json:"reporter_id" bson:"reporter_id" validate:"required"`
	ReporterRole  Role                `json:"reporter_role" bson:"reporter_role" validate:"required"`
	Status        DisputeStatus       `json:"status" bson:"status" default:"open"`
	Priority      DisputePriority     `json:"priority" bson:"priority" default:"medium"`
	Subject       string              `json:"subject" bson:"subject" validate:"required"`
	Description   string              `json:"description" bson:"description"`
	AssignedTo    *primitive.ObjectID `json:"assigned_to" bson:"assigned_to"`
	Resolution    string              `json:"resolution" bson:"resolution"`
	AdminNotes    string              `json:"admin_notes" bson:"admin_notes"`
	CreatedAt     time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at" bson:"updated_at"`
	ResolvedAt    *time.Time          `json:"resolved_at" bson:"resolved_at"`
}

// CanTransitionTo enforces the dispute status machine:
// open -> investigating -> resolved -> closed, with open and investigating
// also able to close directly.
func (d *Dispute) CanTransitionTo(next DisputeStatus) bool {
	switch d.Status {
	case DisputeStatusOpen:
		return next == DisputeStatusInvestigating || next == DisputeStatusClosed
	case DisputeStatusInvestigating:
		return next == DisputeStatusResolved || next == DisputeStatusClosed
	case DisputeStatusResolved:
		return next == DisputeStatusClosed
	default:
		return false
	}
}
