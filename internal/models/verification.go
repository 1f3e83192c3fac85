package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VerificationState string

const (
	VerificationStateUnverified    VerificationState = "unverified"
	VerificationStatePendingManual VerificationState = "pending_manual"
	VerificationStateVerified      VerificationState = "verified"
	VerificationStateLocked        VerificationState = "locked"
)

// MaxVerificationAttempts caps automatic identity-match submissions per client.
const MaxVerificationAttempts = 3

type ClientVerification struct {
	ID                  primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	ClientID            primitive.ObjectID  `json:"client_id" bson:"client_id" validate:"required"` // unique index
	State               VerificationState   `json:"state" bson:"state" default:"unverified"`
	AttemptsCount       int                 `json:"attempts_count" bson:"attempts_count" default:"0"`
	LastConfidenceScore float64             `json:"last_confidence_score" bson:"last_confidence_score"`
	LastAttemptAt       *time.Time          `json:"last_attempt_at" bson:"last_attempt_at"`
	ReviewedBy          *primitive.ObjectID `json:"reviewed_by" bson:"reviewed_by"`
	ReviewedAt          *time.Time          `json:"reviewed_at" bson:"reviewed_at"`
	ReviewNotes         string              `json:"review_notes" bson:"review_notes"`
	CreatedAt           time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at" bson:"updated_at"`
}

// AttemptsRemaining reports how many automatic submissions the client has left.
func (v *ClientVerification) AttemptsRemaining() int {
	remaining := MaxVerificationAttempts - v.AttemptsCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// VerificationAttempt is the audit record written for every submission,
// successful or not.
type VerificationAttempt struct {
	ID              primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	ClientID        primitive.ObjectID     `json:"client_id" bson:"client_id"`
	NINMasked       string                 `json:"nin_masked" bson:"nin_masked"`
	ConfidenceScore float64                `json:"confidence_score" bson:"confidence_score"`
	Threshold       float64                `json:"threshold" bson:"threshold"`
	ProviderRef     string                 `json:"provider_ref" bson:"provider_ref"`
	Succeeded       bool                   `json:"succeeded" bson:"succeeded"`
	FailureReason   string                 `json:"failure_reason" bson:"failure_reason"`
	RequestMeta     map[string]interface{} `json:"request_meta" bson:"request_meta"`
	ResponseMeta    map[string]interface{} `json:"response_meta" bson:"response_meta"`
	CreatedAt       time.Time              `json:"created_at" bson:"created_at"`
}
