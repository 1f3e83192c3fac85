package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditAction string

const (
	AuditActionForceComplete      AuditAction = "force_complete"
	AuditActionForceCancel        AuditAction = "force_cancel"
	AuditActionVerificationReview AuditAction = "verification_review"
	AuditActionVerificationUnlock AuditAction = "verification_unlock"
	AuditActionVerificationFlag   AuditAction = "verification_flag"
	AuditActionDisputeUpdate      AuditAction = "dispute_update"
)

type AuditLog struct {
	ID         primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	AdminID    primitive.ObjectID     `json:"admin_id" bson:"admin_id" validate:"required"`
	Action     AuditAction            `json:"action" bson:"action" validate:"required"`
	Resource   string                 `json:"resource" bson:"resource" validate:"required"`
	ResourceID string                 `json:"resource_id" bson:"resource_id"`
	Reason     string                 `json:"reason" bson:"reason"`
	Metadata   map[string]interface{} `json:"metadata" bson:"metadata"`
	CreatedAt  time.Time              `json:"created_at" bson:"created_at"`
}
