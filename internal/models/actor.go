package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleClient Role = "client"
	RoleDriver Role = "driver"
	RoleAdmin  Role = "admin"
)

// Actor is the authenticated caller, resolved once by the auth middleware
// and threaded explicitly through every operation.
type Actor struct {
	ID   primitive.ObjectID `json:"id"`
	Role Role               `json:"role"`
}

func (a Actor) IsAdmin() bool  { return a.Role == RoleAdmin }
func (a Actor) IsDriver() bool { return a.Role == RoleDriver }
func (a Actor) IsClient() bool { return a.Role == RoleClient }
