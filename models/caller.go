package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Caller is the authenticated identity of the request, taken from the
// validated token. Every service operation receives it explicitly.
type Caller struct {
	ID    primitive.ObjectID
	Email string
	Role  Role
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

func (c Caller) IsIntern() bool {
	return c.Role == RoleIntern
}
