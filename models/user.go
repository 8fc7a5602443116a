package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleIntern Role = "intern"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleIntern
}

// User is stored in the users collection. Password holds the bcrypt hash and
// is never serialized to clients.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"-"`
	Name        string             `bson:"name" json:"name"`
	Role        Role               `bson:"role" json:"role"`
	CollegeName string             `bson:"collegeName,omitempty" json:"collegeName,omitempty"`
}

// Intern is the public projection returned by the intern listing.
type Intern struct {
	ID          primitive.ObjectID `json:"id"`
	Email       string             `json:"email"`
	Name        string             `json:"name"`
	CollegeName string             `json:"collegeName"`
}

func (u User) AsIntern() Intern {
	return Intern{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		CollegeName: u.CollegeName,
	}
}
