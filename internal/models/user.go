package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a user account in Accountability Buddy.
type User struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Friends        []primitive.ObjectID `bson:"friends,omitempty" json:"friends,omitempty"`
	Username       string               `bson:"username" json:"username"`
	Name           string               `bson:"name" json:"name"`
	Email          string               `bson:"email" json:"email"`
	HashedPassword string               `bson:"hashed_password" json:"-"`
	Role           string               `bson:"role" json:"role"`
	ProfileImage   string               `bson:"profile_image,omitempty" json:"profile_image,omitempty"`
	Points         int                  `bson:"points" json:"points"`
	LastActive     time.Time            `bson:"last_active" json:"last_active"`
	CreatedAt      time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at" json:"updated_at"`
}

// UserSummary is the public projection of a user embedded in expanded
// goal and invitation responses.
type UserSummary struct {
	ID           primitive.ObjectID `json:"id"`
	Username     string             `json:"username"`
	Name         string             `json:"name"`
	ProfileImage string             `json:"profile_image,omitempty"`
}

// Summary projects a user to its public summary.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		ProfileImage: u.ProfileImage,
	}
}
