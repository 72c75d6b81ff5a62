package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the local mirror of an identity-provider account. It is
// created lazily on the first authenticated request or eagerly by the
// provider's user.created webhook.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ExternalID   string             `bson:"external_id"   json:"external_id"` // identity-provider user id
	Name         string             `bson:"name"          json:"name"`
	Email        string             `bson:"email"         json:"email"`
	ProfileImage string             `bson:"profile_image" json:"profile_image"`
	Bio          string             `bson:"bio"           json:"bio"`
	IsOnline     bool               `bson:"is_online"     json:"is_online"`
	Verified     bool               `bson:"verified"      json:"verified"`
	CreatedAt    time.Time          `bson:"created_at"    json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"    json:"updated_at"`
}

// PublicProfile is the subset of User exposed when enriching other
// users' connections, comments and likes.
type PublicProfile struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	ProfileImage string             `bson:"profile_image" json:"profile_image"`
	IsOnline     bool               `bson:"is_online" json:"is_online"`
}

func (u User) Public() PublicProfile {
	return PublicProfile{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		ProfileImage: u.ProfileImage,
		IsOnline:     u.IsOnline,
	}
}
