package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const NotificationTypeComment = "comment"

type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id"   json:"user_id"` // target
	Type      string             `bson:"type"      json:"type"`
	Message   string             `bson:"message"   json:"message"`
	PostID    primitive.ObjectID `bson:"post_id,omitempty"   json:"post_id,omitempty"`
	FromUser  primitive.ObjectID `bson:"from_user,omitempty" json:"from_user,omitempty"`
	IsRead    bool               `bson:"is_read"   json:"is_read"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
