package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Like keeps one row per (post, user). Unliking flips IsLiked instead of
// deleting the row, so re-liking recycles the same document.
type Like struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID    primitive.ObjectID `bson:"post_id"  json:"post_id"`
	UserID    primitive.ObjectID `bson:"user_id"  json:"user_id"`
	IsLiked   bool               `bson:"is_liked" json:"is_liked"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
