package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PostTypeLost  = "lost"
	PostTypeFound = "found"
)

// Post is a lost/found listing. CommentCount and LikeCount are
// denormalized and maintained best-effort by the comment and like
// services (no transactions, floor of zero on decrement).
type Post struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id"       json:"user_id"`
	Title        string             `bson:"title"         json:"title"`
	Type         string             `bson:"type"          json:"type"`
	Description  string             `bson:"description"   json:"description"`
	Category     string             `bson:"category"      json:"category"`
	Location     string             `bson:"location"      json:"location"`
	ImageURL     string             `bson:"image_url"     json:"image_url"`
	CommentCount int64              `bson:"comment_count" json:"comment_count"`
	LikeCount    int64              `bson:"like_count"    json:"like_count"`
	CreatedAt    time.Time          `bson:"created_at"    json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"    json:"updated_at"`
}

func ValidPostType(t string) bool {
	return t == PostTypeLost || t == PostTypeFound
}
