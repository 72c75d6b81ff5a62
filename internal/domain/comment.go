package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is either a top-level comment (ParentID nil) or a single-depth
// reply. Deleted comments stay in the collection with IsDeleted set and
// are excluded from every read query.
type Comment struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PostID    primitive.ObjectID  `bson:"post_id"   json:"post_id"`
	UserID    primitive.ObjectID  `bson:"user_id"   json:"user_id"`
	Message   string              `bson:"message"   json:"message"`
	ParentID  *primitive.ObjectID `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	IsDeleted bool                `bson:"is_deleted" json:"-"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}

// CommentThread is a top-level comment annotated with its replies and
// resolved author profiles, as returned by the list endpoint.
type CommentThread struct {
	Comment `bson:",inline"`
	User    PublicProfile  `json:"user"`
	Replies []CommentReply `json:"replies"`
}

type CommentReply struct {
	Comment `bson:",inline"`
	User    PublicProfile `json:"user"`
}
