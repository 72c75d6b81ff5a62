package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MessageStatusSent = "sent"
	MessageStatusSeen = "seen"
)

// Message is a direct chat message. Fetching a conversation marks the
// counterpart's "sent" messages as "seen".
type Message struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID   primitive.ObjectID `bson:"sender_id"   json:"sender_id"`
	ReceiverID primitive.ObjectID `bson:"receiver_id" json:"receiver_id"`
	Text       string             `bson:"text"        json:"text"`
	Status     string             `bson:"status"      json:"status"`
	CreatedAt  time.Time          `bson:"created_at"  json:"created_at"`
}
