package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ConnectionStatusPending  = "pending"
	ConnectionStatusAccepted = "accepted"
	ConnectionStatusRejected = "rejected"
)

// Connection is a directed friend-request record between two users.
// PairKey canonicalizes the unordered pair so a unique index can rule
// out duplicate documents regardless of direction.
type Connection struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PairKey     string             `bson:"pair_key"      json:"-"`
	RequesterID primitive.ObjectID `bson:"requester_id"  json:"requester_id"`
	ReceiverID  primitive.ObjectID `bson:"receiver_id"   json:"receiver_id"`
	Status      string             `bson:"status"        json:"status"`
	Message     string             `bson:"message,omitempty" json:"message,omitempty"`
	AcceptedAt  *time.Time         `bson:"accepted_at,omitempty" json:"accepted_at,omitempty"`
	RejectedAt  *time.Time         `bson:"rejected_at,omitempty" json:"rejected_at,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"    json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"    json:"updated_at"`
}

// PairKey returns the canonical key for an unordered user pair:
// the two hex ids joined in lexicographic order.
func PairKey(a, b primitive.ObjectID) string {
	x, y := a.Hex(), b.Hex()
	if x > y {
		x, y = y, x
	}
	return x + ":" + y
}

// ConnectionCounts aggregates a user's relationships per status for
// dashboard views.
type ConnectionCounts struct {
	PendingReceived int64 `json:"pending_received"`
	PendingSent     int64 `json:"pending_sent"`
	Accepted        int64 `json:"accepted"`
}
