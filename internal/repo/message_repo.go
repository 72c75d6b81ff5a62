package repo

import (
	"context"
	"time"

	"github.com/tazhibayda/social-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) InsertMessage(ctx context.Context, m *domain.Message) error {
	m.CreatedAt = time.Now().UTC()
	res, err := s.colMessages.InsertOne(ctx, m)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		m.ID = oid
	}
	return nil
}

// MarkConversationSeen flips the counterpart's "sent" messages to
// "seen" when the receiver opens the conversation.
func (s *Store) MarkConversationSeen(ctx context.Context, sender, receiver primitive.ObjectID) error {
	_, err := s.colMessages.UpdateMany(ctx,
		bson.M{
			"sender_id":   sender,
			"receiver_id": receiver,
			"status":      domain.MessageStatusSent,
		},
		bson.M{"$set": bson.M{"status": domain.MessageStatusSeen}},
	)
	return err
}

// Conversation lists all messages between the pair in both directions,
// oldest first.
func (s *Store) Conversation(ctx context.Context, a, b primitive.ObjectID) ([]domain.Message, error) {
	cur, err := s.colMessages.Find(ctx,
		bson.M{"$or": bson.A{
			bson.M{"sender_id": a, "receiver_id": b},
			bson.M{"sender_id": b, "receiver_id": a},
		}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Message
	for cur.Next(ctx) {
		var m domain.Message
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, cur.Err()
}
