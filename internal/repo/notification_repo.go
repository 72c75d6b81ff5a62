package repo

import (
	"context"
	"time"

	"github.com/tazhibayda/social-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) InsertNotification(ctx context.Context, n *domain.Notification) error {
	n.CreatedAt = time.Now().UTC()
	res, err := s.colNotifications.InsertOne(ctx, n)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid
	}
	return nil
}

func (s *Store) ListNotifications(ctx context.Context, userID primitive.ObjectID) ([]domain.Notification, error) {
	cur, err := s.colNotifications.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Notification
	for cur.Next(ctx) {
		var n domain.Notification
		if err := cur.Decode(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, cur.Err()
}
