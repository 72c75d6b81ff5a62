package repo

import (
	"context"
	"time"

	"github.com/tazhibayda/social-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindConnectionBetween returns the single document for the unordered
// pair {a,b}, regardless of direction, or nil.
func (s *Store) FindConnectionBetween(ctx context.Context, a, b primitive.ObjectID) (*domain.Connection, error) {
	var c domain.Connection
	err := s.colConnections.FindOne(ctx, bson.M{"pair_key": domain.PairKey(a, b)}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &c, err
}

// InsertConnection creates a fresh pending document. A duplicate on the
// pair_key unique index comes back as ErrDuplicatePair so the caller
// can re-read and report the real state.
func (s *Store) InsertConnection(ctx context.Context, c *domain.Connection) error {
	now := time.Now().UTC()
	c.PairKey = domain.PairKey(c.RequesterID, c.ReceiverID)
	c.CreatedAt = now
	c.UpdatedAt = now
	res, err := s.colConnections.InsertOne(ctx, c)
	if err != nil {
		if IsDup(err) {
			return ErrDuplicatePair
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid
	}
	return nil
}

// RecycleConnection resets a rejected document back to pending with a
// possibly reversed direction and a fresh message, clearing stale
// accepted/rejected stamps.
func (s *Store) RecycleConnection(ctx context.Context, id, requester, receiver primitive.ObjectID, message string) (*domain.Connection, error) {
	res := s.colConnections.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": domain.ConnectionStatusRejected},
		bson.M{
			"$set": bson.M{
				"requester_id": requester,
				"receiver_id":  receiver,
				"status":       domain.ConnectionStatusPending,
				"message":      message,
				"updated_at":   time.Now().UTC(),
			},
			"$unset": bson.M{"accepted_at": "", "rejected_at": ""},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var c domain.Connection
	if err := res.Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) MarkConnectionAccepted(ctx context.Context, requester, receiver primitive.ObjectID) (*domain.Connection, error) {
	return s.resolvePending(ctx, requester, receiver, domain.ConnectionStatusAccepted, "accepted_at")
}

func (s *Store) MarkConnectionRejected(ctx context.Context, requester, receiver primitive.ObjectID) (*domain.Connection, error) {
	return s.resolvePending(ctx, requester, receiver, domain.ConnectionStatusRejected, "rejected_at")
}

func (s *Store) resolvePending(ctx context.Context, requester, receiver primitive.ObjectID, status, stampField string) (*domain.Connection, error) {
	res := s.colConnections.FindOneAndUpdate(ctx,
		bson.M{
			"requester_id": requester,
			"receiver_id":  receiver,
			"status":       domain.ConnectionStatusPending,
		},
		bson.M{"$set": bson.M{
			"status":     status,
			stampField:   time.Now().UTC(),
			"updated_at": time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var c domain.Connection
	if err := res.Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) DeletePendingConnection(ctx context.Context, requester, receiver primitive.ObjectID) (bool, error) {
	res, err := s.colConnections.DeleteOne(ctx, bson.M{
		"requester_id": requester,
		"receiver_id":  receiver,
		"status":       domain.ConnectionStatusPending,
	})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

func (s *Store) DeleteAcceptedConnection(ctx context.Context, id, caller primitive.ObjectID) (bool, error) {
	res, err := s.colConnections.DeleteOne(ctx, bson.M{
		"_id":    id,
		"status": domain.ConnectionStatusAccepted,
		"$or": bson.A{
			bson.M{"requester_id": caller},
			bson.M{"receiver_id": caller},
		},
	})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

func (s *Store) PendingConnectionsFor(ctx context.Context, receiver primitive.ObjectID) ([]domain.Connection, error) {
	return s.listConnections(ctx, bson.M{
		"receiver_id": receiver,
		"status":      domain.ConnectionStatusPending,
	})
}

func (s *Store) SentConnectionsBy(ctx context.Context, requester primitive.ObjectID) ([]domain.Connection, error) {
	return s.listConnections(ctx, bson.M{
		"requester_id": requester,
		"status":       domain.ConnectionStatusPending,
	})
}

func (s *Store) AcceptedConnectionsFor(ctx context.Context, user primitive.ObjectID) ([]domain.Connection, error) {
	return s.listConnections(ctx, bson.M{
		"status": domain.ConnectionStatusAccepted,
		"$or": bson.A{
			bson.M{"requester_id": user},
			bson.M{"receiver_id": user},
		},
	})
}

func (s *Store) listConnections(ctx context.Context, filter bson.M) ([]domain.Connection, error) {
	cur, err := s.colConnections.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Connection
	for cur.Next(ctx) {
		var c domain.Connection
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, cur.Err()
}

func (s *Store) ConnectionCounts(ctx context.Context, user primitive.ObjectID) (domain.ConnectionCounts, error) {
	var counts domain.ConnectionCounts
	var err error
	if counts.PendingReceived, err = s.colConnections.CountDocuments(ctx, bson.M{
		"receiver_id": user, "status": domain.ConnectionStatusPending,
	}); err != nil {
		return counts, err
	}
	if counts.PendingSent, err = s.colConnections.CountDocuments(ctx, bson.M{
		"requester_id": user, "status": domain.ConnectionStatusPending,
	}); err != nil {
		return counts, err
	}
	counts.Accepted, err = s.colConnections.CountDocuments(ctx, bson.M{
		"status": domain.ConnectionStatusAccepted,
		"$or":    bson.A{bson.M{"requester_id": user}, bson.M{"receiver_id": user}},
	})
	return counts, err
}
