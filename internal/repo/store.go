package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrDuplicatePair = errors.New("duplicate connection pair")

type Store struct {
	Client           *mongo.Client
	DB               *mongo.Database
	colUsers         *mongo.Collection
	colConnections   *mongo.Collection
	colComments      *mongo.Collection
	colPosts         *mongo.Collection
	colLikes         *mongo.Collection
	colMessages      *mongo.Collection
	colNotifications *mongo.Collection
}

func NewStore(ctx context.Context, uri, dbname string) (*Store, error) {
	cli, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetRetryWrites(true).
		SetMaxPoolSize(50),
	)
	if err != nil {
		return nil, err
	}
	if err := cli.Ping(ctx, nil); err != nil {
		return nil, err
	}
	db := cli.Database(dbname)
	return &Store{
		Client:           cli,
		DB:               db,
		colUsers:         db.Collection("users"),
		colConnections:   db.Collection("connections"),
		colComments:      db.Collection("comments"),
		colPosts:         db.Collection("posts"),
		colLikes:         db.Collection("likes"),
		colMessages:      db.Collection("messages"),
		colNotifications: db.Collection("notifications"),
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error { return s.Client.Disconnect(ctx) }

// EnsureIndexes creates the uniqueness and query indexes the handlers
// rely on. The unique pair_key index on connections is the final
// authority against concurrent duplicate requests.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.colUsers.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "external_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_external_id"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
	}); err != nil {
		return err
	}

	if _, err := s.colConnections.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pair_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_pair"),
		},
		{
			Keys:    bson.D{{Key: "receiver_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("receiver_status"),
		},
		{
			Keys:    bson.D{{Key: "requester_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("requester_status"),
		},
	}); err != nil {
		return err
	}

	if _, err := s.colComments.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "post_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("post_created_desc"),
		},
		{
			Keys:    bson.D{{Key: "parent_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("parent_created_asc"),
		},
	}); err != nil {
		return err
	}

	if _, err := s.colLikes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "post_id", Value: 1}, {Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_post_user"),
	}); err != nil {
		return err
	}

	if _, err := s.colMessages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "sender_id", Value: 1}, {Key: "receiver_id", Value: 1}, {Key: "created_at", Value: 1}},
		Options: options.Index().SetName("conversation_asc"),
	}); err != nil {
		return err
	}

	_, err := s.colNotifications.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("user_created_desc"),
	})
	return err
}

// IsDup reports whether err is a Mongo duplicate-key error (code 11000).
func IsDup(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	return false
}
