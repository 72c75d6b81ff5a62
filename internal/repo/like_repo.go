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

func (s *Store) FindLike(ctx context.Context, postID, userID primitive.ObjectID) (*domain.Like, error) {
	var l domain.Like
	err := s.colLikes.FindOne(ctx, bson.M{"post_id": postID, "user_id": userID}).Decode(&l)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &l, err
}

// SetLiked upserts the (post,user) like row with the given flag.
// Re-liking recycles the previous row instead of inserting a new one.
func (s *Store) SetLiked(ctx context.Context, postID, userID primitive.ObjectID, liked bool) error {
	now := time.Now().UTC()
	_, err := s.colLikes.UpdateOne(ctx,
		bson.M{"post_id": postID, "user_id": userID},
		bson.M{
			"$set":         bson.M{"is_liked": liked, "updated_at": now},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *Store) ListLikes(ctx context.Context, postID primitive.ObjectID) ([]domain.Like, error) {
	cur, err := s.colLikes.Find(ctx, bson.M{"post_id": postID, "is_liked": true})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Like
	for cur.Next(ctx) {
		var l domain.Like
		if err := cur.Decode(&l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, cur.Err()
}
