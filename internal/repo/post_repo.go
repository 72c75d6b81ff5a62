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

func (s *Store) InsertPost(ctx context.Context, p *domain.Post) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	res, err := s.colPosts.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

func (s *Store) FindPostByID(ctx context.Context, id primitive.ObjectID) (*domain.Post, error) {
	var p domain.Post
	err := s.colPosts.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &p, err
}

// PostFilter narrows the public post listing; zero values mean "any".
type PostFilter struct {
	Type     string
	Category string
	Location string
}

func (s *Store) ListPosts(ctx context.Context, f PostFilter) ([]domain.Post, error) {
	filter := bson.M{}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Location != "" {
		filter["location"] = bson.M{"$regex": f.Location, "$options": "i"}
	}
	cur, err := s.colPosts.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Post
	for cur.Next(ctx) {
		var p domain.Post
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, cur.Err()
}

// UpdatePostFields sets only the non-empty fields.
func (s *Store) UpdatePostFields(ctx context.Context, id primitive.ObjectID, fields map[string]string) (*domain.Post, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		if v != "" {
			set[k] = v
		}
	}
	res := s.colPosts.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var p domain.Post
	if err := res.Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) DeletePost(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.colPosts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

// IncrementCommentCount adjusts the denormalized counter. Negative
// deltas only apply while the counter is positive, so it never drops
// below zero.
func (s *Store) IncrementCommentCount(ctx context.Context, id primitive.ObjectID, delta int) error {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["comment_count"] = bson.M{"$gt": 0}
	}
	_, err := s.colPosts.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"comment_count": delta}})
	return err
}

func (s *Store) IncrementLikeCount(ctx context.Context, id primitive.ObjectID, delta int) error {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["like_count"] = bson.M{"$gt": 0}
	}
	_, err := s.colPosts.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"like_count": delta}})
	return err
}
