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

func (s *Store) InsertComment(ctx context.Context, c *domain.Comment) error {
	c.CreatedAt = time.Now().UTC()
	res, err := s.colComments.InsertOne(ctx, c)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid
	}
	return nil
}

func (s *Store) FindCommentByID(ctx context.Context, id primitive.ObjectID) (*domain.Comment, error) {
	var c domain.Comment
	err := s.colComments.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &c, err
}

func (s *Store) SetCommentMessage(ctx context.Context, id primitive.ObjectID, message string) error {
	_, err := s.colComments.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"message": message}},
	)
	return err
}

// SoftDeleteComment marks a live comment deleted. Returns false when the
// comment is already deleted or missing, so a double delete reads as
// not-found and never decrements the post counter twice.
func (s *Store) SoftDeleteComment(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.colComments.UpdateOne(ctx,
		bson.M{"_id": id, "is_deleted": false},
		bson.M{"$set": bson.M{"is_deleted": true}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// TopLevelComments returns non-deleted parent comments for a post,
// newest first.
func (s *Store) TopLevelComments(ctx context.Context, postID primitive.ObjectID) ([]domain.Comment, error) {
	cur, err := s.colComments.Find(ctx,
		bson.M{"post_id": postID, "parent_id": nil, "is_deleted": false},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Comment
	for cur.Next(ctx) {
		var c domain.Comment
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, cur.Err()
}

// RepliesByParent fetches every non-deleted reply under the given
// parents in one query, grouped per parent, oldest first.
func (s *Store) RepliesByParent(ctx context.Context, parentIDs []primitive.ObjectID) (map[primitive.ObjectID][]domain.Comment, error) {
	out := make(map[primitive.ObjectID][]domain.Comment, len(parentIDs))
	if len(parentIDs) == 0 {
		return out, nil
	}
	cur, err := s.colComments.Find(ctx,
		bson.M{"parent_id": bson.M{"$in": parentIDs}, "is_deleted": false},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var c domain.Comment
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		if c.ParentID != nil {
			out[*c.ParentID] = append(out[*c.ParentID], c)
		}
	}
	return out, cur.Err()
}
