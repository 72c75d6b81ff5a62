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

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	res, err := s.colUsers.InsertOne(ctx, u)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

func (s *Store) FindUserByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	var u domain.User
	err := s.colUsers.FindOne(ctx, bson.M{"external_id": externalID}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &u, err
}

func (s *Store) FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var u domain.User
	err := s.colUsers.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &u, err
}

// UpsertUserByExternalID applies an identity-provider snapshot
// (webhook user.created / user.updated) to the local record.
func (s *Store) UpsertUserByExternalID(ctx context.Context, externalID string, name, email, profileImage string, verified bool) error {
	now := time.Now().UTC()
	_, err := s.colUsers.UpdateOne(ctx,
		bson.M{"external_id": externalID},
		bson.M{
			"$set": bson.M{
				"name":          name,
				"email":         email,
				"profile_image": profileImage,
				"verified":      verified,
				"updated_at":    now,
			},
			"$setOnInsert": bson.M{
				"external_id": externalID,
				"bio":         "",
				"is_online":   false,
				"created_at":  now,
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *Store) DeleteUserByExternalID(ctx context.Context, externalID string) (bool, error) {
	res, err := s.colUsers.DeleteOne(ctx, bson.M{"external_id": externalID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

// UpdateUserProfile sets only the provided fields; empty strings leave
// the current value in place, matching the original profile-update
// semantics.
func (s *Store) UpdateUserProfile(ctx context.Context, id primitive.ObjectID, name, bio, profileImage string) (*domain.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if name != "" {
		set["name"] = name
	}
	if bio != "" {
		set["bio"] = bio
	}
	if profileImage != "" {
		set["profile_image"] = profileImage
	}
	res := s.colUsers.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var u domain.User
	if err := res.Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// PublicProfiles resolves a batch of user ids to their public fields.
// Missing ids are simply absent from the result map.
func (s *Store) PublicProfiles(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]domain.PublicProfile, error) {
	out := make(map[primitive.ObjectID]domain.PublicProfile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.colUsers.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var u domain.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out[u.ID] = u.Public()
	}
	return out, cur.Err()
}
