package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anshul/guessquest/internal/models"
)

// UserStore handles user and guest documents in MongoDB.
type UserStore struct {
	col      *mongo.Collection
	guestTTL time.Duration
}

func NewUserStore(db *mongo.Database, guestTTL time.Duration) *UserStore {
	return &UserStore{col: db.Collection("users"), guestTTL: guestTTL}
}

// EnsureIndexes creates the unique username index and the partial TTL
// index that expires guest documents after the configured inactivity
// window. Username uniqueness is enforced here rather than by a
// check-then-insert so concurrent signups cannot race.
func (s *UserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "last_activity", Value: 1}},
			Options: options.Index().
				SetExpireAfterSeconds(int32(s.guestTTL / time.Second)).
				SetPartialFilterExpression(bson.M{"is_guest": true}),
		},
	})
	if err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	return nil
}

// CreateUser inserts a new user or guest document. passwordHash is empty
// for guests. Returns models.ErrUsernameTaken if the name is in use.
func (s *UserStore) CreateUser(ctx context.Context, username, passwordHash string, isGuest bool) (*models.User, error) {
	now := time.Now().UTC()
	user := &models.User{
		Username:  username,
		IsGuest:   isGuest,
		CreatedAt: now,
	}
	if isGuest {
		// Keys the TTL index; registered users never expire.
		user.LastActivity = now
	} else {
		user.PasswordHash = passwordHash
	}

	res, err := s.col.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return user, nil
}

// GetUserByUsername returns the user with the given name, or
// models.ErrUserNotFound.
func (s *UserStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID returns the user with the given hex id, or
// models.ErrUserNotFound.
func (s *UserStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrUserNotFound
	}
	var user models.User
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// TouchGuest bumps a guest's last-activity timestamp, pushing back its TTL
// expiry. No-op for registered users and unknown ids.
func (s *UserStore) TouchGuest(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	_, err = s.col.UpdateOne(ctx,
		bson.M{"_id": oid, "is_guest": true},
		bson.M{"$set": bson.M{"last_activity": time.Now().UTC()}},
	)
	return err
}
