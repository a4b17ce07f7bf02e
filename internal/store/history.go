package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/anshul/guessquest/internal/models"
)

// HistoryStore handles completed-round documents in MongoDB.
type HistoryStore struct {
	col *mongo.Collection
}

func NewHistoryStore(db *mongo.Database) *HistoryStore {
	return &HistoryStore{col: db.Collection("game_history")}
}

// InsertHistory writes one completed-round record.
func (s *HistoryStore) InsertHistory(ctx context.Context, rec *models.HistoryRecord) (string, error) {
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = time.Now().UTC()
	}
	res, err := s.col.InsertOne(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("insert history: %w", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

// Leaderboard returns up to limit records ordered by fewest attempts,
// ties broken by earliest finish, each joined with its owner's identity.
// Records whose user no longer exists (an expired guest) are dropped by
// the $unwind; that read-time loss is intentional.
func (s *HistoryStore) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{
			{Key: "attempts", Value: 1},
			{Key: "finished_at", Value: 1},
		}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "users"},
			{Key: "localField", Value: "user_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "player"},
		}}},
		{{Key: "$unwind", Value: "$player"}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "username", Value: "$player.username"},
			{Key: "is_guest", Value: "$player.is_guest"},
			{Key: "attempts_taken", Value: "$attempts"},
			{Key: "range_min", Value: "$range_min"},
			{Key: "range_max", Value: "$range_max"},
			{Key: "finished_at", Value: "$finished_at"},
		}}},
	}

	cur, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("leaderboard aggregate: %w", err)
	}
	defer cur.Close(ctx)

	var entries []models.LeaderboardEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
