package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HistoryRecord is a document in the game_history collection, written once
// per won round and never mutated.
type HistoryRecord struct {
	ID         primitive.ObjectID `json:"id"          bson:"_id,omitempty"`
	UserID     primitive.ObjectID `json:"user_id"     bson:"user_id"`
	Attempts   int                `json:"attempts"    bson:"attempts"`
	RangeMin   int                `json:"range_min"   bson:"range_min"`
	RangeMax   int                `json:"range_max"   bson:"range_max"`
	Target     int                `json:"target"      bson:"target_number"`
	Won        bool               `json:"won"         bson:"won"`
	FinishedAt time.Time          `json:"finished_at" bson:"finished_at"`
}

// LeaderboardEntry is one row of GET /api/game/leaderboard: a history
// record joined with its owner's identity.
type LeaderboardEntry struct {
	Username      string    `json:"username"       bson:"username"`
	IsGuest       bool      `json:"is_guest"       bson:"is_guest"`
	AttemptsTaken int       `json:"attempts_taken" bson:"attempts_taken"`
	RangeMin      int       `json:"range_min"      bson:"range_min"`
	RangeMax      int       `json:"range_max"      bson:"range_max"`
	FinishedAt    time.Time `json:"finished_at"    bson:"finished_at"`
}

// StartRequest is the JSON body for POST /api/game/start.
type StartRequest struct {
	UserID string `json:"user_id"`
	Max    int    `json:"max"`
}

// GuessRequest is the JSON body for POST /api/game/guess. Guess is a
// pointer so a missing field can be told apart from an actual zero.
type GuessRequest struct {
	UserID string `json:"user_id"`
	Guess  *int   `json:"guess"`
}
