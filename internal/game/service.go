package game

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anshul/guessquest/internal/clock"
	"github.com/anshul/guessquest/internal/models"
	"github.com/anshul/guessquest/internal/random"
)

const (
	rangeMin    = 1
	minRangeMax = 10
	maxRangeMax = 100
)

// Round statuses reported to the client.
const (
	StatusInProgress = "in_progress"
	StatusWon        = "won"
)

// HistoryStore persists completed rounds and serves the leaderboard.
type HistoryStore interface {
	InsertHistory(ctx context.Context, rec *models.HistoryRecord) (string, error)
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

// UserStore is the slice of the credential store the game needs: keeping
// guests alive while they play.
type UserStore interface {
	TouchGuest(ctx context.Context, id string) error
}

// StartResult is the effective range of a freshly started round.
type StartResult struct {
	RangeMin int
	RangeMax int
}

// GuessResult is the outcome of scoring one guess.
type GuessResult struct {
	Status   string
	Attempts int
	Hint     string
	// Saved is false when a won round's history record could not be
	// persisted. The win itself is still reported.
	Saved bool
}

// Service runs the round state machine over an injected Registry.
type Service struct {
	rounds  *Registry
	history HistoryStore
	users   UserStore
	rng     random.Random
	clock   clock.Clock
	logger  *slog.Logger
}

func NewService(rounds *Registry, history HistoryStore, users UserStore, rng random.Random, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		rounds:  rounds,
		history: history,
		users:   users,
		rng:     rng,
		clock:   clk,
		logger:  logger,
	}
}

// Start begins a fresh round for userID with a secret drawn uniformly from
// [1, max]. Any round already in progress for this identity is discarded
// without emitting history.
func (s *Service) Start(ctx context.Context, userID string, max int) (StartResult, error) {
	if userID == "" {
		return StartResult{}, ErrUnauthenticated
	}
	if max < minRangeMax || max > maxRangeMax {
		return StartResult{}, ErrInvalidRange
	}

	now := s.clock.Now()
	target := rangeMin + s.rng.Intn(max-rangeMin+1)

	s.rounds.Update(userID, func(*Round) *Round {
		return &Round{
			Target:      target,
			Attempts:    0,
			RangeMin:    rangeMin,
			RangeMax:    max,
			StartedAt:   now,
			LastGuessAt: now,
		}
	})

	// Best effort: playing counts as activity for guest expiry.
	if err := s.users.TouchGuest(ctx, userID); err != nil {
		s.logger.Warn("touch guest", "user_id", userID, "error", err)
	}

	return StartResult{RangeMin: rangeMin, RangeMax: max}, nil
}

// Guess scores one guess against userID's active round. A winning guess
// persists a history record and removes the round; a persistence failure
// is logged and surfaced via GuessResult.Saved, never as an error.
func (s *Service) Guess(ctx context.Context, userID string, guess int) (GuessResult, error) {
	if userID == "" {
		return GuessResult{}, ErrInvalidInput
	}

	var res GuessResult
	var guessErr error

	s.rounds.Update(userID, func(r *Round) *Round {
		if r == nil {
			guessErr = ErrNoActiveRound
			return nil
		}

		r.Attempts++
		r.LastGuessAt = s.clock.Now()

		switch {
		case guess == r.Target:
			res = GuessResult{Status: StatusWon, Attempts: r.Attempts, Saved: true}
			if err := s.saveWin(ctx, userID, r); err != nil {
				s.logger.Error("save game history", "user_id", userID, "error", err)
				res.Saved = false
			}
			return nil
		case guess < r.Target:
			res = GuessResult{Status: StatusInProgress, Attempts: r.Attempts, Hint: "try higher"}
		default:
			res = GuessResult{Status: StatusInProgress, Attempts: r.Attempts, Hint: "try lower"}
		}
		return r
	})

	return res, guessErr
}

func (s *Service) saveWin(ctx context.Context, userID string, r *Round) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}
	_, err = s.history.InsertHistory(ctx, &models.HistoryRecord{
		UserID:     oid,
		Attempts:   r.Attempts,
		RangeMin:   r.RangeMin,
		RangeMax:   r.RangeMax,
		Target:     r.Target,
		Won:        true,
		FinishedAt: s.clock.Now(),
	})
	return err
}

// Leaderboard returns the limit best completed rounds joined with their
// owners' identities.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	return s.history.Leaderboard(ctx, limit)
}
