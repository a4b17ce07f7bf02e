package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anshul/guessquest/internal/models"
)

// Memory is an in-memory stand-in for the Mongo-backed stores, mirroring
// their semantics: unique usernames, leaderboard ordering by ascending
// attempts with earliest-finish tie-break, and join-time dropping of
// records whose user is gone.
type Memory struct {
	mu      sync.RWMutex
	users   map[primitive.ObjectID]*models.User
	byName  map[string]primitive.ObjectID
	history []models.HistoryRecord
}

func NewMemory() *Memory {
	return &Memory{
		users:  make(map[primitive.ObjectID]*models.User),
		byName: make(map[string]primitive.ObjectID),
	}
}

func (m *Memory) CreateUser(ctx context.Context, username, passwordHash string, isGuest bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byName[username]; exists {
		return nil, models.ErrUsernameTaken
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:        primitive.NewObjectID(),
		Username:  username,
		IsGuest:   isGuest,
		CreatedAt: now,
	}
	if isGuest {
		user.LastActivity = now
	} else {
		user.PasswordHash = passwordHash
	}

	m.users[user.ID] = user
	m.byName[username] = user.ID

	clone := *user
	return &clone, nil
}

func (m *Memory) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byName[username]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	clone := *m.users[id]
	return &clone, nil
}

func (m *Memory) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrUserNotFound
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[oid]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *Memory) TouchGuest(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if user, ok := m.users[oid]; ok && user.IsGuest {
		user.LastActivity = time.Now().UTC()
	}
	return nil
}

// DeleteUser removes a user outright, as the TTL index does to an expired
// guest.
func (m *Memory) DeleteUser(id primitive.ObjectID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user, ok := m.users[id]; ok {
		delete(m.byName, user.Username)
		delete(m.users, id)
	}
}

func (m *Memory) InsertHistory(ctx context.Context, rec *models.HistoryRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = time.Now().UTC()
	}
	stored := *rec
	stored.ID = primitive.NewObjectID()
	m.history = append(m.history, stored)
	return stored.ID.Hex(), nil
}

func (m *Memory) HistoryCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.history)
}

func (m *Memory) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ranked := make([]models.HistoryRecord, len(m.history))
	copy(ranked, m.history)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Attempts != ranked[j].Attempts {
			return ranked[i].Attempts < ranked[j].Attempts
		}
		return ranked[i].FinishedAt.Before(ranked[j].FinishedAt)
	})
	if limit < len(ranked) {
		ranked = ranked[:limit]
	}

	var entries []models.LeaderboardEntry
	for _, rec := range ranked {
		user, ok := m.users[rec.UserID]
		if !ok {
			// Owner expired; dropped at read time like the $unwind does.
			continue
		}
		entries = append(entries, models.LeaderboardEntry{
			Username:      user.Username,
			IsGuest:       user.IsGuest,
			AttemptsTaken: rec.Attempts,
			RangeMin:      rec.RangeMin,
			RangeMax:      rec.RangeMax,
			FinishedAt:    rec.FinishedAt,
		})
	}
	return entries, nil
}
