package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/anshul/guessquest/internal/clock"
	"github.com/anshul/guessquest/internal/logging"
	"github.com/anshul/guessquest/internal/models"
	"github.com/anshul/guessquest/internal/random"
	"github.com/anshul/guessquest/internal/store"
)

type ServiceSuite struct {
	suite.Suite
	mem     *store.Memory
	rng     *random.Mock
	clock   *clock.Mock
	rounds  *Registry
	service *Service
	ctx     context.Context
	userID  string
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.mem = store.NewMemory()
	s.rng = random.NewMock()
	s.clock = clock.NewMock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.rounds = NewRegistry()
	s.service = NewService(s.rounds, s.mem, s.mem, s.rng, s.clock, logging.Discard())
	s.ctx = context.Background()

	user, err := s.mem.CreateUser(s.ctx, "alice", "hash", false)
	s.Require().NoError(err)
	s.userID = user.ID.Hex()
}

// startWithTarget starts a round whose secret is fixed by queueing the rng.
func (s *ServiceSuite) startWithTarget(target, max int) {
	s.rng.QueueIntn(target - 1)
	_, err := s.service.Start(s.ctx, s.userID, max)
	s.Require().NoError(err)
}

// Start tests

func (s *ServiceSuite) TestStartRequiresUser() {
	_, err := s.service.Start(s.ctx, "", 50)
	s.ErrorIs(err, ErrUnauthenticated)
}

func (s *ServiceSuite) TestStartRangeBoundaries() {
	for _, max := range []int{9, 101, 0, -5} {
		_, err := s.service.Start(s.ctx, s.userID, max)
		s.ErrorIs(err, ErrInvalidRange, "max=%d", max)
	}
	for _, max := range []int{10, 100} {
		res, err := s.service.Start(s.ctx, s.userID, max)
		s.Require().NoError(err, "max=%d", max)
		s.Equal(1, res.RangeMin)
		s.Equal(max, res.RangeMax)
	}
}

func (s *ServiceSuite) TestStartSecretWithinBounds() {
	svc := NewService(NewRegistry(), s.mem, s.mem, random.New(), s.clock, logging.Discard())
	for i := 0; i < 10000; i++ {
		_, err := svc.Start(s.ctx, s.userID, 50)
		s.Require().NoError(err)
		round, ok := svc.rounds.Get(s.userID)
		s.Require().True(ok)
		s.GreaterOrEqual(round.Target, 1)
		s.LessOrEqual(round.Target, 50)
	}
}

func (s *ServiceSuite) TestStartOverwritesExistingRound() {
	s.startWithTarget(50, 50)
	s.startWithTarget(20, 50)

	// A guess matching the discarded first secret must not win.
	res, err := s.service.Guess(s.ctx, s.userID, 50)
	s.Require().NoError(err)
	s.Equal(StatusInProgress, res.Status)
	s.Equal("try lower", res.Hint)
	s.Equal(0, s.mem.HistoryCount())
}

// Guess tests

func (s *ServiceSuite) TestGuessWithoutStart() {
	_, err := s.service.Guess(s.ctx, s.userID, 25)
	s.ErrorIs(err, ErrNoActiveRound)
}

func (s *ServiceSuite) TestGuessHints() {
	s.startWithTarget(50, 100)

	res, err := s.service.Guess(s.ctx, s.userID, 10)
	s.Require().NoError(err)
	s.Equal(StatusInProgress, res.Status)
	s.Equal("try higher", res.Hint)
	s.Equal(1, res.Attempts)

	res, err = s.service.Guess(s.ctx, s.userID, 90)
	s.Require().NoError(err)
	s.Equal("try lower", res.Hint)
	s.Equal(2, res.Attempts)
}

func (s *ServiceSuite) TestGuessesAtBoundsAreValid() {
	s.startWithTarget(50, 100)

	res, err := s.service.Guess(s.ctx, s.userID, 1)
	s.Require().NoError(err)
	s.Equal("try higher", res.Hint)

	res, err = s.service.Guess(s.ctx, s.userID, 100)
	s.Require().NoError(err)
	s.Equal("try lower", res.Hint)
}

func (s *ServiceSuite) TestWinningGuess() {
	s.startWithTarget(50, 50)

	res, err := s.service.Guess(s.ctx, s.userID, 50)
	s.Require().NoError(err)
	s.Equal(StatusWon, res.Status)
	s.Equal(1, res.Attempts)
	s.True(res.Saved)

	_, active := s.rounds.Get(s.userID)
	s.False(active, "round should be removed after a win")

	entries, err := s.mem.Leaderboard(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("alice", entries[0].Username)
	s.Equal(1, entries[0].AttemptsTaken)
	s.Equal(1, entries[0].RangeMin)
	s.Equal(50, entries[0].RangeMax)
	s.Equal(s.clock.Current, entries[0].FinishedAt)
}

func (s *ServiceSuite) TestWinAfterSeveralAttempts() {
	s.startWithTarget(30, 50)

	_, _ = s.service.Guess(s.ctx, s.userID, 10)
	_, _ = s.service.Guess(s.ctx, s.userID, 40)
	res, err := s.service.Guess(s.ctx, s.userID, 30)
	s.Require().NoError(err)
	s.Equal(StatusWon, res.Status)
	s.Equal(3, res.Attempts)

	entries, err := s.mem.Leaderboard(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(3, entries[0].AttemptsTaken)
}

func (s *ServiceSuite) TestWinSurvivesPersistenceFailure() {
	svc := NewService(s.rounds, failingHistory{}, s.mem, s.rng, s.clock, logging.Discard())
	s.rng.QueueIntn(49)
	_, err := svc.Start(s.ctx, s.userID, 50)
	s.Require().NoError(err)

	res, err := svc.Guess(s.ctx, s.userID, 50)
	s.Require().NoError(err)
	s.Equal(StatusWon, res.Status)
	s.False(res.Saved)

	_, active := s.rounds.Get(s.userID)
	s.False(active, "round should be removed even when saving fails")
}

func (s *ServiceSuite) TestGuessAfterWinNeedsNewRound() {
	s.startWithTarget(50, 50)
	_, err := s.service.Guess(s.ctx, s.userID, 50)
	s.Require().NoError(err)

	_, err = s.service.Guess(s.ctx, s.userID, 50)
	s.ErrorIs(err, ErrNoActiveRound)
}

// Leaderboard tests

func (s *ServiceSuite) TestLeaderboardOrdering() {
	user, err := s.mem.CreateUser(s.ctx, "bob", "hash", false)
	s.Require().NoError(err)

	base := s.clock.Current
	for _, rec := range []struct {
		attempts int
		at       time.Time
	}{
		{3, base.Add(10 * time.Second)},
		{1, base.Add(20 * time.Second)},
		{1, base.Add(5 * time.Second)},
	} {
		_, err := s.mem.InsertHistory(s.ctx, &models.HistoryRecord{
			UserID:     user.ID,
			Attempts:   rec.attempts,
			RangeMin:   1,
			RangeMax:   50,
			Target:     25,
			Won:        true,
			FinishedAt: rec.at,
		})
		s.Require().NoError(err)
	}

	entries, err := s.service.Leaderboard(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(1, entries[0].AttemptsTaken)
	s.Equal(base.Add(5*time.Second), entries[0].FinishedAt)
	s.Equal(1, entries[1].AttemptsTaken)
	s.Equal(base.Add(20*time.Second), entries[1].FinishedAt)
}

func (s *ServiceSuite) TestLeaderboardDropsRecordsOfExpiredUsers() {
	guest, err := s.mem.CreateUser(s.ctx, "Guest_ab12cd34", "", true)
	s.Require().NoError(err)
	_, err = s.mem.InsertHistory(s.ctx, &models.HistoryRecord{
		UserID:   guest.ID,
		Attempts: 1, RangeMin: 1, RangeMax: 50, Target: 7, Won: true,
		FinishedAt: s.clock.Current,
	})
	s.Require().NoError(err)

	s.mem.DeleteUser(guest.ID)

	entries, err := s.service.Leaderboard(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(entries)
}

// failingHistory rejects every insert to exercise the non-fatal save path.
type failingHistory struct{}

func (failingHistory) InsertHistory(ctx context.Context, rec *models.HistoryRecord) (string, error) {
	return "", errors.New("history store unavailable")
}

func (failingHistory) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	return nil, errors.New("history store unavailable")
}

var _ HistoryStore = failingHistory{}
