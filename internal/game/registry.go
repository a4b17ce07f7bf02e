package game

import (
	"sync"
	"time"
)

// Round is one in-progress guessing round. The lower bound is always 1.
type Round struct {
	Target      int
	Attempts    int
	RangeMin    int
	RangeMax    int
	StartedAt   time.Time
	LastGuessAt time.Time
}

// Registry owns the set of active rounds, keyed by user id. Access to a
// given identity's round is serialized: Update holds that identity's lock
// for the duration of fn, so a guess can never be scored against a secret
// that a concurrent start just replaced, and no increment is lost.
// Different identities only contend on the short map lookup.
type Registry struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	mu    sync.Mutex
	round *Round
	// gone marks a slot Sweep has unlinked from the map; an Update that
	// raced the sweep must re-look-up rather than write into the orphan.
	gone bool
}

func NewRegistry() *Registry {
	return &Registry{slots: make(map[string]*slot)}
}

func (r *Registry) slot(userID string) *slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[userID]
	if !ok {
		s = &slot{}
		r.slots[userID] = s
	}
	return s
}

// Update runs fn under userID's lock. fn receives the active round, or nil
// if there is none; whatever fn returns becomes the new state, with nil
// removing the round.
func (r *Registry) Update(userID string, fn func(*Round) *Round) {
	for {
		s := r.slot(userID)
		s.mu.Lock()
		if s.gone {
			s.mu.Unlock()
			continue
		}
		s.round = fn(s.round)
		s.mu.Unlock()
		return
	}
}

// Get returns a snapshot of userID's active round.
func (r *Registry) Get(userID string) (Round, bool) {
	r.mu.Lock()
	s, ok := r.slots[userID]
	r.mu.Unlock()
	if !ok {
		return Round{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.round == nil {
		return Round{}, false
	}
	return *s.round, true
}

// Len reports the number of active rounds.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, s := range r.slots {
		s.mu.Lock()
		if s.round != nil {
			n++
		}
		s.mu.Unlock()
	}
	return n
}

// Sweep removes rounds whose last activity predates cutoff, along with any
// empty slots left behind by won rounds. Returns the number of rounds
// evicted.
func (r *Registry) Sweep(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for userID, s := range r.slots {
		s.mu.Lock()
		switch {
		case s.round == nil:
			s.gone = true
			delete(r.slots, userID)
		case s.round.LastGuessAt.Before(cutoff):
			s.round = nil
			s.gone = true
			delete(r.slots, userID)
			evicted++
		}
		s.mu.Unlock()
	}
	return evicted
}
