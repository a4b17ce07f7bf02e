package game

import "errors"

var (
	// ErrUnauthenticated is returned by Start when no user id was supplied.
	ErrUnauthenticated = errors.New("authentication required to start a game")

	// ErrInvalidRange is returned by Start for a max outside [10,100].
	ErrInvalidRange = errors.New("invalid range: max must be a whole number between 10 and 100")

	// ErrInvalidInput is returned by Guess when the user id is missing.
	ErrInvalidInput = errors.New("user id and guess are required")

	// ErrNoActiveRound is returned by Guess when the user has no round in
	// progress.
	ErrNoActiveRound = errors.New("no active game found")
)
