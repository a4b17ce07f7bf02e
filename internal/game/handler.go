package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/anshul/guessquest/internal/models"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Handler holds game HTTP handlers.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Start handles POST /api/game/start.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req models.StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	res, err := h.service.Start(r.Context(), req.UserID, req.Max)
	switch {
	case errors.Is(err, ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"message": "Authentication required to start a game.",
		})
		return
	case errors.Is(err, ErrInvalidRange):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": "Invalid range. Max range must be a whole number between 10 and 100.",
		})
		return
	case err != nil:
		http.Error(w, `{"message":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("New game started. Guess a number between %d and %d.", res.RangeMin, res.RangeMax),
		"range":   fmt.Sprintf("%d-%d", res.RangeMin, res.RangeMax),
	})
}

// Guess handles POST /api/game/guess.
func (h *Handler) Guess(w http.ResponseWriter, r *http.Request) {
	var req models.GuessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.Guess == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": "User ID and guess are required.",
		})
		return
	}

	res, err := h.service.Guess(r.Context(), req.UserID, *req.Guess)
	switch {
	case errors.Is(err, ErrNoActiveRound):
		writeJSON(w, http.StatusNotFound, map[string]string{
			"message": "No active game found. Please start a new game.",
		})
		return
	case err != nil:
		http.Error(w, `{"message":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	message := res.Hint
	if res.Status == StatusWon {
		if res.Saved {
			message = fmt.Sprintf("Correct! Score saved successfully in %d attempts.", res.Attempts)
		} else {
			message = fmt.Sprintf("Correct! You won in %d attempts, but score could not be saved.", res.Attempts)
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  message,
		"status":   res.Status,
		"attempts": res.Attempts,
	})
}

// Leaderboard handles GET /api/game/leaderboard.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := defaultLeaderboardLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"message": "limit must be a positive whole number",
			})
			return
		}
		limit = parsed
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	entries, err := h.service.Leaderboard(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Failed to retrieve leaderboard data.",
		})
		return
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
