package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/anshul/guessquest/internal/models"
	"github.com/anshul/guessquest/internal/random"
)

const (
	guestPrefix    = "Guest_"
	guestSuffixLen = 8
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string, isGuest bool) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users    UserStore
	sessions *SessionStore
	rng      random.Random
	logger   *slog.Logger
}

func NewHandler(users UserStore, sessions *SessionStore, rng random.Random, logger *slog.Logger) *Handler {
	return &Handler{users: users, sessions: sessions, rng: rng, logger: logger}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Signup registers a new user with a hashed password.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": "Username and password required",
		})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, `{"message":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Username, string(hashed), false)
	if errors.Is(err, models.ErrUsernameTaken) {
		writeJSON(w, http.StatusConflict, map[string]string{
			"message": "Username already taken",
		})
		return
	}
	if err != nil {
		h.logger.Error("signup", "username", req.Username, "error", err)
		http.Error(w, `{"message":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "User created successfully",
		"user_id": user.ID.Hex(),
	})
}

// Guest creates an ephemeral guest identity with a generated username and
// opens a session for it. Guests expire after the configured inactivity
// window.
func (h *Handler) Guest(w http.ResponseWriter, r *http.Request) {
	username := guestPrefix + h.rng.String(guestSuffixLen, random.Alphanumeric)

	user, err := h.users.CreateUser(r.Context(), username, "", true)
	if err != nil {
		h.logger.Error("guest session", "error", err)
		http.Error(w, `{"message":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	h.openSession(w, r, user.ID.Hex())
	writeJSON(w, http.StatusCreated, map[string]string{
		"message":  "Guest session started",
		"user_id":  user.ID.Hex(),
		"username": user.Username,
	})
}

// Login authenticates a registered user. Guest identities cannot log in
// regardless of the supplied password.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": "Username and password required",
		})
		return
	}

	user, err := h.users.GetUserByUsername(r.Context(), req.Username)
	if errors.Is(err, models.ErrUserNotFound) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"message": "Invalid username or password",
		})
		return
	}
	if err != nil {
		h.logger.Error("login lookup", "username", req.Username, "error", err)
		http.Error(w, `{"message":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	if user.IsGuest {
		writeJSON(w, http.StatusForbidden, map[string]string{
			"message": "Guest accounts cannot log in this way. Please use the 'Play as Guest' button.",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"message": "Invalid username or password",
		})
		return
	}

	h.openSession(w, r, user.ID.Hex())
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Login successful",
		"user_id":  user.ID.Hex(),
		"username": user.Username,
	})
}

// Logout destroys the current session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookie)
	if err == nil {
		h.sessions.Delete(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the currently authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id")
	if userID == nil {
		http.Error(w, `{"message":"not authenticated"}`, http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID.(string))
	if err != nil {
		http.Error(w, `{"message":"user not found"}`, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// openSession creates a session and sets the cookie. Failure is logged but
// deliberately not surfaced: signup/login already succeeded and the client
// can still play with the returned user_id.
func (h *Handler) openSession(w http.ResponseWriter, r *http.Request, userID string) {
	sid, err := h.sessions.Create(r.Context(), userID)
	if err != nil {
		h.logger.Warn("create session", "user_id", userID, "error", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessions.TTL() / time.Second),
	})
}
