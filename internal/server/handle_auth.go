package server

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/versequest/biblegames/internal/notify"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyRequest struct {
	Token string `json:"token"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func handleRegister(logger *slog.Logger, store Store, mailer notify.Mailer, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if _, err := mail.ParseAddress(req.Email); err != nil {
			writeError(w, http.StatusBadRequest, "a valid email is required")
			return
		}
		if len(req.Password) < 8 {
			writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		verifyToken := uuid.NewString()
		user, err := store.CreateUser(r.Context(), req.Email, strings.TrimSpace(req.Name), string(hash), verifyToken)
		if errors.Is(err, ErrConflict) {
			writeError(w, http.StatusConflict, "an account with this email already exists")
			return
		}
		if err != nil {
			logger.Error("creating user", "email", req.Email, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		verifyURL := baseURL + "/verify?token=" + verifyToken
		if err := mailer.SendVerification(r.Context(), user.Email, verifyURL); err != nil {
			// Account exists; the user can request a resend later.
			logger.Error("sending verification email", "user", user.ID, "error", err)
		}

		writeJSON(w, http.StatusCreated, UserResponse{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
		})
	}
}

func handleVerify(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VerifyRequest
		if err := readJSON(r, &req); err != nil || req.Token == "" {
			writeError(w, http.StatusBadRequest, "token is required")
			return
		}

		user, err := store.VerifyUser(r.Context(), req.Token)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "invalid or already used verification token")
			return
		}
		if err != nil {
			logger.Error("verifying user", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, UserResponse{
			ID:       user.ID,
			Email:    user.Email,
			Name:     user.Name,
			Verified: true,
		})
	}
}

func handleLogin(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		user, hash, err := store.UserByEmail(r.Context(), req.Email)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if err != nil {
			logger.Error("loading user for login", "email", req.Email, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		token, err := store.CreateSession(r.Context(), user.ID)
		if err != nil {
			logger.Error("creating session", "user", user.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, LoginResponse{
			Token: token,
			User: UserResponse{
				ID:       user.ID,
				Email:    user.Email,
				Name:     user.Name,
				Verified: user.Verified,
			},
		})
	}
}

func handleMe(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := userFrom(r)
		user, err := store.UserByID(r.Context(), sess.UserID)
		if err != nil {
			logger.Error("loading current user", "user", sess.UserID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, UserResponse{
			ID:       user.ID,
			Email:    user.Email,
			Name:     user.Name,
			Verified: user.Verified,
		})
	}
}

// handleLogout invalidates the presented session token. Idempotent:
// an already-deleted token still gets a 204.
func handleLogout(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(auth, "Bearer ")
		if !found || token == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err := store.DeleteSession(r.Context(), token); err != nil {
			logger.Error("deleting session", "error", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleEraseMe deletes the account and everything attached to it
// (submissions, progress, push subscriptions, tickets, sessions) in a
// single transaction.
func handleEraseMe(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := userFrom(r)
		if err := store.EraseUser(r.Context(), sess.UserID); err != nil {
			logger.Error("erasing user", "user", sess.UserID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
