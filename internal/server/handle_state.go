package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type SaveStateRequest struct {
	State map[string]any `json:"state"`
}

type GameStateResponse struct {
	GameID string         `json:"gameId"`
	State  map[string]any `json:"state"`
}

// requireOwnState guards the /users/{userID}/... routes: the path user
// must match the session user.
func requireOwnState(w http.ResponseWriter, r *http.Request) (string, bool) {
	sess := userFrom(r)
	userID := chi.URLParam(r, "userID")
	if userID != sess.UserID {
		writeError(w, http.StatusForbidden, "cannot access another user's game state")
		return "", false
	}
	return userID, true
}

func handleGetState(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireOwnState(w, r)
		if !ok {
			return
		}
		gameID := chi.URLParam(r, "gameID")

		prog, err := store.GetProgress(r.Context(), userID, gameID)
		if errors.Is(err, ErrNotFound) {
			writeNull(w)
			return
		}
		if err != nil {
			logger.Error("loading progress", "user", userID, "game", gameID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, GameStateResponse{GameID: gameID, State: prog.State})
	}
}

// handleSaveState merge-saves in-progress state. Resolver-assigned
// fields already stored are preserved even when the incoming payload
// omits or rewrites them.
func handleSaveState(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireOwnState(w, r)
		if !ok {
			return
		}
		gameID := chi.URLParam(r, "gameID")

		var req SaveStateRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.State == nil {
			writeError(w, http.StatusBadRequest, "state is required")
			return
		}

		if _, err := store.GetGame(r.Context(), gameID); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "game not found")
				return
			}
			logger.Error("loading game for state save", "user", userID, "game", gameID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		existing := map[string]any{}
		prog, err := store.GetProgress(r.Context(), userID, gameID)
		if err == nil {
			existing = prog.State
		} else if !errors.Is(err, ErrNotFound) {
			logger.Error("loading progress for save", "user", userID, "game", gameID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		merged := mergeClientState(existing, req.State)
		if err := store.UpsertProgress(r.Context(), userID, gameID, merged); err != nil {
			logger.Error("saving progress", "user", userID, "game", gameID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, GameStateResponse{GameID: gameID, State: merged})
	}
}

func handleDeleteState(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireOwnState(w, r)
		if !ok {
			return
		}
		gameID := chi.URLParam(r, "gameID")

		if err := store.DeleteProgress(r.Context(), userID, gameID); err != nil {
			logger.Error("deleting progress", "user", userID, "game", gameID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
