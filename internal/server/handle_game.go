package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/versequest/biblegames/internal/biblegames"
)

// handleDailyGame returns today's resolved game for a challenge, or
// JSON null when the challenge has no game today.
func handleDailyGame(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		challengeID := chi.URLParam(r, "id")
		userID := optionalUserID(r, store)

		game, err := store.GameForChallengeOnDate(r.Context(), challengeID, biblegames.Today(time.Now()))
		if errors.Is(err, ErrNotFound) {
			writeNull(w)
			return
		}
		if err != nil {
			logger.Error("loading daily game", "challenge", challengeID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resolved, err := resolveGame(r.Context(), store, game, userID)
		if err != nil {
			logger.Error("resolving daily game", "challenge", challengeID, "game", game.ID, "user", userID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, resolved)
	}
}

func handleGetGame(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")
		userID := optionalUserID(r, store)

		game, err := store.GetGame(r.Context(), gameID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			logger.Error("loading game", "game", gameID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resolved, err := resolveGame(r.Context(), store, game, userID)
		if err != nil {
			logger.Error("resolving game", "game", gameID, "user", userID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, resolved)
	}
}

func handleChallengeGames(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		challengeID := chi.URLParam(r, "id")
		userID := optionalUserID(r, store)

		if _, err := store.GetChallenge(r.Context(), challengeID); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "challenge not found")
				return
			}
			logger.Error("loading challenge", "challenge", challengeID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		games, err := store.GamesForChallenge(r.Context(), challengeID)
		if err != nil {
			logger.Error("listing challenge games", "challenge", challengeID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resolved := make([]biblegames.ResolvedGame, 0, len(games))
		for _, g := range games {
			rg, err := resolveGame(r.Context(), store, g, userID)
			if err != nil {
				logger.Error("resolving game", "challenge", challengeID, "game", g.ID, "user", userID, "error", err)
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			resolved = append(resolved, rg)
		}
		writeJSON(w, http.StatusOK, resolved)
	}
}
