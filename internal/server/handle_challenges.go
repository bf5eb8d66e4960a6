package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/versequest/biblegames/internal/biblegames"
)

// handleListChallenges is the public challenge listing. No auth; the
// catalog contains nothing sensitive.
func handleListChallenges(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cs, err := store.ListChallenges(r.Context())
		if err != nil {
			logger.Error("listing challenges", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		out := make([]ChallengeResponse, 0, len(cs))
		for _, c := range cs {
			out = append(out, challengeResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// handleActiveChallenge returns the challenge whose date window covers
// today, or JSON null when none is running.
func handleActiveChallenge(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := store.ChallengeActiveOn(r.Context(), biblegames.Today(time.Now()))
		if errors.Is(err, ErrNotFound) {
			writeNull(w)
			return
		}
		if err != nil {
			logger.Error("loading active challenge", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, challengeResponse(c))
	}
}
