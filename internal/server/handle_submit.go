package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/versequest/biblegames/internal/biblegames"
)

type SubmitRequest struct {
	GameID         string         `json:"gameId"`
	StartedAt      *time.Time     `json:"startedAt,omitempty"`
	TimeTaken      int            `json:"timeTaken"`
	Mistakes       int            `json:"mistakes"`
	SubmissionData map[string]any `json:"submissionData"`
}

// handleSubmit is the submission orchestrator: it validates the
// finished-game payload, scores it server-side against the resolved
// variant, and writes the record only when it beats the stored attempt.
func handleSubmit(logger *slog.Logger, store Store, broker *Broker, cache *LeaderboardCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := userFrom(r)

		var req SubmitRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.GameID == "" {
			writeError(w, http.StatusBadRequest, "gameId is required")
			return
		}
		if req.TimeTaken < 0 || req.Mistakes < 0 {
			writeError(w, http.StatusBadRequest, "timeTaken and mistakes must be non-negative")
			return
		}

		game, err := store.GetGame(r.Context(), req.GameID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			logger.Error("loading game for submission", "user", sess.UserID, "game", req.GameID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		now := time.Now()

		// Submissions are accepted through day 5 after the game's date;
		// day 5 itself scores zero via the decay, day 6 is rejected.
		if biblegames.DiffDays(game.Date, now) > biblegames.GraceDays {
			writeError(w, http.StatusForbidden, "submission window for this game has closed")
			return
		}

		// Score against the resolved variant, so type-specific totals
		// (crossword cells, word-search words) match the puzzle the
		// user actually played.
		resolved, err := resolveGame(r.Context(), store, game, sess.UserID)
		if err != nil {
			logger.Error("resolving game for submission", "user", sess.UserID, "game", game.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		score := biblegames.Score(game.Type, resolved.Data, req.SubmissionData,
			req.TimeTaken, req.Mistakes, game.Date, now)

		existing, err := store.GetSubmission(r.Context(), sess.UserID, game.ID)
		switch {
		case err == nil:
			// Best attempt wins: an equal or worse rerun must not
			// clobber the stored history.
			if score <= existing.Score {
				writeJSON(w, http.StatusOK, existing)
				return
			}
		case errors.Is(err, ErrNotFound):
			// First attempt.
		default:
			logger.Error("loading existing submission", "user", sess.UserID, "game", game.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		startedAt := now.Add(-time.Duration(req.TimeTaken) * time.Second)
		if req.StartedAt != nil {
			startedAt = *req.StartedAt
		}

		sub, err := store.PutSubmission(r.Context(), biblegames.Submission{
			UserID:      sess.UserID,
			GameID:      game.ID,
			ChallengeID: game.ChallengeID,
			StartedAt:   startedAt,
			CompletedAt: now,
			TimeTaken:   req.TimeTaken,
			Mistakes:    req.Mistakes,
			Score:       score,
			Data:        req.SubmissionData,
		})
		if err != nil {
			logger.Error("writing submission", "user", sess.UserID, "game", game.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		cache.Invalidate(r.Context(), game.ChallengeID)
		broker.Publish(game.ChallengeID, ChallengeEvent{
			Type:   "submission",
			GameID: game.ID,
			Score:  score,
		})

		writeJSON(w, http.StatusOK, sub)
	}
}
