package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/versequest/biblegames/internal/biblegames"
)

type ChallengeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

type ChallengeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

type GameRequest struct {
	Date string         `json:"date"`
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

var validGameTypes = map[biblegames.GameType]bool{
	biblegames.TypeWordle:         true,
	biblegames.TypeWordleAdvanced: true,
	biblegames.TypeWordleBank:     true,
	biblegames.TypeConnections:    true,
	biblegames.TypeCrossword:      true,
	biblegames.TypeMatchTheWord:   true,
	biblegames.TypeVerseScramble:  true,
	biblegames.TypeWhoAmI:         true,
	biblegames.TypeWordSearch:     true,
}

func challengeResponse(c biblegames.Challenge) ChallengeResponse {
	return ChallengeResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
	}
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func handleAdminListChallenges(logger *slog.Logger, store Store) http.HandlerFunc {
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

func handleAdminCreateChallenge(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ChallengeRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" || !validDate(req.StartDate) || !validDate(req.EndDate) {
			writeError(w, http.StatusBadRequest, "name, startDate and endDate (YYYY-MM-DD) are required")
			return
		}

		c, err := store.CreateChallenge(r.Context(), biblegames.Challenge{
			Name:        req.Name,
			Description: req.Description,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
		})
		if err != nil {
			logger.Error("creating challenge", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, challengeResponse(c))
	}
}

func handleAdminUpdateChallenge(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req ChallengeRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !validDate(req.StartDate) || !validDate(req.EndDate) {
			writeError(w, http.StatusBadRequest, "startDate and endDate must be YYYY-MM-DD")
			return
		}

		c, err := store.UpdateChallenge(r.Context(), biblegames.Challenge{
			ID:          id,
			Name:        strings.TrimSpace(req.Name),
			Description: req.Description,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
		})
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "challenge not found")
			return
		}
		if err != nil {
			logger.Error("updating challenge", "challenge", id, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, challengeResponse(c))
	}
}

func handleAdminDeleteChallenge(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		err := store.DeleteChallenge(r.Context(), id)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "challenge not found")
			return
		}
		if err != nil {
			logger.Error("deleting challenge", "challenge", id, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleAdminCreateGame creates a curated game. The raw data blob,
// including any solutions candidate list, is stored as given; masking
// happens at resolution time, never here.
func handleAdminCreateGame(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		challengeID := chi.URLParam(r, "id")

		var req GameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !validDate(req.Date) {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		if !validGameTypes[biblegames.GameType(req.Type)] {
			writeError(w, http.StatusBadRequest, "unknown game type")
			return
		}

		if _, err := store.GetChallenge(r.Context(), challengeID); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "challenge not found")
				return
			}
			logger.Error("loading challenge for game create", "challenge", challengeID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		g, err := store.CreateGame(r.Context(), biblegames.Game{
			ChallengeID: challengeID,
			Date:        req.Date,
			Type:        biblegames.GameType(req.Type),
			Data:        req.Data,
		})
		if errors.Is(err, ErrConflict) {
			writeError(w, http.StatusConflict, "a game already exists for this date")
			return
		}
		if err != nil {
			logger.Error("creating game", "challenge", challengeID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, g)
	}
}

func handleAdminUpdateGame(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "gameID")

		var req GameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !validDate(req.Date) || !validGameTypes[biblegames.GameType(req.Type)] {
			writeError(w, http.StatusBadRequest, "date and a known game type are required")
			return
		}

		g, err := store.UpdateGame(r.Context(), biblegames.Game{
			ID:   id,
			Date: req.Date,
			Type: biblegames.GameType(req.Type),
			Data: req.Data,
		})
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			logger.Error("updating game", "game", id, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

func handleAdminDeleteGame(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "gameID")
		err := store.DeleteGame(r.Context(), id)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			logger.Error("deleting game", "game", id, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type RescoreResponse struct {
	GameID  string `json:"gameId"`
	Total   int    `json:"total"`
	Changed int    `json:"changed"`
}

// handleAdminRescoreGame re-derives every stored submission's score
// from its recorded telemetry through the same scoring engine the live
// submit path uses, with the decay measured at the original completion
// time. Run after fixing a puzzle's data.
func handleAdminRescoreGame(logger *slog.Logger, store Store, cache *LeaderboardCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "gameID")

		game, err := store.GetGame(r.Context(), id)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			logger.Error("loading game for rescore", "game", id, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		subs, err := store.ListSubmissionsForGame(r.Context(), id)
		if err != nil {
			logger.Error("listing submissions for rescore", "game", id, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		changed := 0
		for _, sub := range subs {
			resolved, err := resolveGame(r.Context(), store, game, sub.UserID)
			if err != nil {
				logger.Error("resolving game for rescore", "game", id, "user", sub.UserID, "error", err)
				continue
			}
			score := biblegames.Score(game.Type, resolved.Data, sub.Data,
				sub.TimeTaken, sub.Mistakes, game.Date, sub.CompletedAt)
			if score == sub.Score {
				continue
			}
			if err := store.UpdateSubmissionScore(r.Context(), sub.ID, score); err != nil {
				logger.Error("updating submission score", "submission", sub.ID, "error", err)
				continue
			}
			changed++
		}

		if changed > 0 {
			cache.Invalidate(r.Context(), game.ChallengeID)
		}
		writeJSON(w, http.StatusOK, RescoreResponse{
			GameID:  id,
			Total:   len(subs),
			Changed: changed,
		})
	}
}
