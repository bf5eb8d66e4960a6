package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/versequest/biblegames/internal/biblegames"
	"github.com/versequest/biblegames/internal/notify"
)

// MaintenanceReport summarizes one daily maintenance run.
type MaintenanceReport struct {
	Date         string `json:"date"`
	ChallengeID  string `json:"challengeId,omitempty"`
	GameID       string `json:"gameId,omitempty"`
	GameCreated  bool   `json:"gameCreated"`
	UsersTotal   int    `json:"usersTotal"`
	UsersFailed  int    `json:"usersFailed"`
	PushAttempts int    `json:"pushAttempts"`
	PushFailed   int    `json:"pushFailed"`
}

// Maintenance prepares a day's puzzle ahead of traffic: it makes sure
// the active challenge has a game for the date, pre-assigns a variant
// to every verified user, and notifies push subscribers. Every step is
// idempotent, so re-running for the same date is safe.
type Maintenance struct {
	logger  *slog.Logger
	store   Store
	pusher  notify.Pusher
	workers int
}

func NewMaintenance(logger *slog.Logger, store Store, pusher notify.Pusher, workers int) *Maintenance {
	if workers < 1 {
		workers = 1
	}
	return &Maintenance{logger: logger, store: store, pusher: pusher, workers: workers}
}

// Run executes maintenance for the given date (YYYY-MM-DD); an empty
// date means today in the reference zone. A user whose pre-assignment
// fails is logged and counted but never aborts the run.
func (m *Maintenance) Run(ctx context.Context, date string) (MaintenanceReport, error) {
	if date == "" {
		date = biblegames.Today(time.Now())
	}
	report := MaintenanceReport{Date: date}

	challenge, err := m.store.ChallengeActiveOn(ctx, date)
	if errors.Is(err, ErrNotFound) {
		m.logger.Info("maintenance: no active challenge", "date", date)
		return report, nil
	}
	if err != nil {
		return report, fmt.Errorf("finding active challenge: %w", err)
	}
	report.ChallengeID = challenge.ID

	game, err := m.store.GameForChallengeOnDate(ctx, challenge.ID, date)
	if errors.Is(err, ErrNotFound) {
		game, err = m.createFallbackGame(ctx, challenge.ID, date)
		if err != nil {
			return report, err
		}
		report.GameCreated = true
		m.logger.Info("maintenance: created fallback game", "game", game.ID, "date", date)
	} else if err != nil {
		return report, fmt.Errorf("loading game for %s: %w", date, err)
	}
	report.GameID = game.ID

	userIDs, err := m.store.ListVerifiedUserIDs(ctx)
	if err != nil {
		return report, fmt.Errorf("listing users: %w", err)
	}
	report.UsersTotal = len(userIDs)

	var failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for _, userID := range userIDs {
		g.Go(func() error {
			if _, err := resolveGame(gctx, m.store, game, userID); err != nil {
				failed.Add(1)
				m.logger.Error("maintenance: pre-assignment failed", "user", userID, "game", game.ID, "error", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	report.UsersFailed = int(failed.Load())

	sent, pushFailed := m.notifySubscribers(ctx, challenge, date)
	report.PushAttempts = sent
	report.PushFailed = pushFailed

	m.logger.Info("maintenance: done",
		"date", date,
		"challenge", challenge.ID,
		"game", game.ID,
		"users", report.UsersTotal,
		"failed", report.UsersFailed,
		"push", report.PushAttempts)
	return report, nil
}

// createFallbackGame fills a gap in the schedule so the day is never
// empty. The word list is intentionally small; curated games should
// replace fallbacks before their date arrives.
func (m *Maintenance) createFallbackGame(ctx context.Context, challengeID, date string) (biblegames.Game, error) {
	game, err := m.store.CreateGame(ctx, biblegames.Game{
		ChallengeID: challengeID,
		Date:        date,
		Type:        biblegames.TypeWordleBank,
		Data: map[string]any{
			"solutions": []any{"faith", "grace", "mercy", "peace", "glory"},
			"fallback":  true,
		},
	})
	if errors.Is(err, ErrConflict) {
		// Raced with a concurrent run; read back the winner.
		return m.store.GameForChallengeOnDate(ctx, challengeID, date)
	}
	if err != nil {
		return biblegames.Game{}, fmt.Errorf("creating fallback game: %w", err)
	}
	return game, nil
}

func (m *Maintenance) notifySubscribers(ctx context.Context, challenge biblegames.Challenge, date string) (attempts, failed int) {
	subs, err := m.store.ListPushSubscriptions(ctx)
	if err != nil {
		m.logger.Error("maintenance: listing push subscriptions", "error", err)
		return 0, 0
	}
	for _, sub := range subs {
		attempts++
		msg := notify.PushMessage{
			Endpoint: sub.Endpoint,
			Title:    "Today's puzzle is ready",
			Body:     fmt.Sprintf("%s has a new puzzle for %s.", challenge.Name, date),
		}
		if err := m.pusher.Send(ctx, msg); err != nil {
			failed++
			m.logger.Error("maintenance: push delivery failed", "endpoint", sub.Endpoint, "error", err)
		}
	}
	return attempts, failed
}

// handleAdminRunMaintenance triggers a maintenance run on demand, for a
// specific date via ?date=YYYY-MM-DD or for today.
func handleAdminRunMaintenance(logger *slog.Logger, maint *Maintenance) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date != "" && !validDate(date) {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		report, err := maint.Run(r.Context(), date)
		if err != nil {
			logger.Error("maintenance run failed", "date", date, "error", err)
			writeError(w, http.StatusInternalServerError, "maintenance run failed")
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}
