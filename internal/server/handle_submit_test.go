package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/versequest/biblegames/internal/biblegames"
)

func apiRouter(t *testing.T, store Store) *chi.Mux {
	t.Helper()
	logger := testLogger()
	broker := NewBroker()
	cache := NewLeaderboardCache(nil, logger, time.Minute)

	r := chi.NewRouter()
	r.Get("/api/challenges/{id}/daily", handleDailyGame(logger, store))
	r.Get("/api/challenges/{id}/games", handleChallengeGames(logger, store))
	r.Get("/api/challenges/{id}/leaderboard", handleLeaderboard(logger, store, cache))
	r.Get("/api/games/{gameID}", handleGetGame(logger, store))
	r.Group(func(r chi.Router) {
		r.Use(userAuthMiddleware(store))
		r.Post("/api/submissions", handleSubmit(logger, store, broker, cache))
		r.Get("/api/users/{userID}/games/{gameID}/state", handleGetState(logger, store))
		r.Put("/api/users/{userID}/games/{gameID}/state", handleSaveState(logger, store))
		r.Delete("/api/users/{userID}/games/{gameID}/state", handleDeleteState(logger, store))
	})
	return r
}

func submit(t *testing.T, r http.Handler, token string, req SubmitRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(req)
	httpReq := httptest.NewRequest(http.MethodPost, "/api/submissions", bytes.NewReader(body))
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)
	return w
}

func TestSubmitScoresServerSide(t *testing.T) {
	store := setupStore(t)
	c := createChallenge(t, store, "2026-01-01", "2030-12-31")
	g := createGame(t, store, c.ID, biblegames.Today(time.Now()), biblegames.TypeWordle,
		map[string]any{"solution": "faith"})
	_, token := createVerifiedUser(t, store)
	r := apiRouter(t, store)

	w := submit(t, r, token, SubmitRequest{
		GameID: g.ID, TimeTaken: 30, Mistakes: 1,
		SubmissionData: map[string]any{"guesses": []any{"grace", "faith"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var sub biblegames.Submission
	json.NewDecoder(w.Body).Decode(&sub)
	if sub.Score != 50 {
		t.Errorf("score = %d, want server-computed 50", sub.Score)
	}
	if sub.ChallengeID != c.ID {
		t.Errorf("challenge id = %q, want %q", sub.ChallengeID, c.ID)
	}
}

func TestSubmitBestAttemptWins(t *testing.T) {
	store := setupStore(t)
	c := createChallenge(t, store, "2026-01-01", "2030-12-31")
	g := createGame(t, store, c.ID, biblegames.Today(time.Now()), biblegames.TypeWordle, nil)
	_, token := createVerifiedUser(t, store)
	r := apiRouter(t, store)

	scores := []struct {
		mistakes int
		want     int
	}{
		{2, 40}, // first attempt stored
		{0, 60}, // strictly better, replaces
		{3, 60}, // worse, stored best unchanged
		{0, 60}, // equal, stored best unchanged
	}
	for _, s := range scores {
		w := submit(t, r, token, SubmitRequest{GameID: g.ID, TimeTaken: 30, Mistakes: s.mistakes})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var sub biblegames.Submission
		json.NewDecoder(w.Body).Decode(&sub)
		if sub.Score != s.want {
			t.Errorf("after %d-mistake attempt: score = %d, want %d", s.mistakes, sub.Score, s.want)
		}
	}
}

func TestSubmitWindowClosed(t *testing.T) {
	store := setupStore(t)
	c := createChallenge(t, store, "2020-01-01", "2030-12-31")
	oldDate := biblegames.Today(time.Now().AddDate(0, 0, -7))
	g := createGame(t, store, c.ID, oldDate, biblegames.TypeWordle, nil)
	_, token := createVerifiedUser(t, store)
	r := apiRouter(t, store)

	w := submit(t, r, token, SubmitRequest{GameID: g.ID, TimeTaken: 30})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a week-old game, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSubmitLastGraceDayScoresZero(t *testing.T) {
	store := setupStore(t)
	c := createChallenge(t, store, "2020-01-01", "2030-12-31")
	date := biblegames.Today(time.Now().AddDate(0, 0, -biblegames.GraceDays))
	g := createGame(t, store, c.ID, date, biblegames.TypeWordle, nil)
	_, token := createVerifiedUser(t, store)
	r := apiRouter(t, store)

	w := submit(t, r, token, SubmitRequest{GameID: g.ID, TimeTaken: 30, Mistakes: 0})
	if w.Code != http.StatusOK {
		t.Fatalf("day %d submission must be accepted, got %d", biblegames.GraceDays, w.Code)
	}
	var sub biblegames.Submission
	json.NewDecoder(w.Body).Decode(&sub)
	if sub.Score != 0 {
		t.Errorf("day %d score = %d, want fully decayed 0", biblegames.GraceDays, sub.Score)
	}
}

func TestSubmitUnknownGame(t *testing.T) {
	store := setupStore(t)
	_, token := createVerifiedUser(t, store)
	r := apiRouter(t, store)

	w := submit(t, r, token, SubmitRequest{GameID: "nope", TimeTaken: 30})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestSubmitRequiresAuth(t *testing.T) {
	store := setupStore(t)
	r := apiRouter(t, store)

	w := submit(t, r, "", SubmitRequest{GameID: "any"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestSubmitRejectsNegativeTelemetry(t *testing.T) {
	store := setupStore(t)
	_, token := createVerifiedUser(t, store)
	r := apiRouter(t, store)

	w := submit(t, r, token, SubmitRequest{GameID: "any", TimeTaken: -1})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
