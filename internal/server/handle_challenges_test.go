package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/versequest/biblegames/internal/biblegames"
)

func challengesRouter(store Store) *chi.Mux {
	logger := testLogger()
	r := chi.NewRouter()
	r.Get("/api/challenges", handleListChallenges(logger, store))
	r.Get("/api/challenges/active", handleActiveChallenge(logger, store))
	r.Group(func(r chi.Router) {
		r.Use(userAuthMiddleware(store))
		r.Post("/api/push/subscriptions", handlePushSubscribe(logger, store))
		r.Delete("/api/push/subscriptions", handlePushUnsubscribe(logger, store))
	})
	return r
}

func TestActiveChallengeNullWhenNoneRunning(t *testing.T) {
	store := setupStore(t)
	r := challengesRouter(store)

	// A window entirely in the past is never active.
	createChallenge(t, store, "2020-01-01", "2020-01-31")

	req := httptest.NewRequest(http.MethodGet, "/api/challenges/active", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != "null" {
		t.Fatalf("body = %q, want null", body)
	}
}

func TestActiveChallengeCoversToday(t *testing.T) {
	store := setupStore(t)
	r := challengesRouter(store)

	today := biblegames.Today(time.Now())
	c := createChallenge(t, store, today, today)

	req := httptest.NewRequest(http.MethodGet, "/api/challenges/active", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got ChallengeResponse
	json.NewDecoder(w.Body).Decode(&got)
	if got.ID != c.ID {
		t.Errorf("active challenge = %+v, want %s", got, c.ID)
	}
}

func TestListChallengesPublic(t *testing.T) {
	store := setupStore(t)
	r := challengesRouter(store)
	createChallenge(t, store, "2026-01-01", "2026-01-31")
	createChallenge(t, store, "2026-02-01", "2026-02-28")

	req := httptest.NewRequest(http.MethodGet, "/api/challenges", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var list []ChallengeResponse
	json.NewDecoder(w.Body).Decode(&list)
	if len(list) != 2 {
		t.Errorf("listed %d challenges, want 2", len(list))
	}
}

func TestPushSubscribeLifecycle(t *testing.T) {
	store := setupStore(t)
	r := challengesRouter(store)
	_, token := createVerifiedUser(t, store)

	sub := PushSubscribeRequest{
		Endpoint: "https://push.example/sub/abc",
		Keys:     map[string]any{"p256dh": "key", "auth": "secret"},
	}
	if w := postJSON(t, r, "/api/push/subscriptions", token, sub); w.Code != http.StatusNoContent {
		t.Fatalf("subscribe: expected 204, got %d: %s", w.Code, w.Body.String())
	}
	// Re-subscribing the same endpoint is idempotent.
	if w := postJSON(t, r, "/api/push/subscriptions", token, sub); w.Code != http.StatusNoContent {
		t.Fatalf("resubscribe: expected 204, got %d", w.Code)
	}

	subs, err := store.ListPushSubscriptions(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 1 {
		t.Fatalf("have %d subscriptions, want 1", len(subs))
	}

	body, _ := json.Marshal(sub)
	req := httptest.NewRequest(http.MethodDelete, "/api/push/subscriptions", strings.NewReader(string(body)))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("unsubscribe: expected 204, got %d", w.Code)
	}

	subs, _ = store.ListPushSubscriptions(t.Context())
	if len(subs) != 0 {
		t.Errorf("have %d subscriptions after unsubscribe, want 0", len(subs))
	}
}

func TestPushSubscribeRequiresEndpoint(t *testing.T) {
	store := setupStore(t)
	r := challengesRouter(store)
	_, token := createVerifiedUser(t, store)

	w := postJSON(t, r, "/api/push/subscriptions", token, PushSubscribeRequest{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
