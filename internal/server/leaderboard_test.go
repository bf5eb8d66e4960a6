package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/versequest/biblegames/internal/biblegames"
)

func apiRouterWithLeaderboard(store Store, cache *LeaderboardCache) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/api/challenges/{id}/leaderboard", handleLeaderboard(testLogger(), store, cache))
	return r
}

func setupCache(t *testing.T, ttl time.Duration) (*LeaderboardCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewLeaderboardCache(rdb, testLogger(), ttl), mr
}

func TestLeaderboardCacheRoundTrip(t *testing.T) {
	cache, _ := setupCache(t, time.Minute)
	ctx := context.Background()

	if _, ok := cache.Get(ctx, "c1"); ok {
		t.Fatal("empty cache must miss")
	}

	rows := []biblegames.LeaderboardRow{
		{UserID: "u1", Name: "Alice", TotalScore: 90, GamesPlayed: 2, Rank: 1},
	}
	cache.Set(ctx, "c1", rows)

	got, ok := cache.Get(ctx, "c1")
	if !ok || len(got) != 1 || got[0].TotalScore != 90 {
		t.Fatalf("cache get = %v ok=%v", got, ok)
	}

	cache.Invalidate(ctx, "c1")
	if _, ok := cache.Get(ctx, "c1"); ok {
		t.Fatal("invalidated entry must miss")
	}
}

func TestLeaderboardCacheTTL(t *testing.T) {
	cache, mr := setupCache(t, 30*time.Second)
	ctx := context.Background()

	cache.Set(ctx, "c1", []biblegames.LeaderboardRow{{UserID: "u1"}})
	mr.FastForward(time.Minute)

	if _, ok := cache.Get(ctx, "c1"); ok {
		t.Fatal("entry must expire after the TTL")
	}
}

func TestLeaderboardCacheNilClient(t *testing.T) {
	cache := NewLeaderboardCache(nil, testLogger(), time.Minute)
	ctx := context.Background()

	// Every operation degrades to a no-op.
	cache.Set(ctx, "c1", []biblegames.LeaderboardRow{{UserID: "u1"}})
	if _, ok := cache.Get(ctx, "c1"); ok {
		t.Fatal("nil-client cache must always miss")
	}
	cache.Invalidate(ctx, "c1")
}

func TestHandleLeaderboard(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	c := createChallenge(t, store, "2026-01-01", "2030-12-31")
	g := createGame(t, store, c.ID, "2026-06-01", biblegames.TypeWordle, nil)
	u, _ := createVerifiedUser(t, store)

	now := time.Now()
	if _, err := store.PutSubmission(ctx, biblegames.Submission{
		UserID: u.ID, GameID: g.ID, StartedAt: now, CompletedAt: now, Score: 40,
	}); err != nil {
		t.Fatalf("put submission: %v", err)
	}

	cache, _ := setupCache(t, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/api/challenges/"+c.ID+"/leaderboard", nil)
	r := apiRouterWithLeaderboard(store, cache)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var rows []biblegames.LeaderboardRow
	json.NewDecoder(w.Body).Decode(&rows)
	if len(rows) != 1 || rows[0].TotalScore != 40 || rows[0].Rank != 1 {
		t.Fatalf("rows = %+v", rows)
	}

	// The second read hits the cache.
	if cached, ok := cache.Get(ctx, c.ID); !ok || len(cached) != 1 {
		t.Error("ranking was not cached after the first read")
	}
}

func TestHandleLeaderboardEmptyChallenge(t *testing.T) {
	store := setupStore(t)
	c := createChallenge(t, store, "2026-01-01", "2030-12-31")
	cache := NewLeaderboardCache(nil, testLogger(), time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/api/challenges/"+c.ID+"/leaderboard", nil)
	r := apiRouterWithLeaderboard(store, cache)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	// Empty array, not null.
	if body := w.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want empty array", body)
	}
}

func TestHandleLeaderboardUnknownChallenge(t *testing.T) {
	store := setupStore(t)
	cache := NewLeaderboardCache(nil, testLogger(), time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/api/challenges/nope/leaderboard", nil)
	r := apiRouterWithLeaderboard(store, cache)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
