package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/versequest/biblegames/internal/biblegames"
)

// LeaderboardCache is a cache-aside layer over the submissions
// aggregate. The store stays the source of truth; a nil Redis client
// degrades to direct reads.
type LeaderboardCache struct {
	rdb    *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

func NewLeaderboardCache(rdb *redis.Client, logger *slog.Logger, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{rdb: rdb, logger: logger, ttl: ttl}
}

func leaderboardKey(challengeID string) string {
	return "leaderboard:" + challengeID
}

func (c *LeaderboardCache) Get(ctx context.Context, challengeID string) ([]biblegames.LeaderboardRow, bool) {
	if c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, leaderboardKey(challengeID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("leaderboard cache read failed", "challenge", challengeID, "error", err)
		}
		return nil, false
	}
	var rows []biblegames.LeaderboardRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

func (c *LeaderboardCache) Set(ctx context.Context, challengeID string, rows []biblegames.LeaderboardRow) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, leaderboardKey(challengeID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("leaderboard cache write failed", "challenge", challengeID, "error", err)
	}
}

// Invalidate drops the cached ranking after a submission write so the
// next read reflects it immediately rather than after the TTL.
func (c *LeaderboardCache) Invalidate(ctx context.Context, challengeID string) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, leaderboardKey(challengeID)).Err(); err != nil {
		c.logger.Warn("leaderboard cache invalidation failed", "challenge", challengeID, "error", err)
	}
}

// handleLeaderboard returns the ranked per-user score totals for one
// challenge. The ranking is derived from submissions on every read,
// never stored.
func handleLeaderboard(logger *slog.Logger, store Store, cache *LeaderboardCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		challengeID := chi.URLParam(r, "id")

		if rows, ok := cache.Get(r.Context(), challengeID); ok {
			writeJSON(w, http.StatusOK, rows)
			return
		}

		if _, err := store.GetChallenge(r.Context(), challengeID); err != nil {
			if err == ErrNotFound {
				writeError(w, http.StatusNotFound, "challenge not found")
				return
			}
			logger.Error("loading challenge for leaderboard", "challenge", challengeID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		rows, err := store.SumScoresByUser(r.Context(), challengeID)
		if err != nil {
			logger.Error("aggregating leaderboard", "challenge", challengeID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if rows == nil {
			rows = []biblegames.LeaderboardRow{}
		}

		cache.Set(r.Context(), challengeID, rows)
		writeJSON(w, http.StatusOK, rows)
	}
}
