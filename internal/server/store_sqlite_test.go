package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/versequest/biblegames/internal/biblegames"
	"github.com/versequest/biblegames/internal/database"
	"github.com/versequest/biblegames/internal/migrations"
)

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// One in-memory database, not one per pooled connection.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return NewSQLiteStore(db)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createChallenge(t *testing.T, store Store, startDate, endDate string) biblegames.Challenge {
	t.Helper()
	c, err := store.CreateChallenge(context.Background(), biblegames.Challenge{
		Name:      "Test Challenge",
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		t.Fatalf("create challenge: %v", err)
	}
	return c
}

func createGame(t *testing.T, store Store, challengeID, date string, typ biblegames.GameType, data map[string]any) biblegames.Game {
	t.Helper()
	g, err := store.CreateGame(context.Background(), biblegames.Game{
		ChallengeID: challengeID,
		Date:        date,
		Type:        typ,
		Data:        data,
	})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	return g
}

// createVerifiedUser registers, verifies, and logs in a fresh user,
// returning the user and a valid Bearer token.
func createVerifiedUser(t *testing.T, store Store) (biblegames.User, string) {
	t.Helper()
	ctx := context.Background()

	verifyToken := uuid.NewString()
	email := uuid.NewString() + "@example.com"
	u, err := store.CreateUser(ctx, email, "Test Player", "x", verifyToken)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := store.VerifyUser(ctx, verifyToken); err != nil {
		t.Fatalf("verify user: %v", err)
	}
	token, err := store.CreateSession(ctx, u.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return u, token
}

func TestPutSubmissionUpsert(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	c := createChallenge(t, store, "2026-01-01", "2026-12-31")
	g := createGame(t, store, c.ID, "2026-06-01", biblegames.TypeWordle, map[string]any{"solution": "faith"})
	u, _ := createVerifiedUser(t, store)

	now := time.Now()
	first, err := store.PutSubmission(ctx, biblegames.Submission{
		UserID: u.ID, GameID: g.ID,
		StartedAt: now, CompletedAt: now,
		TimeTaken: 60, Mistakes: 2, Score: 40,
		Data: map[string]any{"guesses": []any{"grace", "faith"}},
	})
	if err != nil {
		t.Fatalf("first put: %v", err)
	}
	if first.ChallengeID != c.ID {
		t.Errorf("challenge id = %q, want %q", first.ChallengeID, c.ID)
	}

	second, err := store.PutSubmission(ctx, biblegames.Submission{
		UserID: u.ID, GameID: g.ID,
		StartedAt: now, CompletedAt: now,
		TimeTaken: 45, Mistakes: 0, Score: 60,
		Data: map[string]any{"guesses": []any{"faith"}},
	})
	if err != nil {
		t.Fatalf("second put: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert created a new row: %q vs %q", second.ID, first.ID)
	}
	if second.Score != 60 || second.Mistakes != 0 {
		t.Errorf("row not updated: score=%d mistakes=%d", second.Score, second.Mistakes)
	}

	subs, err := store.ListSubmissionsForGame(ctx, g.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("got %d submissions, want 1", len(subs))
	}
}

func TestSumScoresByUserRanking(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	c := createChallenge(t, store, "2026-01-01", "2026-12-31")
	g1 := createGame(t, store, c.ID, "2026-06-01", biblegames.TypeWordle, nil)
	g2 := createGame(t, store, c.ID, "2026-06-02", biblegames.TypeWordle, nil)
	alice, _ := createVerifiedUser(t, store)
	bob, _ := createVerifiedUser(t, store)

	now := time.Now()
	put := func(userID, gameID string, score int) {
		t.Helper()
		_, err := store.PutSubmission(ctx, biblegames.Submission{
			UserID: userID, GameID: gameID,
			StartedAt: now, CompletedAt: now, Score: score,
		})
		if err != nil {
			t.Fatalf("put submission: %v", err)
		}
	}
	put(alice.ID, g1.ID, 40)
	put(alice.ID, g2.ID, 50)
	put(bob.ID, g1.ID, 60)

	rows, err := store.SumScoresByUser(ctx, c.ID)
	if err != nil {
		t.Fatalf("sum scores: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].UserID != alice.ID || rows[0].TotalScore != 90 || rows[0].Rank != 1 {
		t.Errorf("rank 1 = %+v, want alice with 90", rows[0])
	}
	if rows[1].UserID != bob.ID || rows[1].GamesPlayed != 1 || rows[1].Rank != 2 {
		t.Errorf("rank 2 = %+v, want bob with 1 game", rows[1])
	}
}

func TestEraseUser(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	c := createChallenge(t, store, "2026-01-01", "2026-12-31")
	g := createGame(t, store, c.ID, "2026-06-01", biblegames.TypeWordle, nil)
	u, token := createVerifiedUser(t, store)

	now := time.Now()
	if _, err := store.PutSubmission(ctx, biblegames.Submission{
		UserID: u.ID, GameID: g.ID, StartedAt: now, CompletedAt: now, Score: 10,
	}); err != nil {
		t.Fatalf("put submission: %v", err)
	}
	if err := store.UpsertProgress(ctx, u.ID, g.ID, map[string]any{"assignedWord": "faith"}); err != nil {
		t.Fatalf("upsert progress: %v", err)
	}
	if err := store.AddPushSubscription(ctx, u.ID, "https://push.example/ep", nil); err != nil {
		t.Fatalf("add push sub: %v", err)
	}
	if _, err := store.CreateTicket(ctx, u.ID, "broken puzzle", "details"); err != nil {
		t.Fatalf("create ticket: %v", err)
	}

	if err := store.EraseUser(ctx, u.ID); err != nil {
		t.Fatalf("erase: %v", err)
	}

	if _, err := store.UserByID(ctx, u.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("user still exists after erase: %v", err)
	}
	if _, err := store.GetSubmission(ctx, u.ID, g.ID); !errors.Is(err, ErrNotFound) {
		t.Error("submission survived erase")
	}
	if _, err := store.GetProgress(ctx, u.ID, g.ID); !errors.Is(err, ErrNotFound) {
		t.Error("progress survived erase")
	}
	if _, err := store.UserFromSession(ctx, token); !errors.Is(err, errNoSession) {
		t.Error("session survived erase")
	}
	if err := store.EraseUser(ctx, u.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second erase = %v, want ErrNotFound", err)
	}
}

func TestVerifyUser(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	u, err := store.CreateUser(ctx, "pilgrim@example.com", "Pilgrim", "x", "tok-123")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Verified {
		t.Error("new user must start unverified")
	}

	verified, err := store.VerifyUser(ctx, "tok-123")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !verified.Verified || verified.ID != u.ID {
		t.Errorf("verified user = %+v", verified)
	}

	// Token is single-use.
	if _, err := store.VerifyUser(ctx, "tok-123"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second verify = %v, want ErrNotFound", err)
	}

	ids, err := store.ListVerifiedUserIDs(ctx)
	if err != nil {
		t.Fatalf("list verified: %v", err)
	}
	if len(ids) != 1 || ids[0] != u.ID {
		t.Errorf("verified ids = %v", ids)
	}
}

func TestDuplicateEmailConflict(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if _, err := store.CreateUser(ctx, "dup@example.com", "A", "x", "t1"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := store.CreateUser(ctx, "dup@example.com", "B", "x", "t2"); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate email = %v, want ErrConflict", err)
	}
}

func TestGamePerDateConflict(t *testing.T) {
	store := setupStore(t)

	c := createChallenge(t, store, "2026-01-01", "2026-12-31")
	createGame(t, store, c.ID, "2026-06-01", biblegames.TypeWordle, nil)

	_, err := store.CreateGame(context.Background(), biblegames.Game{
		ChallengeID: c.ID, Date: "2026-06-01", Type: biblegames.TypeCrossword,
	})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("second game on same date = %v, want ErrConflict", err)
	}
}
