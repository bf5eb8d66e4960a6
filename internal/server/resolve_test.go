package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/versequest/biblegames/internal/biblegames"
)

func wordleBankGame(t *testing.T, store Store) biblegames.Game {
	t.Helper()
	c := createChallenge(t, store, "2026-01-01", "2026-12-31")
	return createGame(t, store, c.ID, "2026-06-01", biblegames.TypeWordleBank, map[string]any{
		"solutions": []any{"faith", "grace", "mercy", "peace", "glory"},
	})
}

func TestResolveAssignmentPermanent(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	g := wordleBankGame(t, store)
	u, _ := createVerifiedUser(t, store)

	first, err := resolveGame(ctx, store, g, u.ID)
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	solution, _ := first.Data["solution"].(string)
	if solution == "" {
		t.Fatal("resolved game has no solution")
	}

	// Every later resolution returns the same word.
	for range 5 {
		again, err := resolveGame(ctx, store, g, u.ID)
		if err != nil {
			t.Fatalf("repeat resolve: %v", err)
		}
		if again.Data["solution"] != solution {
			t.Fatalf("assignment changed: %v vs %v", again.Data["solution"], solution)
		}
	}

	// The assignment is persisted in the progress record.
	prog, err := store.GetProgress(ctx, u.ID, g.ID)
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if prog.State["assignedWord"] != solution {
		t.Errorf("stored assignedWord = %v, want %v", prog.State["assignedWord"], solution)
	}
}

func TestResolveNeverLeaksCandidates(t *testing.T) {
	store := setupStore(t)
	g := wordleBankGame(t, store)
	u, _ := createVerifiedUser(t, store)

	for _, userID := range []string{"", u.ID} {
		resolved, err := resolveGame(context.Background(), store, g, userID)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if _, leaked := resolved.Data["solutions"]; leaked {
			t.Errorf("candidate list leaked for userID=%q", userID)
		}
	}
}

func TestResolveSubmissionOverridesProgress(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	g := wordleBankGame(t, store)
	u, _ := createVerifiedUser(t, store)

	// Progress says one word, the completed submission another; the
	// submission pins what the user actually played.
	if err := store.UpsertProgress(ctx, u.ID, g.ID, map[string]any{"assignedWord": "grace"}); err != nil {
		t.Fatalf("upsert progress: %v", err)
	}
	now := time.Now()
	if _, err := store.PutSubmission(ctx, biblegames.Submission{
		UserID: u.ID, GameID: g.ID, StartedAt: now, CompletedAt: now,
		Score: 40, Data: map[string]any{"solution": "mercy"},
	}); err != nil {
		t.Fatalf("put submission: %v", err)
	}

	resolved, err := resolveGame(ctx, store, g, u.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Data["solution"] != "mercy" {
		t.Errorf("solution = %v, want submission's mercy", resolved.Data["solution"])
	}
}

func TestResolveGuestDeterministicAndUnpersisted(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	g := wordleBankGame(t, store)

	for range 3 {
		resolved, err := resolveGame(ctx, store, g, "")
		if err != nil {
			t.Fatalf("guest resolve: %v", err)
		}
		if resolved.Data["solution"] != "faith" {
			t.Errorf("guest solution = %v, want first candidate", resolved.Data["solution"])
		}
	}

	if _, err := store.GetProgress(ctx, "", g.ID); !errors.Is(err, ErrNotFound) {
		t.Error("guest resolution must not persist progress")
	}
}

func TestResolveMasksAdvancedType(t *testing.T) {
	store := setupStore(t)
	c := createChallenge(t, store, "2026-01-01", "2026-12-31")
	g := createGame(t, store, c.ID, "2026-06-02", biblegames.TypeWordleAdvanced, map[string]any{
		"solutions": []any{"manna"},
	})

	resolved, err := resolveGame(context.Background(), store, g, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Type != biblegames.TypeWordle {
		t.Errorf("type = %s, want masked %s", resolved.Type, biblegames.TypeWordle)
	}
}

func TestResolveKeepsClientState(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	g := wordleBankGame(t, store)
	u, _ := createVerifiedUser(t, store)

	// In-progress client state saved before any resolution.
	if err := store.UpsertProgress(ctx, u.ID, g.ID, map[string]any{"guesses": []any{"peace"}}); err != nil {
		t.Fatalf("upsert progress: %v", err)
	}

	if _, err := resolveGame(ctx, store, g, u.ID); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	prog, err := store.GetProgress(ctx, u.ID, g.ID)
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if prog.State["guesses"] == nil {
		t.Error("fresh assignment dropped existing client state")
	}
	if prog.State["assignedWord"] == nil {
		t.Error("fresh assignment missing from merged state")
	}
}

func TestResolveEmptyPoolSentinel(t *testing.T) {
	store := setupStore(t)
	c := createChallenge(t, store, "2026-01-01", "2026-12-31")
	g := createGame(t, store, c.ID, "2026-06-03", biblegames.TypeWordleBank, map[string]any{
		"solutions": []any{},
	})
	u, _ := createVerifiedUser(t, store)

	resolved, err := resolveGame(context.Background(), store, g, u.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Data["solution"] != biblegames.NoSolution {
		t.Errorf("empty pool solution = %v, want sentinel", resolved.Data["solution"])
	}
}
