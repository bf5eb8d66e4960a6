package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/versequest/biblegames/internal/biblegames"
)

// SeedDemo creates a bootstrap admin and a demo challenge with a few
// days of games if the database is empty. Idempotent: an existing
// admin or challenge disables the corresponding step.
func SeedDemo(ctx context.Context, logger *slog.Logger, store Store) error {
	count, err := store.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("counting admins: %w", err)
	}
	if count == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("change-me"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if err := store.CreateAdmin(ctx, "admin@versequest.app", string(hash)); err != nil {
			return fmt.Errorf("creating bootstrap admin: %w", err)
		}
		logger.Info("bootstrap admin created", "email", "admin@versequest.app")
	}

	existing, err := store.ListChallenges(ctx)
	if err != nil {
		return fmt.Errorf("listing challenges: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	today := biblegames.Today(time.Now())
	start, err := time.Parse("2006-01-02", today)
	if err != nil {
		return err
	}
	end := start.AddDate(0, 0, 27)

	challenge, err := store.CreateChallenge(ctx, biblegames.Challenge{
		Name:        "Scripture Sprint",
		Description: "Four weeks of daily puzzles from the book of Psalms.",
		StartDate:   today,
		EndDate:     end.Format("2006-01-02"),
	})
	if err != nil {
		return fmt.Errorf("creating demo challenge: %w", err)
	}

	games := []biblegames.Game{
		{
			Date: today,
			Type: biblegames.TypeWordleBank,
			Data: map[string]any{
				"solutions": []any{"mercy", "faith", "grace", "amens", "psalm"},
			},
		},
		{
			Date: start.AddDate(0, 0, 1).Format("2006-01-02"),
			Type: biblegames.TypeConnections,
			Data: map[string]any{
				"categories": []any{
					map[string]any{"name": "Kings of Israel", "words": []any{"Saul", "David", "Solomon", "Jeroboam"}},
					map[string]any{"name": "Prophets", "words": []any{"Isaiah", "Jeremiah", "Ezekiel", "Daniel"}},
					map[string]any{"name": "Psalms words", "words": []any{"Selah", "Shepherd", "Refuge", "Anointed"}},
					map[string]any{"name": "Instruments", "words": []any{"Harp", "Lyre", "Timbrel", "Trumpet"}},
					map[string]any{"name": "Rivers", "words": []any{"Jordan", "Euphrates", "Tigris", "Nile"}},
				},
			},
		},
		{
			Date: start.AddDate(0, 0, 2).Format("2006-01-02"),
			Type: biblegames.TypeWhoAmI,
			Data: map[string]any{
				"solutions": []any{
					map[string]any{"answer": "David", "hint": "I was a shepherd before I was a king."},
					map[string]any{"answer": "Ruth", "hint": "I gleaned in the fields of Boaz."},
					map[string]any{"answer": "Jonah", "hint": "I spent three days somewhere very dark."},
				},
			},
		},
		{
			Date: start.AddDate(0, 0, 3).Format("2006-01-02"),
			Type: biblegames.TypeVerseScramble,
			Data: map[string]any{
				"reference": "Psalm 23:1",
				"words":     []any{"The", "Lord", "is", "my", "shepherd", "I", "shall", "not", "want"},
			},
		},
	}
	for _, g := range games {
		g.ChallengeID = challenge.ID
		if _, err := store.CreateGame(ctx, g); err != nil {
			return fmt.Errorf("creating demo game for %s: %w", g.Date, err)
		}
	}

	logger.Info("demo challenge seeded", "challenge", challenge.ID, "games", len(games))
	return nil
}
