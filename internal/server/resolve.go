package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/versequest/biblegames/internal/biblegames"
)

// variantStrategy tries one way of producing a variant for (game, user).
// ok = false falls through to the next strategy in order.
type variantStrategy func(ctx context.Context, store Store, g biblegames.Game, userID string) (v biblegames.Variant, ok bool, err error)

// The strict resolution order: a completed submission pins the variant
// the user actually played; otherwise a previously assigned variant in
// the progress record is reused; otherwise a fresh random assignment is
// made and persisted.
var resolutionOrder = []variantStrategy{
	variantFromSubmission,
	variantFromProgress,
	freshAssignment,
}

// resolveGame returns the client-safe view of g for the given user:
// exactly one concrete variant, candidate lists stripped. For an
// anonymous user (empty userID) nothing is persisted and the first
// candidate is chosen deterministically.
//
// Two concurrent first requests for the same (user, game) may both take
// the fresh-assignment branch; the progress upsert is last-writer-wins,
// so exactly one value ends up stored, and every later call reads it
// back via the progress strategy. This relaxed window is deliberate;
// the check-then-assign sequence is not locked.
func resolveGame(ctx context.Context, store Store, g biblegames.Game, userID string) (biblegames.ResolvedGame, error) {
	out := biblegames.ResolvedGame{
		ID:          g.ID,
		ChallengeID: g.ChallengeID,
		Date:        g.Date,
		Type:        g.Type,
		Data:        g.Data,
	}

	if !biblegames.MultiCandidate(g.Type, g.Data) {
		return out, nil
	}

	if userID == "" {
		out.Type, out.Data = biblegames.Apply(g.Type, g.Data, biblegames.GuestVariant(g.Type, g.Data))
		return out, nil
	}

	for _, strategy := range resolutionOrder {
		v, ok, err := strategy(ctx, store, g, userID)
		if err != nil {
			return biblegames.ResolvedGame{}, fmt.Errorf("resolving game %s for user %s: %w", g.ID, userID, err)
		}
		if ok {
			out.Type, out.Data = biblegames.Apply(g.Type, g.Data, v)
			return out, nil
		}
	}

	// Unreachable: freshAssignment always produces a variant.
	out.Type, out.Data = biblegames.Apply(g.Type, g.Data, biblegames.GuestVariant(g.Type, g.Data))
	return out, nil
}

// variantFromSubmission lets a user who already played re-fetch the
// exact puzzle they solved, even if candidate lists changed since.
func variantFromSubmission(ctx context.Context, store Store, g biblegames.Game, userID string) (biblegames.Variant, bool, error) {
	sub, err := store.GetSubmission(ctx, userID, g.ID)
	if errors.Is(err, ErrNotFound) {
		return biblegames.Variant{}, false, nil
	}
	if err != nil {
		return biblegames.Variant{}, false, err
	}
	v, ok := biblegames.VariantFromSubmission(g.Type, g.Data, sub.Data)
	return v, ok, nil
}

func variantFromProgress(ctx context.Context, store Store, g biblegames.Game, userID string) (biblegames.Variant, bool, error) {
	prog, err := store.GetProgress(ctx, userID, g.ID)
	if errors.Is(err, ErrNotFound) {
		return biblegames.Variant{}, false, nil
	}
	if err != nil {
		return biblegames.Variant{}, false, err
	}
	v, ok := biblegames.VariantFromProgress(g.Type, g.Data, prog.State)
	return v, ok, nil
}

// freshAssignment picks a random variant and persists it into the
// progress record, merging into any state already there.
func freshAssignment(ctx context.Context, store Store, g biblegames.Game, userID string) (biblegames.Variant, bool, error) {
	v := biblegames.RandomVariant(g.Type, g.Data)

	state := map[string]any{}
	prog, err := store.GetProgress(ctx, userID, g.ID)
	if err == nil {
		state = prog.State
	} else if !errors.Is(err, ErrNotFound) {
		return biblegames.Variant{}, false, err
	}

	merged := mergeState(state, biblegames.AssignmentFields(g.Type, v))
	if err := store.UpsertProgress(ctx, userID, g.ID, merged); err != nil {
		return biblegames.Variant{}, false, err
	}
	return v, true, nil
}

// mergeState overlays incoming onto existing without dropping keys the
// incoming blob does not mention. Neither input map is mutated.
func mergeState(existing, incoming map[string]any) map[string]any {
	out := make(map[string]any, len(existing)+len(incoming))
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range incoming {
		out[k] = v
	}
	return out
}

// assignmentKeys are resolver-owned: once present in a stored progress
// record they survive any client save that omits or tries to rewrite
// them.
var assignmentKeys = []string{"assignedWord", "assignedWhoAmI", "assignedCategories"}

// mergeClientState is mergeState with the resolver-owned fields pinned
// to their stored values.
func mergeClientState(existing, incoming map[string]any) map[string]any {
	out := mergeState(existing, incoming)
	for _, k := range assignmentKeys {
		if v, ok := existing[k]; ok {
			out[k] = v
		}
	}
	return out
}
