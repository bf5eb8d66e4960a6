package biblegames

import (
	"math/rand/v2"
)

// NoSolution is the placeholder emitted when a multi-candidate game has
// an empty candidate pool. Resolution degrades to this sentinel rather
// than failing.
const NoSolution = "NO_SOLUTION"

// ConnectionsGroupCount is how many categories one connections puzzle uses.
const ConnectionsGroupCount = 4

// WhoAmI is one answer/hint pair for a who_am_i puzzle.
type WhoAmI struct {
	Answer string
	Hint   string
}

// Category is one connections group with its word list.
type Category struct {
	Name  string
	Words []string
}

// Variant is a single concrete assignment for a multi-candidate game.
// Exactly one field is populated, determined by the game type.
type Variant struct {
	Solution   string
	WhoAmI     *WhoAmI
	Categories []Category
}

// MultiCandidate reports whether the game's definition offers more than
// one possible puzzle and therefore needs per-user resolution.
// wordle_advanced and wordle_bank always carry a candidate list;
// who_am_i only when its data has one; connections always selects a
// category subset.
func MultiCandidate(t GameType, data map[string]any) bool {
	switch t {
	case TypeWordleAdvanced, TypeWordleBank, TypeConnections:
		return true
	case TypeWhoAmI:
		_, ok := data["solutions"]
		return ok
	default:
		return false
	}
}

// VariantFromSubmission derives the variant a user actually played from
// their stored submission data. Returns false when the submission
// carries no variant information.
func VariantFromSubmission(t GameType, gameData, subData map[string]any) (Variant, bool) {
	if subData == nil {
		return Variant{}, false
	}
	switch t {
	case TypeWordleAdvanced, TypeWordleBank:
		if s, ok := subData["solution"].(string); ok && s != "" {
			return Variant{Solution: s}, true
		}
	case TypeWhoAmI:
		if w, ok := whoAmIFromAny(subData["whoAmI"]); ok {
			return Variant{WhoAmI: &w}, true
		}
		if a, ok := subData["answer"].(string); ok && a != "" {
			hint, _ := subData["hint"].(string)
			return Variant{WhoAmI: &WhoAmI{Answer: a, Hint: hint}}, true
		}
	case TypeConnections:
		names, ok := categoryNames(subData["categories"])
		if !ok {
			return Variant{}, false
		}
		return Variant{Categories: lookupCategories(CategoryPool(gameData), names)}, true
	}
	return Variant{}, false
}

// VariantFromProgress reuses a server-assigned variant cached in the
// user's progress state.
func VariantFromProgress(t GameType, gameData, state map[string]any) (Variant, bool) {
	if state == nil {
		return Variant{}, false
	}
	switch t {
	case TypeWordleAdvanced, TypeWordleBank:
		if s, ok := state["assignedWord"].(string); ok && s != "" {
			return Variant{Solution: s}, true
		}
	case TypeWhoAmI:
		if w, ok := whoAmIFromAny(state["assignedWhoAmI"]); ok {
			return Variant{WhoAmI: &w}, true
		}
	case TypeConnections:
		names, ok := categoryNames(state["assignedCategories"])
		if !ok {
			return Variant{}, false
		}
		return Variant{Categories: lookupCategories(CategoryPool(gameData), names)}, true
	}
	return Variant{}, false
}

// RandomVariant picks a fresh variant uniformly at random from the
// candidate pool. Empty pools produce the NoSolution sentinel.
func RandomVariant(t GameType, data map[string]any) Variant {
	switch t {
	case TypeWordleAdvanced, TypeWordleBank:
		pool := SolutionCandidates(data)
		if len(pool) == 0 {
			return Variant{Solution: NoSolution}
		}
		return Variant{Solution: pool[rand.IntN(len(pool))]}
	case TypeWhoAmI:
		pool := WhoAmICandidates(data)
		if len(pool) == 0 {
			return Variant{WhoAmI: &WhoAmI{Answer: NoSolution}}
		}
		w := pool[rand.IntN(len(pool))]
		return Variant{WhoAmI: &w}
	case TypeConnections:
		pool := CategoryPool(data)
		shuffled := make([]Category, len(pool))
		copy(shuffled, pool)
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		return Variant{Categories: firstCategories(shuffled)}
	}
	return Variant{}
}

// GuestVariant is the deterministic no-persistence fallback for
// anonymous users: the first candidate, or the first four categories
// in catalog order.
func GuestVariant(t GameType, data map[string]any) Variant {
	switch t {
	case TypeWordleAdvanced, TypeWordleBank:
		pool := SolutionCandidates(data)
		if len(pool) == 0 {
			return Variant{Solution: NoSolution}
		}
		return Variant{Solution: pool[0]}
	case TypeWhoAmI:
		pool := WhoAmICandidates(data)
		if len(pool) == 0 {
			return Variant{WhoAmI: &WhoAmI{Answer: NoSolution}}
		}
		w := pool[0]
		return Variant{WhoAmI: &w}
	case TypeConnections:
		return Variant{Categories: firstCategories(CategoryPool(data))}
	}
	return Variant{}
}

// Apply produces the client-safe type and data for a resolved variant:
// the candidate list is stripped, exactly one concrete answer is set,
// and wordle_advanced is masked as plain wordle. The input data map is
// not mutated.
func Apply(t GameType, data map[string]any, v Variant) (GameType, map[string]any) {
	out := make(map[string]any, len(data)+2)
	for k, val := range data {
		if k == "solutions" {
			continue
		}
		out[k] = val
	}

	switch t {
	case TypeWordleAdvanced, TypeWordleBank:
		out["solution"] = v.Solution
	case TypeWhoAmI:
		if v.WhoAmI != nil {
			out["answer"] = v.WhoAmI.Answer
			out["hint"] = v.WhoAmI.Hint
		}
	case TypeConnections:
		cats := make([]any, 0, len(v.Categories))
		words := make([]any, 0, len(v.Categories)*4)
		for _, c := range v.Categories {
			ws := make([]any, 0, len(c.Words))
			for _, w := range c.Words {
				ws = append(ws, w)
				words = append(words, w)
			}
			cats = append(cats, map[string]any{"name": c.Name, "words": ws})
		}
		out["categories"] = cats
		out["words"] = words
	}

	if t == TypeWordleAdvanced {
		return TypeWordle, out
	}
	return t, out
}

// AssignmentFields is what gets merged into the progress state blob to
// make the assignment permanent.
func AssignmentFields(t GameType, v Variant) map[string]any {
	switch t {
	case TypeWordleAdvanced, TypeWordleBank:
		return map[string]any{"assignedWord": v.Solution}
	case TypeWhoAmI:
		if v.WhoAmI == nil {
			return nil
		}
		return map[string]any{"assignedWhoAmI": map[string]any{
			"answer": v.WhoAmI.Answer,
			"hint":   v.WhoAmI.Hint,
		}}
	case TypeConnections:
		names := make([]any, 0, len(v.Categories))
		for _, c := range v.Categories {
			names = append(names, c.Name)
		}
		return map[string]any{"assignedCategories": names}
	}
	return nil
}

// SolutionCandidates extracts the "solutions" string list.
func SolutionCandidates(data map[string]any) []string {
	raw, ok := data["solutions"].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// WhoAmICandidates extracts "solutions" as answer/hint pairs.
func WhoAmICandidates(data map[string]any) []WhoAmI {
	raw, ok := data["solutions"].([]any)
	if !ok {
		return nil
	}
	out := make([]WhoAmI, 0, len(raw))
	for _, e := range raw {
		if w, ok := whoAmIFromAny(e); ok {
			out = append(out, w)
		}
	}
	return out
}

// CategoryPool extracts the full "categories" pool of a connections game.
func CategoryPool(data map[string]any) []Category {
	raw, ok := data["categories"].([]any)
	if !ok {
		return nil
	}
	out := make([]Category, 0, len(raw))
	for _, e := range raw {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		name, _ := m["name"].(string)
		if name == "" {
			continue
		}
		c := Category{Name: name}
		if ws, ok := m["words"].([]any); ok {
			for _, w := range ws {
				if s, ok := w.(string); ok {
					c.Words = append(c.Words, s)
				}
			}
		}
		out = append(out, c)
	}
	return out
}

// lookupCategories maps stored category names back onto the current
// pool. If the names do not match exactly ConnectionsGroupCount known
// categories (content drift after the assignment was recorded), it
// falls back to the first four categories verbatim.
func lookupCategories(pool []Category, names []string) []Category {
	byName := make(map[string]Category, len(pool))
	for _, c := range pool {
		byName[c.Name] = c
	}
	matched := make([]Category, 0, len(names))
	for _, n := range names {
		if c, ok := byName[n]; ok {
			matched = append(matched, c)
		}
	}
	if len(matched) != ConnectionsGroupCount {
		return firstCategories(pool)
	}
	return matched
}

func firstCategories(pool []Category) []Category {
	if len(pool) > ConnectionsGroupCount {
		pool = pool[:ConnectionsGroupCount]
	}
	out := make([]Category, len(pool))
	copy(out, pool)
	return out
}

func whoAmIFromAny(v any) (WhoAmI, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return WhoAmI{}, false
	}
	answer, _ := m["answer"].(string)
	if answer == "" {
		return WhoAmI{}, false
	}
	hint, _ := m["hint"].(string)
	return WhoAmI{Answer: answer, Hint: hint}, true
}

// categoryNames accepts either a list of names or a list of
// {name, words} objects, as stored by older clients.
func categoryNames(v any) ([]string, bool) {
	raw, ok := v.([]any)
	if !ok || len(raw) == 0 {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		switch x := e.(type) {
		case string:
			out = append(out, x)
		case map[string]any:
			if n, ok := x["name"].(string); ok {
				out = append(out, n)
			}
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}
