package biblegames

import (
	"math"
	"time"
)

// GraceDays is how many civil days after a game's date a submission is
// still accepted. Day GraceDays itself is accepted but decays to zero.
const GraceDays = 5

// decayPerDay is the linear late penalty: 20% of the base score per
// calendar day, reaching zero at day 5.
const decayPerDay = 0.20

// referenceZone anchors all civil-day arithmetic. Game days roll over
// on US Eastern midnight, not UTC.
var referenceZone = mustLoadZone("America/New_York")

func mustLoadZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic("loading time zone " + name + ": " + err.Error())
	}
	return loc
}

// DiffDays returns the number of whole civil days (in the reference
// zone) between the game's nominal date and at, floored at zero.
func DiffDays(gameDate string, at time.Time) int {
	day, err := time.ParseInLocation("2006-01-02", gameDate, referenceZone)
	if err != nil {
		return 0
	}
	y, m, d := at.In(referenceZone).Date()
	// Compare via UTC midnights so DST transitions cannot skew the count.
	a := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	diff := int(b.Sub(a) / (24 * time.Hour))
	if diff < 0 {
		return 0
	}
	return diff
}

// Today returns the current civil day in the reference zone as
// YYYY-MM-DD.
func Today(now time.Time) string {
	return now.In(referenceZone).Format("2006-01-02")
}

// Score computes the final integer score for a finished game: the
// per-type base score from the submission telemetry, then the late
// penalty for the gap between the game's date and submittedAt. It is
// deterministic, never errors, and never returns a negative value.
//
// resolvedData must be the resolved (variant-selected) game data so
// that type-specific totals (crossword fillable cells, word-search
// word counts) reflect the puzzle the user actually played.
func Score(t GameType, resolvedData, subData map[string]any, timeTaken, mistakes int, gameDate string, submittedAt time.Time) int {
	base := baseScore(t, resolvedData, subData, timeTaken, mistakes)
	return applyDecay(base, DiffDays(gameDate, submittedAt))
}

// BaseScore exposes the pre-decay score.
func BaseScore(t GameType, resolvedData, subData map[string]any, timeTaken, mistakes int) int {
	return baseScore(t, resolvedData, subData, timeTaken, mistakes)
}

func baseScore(t GameType, data, sub map[string]any, timeTaken, mistakes int) int {
	switch t {
	case TypeWordle, TypeWordleAdvanced, TypeWordleBank, TypeWhoAmI:
		if mistakes >= 6 {
			return 0
		}
		return (6 - mistakes) * 10

	case TypeConnections:
		found := intField(sub, "categoriesFound")
		return floor0(found*20 - mistakes*5)

	case TypeCrossword:
		total := intField(sub, "totalFillableCells")
		if total == 0 {
			total = fillableCells(data)
		}
		if total <= 0 {
			return 0
		}
		correct := intField(sub, "correctCells")
		accuracy := int(math.Round(float64(correct) / float64(total) * 70))
		timeBonus := floor0(30 - timeTaken/60)
		return accuracy + timeBonus

	case TypeMatchTheWord:
		pairs := intField(sub, "foundPairsCount")
		return floor0(pairs*20 - mistakes*10)

	case TypeVerseScramble:
		if done, _ := sub["completed"].(bool); !done {
			return 0
		}
		return 50 + floor0(30-mistakes*5) + floor0(20-timeTaken/10)

	case TypeWordSearch:
		found := intField(sub, "wordsFound")
		total := intField(sub, "totalWords")
		if total == 0 {
			total = wordSearchTotal(data)
		}
		score := found * 10
		if total > 0 && found == total {
			score += 20
		}
		return score + floor0(30-timeTaken/20)

	default:
		return floor0(100 - mistakes*10 - timeTaken/15)
	}
}

// applyDecay reduces base by 20% per late day. Past the grace window
// the score is forced to zero; such attempts should already have been
// rejected upstream.
func applyDecay(base, diffDays int) int {
	if diffDays > GraceDays {
		return 0
	}
	factor := 1 - float64(diffDays)*decayPerDay
	if factor < 0 {
		factor = 0
	}
	return int(math.Round(float64(base) * factor))
}

// fillableCells counts non-block grid cells when the data does not
// declare totalFillableCells explicitly. Block cells are "#" or empty.
func fillableCells(data map[string]any) int {
	if n := intField(data, "totalFillableCells"); n > 0 {
		return n
	}
	grid, ok := data["grid"].([]any)
	if !ok {
		return 0
	}
	count := 0
	for _, row := range grid {
		cells, ok := row.([]any)
		if !ok {
			continue
		}
		for _, c := range cells {
			if s, ok := c.(string); ok && s != "" && s != "#" {
				count++
			}
		}
	}
	return count
}

func wordSearchTotal(data map[string]any) int {
	if ws, ok := data["words"].([]any); ok {
		return len(ws)
	}
	return 0
}

// intField tolerates the number shapes JSON decoding produces.
func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func floor0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
