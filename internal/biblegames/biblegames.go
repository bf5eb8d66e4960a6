// Package biblegames defines the core domain types and the pure game
// logic: variant selection and scoring. It has zero external
// dependencies; everything here is plain Go over JSON-shaped maps.
package biblegames

import "time"

type Challenge struct {
	ID          string
	Name        string
	Description string
	StartDate   string
	EndDate     string
	CreatedAt   time.Time
}

// GameType is the closed set of supported puzzle types.
type GameType string

const (
	TypeWordle         GameType = "wordle"
	TypeWordleAdvanced GameType = "wordle_advanced"
	TypeWordleBank     GameType = "wordle_bank"
	TypeConnections    GameType = "connections"
	TypeCrossword      GameType = "crossword"
	TypeMatchTheWord   GameType = "match_the_word"
	TypeVerseScramble  GameType = "verse_scramble"
	TypeWhoAmI         GameType = "who_am_i"
	TypeWordSearch     GameType = "word_search"
)

// Game is one day's puzzle within a challenge. Data is the raw
// definition and may contain a "solutions" candidate list that must
// never reach a client.
type Game struct {
	ID          string         `json:"id"`
	ChallengeID string         `json:"challengeId"`
	Date        string         `json:"date"` // YYYY-MM-DD, the day the game is active
	Type        GameType       `json:"type"`
	Data        map[string]any `json:"data"`
	CreatedAt   time.Time      `json:"createdAt"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

// Progress is the per-(user, game) scratch state. State holds
// in-progress client fields plus server-assigned variant fields
// (assignedWord, assignedWhoAmI, assignedCategories). Once set, an
// assignment field never changes for the life of the record.
type Progress struct {
	ID        string
	UserID    string
	GameID    string
	State     map[string]any
	UpdatedAt time.Time
}

// Submission is a scored, finalized attempt. At most one row per
// (user, game); a resubmission replaces it only with a strictly
// higher score.
type Submission struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	GameID      string         `json:"gameId"`
	ChallengeID string         `json:"challengeId"`
	StartedAt   time.Time      `json:"startedAt"`
	CompletedAt time.Time      `json:"completedAt"`
	TimeTaken   int            `json:"timeTaken"`
	Mistakes    int            `json:"mistakes"`
	Score       int            `json:"score"`
	Data        map[string]any `json:"submissionData"`
}

// LeaderboardRow is derived from submissions on read, never stored.
type LeaderboardRow struct {
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	TotalScore  int    `json:"totalScore"`
	GamesPlayed int    `json:"gamesPlayed"`
	Rank        int    `json:"rank"`
}

type PushSubscription struct {
	ID        string
	UserID    string
	Endpoint  string
	Keys      map[string]any
	CreatedAt time.Time
}

type TicketStatus string

const (
	TicketOpen     TicketStatus = "open"
	TicketResolved TicketStatus = "resolved"
	TicketClosed   TicketStatus = "closed"
)

// Ticket is a user-filed support ticket; admins can flag and resolve.
type Ticket struct {
	ID        string
	UserID    string
	Subject   string
	Body      string
	Status    TicketStatus
	Flagged   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResolvedGame is the client-safe view of a game: exactly one concrete
// variant, no candidate lists.
type ResolvedGame struct {
	ID          string         `json:"id"`
	ChallengeID string         `json:"challengeId"`
	Date        string         `json:"date"`
	Type        GameType       `json:"type"`
	Data        map[string]any `json:"data"`
}
