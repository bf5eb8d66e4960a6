package server

import (
	"context"
	"errors"

	"github.com/versequest/biblegames/internal/biblegames"
)

var (
	// ErrNotFound marks an absent challenge, game, user, or record.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a uniqueness violation (duplicate email, endpoint).
	ErrConflict = errors.New("conflict")
)

var (
	errNoSession      = errors.New("no valid session")
	errNoAdminSession = errors.New("no valid admin session")
)

type userSession struct {
	UserID string
	Email  string
}

type adminSession struct {
	AdminID string
	Email   string
}

// Store is the persistence contract for the whole backend. The game
// catalog is read-mostly; progress records are mutated only by the
// variant resolver and the state-save endpoint; submissions only by the
// submit path.
type Store interface {
	// Challenges.
	ListChallenges(ctx context.Context) ([]biblegames.Challenge, error)
	GetChallenge(ctx context.Context, id string) (biblegames.Challenge, error)
	ChallengeActiveOn(ctx context.Context, date string) (biblegames.Challenge, error)
	CreateChallenge(ctx context.Context, c biblegames.Challenge) (biblegames.Challenge, error)
	UpdateChallenge(ctx context.Context, c biblegames.Challenge) (biblegames.Challenge, error)
	DeleteChallenge(ctx context.Context, id string) error

	// Game catalog.
	GetGame(ctx context.Context, id string) (biblegames.Game, error)
	GamesForChallenge(ctx context.Context, challengeID string) ([]biblegames.Game, error)
	GameForChallengeOnDate(ctx context.Context, challengeID, date string) (biblegames.Game, error)
	CreateGame(ctx context.Context, g biblegames.Game) (biblegames.Game, error)
	UpdateGame(ctx context.Context, g biblegames.Game) (biblegames.Game, error)
	DeleteGame(ctx context.Context, id string) error

	// Progress records. UpsertProgress writes the caller-merged state
	// blob; on conflict the existing row is updated with the new blob
	// (last writer wins, see resolve.go for the race discussion).
	GetProgress(ctx context.Context, userID, gameID string) (biblegames.Progress, error)
	UpsertProgress(ctx context.Context, userID, gameID string, state map[string]any) error
	DeleteProgress(ctx context.Context, userID, gameID string) error

	// Submissions.
	GetSubmission(ctx context.Context, userID, gameID string) (biblegames.Submission, error)
	PutSubmission(ctx context.Context, sub biblegames.Submission) (biblegames.Submission, error)
	ListSubmissionsForGame(ctx context.Context, gameID string) ([]biblegames.Submission, error)
	UpdateSubmissionScore(ctx context.Context, id string, score int) error
	SumScoresByUser(ctx context.Context, challengeID string) ([]biblegames.LeaderboardRow, error)

	// User directory and sessions.
	CreateUser(ctx context.Context, email, name, passwordHash, verifyToken string) (biblegames.User, error)
	UserByEmail(ctx context.Context, email string) (biblegames.User, string, error) // includes password hash
	UserByID(ctx context.Context, id string) (biblegames.User, error)
	VerifyUser(ctx context.Context, token string) (biblegames.User, error)
	ListVerifiedUserIDs(ctx context.Context) ([]string, error)
	CreateSession(ctx context.Context, userID string) (string, error)
	UserFromSession(ctx context.Context, token string) (userSession, error)
	DeleteSession(ctx context.Context, token string) error
	// EraseUser removes the user and every dependent record in one
	// transaction: submissions, progress, push subscriptions, sessions,
	// tickets, then the user row.
	EraseUser(ctx context.Context, userID string) error

	// Push subscriptions.
	AddPushSubscription(ctx context.Context, userID, endpoint string, keys map[string]any) error
	DeletePushSubscription(ctx context.Context, userID, endpoint string) error
	ListPushSubscriptions(ctx context.Context) ([]biblegames.PushSubscription, error)

	// Tickets.
	CreateTicket(ctx context.Context, userID, subject, body string) (biblegames.Ticket, error)
	TicketsForUser(ctx context.Context, userID string) ([]biblegames.Ticket, error)
	ListTickets(ctx context.Context, status string, flaggedOnly bool) ([]biblegames.Ticket, error)
	UpdateTicket(ctx context.Context, id string, status biblegames.TicketStatus, flagged bool) (biblegames.Ticket, error)

	// Admin accounts.
	AdminByEmail(ctx context.Context, email string) (id, passwordHash string, err error)
	CreateAdmin(ctx context.Context, email, passwordHash string) error
	CountAdmins(ctx context.Context) (int, error)
	CreateAdminSession(ctx context.Context, adminID string) (string, error)
	AdminFromSession(ctx context.Context, sessionID string) (adminSession, error)
	DeleteAdminSession(ctx context.Context, sessionID string) error
}
