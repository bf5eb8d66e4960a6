package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/versequest/biblegames/internal/biblegames"
)

// SQLiteStore implements Store over a single libSQL database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const timeLayout = time.RFC3339Nano

func encodeJSON(m map[string]any) string {
	if m == nil {
		return "{}"
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func decodeJSON(s string) map[string]any {
	m := map[string]any{}
	if s != "" {
		json.Unmarshal([]byte(s), &m)
	}
	return m
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

// --- Challenges ---

func (s *SQLiteStore) ListChallenges(ctx context.Context) ([]biblegames.Challenge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, start_date, end_date, created_at
		FROM challenges ORDER BY start_date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []biblegames.Challenge
	for rows.Next() {
		var c biblegames.Challenge
		var created string
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.StartDate, &c.EndDate, &created); err != nil {
			return nil, err
		}
		c.CreatedAt = parseTime(created)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetChallenge(ctx context.Context, id string) (biblegames.Challenge, error) {
	var c biblegames.Challenge
	var created string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, start_date, end_date, created_at
		FROM challenges WHERE id = ?
	`, id).Scan(&c.ID, &c.Name, &c.Description, &c.StartDate, &c.EndDate, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrNotFound
	}
	c.CreatedAt = parseTime(created)
	return c, err
}

func (s *SQLiteStore) ChallengeActiveOn(ctx context.Context, date string) (biblegames.Challenge, error) {
	var c biblegames.Challenge
	var created string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, start_date, end_date, created_at
		FROM challenges
		WHERE start_date <= ? AND end_date >= ?
		ORDER BY start_date DESC LIMIT 1
	`, date, date).Scan(&c.ID, &c.Name, &c.Description, &c.StartDate, &c.EndDate, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrNotFound
	}
	c.CreatedAt = parseTime(created)
	return c, err
}

func (s *SQLiteStore) CreateChallenge(ctx context.Context, c biblegames.Challenge) (biblegames.Challenge, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	var created string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO challenges (id, name, description, start_date, end_date)
		VALUES (?, ?, ?, ?, ?)
		RETURNING created_at
	`, c.ID, c.Name, c.Description, c.StartDate, c.EndDate).Scan(&created)
	if err != nil {
		return biblegames.Challenge{}, err
	}
	c.CreatedAt = parseTime(created)
	return c, nil
}

func (s *SQLiteStore) UpdateChallenge(ctx context.Context, c biblegames.Challenge) (biblegames.Challenge, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE challenges SET name = ?, description = ?, start_date = ?, end_date = ?
		WHERE id = ?
	`, c.Name, c.Description, c.StartDate, c.EndDate, c.ID)
	if err != nil {
		return biblegames.Challenge{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return biblegames.Challenge{}, ErrNotFound
	}
	return s.GetChallenge(ctx, c.ID)
}

func (s *SQLiteStore) DeleteChallenge(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM challenges WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Game catalog ---

func scanGame(row interface{ Scan(...any) error }) (biblegames.Game, error) {
	var g biblegames.Game
	var data, created string
	err := row.Scan(&g.ID, &g.ChallengeID, &g.Date, &g.Type, &data, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return g, ErrNotFound
	}
	if err != nil {
		return g, err
	}
	g.Data = decodeJSON(data)
	g.CreatedAt = parseTime(created)
	return g, nil
}

func (s *SQLiteStore) GetGame(ctx context.Context, id string) (biblegames.Game, error) {
	return scanGame(s.db.QueryRowContext(ctx, `
		SELECT id, challenge_id, date, type, data, created_at FROM games WHERE id = ?
	`, id))
}

func (s *SQLiteStore) GamesForChallenge(ctx context.Context, challengeID string) ([]biblegames.Game, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, challenge_id, date, type, data, created_at
		FROM games WHERE challenge_id = ? ORDER BY date
	`, challengeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []biblegames.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GameForChallengeOnDate(ctx context.Context, challengeID, date string) (biblegames.Game, error) {
	return scanGame(s.db.QueryRowContext(ctx, `
		SELECT id, challenge_id, date, type, data, created_at
		FROM games WHERE challenge_id = ? AND date = ?
	`, challengeID, date))
}

func (s *SQLiteStore) CreateGame(ctx context.Context, g biblegames.Game) (biblegames.Game, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	var created string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO games (id, challenge_id, date, type, data)
		VALUES (?, ?, ?, ?, ?)
		RETURNING created_at
	`, g.ID, g.ChallengeID, g.Date, string(g.Type), encodeJSON(g.Data)).Scan(&created)
	if err != nil {
		if isUniqueViolation(err) {
			return biblegames.Game{}, ErrConflict
		}
		return biblegames.Game{}, err
	}
	g.CreatedAt = parseTime(created)
	return g, nil
}

func (s *SQLiteStore) UpdateGame(ctx context.Context, g biblegames.Game) (biblegames.Game, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE games SET date = ?, type = ?, data = ? WHERE id = ?
	`, g.Date, string(g.Type), encodeJSON(g.Data), g.ID)
	if err != nil {
		return biblegames.Game{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return biblegames.Game{}, ErrNotFound
	}
	return s.GetGame(ctx, g.ID)
}

func (s *SQLiteStore) DeleteGame(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Progress ---

func (s *SQLiteStore) GetProgress(ctx context.Context, userID, gameID string) (biblegames.Progress, error) {
	var p biblegames.Progress
	var state, updated string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, game_id, state, updated_at
		FROM game_progress WHERE user_id = ? AND game_id = ?
	`, userID, gameID).Scan(&p.ID, &p.UserID, &p.GameID, &state, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	if err != nil {
		return p, err
	}
	p.State = decodeJSON(state)
	p.UpdatedAt = parseTime(updated)
	return p, nil
}

func (s *SQLiteStore) UpsertProgress(ctx context.Context, userID, gameID string, state map[string]any) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO game_progress (id, user_id, game_id, state)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, game_id) DO UPDATE SET
			state = excluded.state,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
	`, uuid.NewString(), userID, gameID, encodeJSON(state))
	return err
}

func (s *SQLiteStore) DeleteProgress(ctx context.Context, userID, gameID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM game_progress WHERE user_id = ? AND game_id = ?
	`, userID, gameID)
	return err
}

// --- Submissions ---

func scanSubmission(row interface{ Scan(...any) error }) (biblegames.Submission, error) {
	var sub biblegames.Submission
	var started, completed, data string
	err := row.Scan(&sub.ID, &sub.UserID, &sub.GameID, &sub.ChallengeID,
		&started, &completed, &sub.TimeTaken, &sub.Mistakes, &sub.Score, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return sub, ErrNotFound
	}
	if err != nil {
		return sub, err
	}
	sub.StartedAt = parseTime(started)
	sub.CompletedAt = parseTime(completed)
	sub.Data = decodeJSON(data)
	return sub, nil
}

const submissionColumns = `
	s.id, s.user_id, s.game_id, g.challenge_id,
	s.started_at, s.completed_at, s.time_taken, s.mistakes, s.score, s.data
`

func (s *SQLiteStore) GetSubmission(ctx context.Context, userID, gameID string) (biblegames.Submission, error) {
	return scanSubmission(s.db.QueryRowContext(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions s JOIN games g ON g.id = s.game_id
		WHERE s.user_id = ? AND s.game_id = ?
	`, userID, gameID))
}

// PutSubmission inserts the attempt or replaces the existing row for the
// same (user, game). The submit path decides beforehand whether the new
// attempt wins; this method just writes.
func (s *SQLiteStore) PutSubmission(ctx context.Context, sub biblegames.Submission) (biblegames.Submission, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (id, user_id, game_id, started_at, completed_at, time_taken, mistakes, score, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, game_id) DO UPDATE SET
			started_at = excluded.started_at,
			completed_at = excluded.completed_at,
			time_taken = excluded.time_taken,
			mistakes = excluded.mistakes,
			score = excluded.score,
			data = excluded.data
	`, sub.ID, sub.UserID, sub.GameID,
		sub.StartedAt.UTC().Format(timeLayout), sub.CompletedAt.UTC().Format(timeLayout),
		sub.TimeTaken, sub.Mistakes, sub.Score, encodeJSON(sub.Data))
	if err != nil {
		return biblegames.Submission{}, err
	}
	return s.GetSubmission(ctx, sub.UserID, sub.GameID)
}

func (s *SQLiteStore) ListSubmissionsForGame(ctx context.Context, gameID string) ([]biblegames.Submission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions s JOIN games g ON g.id = s.game_id
		WHERE s.game_id = ? ORDER BY s.completed_at
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []biblegames.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateSubmissionScore(ctx context.Context, id string, score int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE submissions SET score = ? WHERE id = ?`, score, id)
	return err
}

func (s *SQLiteStore) SumScoresByUser(ctx context.Context, challengeID string) ([]biblegames.LeaderboardRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.user_id, u.name, SUM(s.score), COUNT(*)
		FROM submissions s
		JOIN games g ON g.id = s.game_id
		JOIN users u ON u.id = s.user_id
		WHERE g.challenge_id = ?
		GROUP BY s.user_id, u.name
		ORDER BY SUM(s.score) DESC, COUNT(*) DESC, u.name
	`, challengeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []biblegames.LeaderboardRow
	for rows.Next() {
		var r biblegames.LeaderboardRow
		if err := rows.Scan(&r.UserID, &r.Name, &r.TotalScore, &r.GamesPlayed); err != nil {
			return nil, err
		}
		r.Rank = len(out) + 1
		out = append(out, r)
	}
	return out, rows.Err()
}

// --- Users and sessions ---

func (s *SQLiteStore) CreateUser(ctx context.Context, email, name, passwordHash, verifyToken string) (biblegames.User, error) {
	u := biblegames.User{ID: uuid.NewString(), Email: email, Name: name}
	var created string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, verify_token)
		VALUES (?, ?, ?, ?, ?)
		RETURNING created_at
	`, u.ID, email, name, passwordHash, verifyToken).Scan(&created)
	if err != nil {
		if isUniqueViolation(err) {
			return biblegames.User{}, ErrConflict
		}
		return biblegames.User{}, err
	}
	u.CreatedAt = parseTime(created)
	return u, nil
}

func (s *SQLiteStore) UserByEmail(ctx context.Context, email string) (biblegames.User, string, error) {
	var u biblegames.User
	var hash, created string
	var verified int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, verified, created_at
		FROM users WHERE email = ?
	`, email).Scan(&u.ID, &u.Email, &u.Name, &hash, &verified, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return u, "", ErrNotFound
	}
	u.Verified = verified == 1
	u.CreatedAt = parseTime(created)
	return u, hash, err
}

func (s *SQLiteStore) UserByID(ctx context.Context, id string) (biblegames.User, error) {
	var u biblegames.User
	var created string
	var verified int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, verified, created_at FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Email, &u.Name, &verified, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	u.Verified = verified == 1
	u.CreatedAt = parseTime(created)
	return u, err
}

func (s *SQLiteStore) VerifyUser(ctx context.Context, token string) (biblegames.User, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		UPDATE users SET verified = 1, verify_token = NULL
		WHERE verify_token = ?
		RETURNING id
	`, token).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return biblegames.User{}, ErrNotFound
	}
	if err != nil {
		return biblegames.User{}, err
	}
	return s.UserByID(ctx, id)
}

func (s *SQLiteStore) ListVerifiedUserIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM users WHERE verified = 1 ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) CreateSession(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id) VALUES (?, ?)
	`, token, userID)
	return token, err
}

func (s *SQLiteStore) UserFromSession(ctx context.Context, token string) (userSession, error) {
	var sess userSession
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.email
		FROM sessions s JOIN users u ON u.id = s.user_id
		WHERE s.id = ?
	`, token).Scan(&sess.UserID, &sess.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return sess, errNoSession
	}
	return sess, err
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, token)
	return err
}

// EraseUser removes the account and all dependent rows atomically.
func (s *SQLiteStore) EraseUser(ctx context.Context, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM submissions WHERE user_id = ?`,
		`DELETE FROM game_progress WHERE user_id = ?`,
		`DELETE FROM push_subscriptions WHERE user_id = ?`,
		`DELETE FROM tickets WHERE user_id = ?`,
		`DELETE FROM sessions WHERE user_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, userID); err != nil {
			return err
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// --- Push subscriptions ---

func (s *SQLiteStore) AddPushSubscription(ctx context.Context, userID, endpoint string, keys map[string]any) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO push_subscriptions (id, user_id, endpoint, keys)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, endpoint) DO UPDATE SET keys = excluded.keys
	`, uuid.NewString(), userID, endpoint, encodeJSON(keys))
	return err
}

func (s *SQLiteStore) DeletePushSubscription(ctx context.Context, userID, endpoint string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM push_subscriptions WHERE user_id = ? AND endpoint = ?
	`, userID, endpoint)
	return err
}

func (s *SQLiteStore) ListPushSubscriptions(ctx context.Context) ([]biblegames.PushSubscription, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, endpoint, keys, created_at FROM push_subscriptions
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []biblegames.PushSubscription
	for rows.Next() {
		var p biblegames.PushSubscription
		var keys, created string
		if err := rows.Scan(&p.ID, &p.UserID, &p.Endpoint, &keys, &created); err != nil {
			return nil, err
		}
		p.Keys = decodeJSON(keys)
		p.CreatedAt = parseTime(created)
		out = append(out, p)
	}
	return out, rows.Err()
}

// --- Tickets ---

func scanTicket(row interface{ Scan(...any) error }) (biblegames.Ticket, error) {
	var t biblegames.Ticket
	var status, created, updated string
	var flagged int
	err := row.Scan(&t.ID, &t.UserID, &t.Subject, &t.Body, &status, &flagged, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return t, ErrNotFound
	}
	if err != nil {
		return t, err
	}
	t.Status = biblegames.TicketStatus(status)
	t.Flagged = flagged == 1
	t.CreatedAt = parseTime(created)
	t.UpdatedAt = parseTime(updated)
	return t, nil
}

func (s *SQLiteStore) CreateTicket(ctx context.Context, userID, subject, body string) (biblegames.Ticket, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tickets (id, user_id, subject, body) VALUES (?, ?, ?, ?)
	`, id, userID, subject, body)
	if err != nil {
		return biblegames.Ticket{}, err
	}
	return scanTicket(s.db.QueryRowContext(ctx, `
		SELECT id, user_id, subject, body, status, flagged, created_at, updated_at
		FROM tickets WHERE id = ?
	`, id))
}

func (s *SQLiteStore) TicketsForUser(ctx context.Context, userID string) ([]biblegames.Ticket, error) {
	return s.queryTickets(ctx, `
		SELECT id, user_id, subject, body, status, flagged, created_at, updated_at
		FROM tickets WHERE user_id = ? ORDER BY created_at DESC
	`, userID)
}

func (s *SQLiteStore) ListTickets(ctx context.Context, status string, flaggedOnly bool) ([]biblegames.Ticket, error) {
	q := `
		SELECT id, user_id, subject, body, status, flagged, created_at, updated_at
		FROM tickets WHERE 1=1
	`
	var args []any
	if status != "" {
		q += ` AND status = ?`
		args = append(args, status)
	}
	if flaggedOnly {
		q += ` AND flagged = 1`
	}
	q += ` ORDER BY created_at DESC`
	return s.queryTickets(ctx, q, args...)
}

func (s *SQLiteStore) queryTickets(ctx context.Context, query string, args ...any) ([]biblegames.Ticket, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []biblegames.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateTicket(ctx context.Context, id string, status biblegames.TicketStatus, flagged bool) (biblegames.Ticket, error) {
	flaggedInt := 0
	if flagged {
		flaggedInt = 1
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE tickets SET status = ?, flagged = ?,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE id = ?
	`, string(status), flaggedInt, id)
	if err != nil {
		return biblegames.Ticket{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return biblegames.Ticket{}, ErrNotFound
	}
	return scanTicket(s.db.QueryRowContext(ctx, `
		SELECT id, user_id, subject, body, status, flagged, created_at, updated_at
		FROM tickets WHERE id = ?
	`, id))
}

// --- Admin accounts ---

func (s *SQLiteStore) AdminByEmail(ctx context.Context, email string) (string, string, error) {
	var adminID, passwordHash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash FROM admins WHERE email = ?
	`, email).Scan(&adminID, &passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return adminID, passwordHash, err
}

func (s *SQLiteStore) CreateAdmin(ctx context.Context, email, passwordHash string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admins (id, email, password_hash) VALUES (?, ?, ?)
	`, uuid.NewString(), email, passwordHash)
	return err
}

func (s *SQLiteStore) CountAdmins(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n)
	return n, err
}

func (s *SQLiteStore) CreateAdminSession(ctx context.Context, adminID string) (string, error) {
	var sessionID string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO admin_sessions (admin_id) VALUES (?) RETURNING id
	`, adminID).Scan(&sessionID)
	return sessionID, err
}

func (s *SQLiteStore) AdminFromSession(ctx context.Context, sessionID string) (adminSession, error) {
	var sess adminSession
	err := s.db.QueryRowContext(ctx, `
		SELECT a.id, a.email
		FROM admin_sessions s JOIN admins a ON a.id = s.admin_id
		WHERE s.id = ?
	`, sessionID).Scan(&sess.AdminID, &sess.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return adminSession{}, errNoAdminSession
	}
	return sess, err
}

func (s *SQLiteStore) DeleteAdminSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = ?`, sessionID)
	return err
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
