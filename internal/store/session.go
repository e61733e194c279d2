package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session is one played round.
type Session struct {
	ID              string     `json:"id"`
	StartedAt       time.Time  `json:"startedAt"`
	EndedAt         *time.Time `json:"endedAt,omitempty"`
	Score           int        `json:"score"`
	Shots           int        `json:"shots"`
	TargetRadius    float64    `json:"targetRadius"`
	RangeMultiplier float64    `json:"rangeMultiplier"`
}

// Accuracy returns the hit ratio, 0 before the first shot.
func (s *Session) Accuracy() float64 {
	if s.Shots == 0 {
		return 0
	}
	return float64(s.Score) / float64(s.Shots)
}

// SessionRepository stores sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

const sessionColumns = `id, started_at, ended_at, score, shots, target_radius, range_multiplier`

// Create inserts a new open session, assigning ID and StartedAt when empty.
func (r *SessionRepository) Create(s *Session) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.StartedAt.IsZero() {
		s.StartedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (`+sessionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.StartedAt, nullTime(s.EndedAt), s.Score, s.Shots, s.TargetRadius, s.RangeMultiplier,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// UpdateScore records the running totals of an open session.
func (r *SessionRepository) UpdateScore(id string, score, shots int) error {
	result, err := r.db.Exec(`UPDATE sessions SET score = ?, shots = ? WHERE id = ?`, score, shots, id)
	if err != nil {
		return fmt.Errorf("update session %s: %w", id, err)
	}
	return expectRow(result)
}

// Finish closes a session with its final totals.
func (r *SessionRepository) Finish(id string, score, shots int) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET score = ?, shots = ?, ended_at = ? WHERE id = ?`,
		score, shots, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("finish session %s: %w", id, err)
	}
	return expectRow(result)
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	row := r.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)

	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// List returns the most recent sessions first. limit <= 0 returns all.
func (r *SessionRepository) List(limit int) ([]*Session, error) {
	return r.query(`SELECT `+sessionColumns+` FROM sessions ORDER BY started_at DESC LIMIT ?`, limit)
}

// Best returns sessions ordered by score, ties broken by fewer shots.
func (r *SessionRepository) Best(limit int) ([]*Session, error) {
	return r.query(`SELECT `+sessionColumns+` FROM sessions ORDER BY score DESC, shots ASC, started_at ASC LIMIT ?`, limit)
}

// Delete removes a session and its shots.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return expectRow(result)
}

func (r *SessionRepository) query(q string, limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(q, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	s := &Session{}
	var ended sql.NullTime

	err := row.Scan(&s.ID, &s.StartedAt, &ended, &s.Score, &s.Shots, &s.TargetRadius, &s.RangeMultiplier)
	if err != nil {
		return nil, err
	}
	if ended.Valid {
		t := ended.Time
		s.EndedAt = &t
	}
	return s, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func expectRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
