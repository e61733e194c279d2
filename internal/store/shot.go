package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Shot is one fired shot.
type Shot struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"sessionId"`
	Frame     int       `json:"frame"`
	Angle     float64   `json:"angle"`
	AimX      float64   `json:"aimX"`
	AimY      float64   `json:"aimY"`
	TargetX   float64   `json:"targetX"`
	TargetY   float64   `json:"targetY"`
	Hit       bool      `json:"hit"`
	FiredAt   time.Time `json:"firedAt"`
}

// ShotRepository stores shots.
type ShotRepository struct {
	db *sql.DB
}

// Shots returns the shot repository for this store.
func (s *Store) Shots() *ShotRepository {
	return &ShotRepository{db: s.db}
}

// Record inserts a shot, filling in ID and a zero FiredAt.
func (r *ShotRepository) Record(shot *Shot) error {
	if shot.FiredAt.IsZero() {
		shot.FiredAt = time.Now().UTC()
	}

	result, err := r.db.Exec(
		`INSERT INTO shots (session_id, frame, angle, aim_x, aim_y, target_x, target_y, hit, fired_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		shot.SessionID, shot.Frame, shot.Angle, shot.AimX, shot.AimY,
		shot.TargetX, shot.TargetY, shot.Hit, shot.FiredAt,
	)
	if err != nil {
		return fmt.Errorf("record shot: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("record shot: %w", err)
	}
	shot.ID = id
	return nil
}

// ListBySession returns a session's shots in firing order.
func (r *ShotRepository) ListBySession(sessionID string) ([]*Shot, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, frame, angle, aim_x, aim_y, target_x, target_y, hit, fired_at
		 FROM shots WHERE session_id = ? ORDER BY id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list shots: %w", err)
	}
	defer rows.Close()

	shots := []*Shot{}
	for rows.Next() {
		s := &Shot{}
		err := rows.Scan(&s.ID, &s.SessionID, &s.Frame, &s.Angle, &s.AimX, &s.AimY,
			&s.TargetX, &s.TargetY, &s.Hit, &s.FiredAt)
		if err != nil {
			return nil, err
		}
		shots = append(shots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shots, nil
}

// CountHits returns the number of hits recorded for a session.
func (r *ShotRepository) CountHits(sessionID string) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM shots WHERE session_id = ? AND hit = 1`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count hits: %w", err)
	}
	return n, nil
}
