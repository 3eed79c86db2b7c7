package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// TrackingSession records one run of the detection pipeline.
type TrackingSession struct {
	ID        string
	Threshold float64
	StartedAt time.Time
	EndedAt   *time.Time
	SessionStats
}

// SessionStats are frame counters. Gestures maps a gesture label to the
// number of frames classified as it.
type SessionStats struct {
	Frames         int
	HandFrames     int
	RejectedFrames int
	Gestures       map[string]int
}

// Empty reports whether no frame was counted.
func (s SessionStats) Empty() bool {
	return s.Frames == 0 && s.HandFrames == 0 && s.RejectedFrames == 0 && len(s.Gestures) == 0
}

// SessionRepository stores tracking sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the tracking session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a session. StartedAt defaults to now.
func (r *SessionRepository) Create(ts *TrackingSession) error {
	if ts.StartedAt.IsZero() {
		ts.StartedAt = time.Now()
	}
	_, err := r.db.Exec(
		`INSERT INTO tracking_sessions (id, threshold, started_at) VALUES (?, ?, ?)`,
		ts.ID, ts.Threshold, ts.StartedAt,
	)
	return err
}

// Record adds delta to the counters of session id.
func (r *SessionRepository) Record(id string, delta SessionStats) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE tracking_sessions
		 SET frames = frames + ?, hand_frames = hand_frames + ?, rejected_frames = rejected_frames + ?
		 WHERE id = ?`,
		delta.Frames, delta.HandFrames, delta.RejectedFrames, id,
	)
	if err != nil {
		return err
	}
	if err := affectOne(result); err != nil {
		return err
	}

	for gesture, n := range delta.Gestures {
		if _, err := tx.Exec(
			`INSERT INTO session_gestures (session_id, gesture, frames) VALUES (?, ?, ?)
			 ON CONFLICT(session_id, gesture) DO UPDATE SET frames = frames + excluded.frames`,
			id, gesture, n,
		); err != nil {
			return fmt.Errorf("record %s: %w", gesture, err)
		}
	}

	return tx.Commit()
}

// End marks session id as finished.
func (r *SessionRepository) End(id string, at time.Time) error {
	result, err := r.db.Exec(`UPDATE tracking_sessions SET ended_at = ? WHERE id = ?`, at, id)
	if err != nil {
		return err
	}
	return affectOne(result)
}

// GetByID retrieves a session with its gesture counts.
func (r *SessionRepository) GetByID(id string) (*TrackingSession, error) {
	ts, err := scanSession(r.db.QueryRow(
		`SELECT `+sessionColumns+` FROM tracking_sessions WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadGestures(ts); err != nil {
		return nil, err
	}
	return ts, nil
}

// List returns up to limit sessions, newest first. A non-positive limit
// returns all sessions.
func (r *SessionRepository) List(limit int) ([]*TrackingSession, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT `+sessionColumns+` FROM tracking_sessions ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}

	sessions := []*TrackingSession{}
	for rows.Next() {
		ts, err := scanSession(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		sessions = append(sessions, ts)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, ts := range sessions {
		if err := r.loadGestures(ts); err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

const sessionColumns = `id, threshold, started_at, ended_at, frames, hand_frames, rejected_frames`

func scanSession(row rowScanner) (*TrackingSession, error) {
	ts := &TrackingSession{}
	var ended sql.NullTime

	if err := row.Scan(&ts.ID, &ts.Threshold, &ts.StartedAt, &ended,
		&ts.Frames, &ts.HandFrames, &ts.RejectedFrames); err != nil {
		return nil, err
	}
	if ended.Valid {
		ts.EndedAt = &ended.Time
	}
	return ts, nil
}

func (r *SessionRepository) loadGestures(ts *TrackingSession) error {
	rows, err := r.db.Query(`SELECT gesture, frames FROM session_gestures WHERE session_id = ?`, ts.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	ts.Gestures = make(map[string]int)
	for rows.Next() {
		var gesture string
		var n int
		if err := rows.Scan(&gesture, &n); err != nil {
			return err
		}
		ts.Gestures[gesture] = n
	}
	return rows.Err()
}
