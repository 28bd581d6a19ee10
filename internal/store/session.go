package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Session summarizes one presentation run. Annotations are never stored.
type Session struct {
	ID          string     `json:"id"`
	DeckID      string     `json:"deck_id"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	LastSlide   int        `json:"last_slide"`
	Navigations int        `json:"navigations"`
}

// SessionRepository records presentation runs.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Start records the beginning of a run on deckID.
func (r *SessionRepository) Start(deckID string) (*Session, error) {
	sess := &Session{
		ID:        uuid.New().String(),
		DeckID:    deckID,
		StartedAt: time.Now(),
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, deck_id, started_at) VALUES (?, ?, ?)`,
		sess.ID, sess.DeckID, sess.StartedAt,
	)
	if err != nil {
		return nil, err
	}

	return sess, nil
}

// Finish stores the final slide and navigation count of a run.
func (r *SessionRepository) Finish(id string, lastSlide, navigations int) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET ended_at = ?, last_slide = ?, navigations = ? WHERE id = ?`,
		time.Now(), lastSlide, navigations, id,
	)
	if err != nil {
		return err
	}
	return rowsChanged(result)
}

// ListByDeck returns the runs of a deck, newest first.
func (r *SessionRepository) ListByDeck(deckID string) ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, deck_id, started_at, ended_at, last_slide, navigations
		 FROM sessions WHERE deck_id = ? ORDER BY started_at DESC`,
		deckID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		s := &Session{}
		var ended sql.NullTime
		if err := rows.Scan(&s.ID, &s.DeckID, &s.StartedAt, &ended, &s.LastSlide, &s.Navigations); err != nil {
			return nil, err
		}
		if ended.Valid {
			s.EndedAt = &ended.Time
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
