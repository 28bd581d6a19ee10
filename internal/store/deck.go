package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Deck is a stored slide directory manifest.
type Deck struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SourceDir  string    `json:"source_dir"`
	SlideCount int       `json:"slide_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// SlideRef is one ordered entry of a deck manifest.
type SlideRef struct {
	Position int    `json:"position"`
	Seq      int    `json:"seq"`
	Path     string `json:"path"`
}

// DeckRepository provides operations on deck manifests.
type DeckRepository struct {
	db *sql.DB
}

// Decks returns the deck repository for this store.
func (s *Store) Decks() *DeckRepository {
	return &DeckRepository{db: s.db}
}

// Create inserts d and its ordered slides in one transaction. An empty ID is
// filled with a new UUID.
func (r *DeckRepository) Create(d *Deck, slides []SlideRef) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	d.SlideCount = len(slides)
	d.CreatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO decks (id, name, source_dir, slide_count, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.SourceDir, d.SlideCount, d.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert deck: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO slides (deck_id, position, seq, path) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, s := range slides {
		if _, err := stmt.Exec(d.ID, i, s.Seq, s.Path); err != nil {
			return fmt.Errorf("insert slide %d: %w", i, err)
		}
	}

	return tx.Commit()
}

const deckColumns = `id, name, source_dir, slide_count, created_at`

// GetByID retrieves a deck by its ID.
func (r *DeckRepository) GetByID(id string) (*Deck, error) {
	return r.get(`SELECT `+deckColumns+` FROM decks WHERE id = ?`, id)
}

// GetByName retrieves a deck by its name.
func (r *DeckRepository) GetByName(name string) (*Deck, error) {
	return r.get(`SELECT `+deckColumns+` FROM decks WHERE name = ?`, name)
}

// Resolve looks a deck up by ID, then by name.
func (r *DeckRepository) Resolve(ref string) (*Deck, error) {
	d, err := r.GetByID(ref)
	if errors.Is(err, ErrNotFound) {
		return r.GetByName(ref)
	}
	return d, err
}

func (r *DeckRepository) get(query string, arg any) (*Deck, error) {
	d := &Deck{}
	err := r.db.QueryRow(query, arg).Scan(&d.ID, &d.Name, &d.SourceDir, &d.SlideCount, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// List retrieves all decks, newest first.
func (r *DeckRepository) List() ([]*Deck, error) {
	rows, err := r.db.Query(`SELECT ` + deckColumns + ` FROM decks ORDER BY created_at DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decks []*Deck
	for rows.Next() {
		d := &Deck{}
		if err := rows.Scan(&d.ID, &d.Name, &d.SourceDir, &d.SlideCount, &d.CreatedAt); err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return decks, nil
}

// Slides returns the ordered manifest of a deck.
func (r *DeckRepository) Slides(deckID string) ([]SlideRef, error) {
	rows, err := r.db.Query(
		`SELECT position, seq, path FROM slides WHERE deck_id = ? ORDER BY position`,
		deckID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slides []SlideRef
	for rows.Next() {
		var s SlideRef
		if err := rows.Scan(&s.Position, &s.Seq, &s.Path); err != nil {
			return nil, err
		}
		slides = append(slides, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(slides) == 0 {
		if _, err := r.GetByID(deckID); err != nil {
			return nil, err
		}
	}

	return slides, nil
}

// Delete removes a deck, its manifest and its sessions.
func (r *DeckRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return rowsChanged(result)
}
