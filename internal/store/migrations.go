package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Decks table - one row per imported slide directory
		`CREATE TABLE IF NOT EXISTS decks (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			source_dir TEXT NOT NULL,
			slide_count INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Slides table - ordered manifest of a deck
		`CREATE TABLE IF NOT EXISTS slides (
			deck_id TEXT NOT NULL REFERENCES decks(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			path TEXT NOT NULL,
			PRIMARY KEY (deck_id, position)
		)`,

		// Sessions table - summary of each presentation run
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			deck_id TEXT NOT NULL REFERENCES decks(id) ON DELETE CASCADE,
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			last_slide INTEGER NOT NULL DEFAULT 0,
			navigations INTEGER NOT NULL DEFAULT 0
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_sessions_deck_id ON sessions(deck_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
