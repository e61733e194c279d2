package store

func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per played round
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			score INTEGER NOT NULL DEFAULT 0,
			shots INTEGER NOT NULL DEFAULT 0,
			target_radius REAL NOT NULL,
			range_multiplier REAL NOT NULL
		)`,

		// Every fired shot with where it aimed and the target at that moment
		`CREATE TABLE IF NOT EXISTS shots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			frame INTEGER NOT NULL,
			angle REAL NOT NULL,
			aim_x REAL NOT NULL,
			aim_y REAL NOT NULL,
			target_x REAL NOT NULL,
			target_y REAL NOT NULL,
			hit INTEGER NOT NULL,
			fired_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_shots_session_id ON shots(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_score ON sessions(score DESC)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
