package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Settings table - runtime tunables as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Actions table - plugin actions run when a gesture starts
		`CREATE TABLE IF NOT EXISTS actions (
			id TEXT PRIMARY KEY,
			gesture TEXT NOT NULL CHECK(gesture IN (
				'DRAW', 'SHAPE_LAUNCH', 'SCREENSHOT', 'HOVER', 'ERASE', 'MOVE', 'MATH_LAUNCH'
			)),
			plugin_name TEXT NOT NULL,
			action_name TEXT NOT NULL,
			config TEXT NOT NULL DEFAULT '{}',
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Tracking sessions table - one row per pipeline run
		`CREATE TABLE IF NOT EXISTS tracking_sessions (
			id TEXT PRIMARY KEY,
			threshold REAL NOT NULL,
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			frames INTEGER NOT NULL DEFAULT 0,
			hand_frames INTEGER NOT NULL DEFAULT 0,
			rejected_frames INTEGER NOT NULL DEFAULT 0
		)`,

		// Per-gesture frame counts for each tracking session
		`CREATE TABLE IF NOT EXISTS session_gestures (
			session_id TEXT NOT NULL REFERENCES tracking_sessions(id) ON DELETE CASCADE,
			gesture TEXT NOT NULL,
			frames INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (session_id, gesture)
		)`,

		// Calibration samples table - Debug values labelled by finger pose
		`CREATE TABLE IF NOT EXISTS calibration_samples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			label TEXT NOT NULL CHECK(label IN ('extended', 'curled')),
			value REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_actions_gesture ON actions(gesture)`,
		`CREATE INDEX IF NOT EXISTS idx_tracking_sessions_started_at ON tracking_sessions(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_calibration_samples_label ON calibration_samples(label)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
