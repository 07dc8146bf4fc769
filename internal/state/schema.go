package state

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS session_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			source TEXT NOT NULL,
			position_ms INTEGER NOT NULL DEFAULT 0,
			speed REAL NOT NULL DEFAULT 1,
			volume REAL NOT NULL DEFAULT 1,
			updated_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS recent_sources (
			source TEXT PRIMARY KEY,
			title TEXT,
			duration_ms INTEGER,
			position_ms INTEGER NOT NULL DEFAULT 0,
			last_played_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_recent_last_played ON recent_sources(last_played_at DESC);
	`)
	if err != nil {
		return err
	}

	// Set initial version if not exists
	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
