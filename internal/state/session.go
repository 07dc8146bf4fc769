package state

import (
	"database/sql"
	"errors"
	"time"

	dbutil "github.com/llehouerou/tempo/internal/db"
)

// Session is the player state restored at startup.
type Session struct {
	Source   string
	Title    string
	Position time.Duration
	Duration time.Duration // <= 0 when unknown
	Speed    float64
	Volume   float64
}

// Recent is one entry of the recently played list.
type Recent struct {
	Source       string
	Title        string
	Duration     time.Duration
	Position     time.Duration
	LastPlayedAt time.Time
}

func getSession(db *sql.DB) (*Session, error) {
	row := db.QueryRow(`
		SELECT s.source, s.position_ms, s.speed, s.volume, r.title, r.duration_ms
		FROM session_state s
		LEFT JOIN recent_sources r ON r.source = s.source
		WHERE s.id = 1
	`)

	var s Session
	var positionMs int64
	var title sql.NullString
	var durationMs sql.NullInt64

	err := row.Scan(&s.Source, &positionMs, &s.Speed, &s.Volume, &title, &durationMs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved session is valid on first run
	}
	if err != nil {
		return nil, err
	}

	s.Position = time.Duration(positionMs) * time.Millisecond
	s.Title = title.String
	s.Duration = dbutil.NullMillis(durationMs, 0)
	return &s, nil
}

// saveSession updates the session row and the source's resume entry together.
func saveSession(db *sql.DB, s Session) error {
	now := time.Now().Unix()

	var duration sql.NullInt64
	if s.Duration > 0 {
		duration = sql.NullInt64{Int64: dbutil.Millis(s.Duration), Valid: true}
	}

	return dbutil.WithTx(db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO session_state (id, source, position_ms, speed, volume, updated_at)
			VALUES (1, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				source = excluded.source,
				position_ms = excluded.position_ms,
				speed = excluded.speed,
				volume = excluded.volume,
				updated_at = excluded.updated_at
		`, s.Source, dbutil.Millis(s.Position), s.Speed, s.Volume, now)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			INSERT INTO recent_sources (source, title, duration_ms, position_ms, last_played_at)
			VALUES (?, NULLIF(?, ''), ?, ?, ?)
			ON CONFLICT(source) DO UPDATE SET
				title = COALESCE(excluded.title, recent_sources.title),
				duration_ms = COALESCE(excluded.duration_ms, recent_sources.duration_ms),
				position_ms = excluded.position_ms,
				last_played_at = excluded.last_played_at
		`, s.Source, s.Title, duration, dbutil.Millis(s.Position), now)
		return err
	})
}

// ResumePosition returns the last position saved for source, or 0.
func (m *Manager) ResumePosition(source string) (time.Duration, error) {
	var positionMs int64
	err := m.db.QueryRow(`SELECT position_ms FROM recent_sources WHERE source = ?`, source).Scan(&positionMs)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return time.Duration(positionMs) * time.Millisecond, nil
}

// RecentSources returns up to limit sources, most recently played first.
func (m *Manager) RecentSources(limit int) ([]Recent, error) {
	rows, err := m.db.Query(`
		SELECT source, title, duration_ms, position_ms, last_played_at
		FROM recent_sources
		ORDER BY last_played_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recents []Recent
	for rows.Next() {
		var r Recent
		var title sql.NullString
		var durationMs sql.NullInt64
		var positionMs, lastPlayed int64

		if err := rows.Scan(&r.Source, &title, &durationMs, &positionMs, &lastPlayed); err != nil {
			return nil, err
		}

		r.Title = title.String
		r.Duration = dbutil.NullMillis(durationMs, 0)
		r.Position = time.Duration(positionMs) * time.Millisecond
		r.LastPlayedAt = time.Unix(lastPlayed, 0)
		recents = append(recents, r)
	}

	return recents, rows.Err()
}

// ForgetSource removes a source from the recent list.
func (m *Manager) ForgetSource(source string) error {
	_, err := m.db.Exec(`DELETE FROM recent_sources WHERE source = ?`, source)
	return err
}
