// Package db holds the small SQL helpers shared by the persistence code.
package db

import (
	"database/sql"
	"time"
)

// WithTx executes fn within a transaction.
// It handles Begin, Rollback on error, and Commit on success.
func WithTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Millis stores a duration as whole milliseconds. Negative durations
// (unknown length) are kept as-is.
func Millis(d time.Duration) int64 {
	return d.Milliseconds()
}

// NullMillis returns the duration stored in n, or fallback when n is NULL.
func NullMillis(n sql.NullInt64, fallback time.Duration) time.Duration {
	if !n.Valid {
		return fallback
	}
	return time.Duration(n.Int64) * time.Millisecond
}

// NullFloat64Value returns the float value or fallback if not valid.
func NullFloat64Value(n sql.NullFloat64, fallback float64) float64 {
	if !n.Valid {
		return fallback
	}
	return n.Float64
}
