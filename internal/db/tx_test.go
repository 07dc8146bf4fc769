package db

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	// A single connection keeps the in-memory database alive across calls.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE positions (source TEXT PRIMARY KEY, position_ms INTEGER)`)
	if err != nil {
		db.Close()
		t.Fatalf("failed to create table: %v", err)
	}

	return db
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM positions`).Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return count
}

func TestWithTx_Success(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := WithTx(db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO positions VALUES (?, ?)`, "a.mp3", 1500)
		return err
	})
	if err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}

	if count := countRows(t, db); count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestWithTx_Rollback(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	testErr := errors.New("test error")

	err := WithTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO positions VALUES (?, ?)`, "a.mp3", 1500); err != nil {
			return err
		}
		return testErr
	})
	if !errors.Is(err, testErr) {
		t.Fatalf("WithTx should return the error: got %v, want %v", err, testErr)
	}

	if count := countRows(t, db); count != 0 {
		t.Errorf("count = %d, want 0 (rolled back)", count)
	}
}

func TestWithTx_ConstraintRollsBackEarlierWrites(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := WithTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO positions VALUES (?, ?)`, "a.mp3", 1); err != nil {
			return err
		}
		_, err := tx.Exec(`INSERT INTO positions VALUES (?, ?)`, "a.mp3", 2)
		return err
	})
	if err == nil {
		t.Fatal("expected primary key violation")
	}

	if count := countRows(t, db); count != 0 {
		t.Errorf("count = %d, want 0 (rolled back)", count)
	}
}

func TestMillis(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int64
	}{
		{in: 0, want: 0},
		{in: 1500 * time.Millisecond, want: 1500},
		{in: 1999 * time.Microsecond, want: 1},
		{in: -1, want: 0},
		{in: -time.Second, want: -1000},
	}
	for _, tt := range tests {
		if got := Millis(tt.in); got != tt.want {
			t.Errorf("Millis(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNullMillis(t *testing.T) {
	if got := NullMillis(sql.NullInt64{Int64: 2500, Valid: true}, 0); got != 2500*time.Millisecond {
		t.Errorf("NullMillis(valid) = %v, want 2.5s", got)
	}
	if got := NullMillis(sql.NullInt64{}, -1); got != -1 {
		t.Errorf("NullMillis(null) = %v, want fallback", got)
	}
}

func TestNullFloat64Value(t *testing.T) {
	if got := NullFloat64Value(sql.NullFloat64{Float64: 0.5, Valid: true}, 1); got != 0.5 {
		t.Errorf("NullFloat64Value(valid) = %v, want 0.5", got)
	}
	if got := NullFloat64Value(sql.NullFloat64{Valid: false}, 1); got != 1 {
		t.Errorf("NullFloat64Value(null) = %v, want 1", got)
	}
}
