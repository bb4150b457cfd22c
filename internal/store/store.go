// Package store persists user state that must survive restarts. Currently
// that is pinned tickers, kept per feed in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// PinStore persists pinned tickers.
type PinStore interface {
	// Pin marks a ticker as pinned on a feed. Pinning twice is a no-op.
	Pin(ctx context.Context, feed, ticker string) error

	// Unpin removes a pin. Unpinning an absent pin is a no-op.
	Unpin(ctx context.Context, feed, ticker string) error

	// List returns the pinned tickers for a feed, oldest pin first.
	List(ctx context.Context, feed string) ([]string, error)
}

// Compile-time interface check.
var _ PinStore = (*SQLiteStore)(nil)

// SQLiteStore implements PinStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS pins (
			feed       TEXT NOT NULL,
			ticker     TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			PRIMARY KEY (feed, ticker)
		)`); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Pin marks a ticker as pinned on a feed.
func (s *SQLiteStore) Pin(ctx context.Context, feed, ticker string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO pins (feed, ticker, created_at) VALUES (?, ?, ?)`,
		feed, ticker, time.Now().UTC())
	return err
}

// Unpin removes a pin.
func (s *SQLiteStore) Unpin(ctx context.Context, feed, ticker string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM pins WHERE feed = ? AND ticker = ?`, feed, ticker)
	return err
}

// List returns the pinned tickers for a feed, oldest pin first.
func (s *SQLiteStore) List(ctx context.Context, feed string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ticker FROM pins WHERE feed = ? ORDER BY created_at, ticker`, feed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}
