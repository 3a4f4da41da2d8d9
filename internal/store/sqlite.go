package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS watchlist (
	id       TEXT PRIMARY KEY,
	country  TEXT NOT NULL,
	city     TEXT NOT NULL,
	added_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_watchlist_pair ON watchlist(country, city);
`

// Migrate creates the watchlist schema.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteMigration); err != nil {
		return eris.Wrap(err, "sqlite: migrate")
	}
	return nil
}

// Add records a (country, city) pair.
func (s *SQLiteStore) Add(ctx context.Context, country, city string) (*Entry, error) {
	entry := &Entry{
		ID:      uuid.New().String(),
		Country: country,
		City:    city,
		AddedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO watchlist (id, country, city, added_at) VALUES (?, ?, ?, ?)`,
		entry.ID, entry.Country, entry.City, entry.AddedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: add watchlist entry")
	}
	return entry, nil
}

// Remove deletes every entry matching the pair.
func (s *SQLiteStore) Remove(ctx context.Context, country, city string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM watchlist WHERE country = ? AND city = ?`,
		country, city,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: remove watchlist entry")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: rows affected")
	}
	return n, nil
}

// List returns all entries, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, country, city, added_at FROM watchlist ORDER BY added_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list watchlist")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Country, &e.City, &e.AddedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan watchlist entry")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate watchlist")
	}
	return entries, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
