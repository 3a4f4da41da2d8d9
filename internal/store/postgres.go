package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool abstracts the pgx connection pool so tests can substitute pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 4
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS watchlist (
	id       TEXT PRIMARY KEY,
	country  TEXT NOT NULL,
	city     TEXT NOT NULL,
	added_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_watchlist_pair ON watchlist(country, city);
`

// Migrate creates the watchlist schema.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	return nil
}

// Add records a (country, city) pair.
func (s *PostgresStore) Add(ctx context.Context, country, city string) (*Entry, error) {
	entry := &Entry{
		ID:      uuid.New().String(),
		Country: country,
		City:    city,
		AddedAt: time.Now().UTC(),
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO watchlist (id, country, city, added_at) VALUES ($1, $2, $3, $4)`,
		entry.ID, entry.Country, entry.City, entry.AddedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: add watchlist entry")
	}
	return entry, nil
}

// Remove deletes every entry matching the pair.
func (s *PostgresStore) Remove(ctx context.Context, country, city string) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM watchlist WHERE country = $1 AND city = $2`,
		country, city,
	)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: remove watchlist entry")
	}
	return tag.RowsAffected(), nil
}

// List returns all entries, newest first.
func (s *PostgresStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, country, city, added_at FROM watchlist ORDER BY added_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list watchlist")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Country, &e.City, &e.AddedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan watchlist entry")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate watchlist")
	}
	return entries, nil
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
