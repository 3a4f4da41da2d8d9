// Package store persists the watchlist of (country, city) pairs an analyst
// is tracking. The scoring engine never reads this store; only the watch
// commands do.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/marketscope/radar-cli/internal/config"
)

// Entry is one tracked (country, city) pair.
type Entry struct {
	ID      string    `json:"id"`
	Country string    `json:"country"`
	City    string    `json:"city"`
	AddedAt time.Time `json:"added_at"`
}

// Store defines the watchlist persistence interface.
type Store interface {
	// Add records a (country, city) pair.
	Add(ctx context.Context, country, city string) (*Entry, error)

	// Remove deletes every entry matching the pair and reports how many.
	Remove(ctx context.Context, country, city string) (int64, error)

	// List returns all entries, newest first.
	List(ctx context.Context) ([]Entry, error)

	// Migrate creates the schema if needed.
	Migrate(ctx context.Context) error

	Close() error
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.DSN)
	case "postgres":
		return NewPostgres(ctx, cfg.DSN)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
