package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "radar.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteStore_AddAndList(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	first, err := s.Add(ctx, "PT", "Lisbon")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	second, err := s.Add(ctx, "DE", "Berlin")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.AddedAt.IsZero())
	}
}

func TestSQLiteStore_Remove(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "PT", "Lisbon")
	require.NoError(t, err)
	_, err = s.Add(ctx, "PT", "Lisbon")
	require.NoError(t, err)
	_, err = s.Add(ctx, "PT", "Porto")
	require.NoError(t, err)

	removed, err := s.Remove(ctx, "PT", "Lisbon")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Porto", entries[0].City)
}

func TestSQLiteStore_RemoveMissing(t *testing.T) {
	s := newTestSQLiteStore(t)

	removed, err := s.Remove(context.Background(), "XX", "Nowhere")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestSQLiteStore_MigrateIdempotent(t *testing.T) {
	s := newTestSQLiteStore(t)
	require.NoError(t, s.Migrate(context.Background()))
}
