package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/moodsphere/internal/journal/domain"
	"github.com/felixgeelhaar/moodsphere/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/moodsphere/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/moodsphere/internal/shared/infrastructure/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEntryTestDB opens an in-memory SQLite database with the schema applied.
func setupEntryTestDB(t *testing.T) database.Connection {
	t.Helper()
	ctx := context.Background()

	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, migrations.Run(ctx, conn), "Failed to apply SQLite schema")
	return conn
}

func TestSQLiteEntryRepository(t *testing.T) {
	runRepositoryContract(t, func(t *testing.T) domain.EntryRepository {
		return NewSQLiteEntryRepository(setupEntryTestDB(t))
	})
}

func TestSQLiteEntryRepository_MigrationsAreIdempotent(t *testing.T) {
	conn := setupEntryTestDB(t)
	require.NoError(t, migrations.Run(context.Background(), conn))
}

func TestSQLiteEntryRepository_PreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteEntryRepository(setupEntryTestDB(t))

	entry := newTestEntry(t, "alice", "created at check", time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))
	_, err := repo.Insert(ctx, entry)
	require.NoError(t, err)

	found, err := repo.FindByUser(ctx, "alice", domain.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.True(t, entry.CreatedAt().Equal(found[0].CreatedAt()))
}

func TestSQLiteEntryRepository_RejectsCorruptCreatedAt(t *testing.T) {
	ctx := context.Background()
	conn := setupEntryTestDB(t)
	repo := NewSQLiteEntryRepository(conn)

	entry := newTestEntry(t, "alice", "bad timestamp", time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))
	_, err := repo.Insert(ctx, entry)
	require.NoError(t, err)

	_, err = conn.Exec(ctx, "UPDATE journal_entries SET created_at = ? WHERE id = ?", "last tuesday", entry.Key())
	require.NoError(t, err)

	_, err = repo.FindByUser(ctx, "alice", domain.EntryFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid created_at")
}
