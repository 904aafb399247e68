package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/moodsphere/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/moodsphere/internal/shared/infrastructure/database/sqlite"
)

func TestRun_SQLite(t *testing.T) {
	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: filepath.Join(t.TempDir(), "journal.db")})
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, Run(ctx, conn))
	// A second run is a no-op.
	require.NoError(t, Run(ctx, conn))

	var count int
	err = conn.QueryRow(ctx, `SELECT COUNT(*) FROM journal_entries`).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUpFiles(t *testing.T) {
	for _, dir := range []string{"sqlite", "postgres"} {
		files, err := upFiles(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"001_journal_entries.up.sql"}, files)
	}

	_, err := upFiles("mongo")
	assert.Error(t, err)
}

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements("CREATE TABLE a (x INT);\n\n  CREATE INDEX i ON a (x);\n")
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "CREATE INDEX i ON a (x)"}, stmts)
}
