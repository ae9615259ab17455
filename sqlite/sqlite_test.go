package sqlite_test

import (
	"context"
	"testing"

	"github.com/hweisong/tenderparse/sqlite"
	"github.com/stretchr/testify/require"
)

// setupTestDB opens an in-memory database with the schema applied.
func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates schema on first open", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)

		var count int
		err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM tender_records").Scan(&count)
		require.NoError(t, err)
		require.Equal(t, 0, count)
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB("/nonexistent/path/db.sqlite")
		err := db.Open()
		require.Error(t, err)
	})

	t.Run("enables WAL mode for file-based databases", func(t *testing.T) {
		t.Parallel()

		dbPath := t.TempDir() + "/test.db"
		db := sqlite.NewDB(dbPath)
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		var journalMode string
		err = db.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&journalMode)
		require.NoError(t, err)
		require.Equal(t, "wal", journalMode)
	})

	t.Run("enforces info_id uniqueness at the schema level", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		_, err := db.ExecContext(ctx, `
			INSERT INTO tender_records (id, info_id, status, parse_time)
			VALUES ('a', 'dup', 'success', '2025-06-01T00:00:00Z')
		`)
		require.NoError(t, err)

		_, err = db.ExecContext(ctx, `
			INSERT INTO tender_records (id, info_id, status, parse_time)
			VALUES ('b', 'dup', 'success', '2025-06-01T00:00:00Z')
		`)
		require.Error(t, err)
	})
}
