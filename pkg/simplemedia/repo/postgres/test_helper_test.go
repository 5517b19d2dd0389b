package postgres

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// TestDB represents a test database connection
type TestDB struct {
	Pool *pgxpool.Pool
}

// RunTest runs fn against a migrated, emptied database. Tests are skipped
// unless TEST_DATABASE_URL is set.
func RunTest(t *testing.T, fn func(t *testing.T, db *TestDB)) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	start := time.Now()
	require.NoError(t, Migrate(connString, ""), "Failed to migrate test database")
	slog.Debug("Migrated test database", "name", t.Name(), "took", time.Since(start))

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err, "Failed to connect to test database")
	defer pool.Close()
	require.NoError(t, pool.Ping(ctx), "Failed to ping test database")

	db := &TestDB{Pool: pool}
	db.cleanup(t)
	defer db.cleanup(t)

	slog.Info("Running postgres test", "name", t.Name())
	fn(t, db)
}

func (db *TestDB) cleanup(t *testing.T) {
	t.Helper()
	tag, err := db.Pool.Exec(context.Background(), "TRUNCATE media_item, field_config, media_type")
	require.NoError(t, err, "Failed to clean test tables")
	slog.Debug("Cleaned test tables", "name", t.Name(), "command", tag.String())
}
