package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"quizsalon/internal/infra/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := db.Open("mysql", "whatever")
	assert.Error(t, err)
}

func TestMigrateIsRepeatable(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(db.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, db.Migrate(ctx, conn, db.DriverSQLite))
	require.NoError(t, db.Migrate(ctx, conn, db.DriverSQLite))

	var versions int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&versions))
	assert.Equal(t, 3, versions)

	var questions int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM questions WHERE difficulty = 2").Scan(&questions))
	assert.Equal(t, 3, questions)

	var avatars int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM avatars").Scan(&avatars))
	assert.Equal(t, 6, avatars)
}
