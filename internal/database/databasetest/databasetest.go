// Package databasetest opens throwaway SQLite databases for tests.
package databasetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/database"
)

// Open returns a migrated SQLite database living in t.TempDir().
func Open(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(context.Background(), database.Options{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
		MaxConns:   4,
	})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.EnsureSchema(context.Background()))
	return db
}
