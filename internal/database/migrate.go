package database

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"path"
	"sort"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFS embed.FS

var requiredTables = []string{
	"users",
	"refresh_tokens",
	"restaurants",
	"dishes",
	"restaurant_owners",
	"user_favorites",
	"archives",
}

// EnsureSchema applies the embedded migrations for the active dialect when
// any required table is missing. Every statement is idempotent.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if db == nil || db.SQL == nil {
		return fmt.Errorf("database is not initialized")
	}

	exists, err := db.hasAllRequiredTables(ctx)
	if err != nil {
		return fmt.Errorf("check existing tables: %w", err)
	}
	if exists {
		slog.Info("database schema ensured", "driver", db.Dialect.Name())
		return nil
	}

	slog.Info("database schema missing tables; applying migrations", "driver", db.Dialect.Name())
	files, err := migrationFiles(db.Dialect.Name())
	if err != nil {
		return err
	}

	for _, file := range files {
		stmt, err := migrationFS.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		if _, err := db.SQL.ExecContext(ctx, string(stmt)); err != nil {
			return fmt.Errorf("apply migration %s: %w", path.Base(file), err)
		}
		slog.Info("migration applied", "file", path.Base(file))
	}

	exists, err = db.hasAllRequiredTables(ctx)
	if err != nil {
		return fmt.Errorf("re-check tables after migration: %w", err)
	}
	if !exists {
		return fmt.Errorf("schema initialization incomplete: required tables are still missing")
	}

	slog.Info("database schema ensured", "driver", db.Dialect.Name())
	return nil
}

func migrationFiles(dialect string) ([]string, error) {
	dir := path.Join("migrations", dialect)
	entries, err := migrationFS.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list migrations for %s: %w", dialect, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, path.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func (db *DB) hasAllRequiredTables(ctx context.Context) (bool, error) {
	query := `SELECT name FROM sqlite_master WHERE type = 'table'`
	if db.Dialect.Name() == DriverPostgres {
		query = `SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema()`
	}

	rows, err := db.SQL.QueryContext(ctx, query)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	present := map[string]struct{}{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, err
		}
		present[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return false, err
	}

	for _, table := range requiredTables {
		if _, ok := present[table]; !ok {
			return false, nil
		}
	}
	return true, nil
}
