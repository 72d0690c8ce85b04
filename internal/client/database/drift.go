package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avachat/avachat/internal/client/migrations"
	"github.com/pressly/goose/v3"
)

// schemaDrift reports whether the database carries applied migrations this
// build does not know about. That happens when a newer or divergent build
// touched the file; applying our set on top could corrupt it. Databases
// that are merely behind are not drifted, pending migrations handle those.
func schemaDrift(ctx context.Context, db *sql.DB) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='goose_db_version'`).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to inspect schema: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	known, err := knownVersions()
	if err != nil {
		return false, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT DISTINCT version_id FROM goose_db_version WHERE is_applied = 1 AND version_id > 0`)
	if err != nil {
		return false, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return false, fmt.Errorf("failed to scan applied migration: %w", err)
		}
		if _, ok := known[v]; !ok {
			return true, nil
		}
	}
	return false, rows.Err()
}

// knownVersions returns the migration versions registered in this build.
func knownVersions() (map[int64]struct{}, error) {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	all, err := goose.CollectMigrations(".", 0, goose.MaxVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to collect migrations: %w", err)
	}
	known := make(map[int64]struct{}, len(all))
	for _, m := range all {
		known[m.Version] = struct{}{}
	}
	return known, nil
}
