// Package database opens the client's embedded SQLite database, applies
// schema migrations, detects schema drift, and exposes the write path that
// notifies live queries after each committed transaction.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/avachat/avachat/internal/client/config"
	"github.com/avachat/avachat/internal/client/livequery"
	"github.com/avachat/avachat/internal/client/migrations"
	"github.com/avachat/avachat/internal/client/seed"
	"github.com/avachat/avachat/internal/common"
	"github.com/avachat/avachat/internal/dbx"
	"github.com/avachat/avachat/internal/logging"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// Store is the open database plus the change hub writers publish to.
type Store struct {
	DB  *sql.DB
	Hub *livequery.Hub

	log logging.Logger
}

// Open opens the database selected by cfg, verifies the applied migration
// set, runs pending migrations and returns the ready Store.
//
// Seeding follows cfg.Debug: debug configurations get fixture rows inserted
// by the seed migration step, release configurations do not. A database
// whose applied migrations are unknown to this build is handled per
// cfg.Debug as well: dropped and recreated in debug, fatal in release.
func Open(ctx context.Context, cfg *config.Config, log logging.Logger) (*Store, error) {
	seed.Enable(cfg.Debug)

	db, err := open(ctx, cfg.DSN(), log)
	if err != nil {
		return nil, err
	}

	drifted, err := schemaDrift(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if drifted {
		db, err = handleDrift(ctx, db, cfg, log)
		if err != nil {
			return nil, err
		}
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info(ctx, "database ready", "context", cfg.Context, "dsn", cfg.DSN())
	return &Store{DB: db, Hub: livequery.NewHub(), log: log}, nil
}

// open dials the DSN and applies per-connection settings. A single pooled
// connection keeps the PRAGMA in force for every statement and makes
// :memory: databases behave as one database instead of one per connection.
func open(ctx context.Context, dsn string, log logging.Logger) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	log.Debug(ctx, "database opened", "dsn", dsn)
	return db, nil
}

// RunMigrations applies all pending schema migrations, including the
// registered Go seed step.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// WriteTx runs fn inside a transaction and, only after a successful commit,
// notifies live queries watching the given tables. A failed or rolled-back
// transaction publishes nothing.
func (s *Store) WriteTx(ctx context.Context, tables []string, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	if err := dbx.WithTx(ctx, s.DB, nil, fn); err != nil {
		return err
	}
	s.Hub.Publish(tables...)
	return nil
}

// Write is WriteTx for callers that need a result out of the transaction.
// On error the transaction is rolled back, nothing is published, and the
// zero value is returned.
func Write[T any](ctx context.Context, s *Store, tables []string, fn func(ctx context.Context, tx dbx.DBTX) (T, error)) (T, error) {
	var out T
	err := s.WriteTx(ctx, tables, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		out, err = fn(ctx, tx)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// handleDrift resolves a database whose applied migration set does not match
// this build. Debug configurations drop the file and start over; release
// configurations refuse to touch the data.
func handleDrift(ctx context.Context, db *sql.DB, cfg *config.Config, log logging.Logger) (*sql.DB, error) {
	if !cfg.Debug {
		_ = db.Close()
		return nil, common.ErrSchemaDrift
	}

	log.Warn(ctx, "schema drift detected, recreating database", "path", cfg.DSN())
	if err := db.Close(); err != nil {
		return nil, fmt.Errorf("failed to close drifted database: %w", err)
	}

	if path := cfg.DSN(); path != ":memory:" {
		for _, f := range []string{path, path + "-wal", path + "-shm"} {
			if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to remove drifted database file %s: %w", f, err)
			}
		}
	}
	return open(ctx, cfg.DSN(), log)
}
