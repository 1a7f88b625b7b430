// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sqlite opens the embedded SQLite database used for single-node and
// development deployments.
//
// The driver is modernc.org/sqlite (pure Go, no cgo). DSNs use the
// sqlite:// scheme so they can be handed unchanged to the migration runner.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Scheme is the DSN prefix for SQLite databases.
const Scheme = "sqlite://"

const pingTimeout = 2 * time.Second

// IsDSN reports whether dsn addresses a SQLite file.
func IsDSN(dsn string) bool {
	return strings.HasPrefix(dsn, Scheme)
}

// Path strips the scheme from dsn, leaving the filesystem path.
func Path(dsn string) string {
	return strings.TrimPrefix(dsn, Scheme)
}

// Open opens (creating if needed) the database file behind dsn and applies
// the connection pragmas.
//
// The pool is limited to one connection: SQLite serializes writers anyway and
// per-connection pragmas then hold for every statement.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*sql.DB, error) {
	path := Path(dsn)
	if path == "" {
		return nil, fmt.Errorf("sqlite: empty database path in %q", dsn)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: apply pragma %q: %w", pragma, execErr)
		}
	}

	if err := Ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("sqlite database opened", slog.String("path", path))
	return db, nil
}

// Ping verifies that the database handle is usable.
func Ping(ctx context.Context, db *sql.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("sqlite: ping failed: %w", err)
	}
	return nil
}
