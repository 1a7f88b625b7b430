// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/codesubmit/internal/platform/config"
	"github.com/taibuivan/codesubmit/internal/platform/constants"
	"github.com/taibuivan/codesubmit/internal/platform/migration"
	pgstore "github.com/taibuivan/codesubmit/internal/platform/postgres"
	"github.com/taibuivan/codesubmit/internal/platform/sqlite"
	"github.com/taibuivan/codesubmit/internal/queue"
	"github.com/taibuivan/codesubmit/internal/submission"
)

// memoryScheme selects the in-process repository. Data does not survive a restart.
const memoryScheme = "memory://"

// app holds the long-lived dependencies shared by serve and relay.
type app struct {
	repo      submission.Repository
	publisher queue.Publisher
	closers   []func() error
	log       *slog.Logger
}

type appOptions struct {
	migrate bool
}

// openApp migrates (when asked), opens the repository and builds the publisher.
func openApp(ctx context.Context, cfg *config.Config, log *slog.Logger, options appOptions) (*app, error) {
	startupCtx, cancel := context.WithTimeout(ctx, constants.StartupTimeout)
	defer cancel()

	a := &app{log: log}

	if options.migrate && !isMemoryDSN(cfg.DatabaseURL) {
		if err := migration.RunUp(cfg.DatabaseURL, log); err != nil {
			return nil, err
		}
	}

	repo, closeRepo, err := openRepository(startupCtx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}
	a.repo = repo
	a.closers = append(a.closers, closeRepo)

	publisher, closePublisher, err := queue.New(startupCtx, cfg, log)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.publisher = publisher
	a.closers = append(a.closers, closePublisher)

	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// openRepository picks the submission store from the DSN scheme.
func openRepository(ctx context.Context, dsn string, log *slog.Logger) (submission.Repository, func() error, error) {
	switch {
	case pgstore.IsDSN(dsn):
		pool, err := pgstore.NewPool(ctx, dsn, log)
		if err != nil {
			return nil, nil, err
		}
		return submission.NewPostgresRepository(pool), func() error {
			log.Info("closing postgres pool")
			pool.Close()
			return nil
		}, nil

	case sqlite.IsDSN(dsn):
		db, err := sqlite.Open(ctx, dsn, log)
		if err != nil {
			return nil, nil, err
		}
		return submission.NewSQLiteRepository(db), func() error {
			log.Info("closing sqlite database")
			return db.Close()
		}, nil

	case isMemoryDSN(dsn):
		log.Warn("using in-memory submission store; data is lost on restart")
		return submission.NewMemoryRepository(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported DATABASE_URL scheme in %q", schemeOf(dsn))
	}
}

func isMemoryDSN(dsn string) bool {
	return strings.HasPrefix(dsn, memoryScheme)
}

// schemeOf returns only the scheme so credentials never reach an error message.
func schemeOf(dsn string) string {
	if scheme, _, found := strings.Cut(dsn, "://"); found {
		return scheme + "://"
	}
	return "<none>"
}
