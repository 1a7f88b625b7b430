// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/codesubmit/internal/api"
	"github.com/taibuivan/codesubmit/internal/langs"
	"github.com/taibuivan/codesubmit/internal/outbox"
	"github.com/taibuivan/codesubmit/internal/platform/config"
	"github.com/taibuivan/codesubmit/internal/platform/constants"
	"github.com/taibuivan/codesubmit/internal/submission"
)

func newServeCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the submission form and API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cc.cfg, cc.log)
		},
	}
}

/*
runServe wires the HTTP server and blocks until ctx is cancelled.

Startup sequence:

 1. Load the language allow-list (optional).
 2. Run database migrations when MIGRATE_ON_START is set.
 3. Open the submission store and the queue publisher.
 4. Wire handlers and start the HTTP server.
 5. In outbox mode, run the relay next to the server.
*/
func runServe(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	languages, err := langs.Load(cfg.LanguagesDir)
	if err != nil {
		return fmt.Errorf("load language definitions: %w", err)
	}
	if languages != nil {
		log.Info("language_allow_list_loaded", slog.Int("count", len(languages)))
	}

	a, err := openApp(ctx, cfg, log, appOptions{migrate: cfg.MigrateOnStart})
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("shutdown error", slog.Any("error", err))
		}
	}()

	service := submission.NewService(a.repo, a.publisher, submission.ServiceOptions{
		Rules: submission.Rules{
			LanguageMaxLength: cfg.LanguageMaxLength,
			Languages:         languages,
		},
		DeliveryMode:   cfg.DeliveryMode,
		PublishTimeout: cfg.Queue.PublishTimeout,
	}, log)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: a.repo.Ping,
		CheckBroker:   a.publisher.Ping,
	}, log)

	group, groupCtx := errgroup.WithContext(ctx)

	server := api.NewServer(groupCtx, cfg, log, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Submission: submission.NewHandler(service, submission.HandlerOptions{
			BasePath:     api.SubmitPath,
			MaxFormBytes: cfg.MaxFormBytes,
		}),
	})

	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutting down server", slog.Duration("timeout", constants.ShutdownTimeout))
		return server.Shutdown(constants.ShutdownTimeout)
	})

	if cfg.DeliveryMode == config.DeliveryOutbox {
		relay := newRelay(cfg, a, log)
		group.Go(func() error {
			return relay.Run(groupCtx)
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	log.Info("server stopped cleanly")
	return nil
}

func newRelay(cfg *config.Config, a *app, log *slog.Logger) *outbox.Relay {
	return outbox.NewRelay(a.repo, a.publisher, outbox.RelayOptions{
		Interval:       cfg.Outbox.PollInterval,
		BatchSize:      cfg.Outbox.BatchSize,
		PublishTimeout: cfg.Queue.PublishTimeout,
	}, log)
}
