// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package outbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/codesubmit/internal/queue"
)

// Relay polls a [Store] and publishes pending entries.
type Relay struct {
	store          Store
	publisher      queue.Publisher
	interval       time.Duration
	batchSize      int
	publishTimeout time.Duration
	logger         *slog.Logger
	now            func() time.Time
}

// RelayOptions tunes a [Relay].
type RelayOptions struct {
	Interval       time.Duration
	BatchSize      int
	PublishTimeout time.Duration
}

// NewRelay constructs a relay. Zero options fall back to 2s / 50 / 10s.
func NewRelay(store Store, publisher queue.Publisher, options RelayOptions, logger *slog.Logger) *Relay {
	if options.Interval <= 0 {
		options.Interval = 2 * time.Second
	}
	if options.BatchSize <= 0 {
		options.BatchSize = 50
	}
	if options.PublishTimeout <= 0 {
		options.PublishTimeout = 10 * time.Second
	}

	return &Relay{
		store:          store,
		publisher:      publisher,
		interval:       options.Interval,
		batchSize:      options.BatchSize,
		publishTimeout: options.PublishTimeout,
		logger:         logger.With(slog.String("component", "outbox")),
		now:            time.Now,
	}
}

// Run flushes once immediately and then on every tick until ctx is done.
// It returns nil on cancellation.
func (r *Relay) Run(ctx context.Context) error {
	r.logger.Info("outbox_relay_started",
		slog.Duration("interval", r.interval),
		slog.Int("batch_size", r.batchSize),
	)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if _, err := r.Flush(ctx); err != nil && ctx.Err() == nil {
			r.logger.Error("outbox_flush_failed", slog.Any("error", err))
		}

		select {
		case <-ctx.Done():
			r.logger.Info("outbox_relay_stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Flush publishes one batch and reports how many entries were delivered.
//
// A publish failure stops the batch: later entries stay pending so per-queue
// order is preserved.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	entries, err := r.store.PendingOutbox(ctx, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("outbox: load pending: %w", err)
	}

	delivered := 0
	for _, entry := range entries {
		if err := r.deliver(ctx, entry); err != nil {
			return delivered, err
		}
		delivered++
	}

	if delivered > 0 {
		r.logger.Info("outbox_batch_delivered", slog.Int("count", delivered))
	}
	return delivered, nil
}

func (r *Relay) deliver(ctx context.Context, entry Entry) error {
	publishCtx, cancel := context.WithTimeout(ctx, r.publishTimeout)
	defer cancel()

	publishErr := r.publisher.Publish(publishCtx, queue.Envelope{MessageID: entry.MessageID, Body: entry.Payload})
	if publishErr != nil {
		r.logger.Warn("outbox_publish_failed",
			slog.Int64("outbox_id", entry.ID),
			slog.String("message_id", entry.MessageID),
			slog.Int("attempts", entry.Attempts+1),
			slog.Any("error", publishErr),
		)
		if err := r.store.MarkOutboxFailed(ctx, entry.ID, publishErr.Error()); err != nil {
			return errors.Join(publishErr, fmt.Errorf("outbox: record failure for %d: %w", entry.ID, err))
		}
		return fmt.Errorf("outbox: publish %d: %w", entry.ID, publishErr)
	}

	if err := r.store.MarkOutboxPublished(ctx, entry.ID, r.now().UTC()); err != nil {
		// The broker has the message; the next poll will send it again.
		return fmt.Errorf("outbox: mark %d published: %w", entry.ID, err)
	}
	return nil
}
