// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package outbox relays staged queue messages to the broker.

# Delivery

In outbox mode a submission row and its encoded message are committed in one
transaction. The [Relay] later publishes every pending entry in id order and
marks it published. A failed publish leaves the entry pending with its attempt
count bumped, so it is retried on the next poll. Delivery is therefore
at-least-once; consumers deduplicate on message_id.
*/
package outbox

import (
	"context"
	"time"
)

// Entry is one staged message.
type Entry struct {
	ID           int64
	SubmissionID int64
	MessageID    string
	Payload      []byte
	Attempts     int
	CreatedAt    time.Time
}

// Store is the persistence contract the relay needs.
type Store interface {
	// PendingOutbox returns up to limit unpublished entries, oldest first.
	PendingOutbox(ctx context.Context, limit int) ([]Entry, error)

	// MarkOutboxPublished stamps published_at on the entry.
	MarkOutboxPublished(ctx context.Context, id int64, at time.Time) error

	// MarkOutboxFailed bumps attempts and records the last error.
	MarkOutboxFailed(ctx context.Context, id int64, reason string) error
}
