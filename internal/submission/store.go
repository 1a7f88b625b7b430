// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package submission

import (
	"context"

	"github.com/taibuivan/codesubmit/internal/outbox"
	"github.com/taibuivan/codesubmit/internal/queue"
)

// StageFunc encodes the queue message for a freshly inserted submission.
// It runs inside the insert transaction, after the id is known.
type StageFunc func(submission *Submission) (queue.Envelope, error)

// Repository persists submissions and their staged queue messages.
type Repository interface {
	// Create inserts the submission and fills in ID and CreatedAt.
	Create(context context.Context, submission *Submission) error

	// CreateWithOutbox inserts the submission and its staged message atomically.
	CreateWithOutbox(context context.Context, submission *Submission, stage StageFunc) error

	// Ping reports whether the store is reachable.
	Ping(context context.Context) error

	outbox.Store
}
