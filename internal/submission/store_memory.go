// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package submission

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/codesubmit/internal/outbox"
	"github.com/taibuivan/codesubmit/internal/platform/apperr"
)

// MemoryRepository keeps submissions in process memory.
// It backs memory:// deployments and tests; data is lost on restart.
type MemoryRepository struct {
	mu          sync.RWMutex
	submissions map[int64]Submission
	outbox      map[int64]*memoryOutboxRow
	nextID      int64
	nextOutbox  int64
	now         func() time.Time
}

type memoryOutboxRow struct {
	entry       outbox.Entry
	lastError   string
	publishedAt *time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		submissions: make(map[int64]Submission),
		outbox:      make(map[int64]*memoryOutboxRow),
		now:         time.Now,
	}
}

func (repository *MemoryRepository) Create(_ context.Context, submission *Submission) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.insert(submission)
	return nil
}

func (repository *MemoryRepository) CreateWithOutbox(_ context.Context, submission *Submission, stage StageFunc) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	// Stage against a copy so a failed encode leaves nothing behind.
	staged := *submission
	staged.ID = repository.nextID + 1
	staged.CreatedAt = repository.now().UTC()

	envelope, err := stage(&staged)
	if err != nil {
		return err
	}

	repository.nextID = staged.ID
	repository.submissions[staged.ID] = staged
	*submission = staged

	repository.nextOutbox++
	repository.outbox[repository.nextOutbox] = &memoryOutboxRow{
		entry: outbox.Entry{
			ID:           repository.nextOutbox,
			SubmissionID: submission.ID,
			MessageID:    envelope.MessageID,
			Payload:      envelope.Body,
			CreatedAt:    submission.CreatedAt,
		},
	}
	return nil
}

// insert assigns the next id. Callers hold the write lock.
func (repository *MemoryRepository) insert(submission *Submission) {
	repository.nextID++
	submission.ID = repository.nextID
	submission.CreatedAt = repository.now().UTC()
	repository.submissions[submission.ID] = *submission
}

func (repository *MemoryRepository) Ping(context.Context) error { return nil }

// Get returns a stored submission by id.
func (repository *MemoryRepository) Get(_ context.Context, id int64) (*Submission, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	if submission, ok := repository.submissions[id]; ok {
		return &submission, nil
	}
	return nil, apperr.NotFound("Submission")
}

// Count returns the number of stored submissions.
func (repository *MemoryRepository) Count() int {
	repository.mu.RLock()
	defer repository.mu.RUnlock()
	return len(repository.submissions)
}

func (repository *MemoryRepository) PendingOutbox(_ context.Context, limit int) ([]outbox.Entry, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	var pending []outbox.Entry
	for _, row := range repository.outbox {
		if row.publishedAt == nil {
			pending = append(pending, row.entry)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID < pending[j].ID })

	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (repository *MemoryRepository) MarkOutboxPublished(_ context.Context, id int64, at time.Time) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	row, ok := repository.outbox[id]
	if !ok {
		return apperr.NotFound("Outbox entry")
	}
	at = at.UTC()
	row.publishedAt = &at
	row.entry.Attempts++
	row.lastError = ""
	return nil
}

func (repository *MemoryRepository) MarkOutboxFailed(_ context.Context, id int64, reason string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	row, ok := repository.outbox[id]
	if !ok {
		return apperr.NotFound("Outbox entry")
	}
	row.entry.Attempts++
	row.lastError = reason
	return nil
}
