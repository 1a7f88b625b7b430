// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package submission_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/codesubmit/internal/platform/migration"
	"github.com/taibuivan/codesubmit/internal/platform/sqlite"
	"github.com/taibuivan/codesubmit/internal/queue"
	"github.com/taibuivan/codesubmit/internal/submission"
)

func newSQLiteRepository(t *testing.T) *submission.SQLiteRepository {
	t.Helper()

	dsn := "sqlite://" + filepath.Join(t.TempDir(), "submissions.db")
	require.NoError(t, migration.RunUp(dsn, testLogger()))

	db, err := sqlite.Open(context.Background(), dsn, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return submission.NewSQLiteRepository(db)
}

func stageMessage(stored *submission.Submission) (queue.Envelope, error) {
	return queue.NewMessage(stored.ID, stored.Code, stored.Language, stored.CreatedAt).Encode()
}

/*
TestSQLiteRepository_Create assigns distinct increasing ids.
*/
func TestSQLiteRepository_Create(t *testing.T) {
	repo := newSQLiteRepository(t)
	ctx := context.Background()

	first := &submission.Submission{Code: "print(1)", Language: "python"}
	second := &submission.Submission{Code: "print(1)", Language: "python"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.Positive(t, first.ID)
	assert.Greater(t, second.ID, first.ID)
	assert.WithinDuration(t, time.Now(), first.CreatedAt, time.Minute)
	assert.NoError(t, repo.Ping(ctx))
}

/*
TestSQLiteRepository_Create_RejectsEmpty relies on the table CHECK constraint.
*/
func TestSQLiteRepository_Create_RejectsEmpty(t *testing.T) {
	repo := newSQLiteRepository(t)

	err := repo.Create(context.Background(), &submission.Submission{Code: "", Language: "python"})
	require.Error(t, err)
	assert.Equal(t, "INTERNAL_ERROR", errorCode(err))
}

/*
TestSQLiteRepository_Outbox walks an entry from staged to published.
*/
func TestSQLiteRepository_Outbox(t *testing.T) {
	repo := newSQLiteRepository(t)
	ctx := context.Background()

	stored := &submission.Submission{Code: "int main(){}", Language: "cpp"}
	require.NoError(t, repo.CreateWithOutbox(ctx, stored, stageMessage))

	pending, err := repo.PendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	entry := pending[0]
	assert.Equal(t, stored.ID, entry.SubmissionID)
	assert.Zero(t, entry.Attempts)

	message, err := queue.Decode(entry.Payload)
	require.NoError(t, err)
	assert.Equal(t, entry.MessageID, message.MessageID)
	assert.Equal(t, "cpp", message.Language)

	require.NoError(t, repo.MarkOutboxFailed(ctx, entry.ID, "broker down"))
	pending, err = repo.PendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].Attempts)

	require.NoError(t, repo.MarkOutboxPublished(ctx, entry.ID, time.Now()))
	pending, err = repo.PendingOutbox(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

/*
TestSQLiteRepository_CreateWithOutbox_RollsBack leaves no row when staging fails.
*/
func TestSQLiteRepository_CreateWithOutbox_RollsBack(t *testing.T) {
	repo := newSQLiteRepository(t)
	ctx := context.Background()

	stageErr := errors.New("encode failed")
	err := repo.CreateWithOutbox(ctx, &submission.Submission{Code: "x", Language: "go"},
		func(*submission.Submission) (queue.Envelope, error) { return queue.Envelope{}, stageErr })
	require.ErrorIs(t, err, stageErr)

	next := &submission.Submission{Code: "y", Language: "go"}
	require.NoError(t, repo.Create(ctx, next))
	assert.Equal(t, int64(1), next.ID, "the rolled back insert must not consume a visible row")

	pending, err := repo.PendingOutbox(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSQLiteRepository_PendingOrderAndLimit(t *testing.T) {
	repo := newSQLiteRepository(t)
	ctx := context.Background()

	for _, language := range []string{"a", "b", "c"} {
		require.NoError(t, repo.CreateWithOutbox(ctx, &submission.Submission{Code: "x", Language: language}, stageMessage))
	}

	pending, err := repo.PendingOutbox(ctx, 2)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Less(t, pending[0].ID, pending[1].ID)
}
