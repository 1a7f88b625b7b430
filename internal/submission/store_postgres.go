// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package submission

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/codesubmit/internal/outbox"
	"github.com/taibuivan/codesubmit/internal/platform/database/schema"
	"github.com/taibuivan/codesubmit/internal/platform/dberr"
	"github.com/taibuivan/codesubmit/internal/platform/postgres"
)

// PostgresRepository stores submissions in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var (
	pgInsertSubmission = fmt.Sprintf(
		`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s, %s`,
		schema.Submission.Table, schema.Submission.Code, schema.Submission.Language,
		schema.Submission.ID, schema.Submission.CreatedAt,
	)

	pgInsertOutbox = fmt.Sprintf(
		`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
		schema.SubmissionOutbox.Table,
		schema.SubmissionOutbox.SubmissionID, schema.SubmissionOutbox.MessageID, schema.SubmissionOutbox.Payload,
	)

	pgPendingOutbox = fmt.Sprintf(
		`SELECT %s FROM %s WHERE %s IS NULL ORDER BY %s ASC LIMIT $1`,
		strings.Join(schema.SubmissionOutbox.PendingColumns(), ", "),
		schema.SubmissionOutbox.Table, schema.SubmissionOutbox.PublishedAt, schema.SubmissionOutbox.ID,
	)

	pgMarkPublished = fmt.Sprintf(
		`UPDATE %s SET %s = $2, %s = %s + 1, %s = NULL WHERE %s = $1`,
		schema.SubmissionOutbox.Table, schema.SubmissionOutbox.PublishedAt,
		schema.SubmissionOutbox.Attempts, schema.SubmissionOutbox.Attempts,
		schema.SubmissionOutbox.LastError, schema.SubmissionOutbox.ID,
	)

	pgMarkFailed = fmt.Sprintf(
		`UPDATE %s SET %s = %s + 1, %s = $2 WHERE %s = $1`,
		schema.SubmissionOutbox.Table,
		schema.SubmissionOutbox.Attempts, schema.SubmissionOutbox.Attempts,
		schema.SubmissionOutbox.LastError, schema.SubmissionOutbox.ID,
	)
)

func (repository *PostgresRepository) Create(context context.Context, submission *Submission) error {
	err := repository.db.QueryRow(context, pgInsertSubmission, submission.Code, submission.Language).
		Scan(&submission.ID, &submission.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_submission")
	}
	return nil
}

func (repository *PostgresRepository) CreateWithOutbox(context context.Context, submission *Submission, stage StageFunc) error {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_submission_tx")
	}
	defer func() { _ = tx.Rollback(context) }()

	err = tx.QueryRow(context, pgInsertSubmission, submission.Code, submission.Language).
		Scan(&submission.ID, &submission.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_submission")
	}

	envelope, err := stage(submission)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(context, pgInsertOutbox, submission.ID, envelope.MessageID, envelope.Body); err != nil {
		return dberr.Wrap(err, "stage_submission_message")
	}

	if err := tx.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_submission_tx")
	}
	return nil
}

func (repository *PostgresRepository) Ping(context context.Context) error {
	return postgres.Ping(context, repository.db)
}

func (repository *PostgresRepository) PendingOutbox(context context.Context, limit int) ([]outbox.Entry, error) {
	rows, err := repository.db.Query(context, pgPendingOutbox, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "list_pending_outbox")
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (outbox.Entry, error) {
		var entry outbox.Entry
		err := row.Scan(&entry.ID, &entry.SubmissionID, &entry.MessageID, &entry.Payload, &entry.Attempts, &entry.CreatedAt)
		return entry, err
	})
	if err != nil {
		return nil, dberr.Wrap(err, "scan_pending_outbox")
	}
	return entries, nil
}

func (repository *PostgresRepository) MarkOutboxPublished(context context.Context, id int64, at time.Time) error {
	if _, err := repository.db.Exec(context, pgMarkPublished, id, at); err != nil {
		return dberr.Wrap(err, "mark_outbox_published")
	}
	return nil
}

func (repository *PostgresRepository) MarkOutboxFailed(context context.Context, id int64, reason string) error {
	if _, err := repository.db.Exec(context, pgMarkFailed, id, reason); err != nil {
		return dberr.Wrap(err, "mark_outbox_failed")
	}
	return nil
}
