// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package submission

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/taibuivan/codesubmit/internal/outbox"
	"github.com/taibuivan/codesubmit/internal/platform/database/schema"
	"github.com/taibuivan/codesubmit/internal/platform/dberr"
	"github.com/taibuivan/codesubmit/internal/platform/sqlite"
)

// SQLiteRepository stores submissions in an embedded SQLite database.
//
// Timestamps are TEXT columns holding RFC 3339 UTC values.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

var (
	liteInsertSubmission = fmt.Sprintf(
		`INSERT INTO %s (%s, %s, %s) VALUES (?, ?, ?)`,
		schema.Submission.Table, schema.Submission.Code, schema.Submission.Language, schema.Submission.CreatedAt,
	)

	liteInsertOutbox = fmt.Sprintf(
		`INSERT INTO %s (%s, %s, %s, %s) VALUES (?, ?, ?, ?)`,
		schema.SubmissionOutbox.Table,
		schema.SubmissionOutbox.SubmissionID, schema.SubmissionOutbox.MessageID,
		schema.SubmissionOutbox.Payload, schema.SubmissionOutbox.CreatedAt,
	)

	litePendingOutbox = fmt.Sprintf(
		`SELECT %s FROM %s WHERE %s IS NULL ORDER BY %s ASC LIMIT ?`,
		strings.Join(schema.SubmissionOutbox.PendingColumns(), ", "),
		schema.SubmissionOutbox.Table, schema.SubmissionOutbox.PublishedAt, schema.SubmissionOutbox.ID,
	)

	liteMarkPublished = fmt.Sprintf(
		`UPDATE %s SET %s = ?, %s = %s + 1, %s = NULL WHERE %s = ?`,
		schema.SubmissionOutbox.Table, schema.SubmissionOutbox.PublishedAt,
		schema.SubmissionOutbox.Attempts, schema.SubmissionOutbox.Attempts,
		schema.SubmissionOutbox.LastError, schema.SubmissionOutbox.ID,
	)

	liteMarkFailed = fmt.Sprintf(
		`UPDATE %s SET %s = %s + 1, %s = ? WHERE %s = ?`,
		schema.SubmissionOutbox.Table,
		schema.SubmissionOutbox.Attempts, schema.SubmissionOutbox.Attempts,
		schema.SubmissionOutbox.LastError, schema.SubmissionOutbox.ID,
	)
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (repository *SQLiteRepository) Create(context context.Context, submission *Submission) error {
	return insertSubmission(context, repository.db, submission)
}

func (repository *SQLiteRepository) CreateWithOutbox(context context.Context, submission *Submission, stage StageFunc) error {
	tx, err := repository.db.BeginTx(context, nil)
	if err != nil {
		return dberr.Wrap(err, "begin_submission_tx")
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertSubmission(context, tx, submission); err != nil {
		return err
	}

	envelope, err := stage(submission)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(context, liteInsertOutbox,
		submission.ID, envelope.MessageID, envelope.Body, formatTime(submission.CreatedAt))
	if err != nil {
		return dberr.Wrap(err, "stage_submission_message")
	}

	if err := tx.Commit(); err != nil {
		return dberr.Wrap(err, "commit_submission_tx")
	}
	return nil
}

func insertSubmission(context context.Context, db execer, submission *Submission) error {
	createdAt := time.Now().UTC()

	result, err := db.ExecContext(context, liteInsertSubmission,
		submission.Code, submission.Language, formatTime(createdAt))
	if err != nil {
		return dberr.Wrap(err, "create_submission")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return dberr.Wrap(err, "create_submission_id")
	}

	submission.ID = id
	submission.CreatedAt = createdAt
	return nil
}

func (repository *SQLiteRepository) Ping(context context.Context) error {
	return sqlite.Ping(context, repository.db)
}

func (repository *SQLiteRepository) PendingOutbox(context context.Context, limit int) ([]outbox.Entry, error) {
	rows, err := repository.db.QueryContext(context, litePendingOutbox, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "list_pending_outbox")
	}
	defer rows.Close()

	var entries []outbox.Entry
	for rows.Next() {
		var (
			entry     outbox.Entry
			createdAt string
		)
		if err := rows.Scan(&entry.ID, &entry.SubmissionID, &entry.MessageID, &entry.Payload, &entry.Attempts, &createdAt); err != nil {
			return nil, dberr.Wrap(err, "scan_pending_outbox")
		}
		if entry.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, dberr.Wrap(err, "parse_outbox_created_at")
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate_pending_outbox")
	}
	return entries, nil
}

func (repository *SQLiteRepository) MarkOutboxPublished(context context.Context, id int64, at time.Time) error {
	if _, err := repository.db.ExecContext(context, liteMarkPublished, formatTime(at), id); err != nil {
		return dberr.Wrap(err, "mark_outbox_published")
	}
	return nil
}

func (repository *SQLiteRepository) MarkOutboxFailed(context context.Context, id int64, reason string) error {
	if _, err := repository.db.ExecContext(context, liteMarkFailed, reason, id); err != nil {
		return dberr.Wrap(err, "mark_outbox_failed")
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}
