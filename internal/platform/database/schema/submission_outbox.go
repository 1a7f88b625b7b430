// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SubmissionOutboxTable represents the 'submission_outbox' table
type SubmissionOutboxTable struct {
	Table        string
	ID           string
	SubmissionID string
	MessageID    string
	Payload      string
	Attempts     string
	LastError    string
	CreatedAt    string
	PublishedAt  string
}

// SubmissionOutbox is the schema definition for submission_outbox
var SubmissionOutbox = SubmissionOutboxTable{
	Table:        "submission_outbox",
	ID:           "id",
	SubmissionID: "submission_id",
	MessageID:    "message_id",
	Payload:      "payload",
	Attempts:     "attempts",
	LastError:    "last_error",
	CreatedAt:    "created_at",
	PublishedAt:  "published_at",
}

// PendingColumns lists the columns the relay reads, in scan order.
func (t SubmissionOutboxTable) PendingColumns() []string {
	return []string{t.ID, t.SubmissionID, t.MessageID, t.Payload, t.Attempts, t.CreatedAt}
}
