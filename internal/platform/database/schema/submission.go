// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns shared by every SQL dialect.
package schema

// SubmissionTable represents the 'submissions' table
type SubmissionTable struct {
	Table     string
	ID        string
	Code      string
	Language  string
	CreatedAt string
}

// Submission is the schema definition for submissions
var Submission = SubmissionTable{
	Table:     "submissions",
	ID:        "id",
	Code:      "code",
	Language:  "language",
	CreatedAt: "created_at",
}

func (t SubmissionTable) Columns() []string {
	return []string{t.ID, t.Code, t.Language, t.CreatedAt}
}
