// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/codesubmit/internal/platform/database/schema"
)

func TestColumns(t *testing.T) {
	assert.Equal(t, []string{"id", "code", "language", "created_at"}, schema.Submission.Columns())
	assert.Equal(t,
		[]string{"id", "submission_id", "message_id", "payload", "attempts", "created_at"},
		schema.SubmissionOutbox.PendingColumns())
}
