// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package submission accepts code submissions from the web form.

# Flow

  - GET renders the form.
  - POST validates the form, stores the submission and acknowledges it.
  - On the send_code route the submission is also handed to the queue, either
    inline (publish inside the request) or through the transactional outbox.

Rows are append-only: nothing in this package updates or deletes a submission.
*/
package submission

import "time"

// Submission is one accepted (code, language) pair.
type Submission struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}
