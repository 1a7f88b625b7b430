// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/taibuivan/codesubmit/pkg/uuid"
)

// SchemaVersion is the major version of the message body schema.
// Consumers must reject bodies with a version they do not know.
const SchemaVersion = 1

// ContentType is attached to every published body.
const ContentType = "application/json"

// Message is the versioned body handed to the broker for one accepted submission.
type Message struct {
	SchemaVersion int       `json:"schema_version"`
	MessageID     string    `json:"message_id"`
	SubmissionID  int64     `json:"submission_id"`
	Code          string    `json:"code"`
	Language      string    `json:"language"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// NewMessage stamps a fresh message id and the current schema version.
func NewMessage(submissionID int64, code, language string, submittedAt time.Time) Message {
	return Message{
		SchemaVersion: SchemaVersion,
		MessageID:     uuid.New(),
		SubmissionID:  submissionID,
		Code:          code,
		Language:      language,
		SubmittedAt:   submittedAt.UTC(),
	}
}

// Envelope is what publishers transmit: an encoded body plus its id.
type Envelope struct {
	MessageID string
	Body      []byte
}

// Encode serializes the message into an [Envelope].
func (m Message) Encode() (Envelope, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return Envelope{}, fmt.Errorf("queue: encode message %s: %w", m.MessageID, err)
	}
	return Envelope{MessageID: m.MessageID, Body: body}, nil
}

// Decode parses a body produced by [Message.Encode].
func Decode(body []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(body, &m); err != nil {
		return Message{}, fmt.Errorf("queue: decode message: %w", err)
	}
	if m.SchemaVersion != SchemaVersion {
		return Message{}, fmt.Errorf("queue: unsupported schema_version %d", m.SchemaVersion)
	}
	return m, nil
}
