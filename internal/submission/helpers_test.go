// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package submission_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/text/language"

	"github.com/taibuivan/codesubmit/internal/platform/apperr"
	"github.com/taibuivan/codesubmit/internal/platform/ctxutil"
	"github.com/taibuivan/codesubmit/internal/queue"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func englishContext() context.Context {
	return ctxutil.WithLocale(context.Background(), language.English)
}

// fakePublisher records envelopes and fails with err when set.
type fakePublisher struct {
	mu        sync.Mutex
	envelopes []queue.Envelope
	err       error
}

func (p *fakePublisher) Publish(_ context.Context, envelope queue.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.envelopes = append(p.envelopes, envelope)
	return nil
}

func (p *fakePublisher) Ping(context.Context) error { return p.err }

func (p *fakePublisher) published() []queue.Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.Envelope(nil), p.envelopes...)
}

func errorCode(err error) string {
	if appError := apperr.As(err); appError != nil {
		return appError.Code
	}
	return ""
}
