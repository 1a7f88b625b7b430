// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"golang.org/x/text/language"

	"github.com/taibuivan/codesubmit/internal/platform/ctxkey"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// LookupLogger returns the logger attached to ctx, if any.
func LookupLogger(ctx context.Context) (*slog.Logger, bool) {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	return logger, ok && logger != nil
}

// # Localization

// WithLocale returns a new context carrying the negotiated locale.
func WithLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLocale, tag)
}

// GetLocale retrieves the negotiated locale, or [language.Und] when absent.
func GetLocale(ctx context.Context) language.Tag {
	tag, ok := ctx.Value(ctxkey.KeyLocale).(language.Tag)
	if !ok {
		return language.Und
	}
	return tag
}
