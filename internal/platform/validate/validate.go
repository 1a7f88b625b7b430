// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/codesubmit/internal/platform/apperr"
)

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs      []apperr.FieldError
	translate Translator
}

// Translator renders a message key with its arguments in the caller's locale.
type Translator func(key string, args ...any) string

// Message keys passed to a [Translator].
const (
	KeyRequired = "form.field_required"
	KeyMaxLen   = "form.field_too_long"
	KeyOneOf    = "form.field_not_allowed"
	KeyText     = "form.field_invalid_text"
)

// New returns a Validator whose built-in rules render their messages through
// translate. The zero Validator uses the English defaults.
func New(translate Translator) *Validator {
	return &Validator{translate: translate}
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, v.message(KeyRequired, "This field is required"))
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, v.message(KeyMaxLen, fmt.Sprintf("Maximum %d characters", max), max))
	}
	return v
}

// OneOf fails if the value is not in the allowed set of strings.
// An empty allowed set accepts every value.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	if len(allowed) == 0 {
		return v
	}
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.add(field, v.message(KeyOneOf, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", "))))
	return v
}

// Text fails if the value is not valid UTF-8 or contains a NUL character.
// Such input cannot be stored in PostgreSQL text columns or encoded to JSON
// without being altered.
func (v *Validator) Text(field, value string) *Validator {
	if !utf8.ValidString(value) || strings.ContainsRune(value, 0) {
		v.add(field, v.message(KeyText, "Null characters and invalid text are not allowed"))
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// This is the only output method — call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// Failed reports whether the named field already has an error.
// It lets callers skip rules that would only repeat a failure.
func (v *Validator) Failed(field string) bool {
	for _, e := range v.errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func (v *Validator) message(key, fallback string, args ...any) string {
	if v.translate == nil {
		return fallback
	}
	return v.translate(key, args...)
}

// add appends a [apperr.FieldError] to the internal slice.
func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}
