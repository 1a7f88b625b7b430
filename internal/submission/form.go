// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package submission

import (
	"context"
	"net/http"
	"strings"

	"github.com/taibuivan/codesubmit/internal/platform/constants"
	"github.com/taibuivan/codesubmit/internal/platform/i18n"
	requestutil "github.com/taibuivan/codesubmit/internal/platform/request"
	"github.com/taibuivan/codesubmit/internal/platform/validate"
)

// Form is the raw submission input as posted by the browser.
type Form struct {
	Code     string
	Language string
}

// Rules bound what the form accepts.
type Rules struct {
	// LanguageMaxLength is the maximum language length in characters.
	LanguageMaxLength int

	// Languages, when non-empty, is the set of accepted language names.
	Languages []string
}

// FormFromRequest reads the form fields from a parsed request body.
func FormFromRequest(request *http.Request) Form {
	return Form{
		Code:     requestutil.FormValue(request, constants.FormFieldCode),
		Language: requestutil.FormValue(request, constants.FormFieldLanguage),
	}
}

// Clean trims the fields and validates them against rules.
//
// Field messages are rendered in the locale stored on ctx. The returned form
// is the trimmed input even when validation fails, so it can be re-rendered.
func (form Form) Clean(ctx context.Context, rules Rules) (Form, error) {
	cleaned := Form{
		Code:     strings.TrimSpace(form.Code),
		Language: strings.TrimSpace(form.Language),
	}

	validator := validate.New(i18n.Translator(ctx))
	validator.
		Text(constants.FormFieldCode, cleaned.Code).
		Text(constants.FormFieldLanguage, cleaned.Language)

	if !validator.Failed(constants.FormFieldCode) {
		validator.Required(constants.FormFieldCode, cleaned.Code)
	}
	if !validator.Failed(constants.FormFieldLanguage) {
		validator.Required(constants.FormFieldLanguage, cleaned.Language)
	}
	if !validator.Failed(constants.FormFieldLanguage) {
		validator.MaxLen(constants.FormFieldLanguage, cleaned.Language, rules.LanguageMaxLength)
	}
	if !validator.Failed(constants.FormFieldLanguage) {
		validator.OneOf(constants.FormFieldLanguage, cleaned.Language, rules.Languages...)
	}

	return cleaned, validator.Err()
}
