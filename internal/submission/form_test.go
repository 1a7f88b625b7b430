// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package submission_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/codesubmit/internal/platform/apperr"
	"github.com/taibuivan/codesubmit/internal/submission"
)

/*
TestForm_Clean covers the required fields and the language bound.
*/
func TestForm_Clean(t *testing.T) {
	rules := submission.Rules{LanguageMaxLength: 100}

	tests := []struct {
		name        string
		form        submission.Form
		failedField string
	}{
		{"valid", submission.Form{Code: "print(1)", Language: "python"}, ""},
		{"language_at_bound", submission.Form{Code: "x", Language: strings.Repeat("a", 100)}, ""},
		{"multibyte_at_bound", submission.Form{Code: "x", Language: strings.Repeat("한", 100)}, ""},
		{"language_over_bound", submission.Form{Code: "x", Language: strings.Repeat("a", 101)}, "language"},
		{"missing_code", submission.Form{Language: "python"}, "code"},
		{"blank_code", submission.Form{Code: " \n\t", Language: "python"}, "code"},
		{"missing_language", submission.Form{Code: "x"}, "language"},
		{"nul_in_code", submission.Form{Code: "a\x00b", Language: "python"}, "code"},
		{"invalid_utf8_code", submission.Form{Code: "\xff\xfe", Language: "python"}, "code"},
		{"nul_in_language", submission.Form{Code: "x", Language: "py\x00"}, "language"},
		{"invalid_utf8_language", submission.Form{Code: "x", Language: "\xc3"}, "language"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.form.Clean(englishContext(), rules)
			if tt.failedField == "" {
				assert.NoError(t, err)
				return
			}

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, "VALIDATION_ERROR", appError.Code)
			assert.Contains(t, appError.FieldMessages(), tt.failedField)
		})
	}
}

func TestForm_Clean_BothMissing(t *testing.T) {
	_, err := submission.Form{}.Clean(englishContext(), submission.Rules{LanguageMaxLength: 100})

	messages := apperr.As(err).FieldMessages()
	assert.Equal(t, map[string]string{
		"code":     "This field is required.",
		"language": "This field is required.",
	}, messages)
}

func TestForm_Clean_Trims(t *testing.T) {
	cleaned, err := submission.Form{Code: "  x = 1\n", Language: " go "}.Clean(englishContext(), submission.Rules{LanguageMaxLength: 2})
	require.NoError(t, err)
	assert.Equal(t, submission.Form{Code: "x = 1", Language: "go"}, cleaned)
}

func TestForm_Clean_AllowList(t *testing.T) {
	rules := submission.Rules{LanguageMaxLength: 100, Languages: []string{"cpp17", "python3"}}

	_, err := submission.Form{Code: "x", Language: "python3"}.Clean(englishContext(), rules)
	assert.NoError(t, err)

	_, err = submission.Form{Code: "x", Language: "cobol"}.Clean(englishContext(), rules)
	require.Error(t, err)
	assert.Equal(t, "This value is not supported.", apperr.As(err).FieldMessages()["language"])
}

func TestForm_Clean_InvalidText(t *testing.T) {
	_, err := submission.Form{Code: "\xff\xfe", Language: "python"}.Clean(englishContext(), submission.Rules{LanguageMaxLength: 100})

	assert.Equal(t, map[string]string{
		"code": "Null characters and invalid text are not allowed.",
	}, apperr.As(err).FieldMessages())
}
