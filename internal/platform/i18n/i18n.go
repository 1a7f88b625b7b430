// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package i18n localizes the short user-facing strings of the submission flow.

Catalog entries are registered with golang.org/x/text/message at init time.
Locale negotiation runs once per request in [Negotiate] and the result is
stored on the context for handlers to print with.
*/
package i18n

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/taibuivan/codesubmit/internal/platform/constants"
	"github.com/taibuivan/codesubmit/internal/platform/ctxutil"
	"github.com/taibuivan/codesubmit/internal/platform/validate"
)

// Message keys.
const (
	MsgSubmitted     = "submission.accepted"
	MsgFieldRequired = validate.KeyRequired
	MsgFieldTooLong  = validate.KeyMaxLen
	MsgFieldNotOneOf = validate.KeyOneOf
	MsgFieldBadText  = validate.KeyText

	MsgPageTitle     = "page.title"
	MsgLabelCode     = "page.label_code"
	MsgLabelLanguage = "page.label_language"
	MsgSubmitButton  = "page.submit"
	MsgSuccessTitle  = "page.success_title"
	MsgErrorTitle    = "page.error_title"
)

// supported lists the locales with a full catalog, in preference order.
var supported = []language.Tag{
	language.Korean,
	language.English,
}

var matcher = language.NewMatcher(supported)

func init() {
	entries := map[language.Tag]map[string]string{
		language.Korean: {
			MsgSubmitted:     "코드가 성공적으로 제출되었습니다!",
			MsgFieldRequired: "필수 항목입니다.",
			MsgFieldTooLong:  "최대 %d자까지 입력할 수 있습니다.",
			MsgFieldNotOneOf: "지원하지 않는 값입니다.",
			MsgFieldBadText:  "널 문자나 잘못된 문자를 포함할 수 없습니다.",
			MsgPageTitle:     "코드 제출",
			MsgLabelCode:     "코드",
			MsgLabelLanguage: "언어",
			MsgSubmitButton:  "제출",
			MsgSuccessTitle:  "제출 완료",
			MsgErrorTitle:    "요청을 처리하지 못했습니다",
		},
		language.English: {
			MsgSubmitted:     "Your code was submitted successfully!",
			MsgFieldRequired: "This field is required.",
			MsgFieldTooLong:  "Ensure this value has at most %d characters.",
			MsgFieldNotOneOf: "This value is not supported.",
			MsgFieldBadText:  "Null characters and invalid text are not allowed.",
			MsgPageTitle:     "Submit code",
			MsgLabelCode:     "Code",
			MsgLabelLanguage: "Language",
			MsgSubmitButton:  "Submit",
			MsgSuccessTitle:  "Submitted",
			MsgErrorTitle:    "The request could not be completed",
		},
	}

	for tag, messages := range entries {
		for key, text := range messages {
			if err := message.SetString(tag, key, text); err != nil {
				panic("i18n: invalid catalog entry " + key + ": " + err.Error())
			}
		}
	}
}

// ParseLocale resolves a configured locale name to a supported tag.
// Unknown names fall back to the first supported locale.
func ParseLocale(name string) language.Tag {
	tag, err := language.Parse(name)
	if err != nil {
		return supported[0]
	}
	return match(tag)
}

// match returns the closest supported tag for the given preferences.
func match(preferred ...language.Tag) language.Tag {
	_, index, confidence := matcher.Match(preferred...)
	if confidence == language.No {
		return supported[0]
	}
	return supported[index]
}

// Negotiate picks the response locale from Accept-Language, falling back to
// fallback when the header is absent or matches nothing supported.
func Negotiate(fallback language.Tag) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			tag := fallback

			if header := request.Header.Get(constants.HeaderAcceptLanguage); header != "" {
				if preferred, _, err := language.ParseAcceptLanguage(header); err == nil && len(preferred) > 0 {
					if _, index, confidence := matcher.Match(preferred...); confidence != language.No {
						tag = supported[index]
					}
				}
			}

			ctx := ctxutil.WithLocale(request.Context(), tag)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// Locale returns the locale stored on ctx, or the first supported locale.
func Locale(ctx context.Context) language.Tag {
	tag := ctxutil.GetLocale(ctx)
	if tag == language.Und {
		return supported[0]
	}
	return tag
}

// Printer returns a printer for the locale stored on ctx.
func Printer(ctx context.Context) *message.Printer {
	return message.NewPrinter(Locale(ctx))
}

// Sprintf localizes key for the locale stored on ctx.
func Sprintf(ctx context.Context, key string, args ...any) string {
	return Printer(ctx).Sprintf(key, args...)
}

// Translator adapts the locale on ctx to a [validate.Translator].
func Translator(ctx context.Context) validate.Translator {
	printer := Printer(ctx)
	return func(key string, args ...any) string {
		return printer.Sprintf(key, args...)
	}
}
