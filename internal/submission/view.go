// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package submission

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/taibuivan/codesubmit/internal/platform/constants"
	"github.com/taibuivan/codesubmit/internal/platform/i18n"
	"github.com/taibuivan/codesubmit/internal/platform/validate"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// page carries what the shared layout needs.
type page struct {
	Lang  string
	Title string
	T     validate.Translator
}

type formPage struct {
	page
	Form       Form
	Errors     map[string]string
	MaxLength  int
	Languages  []string
	SuccessURL string
}

type successPage struct {
	page
	Message string
	FormURL string
}

type errorPage struct {
	page
	Message   string
	RequestID string
}

func newPage(ctx context.Context, titleKey string) page {
	translate := i18n.Translator(ctx)
	return page{
		Lang:  i18n.Locale(ctx).String(),
		Title: translate(titleKey),
		T:     translate,
	}
}

// render executes into a buffer first so a template failure never leaves a
// half-written page behind a committed status line.
func render(writer http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(writer, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writer.Header().Set(constants.HeaderContentType, constants.ContentTypeHTML)
	writer.WriteHeader(status)
	_, _ = buf.WriteTo(writer)
}
