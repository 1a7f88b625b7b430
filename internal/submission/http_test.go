// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package submission_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/taibuivan/codesubmit/internal/platform/config"
	"github.com/taibuivan/codesubmit/internal/platform/i18n"
	"github.com/taibuivan/codesubmit/internal/submission"
)

const koreanAck = "코드가 성공적으로 제출되었습니다!"

type httpFixture struct {
	router    http.Handler
	repo      *submission.MemoryRepository
	publisher *fakePublisher
}

func newHTTPFixture(t *testing.T, maxFormBytes int64) *httpFixture {
	t.Helper()

	repo := submission.NewMemoryRepository()
	publisher := &fakePublisher{}
	service := submission.NewService(repo, publisher, submission.ServiceOptions{
		Rules:        submission.Rules{LanguageMaxLength: 100},
		DeliveryMode: config.DeliveryInline,
	}, testLogger())
	handler := submission.NewHandler(service, submission.HandlerOptions{BasePath: "/submit", MaxFormBytes: maxFormBytes})

	router := chi.NewRouter()
	router.Use(chimw.StripSlashes)
	router.Use(i18n.Negotiate(language.Korean))
	router.Route("/submit", handler.RegisterRoutes)

	return &httpFixture{router: router, repo: repo, publisher: publisher}
}

func (f *httpFixture) do(method, target string, form url.Values, headers map[string]string) *httptest.ResponseRecorder {
	var request *http.Request
	if form != nil {
		request = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		request = httptest.NewRequest(method, target, nil)
	}
	for key, value := range headers {
		request.Header.Set(key, value)
	}

	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, request)
	return recorder
}

func validForm() url.Values {
	return url.Values{"code": {"print(1)"}, "language": {"python"}}
}

/*
TestHandler_Pages serves the form on both form routes and the static success page.
*/
func TestHandler_Pages(t *testing.T) {
	fixture := newHTTPFixture(t, 0)

	for _, target := range []string{"/submit/", "/submit/send_code/", "/submit/success/"} {
		t.Run(target, func(t *testing.T) {
			recorder := fixture.do(http.MethodGet, target, nil, nil)

			assert.Equal(t, http.StatusOK, recorder.Code)
			assert.Contains(t, recorder.Header().Get("Content-Type"), "text/html")
		})
	}

	body := fixture.do(http.MethodGet, "/submit/", nil, nil).Body.String()
	assert.Contains(t, body, `name="code"`)
	assert.Contains(t, body, `name="language"`)
	assert.Contains(t, body, `maxlength="100"`)

	assert.Contains(t, fixture.do(http.MethodGet, "/submit/success/", nil, nil).Body.String(), koreanAck)
}

/*
TestHandler_Submit acknowledges in Korean by default and stores one row.
*/
func TestHandler_Submit(t *testing.T) {
	fixture := newHTTPFixture(t, 0)

	recorder := fixture.do(http.MethodPost, "/submit/", validForm(), nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var ack submission.Acknowledgement
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &ack))
	assert.True(t, ack.Success)
	assert.Equal(t, koreanAck, ack.Message)
	assert.NotZero(t, ack.ID)

	assert.Equal(t, 1, fixture.repo.Count())
	assert.Empty(t, fixture.publisher.published(), "plain submit never touches the queue")
}

func TestHandler_Submit_EnglishAcknowledgement(t *testing.T) {
	fixture := newHTTPFixture(t, 0)

	recorder := fixture.do(http.MethodPost, "/submit/", validForm(), map[string]string{"Accept-Language": "en-US,en;q=0.8"})
	require.Equal(t, http.StatusOK, recorder.Code)

	var ack submission.Acknowledgement
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &ack))
	assert.Equal(t, "Your code was submitted successfully!", ack.Message)
}

/*
TestHandler_Submit_InvalidRerendersForm returns the form with the posted values.
*/
func TestHandler_Submit_InvalidRerendersForm(t *testing.T) {
	fixture := newHTTPFixture(t, 0)

	form := url.Values{"code": {""}, "language": {"python"}}
	recorder := fixture.do(http.MethodPost, "/submit/", form, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, recorder.Body.String(), "필수 항목입니다.")
	assert.Contains(t, recorder.Body.String(), `value="python"`)
	assert.Zero(t, fixture.repo.Count())
}

func TestHandler_Submit_InvalidJSON(t *testing.T) {
	fixture := newHTTPFixture(t, 0)

	form := url.Values{"code": {"x"}, "language": {strings.Repeat("a", 101)}}
	recorder := fixture.do(http.MethodPost, "/submit/send_code/", form, map[string]string{"Accept": "application/json"})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var envelope struct {
		Code    string `json:"code"`
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "VALIDATION_ERROR", envelope.Code)
	require.Len(t, envelope.Details, 1)
	assert.Equal(t, "language", envelope.Details[0].Field)

	assert.Zero(t, fixture.repo.Count())
	assert.Empty(t, fixture.publisher.published())
}

/*
TestHandler_Submit_InvalidText rejects NUL characters and non-UTF-8 bytes before
anything is stored or published.
*/
func TestHandler_Submit_InvalidText(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"nul", "a\x00b"},
		{"invalid_utf8", "\xff\xfe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newHTTPFixture(t, 0)
			form := url.Values{"code": {tt.code}, "language": {"python"}}

			recorder := fixture.do(http.MethodPost, "/submit/", form, nil)
			assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
			assert.Contains(t, recorder.Body.String(), "널 문자나 잘못된 문자를 포함할 수 없습니다.")

			jsonRecorder := fixture.do(http.MethodPost, "/submit/send_code/", form, map[string]string{"Accept": "application/json"})
			assert.Equal(t, http.StatusBadRequest, jsonRecorder.Code)
			assert.Contains(t, jsonRecorder.Body.String(), "VALIDATION_ERROR")

			assert.Zero(t, fixture.repo.Count())
			assert.Empty(t, fixture.publisher.published())
		})
	}
}

/*
TestHandler_SendCode publishes exactly one message per accepted submission.
*/
func TestHandler_SendCode(t *testing.T) {
	fixture := newHTTPFixture(t, 0)

	recorder := fixture.do(http.MethodPost, "/submit/send_code/", validForm(), nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var ack submission.Acknowledgement
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &ack))
	assert.Equal(t, koreanAck, ack.Message)

	assert.Equal(t, 1, fixture.repo.Count())
	assert.Len(t, fixture.publisher.published(), 1)
}

/*
TestHandler_SendCode_BrokerDown answers 500 while the row stays stored.
*/
func TestHandler_SendCode_BrokerDown(t *testing.T) {
	fixture := newHTTPFixture(t, 0)
	fixture.publisher.err = errors.New("connection refused")

	recorder := fixture.do(http.MethodPost, "/submit/send_code/", validForm(), nil)
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Content-Type"), "text/html")
	assert.NotContains(t, recorder.Body.String(), "connection refused")

	jsonRecorder := fixture.do(http.MethodPost, "/submit/send_code/", validForm(), map[string]string{"Accept": "application/json"})
	assert.Equal(t, http.StatusInternalServerError, jsonRecorder.Code)
	assert.Contains(t, jsonRecorder.Body.String(), "QUEUE_PUBLISH_FAILED")

	assert.Equal(t, 2, fixture.repo.Count())
}

func TestHandler_PayloadTooLarge(t *testing.T) {
	fixture := newHTTPFixture(t, 64)

	form := url.Values{"code": {strings.Repeat("x", 1024)}, "language": {"python"}}
	recorder := fixture.do(http.MethodPost, "/submit/", form, map[string]string{"Accept": "application/json"})

	assert.Equal(t, http.StatusRequestEntityTooLarge, recorder.Code)
	assert.Zero(t, fixture.repo.Count())
}

func TestHandler_QueryStringIgnored(t *testing.T) {
	fixture := newHTTPFixture(t, 0)

	recorder := fixture.do(http.MethodPost, "/submit/?code=evil&language=python", url.Values{}, map[string]string{"Accept": "application/json"})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Zero(t, fixture.repo.Count())
}
