// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/codesubmit/internal/platform/apperr"
	requestutil "github.com/taibuivan/codesubmit/internal/platform/request"
)

func TestParseForm_URLEncoded(t *testing.T) {
	form := url.Values{"code": {"print(1)"}, "language": {"python"}}
	request := httptest.NewRequest(http.MethodPost, "/submit/?language=evil", strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	require.NoError(t, requestutil.ParseForm(httptest.NewRecorder(), request, 1024))
	assert.Equal(t, "print(1)", requestutil.FormValue(request, "code"))
	assert.Equal(t, "python", requestutil.FormValue(request, "language"))
}

func TestParseForm_Multipart(t *testing.T) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("code", "int main() {}"))
	require.NoError(t, writer.WriteField("language", "c"))
	require.NoError(t, writer.Close())

	request := httptest.NewRequest(http.MethodPost, "/submit/", &body)
	request.Header.Set("Content-Type", writer.FormDataContentType())

	require.NoError(t, requestutil.ParseForm(httptest.NewRecorder(), request, 1<<20))
	assert.Equal(t, "int main() {}", requestutil.FormValue(request, "code"))
	assert.Equal(t, "c", requestutil.FormValue(request, "language"))
}

func TestParseForm_TooLarge(t *testing.T) {
	form := url.Values{"code": {strings.Repeat("x", 2048)}, "language": {"python"}}
	request := httptest.NewRequest(http.MethodPost, "/submit/", strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	err := requestutil.ParseForm(httptest.NewRecorder(), request, 512)
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusRequestEntityTooLarge, ae.HTTPStatus)
}

func TestFormValue_Unparsed(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/submit/?code=x", nil)
	assert.Empty(t, requestutil.FormValue(request, "code"))
}
