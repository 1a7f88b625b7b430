// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away body limits and form decoding so handlers get consistent
error values regardless of the encoding the browser chose.
*/
package requestutil

import (
	"errors"
	"mime"
	"net/http"

	"github.com/taibuivan/codesubmit/internal/platform/apperr"
	"github.com/taibuivan/codesubmit/internal/platform/constants"
)

// multipartMemory is the in-memory budget before multipart parts spill to disk.
const multipartMemory = 1 << 20

/*
ParseForm reads an urlencoded or multipart body into request.PostForm.

The body is capped at limit bytes.

Returns:
  - error: apperr.PayloadTooLarge if the cap is hit, a validation error if the
    body is malformed, otherwise nil
*/
func ParseForm(writer http.ResponseWriter, request *http.Request, limit int64) error {
	request.Body = http.MaxBytesReader(writer, request.Body, limit)

	var err error
	if mediaType, _, _ := mime.ParseMediaType(request.Header.Get(constants.HeaderContentType)); mediaType == "multipart/form-data" {
		err = request.ParseMultipartForm(multipartMemory)
	} else {
		err = request.ParseForm()
	}
	if err == nil {
		return nil
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return apperr.PayloadTooLarge(limit)
	}
	return apperr.ValidationError("Malformed form payload")
}

/*
FormValue returns the first value for key from the parsed body only.

Query string parameters are ignored so a crafted link cannot pre-fill a submission.
*/
func FormValue(request *http.Request, key string) string {
	if request.PostForm == nil {
		return ""
	}
	return request.PostForm.Get(key)
}
