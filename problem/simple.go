// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package problem

import (
	"errors"
	"net/http"
)

// Simple formats errors as simple JSON objects.
// It produces responses with Content-Type "application/json".
// Format: {"error": "message", "details": {...}, "code": "..."}
//
// Example:
//
//	resp := problem.NewSimple().Format(req, err)
//	_ = problem.Write(w, resp)
type Simple struct {
	// StatusResolver determines HTTP status from error.
	// If nil, uses ErrorType interface or defaults to 500.
	StatusResolver func(err error) int
}

// Format converts an error into a simple JSON response.
// If the error implements ErrorDetails or ErrorCode, those are included.
//
// Example:
//
//	err := problem.Wrap(errNoMatch, http.StatusNotAcceptable, "not-acceptable", nil)
//	resp := problem.NewSimple().Format(req, err)
//	_ = problem.Write(w, resp)
//
// Parameters:
//   - req: HTTP request (unused)
//   - err: Error to format
//
// Returns a Response with a simple JSON body.
func (f *Simple) Format(_ *http.Request, err error) Response {
	status := f.determineStatus(err)

	body := map[string]any{
		"error": err.Error(),
	}

	var detailed ErrorDetails
	if errors.As(err, &detailed) {
		if details := detailed.Details(); details != nil {
			body["details"] = details
		}
	}

	var coded ErrorCode
	if errors.As(err, &coded) {
		body["code"] = coded.Code()
	}

	return Response{
		Status:      status,
		ContentType: "application/json; charset=utf-8",
		Body:        body,
	}
}

// determineStatus checks StatusResolver first, then ErrorType, then
// defaults to 500.
//
// Parameters:
//   - err: Error to determine status for
//
// Returns the HTTP status code.
func (f *Simple) determineStatus(err error) int {
	if f.StatusResolver != nil {
		return f.StatusResolver(err)
	}

	var typed ErrorType
	if errors.As(err, &typed) {
		return typed.HTTPStatus()
	}

	return http.StatusInternalServerError
}
