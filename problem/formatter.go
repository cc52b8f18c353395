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
	"encoding/json"
	"net/http"
)

// Formatter defines how errors are formatted in HTTP responses.
type Formatter interface {
	// Format converts an error into HTTP response components.
	Format(req *http.Request, err error) Response
}

// Response represents a formatted error response.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// ContentType is the Content-Type header value.
	ContentType string

	// Body is the response body, marshaled as JSON by [Write].
	Body any

	// Headers contains additional headers to set (optional).
	Headers http.Header
}

// ErrorType allows errors to declare their own HTTP status code.
type ErrorType interface {
	error
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrorDetails allows errors to provide additional structured information.
type ErrorDetails interface {
	error
	// Details returns structured information about the error.
	Details() any
}

// ErrorCode allows errors to provide a machine-readable code.
type ErrorCode interface {
	error
	// Code returns a machine-readable error code.
	Code() string
}

// NewRFC9457 creates a new RFC9457 formatter.
// The baseURL parameter is prepended to error codes to build problem type URIs.
//
// Example:
//
//	formatter := problem.NewRFC9457("https://api.example.com/problems")
func NewRFC9457(baseURL string) *RFC9457 {
	return &RFC9457{
		BaseURL: baseURL,
	}
}

// NewSimple creates a new Simple formatter.
//
// Example:
//
//	formatter := problem.NewSimple()
func NewSimple() *Simple {
	return &Simple{}
}

// Wrap attaches an HTTP status, a machine-readable code and optional
// details to err. The result implements [ErrorType], [ErrorCode] and
// [ErrorDetails] and unwraps to err.
//
// If err is nil, the status text is used as the error message.
//
// Example:
//
//	return problem.Wrap(err, http.StatusNotAcceptable, "not-acceptable", nil)
func Wrap(err error, status int, code string, details any) error {
	return &codedError{err: err, status: status, code: code, details: details}
}

// codedError wraps an error with a status code, error code and details.
type codedError struct {
	err     error
	status  int
	code    string
	details any
}

func (e *codedError) Error() string {
	if e.err == nil {
		return http.StatusText(e.status)
	}
	return e.err.Error()
}

func (e *codedError) Unwrap() error {
	return e.err
}

func (e *codedError) HTTPStatus() int {
	return e.status
}

func (e *codedError) Code() string {
	return e.code
}

func (e *codedError) Details() any {
	return e.details
}

// Write writes a formatted response: extra headers, Content-Type, status
// and the JSON-encoded body.
//
// Parameters:
//   - w: Response writer; nothing may have been written to it yet
//   - resp: Response produced by a [Formatter]
//
// Returns the error from encoding the body, if any.
func Write(w http.ResponseWriter, resp Response) error {
	for k, v := range resp.Headers {
		for _, val := range v {
			w.Header().Add(k, val)
		}
	}
	w.Header().Set("Content-Type", resp.ContentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(resp.Status)

	return json.NewEncoder(w).Encode(resp.Body)
}
