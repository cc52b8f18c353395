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


package requestid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, mw func(http.Handler) http.Handler, header http.Header) (string, *httptest.ResponseRecorder) {
	t.Helper()

	var seen string
	h := mw(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = Get(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return seen, w
}

func TestRequestID_GeneratesUUIDv7(t *testing.T) {
	t.Parallel()

	id, w := serve(t, New(), nil)

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.Equal(t, id, w.Header().Get("X-Request-ID"))
}

func TestRequestID_ULID(t *testing.T) {
	t.Parallel()

	id, _ := serve(t, New(WithULID()), nil)

	assert.Len(t, id, 26)
	_, err := ulid.Parse(id)
	require.NoError(t, err)
}

func TestRequestID_ClientID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     []Option
		clientID string
		reused   bool
	}{
		{name: "reused", clientID: "abc-123", reused: true},
		{name: "disallowed", opts: []Option{WithAllowClientID(false)}, clientID: "abc-123"},
		{name: "control characters", clientID: "abc\r\n123"},
		{name: "spaces", clientID: "abc 123"},
		{name: "too long", clientID: strings.Repeat("a", maxClientIDLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			id, _ := serve(t, New(tt.opts...), http.Header{"X-Request-Id": {tt.clientID}})
			if tt.reused {
				assert.Equal(t, tt.clientID, id)
			} else {
				assert.NotEqual(t, tt.clientID, id)
				assert.NotEmpty(t, id)
			}
		})
	}
}

func TestRequestID_CustomHeaderAndGenerator(t *testing.T) {
	t.Parallel()

	mw := New(WithHeader("X-Correlation-ID"), WithGenerator(func() string { return "fixed" }))
	id, w := serve(t, mw, nil)

	assert.Equal(t, "fixed", id)
	assert.Equal(t, "fixed", w.Header().Get("X-Correlation-ID"))
	assert.Empty(t, w.Header().Get("X-Request-ID"))
}

func TestGet_Missing(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Get(context.Background()))
}
