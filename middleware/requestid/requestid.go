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
	"crypto/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// maxClientIDLength bounds client-supplied IDs.
const maxClientIDLength = 128

type contextKey struct{}

// Option defines functional options for requestid middleware configuration.
type Option func(*config)

type config struct {
	// headerName is the name of the header to use for the request ID
	headerName string

	// generator is the function used to generate new request IDs
	generator func() string

	// allowClientID allows using request IDs provided by clients
	allowClientID bool
}

func defaultConfig() *config {
	return &config{
		headerName:    "X-Request-ID",
		generator:     generateUUIDv7,
		allowClientID: true,
	}
}

func generateUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ulidEntropy is monotonic within the same millisecond.
var (
	ulidEntropy     = ulid.Monotonic(rand.Reader, 0)
	ulidEntropyLock sync.Mutex
)

func generateULID() string {
	ulidEntropyLock.Lock()
	defer ulidEntropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

// WithHeader sets the header carrying the request ID. Default: X-Request-ID.
func WithHeader(name string) Option {
	return func(c *config) {
		c.headerName = name
	}
}

// WithULID generates ULIDs instead of UUID v7.
func WithULID() Option {
	return WithGenerator(generateULID)
}

// WithGenerator sets a custom ID generator.
func WithGenerator(fn func() string) Option {
	return func(c *config) {
		c.generator = fn
	}
}

// WithAllowClientID controls whether an ID sent by the client is reused.
func WithAllowClientID(allow bool) Option {
	return func(c *config) {
		c.allowClientID = allow
	}
}

// New returns a middleware that adds a request ID to each request.
//
// Custom header name:
//
//	requestid.New(requestid.WithHeader("X-Correlation-ID"))
func New(opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var requestID string
			if cfg.allowClientID {
				requestID = r.Header.Get(cfg.headerName)
				if !validClientID(requestID) {
					requestID = ""
				}
			}
			if requestID == "" {
				requestID = cfg.generator()
			}

			w.Header().Set(cfg.headerName, requestID)

			ctx := context.WithValue(r.Context(), contextKey{}, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validClientID accepts bounded, printable ASCII IDs only, so they can be
// logged and echoed safely.
func validClientID(id string) bool {
	if id == "" || len(id) > maxClientIDLength {
		return false
	}
	for i := range len(id) {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}

// Get retrieves the request ID from the context.
// Returns an empty string if no request ID has been set.
func Get(ctx context.Context) string {
	if requestID, ok := ctx.Value(contextKey{}).(string); ok {
		return requestID
	}
	return ""
}
