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


package tracing

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MiddlewareOption configures [Middleware].
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	excludePaths    map[string]bool
	excludePrefixes []string
	recordHeaders   []string
}

// WithExcludePaths skips tracing for exact request paths.
func WithExcludePaths(paths ...string) MiddlewareOption {
	return func(c *middlewareConfig) {
		for _, p := range paths {
			c.excludePaths[p] = true
		}
	}
}

// WithExcludePrefixes skips tracing for paths starting with any prefix.
func WithExcludePrefixes(prefixes ...string) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.excludePrefixes = append(c.excludePrefixes, prefixes...)
	}
}

// WithHeaders records the named request headers as http.request.header.<name>.
func WithHeaders(headers ...string) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.recordHeaders = append(c.recordHeaders, headers...)
	}
}

func (c *middlewareConfig) excluded(path string) bool {
	if c.excludePaths[path] {
		return true
	}
	for _, prefix := range c.excludePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Middleware opens a server span for every request not excluded by opts.
// A 5xx response marks the span as an error. A nil tracer disables it.
//
//	handler := tracing.Middleware(tracer,
//	    tracing.WithExcludePaths("/metrics"),
//	    tracing.WithHeaders("Accept"),
//	)(mux)
func Middleware(t *Tracer, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{excludePaths: make(map[string]bool)}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		if t == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.excluded(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := t.ExtractTraceContext(r.Context(), r.Header)
			ctx, span := t.Start(ctx, r.Method+" "+r.URL.Path, trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()

			attrs := make([]attribute.KeyValue, 0, 5+len(cfg.recordHeaders))
			attrs = append(attrs,
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.RequestURI()),
				attribute.String("http.host", r.Host),
				attribute.String("http.user_agent", r.UserAgent()),
				attribute.String("service.name", t.serviceName),
			)
			for _, h := range cfg.recordHeaders {
				if v := r.Header.Get(h); v != "" {
					attrs = append(attrs, attribute.String("http.request.header."+strings.ToLower(h), v))
				}
			}
			span.SetAttributes(attrs...)

			rw := &responseWriter{ResponseWriter: w}
			next.ServeHTTP(rw, r.WithContext(ctx))

			status := rw.StatusCode()
			span.SetAttributes(attribute.Int("http.status_code", status))
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", status))
			}
		})
	}
}

// responseWriter captures the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.statusCode == 0 {
		rw.statusCode = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	return rw.ResponseWriter.Write(b)
}

// StatusCode returns the status written so far, 200 if none.
func (rw *responseWriter) StatusCode() int {
	if rw.statusCode == 0 {
		return http.StatusOK
	}
	return rw.statusCode
}

// Flush implements http.Flusher.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack implements http.Hijacker.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, errors.New("underlying ResponseWriter does not implement http.Hijacker")
}

// Unwrap returns the wrapped writer for http.ResponseController.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
