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


package recovery

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime/debug"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/term"

	"rivaas.dev/negotiation/problem"
)

// ErrPanic is the error reported to clients for a recovered panic.
var ErrPanic = errors.New("internal server error")

// New returns a middleware that recovers from panics in next.
// http.ErrAbortHandler is re-panicked so net/http can abort the connection.
func New(opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	pretty := false
	if cfg.prettyStack != nil {
		pretty = *cfg.prettyStack
	} else if f, ok := cfg.stackOutput.(*os.File); ok {
		pretty = term.IsTerminal(int(f.Fd()))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value
					panic(rec)
				}

				ctx := r.Context()
				if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
					span.SetStatus(codes.Error, "panic recovered")
					span.SetAttributes(
						attribute.Bool("exception.escaped", true),
						attribute.String("exception.type", fmt.Sprintf("%T", rec)),
						attribute.String("exception.message", fmt.Sprintf("%v", rec)),
					)
					if err, ok := rec.(error); ok {
						span.RecordError(err)
					}
				}

				if cfg.logger != nil {
					cfg.logger.ErrorContext(ctx, "panic recovered",
						"panic", fmt.Sprintf("%v", rec),
						"method", r.Method,
						"path", r.URL.Path,
					)
					if cfg.stackTrace {
						stack := debug.Stack()
						if len(stack) > cfg.stackSize {
							stack = stack[:cfg.stackSize]
						}
						if pretty {
							printStack(cfg.stackOutput, rec, stack)
						} else {
							frames := parseFrames(stack)
							cfg.logger.ErrorContext(ctx, "stack trace", "frames", frames)
						}
					}
				}

				resp := cfg.formatter.Format(r, problem.Wrap(ErrPanic, http.StatusInternalServerError, "internal-error", nil))
				if err := problem.Write(w, resp); err != nil && cfg.logger != nil {
					cfg.logger.WarnContext(ctx, "failed to write recovery response", "error", err)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// parseFrames reduces a debug.Stack dump to "function file:line" entries,
// skipping the goroutine header.
func parseFrames(stack []byte) []string {
	lines := strings.Split(strings.TrimSpace(string(stack)), "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], "goroutine ") {
		lines = lines[1:]
	}

	frames := make([]string, 0, len(lines)/2)
	for i := 0; i+1 < len(lines); i += 2 {
		fn := strings.TrimSpace(lines[i])
		loc := strings.TrimSpace(lines[i+1])
		if idx := strings.LastIndex(loc, " +0x"); idx >= 0 {
			loc = loc[:idx]
		}
		frames = append(frames, fn+" "+loc)
	}
	return frames
}

func printStack(w io.Writer, rec any, stack []byte) {
	fmt.Fprintf(w, "panic: %v\n", rec)
	for i, frame := range parseFrames(stack) {
		fmt.Fprintf(w, "  %2d  %s\n", i, frame)
	}
}
