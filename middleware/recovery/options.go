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
	"io"
	"log/slog"
	"os"

	"rivaas.dev/negotiation/problem"
)

// Option defines functional options for recovery middleware configuration.
type Option func(*config)

type config struct {
	// stackTrace enables/disables capturing stack traces on panic
	stackTrace bool

	// stackSize sets the maximum size of the stack trace in bytes
	stackSize int

	// prettyStack forces pretty (true) or compact (false) output; nil detects a terminal
	prettyStack *bool

	// stackOutput receives pretty-printed stacks
	stackOutput io.Writer

	logger    *slog.Logger
	formatter problem.Formatter
}

func defaultConfig() *config {
	return &config{
		stackTrace:  true,
		stackSize:   4 << 10, // 4KB
		stackOutput: os.Stderr,
		logger:      slog.Default(),
		formatter:   problem.NewRFC9457(""),
	}
}

// WithoutLogging disables panic logging.
// Useful for tests to avoid noisy output.
//
// Example:
//
//	recovery.New(recovery.WithoutLogging())
func WithoutLogging() Option {
	return func(cfg *config) {
		cfg.logger = nil
	}
}

// WithLogger sets the logger for panic messages.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	recovery.New(recovery.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithFormatter sets the formatter used for the 500 response.
func WithFormatter(f problem.Formatter) Option {
	return func(cfg *config) {
		cfg.formatter = f
	}
}

// WithStackTrace enables or disables stack trace capture.
// Default: true
func WithStackTrace(enabled bool) Option {
	return func(cfg *config) {
		cfg.stackTrace = enabled
	}
}

// WithStackSize sets the maximum size of the stack trace in bytes.
// Default: 4KB
//
// Example:
//
//	recovery.New(recovery.WithStackSize(8 << 10)) // 8KB
func WithStackSize(size int) Option {
	return func(cfg *config) {
		cfg.stackSize = size
	}
}

// WithPrettyStack controls whether stack traces are pretty-printed.
// By default stack traces are auto-detected:
//   - Pretty-printed to stderr when it is a terminal
//   - Logged compactly otherwise
func WithPrettyStack(enabled bool) Option {
	return func(cfg *config) {
		cfg.prettyStack = &enabled
	}
}
