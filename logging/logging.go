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


package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang-cz/devslog"
	"github.com/phsym/console-slog"
	slogformatter "github.com/samber/slog-formatter"
)

// HandlerType represents the type of logging handler.
type HandlerType string

const (
	// JSONHandler outputs structured JSON logs.
	JSONHandler HandlerType = "json"
	// TextHandler outputs key=value text logs.
	TextHandler HandlerType = "text"
	// ConsoleHandler outputs human-readable colored logs.
	ConsoleHandler HandlerType = "console"
	// DevHandler outputs multi-line pretty logs.
	DevHandler HandlerType = "dev"
	// PrettyHandler outputs styled single-line logs for terminals.
	PrettyHandler HandlerType = "pretty"
)

// Level represents log level.
type Level = slog.Level

const (
	// LevelDebug is the debug log level.
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

const redacted = "***REDACTED***"

// redactedKeys are attribute keys whose values never reach the output.
var redactedKeys = []string{"password", "token", "secret", "api_key", "authorization", "cookie"}

type config struct {
	handlerType HandlerType
	output      io.Writer
	level       Level
	addSource   bool
	timeFormat  string
	serviceName string
}

// Option configures the logger built by [New].
type Option func(*config)

func defaultConfig() *config {
	return &config{
		handlerType: JSONHandler,
		output:      os.Stderr,
		level:       LevelInfo,
		timeFormat:  time.RFC3339Nano,
	}
}

func (c *config) validate() error {
	if c.output == nil {
		return ErrNilOutput
	}
	switch c.handlerType {
	case JSONHandler, TextHandler, ConsoleHandler, DevHandler, PrettyHandler:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidHandler, c.handlerType)
	}
}

// New builds a logger from the given options.
// Without options it writes JSON at info level to stderr.
func New(opts ...Option) (*slog.Logger, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid logging configuration: %w", err)
	}

	logger := slog.New(newFormatterHandler()(cfg.handler()))
	if cfg.serviceName != "" {
		logger = logger.With("service", cfg.serviceName)
	}
	return logger, nil
}

// MustNew is like [New] but panics on an invalid configuration.
func MustNew(opts ...Option) *slog.Logger {
	logger, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("logging: %v", err))
	}
	return logger
}

func (c *config) handler() slog.Handler {
	switch c.handlerType {
	case ConsoleHandler:
		return console.NewHandler(c.output, &console.HandlerOptions{
			AddSource:  c.addSource,
			Level:      c.level,
			TimeFormat: c.timeFormat,
		})
	case DevHandler:
		return devslog.NewHandler(c.output, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{
				AddSource: c.addSource,
				Level:     c.level,
			},
			SortKeys:   true,
			TimeFormat: c.timeFormat,
		})
	case PrettyHandler:
		timeFormat := c.timeFormat
		if timeFormat == "" {
			timeFormat = time.Kitchen
		}
		return log.NewWithOptions(c.output, log.Options{
			Level:           log.Level(c.level),
			ReportTimestamp: true,
			ReportCaller:    c.addSource,
			TimeFormat:      timeFormat,
		})
	case TextHandler:
		return slog.NewTextHandler(c.output, &slog.HandlerOptions{AddSource: c.addSource, Level: c.level})
	default:
		return slog.NewJSONHandler(c.output, &slog.HandlerOptions{AddSource: c.addSource, Level: c.level})
	}
}

func newFormatterHandler() func(slog.Handler) slog.Handler {
	formatters := []slogformatter.Formatter{slogformatter.ErrorFormatter("error")}
	for _, key := range redactedKeys {
		formatters = append(formatters, slogformatter.FormatByKey(key, func(slog.Value) slog.Value {
			return slog.StringValue(redacted)
		}))
	}
	return slogformatter.NewFormatterHandler(formatters...)
}

// ParseLevel parses a level name such as "debug", "INFO" or "warn+2".
// The empty string selects info.
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LevelInfo, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
	return level, nil
}

// ParseHandlerType parses a handler type name, case-insensitively.
func ParseHandlerType(s string) (HandlerType, error) {
	t := HandlerType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case JSONHandler, TextHandler, ConsoleHandler, DevHandler, PrettyHandler:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidHandler, s)
	}
}

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (noopHandler) Handle(context.Context, slog.Record) error { return nil }

func (h noopHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h noopHandler) WithGroup(string) slog.Handler { return h }

var noop = slog.New(noopHandler{})

// Noop returns a logger that discards everything.
func Noop() *slog.Logger {
	return noop
}
