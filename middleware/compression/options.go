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


package compression

import (
	"compress/gzip"
	"log/slog"

	"rivaas.dev/negotiation/metrics"
)

// Option defines functional options for compression middleware configuration.
type Option func(*config)

type config struct {
	logger   *slog.Logger
	recorder *metrics.Recorder

	// gzipLevel is the gzip compression level (0-9)
	gzipLevel int

	// brotliLevel is the Brotli compression level (0-11)
	// For dynamic content (JSON/text), use 4-5. Higher levels are CPU-expensive.
	brotliLevel int

	enableGzip   bool
	enableBrotli bool

	excludePaths        map[string]bool
	excludeContentTypes []string
}

func defaultConfig() *config {
	return &config{
		gzipLevel:    gzip.DefaultCompression,
		brotliLevel:  4,
		enableGzip:   true,
		enableBrotli: true,
		excludePaths: make(map[string]bool),
	}
}

// WithGzipLevel sets the gzip compression level.
func WithGzipLevel(level int) Option {
	return func(cfg *config) {
		cfg.gzipLevel = level
	}
}

// WithBrotliLevel sets the Brotli compression level.
func WithBrotliLevel(level int) Option {
	return func(cfg *config) {
		cfg.brotliLevel = level
	}
}

// WithBrotliDisabled stops offering br.
func WithBrotliDisabled() Option {
	return func(cfg *config) {
		cfg.enableBrotli = false
	}
}

// WithGzipDisabled stops offering gzip.
func WithGzipDisabled() Option {
	return func(cfg *config) {
		cfg.enableGzip = false
	}
}

// WithExcludePaths sets paths that should not be compressed.
//
//	compression.New(compression.WithExcludePaths("/metrics", "/stream"))
func WithExcludePaths(paths ...string) Option {
	return func(cfg *config) {
		for _, path := range paths {
			cfg.excludePaths[path] = true
		}
	}
}

// WithExcludeContentTypes sets content types that should not be compressed,
// matched as case-insensitive substrings of the Content-Type header.
func WithExcludeContentTypes(contentTypes ...string) Option {
	return func(cfg *config) {
		cfg.excludeContentTypes = append(cfg.excludeContentTypes, contentTypes...)
	}
}

// WithLogger sets the logger for negotiation and finalization errors.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithMetrics records every Accept-Encoding negotiation on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(cfg *config) {
		cfg.recorder = r
	}
}
