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


package contenttype

import (
	"log/slog"

	"rivaas.dev/negotiation"
	"rivaas.dev/negotiation/metrics"
	"rivaas.dev/negotiation/problem"
)

// Option defines functional options for contenttype middleware configuration.
type Option func(*config)

type config struct {
	// negotiator overrides the one built from negotiationOpts
	negotiator *negotiation.Negotiator

	// negotiationOpts are used when no negotiator is given
	negotiationOpts []negotiation.Option

	// fallback is served instead of a 406 when set
	fallback string

	formatter problem.Formatter
	logger    *slog.Logger
	recorder  *metrics.Recorder
}

func defaultConfig() *config {
	return &config{
		formatter: problem.NewRFC9457(""),
	}
}

// WithNegotiator uses n instead of a negotiator built from the other options.
// [WithStrict] and [WithSourceQuality] have no effect when it is set.
func WithNegotiator(n *negotiation.Negotiator) Option {
	return func(c *config) {
		c.negotiator = n
	}
}

// WithStrict rejects malformed Accept headers with 400 Bad Request.
func WithStrict() Option {
	return func(c *config) {
		c.negotiationOpts = append(c.negotiationOpts, negotiation.WithStrict())
	}
}

// WithSourceQuality weighs matches by the q parameter of the offers.
func WithSourceQuality() Option {
	return func(c *config) {
		c.negotiationOpts = append(c.negotiationOpts, negotiation.WithSourceQuality())
	}
}

// WithFallback serves mediaType instead of responding 406 when nothing
// in the Accept header matches an offer.
func WithFallback(mediaType string) Option {
	return func(c *config) {
		c.fallback = mediaType
	}
}

// WithFormatter sets the formatter for 400 and 406 responses.
func WithFormatter(f problem.Formatter) Option {
	return func(c *config) {
		c.formatter = f
	}
}

// WithLogger sets the logger for rejected requests.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetrics records every negotiation on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(c *config) {
		c.recorder = r
	}
}
