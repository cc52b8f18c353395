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
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/negotiation"
	"rivaas.dev/negotiation/logging"
	"rivaas.dev/negotiation/metrics"
	"rivaas.dev/negotiation/problem"
)

var (
	// ErrNotAcceptable is reported when no offer satisfies the Accept header.
	ErrNotAcceptable = errors.New("no acceptable media type")

	// ErrInvalidAccept is reported when a strict middleware sees a malformed Accept header.
	ErrInvalidAccept = errors.New("invalid Accept header")
)

type contextKey struct{}

// New returns a middleware that selects one of offers for every request.
//
// Offers and the fallback are validated once; an invalid media type among
// them panics, since it is a configuration error.
//
// A request without an Accept header gets the type "*/*" would select,
// which is the first offer unless source quality weighting is enabled.
func New(offers []string, opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.negotiator == nil {
		cfg.negotiator = negotiation.New(cfg.negotiationOpts...)
	}
	if cfg.logger == nil {
		cfg.logger = logging.Noop()
	}

	offers = append([]string(nil), offers...)
	anyType := mustParse(cfg.negotiator, offers)

	var fallback *negotiation.MediaType
	if cfg.fallback != "" {
		mt := mustParse(cfg.negotiator, []string{cfg.fallback})
		fallback = &mt
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Accept")

			ctx := r.Context()
			start := time.Now()
			accept := strings.Join(r.Header.Values("Accept"), ", ")

			var (
				mt  negotiation.MediaType
				ok  bool
				err error
			)
			if strings.TrimSpace(accept) == "" {
				mt, ok = anyType, true
			} else {
				mt, ok, err = cfg.negotiator.Best(accept, offers)
			}

			switch {
			case err != nil:
				cfg.recorder.RecordOutcome(ctx, metrics.KindMedia, metrics.OutcomeError, time.Since(start))
				cfg.logger.DebugContext(ctx, "rejected malformed Accept header", "accept", accept, "error", err)
				cfg.writeProblem(w, r, problem.Wrap(
					fmt.Errorf("%w: %w", ErrInvalidAccept, err),
					http.StatusBadRequest, "invalid-accept", nil,
				))
				return

			case !ok:
				cfg.recorder.RecordOutcome(ctx, metrics.KindMedia, metrics.OutcomeNoMatch, time.Since(start))
				if fallback == nil {
					cfg.logger.DebugContext(ctx, "no acceptable media type", "accept", accept, "offers", offers)
					cfg.writeProblem(w, r, problem.Wrap(
						ErrNotAcceptable, http.StatusNotAcceptable, "not-acceptable",
						map[string]any{"available": offers},
					))
					return
				}
				mt = *fallback

			default:
				cfg.recorder.RecordOutcome(ctx, metrics.KindMedia, metrics.OutcomeMatched, time.Since(start))
			}

			trace.SpanFromContext(ctx).SetAttributes(attribute.String("negotiation.selected_type", mt.Value()))

			ctx = context.WithValue(ctx, contextKey{}, mt)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the media type selected by the middleware.
func FromContext(ctx context.Context) (negotiation.MediaType, bool) {
	mt, ok := ctx.Value(contextKey{}).(negotiation.MediaType)
	return mt, ok
}

func (c *config) writeProblem(w http.ResponseWriter, r *http.Request, err error) {
	if werr := problem.Write(w, c.formatter.Format(r, err)); werr != nil {
		c.logger.WarnContext(r.Context(), "failed to write problem response", "error", werr)
	}
}

// mustParse validates media types by negotiating them against "*/*",
// returning what a wildcard request would select.
func mustParse(n *negotiation.Negotiator, mediaTypes []string) negotiation.MediaType {
	mt, ok, err := n.Best("*/*", mediaTypes)
	if err != nil {
		panic(fmt.Sprintf("contenttype: %v", err))
	}
	if !ok {
		panic(fmt.Sprintf("contenttype: offers %q cannot satisfy */*", mediaTypes))
	}
	return mt
}
