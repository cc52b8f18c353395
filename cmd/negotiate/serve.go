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


package main

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"rivaas.dev/negotiation"
	"rivaas.dev/negotiation/logging"
	"rivaas.dev/negotiation/metrics"
	"rivaas.dev/negotiation/middleware/compression"
	"rivaas.dev/negotiation/middleware/contenttype"
	"rivaas.dev/negotiation/middleware/recovery"
	"rivaas.dev/negotiation/middleware/requestid"
	"rivaas.dev/negotiation/problem"
	"rivaas.dev/negotiation/tracing"
)

// greetings holds the demo payload per language.
var greetings = map[string]string{
	"en": "Hello, world",
	"fr": "Bonjour le monde",
	"de": "Hallo Welt",
	"es": "Hola mundo",
}

// greeting is the demo resource.
type greeting struct {
	XMLName   xml.Name `json:"-" xml:"greeting"`
	Message   string   `json:"message" xml:"message"`
	Language  string   `json:"language" xml:"language,attr"`
	RequestID string   `json:"request_id" xml:"request_id"`
}

func newServeCmd(c *cli) *cobra.Command {
	var (
		addr     string
		noBanner bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a demo HTTP server that negotiates its responses",
		Long: `serve answers GET / with a greeting rendered as JSON, XML or plain text
depending on the Accept header, in the language chosen from Accept-Language.
Prometheus metrics are exposed on /metrics unless disabled in the config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				c.cfg.Serve.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !noBanner {
				printBanner(cmd.OutOrStdout(), bannerInfo{
					Name:       "negotiate",
					Version:    Version,
					Addr:       c.cfg.Serve.Addr,
					Metrics:    c.cfg.Serve.Metrics.Provider,
					Tracing:    c.cfg.Serve.Tracing.Provider,
					Priorities: c.cfg.Priorities,
					Plain:      c.cfg.Log.Format == string(logging.JSONHandler),
				})
			}

			return c.serve(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides serve.addr)")
	cmd.Flags().BoolVar(&noBanner, "no-banner", false, "do not print the startup banner")

	return cmd
}

func (c *cli) serve(ctx context.Context) error {
	recorder, err := c.newRecorder()
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), c.cfg.Serve.ShutdownTimeout)
		defer cancel()
		if err := recorder.Shutdown(shutdownCtx); err != nil {
			c.logger.Warn("metrics shutdown failed", "error", err)
		}
	}()

	tracer, err := c.newTracer(ctx)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), c.cfg.Serve.ShutdownTimeout)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			c.logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	build := func(cfg *fileConfig) (http.Handler, error) {
		return newServeHandler(cfg, c.logger, recorder, tracer)
	}
	handler, err := build(c.cfg)
	if err != nil {
		return err
	}
	swap := newSwapHandler(handler)

	if c.cfg.Serve.WatchConfig && c.configFile != "" {
		go func() {
			if err := watchConfig(ctx, c.configFile, c.logger, c.reloadHandler(swap, build)); err != nil {
				c.logger.Error("config watcher stopped", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              c.cfg.Serve.Addr,
		Handler:           swap,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		c.logger.Info("server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	c.logger.Info("shutting down", "timeout", c.cfg.Serve.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.cfg.Serve.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// newRecorder returns nil when metrics are disabled.
func (c *cli) newRecorder() (*metrics.Recorder, error) {
	mc := c.cfg.Serve.Metrics
	if mc.Provider == metricsDisabled {
		return nil, nil
	}

	opts := []metrics.Option{
		metrics.WithServiceName(mc.ServiceName),
		metrics.WithServiceVersion(Version),
		metrics.WithLogger(c.logger),
	}
	switch mc.Provider {
	case "otlp":
		opts = append(opts, metrics.WithOTLP(mc.OTLPEndpoint))
	case "stdout":
		opts = append(opts, metrics.WithProvider(metrics.StdoutProvider))
	}
	return metrics.New(opts...)
}

// newTracer returns nil when tracing is disabled.
func (c *cli) newTracer(ctx context.Context) (*tracing.Tracer, error) {
	tc := c.cfg.Serve.Tracing
	if tc.Provider == tracingDisabled {
		return nil, nil
	}

	opts := []tracing.Option{
		tracing.WithServiceName(c.cfg.Serve.Metrics.ServiceName),
		tracing.WithServiceVersion(Version),
		tracing.WithSampleRate(tc.SampleRate),
		tracing.WithLogger(c.logger),
	}
	switch tc.Provider {
	case "stdout":
		opts = append(opts, tracing.WithProvider(tracing.StdoutProvider))
	case "otlp":
		opts = append(opts, tracing.WithOTLP(tc.Endpoint, tc.Insecure))
	case "otlp-http":
		opts = append(opts, tracing.WithOTLPHTTP(tc.Endpoint))
	}
	return tracing.New(ctx, opts...)
}

// newServeHandler builds the demo routes. recorder and tracer may be nil.
func newServeHandler(
	cfg *fileConfig,
	logger *slog.Logger,
	recorder *metrics.Recorder,
	tracer *tracing.Tracer,
) (http.Handler, error) {
	n := negotiation.New(cfg.negotiationOptions()...)

	ctOpts := []contenttype.Option{
		contenttype.WithNegotiator(n),
		contenttype.WithLogger(logger),
		contenttype.WithMetrics(recorder),
		contenttype.WithFormatter(problem.NewRFC9457("")),
	}
	if cfg.Serve.Fallback != "" {
		ctOpts = append(ctOpts, contenttype.WithFallback(cfg.Serve.Fallback))
	}
	negotiate, err := newContentType(cfg.Priorities.Media, ctOpts)
	if err != nil {
		return nil, err
	}

	greet := &greeter{
		negotiator: n,
		languages:  cfg.Priorities.Language,
		logger:     logger,
		recorder:   recorder,
	}

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", negotiate(greet))
	if recorder != nil {
		if h, err := recorder.Handler(); err == nil {
			mux.Handle("GET /metrics", h)
		}
	}

	traced := tracing.Middleware(tracer,
		tracing.WithExcludePaths("/metrics"),
		tracing.WithHeaders("Accept", "Accept-Language"),
	)(recovery.New(recovery.WithLogger(logger))(mux))
	compressed := compression.New(
		compression.WithExcludePaths("/metrics"),
		compression.WithLogger(logger),
		compression.WithMetrics(recorder),
	)(traced)
	return requestid.New()(compressed), nil
}

// newContentType turns the middleware's configuration panic into an error.
func newContentType(offers []string, opts []contenttype.Option) (mw func(http.Handler) http.Handler, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid media priorities: %v", r)
		}
	}()
	return contenttype.New(offers, opts...), nil
}

type greeter struct {
	negotiator *negotiation.Negotiator
	languages  []string
	logger     *slog.Logger
	recorder   *metrics.Recorder
}

func (g *greeter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	mt, _ := contenttype.FromContext(ctx)

	lang := g.language(ctx, r.Header.Get("Accept-Language"))
	w.Header().Add("Vary", "Accept-Language")
	w.Header().Set("Content-Language", lang)

	body := greeting{
		Message:   greetings[baseLanguage(lang)],
		Language:  lang,
		RequestID: requestid.Get(ctx),
	}
	if body.Message == "" {
		body.Message = greetings["en"]
	}

	w.Header().Set("Content-Type", mt.String())
	if err := render(w, mt, body); err != nil {
		g.logger.WarnContext(ctx, "failed to render response", "error", err, "type", mt.Value())
		return
	}

	g.logger.InfoContext(ctx, "served greeting",
		"request_id", body.RequestID,
		"type", mt.Value(),
		"language", lang,
	)
}

// language falls back to the first priority when nothing matches.
func (g *greeter) language(ctx context.Context, header string) string {
	if strings.TrimSpace(header) == "" {
		return g.languages[0]
	}

	start := time.Now()
	tok, ok, err := g.negotiator.BestLanguage(header, g.languages)
	switch {
	case err != nil:
		g.recorder.RecordOutcome(ctx, metrics.KindLanguage, metrics.OutcomeError, time.Since(start))
		g.logger.DebugContext(ctx, "ignoring malformed Accept-Language", "header", header, "error", err)
		return g.languages[0]
	case !ok:
		g.recorder.RecordOutcome(ctx, metrics.KindLanguage, metrics.OutcomeNoMatch, time.Since(start))
		return g.languages[0]
	default:
		g.recorder.RecordOutcome(ctx, metrics.KindLanguage, metrics.OutcomeMatched, time.Since(start))
		return tok.Value
	}
}

func baseLanguage(tag string) string {
	base, _, _ := strings.Cut(tag, "-")
	return strings.ToLower(base)
}

// render encodes body in the negotiated media type.
func render(w http.ResponseWriter, mt negotiation.MediaType, body greeting) error {
	switch {
	case mt.Subtype == "json" || strings.HasSuffix(mt.Subtype, "+json"):
		return json.NewEncoder(w).Encode(body)
	case mt.Subtype == "xml" || strings.HasSuffix(mt.Subtype, "+xml"):
		if _, err := w.Write([]byte(xml.Header)); err != nil {
			return err
		}
		return xml.NewEncoder(w).Encode(body)
	default:
		_, err := fmt.Fprintf(w, "%s (%s)\n", body.Message, body.Language)
		return err
	}
}
