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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Provider selects the span exporter.
type Provider string

const (
	// NoopProvider creates spans without exporting them.
	NoopProvider Provider = "noop"
	// StdoutProvider prints spans to stdout.
	StdoutProvider Provider = "stdout"
	// OTLPProvider exports over OTLP gRPC.
	OTLPProvider Provider = "otlp"
	// OTLPHTTPProvider exports over OTLP HTTP.
	OTLPHTTPProvider Provider = "otlp-http"
)

const tracerName = "rivaas.dev/negotiation"

// ErrNilTracerProvider indicates a nil provider was passed to [WithTracerProvider].
var ErrNilTracerProvider = errors.New("custom tracer provider is nil")

// Tracer owns a tracer provider and the propagator used by [Middleware].
type Tracer struct {
	tracer         trace.Tracer
	tracerProvider trace.TracerProvider
	sdkProvider    *sdktrace.TracerProvider
	propagator     propagation.TextMapPropagator
	logger         *slog.Logger

	provider             Provider
	serviceName          string
	serviceVersion       string
	otlpEndpoint         string
	otlpInsecure         bool
	sampleRate           float64
	customTracerProvider bool
	registerGlobal       bool

	shutdownOnce sync.Once
	shutdownErr  error
}

// New builds a Tracer. ctx is used to dial OTLP exporters.
func New(ctx context.Context, opts ...Option) (*Tracer, error) {
	t := &Tracer{
		provider:       NoopProvider,
		serviceName:    "negotiation",
		serviceVersion: "1.0.0",
		sampleRate:     1.0,
		propagator: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}

	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("invalid tracing configuration: %w", err)
	}
	if err := t.initializeProvider(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	t.tracer = t.tracerProvider.Tracer(tracerName)
	if t.registerGlobal {
		t.logger.Debug("Setting global OpenTelemetry tracer provider", "provider", t.provider)
		otel.SetTracerProvider(t.tracerProvider)
		otel.SetTextMapPropagator(t.propagator)
	}
	return t, nil
}

func (t *Tracer) validate() error {
	if t.serviceName == "" {
		return errors.New("service name must not be empty")
	}
	if t.customTracerProvider && t.tracerProvider == nil {
		return ErrNilTracerProvider
	}
	if t.sampleRate < 0 || t.sampleRate > 1 {
		return fmt.Errorf("sample rate must be between 0 and 1, got %v", t.sampleRate)
	}
	switch t.provider {
	case NoopProvider, StdoutProvider, OTLPProvider, OTLPHTTPProvider:
		return nil
	default:
		return fmt.Errorf("unsupported tracing provider: %s", t.provider)
	}
}

// Start starts a span on the tracer's provider.
func (t *Tracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, opts...)
}

// ExtractTraceContext reads propagated trace context from headers.
func (t *Tracer) ExtractTraceContext(ctx context.Context, headers http.Header) context.Context {
	return t.propagator.Extract(ctx, propagation.HeaderCarrier(headers))
}

// InjectTraceContext writes the trace context of ctx into headers.
func (t *Tracer) InjectTraceContext(ctx context.Context, headers http.Header) {
	t.propagator.Inject(ctx, propagation.HeaderCarrier(headers))
}

// Provider returns the configured provider kind.
func (t *Tracer) Provider() Provider {
	return t.provider
}

// Shutdown flushes and stops a provider built by [New]. A custom tracer
// provider is left to its owner. Shutdown is idempotent and nil-safe.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}

	t.shutdownOnce.Do(func() {
		if t.sdkProvider == nil {
			return
		}
		if err := t.sdkProvider.Shutdown(ctx); err != nil {
			t.logger.Error("Error shutting down tracer provider", "error", err)
			t.shutdownErr = fmt.Errorf("tracer provider shutdown: %w", err)
		}
	})
	return t.shutdownErr
}

// TraceID returns the trace ID of the active span, or "".
func TraceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}
