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


package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Negotiation kinds.
const (
	KindMedia    = "media"
	KindLanguage = "language"
	KindCharset  = "charset"
	KindEncoding = "encoding"
)

// Negotiation outcomes.
const (
	OutcomeMatched = "matched"
	OutcomeNoMatch = "no_match"
	OutcomeError   = "error"
)

// DefaultDurationBuckets are histogram boundaries for negotiation duration
// in seconds. Negotiation is CPU-bound and usually completes in microseconds.
var DefaultDurationBuckets = []float64{0.000001, 0.0000025, 0.000005, 0.00001, 0.000025, 0.00005, 0.0001, 0.00025, 0.001}

// ErrNilMeterProvider indicates that WithMeterProvider was given a nil provider.
var ErrNilMeterProvider = errors.New("custom meter provider is nil")

// Provider represents the available metrics providers.
type Provider string

const (
	// PrometheusProvider exposes metrics through a private Prometheus registry.
	PrometheusProvider Provider = "prometheus"
	// OTLPProvider pushes metrics to an OpenTelemetry collector over HTTP.
	OTLPProvider Provider = "otlp"
	// StdoutProvider prints metrics periodically, for development.
	StdoutProvider Provider = "stdout"
)

// EventType represents the severity of an internal operational event.
type EventType int

const (
	// EventError indicates an error event (e.g., failed to shut down the exporter).
	EventError EventType = iota
	// EventWarning indicates a warning event.
	EventWarning
	// EventInfo indicates an informational event.
	EventInfo
	// EventDebug indicates a debug event.
	EventDebug
)

// Event represents an internal operational event from the metrics package.
type Event struct {
	Type    EventType
	Message string
	Args    []any // slog-style key-value pairs
}

// EventHandler processes internal operational events.
type EventHandler func(Event)

// DefaultEventHandler returns an EventHandler that logs events to logger.
// If logger is nil, events are discarded.
func DefaultEventHandler(logger *slog.Logger) EventHandler {
	if logger == nil {
		return func(Event) {}
	}

	return func(e Event) {
		switch e.Type {
		case EventError:
			logger.Error(e.Message, e.Args...)
		case EventWarning:
			logger.Warn(e.Message, e.Args...)
		case EventInfo:
			logger.Info(e.Message, e.Args...)
		case EventDebug:
			logger.Debug(e.Message, e.Args...)
		}
	}
}

// Recorder holds the negotiation instruments and the provider that exports them.
// All methods are safe for concurrent use.
type Recorder struct {
	meter              metric.Meter
	meterProvider      metric.MeterProvider
	prometheusRegistry *promclient.Registry
	prometheusHandler  http.Handler
	eventHandler       EventHandler
	shutdownFuncs      []func(context.Context) error
	shutdownOnce       sync.Once

	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram

	durationBuckets []float64
	exportInterval  time.Duration
	serviceName     string
	serviceVersion  string
	otlpEndpoint    string
	serviceAttrs    []attribute.KeyValue

	provider            Provider
	customMeterProvider bool
	registerGlobal      bool
}

// New creates a new [Recorder] with the given options.
// For a version that panics on error, use [MustNew].
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		serviceName:     "negotiation",
		serviceVersion:  "1.0.0",
		provider:        PrometheusProvider,
		exportInterval:  30 * time.Second,
		durationBuckets: DefaultDurationBuckets,
		eventHandler:    func(Event) {},
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	r.serviceAttrs = []attribute.KeyValue{
		attribute.String("service.name", r.serviceName),
		attribute.String("service.version", r.serviceVersion),
	}

	if err := r.initializeProvider(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return r, nil
}

// MustNew creates a new [Recorder] and panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("metrics: %v", err))
	}
	return r
}

func (r *Recorder) validate() error {
	if r.serviceName == "" {
		return errors.New("service name must not be empty")
	}
	if r.customMeterProvider && r.meterProvider == nil {
		return ErrNilMeterProvider
	}
	switch r.provider {
	case PrometheusProvider, OTLPProvider, StdoutProvider:
	default:
		return fmt.Errorf("unsupported metrics provider: %s", r.provider)
	}
	if r.exportInterval <= 0 {
		return errors.New("export interval must be positive")
	}
	return nil
}

func (r *Recorder) initializeMetrics() error {
	var err error

	r.requestCount, err = r.meter.Int64Counter(
		"negotiation.requests",
		metric.WithDescription("Number of content negotiations by kind and outcome"),
	)
	if err != nil {
		return fmt.Errorf("failed to create negotiation counter: %w", err)
	}

	r.requestDuration, err = r.meter.Float64Histogram(
		"negotiation.duration",
		metric.WithDescription("Time spent negotiating"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create negotiation duration histogram: %w", err)
	}

	return nil
}

// RecordOutcome records one negotiation of the given kind and outcome.
// A nil Recorder records nothing.
func (r *Recorder) RecordOutcome(ctx context.Context, kind, outcome string, duration time.Duration) {
	if r == nil {
		return
	}

	attrs := make([]attribute.KeyValue, 0, len(r.serviceAttrs)+2)
	attrs = append(attrs, r.serviceAttrs...)
	attrs = append(attrs, attribute.String("kind", kind))

	r.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	r.requestCount.Add(ctx, 1, metric.WithAttributes(append(attrs, attribute.String("outcome", outcome))...))
}

// Handler returns the HTTP handler serving Prometheus metrics.
// It fails unless the Prometheus provider is in use.
func (r *Recorder) Handler() (http.Handler, error) {
	if r.prometheusHandler == nil {
		return nil, fmt.Errorf("metrics handler requires the %s provider, have %s", PrometheusProvider, r.provider)
	}
	return r.prometheusHandler, nil
}

// Provider returns the configured provider.
func (r *Recorder) Provider() Provider {
	return r.provider
}

// ServiceName returns the service name attached to every measurement.
func (r *Recorder) ServiceName() string {
	return r.serviceName
}

// Shutdown flushes and stops the built-in meter provider. A custom meter
// provider is left to its owner. Shutdown is idempotent.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}

	var errs []error
	r.shutdownOnce.Do(func() {
		for _, fn := range r.shutdownFuncs {
			if err := fn(ctx); err != nil {
				r.emit(EventError, "metrics shutdown failed", "error", err)
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}

func (r *Recorder) emit(t EventType, msg string, args ...any) {
	r.eventHandler(Event{Type: t, Message: msg, Args: args})
}
