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
	"log/slog"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a [Tracer].
type Option func(*Tracer)

// WithProvider selects the exporter.
func WithProvider(provider Provider) Option {
	return func(t *Tracer) {
		t.provider = provider
	}
}

// WithOTLP exports over OTLP gRPC to endpoint (host:port).
func WithOTLP(endpoint string, insecure bool) Option {
	return func(t *Tracer) {
		t.provider = OTLPProvider
		t.otlpEndpoint = endpoint
		t.otlpInsecure = insecure
	}
}

// WithOTLPHTTP exports over OTLP HTTP. An http:// endpoint disables TLS.
func WithOTLPHTTP(endpoint string) Option {
	return func(t *Tracer) {
		t.provider = OTLPHTTPProvider
		t.otlpEndpoint = endpoint
	}
}

// WithTracerProvider uses a caller-owned provider instead of building one.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(t *Tracer) {
		t.tracerProvider = provider
		t.customTracerProvider = true
	}
}

// WithGlobalTracerProvider registers the provider and propagator globally.
func WithGlobalTracerProvider() Option {
	return func(t *Tracer) {
		t.registerGlobal = true
	}
}

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) Option {
	return func(t *Tracer) {
		t.serviceName = name
	}
}

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(version string) Option {
	return func(t *Tracer) {
		t.serviceVersion = version
	}
}

// WithSampleRate samples root spans at rate in [0, 1]. Child spans follow
// their parent's decision.
func WithSampleRate(rate float64) Option {
	return func(t *Tracer) {
		t.sampleRate = rate
	}
}

// WithPropagator replaces the W3C trace context and baggage propagator.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(t *Tracer) {
		t.propagator = p
	}
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracer) {
		if logger != nil {
			t.logger = logger
		}
	}
}
