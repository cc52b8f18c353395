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
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Option defines functional options for Recorder configuration.
type Option func(*Recorder)

// WithProvider selects a built-in provider. Default: [PrometheusProvider].
func WithProvider(provider Provider) Option {
	return func(r *Recorder) {
		r.provider = provider
	}
}

// WithOTLP selects the OTLP provider and sets the collector endpoint,
// for example "http://localhost:4318". An "http://" scheme disables TLS.
func WithOTLP(endpoint string) Option {
	return func(r *Recorder) {
		r.provider = OTLPProvider
		r.otlpEndpoint = endpoint
	}
}

// WithMeterProvider uses a caller-managed OpenTelemetry [metric.MeterProvider].
// Built-in provider options are then ignored and [Recorder.Shutdown] does
// not shut the provider down.
//
// Example:
//
//	mp := sdkmetric.NewMeterProvider(...)
//	recorder := metrics.MustNew(metrics.WithMeterProvider(mp))
//	defer mp.Shutdown(context.Background())
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(r *Recorder) {
		r.meterProvider = provider
		r.customMeterProvider = true
	}
}

// WithGlobalMeterProvider registers the built-in meter provider as the
// global OpenTelemetry meter provider.
func WithGlobalMeterProvider() Option {
	return func(r *Recorder) {
		r.registerGlobal = true
	}
}

// WithServiceName sets the service name attached to measurements.
func WithServiceName(name string) Option {
	return func(r *Recorder) {
		r.serviceName = name
	}
}

// WithServiceVersion sets the service version attached to measurements.
func WithServiceVersion(version string) Option {
	return func(r *Recorder) {
		r.serviceVersion = version
	}
}

// WithExportInterval sets the export interval for the OTLP and stdout providers.
func WithExportInterval(interval time.Duration) Option {
	return func(r *Recorder) {
		r.exportInterval = interval
	}
}

// WithDurationBuckets sets the histogram bucket boundaries, in seconds.
func WithDurationBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		r.durationBuckets = buckets
	}
}

// WithEventHandler sets a handler for internal operational events.
func WithEventHandler(handler EventHandler) Option {
	return func(r *Recorder) {
		r.eventHandler = handler
	}
}

// WithLogger logs internal operational events to logger.
//
// Example:
//
//	recorder := metrics.MustNew(metrics.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) Option {
	return WithEventHandler(DefaultEventHandler(logger))
}
