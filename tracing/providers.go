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
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace/noop"
)

func (t *Tracer) initializeProvider(ctx context.Context) error {
	if t.customTracerProvider {
		t.logger.Debug("Using custom user-provided tracer provider")
		return nil
	}

	var (
		exporter sdktrace.SpanExporter
		err      error
	)
	switch t.provider {
	case NoopProvider:
		t.tracerProvider = noop.NewTracerProvider()
		return nil
	case StdoutProvider:
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case OTLPProvider:
		exporter, err = t.newOTLPGRPCExporter(ctx)
	case OTLPHTTPProvider:
		exporter, err = t.newOTLPHTTPExporter(ctx)
	default:
		err = fmt.Errorf("unsupported tracing provider: %s", t.provider)
	}
	if err != nil {
		return fmt.Errorf("failed to create %s exporter: %w", t.provider, err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(createResource(t.serviceName, t.serviceVersion)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(t.sampleRate))),
	)
	t.sdkProvider = tp
	t.tracerProvider = tp

	t.logger.Info("Tracing initialized", "provider", t.provider, "endpoint", t.otlpEndpoint, "service", t.serviceName)
	return nil
}

func (t *Tracer) newOTLPGRPCExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	var opts []otlptracegrpc.Option
	if t.otlpEndpoint != "" {
		opts = append(opts, otlptracegrpc.WithEndpoint(t.otlpEndpoint))
	}
	if t.otlpInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	return otlptracegrpc.New(ctx, opts...)
}

func (t *Tracer) newOTLPHTTPExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	var opts []otlptracehttp.Option
	if t.otlpEndpoint != "" {
		endpoint := t.otlpEndpoint
		insecure := t.otlpInsecure

		if rest, ok := strings.CutPrefix(endpoint, "http://"); ok {
			endpoint = rest
			insecure = true
		} else {
			endpoint = strings.TrimPrefix(endpoint, "https://")
		}
		if idx := strings.Index(endpoint, "/"); idx != -1 {
			endpoint = endpoint[:idx]
		}

		opts = append(opts, otlptracehttp.WithEndpoint(endpoint))
		if insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
	}
	return otlptracehttp.New(ctx, opts...)
}

func createResource(serviceName, serviceVersion string) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
	)
}
