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
	"fmt"
	"strings"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "rivaas.dev/negotiation"

// initializeProvider initializes the metrics provider based on configuration.
func (r *Recorder) initializeProvider() error {
	if r.customMeterProvider {
		r.emit(EventDebug, "Using custom user-provided meter provider")
		r.meter = r.meterProvider.Meter(meterName)
		return r.initializeMetrics()
	}

	var (
		mp  *sdkmetric.MeterProvider
		err error
	)
	switch r.provider {
	case PrometheusProvider:
		mp, err = r.initPrometheusProvider()
	case OTLPProvider:
		mp, err = r.initOTLPProvider()
	case StdoutProvider:
		mp, err = r.initStdoutProvider()
	default:
		err = fmt.Errorf("unsupported metrics provider: %s", r.provider)
	}
	if err != nil {
		return err
	}

	r.meterProvider = mp
	r.shutdownFuncs = append(r.shutdownFuncs, mp.Shutdown)

	if r.registerGlobal {
		r.emit(EventDebug, "Setting global OpenTelemetry meter provider", "provider", r.provider)
		otel.SetMeterProvider(mp)
	}

	r.meter = mp.Meter(meterName)
	return r.initializeMetrics()
}

// initPrometheusProvider uses a private registry to avoid conflicts with
// the global one.
func (r *Recorder) initPrometheusProvider() (*sdkmetric.MeterProvider, error) {
	r.prometheusRegistry = promclient.NewRegistry()

	exporter, err := prometheus.New(
		prometheus.WithRegisterer(r.prometheusRegistry),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	r.prometheusHandler = promhttp.HandlerFor(
		r.prometheusRegistry,
		promhttp.HandlerOpts{},
	)

	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter)), nil
}

func (r *Recorder) initOTLPProvider() (*sdkmetric.MeterProvider, error) {
	var opts []otlpmetrichttp.Option

	if r.otlpEndpoint != "" {
		endpoint := r.otlpEndpoint
		insecure := false

		if rest, ok := strings.CutPrefix(endpoint, "http://"); ok {
			endpoint = rest
			insecure = true
		} else {
			endpoint = strings.TrimPrefix(endpoint, "https://")
		}
		if idx := strings.Index(endpoint, "/"); idx != -1 {
			endpoint = endpoint[:idx]
		}

		opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		if insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.exportInterval))
	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)), nil
}

func (r *Recorder) initStdoutProvider() (*sdkmetric.MeterProvider, error) {
	exporter, err := stdoutmetric.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.exportInterval))
	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)), nil
}
