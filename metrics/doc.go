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


// Package metrics records content negotiation outcomes with OpenTelemetry.
//
// A [Recorder] counts negotiations by kind (media, language, charset,
// encoding) and outcome (matched, no_match, error) and measures how long
// they take. Instruments are exported through Prometheus by default, or
// through OTLP, stdout, or a caller-provided [metric.MeterProvider].
//
// # Quick Start
//
//	recorder := metrics.MustNew(metrics.WithServiceName("catalog"))
//	defer recorder.Shutdown(context.Background())
//
//	handler, _ := recorder.Handler()
//	mux.Handle("/metrics", handler)
//
// By default, this package does NOT set the global OpenTelemetry meter
// provider. Use [WithGlobalMeterProvider] for global registration.
package metrics
