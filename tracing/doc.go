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


// Package tracing sets up OpenTelemetry tracing for the negotiate server
// and provides HTTP middleware that opens a server span per request.
//
// # Basic Usage
//
//	tracer, err := tracing.New(ctx,
//	    tracing.WithServiceName("negotiate"),
//	    tracing.WithProvider(tracing.StdoutProvider),
//	)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	handler := tracing.Middleware(tracer, tracing.WithExcludePaths("/metrics"))(mux)
//
// # Providers
//
//   - NoopProvider (default): spans are created but never exported
//   - StdoutProvider: pretty-printed spans on stdout, for development
//   - OTLPProvider: OTLP over gRPC
//   - OTLPHTTPProvider: OTLP over HTTP
//
// Incoming W3C trace context and baggage headers are honored, so spans join
// the caller's trace. Handlers further down the chain, such as the
// contenttype middleware, annotate the active span through the request
// context.
package tracing
