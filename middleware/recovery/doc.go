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


// Package recovery provides middleware for recovering from panics in HTTP
// handlers, preventing server crashes and returning proper error responses.
//
// The middleware logs the panic with a stack trace, marks the active
// OpenTelemetry span, and writes a 500 problem response through a
// [problem.Formatter].
//
// # Basic Usage
//
//	handler := recovery.New()(mux)
//
// It should wrap every other middleware so panics anywhere in the chain
// are caught.
//
// # Configuration Options
//
//   - WithStackTrace: Enable/disable stack trace logging (default: true)
//   - WithStackSize: Maximum stack trace size in bytes (default: 4KB)
//   - WithPrettyStack: Force pretty or compact stack output (default: auto)
//   - WithLogger: Logger for panic messages
//   - WithoutLogging: Disable panic logging
//   - WithFormatter: Formatter for the 500 response
//
// # OpenTelemetry Integration
//
// The active span is marked with exception information:
//
//   - exception.escaped: true
//   - exception.type: Type of the panic value
//   - exception.message: String representation of the panic value
package recovery
