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


// Package problem formats negotiation failures as HTTP error responses.
//
// The package defines a [Formatter] interface with two implementations:
//   - [RFC9457]: RFC 9457 Problem Details (application/problem+json)
//   - [Simple]: simple JSON error responses (application/json)
//
// Errors can implement the optional interfaces [ErrorType], [ErrorCode] and
// [ErrorDetails] to control the status code and add machine-readable
// information. [Wrap] attaches all three to an existing error.
//
// # Quick Start
//
//	formatter := problem.NewRFC9457("https://api.example.com/problems")
//	err := problem.Wrap(cause, http.StatusNotAcceptable, "not-acceptable", map[string]any{
//		"available": []string{"application/json", "text/html"},
//	})
//	problem.Write(w, formatter.Format(r, err))
package problem
