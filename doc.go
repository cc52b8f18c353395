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

// Package negotiation implements HTTP content negotiation.
//
// Given the value of a client header such as Accept and the ordered list of
// media types a server can produce, the package selects the single best
// type to serve. The same engine negotiates Accept-Language,
// Accept-Charset and Accept-Encoding.
//
// # Quick Start
//
//	mt, ok, err := negotiation.Best(
//		r.Header.Get("Accept"),
//		[]string{"application/json", "text/html; charset=UTF-8"},
//	)
//	switch {
//	case err != nil:
//		// empty header, no priorities, or a malformed priority
//	case !ok:
//		// nothing acceptable: respond 406 or fall back to a default
//	default:
//		w.Header().Set("Content-Type", mt.String())
//	}
//
// # How a Winner Is Chosen
//
// Every header element is paired with every server priority. A pair is
// compatible when the types match (or either side is "*"), the subtypes
// match (or either side is "*", or a suffix wildcard such as "*+json"
// accepts the other side), and every parameter of the header element is
// present on the priority with an equal value. Compatible pairs get a
// specificity score of one digit per literally matched dimension:
//
//	type*100 + subtype*10 + parameters
//
// For each priority only the most specific pair is kept (the first one on
// a tie). The surviving pairs are ranked by client quality, highest first,
// and then by the server's own order. The winner is the priority of the
// top pair, returned exactly as declared.
//
// Having no acceptable type is reported through the ok result and is never
// an error.
//
// # Errors
//
//   - [ErrEmptyHeader]: the header value is empty
//   - [ErrMissingPriorities]: no server priorities were given
//   - [ErrInvalidMediaType]: a priority (or, with [WithStrict], a header
//     element) is not a valid "type/subtype"; the concrete error is a
//     [*MediaTypeError]
//
// # Concurrency
//
// Negotiation is a pure computation. A [Negotiator] is immutable and may be
// shared between goroutines.
package negotiation
