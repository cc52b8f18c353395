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

package negotiation

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Candidate is the parsed form of one element of an Accept-style header
// or of one server priority.
//
// Type and Subtype are lowercased. For bare-token headers (Accept-Charset,
// Accept-Encoding) Subtype is empty; for Accept-Language it holds the
// region part of the tag ("en-US" parses as Type "en", Subtype "us").
type Candidate struct {
	// Value is the element without parameters, lowercased ("text/html", "gzip").
	Value string

	// Type is the media type ("text") or the token base ("en", "gzip").
	Type string

	// Subtype is the media subtype ("html", "*", "*+json") or the token sub part.
	Subtype string

	// Params holds the element parameters keyed by lowercased name.
	// The quality parameter is never present.
	Params map[string]string

	// Quality is the q parameter value in [0, 1], 1 when absent.
	Quality float64

	// Index is the position of the candidate in the sequence it was parsed from.
	Index int

	// Raw is the trimmed source text of the element.
	Raw string
}

// String renders the candidate in header form with parameters in name
// order. The quality parameter is appended last when it differs from 1.
func (c Candidate) String() string {
	var b strings.Builder
	b.WriteString(c.Value)
	writeParams(&b, c.Params, ";")
	if c.Quality != 1 {
		b.WriteString(";q=")
		b.WriteString(strconv.FormatFloat(c.Quality, 'f', -1, 64))
	}
	return b.String()
}

// MediaType is the outcome of a successful media type negotiation. It is
// always the server priority that won, as declared (lowercased), never
// the client's media range.
type MediaType struct {
	Type    string
	Subtype string
	Params  map[string]string
}

// Value returns "type/subtype" without parameters.
func (m MediaType) Value() string {
	return m.Type + "/" + m.Subtype
}

// String returns the media type with its parameters, suitable for a
// Content-Type header:
//
//	text/html; charset=UTF-8
func (m MediaType) String() string {
	var b strings.Builder
	b.WriteString(m.Value())
	writeParams(&b, m.Params, "; ")
	return b.String()
}

// Token is the outcome of a charset, encoding or language negotiation.
type Token struct {
	Value  string
	Params map[string]string
}

// String returns the token value.
func (t Token) String() string {
	return t.Value
}

func writeParams(b *strings.Builder, params map[string]string, sep string) {
	for _, name := range slices.Sorted(maps.Keys(params)) {
		b.WriteString(sep)
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(quoteParam(params[name]))
	}
}

// quoteParam quotes values that would not survive re-parsing as a bare token.
func quoteParam(v string) string {
	if v == "" || strings.ContainsAny(v, " \t,;=\"") {
		return strconv.Quote(v)
	}
	return v
}

func cloneParams(params map[string]string) map[string]string {
	if len(params) == 0 {
		return map[string]string{}
	}
	return maps.Clone(params)
}
