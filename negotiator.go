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
	"slices"
)

// Negotiator selects the best server priority for a client header value.
// A Negotiator is immutable and safe for concurrent use.
type Negotiator struct {
	cfg config
}

var defaultNegotiator = New()

// New returns a Negotiator configured by opts.
//
// Example:
//
//	n := negotiation.New(negotiation.WithStrict())
//	mt, ok, err := n.Best(r.Header.Get("Accept"), []string{"application/json", "text/html"})
func New(opts ...Option) *Negotiator {
	n := &Negotiator{}
	for _, opt := range opts {
		opt(&n.cfg)
	}
	return n
}

// Best returns the server priority that best satisfies an Accept header
// value. ok is false when no priority is acceptable, which is not an error.
//
// Priorities are listed in the server's order of preference and are
// always validated strictly. The returned media type is the winning
// priority as declared, including its parameters and any wildcard.
//
// Errors: [ErrMissingPriorities] if priorities is empty, [ErrEmptyHeader]
// if header is empty, and a [*MediaTypeError] for a malformed priority (or
// a malformed header element under [WithStrict]).
//
// Example:
//
//	// Accept: text/html, application/json;q=0.9
//	mt, ok, err := n.Best(accept, []string{"application/json", "text/html"})
//	// mt.Value() == "text/html"
func (n *Negotiator) Best(header string, priorities []string) (MediaType, bool, error) {
	server, ok, err := n.best(header, priorities, mediaRangeSyntax, scoreMediaRange)
	if err != nil || !ok {
		return MediaType{}, false, err
	}
	return MediaType{
		Type:    server.Type,
		Subtype: server.Subtype,
		Params:  cloneParams(server.Params),
	}, true, nil
}

// BestLanguage negotiates an Accept-Language header value. A language
// range without a region ("en") accepts every region of that language,
// and a priority without a region is accepted by any regional range.
//
// Example:
//
//	// Accept-Language: en-US, en;q=0.9, fr;q=0.8
//	tok, ok, err := n.BestLanguage(acceptLanguage, []string{"fr", "en"})
//	// tok.Value == "en"
func (n *Negotiator) BestLanguage(header string, priorities []string) (Token, bool, error) {
	return n.bestToken(header, priorities, languageSyntax, scoreLanguage)
}

// BestCharset negotiates an Accept-Charset header value.
//
// Example:
//
//	// Accept-Charset: utf-8, iso-8859-1;q=0.5
//	tok, ok, err := n.BestCharset(acceptCharset, []string{"iso-8859-1", "utf-8"})
//	// tok.Value == "utf-8"
func (n *Negotiator) BestCharset(header string, priorities []string) (Token, bool, error) {
	return n.bestToken(header, priorities, tokenSyntax, scoreToken)
}

// BestEncoding negotiates an Accept-Encoding header value.
//
// Example:
//
//	// Accept-Encoding: gzip, deflate;q=0.8, br
//	tok, ok, err := n.BestEncoding(acceptEncoding, []string{"br", "gzip"})
//	// tok.Value == "br"
func (n *Negotiator) BestEncoding(header string, priorities []string) (Token, bool, error) {
	return n.bestToken(header, priorities, tokenSyntax, scoreToken)
}

func (n *Negotiator) bestToken(header string, priorities []string, s syntax, score scorer) (Token, bool, error) {
	server, ok, err := n.best(header, priorities, s, score)
	if err != nil || !ok {
		return Token{}, false, err
	}
	return Token{
		Value:  server.Value,
		Params: cloneParams(server.Params),
	}, true, nil
}

// best parses both inputs, scores the cross product, keeps the most
// specific match per priority and returns the priority of the top ranked
// match.
func (n *Negotiator) best(header string, priorities []string, s syntax, score scorer) (Candidate, bool, error) {
	if len(priorities) == 0 {
		return Candidate{}, false, ErrMissingPriorities
	}

	headers, err := parseHeader(header, s, n.cfg.strict)
	if err != nil {
		return Candidate{}, false, err
	}

	servers, err := parsePriorities(priorities, s)
	if err != nil {
		return Candidate{}, false, err
	}

	matches := reduceMatches(findMatches(headers, servers, score, &n.cfg), len(servers))
	if n.cfg.rejectZeroQuality {
		matches = dropZeroQuality(matches)
	}
	if len(matches) == 0 {
		return Candidate{}, false, nil
	}
	rankMatches(matches)

	return servers[matches[0].index], true, nil
}

// OrderByQuality parses an Accept-style header value and returns its
// elements sorted by quality, highest first. Elements of equal quality
// keep their header order. Malformed elements are kept.
//
// Returns [ErrEmptyHeader] if header is empty.
//
// Example:
//
//	cs, _ := negotiation.OrderByQuality("text/html;q=0.3, text/html;q=0.7")
//	// cs[0].String() == "text/html;q=0.7"
func OrderByQuality(header string) ([]Candidate, error) {
	candidates, err := ParseElements(header, false)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		switch {
		case a.Quality > b.Quality:
			return -1
		case a.Quality < b.Quality:
			return 1
		default:
			return 0
		}
	})

	return candidates, nil
}

// Best negotiates an Accept header value with the default Negotiator.
// See [Negotiator.Best].
func Best(header string, priorities []string) (MediaType, bool, error) {
	return defaultNegotiator.Best(header, priorities)
}

// BestLanguage negotiates an Accept-Language header value with the default
// Negotiator. See [Negotiator.BestLanguage].
func BestLanguage(header string, priorities []string) (Token, bool, error) {
	return defaultNegotiator.BestLanguage(header, priorities)
}

// BestCharset negotiates an Accept-Charset header value with the default
// Negotiator. See [Negotiator.BestCharset].
func BestCharset(header string, priorities []string) (Token, bool, error) {
	return defaultNegotiator.BestCharset(header, priorities)
}

// BestEncoding negotiates an Accept-Encoding header value with the default
// Negotiator. See [Negotiator.BestEncoding].
func BestEncoding(header string, priorities []string) (Token, bool, error) {
	return defaultNegotiator.BestEncoding(header, priorities)
}
