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
	"cmp"
	"slices"
	"strings"
)

// match is the outcome of pairing one header candidate with one server
// candidate.
type match struct {
	quality     float64
	specificity int // one decimal digit per matched dimension, higher is more specific
	index       int // server candidate index
}

// scorer decides whether a header candidate accepts a server candidate
// and how specifically. ok is false for incompatible pairs.
type scorer func(header, server Candidate, caseSensitiveValues bool) (specificity int, ok bool)

// scoreMediaRange scores media ranges. Specificity digits, most
// significant first: literal type, literal subtype, satisfied header
// parameters.
func scoreMediaRange(header, server Candidate, caseSensitiveValues bool) (int, bool) {
	if header.Type == "" || header.Subtype == "" || server.Type == "" || server.Subtype == "" {
		return 0, false
	}

	typeDigit := 0
	switch {
	case header.Type == "*" || server.Type == "*":
	case header.Type == server.Type:
		typeDigit = 1
	default:
		return 0, false
	}

	subtypeDigit := 0
	switch {
	case header.Subtype == "*" || server.Subtype == "*":
	case suffixMatch(header.Subtype, server.Subtype) || suffixMatch(server.Subtype, header.Subtype):
	case header.Subtype == server.Subtype:
		subtypeDigit = 1
	default:
		return 0, false
	}

	if !paramsSatisfied(header.Params, server.Params, caseSensitiveValues) {
		return 0, false
	}
	paramDigit := 0
	if len(header.Params) > 0 {
		paramDigit = 1
	}

	return typeDigit*100 + subtypeDigit*10 + paramDigit, true
}

// suffixMatch reports whether pattern is a suffix wildcard ("*+json") that
// accepts subtype ("vnd.api+json").
func suffixMatch(pattern, subtype string) bool {
	suffix, ok := strings.CutPrefix(pattern, "*")
	if !ok || len(suffix) < 2 || suffix[0] != '+' {
		return false
	}
	return strings.HasSuffix(subtype, suffix)
}

// paramsSatisfied reports whether every header parameter is present on the
// server side with an equal value. Names are already lowercased.
func paramsSatisfied(header, server map[string]string, caseSensitiveValues bool) bool {
	for name, want := range header {
		got, ok := server[name]
		if !ok {
			return false
		}
		if caseSensitiveValues {
			if got != want {
				return false
			}
		} else if !strings.EqualFold(got, want) {
			return false
		}
	}
	return true
}

// scoreToken scores bare tokens (charsets, encodings): '*' accepts
// anything, otherwise values must be equal.
func scoreToken(header, server Candidate, _ bool) (int, bool) {
	if header.Value == "" || server.Value == "" {
		return 0, false
	}
	switch {
	case header.Value == server.Value:
		return 1, true
	case header.Value == "*":
		return 0, true
	default:
		return 0, false
	}
}

// scoreLanguage scores language tags. A tag without a region accepts any
// region of the same base, and a server tag without a region is accepted
// by any region of its base.
func scoreLanguage(header, server Candidate, _ bool) (int, bool) {
	if header.Type == "" || server.Type == "" {
		return 0, false
	}

	baseEqual := header.Type == server.Type
	if !baseEqual && header.Type != "*" {
		return 0, false
	}

	subEqual := header.Subtype == server.Subtype
	if !subEqual && header.Subtype != "" && server.Subtype != "" {
		return 0, false
	}

	specificity := 0
	if baseEqual {
		specificity += 10
	}
	if subEqual {
		specificity++
	}
	return specificity, true
}

// findMatches scores the full cross product. Server candidates form the
// outer loop and header candidates the inner one, so matches come out
// grouped by server index and, within a group, in header order.
func findMatches(headers, servers []Candidate, score scorer, cfg *config) []match {
	matches := make([]match, 0, len(servers))
	for _, server := range servers {
		for _, header := range headers {
			specificity, ok := score(header, server, cfg.caseSensitiveParamValues)
			if !ok {
				continue
			}
			quality := header.Quality
			if cfg.sourceQuality {
				quality *= server.Quality
			}
			matches = append(matches, match{
				quality:     quality,
				specificity: specificity,
				index:       server.Index,
			})
		}
	}
	return matches
}

// reduceMatches keeps the most specific match per server index. On equal
// specificity the match produced first wins. The result is ordered by
// server index.
func reduceMatches(matches []match, servers int) []match {
	best := make([]match, servers)
	seen := make([]bool, servers)
	for _, m := range matches {
		if !seen[m.index] || m.specificity > best[m.index].specificity {
			best[m.index] = m
			seen[m.index] = true
		}
	}

	reduced := make([]match, 0, len(matches))
	for i, ok := range seen {
		if ok {
			reduced = append(reduced, best[i])
		}
	}
	return reduced
}

// dropZeroQuality removes servers whose deciding match has quality 0.
func dropZeroQuality(matches []match) []match {
	return slices.DeleteFunc(matches, func(m match) bool { return m.quality == 0 })
}

// rankMatches orders matches by quality descending, then by server index
// ascending. Specificity is not considered.
func rankMatches(matches []match) {
	slices.SortStableFunc(matches, func(a, b match) int {
		if c := cmp.Compare(b.quality, a.quality); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	})
}
