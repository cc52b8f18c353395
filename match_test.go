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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustCandidates parses each entry as a single element, in order.
func mustCandidates(t *testing.T, s syntax, elements ...string) []Candidate {
	t.Helper()

	candidates := make([]Candidate, len(elements))
	for i, e := range elements {
		c, valid := parseCandidate(e, i, s)
		require.True(t, valid, "element %q", e)
		candidates[i] = c
	}
	return candidates
}

func TestScoreMediaRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		header      string
		server      string
		compatible  bool
		specificity int
	}{
		{name: "exact", header: "text/html", server: "text/html", compatible: true, specificity: 110},
		{name: "exact case insensitive", header: "TEXT/Html", server: "text/HTML", compatible: true, specificity: 110},
		{name: "exact with params", header: "text/html;level=1", server: "text/html;level=1", compatible: true, specificity: 111},
		{name: "subtype wildcard", header: "text/*", server: "text/html", compatible: true, specificity: 100},
		{name: "full wildcard", header: "*/*", server: "image/png", compatible: true, specificity: 0},
		{name: "wildcard with satisfied params", header: "*/*;foo=bar", server: "image/png;foo=bar", compatible: true, specificity: 1},
		{name: "server wildcard type", header: "image/png", server: "*/*", compatible: true, specificity: 0},
		{name: "server wildcard subtype", header: "image/png", server: "image/*", compatible: true, specificity: 100},
		{name: "header suffix wildcard", header: "application/*+json", server: "application/vnd.api+json", compatible: true, specificity: 100},
		{name: "server suffix wildcard", header: "application/vnd.api+json", server: "application/*+json", compatible: true, specificity: 100},
		{name: "suffix wildcard mismatch", header: "application/vnd.api+json", server: "application/*+xml", compatible: false},
		{name: "suffix is not a prefix", header: "application/json", server: "application/*+json", compatible: false},
		{name: "server only params impose nothing", header: "text/html", server: "text/html;charset=UTF-8", compatible: true, specificity: 110},
		{name: "header param missing on server", header: "text/html;charset=UTF-8", server: "text/html", compatible: false},
		{name: "header param different value", header: "text/html;level=2", server: "text/html;level=3", compatible: false},
		{name: "param values case insensitive", header: "text/html;charset=utf-8", server: "text/html;charset=UTF-8", compatible: true, specificity: 111},
		{name: "param names case insensitive", header: "text/html;LEVEL=1", server: "text/html;level=1", compatible: true, specificity: 111},
		{name: "type mismatch", header: "text/html", server: "application/rss", compatible: false},
		{name: "subtype mismatch", header: "image/png", server: "image/jpeg", compatible: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			header := mustCandidates(t, mediaRangeSyntax, tt.header)[0]
			server := mustCandidates(t, mediaRangeSyntax, tt.server)[0]

			specificity, ok := scoreMediaRange(header, server, false)
			assert.Equal(t, tt.compatible, ok)
			if tt.compatible {
				assert.Equal(t, tt.specificity, specificity)
			}
		})
	}
}

// Parameter values compare case-insensitively unless configured otherwise;
// names are always case-insensitive.
func TestScoreMediaRange_CaseSensitiveParamValues(t *testing.T) {
	t.Parallel()

	header := mustCandidates(t, mediaRangeSyntax, "text/html;charset=utf-8")[0]
	server := mustCandidates(t, mediaRangeSyntax, "text/html;Charset=UTF-8")[0]

	_, ok := scoreMediaRange(header, server, true)
	assert.False(t, ok, "values differ in case")

	server = mustCandidates(t, mediaRangeSyntax, "text/html;Charset=utf-8")[0]
	specificity, ok := scoreMediaRange(header, server, true)
	assert.True(t, ok, "names differ only in case")
	assert.Equal(t, 111, specificity)
}

func TestScoreMediaRange_MalformedNeverMatches(t *testing.T) {
	t.Parallel()

	malformed, valid := parseCandidate("/qwer", 0, mediaRangeSyntax)
	require.False(t, valid)
	wildcard := mustCandidates(t, mediaRangeSyntax, "*/*")[0]

	_, ok := scoreMediaRange(malformed, wildcard, false)
	assert.False(t, ok)

	noSlash, _ := parseCandidate("sdlfkj20ff", 0, mediaRangeSyntax)
	_, ok = scoreMediaRange(wildcard, noSlash, false)
	assert.False(t, ok)
}

func TestScoreToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header, server string
		compatible     bool
		specificity    int
	}{
		{"utf-8", "UTF-8", true, 1},
		{"*", "utf-8", true, 0},
		{"gzip", "br", false, 0},
		{"utf-8", "*", false, 0},
	}

	for _, tt := range tests {
		header := mustCandidates(t, tokenSyntax, tt.header)[0]
		server := mustCandidates(t, tokenSyntax, tt.server)[0]

		specificity, ok := scoreToken(header, server, false)
		assert.Equal(t, tt.compatible, ok, "%s vs %s", tt.header, tt.server)
		assert.Equal(t, tt.specificity, specificity, "%s vs %s", tt.header, tt.server)
	}
}

func TestScoreLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header, server string
		compatible     bool
		specificity    int
	}{
		{"en-US", "en-us", true, 11},
		{"en", "en", true, 11},
		{"en", "en-GB", true, 10},
		{"en-US", "en", true, 10},
		{"en-US", "en-GB", false, 0},
		{"*", "fr", true, 1},
		{"*", "fr-CA", true, 0},
		{"fr", "en", false, 0},
	}

	for _, tt := range tests {
		header := mustCandidates(t, languageSyntax, tt.header)[0]
		server := mustCandidates(t, languageSyntax, tt.server)[0]

		specificity, ok := scoreLanguage(header, server, false)
		assert.Equal(t, tt.compatible, ok, "%s vs %s", tt.header, tt.server)
		if tt.compatible {
			assert.Equal(t, tt.specificity, specificity, "%s vs %s", tt.header, tt.server)
		}
	}
}

func TestFindMatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		headers  []string
		servers  []string
		expected []match
	}{
		{
			name:    "parameters on both sides",
			headers: []string{"text/html; charset=UTF-8", "image/png; foo=bar; q=0.7", "*/*; foo=bar; q=0.4"},
			servers: []string{"text/html; charset=UTF-8", "image/png; foo=bar", "application/pdf"},
			expected: []match{
				{quality: 1.0, specificity: 111, index: 0},
				{quality: 0.7, specificity: 111, index: 1},
				{quality: 0.4, specificity: 1, index: 1},
			},
		},
		{
			name:    "server only parameters",
			headers: []string{"text/html", "image/*; q=0.7"},
			servers: []string{"text/html; asfd=qwer", "image/png", "application/pdf"},
			expected: []match{
				{quality: 1.0, specificity: 110, index: 0},
				{quality: 0.7, specificity: 100, index: 1},
			},
		},
		{
			// RFC 7231 section 5.3.2
			name:    "rfc example",
			headers: []string{"text/*; q=0.3", "text/html; q=0.7", "text/html; level=1", "text/html; level=2; q=0.4", "*/*; q=0.5"},
			servers: []string{"text/html; level=1", "text/html", "text/plain", "image/jpeg", "text/html; level=2", "text/html; level=3"},
			expected: []match{
				{quality: 0.3, specificity: 100, index: 0},
				{quality: 0.7, specificity: 110, index: 0},
				{quality: 1.0, specificity: 111, index: 0},
				{quality: 0.5, specificity: 0, index: 0},
				{quality: 0.3, specificity: 100, index: 1},
				{quality: 0.7, specificity: 110, index: 1},
				{quality: 0.5, specificity: 0, index: 1},
				{quality: 0.3, specificity: 100, index: 2},
				{quality: 0.5, specificity: 0, index: 2},
				{quality: 0.5, specificity: 0, index: 3},
				{quality: 0.3, specificity: 100, index: 4},
				{quality: 0.7, specificity: 110, index: 4},
				{quality: 0.4, specificity: 111, index: 4},
				{quality: 0.5, specificity: 0, index: 4},
				{quality: 0.3, specificity: 100, index: 5},
				{quality: 0.7, specificity: 110, index: 5},
				{quality: 0.5, specificity: 0, index: 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			headers := mustCandidates(t, mediaRangeSyntax, tt.headers...)
			servers := mustCandidates(t, mediaRangeSyntax, tt.servers...)

			matches := findMatches(headers, servers, scoreMediaRange, &config{})
			assert.Equal(t, tt.expected, matches)
		})
	}
}

func TestFindMatches_Options(t *testing.T) {
	t.Parallel()

	headers := mustCandidates(t, mediaRangeSyntax, "text/html;q=0", "text/*;q=0.5")
	servers := mustCandidates(t, mediaRangeSyntax, "text/html;q=0.5")

	t.Run("source quality", func(t *testing.T) {
		t.Parallel()
		matches := findMatches(headers, servers, scoreMediaRange, &config{sourceQuality: true})
		require.Len(t, matches, 2)
		assert.InDelta(t, 0.0, matches[0].quality, 1e-9)
		assert.InDelta(t, 0.25, matches[1].quality, 1e-9)
	})

	t.Run("zero quality decides", func(t *testing.T) {
		t.Parallel()
		matches := reduceMatches(findMatches(headers, servers, scoreMediaRange, &config{}), len(servers))
		assert.Equal(t, []match{{quality: 0, specificity: 110, index: 0}}, matches)
		assert.Empty(t, dropZeroQuality(matches))
	})
}

func TestReduceMatches(t *testing.T) {
	t.Parallel()

	t.Run("highest specificity per server", func(t *testing.T) {
		t.Parallel()
		matches := []match{
			{quality: 0.3, specificity: 100, index: 0},
			{quality: 0.7, specificity: 110, index: 0},
			{quality: 1.0, specificity: 111, index: 0},
			{quality: 0.5, specificity: 0, index: 0},
			{quality: 0.5, specificity: 0, index: 2},
		}
		reduced := reduceMatches(matches, 3)
		assert.Equal(t, []match{
			{quality: 1.0, specificity: 111, index: 0},
			{quality: 0.5, specificity: 0, index: 2},
		}, reduced)
	})

	t.Run("first wins on equal specificity", func(t *testing.T) {
		t.Parallel()
		matches := []match{
			{quality: 0.2, specificity: 110, index: 0},
			{quality: 0.9, specificity: 110, index: 0},
		}
		reduced := reduceMatches(matches, 1)
		assert.Equal(t, []match{{quality: 0.2, specificity: 110, index: 0}}, reduced)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, reduceMatches(nil, 4))
	})
}

// Two header elements match the same server entry with equal specificity;
// the one that comes first in the header owns the pairing.
func TestReduceMatches_HeaderOrderOwnsTie(t *testing.T) {
	t.Parallel()

	headers := mustCandidates(t, mediaRangeSyntax, "text/html;q=0.2", "text/html;q=0.9")
	servers := mustCandidates(t, mediaRangeSyntax, "text/html", "text/plain")

	reduced := reduceMatches(findMatches(headers, servers, scoreMediaRange, &config{}), len(servers))
	assert.Equal(t, []match{{quality: 0.2, specificity: 110, index: 0}}, reduced)
}

func TestRankMatches(t *testing.T) {
	t.Parallel()

	matches := []match{
		{quality: 0.5, specificity: 111, index: 0},
		{quality: 1.0, specificity: 0, index: 3},
		{quality: 1.0, specificity: 110, index: 2},
		{quality: 0.9, specificity: 110, index: 1},
	}
	rankMatches(matches)

	assert.Equal(t, []match{
		{quality: 1.0, specificity: 110, index: 2},
		{quality: 1.0, specificity: 0, index: 3},
		{quality: 0.9, specificity: 110, index: 1},
		{quality: 0.5, specificity: 111, index: 0},
	}, matches)
}

func TestSuffixMatch(t *testing.T) {
	t.Parallel()

	assert.True(t, suffixMatch("*+json", "vnd.api+json"))
	assert.True(t, suffixMatch("*+xml", "xhtml+xml"))
	assert.False(t, suffixMatch("*+json", "json"))
	assert.False(t, suffixMatch("*", "json"))
	assert.False(t, suffixMatch("*+", "a+"))
	assert.False(t, suffixMatch("vnd+json", "vnd+json"))
}
