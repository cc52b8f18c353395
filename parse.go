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
	"math"
	"strconv"
	"strings"
)

// syntax selects how the value part of an element (before the first ';')
// is interpreted.
type syntax uint8

const (
	// mediaRangeSyntax is "type/subtype" (Accept).
	mediaRangeSyntax syntax = iota

	// tokenSyntax is a bare token (Accept-Charset, Accept-Encoding).
	tokenSyntax

	// languageSyntax is a language tag split on its first '-' (Accept-Language).
	languageSyntax
)

// ParseElements parses an Accept header value into candidates, in header
// order. Commas inside double-quoted parameter values do not separate
// elements, and empty elements are skipped.
//
// When strict is true, an element that is not a valid "type/subtype" pair
// fails with a [*MediaTypeError]. Otherwise such an element is kept as a
// candidate that never matches anything.
//
// Returns [ErrEmptyHeader] if raw is empty or contains only whitespace.
func ParseElements(raw string, strict bool) ([]Candidate, error) {
	return parseHeader(raw, mediaRangeSyntax, strict)
}

func parseHeader(raw string, s syntax, strict bool) ([]Candidate, error) {
	if start, end := trimWhitespace(raw); start >= end {
		return nil, ErrEmptyHeader
	}

	segments := splitQuoted(raw, ',')
	candidates := make([]Candidate, 0, len(segments))
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		c, valid := parseCandidate(segment, len(candidates), s)
		if !valid && strict {
			return nil, &MediaTypeError{Value: segment, Index: c.Index}
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}

// parsePriorities parses server priorities. Each entry is a single element
// and is always validated strictly.
func parsePriorities(priorities []string, s syntax) ([]Candidate, error) {
	if len(priorities) == 0 {
		return nil, ErrMissingPriorities
	}

	candidates := make([]Candidate, len(priorities))
	for i, p := range priorities {
		start, end := trimWhitespace(p)
		c, valid := parseCandidate(p[start:end], i, s)
		if !valid {
			return nil, &MediaTypeError{Value: p[start:end], Index: i}
		}
		candidates[i] = c
	}

	return candidates, nil
}

// parseCandidate parses one trimmed element. The boolean result reports
// whether the value part is well-formed for the syntax.
func parseCandidate(segment string, index int, s syntax) (Candidate, bool) {
	c := Candidate{
		Quality: 1.0,
		Index:   index,
		Raw:     segment,
	}

	clauses := splitQuoted(segment, ';')
	value := strings.ToLower(clauses[0])

	valid := false
	switch s {
	case mediaRangeSyntax:
		c.Value = value
		c.Type = value
		if slash := strings.IndexByte(value, '/'); slash >= 0 {
			c.Type = trimString(value[:slash])
			c.Subtype = trimString(value[slash+1:])
			c.Value = c.Type + "/" + c.Subtype
			valid = isToken(c.Type) && isToken(c.Subtype) && strings.IndexByte(c.Subtype, '/') < 0
		}
	case languageSyntax:
		c.Value = value
		c.Type = value
		if dash := strings.IndexByte(value, '-'); dash >= 0 {
			c.Type = value[:dash]
			c.Subtype = value[dash+1:]
		}
		valid = c.Type != "" && isToken(value) && strings.IndexByte(value, '/') < 0
	default:
		c.Value = value
		c.Type = value
		valid = isToken(value) && strings.IndexByte(value, '/') < 0
	}

	for _, clause := range clauses[1:] {
		parseParam(clause, &c)
	}

	return c, valid
}

// parseParam parses a single name=value clause into the candidate.
// Clauses without '=' or without a name are ignored.
func parseParam(clause string, c *Candidate) {
	equals := strings.IndexByte(clause, '=')
	if equals <= 0 {
		return
	}

	name := strings.ToLower(trimString(clause[:equals]))
	if name == "" {
		return
	}

	value := trimString(clause[equals+1:])
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
	}

	if name == "q" {
		c.Quality = parseQValue(value)
		return
	}

	if c.Params == nil {
		c.Params = make(map[string]string, 2)
	}
	c.Params[name] = value
}

// splitQuoted splits s on sep, ignoring separators inside double quotes.
// Each part is trimmed of whitespace. Empty parts are kept so that
// callers can tell a leading separator from a missing one.
func splitQuoted(s string, sep byte) []string {
	parts := make([]string, 0, 4)
	inQuotes := false
	start := 0
	for i := 0; i <= len(s); i++ {
		if i < len(s) {
			switch s[i] {
			case '"':
				inQuotes = !inQuotes
				continue
			case sep:
				if inQuotes {
					continue
				}
			default:
				continue
			}
		}
		parts = append(parts, trimString(s[start:i]))
		start = i + 1
	}
	return parts
}

// parseQValue parses a quality value. Well-formed qvalues take the
// integer fast path; anything else falls back to strconv.ParseFloat.
// Unparseable values yield 0 and the result is clamped to [0, 1].
func parseQValue(s string) float64 {
	if q := parseQuality(s); q >= 0 {
		return float64(q) / 1000.0
	}

	q, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(q) {
		return 0
	}
	return max(0, min(q, 1))
}

// parseQuality parses a quality value (q-value) into integer thousandths:
// "1", "1.0", "0.9", "0.85" become 1000, 1000, 900, 850.
// Returns -1 if s is not of the form
//
//	qvalue = ( "0" [ "." 0*3DIGIT ] ) / ( "1" [ "." 0*3("0") ] )
func parseQuality(s string) int {
	if len(s) == 0 || len(s) > 5 {
		return -1
	}

	if s[0] == '1' {
		if len(s) == 1 {
			return 1000
		}
		if len(s) < 3 || s[1] != '.' {
			return -1
		}
		for i := 2; i < len(s); i++ {
			if s[i] != '0' {
				return -1
			}
		}
		return 1000
	}

	if s[0] == '0' {
		if len(s) == 1 {
			return 0
		}
		if len(s) < 3 || s[1] != '.' {
			return -1
		}

		result := 0
		multiplier := 100
		for i := 2; i < len(s); i++ {
			if s[i] < '0' || s[i] > '9' {
				return -1
			}
			result += int(s[i]-'0') * multiplier
			multiplier /= 10
		}
		return result
	}

	return -1
}

// trimWhitespace returns start and end indices of non-whitespace content.
func trimWhitespace(s string) (start, end int) {
	for start < len(s) && isSpace(s[start]) {
		start++
	}

	end = len(s)
	for end > start && isSpace(s[end-1]) {
		end--
	}

	return start, end
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}
	return false
}

// isToken reports whether s is a non-empty type, subtype or token free of
// whitespace and list separators.
func isToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if isSpace(s[i]) || s[i] == ',' {
			return false
		}
	}
	return true
}

func trimString(s string) string {
	start, end := trimWhitespace(s)
	return s[start:end]
}
