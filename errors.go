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
	"errors"
	"strconv"
)

var (
	// ErrEmptyHeader indicates that the header value to negotiate against is empty.
	ErrEmptyHeader = errors.New("header value must not be empty")

	// ErrMissingPriorities indicates that no server priorities were given.
	ErrMissingPriorities = errors.New("a set of server priorities must be given")

	// ErrInvalidMediaType indicates that an element does not follow the type/subtype grammar.
	ErrInvalidMediaType = errors.New("invalid media type")
)

// MediaTypeError reports a malformed element rejected by strict validation.
// It unwraps to [ErrInvalidMediaType].
type MediaTypeError struct {
	// Value is the offending element as it appeared in the input, trimmed.
	Value string

	// Index is the position of the element among the non-empty elements of its input.
	Index int
}

// Error implements the error interface.
func (e *MediaTypeError) Error() string {
	return "invalid media type " + strconv.Quote(e.Value) + " at element " + strconv.Itoa(e.Index)
}

// Unwrap returns [ErrInvalidMediaType].
func (e *MediaTypeError) Unwrap() error {
	return ErrInvalidMediaType
}
