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


// Package requestid provides middleware that assigns every request an ID
// for log correlation.
//
// The ID is taken from the X-Request-ID header when the client sent a
// usable one, generated otherwise, echoed in the response header and
// stored in the request context.
//
// # Basic Usage
//
//	handler := requestid.New()(mux)
//
// # Request ID Generation
//
// By default, UUID v7 is used. UUID v7 is time-ordered and
// lexicographically sortable (RFC 9562). [WithULID] switches to the
// 26-character ULID form.
//
// Reading the ID in a handler:
//
//	id := requestid.Get(r.Context())
package requestid
