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


// Package compression provides middleware that compresses responses with
// Brotli or gzip, chosen by negotiating the request's Accept-Encoding header.
//
// # Basic Usage
//
//	handler := compression.New()(mux)
//
// Encodings are offered in the order br, gzip, identity, so Brotli wins
// when the client rates both equally. An encoding with q=0 is never used,
// and "identity;q=0" alone does not force compression: the response is sent
// uncompressed when nothing else is acceptable.
//
// Responses with status 204, 206 or 304, event streams, gRPC and
// octet-stream bodies are never compressed. Every response carries
// "Vary: Accept-Encoding".
package compression
