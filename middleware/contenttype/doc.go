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


// Package contenttype provides HTTP middleware that negotiates the response
// media type from the request's Accept header.
//
// The selected type is stored in the request context and can be read with
// [FromContext]:
//
//	mw := contenttype.New([]string{"application/json", "application/xml", "text/plain"})
//
//	http.Handle("/reports", mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	    mt, _ := contenttype.FromContext(r.Context())
//	    w.Header().Set("Content-Type", mt.String())
//	    // render in mt.Value()
//	})))
//
// Requests the server cannot satisfy are answered with 406 Not Acceptable
// as an RFC 9457 problem document, unless a fallback type is configured.
// Every response carries "Vary: Accept".
package contenttype
