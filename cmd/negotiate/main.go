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


// Command negotiate runs HTTP content negotiation from the command line and
// serves a small demo API that negotiates its responses.
//
// Usage:
//
//	# Pick a media type
//	negotiate media -H 'text/html, application/json;q=0.9' -p application/json -p text/html
//
//	# Pick a language, charset or encoding
//	negotiate language -H 'en-US, fr;q=0.5' -p fr -p en-GB
//
//	# List header elements by quality
//	negotiate order -H 'text/*;q=0.3, text/html;q=0.7'
//
//	# Run the demo server
//	negotiate serve --addr :8080 --config negotiate.yaml
//
// When nothing is acceptable the command prints "no acceptable <kind>" to
// stderr and exits with status 1.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errNoMatch) {
			_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
