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


// Package logging builds the [slog.Logger] used by the negotiate command
// and handed to the middleware and metrics packages.
//
// Four handler types are available:
//
//   - json: [slog.JSONHandler], for log aggregation
//   - text: [slog.TextHandler], key=value lines
//   - console: compact colored output for terminals
//   - dev: multi-line pretty output with sorted keys, for local debugging
//
// Every handler is wrapped by a formatter chain that renders error values
// as structured groups and redacts credentials carried in request headers.
//
// # Basic Usage
//
//	logger, err := logging.New(
//	    logging.WithConsoleHandler(),
//	    logging.WithLevel(logging.LevelDebug),
//	)
//	if err != nil {
//	    return err
//	}
//	logger.Info("negotiated", "type", "application/json")
//
// Libraries that were not given a logger should use [Noop].
package logging
