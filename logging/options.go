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


package logging

import "io"

// WithHandlerType sets the logging handler type.
func WithHandlerType(t HandlerType) Option {
	return func(c *config) { c.handlerType = t }
}

// WithJSONHandler uses JSON structured logging (default).
func WithJSONHandler() Option {
	return WithHandlerType(JSONHandler)
}

// WithTextHandler uses text key=value logging.
func WithTextHandler() Option {
	return WithHandlerType(TextHandler)
}

// WithConsoleHandler uses human-readable console logging.
func WithConsoleHandler() Option {
	return WithHandlerType(ConsoleHandler)
}

// WithDevHandler uses multi-line pretty logging.
func WithDevHandler() Option {
	return WithHandlerType(DevHandler)
}

// WithPrettyHandler uses styled single-line logging.
func WithPrettyHandler() Option {
	return WithHandlerType(PrettyHandler)
}

// WithOutput sets the output writer.
func WithOutput(w io.Writer) Option {
	return func(c *config) { c.output = w }
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) Option {
	return func(c *config) { c.level = level }
}

// WithSource adds the caller's file and line to every entry.
func WithSource(enabled bool) Option {
	return func(c *config) { c.addSource = enabled }
}

// WithTimeFormat sets the timestamp layout for the console and dev handlers.
func WithTimeFormat(layout string) Option {
	return func(c *config) { c.timeFormat = layout }
}

// WithServiceName adds a "service" attribute to every entry.
func WithServiceName(name string) Option {
	return func(c *config) { c.serviceName = name }
}
