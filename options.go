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

// Option configures a [Negotiator].
type Option func(*config)

// config holds the negotiator settings. It is never modified after New returns.
type config struct {
	strict                   bool
	sourceQuality            bool
	caseSensitiveParamValues bool
	rejectZeroQuality        bool
}

// WithStrict validates header elements strictly: a malformed element fails
// the negotiation with a [*MediaTypeError] instead of being ignored.
// Server priorities are always validated strictly.
//
// Example:
//
//	n := negotiation.New(negotiation.WithStrict())
func WithStrict() Option {
	return func(cfg *config) {
		cfg.strict = true
	}
}

// WithSourceQuality multiplies the client quality of each match by the q
// parameter of the server priority it matched ("quality of source").
// By default server q parameters are ignored for ranking.
//
// Example:
//
//	n := negotiation.New(negotiation.WithSourceQuality())
//	n.Best("text/html,text/*;q=0.7", []string{"text/html;q=0.5", "text/plain;q=0.9"})
//	// text/plain (0.7*0.9 beats 1.0*0.5)
func WithSourceQuality() Option {
	return func(cfg *config) {
		cfg.sourceQuality = true
	}
}

// WithCaseSensitiveParamValues compares media type parameter values
// exactly. By default values compare case-insensitively, so
// "charset=utf-8" is satisfied by "charset=UTF-8". Parameter names are
// always case-insensitive.
func WithCaseSensitiveParamValues() Option {
	return func(cfg *config) {
		cfg.caseSensitiveParamValues = true
	}
}

// WithRejectZeroQuality treats q=0 as "not acceptable": a priority whose
// most specific matching header element has q=0 is never selected, even
// when a broader range such as "*/*" would accept it. By default a q=0
// match still counts and simply ranks last.
func WithRejectZeroQuality() Option {
	return func(cfg *config) {
		cfg.rejectZeroQuality = true
	}
}
