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


package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"rivaas.dev/negotiation"
)

// fileConfig is the YAML configuration accepted by --config.
//
//	strict: true
//	priorities:
//	  media: [application/json, text/plain]
//	  language: [en, fr]
//	serve:
//	  addr: ":8080"
//	  metrics:
//	    provider: prometheus
type fileConfig struct {
	Strict              bool          `yaml:"strict"`
	SourceQuality       bool          `yaml:"source_quality"`
	RejectZeroQuality   bool          `yaml:"reject_zero_quality"`
	CaseSensitiveParams bool          `yaml:"case_sensitive_params"`
	Priorities          priorityLists `yaml:"priorities"`
	Log                 logConfig     `yaml:"log"`
	Serve               serveConfig   `yaml:"serve"`
}

type priorityLists struct {
	Media    []string `yaml:"media"`
	Language []string `yaml:"language"`
	Charset  []string `yaml:"charset"`
	Encoding []string `yaml:"encoding"`
}

type logConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type serveConfig struct {
	Addr            string        `yaml:"addr"`
	Fallback        string        `yaml:"fallback"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	Metrics         metricsConfig `yaml:"metrics"`
	Tracing         tracingConfig `yaml:"tracing"`

	// WatchConfig reloads priorities and engine switches when the config
	// file changes. Listener and observability settings need a restart.
	WatchConfig bool `yaml:"watch_config"`
}

type metricsConfig struct {
	// Provider is prometheus, otlp, stdout or none.
	Provider     string `yaml:"provider"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	ServiceName  string `yaml:"service_name"`
}

type tracingConfig struct {
	// Provider is none, stdout, otlp or otlp-http.
	Provider   string  `yaml:"provider"`
	Endpoint   string  `yaml:"endpoint"`
	Insecure   bool    `yaml:"insecure"`
	SampleRate float64 `yaml:"sample_rate"`
}

// metricsDisabled and tracingDisabled turn the respective provider off.
const (
	metricsDisabled = "none"
	tracingDisabled = "none"
)

func defaultFileConfig() *fileConfig {
	return &fileConfig{
		Priorities: priorityLists{
			Media:    []string{"application/json", "application/xml", "text/plain; charset=utf-8"},
			Language: []string{"en", "fr", "de"},
			Charset:  []string{"utf-8", "iso-8859-1"},
			Encoding: []string{"identity", "gzip"},
		},
		Log: logConfig{
			Level:  "info",
			Format: "console",
		},
		Serve: serveConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
			Metrics: metricsConfig{
				Provider:    "prometheus",
				ServiceName: "negotiate",
			},
			Tracing: tracingConfig{
				Provider:   tracingDisabled,
				SampleRate: 1,
			},
		},
	}
}

// loadConfig reads path over the defaults. An empty path yields the defaults.
func loadConfig(path string) (*fileConfig, error) {
	cfg := defaultFileConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *fileConfig) validate() error {
	lists := map[string][]string{
		"media":    c.Priorities.Media,
		"language": c.Priorities.Language,
		"charset":  c.Priorities.Charset,
		"encoding": c.Priorities.Encoding,
	}
	for name, list := range lists {
		if len(list) == 0 {
			return fmt.Errorf("priorities.%s: %w", name, negotiation.ErrMissingPriorities)
		}
	}

	switch c.Serve.Metrics.Provider {
	case "prometheus", "otlp", "stdout", metricsDisabled:
	default:
		return fmt.Errorf("serve.metrics.provider: unsupported provider %q", c.Serve.Metrics.Provider)
	}

	switch c.Serve.Tracing.Provider {
	case "stdout", "otlp", "otlp-http", tracingDisabled:
	default:
		return fmt.Errorf("serve.tracing.provider: unsupported provider %q", c.Serve.Tracing.Provider)
	}

	if c.Serve.ShutdownTimeout <= 0 {
		return errors.New("serve.shutdown_timeout must be positive")
	}
	return nil
}

// negotiationOptions translates the engine switches.
func (c *fileConfig) negotiationOptions() []negotiation.Option {
	var opts []negotiation.Option
	if c.Strict {
		opts = append(opts, negotiation.WithStrict())
	}
	if c.SourceQuality {
		opts = append(opts, negotiation.WithSourceQuality())
	}
	if c.RejectZeroQuality {
		opts = append(opts, negotiation.WithRejectZeroQuality())
	}
	if c.CaseSensitiveParams {
		opts = append(opts, negotiation.WithCaseSensitiveParamValues())
	}
	return opts
}
