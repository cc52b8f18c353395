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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"rivaas.dev/negotiation"
	"rivaas.dev/negotiation/logging"
)

// errNoMatch is returned after "no acceptable <kind>" has been reported.
var errNoMatch = errors.New("no acceptable value")

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

// cli holds the global flags and what PersistentPreRunE derives from them.
type cli struct {
	configFile    string
	strict        bool
	sourceQuality bool
	logLevel      string
	logFormat     string
	output        string

	cfg    *fileConfig
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "negotiate",
		Short: "HTTP content negotiation from the command line",
		Long: `negotiate selects the best media type, language, charset or encoding
for an Accept-style header from a list of server priorities, and can run a
demo HTTP server that negotiates its own responses.

Examples:
  negotiate media -H 'text/html;q=0.9, application/json' -p text/html -p application/json
  negotiate language -H 'en-US, fr;q=0.5' -p fr -p en
  negotiate order -H 'text/*;q=0.3, text/html;q=0.7'
  negotiate serve --config negotiate.yaml`,
		Version:           Version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configFile, "config", "c", "", "YAML config file")
	flags.BoolVar(&c.strict, "strict", false, "reject malformed header elements")
	flags.BoolVar(&c.sourceQuality, "source-quality", false, "weigh matches by the priorities' own q values")
	flags.StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&c.logFormat, "log-format", "", "log format (console, dev, json, pretty, text)")
	flags.StringVarP(&c.output, "output", "o", "text", "output format (text, json)")

	for _, k := range kinds {
		root.AddCommand(newKindCmd(c, k))
	}
	root.AddCommand(newOrderCmd(c), newServeCmd(c))

	return root
}

// setup loads the config file and applies flag overrides.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(c.configFile)
	if err != nil {
		return err
	}

	c.applyOverrides(cfg)
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if c.logFormat != "" {
		cfg.Log.Format = c.logFormat
	}

	switch c.output {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported output format %q", c.output)
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	format, err := logging.ParseHandlerType(cfg.Log.Format)
	if err != nil {
		return err
	}

	c.logger, err = logging.New(
		logging.WithHandlerType(format),
		logging.WithLevel(level),
		logging.WithOutput(cmd.ErrOrStderr()),
	)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// applyOverrides applies the engine flags, which win over the config file.
func (c *cli) applyOverrides(cfg *fileConfig) {
	if c.strict {
		cfg.Strict = true
	}
	if c.sourceQuality {
		cfg.SourceQuality = true
	}
}

func (c *cli) negotiator() *negotiation.Negotiator {
	return negotiation.New(c.cfg.negotiationOptions()...)
}

// print writes v as JSON, or text as-is, depending on --output.
func (c *cli) print(w io.Writer, v any, text string) error {
	if c.output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(w, text)
	return err
}
