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
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rivaas.dev/negotiation"
)

// result is the JSON form of a negotiation outcome.
type result struct {
	Kind   string            `json:"kind"`
	Value  string            `json:"value"`
	Params map[string]string `json:"params,omitempty"`
}

// kind describes one negotiable header.
type kind struct {
	name   string
	header string
	noun   string
	lists  func(*priorityLists) []string
	best   func(n *negotiation.Negotiator, header string, priorities []string) (result, string, bool, error)
}

var kinds = []kind{
	{
		name:   "media",
		header: "Accept",
		noun:   "media type",
		lists:  func(p *priorityLists) []string { return p.Media },
		best: func(n *negotiation.Negotiator, header string, priorities []string) (result, string, bool, error) {
			mt, ok, err := n.Best(header, priorities)
			return result{Kind: "media", Value: mt.Value(), Params: mt.Params}, mt.String(), ok, err
		},
	},
	{
		name:   "language",
		header: "Accept-Language",
		noun:   "language",
		lists:  func(p *priorityLists) []string { return p.Language },
		best:   tokenBest("language", (*negotiation.Negotiator).BestLanguage),
	},
	{
		name:   "charset",
		header: "Accept-Charset",
		noun:   "charset",
		lists:  func(p *priorityLists) []string { return p.Charset },
		best:   tokenBest("charset", (*negotiation.Negotiator).BestCharset),
	},
	{
		name:   "encoding",
		header: "Accept-Encoding",
		noun:   "encoding",
		lists:  func(p *priorityLists) []string { return p.Encoding },
		best:   tokenBest("encoding", (*negotiation.Negotiator).BestEncoding),
	},
}

func tokenBest(
	name string,
	fn func(*negotiation.Negotiator, string, []string) (negotiation.Token, bool, error),
) func(*negotiation.Negotiator, string, []string) (result, string, bool, error) {
	return func(n *negotiation.Negotiator, header string, priorities []string) (result, string, bool, error) {
		tok, ok, err := fn(n, header, priorities)
		return result{Kind: name, Value: tok.Value, Params: tok.Params}, tok.String(), ok, err
	}
}

func newKindCmd(c *cli, k kind) *cobra.Command {
	var (
		header     string
		priorities []string
	)

	cmd := &cobra.Command{
		Use:   k.name,
		Short: fmt.Sprintf("Select the best %s for an %s header", k.noun, k.header),
		Example: fmt.Sprintf("  negotiate %s -H '<%s value>' -p <priority> -p <priority>",
			k.name, k.header),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(priorities) == 0 {
				priorities = k.lists(&c.cfg.Priorities)
			}

			c.logger.Debug("negotiating", "kind", k.name, "header", header, "priorities", priorities)

			res, text, ok, err := k.best(c.negotiator(), header, priorities)
			if err != nil {
				return fmt.Errorf("%s negotiation failed: %w", k.name, err)
			}
			if !ok {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "no acceptable %s\n", k.noun)
				return errNoMatch
			}
			return c.print(cmd.OutOrStdout(), res, text)
		},
	}

	cmd.Flags().StringVarP(&header, "header", "H", "", k.header+" header value")
	cmd.Flags().StringArrayVarP(&priorities, "priority", "p", nil,
		"server priority, most preferred first (repeatable; defaults to the config file)")
	_ = cmd.MarkFlagRequired("header")

	return cmd
}

// ordered is the JSON form of one header element.
type ordered struct {
	Value   string            `json:"value"`
	Quality float64           `json:"quality"`
	Params  map[string]string `json:"params,omitempty"`
	Index   int               `json:"index"`
}

func newOrderCmd(c *cli) *cobra.Command {
	var header string

	cmd := &cobra.Command{
		Use:   "order",
		Short: "List the elements of an Accept-style header by quality",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			candidates, err := negotiation.OrderByQuality(header)
			if err != nil {
				return err
			}

			out := make([]ordered, 0, len(candidates))
			lines := make([]string, 0, len(candidates))
			for _, cand := range candidates {
				out = append(out, ordered{Value: cand.Value, Quality: cand.Quality, Params: cand.Params, Index: cand.Index})
				lines = append(lines, cand.String())
			}
			return c.print(cmd.OutOrStdout(), out, strings.Join(lines, "\n"))
		},
	}

	cmd.Flags().StringVarP(&header, "header", "H", "", "header value")
	_ = cmd.MarkFlagRequired("header")

	return cmd
}
