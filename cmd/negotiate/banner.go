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
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/common-nighthawk/go-figure"
)

// bannerInfo is what the serve banner shows.
type bannerInfo struct {
	Name       string
	Version    string
	Addr       string
	Metrics    string // provider, or metricsDisabled
	Tracing    string // provider, or tracingDisabled
	Priorities priorityLists
	Plain      bool // strip colors
}

// printBanner writes the startup banner. Colors are downsampled to what w
// supports, and removed entirely when Plain is set.
func printBanner(w io.Writer, info bannerInfo) {
	cpw := colorprofile.NewWriter(w, os.Environ())
	if info.Plain {
		cpw.Profile = colorprofile.NoTTY
	}

	gradient := []string{"12", "14", "10", "11"}
	var art strings.Builder
	for _, line := range figure.NewFigure(info.Name, "", false).Slicify() {
		if strings.TrimSpace(line) == "" {
			art.WriteString("\n")
			continue
		}
		for i, char := range line {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradient[i%len(gradient)])).Bold(true)
			art.WriteString(style.Render(string(char)))
		}
		art.WriteString("\n")
	}

	categoryStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Width(14).
		PaddingLeft(2).
		Align(lipgloss.Left)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	disabledStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	addr := info.Addr
	if strings.HasPrefix(addr, ":") {
		addr = "0.0.0.0" + addr
	}
	addr = "http://" + addr

	var out strings.Builder
	line := func(label, value string) {
		out.WriteString(labelStyle.Render(label) + "  " + value + "\n")
	}

	out.WriteString(categoryStyle.Render("Service") + "\n")
	line("Version:", valueStyle.Foreground(lipgloss.Color("14")).Render(info.Version))
	line("Address:", valueStyle.Foreground(lipgloss.Color("10")).Render(addr))

	out.WriteString("\n" + categoryStyle.Render("Observability") + "\n")
	if info.Metrics == metricsDisabled {
		line("Metrics:", disabledStyle.Render("Disabled"))
	} else {
		line("Metrics:", valueStyle.Foreground(lipgloss.Color("13")).Render(addr+"/metrics")+
			"  "+disabledStyle.Render(fmt.Sprintf("[%s]", info.Metrics)))
	}
	if info.Tracing == tracingDisabled {
		line("Tracing:", disabledStyle.Render("Disabled"))
	} else {
		line("Tracing:", valueStyle.Foreground(lipgloss.Color("12")).Render("Enabled")+
			"  "+disabledStyle.Render(fmt.Sprintf("[%s]", info.Tracing)))
	}

	_, _ = fmt.Fprintln(cpw)
	_, _ = fmt.Fprint(cpw, art.String())
	_, _ = fmt.Fprintln(cpw)
	_, _ = fmt.Fprint(cpw, out.String())
	_, _ = fmt.Fprintln(cpw)
	_, _ = fmt.Fprintln(cpw, prioritiesTable(info.Priorities))
	_, _ = fmt.Fprintln(cpw)
}

// prioritiesTable lists the server's offers per negotiation kind.
func prioritiesTable(p priorityLists) string {
	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := [][]string{
		{"media", strings.Join(p.Media, ", ")},
		{"language", strings.Join(p.Language, ", ")},
		{"charset", strings.Join(p.Charset, ", ")},
		{"encoding", strings.Join(p.Encoding, ", ")},
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("Kind", "Priorities").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}
