// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/repolens/repolens/internal/config"
	"github.com/repolens/repolens/internal/export"
)

var (
	analyzeFormat string
	analyzeOutput string
)

// analyzeCmd runs a one-shot analysis and renders it to the terminal or
// to a file.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <repo-url>",
	Short: "Analyze a GitHub repository",
	Long: `Analyze a public GitHub repository and print the report.

The repository may be given as a full URL or owner/repo shorthand:

  repolens analyze https://github.com/golang/go
  repolens analyze golang/go --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(".")
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		orch := buildOrchestrator(cfg)
		report, err := orch.GetAnalysis(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		var w io.Writer = os.Stdout
		if analyzeOutput != "" {
			f, err := os.Create(analyzeOutput) //nolint:gosec // user-provided output path
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close() //nolint:errcheck // best-effort close, write errors surface from Format
			w = f
		}

		if analyzeFormat == "text" {
			return renderReport(w, report)
		}

		formatter, err := export.Get(analyzeFormat)
		if err != nil {
			return err
		}
		return formatter.Format(report, w)
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "text", "output format: text, json, csv, document")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write output to file instead of stdout")
}
