package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	repolenslog "github.com/repolens/repolens/internal/log"
)

// Global flag values.
var (
	verbose bool
	quiet   bool
	noColor bool
)

// rootCmd is the base command for repolens.
var rootCmd = &cobra.Command{
	Use:   "repolens",
	Short: "Analyze GitHub repositories",
	Long: `Repolens analyzes public GitHub repositories and produces a structured
report covering metadata, architecture, code quality, documentation,
development activity, and technical debt. It can run as a one-shot CLI,
an HTTP service, or an MCP server for AI agents.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		repolenslog.Setup(verbose, quiet)
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
