// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/repolens/repolens/internal/config"
	"github.com/repolens/repolens/internal/mcpserver"
)

// mcpCmd is the parent command for MCP-related subcommands.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server commands",
	Long:  "Commands for running repolens as an MCP server, exposing repository analysis tools to AI agents.",
}

// mcpServeCmd runs the MCP server over stdio.
var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Start an MCP server on stdin/stdout, exposing repolens tools:
  - analyze_repository: Analyze a GitHub repository and return the report
  - ask_repository:     Answer a question grounded in a repository's analysis

The server communicates using the Model Context Protocol (MCP) over stdio
transport, enabling AI agents to call repolens directly.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(".")
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		chatAdapter, err := buildChatAdapter(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		return mcpserver.Run(cmd.Context(), Version, buildOrchestrator(cfg), chatAdapter, &mcp.StdioTransport{})
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
