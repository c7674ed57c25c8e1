// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/repolens/repolens/internal/config"
	"github.com/repolens/repolens/internal/server"
)

var serveAddr string

// serveCmd runs the HTTP analysis service.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis service",
	Long: `Start the repolens HTTP server. Endpoints cover repository analysis,
report-grounded chat, suggested questions, export, and cache management.
The server shuts down gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(".")
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		chatAdapter, err := buildChatAdapter(ctx, cfg)
		if err != nil {
			return err
		}

		srv := server.New(cfg, buildOrchestrator(cfg), chatAdapter)
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}
