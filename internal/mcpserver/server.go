// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

// Package mcpserver exposes repository analysis over the Model Context
// Protocol so agents can call it as a tool.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/repolens/repolens/internal/chat"
	"github.com/repolens/repolens/internal/orchestrator"
)

// New creates an MCP server with repolens tools registered.
func New(version string, orch *orchestrator.Orchestrator, chatAdapter *chat.Adapter) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "repolens",
		Title:   "Repolens — GitHub Repository Analysis",
		Version: version,
	}, nil)

	registerTools(server, orch, chatAdapter)
	return server
}

// Run creates an MCP server and runs it on the given transport.
// It blocks until the client disconnects or the context is cancelled.
func Run(ctx context.Context, version string, orch *orchestrator.Orchestrator, chatAdapter *chat.Adapter, transport mcp.Transport) error {
	server := New(version, orch, chatAdapter)
	return server.Run(ctx, transport)
}
