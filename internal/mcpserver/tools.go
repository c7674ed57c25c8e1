// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/repolens/repolens/internal/chat"
	"github.com/repolens/repolens/internal/export"
	"github.com/repolens/repolens/internal/orchestrator"
)

// AnalyzeInput is the input schema for the analyze_repository tool.
type AnalyzeInput struct {
	RepoURL string `json:"repo_url" jsonschema:"GitHub repository URL or owner/repo shorthand"`
	Format  string `json:"format,omitempty" jsonschema:"Output format: json, csv, document (default: json)"`
}

// AskInput is the input schema for the ask_repository tool.
type AskInput struct {
	RepoURL  string `json:"repo_url" jsonschema:"GitHub repository URL or owner/repo shorthand"`
	Question string `json:"question" jsonschema:"Question to answer from the analysis"`
}

// boolPtr returns a pointer to a bool.
func boolPtr(b bool) *bool { return &b }

// registerTools adds all repolens tools to the MCP server.
func registerTools(server *mcp.Server, orch *orchestrator.Orchestrator, chatAdapter *chat.Adapter) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "analyze_repository",
		Description: "Analyze a public GitHub repository: metadata, architecture, " +
			"code quality, documentation, development activity, and technical debt. " +
			"Results are cached for repeated calls.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(true),
		},
	}, makeAnalyzeHandler(orch))

	mcp.AddTool(server, &mcp.Tool{
		Name: "ask_repository",
		Description: "Ask a natural-language question about a GitHub repository. " +
			"The repository is analyzed first (or served from cache), then the " +
			"question is answered against the analysis.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(true),
		},
	}, makeAskHandler(orch, chatAdapter))
}

func makeAnalyzeHandler(orch *orchestrator.Orchestrator) func(context.Context, *mcp.CallToolRequest, AnalyzeInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(input.RepoURL) == "" {
			return nil, nil, fmt.Errorf("repo_url is required")
		}

		format := input.Format
		if format == "" {
			format = "json"
		}
		formatter, err := export.Get(format)
		if err != nil {
			return nil, nil, err
		}

		report, err := orch.GetAnalysis(ctx, input.RepoURL)
		if err != nil {
			return nil, nil, fmt.Errorf("analysis failed: %w", err)
		}

		var buf bytes.Buffer
		if err := formatter.Format(report, &buf); err != nil {
			return nil, nil, fmt.Errorf("formatting failed: %w", err)
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: buf.String()},
			},
		}, nil, nil
	}
}

func makeAskHandler(orch *orchestrator.Orchestrator, chatAdapter *chat.Adapter) func(context.Context, *mcp.CallToolRequest, AskInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(input.RepoURL) == "" {
			return nil, nil, fmt.Errorf("repo_url is required")
		}

		report, err := orch.GetAnalysis(ctx, input.RepoURL)
		if err != nil {
			return nil, nil, fmt.Errorf("analysis failed: %w", err)
		}

		answer, err := chatAdapter.Ask(ctx, report, input.Question)
		if err != nil {
			return nil, nil, err
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: answer},
			},
		}, nil, nil
	}
}
