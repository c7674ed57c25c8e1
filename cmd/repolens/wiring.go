// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/repolens/repolens/internal/analyzer"
	"github.com/repolens/repolens/internal/cache"
	"github.com/repolens/repolens/internal/chat"
	"github.com/repolens/repolens/internal/config"
	"github.com/repolens/repolens/internal/ghapi"
	"github.com/repolens/repolens/internal/llm"
	"github.com/repolens/repolens/internal/orchestrator"
)

// buildOrchestrator assembles the GitHub client, report cache, and
// orchestrator from configuration.
func buildOrchestrator(cfg config.Config) *orchestrator.Orchestrator {
	client := ghapi.NewClient(
		ghapi.WithToken(cfg.GitHubToken),
		ghapi.WithTimeout(cfg.FetchTimeout),
	)
	store := cache.New(cfg.CacheMaxEntries, cfg.CacheTTL, func(r *analyzer.Report) *analyzer.Report {
		return r.Clone()
	})
	return orchestrator.New(client, store, orchestrator.WithTimeout(cfg.AnalyzeTimeout))
}

// buildChatAdapter selects an LLM provider from configuration. With no
// provider configured the adapter is still returned; chat operations then
// report AIUnavailable instead of failing at startup.
func buildChatAdapter(ctx context.Context, cfg config.Config) (*chat.Adapter, error) {
	provider, err := selectProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		slog.Info("no AI provider configured, chat disabled")
	}
	return chat.NewAdapter(provider), nil
}

func selectProvider(ctx context.Context, cfg config.Config) (llm.Provider, error) {
	switch cfg.LLMProvider {
	case "anthropic":
		return llm.NewAnthropicProvider(llm.WithAPIKey(cfg.AnthropicAPIKey))
	case "gemini":
		return llm.NewGeminiProvider(ctx, llm.WithGeminiAPIKey(cfg.GeminiAPIKey))
	case "":
		// Pick whichever key is present, preferring Anthropic.
		if cfg.AnthropicAPIKey != "" {
			return llm.NewAnthropicProvider(llm.WithAPIKey(cfg.AnthropicAPIKey))
		}
		if cfg.GeminiAPIKey != "" {
			return llm.NewGeminiProvider(ctx, llm.WithGeminiAPIKey(cfg.GeminiAPIKey))
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown llm_provider %q (supported: anthropic, gemini)", cfg.LLMProvider)
	}
}
