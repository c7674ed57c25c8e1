// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// defaultGeminiModel is the model used when no override is provided.
const defaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider implements Provider using Google's GenAI SDK.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// Compile-time check that GeminiProvider satisfies the Provider interface.
var _ Provider = (*GeminiProvider)(nil)

// GeminiOption configures a GeminiProvider.
type GeminiOption func(*geminiConfig)

type geminiConfig struct {
	apiKey string
	model  string
}

// WithGeminiAPIKey sets the API key. If not provided, the provider reads
// GEMINI_API_KEY from the environment.
func WithGeminiAPIKey(key string) GeminiOption {
	return func(c *geminiConfig) {
		c.apiKey = key
	}
}

// WithGeminiModel overrides the default model for all requests.
func WithGeminiModel(model string) GeminiOption {
	return func(c *geminiConfig) {
		c.model = model
	}
}

// NewGeminiProvider creates a new Gemini provider.
// It returns an error if no API key is available (neither via option nor env).
func NewGeminiProvider(ctx context.Context, opts ...GeminiOption) (*GeminiProvider, error) {
	cfg := geminiConfig{
		model: defaultGeminiModel,
	}
	for _, o := range opts {
		o(&cfg)
	}

	apiKey := cfg.apiKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("llm: GEMINI_API_KEY not set and no API key provided")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: creating Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		model:  cfg.model,
	}, nil
}

// Complete sends a completion request to the Gemini GenerateContent API.
func (p *GeminiProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	model := p.model
	if req.Model != "" {
		model = req.Model
	}

	config := &genai.GenerateContentConfig{}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Temperature != nil {
		temp := float32(*req.Temperature)
		config.Temperature = &temp
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}

	result, err := p.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini: completion failed: %w", err)
	}

	resp := &Response{
		Content: result.Text(),
		Model:   model,
	}
	if result.UsageMetadata != nil {
		resp.Usage = Usage{
			InputTokens:  int(result.UsageMetadata.PromptTokenCount),
			OutputTokens: int(result.UsageMetadata.CandidatesTokenCount),
		}
	}
	return resp, nil
}

// Model returns the default model configured for this provider.
func (p *GeminiProvider) Model() string {
	return p.model
}
