// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load assembles the effective configuration for the given working
// directory: defaults, then .repolens.yaml, then environment variables.
// A .env file in dir is loaded into the environment first if present;
// existing environment values win over .env entries.
func Load(dir string) (Config, error) {
	// Best effort: a missing .env is the normal case.
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	cfg := Default()
	if err := loadFile(filepath.Join(dir, FileName), &cfg); err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadFile merges settings from a .repolens.yaml file into cfg.
// A missing file leaves cfg untouched.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", FileName, err)
	}
	return nil
}

// applyEnv overrides cfg with environment variables where set.
func applyEnv(cfg *Config) error {
	cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	if v := os.Getenv("REPOLENS_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("REPOLENS_LLM_PROVIDER"); v != "" {
		cfg.LLMProvider = v
	}
	if v := os.Getenv("REPOLENS_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing REPOLENS_CACHE_TTL: %w", err)
		}
		cfg.CacheTTL = d
	}
	if v := os.Getenv("REPOLENS_ANALYZE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing REPOLENS_ANALYZE_TIMEOUT: %w", err)
		}
		cfg.AnalyzeTimeout = d
	}
	return nil
}

// Write marshals the config to YAML and writes it to path.
func Write(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644) //nolint:gosec // config is not secret
}
