// Package config handles .repolens.yaml configuration files and
// environment overrides.
package config

import "time"

// Config holds all service settings. Precedence: flags > environment >
// .repolens.yaml > defaults.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string `yaml:"addr,omitempty"`

	// GitHubToken authenticates GitHub API requests. Optional: anonymous
	// access works with a lower quota.
	GitHubToken string `yaml:"-"`

	// AnthropicAPIKey enables the Anthropic chat provider.
	AnthropicAPIKey string `yaml:"-"`

	// GeminiAPIKey enables the Gemini chat provider.
	GeminiAPIKey string `yaml:"-"`

	// LLMProvider selects the chat backend: "anthropic" or "gemini".
	// Empty means pick whichever key is configured, preferring Anthropic.
	LLMProvider string `yaml:"llm_provider,omitempty"`

	// CacheTTL is how long a computed analysis stays valid.
	CacheTTL time.Duration `yaml:"cache_ttl,omitempty"`

	// CacheMaxEntries caps the number of cached analyses.
	CacheMaxEntries int `yaml:"cache_max_entries,omitempty"`

	// FetchTimeout bounds each outbound GitHub API call.
	FetchTimeout time.Duration `yaml:"fetch_timeout,omitempty"`

	// AnalyzeTimeout bounds a whole orchestration call end to end.
	AnalyzeTimeout time.Duration `yaml:"analyze_timeout,omitempty"`

	// AnalyzePerHour is the per-client request budget for /api/analyze.
	AnalyzePerHour int `yaml:"analyze_per_hour,omitempty"`

	// RequestsPerHour is the per-client budget for all other endpoints.
	RequestsPerHour int `yaml:"requests_per_hour,omitempty"`
}

// FileName is the expected config file name in the working directory.
const FileName = ".repolens.yaml"

// Default values, matching the original service limits.
const (
	DefaultAddr            = "localhost:3023"
	DefaultCacheTTL        = 30 * time.Minute
	DefaultCacheMaxEntries = 100
	DefaultFetchTimeout    = 10 * time.Second
	DefaultAnalyzeTimeout  = 60 * time.Second
	DefaultAnalyzePerHour  = 10
	DefaultRequestsPerHour = 100
)

// Default returns a Config populated with default values.
func Default() Config {
	return Config{
		Addr:            DefaultAddr,
		CacheTTL:        DefaultCacheTTL,
		CacheMaxEntries: DefaultCacheMaxEntries,
		FetchTimeout:    DefaultFetchTimeout,
		AnalyzeTimeout:  DefaultAnalyzeTimeout,
		AnalyzePerHour:  DefaultAnalyzePerHour,
		RequestsPerHour: DefaultRequestsPerHour,
	}
}
