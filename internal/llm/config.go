package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Providers lists the provider names in discovery order.
var Providers = []string{"gemini", "openai", "anthropic", "openrouter"}

// ProviderSettings holds credentials and model selection for one provider.
type ProviderSettings struct {
	APIKey  string
	Model   string
	BaseURL string // optional API endpoint override
}

// Config holds all LLM provider configuration.
type Config struct {
	// Provider is one of Providers or "mock". Empty means not configured.
	Provider string

	Anthropic  ProviderSettings
	OpenAI     ProviderSettings
	Gemini     ProviderSettings
	OpenRouter ProviderSettings
	Retry      RetryConfig

	// Timeout bounds a single request including retries.
	Timeout time.Duration
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with default models and no provider.
func DefaultConfig() Config {
	return Config{
		Anthropic:  ProviderSettings{Model: "claude-haiku"},
		OpenAI:     ProviderSettings{Model: "gpt-4o-mini"},
		Gemini:     ProviderSettings{Model: "gemini-flash"},
		OpenRouter: ProviderSettings{Model: "google/gemini-2.0-flash-001"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// Settings returns the settings block for name, or nil.
func (c *Config) Settings(name string) *ProviderSettings {
	switch name {
	case "anthropic":
		return &c.Anthropic
	case "openai":
		return &c.OpenAI
	case "gemini":
		return &c.Gemini
	case "openrouter":
		return &c.OpenRouter
	}
	return nil
}

// Use selects provider and, when model is non-empty, its model.
func (c *Config) Use(provider, model string) {
	c.Provider = provider
	if s := c.Settings(provider); s != nil && model != "" {
		s.Model = model
	}
}

func envPrefix(name string) string {
	return "CLIMBPOINTS_" + strings.ToUpper(name) + "_"
}

// ConfigFromEnv reads CLIMBPOINTS_LLM_PROVIDER and the per-provider
// CLIMBPOINTS_<NAME>_API_KEY, _MODEL and _BASE_URL variables.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.Provider = os.Getenv("CLIMBPOINTS_LLM_PROVIDER")

	for _, name := range Providers {
		s := cfg.Settings(name)
		p := envPrefix(name)
		if v := os.Getenv(p + "API_KEY"); v != "" {
			s.APIKey = v
		}
		if v := os.Getenv(p + "MODEL"); v != "" {
			s.Model = v
		}
		if v := os.Getenv(p + "BASE_URL"); v != "" {
			s.BaseURL = v
		}
	}
	return cfg
}

// DiscoverConfig starts from ConfigFromEnv. Without an explicit provider it
// picks the first provider in Providers that has a key, also accepting the
// vendors' standard variables such as GEMINI_API_KEY. It reports false when
// nothing usable was found.
func DiscoverConfig() (Config, bool) {
	cfg := ConfigFromEnv()
	if cfg.Provider != "" {
		return cfg, true
	}

	for _, name := range Providers {
		s := cfg.Settings(name)
		if s.APIKey == "" {
			s.APIKey = os.Getenv(strings.ToUpper(name) + "_API_KEY")
		}
		if s.APIKey != "" {
			cfg.Provider = name
			return cfg, true
		}
	}
	return cfg, false
}

// Validate checks that the selected provider has its API key.
func (c Config) Validate() error {
	switch c.Provider {
	case "mock":
		return nil
	case "":
		return fmt.Errorf("no LLM provider configured: set CLIMBPOINTS_LLM_PROVIDER or a provider API key")
	}
	s := c.Settings(c.Provider)
	if s == nil {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if s.APIKey == "" {
		return fmt.Errorf("%sAPI_KEY is required for the %s provider", envPrefix(c.Provider), c.Provider)
	}
	return nil
}
