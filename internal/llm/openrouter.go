package llm

import "fmt"

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// NewOpenRouterProvider targets OpenRouter's OpenAI-compatible API. Model
// names are passed through as-is, e.g. "anthropic/claude-3-haiku".
func NewOpenRouterProvider(s ProviderSettings) (*OpenAIProvider, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	if s.BaseURL == "" {
		s.BaseURL = defaultOpenRouterBaseURL
	}
	return NewOpenAIProvider(s)
}
