package llm

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/apperrors"
)

// Default models per provider, used when no override is configured.
const (
	DefaultOpenAIModel    = "gpt-4o"
	DefaultAnthropicModel = "claude-sonnet-4-5-20250929"
	DefaultMaxTokens      = 8192
)

// Config holds configuration for creating a generator.
type Config struct {
	Provider    string  // "openai" or "anthropic"
	APIKey      string  // Required
	Model       string  // Optional; provider default when empty
	BaseURL     string  // Optional; provider default when empty
	MaxTokens   int     // Optional; DefaultMaxTokens when zero
	Temperature float64 // Sampling temperature
}

// NewGenerator creates the StructuredGenerator for cfg.Provider.
// A missing API key is reported as apperrors.ErrMissingAPIKey before any
// client is built, so no network call can happen without credentials.
func NewGenerator(cfg Config, logger *zap.Logger) (StructuredGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, apperrors.ErrMissingAPIKey
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderOpenAI
	}

	switch provider {
	case ProviderOpenAI:
		if cfg.Model == "" {
			cfg.Model = DefaultOpenAIModel
		}
		return NewOpenAIGenerator(&cfg, logger)
	case ProviderAnthropic:
		if cfg.Model == "" {
			cfg.Model = DefaultAnthropicModel
		}
		return NewAnthropicGenerator(&cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q (expected %q or %q)", cfg.Provider, ProviderOpenAI, ProviderAnthropic)
	}
}
