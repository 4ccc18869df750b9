// Package textgen provides factory functions for creating text-generation
// adapters by provider name.
package textgen

import (
	"fmt"
	"time"

	"github.com/custodia-labs/scandoc-cli/internal/adapters/driven/textgen/anthropic"
	"github.com/custodia-labs/scandoc-cli/internal/adapters/driven/textgen/ollama"
	"github.com/custodia-labs/scandoc-cli/internal/adapters/driven/textgen/openai"
	"github.com/custodia-labs/scandoc-cli/internal/core/ports/driven"
)

// Supported provider names.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Config selects and configures a text-generation provider.
type Config struct {
	// Provider is the provider name (default: openai).
	Provider string

	// APIKey authenticates against hosted providers. Ollama ignores it.
	APIKey string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	// Model overrides the provider's default model.
	Model string

	// Timeout is the per-request timeout.
	Timeout time.Duration
}

// New creates a text generator for the configured provider.
func New(cfg Config) (driven.TextGenerator, error) {
	switch cfg.Provider {
	case "", ProviderOpenAI:
		return openai.NewClient(openai.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})

	case ProviderAnthropic:
		return anthropic.NewClient(anthropic.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})

	case ProviderOllama:
		return ollama.NewClient(ollama.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}), nil

	default:
		return nil, fmt.Errorf("unknown text-generation provider %q", cfg.Provider)
	}
}

// NeedsAPIKey reports whether the provider requires an API key.
func NeedsAPIKey(provider string) bool {
	return provider != ProviderOllama
}
