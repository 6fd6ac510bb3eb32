package factory

import (
	"fmt"
	"time"

	"legal-copilot-be/pkg/llm"
	"legal-copilot-be/pkg/llm/ollama"
	"legal-copilot-be/pkg/llm/perplexity"
)

// ProviderConfig carries everything a backend might need.
// Unused fields are ignored by backends that don't need them.
type ProviderConfig struct {
	ModelName      string
	BaseURL        string // ollama
	APIKey         string // perplexity
	RequestTimeout time.Duration
	ProbeTimeout   time.Duration
}

func NewProvider(providerType string, cfg ProviderConfig) (llm.Provider, error) {
	switch providerType {
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.ModelName, cfg.RequestTimeout, cfg.ProbeTimeout), nil
	case "perplexity":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("perplexity provider requires an API key")
		}
		return perplexity.NewPerplexityProvider(cfg.APIKey, cfg.ModelName, cfg.RequestTimeout, cfg.ProbeTimeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
