package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandevgo/guata/internal/config"
	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/pkg/log"
)

var errMissingCredentials = errors.New("missing credentials")

// NewProvider returns the generative backend named by GUATA_LLM_PROVIDER,
// or nil when generation is disabled and answers are composed from sources.
func NewProvider(ctx context.Context, cfg *config.AppConfig) (core.AIProvider, error) {
	if cfg.Provider == "" || cfg.Provider == config.ProviderNone {
		return nil, nil
	}

	var (
		provider core.AIProvider
		missing  string
	)
	switch cfg.Provider {
	case "openai":
		provider = NewOpenAI(cfg.OpenAIAPIKey, cfg.Model)
		missing = required("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	case "anthropic":
		provider = NewAnthropic(cfg.AnthropicAPIKey, cfg.Model)
		missing = required("ANTHROPIC_API_KEY", cfg.AnthropicAPIKey)
	case "openrouter":
		provider = NewOpenRouter(cfg.OpenRouterAPIKey, cfg.Model)
		missing = required("OPENROUTER_API_KEY", cfg.OpenRouterAPIKey)
	case "ollama":
		provider = NewOllama(cfg.OllamaBaseURL, cfg.OllamaAPIKey, cfg.Model)
		missing = required("OLLAMA_BASE_URL", cfg.OllamaBaseURL)
	case "custom":
		provider = NewCustomOpenAI(cfg.CustomOpenAIBaseURL, cfg.CustomOpenAIAPIKey, cfg.Model)
		missing = required("CUSTOM_OPENAI_BASE_URL", cfg.CustomOpenAIBaseURL)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}

	if missing != "" {
		return nil, fmt.Errorf("%w: %s provider needs %s", errMissingCredentials, cfg.Provider, missing)
	}

	log.FromCtx(ctx).Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Msg("starting llm provider")

	return provider, nil
}

func required(name, value string) string {
	if value == "" {
		return name
	}
	return ""
}
