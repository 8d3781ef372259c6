package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sandevgo/guata/internal/core"
)

type OpenAICompatible struct {
	baseProvider
	authHeader   string
	authPrefix   string
	extraHeaders map[string]string
	jsonMode     bool
}

type OpenAICompatibleConfig struct {
	BaseURL      string
	APIKey       string
	Model        string
	AuthHeader   string // e.g., "Authorization"
	AuthPrefix   string // e.g., "Bearer "
	ExtraHeaders map[string]string
	// JSONMode asks the backend for a JSON object response.
	JSONMode bool
}

func NewOpenAICompatible(cfg OpenAICompatibleConfig) *OpenAICompatible {
	return &OpenAICompatible{
		baseProvider: newBaseProvider(cfg.BaseURL, cfg.APIKey, cfg.Model),
		authHeader:   cfg.AuthHeader,
		authPrefix:   cfg.AuthPrefix,
		extraHeaders: cfg.ExtraHeaders,
		jsonMode:     cfg.JSONMode,
	}
}

func (o *OpenAICompatible) Chat(ctx context.Context, history []core.Message) (core.Message, error) {
	payload := map[string]any{
		"model":       o.model,
		"messages":    history,
		"temperature": 0.3,
	}
	if o.jsonMode {
		payload["response_format"] = map[string]string{"type": "json_object"}
	}

	headers := make(map[string]string)
	if o.authHeader != "" && o.apiKey != "" {
		headers[o.authHeader] = o.authPrefix + o.apiKey
	}
	for k, v := range o.extraHeaders {
		headers[k] = v
	}

	data, err := o.doRequest(ctx, http.MethodPost, "/v1/chat/completions", payload, headers)
	if err != nil {
		return core.Message{}, err
	}
	return parseOpenAIResponse(data)
}

func parseOpenAIResponse(data []byte) (core.Message, error) {
	var result struct {
		Choices []struct {
			Message core.Message `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return core.Message{}, fmt.Errorf("decode: %w", err)
	}
	if len(result.Choices) == 0 {
		return core.Message{}, fmt.Errorf("empty choices: %s", truncate(string(data), 200))
	}
	msg := result.Choices[0].Message
	if msg.Role == "" {
		msg.Role = core.RoleAssistant
	}
	return msg, nil
}

func NewOpenAI(apiKey, model string) *OpenAICompatible {
	return NewOpenAICompatible(OpenAICompatibleConfig{
		BaseURL:    "https://api.openai.com",
		APIKey:     apiKey,
		Model:      model,
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
		JSONMode:   true,
	})
}

func NewOpenRouter(apiKey, model string) *OpenAICompatible {
	return NewOpenAICompatible(OpenAICompatibleConfig{
		BaseURL:    "https://openrouter.ai/api",
		APIKey:     apiKey,
		Model:      model,
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
		ExtraHeaders: map[string]string{
			"HTTP-Referer": core.GuataRepositoryURL,
			"X-Title":      core.GuataName,
		},
	})
}

// NewOllama talks to the OpenAI-compatible endpoint of an Ollama server.
func NewOllama(baseURL, apiKey, model string) *OpenAICompatible {
	return NewOpenAICompatible(OpenAICompatibleConfig{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Model:      model,
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
		JSONMode:   true,
	})
}

func NewCustomOpenAI(baseURL, apiKey, model string) *OpenAICompatible {
	return NewOpenAICompatible(OpenAICompatibleConfig{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Model:      model,
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
	})
}
