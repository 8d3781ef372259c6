package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sandevgo/guata/internal/core"
)

const anthropicVersion = "2023-06-01"

type Anthropic struct {
	baseProvider
}

func NewAnthropic(apiKey, model string) *Anthropic {
	return &Anthropic{
		baseProvider: newBaseProvider("https://api.anthropic.com", apiKey, model),
	}
}

// Chat sends system messages in the top-level system field, which is where
// the messages API expects them.
func (a *Anthropic) Chat(ctx context.Context, history []core.Message) (core.Message, error) {
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	var (
		system   []string
		messages []msg
	)
	for _, m := range history {
		if m.Role == core.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		messages = append(messages, msg{Role: m.Role, Content: m.Content})
	}

	payload := map[string]any{
		"model":      a.model,
		"max_tokens": 1024,
		"messages":   messages,
	}
	if len(system) > 0 {
		payload["system"] = strings.Join(system, "\n\n")
	}

	headers := map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": anthropicVersion,
	}

	data, err := a.doRequest(ctx, http.MethodPost, "/v1/messages", payload, headers)
	if err != nil {
		return core.Message{}, err
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return core.Message{}, fmt.Errorf("decode: %w", err)
	}

	var text string
	for _, c := range result.Content {
		if c.Type == "text" {
			text += c.Text
		}
	}
	return core.Message{Role: core.RoleAssistant, Content: text}, nil
}
