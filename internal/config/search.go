package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/guata/pkg/log"
)

// SearchConfig configures the metered web search backend. Search is
// disabled when either credential is empty.
type SearchConfig struct {
	APIKey     string `env:"GOOGLE_SEARCH_API_KEY"`
	EngineID   string `env:"GOOGLE_SEARCH_ENGINE_ID"`
	BaseURL    string `env:"GOOGLE_SEARCH_BASE_URL" envDefault:"https://www.googleapis.com/customsearch/v1"`
	MaxResults int    `env:"GOOGLE_SEARCH_RESULTS" envDefault:"5"`
	Region     string `env:"GUATA_SEARCH_REGION" envDefault:"Mato Grosso do Sul"`
}

func NewSearchConfig(ctx context.Context) *SearchConfig {
	c := &SearchConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Search config")
	}
	return c
}

func (c SearchConfig) Enabled() bool {
	return c.APIKey != "" && c.EngineID != ""
}

// MCPSearchConfig points web search at a tool on an MCP server, such as a
// Tavily or Brave search server. URL selects streamable HTTP, Command stdio.
type MCPSearchConfig struct {
	Command string            `env:"SEARCH_MCP_COMMAND"`
	Args    []string          `env:"SEARCH_MCP_ARGS" envSeparator:" "`
	Env     map[string]string `env:"SEARCH_MCP_ENV"`
	URL     string            `env:"SEARCH_MCP_URL"`
	Headers map[string]string `env:"SEARCH_MCP_HEADERS"`
	Tool    string            `env:"SEARCH_MCP_TOOL" envDefault:"web_search"`
}

func NewMCPSearchConfig(ctx context.Context) *MCPSearchConfig {
	c := &MCPSearchConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse MCP search config")
	}
	return c
}

func (c MCPSearchConfig) Enabled() bool {
	return c.URL != "" || c.Command != ""
}
