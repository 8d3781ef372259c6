package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/guata/pkg/log"
)

const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

const ProviderNone = "none"

type AppConfig struct {
	RuntimePath string `env:"GUATA_RUNTIME_PATH" envDefault:".guata"`

	// Durable state backend: memory, sqlite or redis
	Storage       string `env:"GUATA_STORAGE" envDefault:"sqlite"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Generative backend. "none" keeps the deterministic composer only.
	Provider            string `env:"GUATA_LLM_PROVIDER" envDefault:"none"`
	Model               string `env:"GUATA_LLM_MODEL"`
	OpenAIAPIKey        string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey     string `env:"ANTHROPIC_API_KEY"`
	OpenRouterAPIKey    string `env:"OPENROUTER_API_KEY"`
	OllamaBaseURL       string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaAPIKey        string `env:"OLLAMA_API_KEY"`
	CustomOpenAIBaseURL string `env:"CUSTOM_OPENAI_BASE_URL"`
	CustomOpenAIAPIKey  string `env:"CUSTOM_OPENAI_API_KEY"`

	// Transport Flags
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`
	EnableHTTP     bool `env:"ENABLE_HTTP" envDefault:"true"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "guata.db")
}

func (c AppConfig) GetEnvPath() string {
	return filepath.Join(c.RuntimePath, ".env")
}
