package installer

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sandevgo/guata/internal/config"
)

const (
	keyStorage  = "GUATA_STORAGE"
	keyProvider = "GUATA_LLM_PROVIDER"
	keySearch   = "_SEARCH_BACKEND"

	searchGoogle = "google"
	searchMCP    = "mcp"
	searchNone   = "none"
)

func getSteps() []Step {
	return []Step{
		newChoiceStep("Where should Guatá keep its state?", keyStorage,
			option{"SQLite file in the runtime directory", config.StorageSQLite},
			option{"Redis", config.StorageRedis},
			option{"Memory only, lost on restart", config.StorageMemory},
		),
		newInputStep("Redis address", "REDIS_ADDR", "localhost:6379").
			withDefault("localhost:6379").
			onlyIf(is(keyStorage, config.StorageRedis)),
		newInputStep("Redis password", "REDIS_PASSWORD", "").
			secret().
			optionalInput().
			onlyIf(is(keyStorage, config.StorageRedis)),

		newChoiceStep("Which model should write the answers?", keyProvider,
			option{"None, compose answers from sources", config.ProviderNone},
			option{"OpenAI", "openai"},
			option{"Anthropic", "anthropic"},
			option{"OpenRouter", "openrouter"},
			option{"Ollama", "ollama"},
			option{"Custom OpenAI-compatible server", "custom"},
		),
		newInputStep("OpenAI API Key", "OPENAI_API_KEY", "sk-...").
			secret().
			onlyIf(is(keyProvider, "openai")),
		newInputStep("Anthropic API Key", "ANTHROPIC_API_KEY", "sk-ant-...").
			secret().
			onlyIf(is(keyProvider, "anthropic")),
		newInputStep("OpenRouter API Key", "OPENROUTER_API_KEY", "sk-or-v1-...").
			secret().
			onlyIf(is(keyProvider, "openrouter")),
		newInputStep("Ollama base URL", "OLLAMA_BASE_URL", "http://localhost:11434").
			withDefault("http://localhost:11434").
			parsed(parseURL).
			onlyIf(is(keyProvider, "ollama")),
		newInputStep("Custom OpenAI base URL", "CUSTOM_OPENAI_BASE_URL", "https://api.example.com/v1").
			parsed(parseURL).
			onlyIf(is(keyProvider, "custom")),
		newInputStep("Custom API Key", "CUSTOM_OPENAI_API_KEY", "").
			secret().
			optionalInput().
			onlyIf(is(keyProvider, "custom")),
		newInputStep("Model name", "GUATA_LLM_MODEL", "gpt-4o-mini, claude-3-5-haiku-latest, llama3.1...").
			onlyIf(isNot(keyProvider, config.ProviderNone)),

		newChoiceStep("How should Guatá search the web?", keySearch,
			option{"Google Custom Search", searchGoogle},
			option{"A search tool on an MCP server", searchMCP},
			option{"No web search, curated guide only", searchNone},
		),
		newInputStep("Google Search API Key", "GOOGLE_SEARCH_API_KEY", "AIza...").
			secret().
			onlyIf(is(keySearch, searchGoogle)),
		newInputStep("Google Search engine ID", "GOOGLE_SEARCH_ENGINE_ID", "0123456789abcdef0").
			onlyIf(is(keySearch, searchGoogle)),
		newInputStep("MCP server URL", "SEARCH_MCP_URL", "http://localhost:8080/mcp").
			parsed(parseURL).
			onlyIf(is(keySearch, searchMCP)),
		newInputStep("MCP search tool", "SEARCH_MCP_TOOL", "web_search").
			withDefault("web_search").
			onlyIf(is(keySearch, searchMCP)),

		newInputStep("Telegram Bot Token", "TELEGRAM_TOKEN", "123456789:ABCDEF...").
			secret().
			optionalInput(),
		newInputStep("Allowed Telegram user IDs, comma separated", "TELEGRAM_ALLOWED_USERS", "empty answers everyone").
			optionalInput().
			parsed(parseUserIDs).
			onlyIf(has("TELEGRAM_TOKEN")),
	}
}

func parseURL(v string) (string, error) {
	u, err := url.ParseRequestURI(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%q is not an http(s) URL", v)
	}
	return v, nil
}

// parseUserIDs normalizes the list to the form TelegramConfig parses.
func parseUserIDs(v string) (string, error) {
	var ids []string
	for _, f := range strings.Split(v, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, err := strconv.ParseInt(f, 10, 64); err != nil {
			return "", fmt.Errorf("%q is not a Telegram user ID", f)
		}
		ids = append(ids, f)
	}
	return strings.Join(ids, ","), nil
}
