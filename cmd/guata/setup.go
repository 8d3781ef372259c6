package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandevgo/guata/internal/config"
	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/internal/providers/llm"
	"github.com/sandevgo/guata/internal/providers/search"
	"github.com/sandevgo/guata/internal/service/cache"
	"github.com/sandevgo/guata/internal/service/classify"
	"github.com/sandevgo/guata/internal/service/command"
	"github.com/sandevgo/guata/internal/service/fetch"
	"github.com/sandevgo/guata/internal/service/learning"
	"github.com/sandevgo/guata/internal/service/orchestrator"
	"github.com/sandevgo/guata/internal/service/retrieval"
	"github.com/sandevgo/guata/internal/service/session"
	"github.com/sandevgo/guata/internal/service/synthesis"
	memstore "github.com/sandevgo/guata/internal/storage/memory"
	redisstore "github.com/sandevgo/guata/internal/storage/redis"
	"github.com/sandevgo/guata/internal/storage/sqlite"
	"github.com/sandevgo/guata/internal/transport/rest"
	"github.com/sandevgo/guata/internal/transport/telegram"
	"github.com/sandevgo/guata/pkg/log"
	"github.com/sandevgo/guata/pkg/srv"
)

const fetchNamespace = "search"

// App is the wired assistant plus everything that must be closed with it.
type App struct {
	Config    *config.AppConfig
	Assistant *orchestrator.Orchestrator
	Router    *command.Router
	closers   []func() error
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type storage struct {
	kv       core.KVStore
	messages core.MessagesRepository
	close    func() error
}

// NewApp reads configuration and builds the pipeline.
func NewApp(ctx context.Context) (*App, error) {
	logger := log.FromCtx(ctx)

	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		return nil, fmt.Errorf("failed to init env: %w", err)
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	tuning := config.NewTuningConfig(ctx)
	searchCfg := config.NewSearchConfig(ctx)

	app := &App{Config: appCfg}

	// 2. Storage
	store, err := initStorage(ctx, appCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	if store.close != nil {
		app.closers = append(app.closers, store.close)
	}

	// 3. Collaborators
	aiProvider, err := llm.NewProvider(ctx, appCfg)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	if aiProvider == nil {
		logger.Info().Msg("no generative backend configured, answers are composed from sources")
	}

	var searchProvider core.SearchProvider
	switch mcpCfg := config.NewMCPSearchConfig(ctx); {
	case searchCfg.Enabled():
		searchProvider = search.NewGoogle(*searchCfg)
	case mcpCfg.Enabled():
		mcpSearch := search.NewMCP(*mcpCfg)
		app.closers = append(app.closers, mcpSearch.Close)
		searchProvider = mcpSearch
		logger.Info().Str("tool", mcpCfg.Tool).Msg("web search through mcp")
	default:
		logger.Info().Msg("web search disabled, using the offline regional guide")
	}

	// 4. Pipeline components
	coordinator := fetch.New(*tuning, store.kv, fetchNamespace)
	if err := coordinator.Load(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to restore fetch state, starting fresh")
	}

	classifier := classify.New()

	app.Assistant = orchestrator.New(*tuning, orchestrator.Deps{
		Cache:    cache.New(*tuning),
		Learning: learning.New(*tuning, classifier),
		Fetch:    coordinator,
		Retriever: retrieval.New(retrieval.Config{
			Region:      searchCfg.Region,
			SearchLimit: searchCfg.MaxResults,
			Timeout:     tuning.ExternalTimeout,
		}, searchProvider, coordinator),
		Synthesis: synthesis.New(aiProvider, synthesis.NewTokenCounter(ctx), synthesis.Config{
			TokenBudget:     tuning.PromptTokens,
			HistoryMessages: tuning.HistoryMessages,
			Timeout:         tuning.ExternalTimeout,
		}),
		Classifier: classifier,
		Sessions:   session.NewManager(store.messages, tuning.HistoryMessages*2),
	})

	app.Router = command.New(command.NewCommands(app.Assistant))

	return app, nil
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (storage, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return storage{kv: memstore.NewKVStore()}, nil

	case config.StorageRedis:
		kv, err := redisstore.NewKVStore(ctx, redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return storage{}, err
		}
		return storage{kv: kv, close: kv.Close}, nil

	case config.StorageSQLite:
		db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
		if err != nil {
			return storage{}, err
		}
		return storage{
			kv:       sqlite.NewKVStore(db),
			messages: sqlite.NewMessagesRepo(db),
			close:    db.Close,
		}, nil

	default:
		return storage{}, fmt.Errorf("unknown storage backend: %s", cfg.Storage)
	}
}

// NewServices wires the long-running transports enabled in config.
func NewServices(ctx context.Context, app *App) ([]srv.Service, error) {
	var services []srv.Service

	if app.Config.EnableHTTP {
		services = append(services, rest.NewServer(ctx, config.NewHTTPConfig(ctx), app.Assistant))
	}

	if app.Config.EnableTelegram {
		bot, err := telegram.NewBot(ctx, config.NewTelegramConfig(ctx), app.Assistant, app.Router)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	if len(services) == 0 {
		return nil, errors.New("no transport enabled, set ENABLE_HTTP or ENABLE_TELEGRAM")
	}

	// Runs last on shutdown, after the transports stopped accepting work.
	services = append(services, srv.NewCleanup(app.Close))
	return services, nil
}
