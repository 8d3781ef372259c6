package test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/sandevgo/guata/internal/config"
	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/internal/service/cache"
	"github.com/sandevgo/guata/internal/service/classify"
	"github.com/sandevgo/guata/internal/service/fetch"
	"github.com/sandevgo/guata/internal/service/learning"
	"github.com/sandevgo/guata/internal/service/orchestrator"
	"github.com/sandevgo/guata/internal/service/retrieval"
	"github.com/sandevgo/guata/internal/service/session"
	"github.com/sandevgo/guata/internal/service/synthesis"
	"github.com/sandevgo/guata/internal/storage/sqlite"
)

// Pipeline is a fully wired assistant on a SQLite file, as one process
// lifetime would see it.
type Pipeline struct {
	Assistant *orchestrator.Orchestrator
	Messages  *sqlite.MessagesRepo
	db        *sql.DB
}

// NewPipeline opens dbPath and wires every component around it.
func NewPipeline(t *testing.T, dbPath string, search core.SearchProvider) *Pipeline {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.NewDB(ctx, dbPath)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.DefaultTuning()
	cfg.FetchSpacing = 0

	coord := fetch.New(cfg, sqlite.NewKVStore(db), "search")
	if err := coord.Load(ctx); err != nil {
		t.Fatalf("failed to load fetch state: %v", err)
	}

	messages := sqlite.NewMessagesRepo(db)
	classifier := classify.New()

	return &Pipeline{
		Assistant: orchestrator.New(cfg, orchestrator.Deps{
			Cache:    cache.New(cfg),
			Learning: learning.New(cfg, classifier),
			Fetch:    coord,
			Retriever: retrieval.New(retrieval.Config{
				Region:      "Mato Grosso do Sul",
				SearchLimit: 5,
				Timeout:     time.Second,
			}, search, coord),
			Synthesis:  synthesis.New(nil, synthesis.EstimateTokens, synthesis.Config{TokenBudget: cfg.PromptTokens, HistoryMessages: cfg.HistoryMessages}),
			Classifier: classifier,
			Sessions:   session.NewManager(messages, cfg.HistoryMessages*2),
		}),
		Messages: messages,
		db:       db,
	}
}

// Close ends the lifetime; the file stays for the next NewPipeline.
func (p *Pipeline) Close() error {
	return p.db.Close()
}

// CountingSearch returns fixed results and counts calls.
type CountingSearch struct {
	Results []core.SearchResult

	mu    sync.Mutex
	calls int
}

func (s *CountingSearch) Search(_ context.Context, _ string, limit int) ([]core.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if limit > 0 && len(s.Results) > limit {
		return s.Results[:limit], nil
	}
	return s.Results, nil
}

func (s *CountingSearch) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
