// Package retrieval gathers the sources an answer is built from: curated
// knowledge, specialized lookups, gated web search and the offline guide.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/internal/service/fetch"
	"github.com/sandevgo/guata/pkg/log"
	"github.com/sandevgo/guata/pkg/text"
)

// Source origins.
const (
	OriginKnowledge   = "knowledge"
	OriginSpecialized = "specialized"
	OriginWeb         = "web"
	OriginGuide       = "guide"
)

type Config struct {
	Region      string
	SearchLimit int
	Timeout     time.Duration
}

type Retriever struct {
	knowledge *index
	guide     *index
	search    core.SearchProvider
	fetch     *fetch.Coordinator
	cfg       Config
}

// New builds a retriever. search may be nil, in which case the offline
// guide stands in for web results.
func New(cfg Config, search core.SearchProvider, coordinator *fetch.Coordinator) *Retriever {
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = 5
	}
	return &Retriever{
		knowledge: newIndex(Knowledge),
		guide:     newIndex(Guide),
		search:    search,
		fetch:     coordinator,
		cfg:       cfg,
	}
}

type Request struct {
	Query    string
	Analysis core.Analysis
	// TopicHint is the session topic carried into vague follow-ups.
	TopicHint string
}

type Outcome struct {
	Sources     []core.Source
	Knowledge   int
	Specialized int
	Web         int
	Guide       int
	// Denials holds one entry per gated call that was refused or failed.
	Denials []string
	Lookup  string
}

func (r *Retriever) Retrieve(ctx context.Context, req Request) Outcome {
	query := req.Query
	if req.TopicHint != "" {
		query = query + " " + req.TopicHint
	}

	var out Outcome

	var specialized []core.Source
	if lk, ok := matchLookup(query, req.Analysis); ok {
		out.Lookup = lk.kind
		specialized = r.runSearch(ctx, &out, lk.key, lk.query, OriginSpecialized, lk.category)
		out.Specialized = len(specialized)
	}

	for _, s := range r.knowledge.search(query, req.Analysis.Category) {
		out.Sources = append(out.Sources, entrySource(s, OriginKnowledge))
		out.Knowledge++
	}

	var web []core.Source
	if len(specialized) == 0 && r.search != nil {
		optimized := r.OptimizeQuery(query)
		web = r.runSearch(ctx, &out, "web:"+text.Normalize(optimized), optimized, OriginWeb, "")
		out.Web = len(web)
	}

	// Specialized hits outrank everything else.
	out.Sources = append(specialized, out.Sources...)
	out.Sources = append(out.Sources, web...)

	if len(specialized) == 0 && len(web) == 0 {
		for _, s := range r.guide.search(query, req.Analysis.Category) {
			out.Sources = append(out.Sources, entrySource(s, OriginGuide))
			out.Guide++
		}
	}

	log.FromCtx(ctx).Debug().
		Int("knowledge", out.Knowledge).
		Int("specialized", out.Specialized).
		Int("web", out.Web).
		Int("guide", out.Guide).
		Strs("denials", out.Denials).
		Msg("retrieval done")

	return out
}

// OptimizeQuery strips filler words and pins the search to the region.
func (r *Retriever) OptimizeQuery(query string) string {
	q := text.Normalize(query)
	if r.cfg.Region == "" || strings.Contains(q, text.Normalize(r.cfg.Region)) {
		return q
	}
	return strings.TrimSpace(q + " " + r.cfg.Region)
}

func (r *Retriever) runSearch(ctx context.Context, out *Outcome, key, query, origin, category string) []core.Source {
	if r.search == nil || r.fetch == nil {
		return nil
	}

	results, res, err := fetch.Fetch(ctx, r.fetch, key, func(ctx context.Context) ([]core.SearchResult, error) {
		if r.cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
			defer cancel()
		}
		return r.search.Search(ctx, query, r.cfg.SearchLimit)
	})
	if err != nil {
		var rl *core.RateLimitError
		if errors.As(err, &rl) {
			out.Denials = append(out.Denials, fmt.Sprintf("%s: %s", key, rl.Reason))
		} else {
			out.Denials = append(out.Denials, fmt.Sprintf("%s: %v", key, err))
		}
		return nil
	}

	sources := make([]core.Source, 0, len(results))
	for i, sr := range results {
		sources = append(sources, core.Source{
			Label:     sr.Title,
			Title:     sr.Title,
			Content:   sr.Snippet,
			URL:       sr.URL,
			Category:  category,
			Origin:    origin,
			Relevance: rankRelevance(origin, i),
		})
	}

	log.FromCtx(ctx).Debug().
		Str("key", key).
		Bool("cached", res.FromCache).
		Int("results", len(sources)).
		Msg("search results")

	return sources
}

func rankRelevance(origin string, rank int) float64 {
	base := 0.6
	if origin == OriginSpecialized {
		base = 0.9
	}
	return max(0.1, base-0.05*float64(rank))
}

func entrySource(s scored, origin string) core.Source {
	label := s.entry.Title
	if s.entry.Publisher != "" {
		label = s.entry.Publisher + ": " + s.entry.Title
	}
	return core.Source{
		Label:     label,
		Title:     s.entry.Title,
		Content:   s.entry.Content,
		URL:       s.entry.URL,
		Category:  s.entry.Category,
		Origin:    origin,
		Relevance: s.score,
	}
}
