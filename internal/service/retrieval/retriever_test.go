package retrieval

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/guata/internal/config"
	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/internal/service/classify"
	"github.com/sandevgo/guata/internal/service/fetch"
)

type fakeSearch struct {
	mu      sync.Mutex
	queries []string
	results []core.SearchResult
	err     error
}

func (f *fakeSearch) Search(_ context.Context, query string, _ int) ([]core.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.results, f.err
}

func newRetriever(search core.SearchProvider) *Retriever {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	coord := fetch.New(config.DefaultTuning(), nil, "search", fetch.WithClock(func() time.Time { return now }))
	return New(Config{Region: "Mato Grosso do Sul", SearchLimit: 5, Timeout: time.Second}, search, coord)
}

func request(q string) Request {
	return Request{Query: q, Analysis: classify.New().Analyze(q)}
}

func TestRetriever_OfflineLodging(t *testing.T) {
	r := newRetriever(nil)

	out := r.Retrieve(context.Background(), request("lodging near the airport"))

	require.NotEmpty(t, out.Sources)
	assert.Equal(t, "Lodging near Campo Grande International Airport", out.Sources[0].Title)
	assert.Equal(t, "hotel", out.Sources[0].Category)
	assert.Equal(t, OriginKnowledge, out.Sources[0].Origin)
	assert.Positive(t, out.Guide)
	assert.Zero(t, out.Web)
	assert.Empty(t, out.Denials)
}

func TestRetriever_SpecializedLookupTakesPriority(t *testing.T) {
	search := &fakeSearch{results: []core.SearchResult{
		{Title: "Hotel Aeroporto CG", Snippet: "Across from the terminal", URL: "https://example.com/hotel"},
	}}
	r := newRetriever(search)

	out := r.Retrieve(context.Background(), request("lodging near the airport"))

	require.NotEmpty(t, out.Sources)
	assert.Equal(t, "lodging-airport", out.Lookup)
	assert.Equal(t, OriginSpecialized, out.Sources[0].Origin)
	assert.Equal(t, "hotel", out.Sources[0].Category)
	assert.Equal(t, 1, out.Specialized)
	assert.Zero(t, out.Web)
	assert.Zero(t, out.Guide)
	assert.Equal(t, []string{"hotels near Campo Grande international airport"}, search.queries)
}

func TestRetriever_WebSearch(t *testing.T) {
	search := &fakeSearch{results: []core.SearchResult{
		{Title: "Pantanal lodges", Snippet: "Lodges near Miranda", URL: "https://example.com/pantanal"},
		{Title: "Estrada Parque", Snippet: "Drive guide", URL: "https://example.com/estrada"},
	}}
	r := newRetriever(search)

	out := r.Retrieve(context.Background(), request("pantanal wildlife season"))

	assert.Equal(t, 2, out.Web)
	assert.Zero(t, out.Guide)
	assert.Equal(t, []string{"pantanal wildlife season Mato Grosso do Sul"}, search.queries)

	last := out.Sources[len(out.Sources)-1]
	assert.Equal(t, OriginWeb, last.Origin)
	assert.Less(t, last.Relevance, 0.6)
}

func TestRetriever_DeniedSearchFallsBackToGuide(t *testing.T) {
	search := &fakeSearch{results: []core.SearchResult{{Title: "x", Snippet: "y"}}}
	r := newRetriever(search)
	ctx := context.Background()

	first := r.Retrieve(ctx, request("pantanal wildlife season"))
	require.Equal(t, 1, first.Web)

	second := r.Retrieve(ctx, request("bonito voucher agency"))
	assert.Zero(t, second.Web)
	require.Len(t, second.Denials, 1)
	assert.Contains(t, second.Denials[0], "apart")
	assert.Positive(t, second.Guide)
	assert.Len(t, search.queries, 1)
}

func TestRetriever_ProviderErrorFallsBackToGuide(t *testing.T) {
	search := &fakeSearch{err: errors.New("boom")}
	r := newRetriever(search)

	out := r.Retrieve(context.Background(), request("where to eat sobá at the feira central"))

	require.NotEmpty(t, out.Denials)
	assert.Contains(t, out.Denials[0], "boom")
	assert.Positive(t, out.Guide)
}

func TestRetriever_TopicHintForVagueQuery(t *testing.T) {
	r := newRetriever(nil)

	out := r.Retrieve(context.Background(), Request{
		Query:     "a cheap one",
		Analysis:  classify.New().Analyze("a cheap one"),
		TopicHint: "lodging",
	})

	require.NotEmpty(t, out.Sources)
	assert.Equal(t, "hotel", out.Sources[0].Category)
}

func TestIndex_Search(t *testing.T) {
	idx := newIndex(Knowledge)

	got := idx.search("Qual o melhor restaurante em Bonito?", "restaurant")
	require.NotEmpty(t, got)
	assert.Equal(t, "kb-dining-bonito", got[0].entry.ID)
	assert.LessOrEqual(t, len(got), maxResults)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].score, got[i].score)
	}

	assert.Empty(t, idx.search("xyz", ""))
}

func TestRetriever_OptimizeQuery(t *testing.T) {
	r := newRetriever(nil)
	assert.Equal(t, "best restaurants Mato Grosso do Sul", r.OptimizeQuery("What are the best restaurants?"))
	assert.Equal(t, "hotels mato grosso sul", r.OptimizeQuery("hotels in Mato Grosso do Sul"))
}

