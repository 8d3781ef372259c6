package search

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	mcpproto "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/guata/internal/core"
)

func newSearchServer() *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("search-test", "0.0.1", mcpserver.WithToolCapabilities(false))

	s.AddTool(mcpproto.NewTool("web_search",
		mcpproto.WithString("query", mcpproto.Required()),
	), func(_ context.Context, request mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcpproto.NewToolResultError("query is required"), nil
		}
		switch query {
		case "quota":
			return mcpproto.NewToolResultError("HTTP 429: rate limit exceeded"), nil
		case "broken":
			return mcpproto.NewToolResultError("upstream unavailable"), nil
		case "plain":
			return mcpproto.NewToolResultText("Bonito has   crystal clear rivers."), nil
		}
		return mcpproto.NewToolResultText(`{"results":[
			{"title":"Rio da Prata","url":"https://example.com/prata","content":"Snorkelling in   clear water"},
			{"title":"Gruta do Lago Azul","link":"https://example.com/gruta","description":"A blue lake cave"},
			{"title":"","url":"https://example.com/empty"},
			{"title":"Buraco das Araras","url":"https://example.com/araras","snippet":"Macaws"}
		]}`), nil
	})

	return s
}

func newTestMCP(t *testing.T, dials *int) *MCP {
	t.Helper()
	srv := newSearchServer()

	m := NewMCPWithDialer("web_search", func(ctx context.Context) (*client.Client, error) {
		*dials++
		cli, err := client.NewInProcessClient(srv)
		if err != nil {
			return nil, err
		}
		return Initialize(ctx, cli)
	})
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestMCP_Search(t *testing.T) {
	dials := 0
	m := newTestMCP(t, &dials)

	results, err := m.Search(context.Background(), "bonito rivers", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, core.SearchResult{
		Title:   "Rio da Prata",
		URL:     "https://example.com/prata",
		Snippet: "Snorkelling in clear water",
	}, results[0])
	assert.Equal(t, "https://example.com/gruta", results[1].URL)
	assert.Equal(t, "A blue lake cave", results[1].Snippet)

	_, err = m.Search(context.Background(), "bonito caves", 5)
	require.NoError(t, err)
	assert.Equal(t, 1, dials, "session is reused")
}

func TestMCP_Search_PlainText(t *testing.T) {
	dials := 0
	m := newTestMCP(t, &dials)

	results, err := m.Search(context.Background(), "plain", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Bonito has crystal clear rivers.", results[0].Snippet)
}

func TestMCP_Search_Errors(t *testing.T) {
	tests := []struct {
		query     string
		wantQuota bool
	}{
		{query: "quota", wantQuota: true},
		{query: "broken", wantQuota: false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			dials := 0
			m := newTestMCP(t, &dials)

			_, err := m.Search(context.Background(), tt.query, 5)
			require.Error(t, err)
			assert.Equal(t, tt.wantQuota, errors.Is(err, core.ErrQuotaExhausted))
			assert.Equal(t, !tt.wantQuota, errors.Is(err, core.ErrExternalProvider))
		})
	}
}

func TestMCP_DialFailure(t *testing.T) {
	m := NewMCPWithDialer("web_search", func(context.Context) (*client.Client, error) {
		return nil, errors.New("connection refused")
	})

	_, err := m.Search(context.Background(), "bonito", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrExternalProvider)
	assert.NoError(t, m.Close())
}

func TestParseResults(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "empty", body: "  ", want: 0},
		{name: "bare array", body: `[{"title":"a","url":"u"},{"title":"b","url":"v"}]`, want: 2},
		{name: "wrapped", body: `{"results":[{"title":"a"}]}`, want: 1},
		{name: "text", body: "no json here", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, parseResults(tt.body, 10), tt.want)
		})
	}
}
