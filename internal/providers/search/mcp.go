package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/client"
	mcptransport "github.com/mark3labs/mcp-go/client/transport"
	mcpproto "github.com/mark3labs/mcp-go/mcp"

	"github.com/sandevgo/guata/internal/config"
	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/pkg/log"
)

const toolTimeout = 30 * time.Second

// Dialer opens an initialized MCP client session.
type Dialer func(ctx context.Context) (*client.Client, error)

// MCP runs web searches through a search tool exposed by an MCP server.
// The session is opened on first use and reopened after a failed call.
type MCP struct {
	dial Dialer
	tool string

	mu  sync.Mutex
	cli *client.Client
}

func NewMCP(cfg config.MCPSearchConfig) *MCP {
	return NewMCPWithDialer(cfg.Tool, func(ctx context.Context) (*client.Client, error) {
		if cfg.URL != "" {
			return dialHTTP(ctx, cfg)
		}
		return dialStdio(ctx, cfg)
	})
}

func NewMCPWithDialer(tool string, dial Dialer) *MCP {
	return &MCP{dial: dial, tool: tool}
}

func dialStdio(ctx context.Context, cfg config.MCPSearchConfig) (*client.Client, error) {
	var env []string
	for k, v := range cfg.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	cli, err := client.NewStdioMCPClient(cfg.Command, env, cfg.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return Initialize(ctx, cli)
}

func dialHTTP(ctx context.Context, cfg config.MCPSearchConfig) (*client.Client, error) {
	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	cli, err := client.NewStreamableHttpClient(
		cfg.URL,
		mcptransport.WithHTTPHeaders(headers),
		mcptransport.WithHTTPBasicClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http transport: %w", err)
	}
	return Initialize(ctx, cli)
}

// Initialize starts cli and performs the protocol handshake. cli is closed
// on failure.
func Initialize(ctx context.Context, cli *client.Client) (*client.Client, error) {
	if err := cli.Start(ctx); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("failed to start client: %w", err)
	}

	req := mcpproto.InitializeRequest{}
	req.Params.ProtocolVersion = mcpproto.LATEST_PROTOCOL_VERSION
	req.Params.Capabilities = mcpproto.ClientCapabilities{}
	req.Params.ClientInfo = mcpproto.Implementation{
		Name:    core.GuataName,
		Version: core.GuataVersion,
	}

	if _, err := cli.Initialize(ctx, req); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("failed to initialize client: %w", err)
	}
	return cli, nil
}

func (m *MCP) session(ctx context.Context) (*client.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cli != nil {
		return m.cli, nil
	}
	cli, err := m.dial(ctx)
	if err != nil {
		return nil, err
	}
	m.cli = cli
	return cli, nil
}

func (m *MCP) reset(cli *client.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cli == cli {
		_ = m.cli.Close()
		m.cli = nil
	}
}

// Search calls the configured tool with {"query", "max_results"}. Tool
// errors mentioning a rate limit are reported as core.ErrQuotaExhausted.
func (m *MCP) Search(ctx context.Context, query string, limit int) ([]core.SearchResult, error) {
	if limit <= 0 || limit > maxResults {
		limit = maxResults
	}

	cli, err := m.session(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: mcp search: %v", core.ErrExternalProvider, err)
	}

	req := mcpproto.CallToolRequest{}
	req.Params.Name = m.tool
	req.Params.Arguments = map[string]any{
		"query":       query,
		"max_results": limit,
	}

	tCtx, cancel := context.WithTimeout(ctx, toolTimeout)
	defer cancel()

	res, err := cli.CallTool(tCtx, req)
	if err != nil {
		if ctx.Err() == nil {
			m.reset(cli)
		}
		return nil, fmt.Errorf("%w: mcp search: %v", core.ErrExternalProvider, err)
	}

	body := textContent(res)
	if res.IsError {
		if isRateLimited(body) {
			return nil, fmt.Errorf("mcp search: %w: %s", core.ErrQuotaExhausted, truncate(body, 200))
		}
		return nil, fmt.Errorf("%w: mcp search tool failed: %s", core.ErrExternalProvider, truncate(body, 200))
	}

	results := parseResults(body, limit)
	log.FromCtx(ctx).Debug().
		Str("tool", m.tool).
		Int("results", len(results)).
		Msg("mcp search")

	return results, nil
}

func (m *MCP) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cli == nil {
		return nil
	}
	err := m.cli.Close()
	m.cli = nil
	return err
}

func textContent(res *mcpproto.CallToolResult) string {
	var b strings.Builder
	for _, content := range res.Content {
		if text, ok := content.(mcpproto.TextContent); ok {
			b.WriteString(text.Text)
		} else if textPtr, ok := content.(*mcpproto.TextContent); ok {
			b.WriteString(textPtr.Text)
		}
	}
	return b.String()
}

func isRateLimited(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "429") ||
		strings.Contains(s, "rate limit") ||
		strings.Contains(s, "quota")
}

// mcpHit covers the result shapes of common search servers.
type mcpHit struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Link        string `json:"link"`
	Content     string `json:"content"`
	Snippet     string `json:"snippet"`
	Description string `json:"description"`
}

func (h mcpHit) result() core.SearchResult {
	r := core.SearchResult{Title: h.Title, URL: h.URL}
	if r.URL == "" {
		r.URL = h.Link
	}
	for _, s := range []string{h.Content, h.Snippet, h.Description} {
		if s != "" {
			r.Snippet = collapse(s)
			break
		}
	}
	return r
}

// parseResults accepts {"results": [...]}, a bare array, or plain text,
// which becomes a single untitled result.
func parseResults(body string, limit int) []core.SearchResult {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}

	var hits []mcpHit
	var wrapped struct {
		Results []mcpHit `json:"results"`
	}
	switch {
	case json.Unmarshal([]byte(body), &wrapped) == nil && wrapped.Results != nil:
		hits = wrapped.Results
	case json.Unmarshal([]byte(body), &hits) == nil:
	default:
		return []core.SearchResult{{Title: "Web search", Snippet: truncate(collapse(body), 1000)}}
	}

	out := make([]core.SearchResult, 0, len(hits))
	for _, h := range hits {
		r := h.result()
		if r.Title == "" && r.Snippet == "" {
			continue
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out
}
