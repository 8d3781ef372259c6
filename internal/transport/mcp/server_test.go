package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/guata/internal/core"
)

type fakeAssistant struct {
	session    string
	user       string
	correction core.CorrectionRequest
	err        error
}

func (f *fakeAssistant) ProcessMessage(_ context.Context, _, sessionID, userID string) core.Response {
	f.session = sessionID
	f.user = userID
	return core.Response{
		Answer:     "Bonito is known for its clear rivers.",
		Confidence: 90,
		Sources:    []core.Source{},
		Path:       core.PathGenerative,
	}
}

func (f *fakeAssistant) RegisterCorrection(_ context.Context, req core.CorrectionRequest) (string, error) {
	f.correction = req
	if f.err != nil {
		return "", f.err
	}
	return "corr-7", nil
}

func (f *fakeAssistant) CacheStats() core.CacheStats       { return core.CacheStats{Hits: 5} }
func (f *fakeAssistant) LearningStats() core.LearningStats { return core.LearningStats{TotalPatterns: 2} }
func (f *fakeAssistant) FetchUsage() core.FetchUsage       { return core.FetchUsage{DailyLimit: 80} }

func newTestClient(t *testing.T, a core.Assistant) *client.Client {
	t.Helper()
	ctx := context.Background()

	cli, err := client.NewInProcessClient(NewServer(a).MCPServer())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cli.Close() })

	require.NoError(t, cli.Start(ctx))

	req := mcpproto.InitializeRequest{}
	req.Params.ProtocolVersion = mcpproto.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcpproto.Implementation{Name: "test", Version: "0.0.1"}
	_, err = cli.Initialize(ctx, req)
	require.NoError(t, err)

	return cli
}

func call(t *testing.T, cli *client.Client, name string, args map[string]any) (string, bool) {
	t.Helper()

	req := mcpproto.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := cli.CallTool(context.Background(), req)
	require.NoError(t, err)

	var out string
	for _, content := range res.Content {
		if text, ok := content.(mcpproto.TextContent); ok {
			out += text.Text
		} else if textPtr, ok := content.(*mcpproto.TextContent); ok {
			out += textPtr.Text
		}
	}
	return out, res.IsError
}

func TestServer_ListTools(t *testing.T) {
	cli := newTestClient(t, &fakeAssistant{})

	res, err := cli.ListTools(context.Background(), mcpproto.ListToolsRequest{})
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"ask_guide", "register_correction", "cache_stats", "learning_stats", "fetch_usage"}, names)
}

func TestServer_AskGuide(t *testing.T) {
	a := &fakeAssistant{}
	cli := newTestClient(t, a)

	out, isErr := call(t, cli, "ask_guide", map[string]any{"message": "what to do in Bonito", "session_id": "s9"})
	require.False(t, isErr)

	var resp core.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, core.PathGenerative, resp.Path)
	assert.Equal(t, 90, resp.Confidence)
	assert.Equal(t, "s9", a.session)
	assert.Equal(t, defaultIdentity, a.user)

	_, isErr = call(t, cli, "ask_guide", map[string]any{})
	assert.True(t, isErr)
}

func TestServer_RegisterCorrection(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
		wantOut string
	}{
		{name: "registered", wantOut: "corr-7"},
		{name: "malformed", err: &core.MalformedCorrectionError{Reason: "no prior question"}, wantErr: true, wantOut: "no prior question"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &fakeAssistant{err: tt.err}
			cli := newTestClient(t, a)

			out, isErr := call(t, cli, "register_correction", map[string]any{
				"correction": "Hotel Jandaia is the closest",
				"user_id":    "u1",
			})

			assert.Equal(t, tt.wantErr, isErr)
			assert.Contains(t, out, tt.wantOut)
			assert.Equal(t, "Hotel Jandaia is the closest", a.correction.Correction)
			assert.Equal(t, "u1", a.correction.UserID)
			assert.Equal(t, defaultIdentity, a.correction.SessionID)
		})
	}
}

func TestServer_Stats(t *testing.T) {
	cli := newTestClient(t, &fakeAssistant{})

	tests := []struct {
		tool string
		want string
	}{
		{tool: "cache_stats", want: `"hits": 5`},
		{tool: "learning_stats", want: `"total_patterns": 2`},
		{tool: "fetch_usage", want: `"daily_limit": 80`},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			out, isErr := call(t, cli, tt.tool, nil)
			assert.False(t, isErr)
			assert.Contains(t, out, tt.want)
		})
	}
}
