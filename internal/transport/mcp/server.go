// Package mcp serves the assistant as Model Context Protocol tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	stdlog "log"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/pkg/log"
)

const defaultIdentity = "mcp"

type Server struct {
	mcp       *mcpserver.MCPServer
	assistant core.Assistant
}

func NewServer(assistant core.Assistant) *Server {
	s := &Server{
		mcp: mcpserver.NewMCPServer(
			core.GuataName,
			core.GuataVersion,
			mcpserver.WithToolCapabilities(false),
			mcpserver.WithRecovery(),
		),
		assistant: assistant,
	}
	s.registerTools()
	return s
}

// MCPServer exposes the protocol server, mainly for in-process clients.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

// Serve blocks on stdin/stdout until ctx is cancelled or input ends.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer, errLog io.Writer) error {
	stdio := mcpserver.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(stdlog.New(errLog, "", stdlog.LstdFlags))

	log.FromCtx(ctx).Info().Msg("mcp server listening on stdio")
	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to serve mcp: %w", err)
	}
	return nil
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcpproto.NewTool("ask_guide",
		mcpproto.WithDescription("Ask the Mato Grosso do Sul tourism guide a question. Returns the answer with confidence, sources, follow-up suggestions and the reasoning trace."),
		mcpproto.WithString("message",
			mcpproto.Required(),
			mcpproto.Description("The traveller's question"),
		),
		mcpproto.WithString("session_id",
			mcpproto.Description("Conversation id; reuse it to keep context between questions"),
		),
		mcpproto.WithString("user_id",
			mcpproto.Description("Stable user id for personalization"),
		),
	), s.askGuide)

	s.mcp.AddTool(mcpproto.NewTool("register_correction",
		mcpproto.WithDescription("Teach the guide the right answer after a wrong one. Later similar questions are answered with the correction."),
		mcpproto.WithString("correction",
			mcpproto.Required(),
			mcpproto.Description("The corrected information"),
		),
		mcpproto.WithString("session_id",
			mcpproto.Description("Conversation the wrong answer came from"),
		),
		mcpproto.WithString("user_id",
			mcpproto.Description("User making the correction"),
		),
		mcpproto.WithString("question",
			mcpproto.Description("Question that was answered wrongly; defaults to the last question of the session"),
		),
		mcpproto.WithString("prior_response",
			mcpproto.Description("The wrong answer; defaults to the last answer of the session"),
		),
	), s.registerCorrection)

	s.mcp.AddTool(mcpproto.NewTool("cache_stats",
		mcpproto.WithDescription("Answer cache statistics"),
	), s.statsTool(func() any { return s.assistant.CacheStats() }))

	s.mcp.AddTool(mcpproto.NewTool("learning_stats",
		mcpproto.WithDescription("Correction learning statistics"),
	), s.statsTool(func() any { return s.assistant.LearningStats() }))

	s.mcp.AddTool(mcpproto.NewTool("fetch_usage",
		mcpproto.WithDescription("Web search budget usage"),
	), s.statsTool(func() any { return s.assistant.FetchUsage() }))
}

func (s *Server) askGuide(ctx context.Context, request mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcpproto.NewToolResultError("message argument is required and must be a string"), nil
	}

	resp := s.assistant.ProcessMessage(ctx,
		message,
		request.GetString("session_id", defaultIdentity),
		request.GetString("user_id", defaultIdentity),
	)
	return jsonResult(resp)
}

func (s *Server) registerCorrection(ctx context.Context, request mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	correction, err := request.RequireString("correction")
	if err != nil {
		return mcpproto.NewToolResultError("correction argument is required and must be a string"), nil
	}

	id, err := s.assistant.RegisterCorrection(ctx, core.CorrectionRequest{
		UserID:        request.GetString("user_id", defaultIdentity),
		SessionID:     request.GetString("session_id", defaultIdentity),
		Question:      request.GetString("question", ""),
		PriorResponse: request.GetString("prior_response", ""),
		Correction:    correction,
	})
	if err != nil {
		if !errors.Is(err, core.ErrMalformedCorrection) {
			log.FromCtx(ctx).Error().Err(err).Msg("failed to register correction")
		}
		return mcpproto.NewToolResultError(err.Error()), nil
	}

	return mcpproto.NewToolResultText(fmt.Sprintf("Correction %s registered.", id)), nil
}

func (s *Server) statsTool(fn func() any) mcpserver.ToolHandlerFunc {
	return func(context.Context, mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
		return jsonResult(fn())
	}
}

func jsonResult(v any) (*mcpproto.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcpproto.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcpproto.NewToolResultText(string(data)), nil
}
