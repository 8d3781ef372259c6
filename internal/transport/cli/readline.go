package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/sandevgo/guata/internal/config"
	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/pkg/log"
)

const (
	defaultSessionID = "cli-local"
	defaultUserID    = "cli-user"
)

type ReadLine struct {
	cfg       *config.AppConfig
	assistant core.Assistant
	router    core.CmdRouter
	rl        *readline.Instance
	showTrace bool
}

func NewReadLine(assistant core.Assistant, router core.CmdRouter, cfg *config.AppConfig, showTrace bool) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     filepath.Join(cfg.RuntimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		cfg:       cfg,
		assistant: assistant,
		router:    router,
		rl:        rl,
		showTrace: showTrace,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("Chat started. Type /help for commands, 'exit' to quit.")

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		switch line {
		case "exit", "quit":
			return nil
		case "":
			continue
		case "/trace":
			r.showTrace = !r.showTrace
			fmt.Fprintf(r.rl.Stdout(), "reasoning trace: %v\n", r.showTrace)
			continue
		}

		if out, ok := r.router.Execute(ctx, core.CommandRequest{
			SessionID: defaultSessionID,
			UserID:    defaultUserID,
			Input:     line,
		}); ok {
			fmt.Fprintln(r.rl.Stdout(), out)
			continue
		}

		resp := r.assistant.ProcessMessage(ctx, line, defaultSessionID, defaultUserID)
		fmt.Fprintln(r.rl.Stdout(), Render(resp, r.showTrace))
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
