package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sandevgo/guata/internal/config"
	"github.com/sandevgo/guata/internal/transport/mcp"
	"github.com/sandevgo/guata/pkg/log"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the guide as MCP tools over stdio",
	Long: `Runs Guatá as a Model Context Protocol server on stdio so LLM agents
can call ask_guide, register_correction and the stats tools. Logs go to
stderr because stdout carries the protocol.`,
	Example: `  # claude_desktop_config.json
  # {
  #   "mcpServers": {
  #     "guata": { "command": "guata", "args": ["mcp"] }
  #   }
  # }`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var flushLog func()
		ctx, flushLog = log.NewContextWithWriter(ctx, debug || config.IsDebug(), os.Stderr)
		defer flushLog()

		app, err := NewApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		return mcp.NewServer(app.Assistant).Serve(ctx, os.Stdin, os.Stdout, os.Stderr)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
