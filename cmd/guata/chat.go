package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sandevgo/guata/internal/transport/cli"
)

var chatTrace bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the guide in the terminal",
	Long:  `Opens an interactive session. Type /help for commands, /trace to toggle the reasoning trace and exit to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		app, err := NewApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		repl, err := cli.NewReadLine(app.Assistant, app.Router, app.Config, chatTrace)
		if err != nil {
			return err
		}
		defer repl.Shutdown(ctx)

		return repl.Start(ctx)
	},
}

func init() {
	chatCmd.Flags().BoolVarP(&chatTrace, "trace", "t", false, "print the reasoning trace after each answer")
	rootCmd.AddCommand(chatCmd)
}
