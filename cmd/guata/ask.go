package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandevgo/guata/internal/transport/cli"
)

var (
	askTrace   bool
	askJSON    bool
	askSession string
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a single question and exit",
	Args:  cobra.MinimumNArgs(1),
	Example: `  guata ask "hotels near Campo Grande airport"
  guata ask --trace "what to do in Bonito"`,
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

		resp := app.Assistant.ProcessMessage(ctx, strings.Join(args, " "), askSession, "cli-user")

		out := cmd.OutOrStdout()
		if askJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}
		_, err = fmt.Fprintln(out, cli.Render(resp, askTrace))
		return err
	},
}

func init() {
	askCmd.Flags().BoolVarP(&askTrace, "trace", "t", false, "print the reasoning trace")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the full response as JSON")
	askCmd.Flags().StringVarP(&askSession, "session", "s", "cli-local", "session id, reuse it to keep context")
	rootCmd.AddCommand(askCmd)
}
