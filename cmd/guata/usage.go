package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandevgo/guata/internal/core"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show the web search budget used today",
	Long:  `Prints the persisted fetch coordinator counters: calls in the last minute, hour and day against the daily limit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		app, err := NewApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		out, _ := app.Router.Execute(ctx, core.CommandRequest{Input: "/stats fetch"})
		_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.ReplaceAll(out, "**", ""))
		return err
	},
}

func init() {
	rootCmd.AddCommand(usageCmd)
}
