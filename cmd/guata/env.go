package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandevgo/guata/internal/config"
	"github.com/sandevgo/guata/pkg/env"
)

var envReveal bool

type envSection struct {
	title string
	cfg   any
}

var secretKeys = []string{
	"OPENAI_API_KEY",
	"ANTHROPIC_API_KEY",
	"OPENROUTER_API_KEY",
	"OLLAMA_API_KEY",
	"CUSTOM_OPENAI_API_KEY",
	"REDIS_PASSWORD",
	"GOOGLE_SEARCH_API_KEY",
	"SEARCH_MCP_ENV",
	"SEARCH_MCP_HEADERS",
	"TELEGRAM_TOKEN",
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print the effective configuration as .env",
	Long:  `Prints the configuration resolved from the environment and <runtime>/.env. Secrets are masked unless --reveal is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return fmt.Errorf("failed to init env: %w", err)
		}

		appCfg := config.NewAppConfig(ctx)
		sections := []envSection{
			{"app", appCfg},
			{"tuning", config.NewTuningConfig(ctx)},
			{"search", config.NewSearchConfig(ctx)},
			{"search mcp", config.NewMCPSearchConfig(ctx)},
		}
		if appCfg.EnableHTTP {
			sections = append(sections, envSection{"http", config.NewHTTPConfig(ctx)})
		}
		if appCfg.EnableTelegram {
			sections = append(sections, envSection{"telegram", config.NewTelegramConfig(ctx)})
		}

		var opts []env.Option
		if !envReveal {
			opts = append(opts, env.WithMasked(secretKeys...))
		}

		var b strings.Builder
		for _, s := range sections {
			out, err := env.MarshalEnv(s.cfg, opts...)
			if err != nil {
				return fmt.Errorf("failed to render %s config: %w", s.title, err)
			}
			fmt.Fprintf(&b, "# %s\n%s\n", s.title, out)
		}

		_, err := fmt.Fprint(cmd.OutOrStdout(), b.String())
		return err
	},
}

func init() {
	envCmd.Flags().BoolVar(&envReveal, "reveal", false, "print secrets in clear text")
	rootCmd.AddCommand(envCmd)
}
