package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sandevgo/guata/internal/config"
	"github.com/sandevgo/guata/internal/service/installer"
	"github.com/sandevgo/guata/pkg/log"
)

var installForce bool

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Configure Guatá interactively",
	Long: `Asks for the storage backend, the generative model, the web search
backend and the Telegram bot, then writes them to <runtime>/.env.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		runtimePath := config.GetRuntimePath()

		envPath, err := installer.RunWizard(installer.Options{
			RuntimePath: runtimePath,
			Overwrite:   installForce,
		})
		if err != nil {
			return err
		}

		// Fail now rather than on the first start if the file does not parse
		if _, err := godotenv.Read(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("failed to read back .env file")
			return err
		}

		logger.Info().Str("path", envPath).Msg("configuration saved")
		logger.Info().Msg("Installation complete! You can now run 'guata start' or 'guata chat'.")
		return nil
	},
}

func init() {
	installCmd.Flags().BoolVar(&installForce, "force", false, "replace an existing .env file")
	rootCmd.AddCommand(installCmd)
}
