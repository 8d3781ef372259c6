package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sandevgo/guata/pkg/log"
	"github.com/sandevgo/guata/pkg/srv"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the HTTP API and Telegram bot",
	Long:  `Starts every transport enabled in the environment (ENABLE_HTTP, ENABLE_TELEGRAM) and serves until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting guata")

		app, err := NewApp(ctx)
		if err != nil {
			return err
		}

		services, err := NewServices(ctx, app)
		if err != nil {
			_ = app.Close()
			return err
		}

		runErr := srv.Wait(ctx, srv.StartServices(ctx, services))
		if runErr != nil {
			logger.Error().Err(runErr).Msg("service failed, shutting down")
		}

		if err := srv.ShutdownServices(ctx, services); err != nil {
			return errors.Join(runErr, err)
		}
		logger.Info().Msg("guata has been shut down gracefully")

		return runErr
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
