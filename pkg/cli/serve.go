package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/dydl/pkg/cli/config"
	controller "github.com/m-mizutani/dydl/pkg/controller/http"
)

func cmdServe() *cli.Command {
	var (
		serverCfg   config.Server
		storageCfg  config.Storage
		platformCfg config.Platform
		sentryCfg   config.Sentry
	)

	var flags []cli.Flag
	flags = append(flags, serverCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, platformCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting dydl server",
				slog.String("addr", serverCfg.Addr),
				slog.String("output_dir", storageCfg.OutputDir),
				slog.Any("sentry", sentryCfg),
			)

			if err := sentryCfg.Configure(); err != nil {
				return err
			}
			if sentryCfg.Enabled() {
				defer sentry.Flush(2 * time.Second)
			}

			downloadUC, err := newDownloadUseCase(&storageCfg, &platformCfg)
			if err != nil {
				return goerr.Wrap(err, "failed to set up download use case")
			}

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				downloadUC,
				controller.WithAddr(serverCfg.Addr),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
