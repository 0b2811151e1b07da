package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/llmrank/crawlengine/internal/config"
	"github.com/llmrank/crawlengine/internal/httpapi"
	"github.com/llmrank/crawlengine/internal/jobs"
	"github.com/llmrank/crawlengine/internal/storage"
)

func newServeCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(debug)
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug-level logging")
	return cmd
}

func runServe(debug bool) error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if debug {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	storageClient := storage.New(storage.Config{
		Endpoint:  cfg.R2Endpoint,
		AccessKey: cfg.R2AccessKey,
		SecretKey: cfg.R2SecretKey,
		Bucket:    cfg.R2Bucket,
	})

	manager := jobs.New(cfg, logger, storageClient)
	server := httpapi.New(manager, cfg.SharedSecret, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	serveErrCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("crawlengine listening")
		serveErrCh <- server.App().Listen(":" + cfg.Port)
	}()

	select {
	case sig := <-sigCh:
		logger.Warn().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serveErrCh:
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.App().ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("error during shutdown")
		return err
	}
	return nil
}
