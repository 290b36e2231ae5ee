package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/livesteno/livesteno-server/internal/app"
	"github.com/livesteno/livesteno-server/internal/config"
	"github.com/livesteno/livesteno-server/internal/log"
)

func main() {
	var (
		configPath string
		addr       string
		dbPath     string
		logLevel   string
	)

	root := &cobra.Command{
		Use:   "livesteno-server",
		Short: "Live caption broadcast server with auto-translation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// .env is optional; real env vars win either way.
			_ = godotenv.Load()

			logger := log.New(logLevel)

			cfg, path, err := config.Load(logger, configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger.Debug().Str("path", path).Msg("config loaded")

			if addr != "" {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("db") {
				cfg.DatabasePath = dbPath
			}
			if cfg.LogLevel != "" && !cmd.Flags().Changed("log-level") {
				logger = log.New(cfg.LogLevel)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(ctx, &cfg, logger)
			if err != nil {
				return err
			}

			logger.Info().Str("addr", cfg.Addr).Msg("starting livesteno server")
			if err := application.Run(ctx); err != nil {
				return fmt.Errorf("server exited: %w", err)
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	root.Flags().StringVar(&configPath, "config", "", "path to config file")
	root.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	root.Flags().StringVar(&dbPath, "db", "", "sqlite database path, empty for in-memory store")
	root.Flags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
