package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ripple-state/ripple/internal/config"
	"github.com/ripple-state/ripple/pkg/server"
)

// serveCmd runs the store server until interrupted.
func serveCmd() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the property store over HTTP and WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			logger := newLogger(cfg)
			slog.SetDefault(logger)

			srv := server.New(&server.Config{
				Addr:             cfg.Addr,
				ReadTimeout:      cfg.ReadTimeout.Std(),
				WriteTimeout:     cfg.WriteTimeout.Std(),
				LoopQueueSize:    cfg.Loop.QueueSize,
				MaxNotifyDepth:   cfg.Store.MaxNotifyDepth,
				MetricsDisabled:  cfg.Metrics.Enabled != nil && !*cfg.Metrics.Enabled,
				MetricsNamespace: cfg.Metrics.Namespace,
				Logger:           logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout.Std())
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to ripple.yaml (default: ./ripple.yaml if present)")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

// newLogger builds the process logger from config, warning on unknown
// levels.
func newLogger(cfg *config.Config) *slog.Logger {
	level, known := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if !known {
		logger.Warn("unknown log level, using info", "log_level", cfg.LogLevel)
	}
	return logger
}
