package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/pasteboard"
	"github.com/jpalmerr/pasteboard/config"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 10 * time.Second
)

// newLogger creates a JSON logger for CLI use.
func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// serveCmd starts the Pasteboard server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the clipboard server",
	Long: `Start the Pasteboard server.

The server will:
  - Load configuration from the specified YAML file
  - Serve the clipboard API and dashboard UI on the configured address

With --watch, edits to the config file are picked up while running.
Only the clipboard capacity is applied live; other fields need a restart.

The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  pasteboard serve -c config.yaml
  pasteboard serve --config /etc/pasteboard/config.yaml --watch`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	serveCmd.Flags().Bool("watch", false, "reload capacity when the config file changes")
	_ = serveCmd.MarkFlagRequired("config")
}

func runServe(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	watch, _ := cmd.Flags().GetBool("watch")

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg.SlogLevel())
	logger.Info("config loaded",
		"path", configFile,
		"addr", cfg.Addr(),
		"capacity", cfg.Capacity,
		"request_timeout", cfg.RequestTimeout.Duration().String(),
	)

	pb, err := pasteboard.New(config.BuildOptions(cfg, logger)...)
	if err != nil {
		return fmt.Errorf("failed to create Pasteboard: %w", err)
	}

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if watch {
		rl := &reloader{pb: pb, running: cfg, logger: logger}
		go func() {
			err := config.Watch(ctx, configFile, logger, rl.apply)
			if err != nil {
				logger.Error("config watch stopped", "path", configFile, "error", err)
			}
		}()
	}

	// start server - blocks until context cancelled
	errChan := make(chan error, 1)
	go func() {
		errChan <- pb.Start(ctx)
	}()

	// wait for server to finish
	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		// signal received, wait for graceful shutdown with timeout
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}

// reloader applies config reloads and remembers the last applied config,
// so restart warnings reflect drift from what is actually running.
type reloader struct {
	pb      *pasteboard.Pasteboard
	running *config.Config
	logger  *slog.Logger
}

// apply applies the live-reloadable part of next and warns about fields
// that only take effect on restart. Config.Watch calls it from a single
// goroutine.
func (rl *reloader) apply(next *config.Config) {
	if err := rl.pb.SetCapacity(next.Capacity); err != nil {
		rl.logger.Error("failed to apply capacity", "capacity", next.Capacity, "error", err)
		return
	}

	if next.Addr() != rl.running.Addr() ||
		next.RequestTimeout != rl.running.RequestTimeout ||
		next.Title != rl.running.Title ||
		next.LogLevel != rl.running.LogLevel {
		rl.logger.Warn("config changes other than capacity require a restart")
	}

	// restart-only fields keep their running values
	applied := *rl.running
	applied.Capacity = next.Capacity
	rl.running = &applied
}
