package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/refetchio/refetch"
	"github.com/refetchio/refetch/config"
)

// newLogger creates a JSON logger for CLI use.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// watchCmd polls the configured request and logs every state change.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the configured request",
	Long: `Poll the request described in the config file and log each
observable state change as structured JSON.

The watcher will:
  - Load configuration from the specified YAML file
  - Fetch immediately (unless immediate: false), then every interval
  - Log data, loading, and error transitions until interrupted

The watcher runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  refetch watch -c refetch.yaml
  refetch watch --config /etc/refetch/refetch.yaml --debug`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	watchCmd.Flags().Bool("debug", false, "log per-request debug detail")
	_ = watchCmd.MarkFlagRequired("config")
}

func runWatch(cmd *cobra.Command, args []string) error {
	debug, _ := cmd.Flags().GetBool("debug")
	logger := newLogger(debug)

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	req, err := config.BuildRequest(cfg)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	logger.Info("config loaded",
		"url", req.URL(),
		"interval", cfg.Interval.Duration().String(),
		"immediate", cfg.RunImmediately(),
	)

	// the CLI has no schema for the response, so decode into a generic map
	ctrl, err := refetch.New(refetch.JSONFetchFunc[map[string]any](req),
		refetch.WithInterval[map[string]any](cfg.Interval.Duration()),
		refetch.WithImmediate[map[string]any](cfg.RunImmediately()),
		refetch.WithLogger[map[string]any](logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create controller: %w", err)
	}

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	updates := ctrl.Updates()
	ctrl.Start(ctx)

	for {
		select {
		case <-ctx.Done():
			ctrl.Unsubscribe(updates)
			ctrl.Stop()
			logger.Info("refetch stopped")
			return nil

		case snap := <-updates:
			attrs := []any{
				"loading", snap.Loading,
				"request_id", snap.RequestID,
			}
			if data, ok := snap.Value(); ok {
				attrs = append(attrs, "fields", len(data))
			}
			if snap.Err != nil {
				logger.Warn("state changed", append(attrs, "error", snap.Err.Error())...)
			} else {
				logger.Info("state changed", attrs...)
			}
		}
	}
}
