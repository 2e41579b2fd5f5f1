package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/tasktimeline/internal/rpc"
	"github.com/rcliao/tasktimeline/internal/service"
	"github.com/rcliao/tasktimeline/internal/vault"
)

// watchCmd refreshes on file changes and on a timer
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refresh whenever notes change",
	Long: `Watch the notes folder and run a pass whenever a note is created, changed
or deleted, and every refresh.interval. Each pass prints a summary line.

Examples:
  tasktimeline watch
  TASKTIMELINE_REFRESH_INTERVAL=1m tasktimeline watch`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

// serveCmd serves JSON-RPC over stdio
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve JSON-RPC 2.0 on stdin/stdout",
	Long: `Serve line-delimited JSON-RPC 2.0 on stdin/stdout. Logs go to stderr.

Methods:
  timeline.refresh   {"today"?: "YYYY-MM-DD"}
  timeline.calendar  {"today"?: "YYYY-MM-DD"}
  timeline.summary   {"today"?: "YYYY-MM-DD"}
  timeline.search    {"query": "milk", "today"?, "limit"?, "offset"?}
  tags.move          {"tag": "#A", "anchor": "#B"}
  tags.color         {"tag": "#A", "color": "#ff0000"}  (empty color clears)
  tags.reset
  pattern.presets    {"dateFormat"?: "DD-MMM-YYYY"}
  shutdown`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	refresher := a.refresher(service.WithPassHandler(func(pass *service.Pass, err error) {
		if err != nil {
			fmt.Fprintf(errOut, "refresh failed: %v\n", err)
			return
		}
		writeWarnings(errOut, pass)
		fmt.Fprintln(out, formatPassLine(pass))
	}))

	watcher, err := vault.NewWatcher(a.source, a.cfg.Refresh.Debounce.Duration(), a.cfg.Refresh.Interval.Duration(), a.logger)
	if err != nil {
		return err
	}
	defer watcher.Stop()
	if err := watcher.Start(ctx); err != nil {
		return err
	}

	if _, err := refresher.TryRefresh(ctx); err != nil {
		return err
	}

	a.logger.Info(ctx, "watching", zap.String("root", a.source.Root()))
	if err := refresher.Run(ctx, watcher.Triggers()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	server := rpc.NewServer(rpc.ServerDeps{
		Workspace:   a.workspace,
		Refresher:   a.refresher(),
		Preferences: a.preferences,
		Timeline:    a.timeline,
		DateFormat:  a.cfg.Extraction.DateFormat,
		Logger:      a.logger,
	})

	a.logger.Info(ctx, "serving JSON-RPC on stdio", zap.String("root", a.source.Root()))
	transport := rpc.NewTransport(cmd.InOrStdin(), cmd.OutOrStdout(), server, a.logger)
	if err := transport.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
