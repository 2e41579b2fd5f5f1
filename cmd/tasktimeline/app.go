package main

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/rcliao/tasktimeline/internal/config"
	"github.com/rcliao/tasktimeline/internal/domain"
	"github.com/rcliao/tasktimeline/internal/logging"
	"github.com/rcliao/tasktimeline/internal/metrics"
	"github.com/rcliao/tasktimeline/internal/pattern"
	"github.com/rcliao/tasktimeline/internal/service"
	"github.com/rcliao/tasktimeline/internal/storage"
	"github.com/rcliao/tasktimeline/internal/vault"
)

// app wires configuration to the services a command needs.
type app struct {
	cfg         *config.Config
	logger      *logging.Logger
	metrics     *metrics.Metrics
	source      *vault.Source
	store       *storage.FileStorage
	timeline    *service.TimelineService
	workspace   *service.Workspace
	preferences *service.PreferenceService
	today       domain.CalendarDate
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if rootDir != "" {
		cfg.Vault.Root = rootDir
	}

	var today domain.CalendarDate
	if todayFlag != "" {
		if err := today.UnmarshalText([]byte(todayFlag)); err != nil {
			return nil, fmt.Errorf("--today must be YYYY-MM-DD: %w", err)
		}
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	statePath := cfg.State.Path
	if !filepath.IsAbs(statePath) {
		statePath = filepath.Join(cfg.Vault.Root, statePath)
	}
	store, err := storage.NewFileStorage(statePath, cfg.Preferences())
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	holder := pattern.NewHolder(pattern.WithMatchTimeout(cfg.Extraction.MatchTimeout.Duration()))
	timeline := service.NewTimelineService(holder, logger, service.WithMetrics(m))
	source := vault.NewSource(cfg.Vault.Root, cfg.Vault.Extensions, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		metrics:  m,
		source:   source,
		store:    store,
		timeline: timeline,
		workspace: service.NewWorkspace(source, store, timeline, service.Settings{
			Pattern:          cfg.Pattern(),
			Sort:             domain.SortPolicy(cfg.View.SortOrder),
			IncludeCompleted: cfg.View.ShowCompleted,
			MaxVisible:       cfg.View.MaxPerDay,
		}),
		preferences: service.NewPreferenceService(store, cfg.Preferences(), logger),
		today:       today,
	}, nil
}

func (a *app) refresher(opts ...service.RefresherOption) *service.Refresher {
	opts = append(opts, service.WithRefresherMetrics(a.metrics))
	return service.NewRefresher(a.workspace.RefreshFunc(a.today), a.logger, opts...)
}

// Close flushes logs and writes the metrics textfile if one is configured.
func (a *app) Close() {
	if path := a.cfg.Metrics.Textfile; path != "" {
		if err := a.metrics.WriteTextfile(path); err != nil {
			a.logger.Warn(context.Background(), "failed to write metrics textfile", zap.String("path", path), zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
