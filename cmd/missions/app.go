package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"space-mission-pipeline/internal/analytics"
	"space-mission-pipeline/internal/config"
	"space-mission-pipeline/internal/feeds"
	"space-mission-pipeline/internal/nasa"
	"space-mission-pipeline/internal/pipeline"
	"space-mission-pipeline/internal/store"
)

// app wires every component from one configuration
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *store.Store
	pipeline  *pipeline.Pipeline
	analytics *analytics.Service
	feeds     *feeds.Cache
}

func newApp(ctx context.Context, cfgPath, logLevel string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	logger := newLogger(cfg.Log)

	st, err := store.Open(ctx, cfg.Database.Path, cfg.Database.BusyTimeoutMillis(), logger)
	if err != nil {
		return nil, err
	}
	if err := st.EnsureSchema(ctx); err != nil {
		st.Close()
		return nil, err
	}

	client := nasa.NewClient(cfg.Feeds, logger)
	return &app{
		cfg:       cfg,
		logger:    logger,
		store:     st,
		pipeline:  pipeline.New(st, cfg.Ingest, logger),
		analytics: analytics.NewService(st, logger, analytics.WithTopN(cfg.API.TopN)),
		feeds:     feeds.NewCache(st, client, cfg.Feeds, logger),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// bootstrap loads the configured source into an empty database, then warms
// the feed cache
func (a *app) bootstrap(ctx context.Context) error {
	n, err := a.store.CountMissions(ctx)
	if err != nil {
		return err
	}
	if n == 0 && a.cfg.Ingest.Source != "" {
		if _, err := os.Stat(a.cfg.Ingest.Source); err == nil || strings.Contains(a.cfg.Ingest.Source, "://") {
			if _, err := a.pipeline.LoadMissions(ctx, a.cfg.Ingest.Source); err != nil {
				return fmt.Errorf("initial load: %w", err)
			}
		} else {
			a.logger.Warn("database is empty and the configured source does not exist", "source", a.cfg.Ingest.Source)
		}
	}

	if _, err := a.feeds.RefreshAll(ctx); err != nil {
		a.logger.Warn("feed warmup failed", "error", err)
	}
	return nil
}

func newLogger(cfg config.Log) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
