// Package app builds the board-race components from a loaded configuration.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobmcallan/board-race/internal/client"
	"github.com/bobmcallan/board-race/internal/common"
	"github.com/bobmcallan/board-race/internal/config"
	"github.com/bobmcallan/board-race/internal/handlers"
	"github.com/bobmcallan/board-race/internal/interfaces"
	"github.com/bobmcallan/board-race/internal/jobs"
	"github.com/bobmcallan/board-race/internal/metrics"
	"github.com/bobmcallan/board-race/internal/notify"
	"github.com/bobmcallan/board-race/internal/race"
	"github.com/bobmcallan/board-race/internal/storage"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Storage  interfaces.StorageManager
	Board    interfaces.BoardClient
	Notifier interfaces.Notifier
	Metrics  *metrics.Metrics
	Race     *race.Service

	// HTTP handlers
	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
	RecordHandler  *handlers.RecordHandler
}

// New opens storage and wires the race service. It does not check that
// credentials are present; callers that talk to Trello or Slack run
// cfg.Validate first.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	env := strings.ToLower(strings.TrimSpace(cfg.Environment))
	if cfg.IsDevMode() {
		logger.Warn().Msg("running in dev mode")
	} else if env != "prod" && env != "" {
		logger.Warn().
			Str("environment", cfg.Environment).
			Msg("unrecognized environment value, defaulting to prod behavior")
	}

	opts, err := race.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStorageManager(logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	a.Storage = store

	a.Board = client.NewTrelloClient(client.TrelloConfig{
		BaseURL:   cfg.Board.BaseURL,
		APIKey:    cfg.Board.APIKey,
		APIToken:  cfg.Board.APIToken,
		RateLimit: cfg.Board.RateLimit,
		Timeout:   cfg.Board.GetTimeout(),
	})
	a.Notifier = notify.NewSlackNotifier(cfg.Notify.WebhookURL, cfg.Notify.GetTimeout())
	a.Metrics = metrics.New()
	a.Race = race.NewService(opts, a.Board, store.RecordStorage(), a.Notifier, a.Metrics, logger)

	a.initHandlers()

	logger.Debug().
		Int("lists", len(cfg.Board.Lists)).
		Str("badger_path", cfg.Storage.Badger.Path).
		Msg("application initialization complete")

	return a, nil
}

func (a *App) initHandlers() {
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.RecordHandler = handlers.NewRecordHandler(a.Logger, a.Race)
}

// NewScheduler builds the cron runner for both phases.
func (a *App) NewScheduler() (*jobs.Scheduler, error) {
	loc, err := a.Config.Location()
	if err != nil {
		return nil, err
	}
	return jobs.New(a.Config.Schedule, loc, a.Race, a.Logger)
}

// PushMetrics sends run metrics to the configured Pushgateway, if any.
func (a *App) PushMetrics(ctx context.Context) {
	if a.Config.Metrics.PushURL == "" {
		return
	}
	if err := a.Metrics.Push(ctx, a.Config.Metrics.PushURL, a.Config.Metrics.Job); err != nil {
		a.Logger.Warn().Str("error", err.Error()).Msg("metrics push failed")
	}
}

// Close releases storage.
func (a *App) Close() error {
	if a.Storage == nil {
		return nil
	}
	return a.Storage.Close()
}
