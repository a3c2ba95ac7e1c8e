// Package app wires configuration, storage, persistence and the controller
// into one owned object shared by the display surfaces.
package app

import (
	"context"
	"expvar"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"labnotebook/internal/config"
	"labnotebook/internal/controller"
	"labnotebook/internal/kv"
	"labnotebook/internal/logging"
	"labnotebook/internal/metrics"
	"labnotebook/internal/persistence"
)

// App is the composition root. It is created once per process.
type App struct {
	Config      *config.Config
	Logger      *slog.Logger
	Store       kv.Store
	Persistence *persistence.Adapter
	Controller  *controller.Controller
	Metrics     metrics.Recorder
	// MetricsHandler is nil when metrics are disabled.
	MetricsHandler http.Handler
}

// Options supplies the pieces a display surface owns.
type Options struct {
	// LogWriter receives log output; stderr when nil.
	LogWriter io.Writer
	// Store overrides the configured backend (tests).
	Store      kv.Store
	Confirmer  controller.Confirmer
	Notifier   controller.Notifier
	Controller []controller.Option
}

// New opens storage, loads the collection and returns a ready App.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	w := opts.LogWriter
	if w == nil {
		w = os.Stderr
	}
	logger := logging.New(w, cfg.Logging.Level, cfg.Logging.Format)

	store := opts.Store
	if store == nil {
		var err error
		store, err = kv.Open(ctx, cfg.KV())
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
	}

	rec, handler := newMetrics(cfg.Metrics)
	adapter := persistence.New(store,
		persistence.WithKey(cfg.Storage.Key),
		persistence.WithLogger(logger.With("component", "persistence")),
		persistence.WithMetrics(rec),
	)
	ctlOpts := []controller.Option{
		controller.WithLogger(logger.With("component", "controller")),
		controller.WithMetrics(rec),
	}
	if opts.Confirmer != nil {
		ctlOpts = append(ctlOpts, controller.WithConfirmer(opts.Confirmer))
	}
	if opts.Notifier != nil {
		ctlOpts = append(ctlOpts, controller.WithNotifier(opts.Notifier))
	}
	ctl := controller.New(adapter, append(ctlOpts, opts.Controller...)...)
	ctl.Start(ctx)
	logger.InfoContext(ctx, "notebook ready",
		"driver", string(store.Driver()),
		"key", adapter.Key(),
		"records", len(ctl.Records()),
	)

	return &App{
		Config:         cfg,
		Logger:         logger,
		Store:          store,
		Persistence:    adapter,
		Controller:     ctl,
		Metrics:        rec,
		MetricsHandler: handler,
	}, nil
}

func newMetrics(cfg config.MetricsConfig) (metrics.Recorder, http.Handler) {
	if !cfg.Enabled {
		return metrics.Noop{}, nil
	}
	if cfg.Exporter == "expvar" {
		return metrics.NewExpvarRecorder(""), expvar.Handler()
	}
	rec := metrics.NewPrometheusRecorder("")
	return rec, rec.Handler()
}

// Close releases the storage backend.
func (a *App) Close() error {
	if err := a.Store.Close(); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}
	return nil
}
