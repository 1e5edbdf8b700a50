package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/drip/pkg/adapters/notify"
	"github.com/aretw0/drip/pkg/adapters/prefs"
	"github.com/aretw0/drip/pkg/adapters/sqlite"
	"github.com/aretw0/drip/pkg/core"
)

// App bundles the wired components of a drip instance.
type App struct {
	Tracker   *core.Tracker
	Scheduler *core.Scheduler
	Prefs     core.PreferenceStore
	Store     core.HealthStore

	closers []func() error
}

// New wires preferences, the health store, the tracker and the scheduler
// rooted at the given data directory, and issues the one-time health
// authorization request. A store transport failure here is the one
// non-recoverable condition; denial is not an error.
func New(ctx context.Context, path string, opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	tempDir, _ := o.config["temp_dir"].(bool)
	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}
	useTemp := tempDir || (IsDevRun() && devSafety)
	resolvedPath := ResolveDataPath(path, useTemp)

	if o.logger != nil && useTemp {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolvedPath)
	}

	source, _ := o.config["source"].(string)
	if source == "" {
		source = core.DefaultSource
	}

	app := &App{}

	preferences := o.prefs
	if preferences == nil {
		p, err := prefs.New(resolvedPath, o.logger)
		if err != nil {
			return nil, fmt.Errorf("open preferences: %w", err)
		}
		preferences = p
	}
	app.Prefs = preferences

	store := o.store
	if store == nil {
		denyHealth, _ := o.config["deny_health"].(bool)
		errorHandler, _ := o.config["watcher_error_handler"].(func(error))
		s, err := sqlite.New(sqlite.Config{
			Path:              resolvedPath,
			Source:            source,
			DenyAuthorization: denyHealth,
			ErrorHandler:      errorHandler,
			Logger:            o.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("open health store: %w", err)
		}
		store = s
		app.closers = append(app.closers, s.Close)
	}
	app.Store = store

	notifier := o.notifier
	if notifier == nil {
		denyNotif, _ := o.config["deny_notifications"].(bool)
		nc, err := notify.NewFile(notify.Config{
			Path:   resolvedPath,
			Deny:   denyNotif,
			Logger: o.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("open notification ledger: %w", err)
		}
		notifier = nc
	}

	app.Tracker = core.NewTracker(store, preferences,
		core.WithTrackerLogger(o.logger),
		core.WithTrackerSource(source),
	)
	app.Scheduler = core.NewScheduler(notifier, preferences,
		core.WithSchedulerLogger(o.logger),
	)

	if _, err := app.Tracker.Authorize(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	// Adopt the store's unit before anything renders a total.
	if err := app.Tracker.SyncPreferredUnit(ctx); err != nil && o.logger != nil {
		o.logger.Warn("initial unit sync failed", "error", err)
	}

	return app, nil
}

// Close releases the underlying adapters.
func (a *App) Close() error {
	var firstErr error
	for _, fn := range a.closers {
		if err := fn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
