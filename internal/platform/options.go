package platform

import (
	"log/slog"

	"github.com/aretw0/drip/pkg/core"
)

// options holds the internal configuration for the drip application.
type options struct {
	store    core.HealthStore
	notifier core.NotificationCenter
	prefs    core.PreferenceStore
	logger   *slog.Logger
	config   map[string]interface{}
}

// Option defines a functional option for configuring drip.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		store:    nil,
		notifier: nil,
		prefs:    nil,
		logger:   nil,
		config:   make(map[string]interface{}),
	}
}

// WithLogger sets the logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHealthStore allows injecting a custom health store adapter
// (e.g. mock, HealthKit bridge). If provided, the default SQLite adapter
// will be skipped.
func WithHealthStore(store core.HealthStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithNotifier allows injecting a custom notification center.
// If provided, the default file-backed center will be skipped.
func WithNotifier(nc core.NotificationCenter) Option {
	return func(o *options) {
		o.notifier = nc
	}
}

// WithPreferences allows injecting a custom preference store.
func WithPreferences(prefs core.PreferenceStore) Option {
	return func(o *options) {
		o.prefs = prefs
	}
}

// WithSource overrides the origin name written with each entry.
func WithSource(source string) Option {
	return func(o *options) {
		o.config["source"] = source
	}
}

// WithForceTemp forces the data directory into a temporary location
// (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithDevSafety controls the "Sandbox" safety mechanism when running via
// `go run`. By default (true) the data dir is re-rooted into a temporary
// directory to prevent accidental writes to real data.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithDeniedHealthAccess makes the health store resolve its one-time
// authorization request to denied. Exercises the permission-explainer path.
func WithDeniedHealthAccess(denied bool) Option {
	return func(o *options) {
		o.config["deny_health"] = denied
	}
}

// WithDeniedNotifications makes the notification center resolve its
// authorization request to denied.
func WithDeniedNotifications(denied bool) Option {
	return func(o *options) {
		o.config["deny_notifications"] = denied
	}
}

// WithWatcherErrorHandler registers a callback for errors occurring during
// the unit watch loop.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}
