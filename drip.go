package drip

import (
	"context"
	"log/slog"

	"github.com/aretw0/drip/internal/platform"
	"github.com/aretw0/drip/pkg/core"
)

// Version exposes the version of the library.
// See version.go for the implementation using go:embed.

// --- Types ---

// App bundles the wired tracker and scheduler for one data directory.
type App = platform.App

// Entry is a public alias for a single intake sample.
type Entry = core.Entry

// DailyAggregate is a public alias for the current-day total.
type DailyAggregate = core.DailyAggregate

// Unit is a public alias for a volume unit.
type Unit = core.Unit

// TimeOfDay is a public alias for a wall-clock instant within a day.
type TimeOfDay = core.TimeOfDay

// ReminderWindow is a public alias for the reminder scheduling window.
type ReminderWindow = core.ReminderWindow

// Trigger is a public alias for a pending reminder.
type Trigger = core.Trigger

// --- Configuration ---

// Option defines a functional option for configuring drip.
type Option = platform.Option

// WithLogger sets the logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithHealthStore allows injecting a custom health store adapter.
func WithHealthStore(store core.HealthStore) Option {
	return platform.WithHealthStore(store)
}

// WithNotifier allows injecting a custom notification center.
func WithNotifier(nc core.NotificationCenter) Option {
	return platform.WithNotifier(nc)
}

// WithPreferences allows injecting a custom preference store.
func WithPreferences(prefs core.PreferenceStore) Option {
	return platform.WithPreferences(prefs)
}

// WithSource overrides the origin name written with each entry.
func WithSource(source string) Option {
	return platform.WithSource(source)
}

// WithForceTemp forces the data directory into a temporary location (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the sandbox safety mechanism when running via `go run`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithDeniedHealthAccess makes the health store deny its authorization request.
func WithDeniedHealthAccess(denied bool) Option {
	return platform.WithDeniedHealthAccess(denied)
}

// WithDeniedNotifications makes the notification center deny its authorization request.
func WithDeniedNotifications(denied bool) Option {
	return platform.WithDeniedNotifications(denied)
}

// WithWatcherErrorHandler registers a callback for unit-watch errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New creates a fully wired drip App rooted at the given data directory.
func New(ctx context.Context, path string, opts ...Option) (*App, error) {
	return platform.New(ctx, path, opts...)
}

// --- Safety & Utils ---

// ResolveDataPath determines the actual path for the data directory based on safety rules.
func ResolveDataPath(userPath string, forceTemp bool) string {
	return platform.ResolveDataPath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}
