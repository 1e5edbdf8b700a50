package core

import (
	"context"
	"time"
)

// HealthStore defines the contract over the external health record store.
// Adhering to this interface keeps the engine independent of the underlying
// store mechanism (SQLite, HealthKit bridge, in-memory fake).
type HealthStore interface {
	// SumToday returns the aggregate intake for [start, end) expressed in
	// the preferred unit. The boolean is false when no data exists; absence
	// of data is not an error.
	SumToday(ctx context.Context, start, end time.Time) (float64, bool, error)

	// MostRecent returns the latest same-origin entry within [start, end),
	// sorted by end time descending, limit 1. Nil when none exists.
	MostRecent(ctx context.Context, start, end time.Time) (*Entry, error)

	// Save persists a new entry.
	Save(ctx context.Context, e Entry) error

	// Delete removes an existing entry.
	Delete(ctx context.Context, e Entry) error

	// PreferredUnit returns the store's preferred unit, or false when the
	// store has no preference recorded.
	PreferredUnit(ctx context.Context) (Unit, bool, error)

	// RequestAuthorization issues the one-time read/write authorization
	// request. The returned status is terminal for the session once denied.
	RequestAuthorization(ctx context.Context) (AuthStatus, error)

	// AuthorizationStatus reports the current per-type status without
	// prompting.
	AuthorizationStatus(ctx context.Context) AuthStatus
}

// Watchable defines an interface for stores that can emit out-of-band change
// events (e.g. the preferred unit edited by another client).
type Watchable interface {
	// Watch starts observing the store and returns the event channel.
	// The channel closes when ctx is done.
	Watch(ctx context.Context) (<-chan Event, error)
}

// PreferenceStore defines durable key/value persistence for user preferences.
// Writes are write-through; reads return zero values for absent keys.
type PreferenceStore interface {
	Increment() float64
	SetIncrement(v float64) error

	Goal() float64
	SetGoal(v float64) error

	NotificationsEnabled() bool
	SetNotificationsEnabled(enabled bool) error

	// Window returns the reminder start and end times of day.
	Window() (start, end TimeOfDay)
	SetWindow(start, end TimeOfDay) error

	// Days returns the persisted weekday restriction. Present in the data
	// model but not consumed by the scheduler.
	Days() []Weekday
	SetDays(days []Weekday) error
}

// NotificationCenter defines the contract over the local notification
// subsystem: authorization, calendar-based recurring triggers keyed by
// generated identifiers, and a bulk cancel-all primitive.
type NotificationCenter interface {
	// RequestAuthorization prompts for the given capability flags.
	// False means the user denied; an error is a transport failure.
	RequestAuthorization(ctx context.Context, opts AuthOptions) (bool, error)

	// AuthorizationStatus reports the current status without prompting.
	AuthorizationStatus(ctx context.Context) (AuthStatus, error)

	// Add installs a single recurring trigger. Each install may fail
	// independently (e.g. a system-level scheduling limit).
	Add(ctx context.Context, t Trigger) error

	// RemoveAllPending cancels every installed trigger.
	RemoveAllPending(ctx context.Context) error

	// Pending returns the currently installed triggers.
	Pending(ctx context.Context) ([]Trigger, error)
}
