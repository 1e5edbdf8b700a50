package core

import "errors"

// Common errors.
var (
	// ErrNotAuthorized is returned by store operations while health-data
	// access is denied or not yet determined.
	ErrNotAuthorized = errors.New("health data access not authorized")

	// ErrStoreUnavailable signals the health record store could not be
	// reached at startup. This is the one non-recoverable condition.
	ErrStoreUnavailable = errors.New("health record store unavailable")

	// ErrNotificationsDenied signals the notification subsystem refused
	// authorization; reminders are downgraded to disabled.
	ErrNotificationsDenied = errors.New("notification authorization denied")
)
