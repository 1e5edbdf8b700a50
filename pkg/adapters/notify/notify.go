// Package notify implements the local notification subsystem boundary:
// authorization with capability flags, recurring triggers keyed by
// generated identifiers, and a bulk cancel-all primitive. The file-backed
// center persists its pending set so a companion delivery process can
// consume it; the memory center serves tests and dry runs.
package notify

import "errors"

// DefaultLimit is the per-process cap on pending triggers, mirroring the
// platform scheduling limit that makes individual installs fail.
const DefaultLimit = 64

// ErrTriggerLimit is returned by Add when the pending set is full. The
// failure is per-trigger; sibling installs are unaffected.
var ErrTriggerLimit = errors.New("pending trigger limit reached")
