package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultSource is the origin name attached to entries written by this app.
const DefaultSource = "drip"

// Tracker handles the business logic for the daily intake metric: it owns
// today's aggregate, the preferred unit and the most-recent-entry pointer,
// and reconciles them against the health record store.
//
// All state mutation happens under a single mutex after the store call has
// completed, so overlapping refreshes cannot interleave partial writes.
// The tracker never auto-refreshes after writes; callers sequence
// write-then-refresh themselves to keep the two concerns independently
// retryable.
type Tracker struct {
	mu         sync.Mutex
	store      HealthStore
	prefs      PreferenceStore
	logger     *slog.Logger
	source     string
	unit       Unit
	unitKnown  bool
	aggregate  DailyAggregate
	mostRecent *Entry
}

// TrackerOption defines a functional option for configuring a Tracker.
type TrackerOption func(*Tracker)

// WithTrackerLogger sets the logger for the tracker.
func WithTrackerLogger(logger *slog.Logger) TrackerOption {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// WithTrackerSource overrides the origin name used for written entries.
func WithTrackerSource(source string) TrackerOption {
	return func(t *Tracker) {
		t.source = source
	}
}

// NewTracker creates a new Tracker over the given store and preferences.
func NewTracker(store HealthStore, prefs PreferenceStore, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		store:  store,
		prefs:  prefs,
		source: DefaultSource,
		unit:   Milliliters,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Authorize issues the one-time health-data authorization request.
// A transport failure is non-recoverable (the process cannot function
// without a data store); denial is recorded and left to the UI to explain,
// subsequent store operations surface recoverable errors.
func (t *Tracker) Authorize(ctx context.Context) (AuthStatus, error) {
	status, err := t.store.RequestAuthorization(ctx)
	if err != nil {
		return AuthNotDetermined, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if status != AuthAuthorized && t.logger != nil {
		t.logger.Warn("health data access not granted", "status", status)
	}
	return status, nil
}

// RefreshAggregate re-queries today's total for [startOfToday, now) and
// replaces the in-memory aggregate. On failure the prior snapshot is
// retained and the error is returned, never fatal.
func (t *Tracker) RefreshAggregate(ctx context.Context) error {
	now := time.Now()
	start := StartOfDay(now)

	total, ok, err := t.store.SumToday(ctx, start, now)
	if err != nil {
		if t.logger != nil {
			t.logger.Debug("aggregate refresh failed", "error", err)
		}
		return fmt.Errorf("refresh aggregate: %w", err)
	}
	if !ok {
		total = 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.aggregate = DailyAggregate{
		Unit:        t.unit,
		Total:       total,
		WindowStart: start,
		WindowEnd:   now,
	}
	return nil
}

// RefreshMostRecent re-queries the latest same-origin entry for today and
// replaces the in-memory pointer (possibly to nil). On failure the prior
// value is retained.
func (t *Tracker) RefreshMostRecent(ctx context.Context) error {
	now := time.Now()
	start := StartOfDay(now)

	entry, err := t.store.MostRecent(ctx, start, now)
	if err != nil {
		if t.logger != nil {
			t.logger.Debug("most-recent refresh failed", "error", err)
		}
		return fmt.Errorf("refresh most recent: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.mostRecent = entry
	return nil
}

// Add writes a point-in-time intake entry valued in the current unit.
// A non-positive amount means "use the increment preference". The in-memory
// aggregate is NOT optimistically incremented; the store is the source of
// truth and the caller refreshes after the write completes.
func (t *Tracker) Add(ctx context.Context, amount float64) error {
	t.mu.Lock()
	unit := t.unit
	source := t.source
	t.mu.Unlock()

	if amount <= 0 {
		amount = t.prefs.Increment()
	}
	if amount <= 0 {
		amount = FromMilliliters(DefaultIncrementMilliliters, unit)
	}

	now := time.Now()
	entry := Entry{
		Value:  amount,
		Unit:   unit,
		Source: source,
		Start:  now,
		End:    now,
	}
	if err := t.store.Save(ctx, entry); err != nil {
		return fmt.Errorf("save entry: %w", err)
	}
	if t.logger != nil {
		t.logger.Debug("entry saved", "value", amount, "unit", unit)
	}
	return nil
}

// Remove deletes the most recent same-origin entry. It is a no-op when no
// such entry is known; no delete call is issued in that case.
func (t *Tracker) Remove(ctx context.Context) error {
	t.mu.Lock()
	entry := t.mostRecent
	t.mu.Unlock()

	if entry == nil {
		if t.logger != nil {
			t.logger.Debug("remove skipped, no recent entry")
		}
		return nil
	}
	if err := t.store.Delete(ctx, *entry); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

// SyncPreferredUnit adopts the store's preferred unit when it differs from
// the current one, and lazily seeds the increment preference to the
// unit-converted default quantity. Seeding only happens when the stored
// increment is absent or non-positive, so re-running is idempotent.
func (t *Tracker) SyncPreferredUnit(ctx context.Context) error {
	unit, ok, err := t.store.PreferredUnit(ctx)
	if err != nil {
		return fmt.Errorf("query preferred unit: %w", err)
	}
	if !ok {
		return nil
	}

	t.mu.Lock()
	changed := !t.unitKnown || unit != t.unit
	t.unit = unit
	t.unitKnown = true
	t.mu.Unlock()

	if !changed {
		return nil
	}
	if t.logger != nil {
		t.logger.Info("preferred unit changed", "unit", unit)
	}
	if t.prefs.Increment() <= 0 {
		seed := FromMilliliters(DefaultIncrementMilliliters, unit)
		if err := t.prefs.SetIncrement(seed); err != nil {
			return fmt.Errorf("seed increment: %w", err)
		}
	}
	return nil
}

// Run subscribes to the store's out-of-band change events and applies unit
// syncs until ctx is done. The subscription is tied to this call; returning
// tears it down.
func (t *Tracker) Run(ctx context.Context) error {
	w, ok := t.store.(Watchable)
	if !ok {
		return errors.New("store does not support watching")
	}
	events, err := w.Watch(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, open := <-events:
			if !open {
				return nil
			}
			if e.Type != EventUnitChanged {
				continue
			}
			if err := t.SyncPreferredUnit(ctx); err != nil {
				if t.logger != nil {
					t.logger.Error("unit sync failed", "error", err)
				}
				continue
			}
			// Unit changes invalidate the displayed total; totals are
			// never converted client-side.
			if err := t.RefreshAggregate(ctx); err != nil && t.logger != nil {
				t.logger.Error("aggregate refresh failed", "error", err)
			}
		}
	}
}

// Aggregate returns a copy of the current daily aggregate snapshot.
func (t *Tracker) Aggregate() DailyAggregate {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.aggregate
}

// MostRecentEntry returns a copy of the most recent same-origin entry, or
// nil when none is known.
func (t *Tracker) MostRecentEntry() *Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.mostRecent == nil {
		return nil
	}
	entry := *t.mostRecent
	return &entry
}

// Unit returns the currently preferred unit.
func (t *Tracker) Unit() Unit {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.unit
}
