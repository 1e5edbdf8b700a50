package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Default reminder message carried by every trigger.
const (
	ReminderTitle = "Drip says it's water time!"
	ReminderBody  = "Have you had water in the last hour?"
)

// Scheduler owns the derived set of recurring daily reminder triggers.
// Recomputation is always a full replace: cancel everything, then install
// the freshly computed set, so no duplicate or stale triggers survive a
// preference edit.
type Scheduler struct {
	nc     NotificationCenter
	prefs  PreferenceStore
	logger *slog.Logger
	newID  func() string
}

// SchedulerOption defines a functional option for configuring a Scheduler.
type SchedulerOption func(*Scheduler)

// WithSchedulerLogger sets the logger for the scheduler.
func WithSchedulerLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// NewScheduler creates a new Scheduler over the given notification center
// and preferences.
func NewScheduler(nc NotificationCenter, prefs PreferenceStore, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		nc:    nc,
		prefs: prefs,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Triggers computes the trigger set for a window: one trigger per whole hour
// from start.Hour through end.Hour inclusive, firing at start.Minute, except
// the end-hour trigger which fires at end.Minute when that is earlier (so
// the last reminder never fires past the window's intended close). A window
// whose end hour precedes its start hour yields no triggers; windows do not
// wrap past midnight.
func (s *Scheduler) Triggers(w ReminderWindow) []Trigger {
	var triggers []Trigger
	for hour := w.Start.Hour; hour <= w.End.Hour; hour++ {
		minute := w.Start.Minute
		if hour == w.End.Hour && w.End.Minute < w.Start.Minute {
			minute = w.End.Minute
		}
		triggers = append(triggers, Trigger{
			ID:      s.newID(),
			Hour:    hour,
			Minute:  minute,
			Title:   ReminderTitle,
			Body:    ReminderBody,
			Repeats: true,
		})
	}
	return triggers
}

// Apply recomputes and reinstalls the trigger set for the window as a single
// operation. Disabled windows cancel everything. Per-trigger install
// failures are isolated: they are logged, collected, and do not block
// sibling installs.
func (s *Scheduler) Apply(ctx context.Context, w ReminderWindow) error {
	if !w.Enabled {
		return s.nc.RemoveAllPending(ctx)
	}

	status, err := s.nc.AuthorizationStatus(ctx)
	if err != nil {
		return fmt.Errorf("notification status: %w", err)
	}
	if status != AuthAuthorized && status != AuthProvisional {
		return ErrNotificationsDenied
	}

	if err := s.nc.RemoveAllPending(ctx); err != nil {
		return fmt.Errorf("cancel pending: %w", err)
	}

	var installErrs []error
	for _, t := range s.Triggers(w) {
		if err := s.nc.Add(ctx, t); err != nil {
			if s.logger != nil {
				s.logger.Error("trigger install failed", "hour", t.Hour, "minute", t.Minute, "error", err)
			}
			installErrs = append(installErrs, err)
		}
	}
	return errors.Join(installErrs...)
}

// Enable requests notification authorization and, on grant, persists the
// enabled flag and installs the current window. On denial the flag is
// force-persisted to false and ErrNotificationsDenied is returned.
func (s *Scheduler) Enable(ctx context.Context) error {
	granted, err := s.nc.RequestAuthorization(ctx, AuthOptions{Alert: true, Badge: true, Sound: true})
	if err != nil {
		return fmt.Errorf("request notification authorization: %w", err)
	}
	if !granted {
		if perr := s.prefs.SetNotificationsEnabled(false); perr != nil && s.logger != nil {
			s.logger.Error("persisting denial failed", "error", perr)
		}
		return ErrNotificationsDenied
	}
	if err := s.prefs.SetNotificationsEnabled(true); err != nil {
		return fmt.Errorf("persist enabled flag: %w", err)
	}
	return s.Apply(ctx, s.Window())
}

// Disable cancels all installed triggers and persists the disabled flag.
func (s *Scheduler) Disable(ctx context.Context) error {
	if err := s.nc.RemoveAllPending(ctx); err != nil {
		return fmt.Errorf("cancel pending: %w", err)
	}
	return s.prefs.SetNotificationsEnabled(false)
}

// CheckAuthorization re-reads the notification authorization status. Runs on
// app-lifecycle-change signals: a denial observed here force-disables
// reminders and persists that. Returns whether access is denied.
func (s *Scheduler) CheckAuthorization(ctx context.Context) (bool, error) {
	status, err := s.nc.AuthorizationStatus(ctx)
	if err != nil {
		return false, fmt.Errorf("notification status: %w", err)
	}
	if status != AuthDenied {
		return false, nil
	}
	if err := s.prefs.SetNotificationsEnabled(false); err != nil {
		return true, fmt.Errorf("persist disabled flag: %w", err)
	}
	return true, nil
}

// SetWindow persists a new start/end pair and, while reminders are enabled,
// reinstalls the trigger set (the enabled state re-enters itself on every
// window edit).
func (s *Scheduler) SetWindow(ctx context.Context, start, end TimeOfDay) error {
	if err := s.prefs.SetWindow(start, end); err != nil {
		return fmt.Errorf("persist window: %w", err)
	}
	if !s.prefs.NotificationsEnabled() {
		return nil
	}
	return s.Apply(ctx, ReminderWindow{Enabled: true, Start: start, End: end})
}

// Pending returns the triggers currently installed in the notification
// center.
func (s *Scheduler) Pending(ctx context.Context) ([]Trigger, error) {
	return s.nc.Pending(ctx)
}

// Window assembles the current reminder window from preferences.
func (s *Scheduler) Window() ReminderWindow {
	start, end := s.prefs.Window()
	return ReminderWindow{
		Enabled: s.prefs.NotificationsEnabled(),
		Start:   start,
		End:     end,
	}
}
