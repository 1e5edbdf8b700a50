// Package prefs implements durable key/value preference persistence on a
// single YAML file with write-through semantics: every setter flushes
// atomically, every getter reads the in-memory cache.
package prefs

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/drip/internal/atomicfile"
	"github.com/aretw0/drip/pkg/core"
)

const fileName = "prefs.yaml"

// fileModel is the on-disk shape. Keys match the original preference names.
type fileModel struct {
	Increment            float64  `yaml:"increment"`
	Goal                 float64  `yaml:"goal"`
	NotificationsEnabled bool     `yaml:"notificationsEnabled"`
	NotificationStart    string   `yaml:"notificationStartTime"`
	NotificationEnd      string   `yaml:"notificationEndTime"`
	NotificationDays     []string `yaml:"notificationDays"`
}

// Store is a core.PreferenceStore backed by a YAML file.
type Store struct {
	path   string
	logger *slog.Logger

	mu    sync.RWMutex
	model fileModel
}

// New loads (or lazily creates) the preference file inside dir.
// Absent keys read as zero values; nothing is written until the first Set.
func New(dir string, logger *slog.Logger) (*Store, error) {
	s := &Store{
		path:   filepath.Join(dir, fileName),
		logger: logger,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read preferences: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.model); err != nil {
		return fmt.Errorf("parse preferences: %w", err)
	}
	return nil
}

// flush must be called with the write lock held.
func (s *Store) flush() error {
	data, err := yaml.Marshal(s.model)
	if err != nil {
		return fmt.Errorf("serialize preferences: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug("writing preferences", "path", s.path)
	}
	if err := atomicfile.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}

func (s *Store) Increment() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model.Increment
}

func (s *Store) SetIncrement(v float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model.Increment = v
	return s.flush()
}

func (s *Store) Goal() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model.Goal
}

func (s *Store) SetGoal(v float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model.Goal = v
	return s.flush()
}

func (s *Store) NotificationsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model.NotificationsEnabled
}

func (s *Store) SetNotificationsEnabled(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model.NotificationsEnabled = enabled
	return s.flush()
}

// Window returns the persisted reminder window times. Absent or malformed
// values read as midnight, matching the zero-value contract.
func (s *Store) Window() (core.TimeOfDay, core.TimeOfDay) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start, err := core.ParseTimeOfDay(s.model.NotificationStart)
	if err != nil {
		start = core.TimeOfDay{}
	}
	end, err := core.ParseTimeOfDay(s.model.NotificationEnd)
	if err != nil {
		end = core.TimeOfDay{}
	}
	return start, end
}

func (s *Store) SetWindow(start, end core.TimeOfDay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model.NotificationStart = start.String()
	s.model.NotificationEnd = end.String()
	return s.flush()
}

// Days returns the persisted weekday restriction. Unknown names are
// dropped rather than failing the whole read.
func (s *Store) Days() []core.Weekday {
	s.mu.RLock()
	defer s.mu.RUnlock()

	known := map[string]bool{}
	for _, d := range core.Weekdays() {
		known[string(d)] = true
	}
	var days []core.Weekday
	for _, raw := range s.model.NotificationDays {
		if known[raw] {
			days = append(days, core.Weekday(raw))
		}
	}
	return days
}

func (s *Store) SetDays(days []core.Weekday) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model.NotificationDays = make([]string, 0, len(days))
	for _, d := range days {
		s.model.NotificationDays = append(s.model.NotificationDays, string(d))
	}
	return s.flush()
}

var _ core.PreferenceStore = (*Store)(nil)
