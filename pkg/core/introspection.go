package core

import (
	"github.com/aretw0/introspection"
)

// TrackerState exposes internal state for observability.
type TrackerState struct {
	Unit       string  `json:"unit"`
	Total      float64 `json:"total"`
	HasRecent  bool    `json:"has_recent_entry"`
	StoreType  string  `json:"store_type"`
	SourceName string  `json:"source_name"`
}

// State implements introspection.Introspectable.
func (t *Tracker) State() any {
	t.mu.Lock()
	defer t.mu.Unlock()

	storeType := "unknown"
	if t.store != nil {
		storeType = "healthstore"
		if comp, ok := t.store.(introspection.Component); ok {
			storeType = comp.ComponentType()
		}
	}

	return TrackerState{
		Unit:       t.unit.Label(),
		Total:      t.aggregate.Total,
		HasRecent:  t.mostRecent != nil,
		StoreType:  storeType,
		SourceName: t.source,
	}
}

// ComponentType implements introspection.Component.
func (t *Tracker) ComponentType() string {
	return "tracker"
}

var _ introspection.Introspectable = (*Tracker)(nil)
var _ introspection.Component = (*Tracker)(nil)

// SchedulerState exposes internal state for observability.
type SchedulerState struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"window_start"`
	End     string `json:"window_end"`
}

// State implements introspection.Introspectable.
func (s *Scheduler) State() any {
	w := s.Window()
	return SchedulerState{
		Enabled: w.Enabled,
		Start:   w.Start.String(),
		End:     w.End.String(),
	}
}

// ComponentType implements introspection.Component.
func (s *Scheduler) ComponentType() string {
	return "scheduler"
}

var _ introspection.Introspectable = (*Scheduler)(nil)
var _ introspection.Component = (*Scheduler)(nil)
