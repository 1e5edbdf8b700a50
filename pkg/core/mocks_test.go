package core_test

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/aretw0/drip/pkg/core"
)

// MockHealthStore implements core.HealthStore in memory. Entries live in a
// slice; failure flags let tests force recoverable errors per operation.
type MockHealthStore struct {
	entries   []core.Entry
	nextID    int
	unit      core.Unit
	hasUnit   bool
	status    core.AuthStatus
	failSum   bool
	failQuery bool
	failSave  bool
	failDel   bool
	deletes   int
}

func NewMockHealthStore() *MockHealthStore {
	return &MockHealthStore{
		unit:    core.Milliliters,
		hasUnit: true,
		status:  core.AuthAuthorized,
	}
}

func (m *MockHealthStore) SumToday(ctx context.Context, start, end time.Time) (float64, bool, error) {
	if m.failSum {
		return 0, false, errors.New("query failed")
	}
	var total float64
	var any bool
	for _, e := range m.entries {
		if e.End.Before(start) || !e.End.Before(end) {
			continue
		}
		total += core.FromMilliliters(core.ToMilliliters(e.Value, e.Unit), m.unit)
		any = true
	}
	return total, any, nil
}

func (m *MockHealthStore) MostRecent(ctx context.Context, start, end time.Time) (*core.Entry, error) {
	if m.failQuery {
		return nil, errors.New("query failed")
	}
	var candidates []core.Entry
	for _, e := range m.entries {
		if e.Source != core.DefaultSource {
			continue
		}
		if e.End.Before(start) || !e.End.Before(end) {
			continue
		}
		candidates = append(candidates, e)
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].End.After(candidates[j].End)
	})
	latest := candidates[0]
	return &latest, nil
}

func (m *MockHealthStore) Save(ctx context.Context, e core.Entry) error {
	if m.failSave {
		return errors.New("save failed")
	}
	m.nextID++
	e.ID = string(rune('a' + m.nextID))
	m.entries = append(m.entries, e)
	return nil
}

func (m *MockHealthStore) Delete(ctx context.Context, e core.Entry) error {
	m.deletes++
	if m.failDel {
		return errors.New("delete failed")
	}
	for i, cur := range m.entries {
		if cur.ID == e.ID {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (m *MockHealthStore) PreferredUnit(ctx context.Context) (core.Unit, bool, error) {
	return m.unit, m.hasUnit, nil
}

func (m *MockHealthStore) RequestAuthorization(ctx context.Context) (core.AuthStatus, error) {
	return m.status, nil
}

func (m *MockHealthStore) AuthorizationStatus(ctx context.Context) core.AuthStatus {
	return m.status
}

// MockPrefs implements core.PreferenceStore in memory.
type MockPrefs struct {
	increment float64
	goal      float64
	enabled   bool
	start     core.TimeOfDay
	end       core.TimeOfDay
	days      []core.Weekday
	setCalls  int
}

func (p *MockPrefs) Increment() float64 { return p.increment }
func (p *MockPrefs) SetIncrement(v float64) error {
	p.increment = v
	p.setCalls++
	return nil
}

func (p *MockPrefs) Goal() float64           { return p.goal }
func (p *MockPrefs) SetGoal(v float64) error { p.goal = v; return nil }

func (p *MockPrefs) NotificationsEnabled() bool { return p.enabled }
func (p *MockPrefs) SetNotificationsEnabled(enabled bool) error {
	p.enabled = enabled
	return nil
}

func (p *MockPrefs) Window() (core.TimeOfDay, core.TimeOfDay) { return p.start, p.end }
func (p *MockPrefs) SetWindow(start, end core.TimeOfDay) error {
	p.start, p.end = start, end
	return nil
}

func (p *MockPrefs) Days() []core.Weekday { return p.days }
func (p *MockPrefs) SetDays(days []core.Weekday) error {
	p.days = days
	return nil
}

// MockNotifier implements core.NotificationCenter in memory.
// failEvery > 0 makes every nth Add fail, to exercise install isolation.
type MockNotifier struct {
	status    core.AuthStatus
	granted   bool
	pending   []core.Trigger
	addCalls  int
	failEvery int
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{status: core.AuthAuthorized, granted: true}
}

func (n *MockNotifier) RequestAuthorization(ctx context.Context, opts core.AuthOptions) (bool, error) {
	if !n.granted {
		n.status = core.AuthDenied
	}
	return n.granted, nil
}

func (n *MockNotifier) AuthorizationStatus(ctx context.Context) (core.AuthStatus, error) {
	return n.status, nil
}

func (n *MockNotifier) Add(ctx context.Context, t core.Trigger) error {
	n.addCalls++
	if n.failEvery > 0 && n.addCalls%n.failEvery == 0 {
		return errors.New("scheduling limit reached")
	}
	n.pending = append(n.pending, t)
	return nil
}

func (n *MockNotifier) RemoveAllPending(ctx context.Context) error {
	n.pending = nil
	return nil
}

func (n *MockNotifier) Pending(ctx context.Context) ([]core.Trigger, error) {
	out := make([]core.Trigger, len(n.pending))
	copy(out, n.pending)
	return out, nil
}
