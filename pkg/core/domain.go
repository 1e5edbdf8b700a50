// Entry is the central entity of the domain.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Unit identifies a volume unit as reported by the health record store.
// Units are opaque identifiers with a canonical short label; the store owns
// the set, the engine never invents new ones.
type Unit string

const (
	Milliliters Unit = "ml"
	Liters      Unit = "L"
	FluidOunces Unit = "fl oz"
)

// Label returns the canonical short display label for the unit.
func (u Unit) Label() string {
	return string(u)
}

// millilitersPer maps known units to their size in milliliters.
// Unknown units fall back to 1 (treated as already canonical).
func millilitersPer(u Unit) float64 {
	switch u {
	case Milliliters:
		return 1
	case Liters:
		return 1000
	case FluidOunces:
		return 29.5735295625
	default:
		return 1
	}
}

// FromMilliliters converts a canonical milliliter value into unit u.
func FromMilliliters(v float64, u Unit) float64 {
	return v / millilitersPer(u)
}

// ToMilliliters converts a value expressed in unit u into milliliters.
func ToMilliliters(v float64, u Unit) float64 {
	return v * millilitersPer(u)
}

// DefaultIncrementMilliliters is the seed quantity for the increment
// preference, expressed in the smallest supported volume granularity.
const DefaultIncrementMilliliters = 500

// Entry is a single intake record in the health record store.
type Entry struct {
	ID     string
	Value  float64
	Unit   Unit
	Source string
	Start  time.Time
	End    time.Time
}

// DailyAggregate is a snapshot of today's total intake. It is recomputed on
// every refresh, never incrementally mutated.
type DailyAggregate struct {
	Unit        Unit
	Total       float64
	WindowStart time.Time
	WindowEnd   time.Time
}

// TimeOfDay is a wall-clock hour:minute value, day-independent.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a "HH:MM" string. Trailing content after the
// minutes is rejected.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q out of range", s)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ReminderWindow is the daily start/end range within which hourly reminders
// are scheduled. Both times are same-day; the window never wraps midnight.
type ReminderWindow struct {
	Enabled bool
	Start   TimeOfDay
	End     TimeOfDay
}

// Trigger is an installed, recurring, time-of-day notification schedule entry.
type Trigger struct {
	ID      string
	Hour    int
	Minute  int
	Title   string
	Body    string
	Repeats bool
}

// Weekday mirrors the persisted day-restriction preference. It is stored and
// edited but not yet consulted by the scheduler.
type Weekday string

const (
	Sunday    Weekday = "Sunday"
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
)

// Weekdays lists all weekdays in preference order.
func Weekdays() []Weekday {
	return []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

// AuthStatus is the observable authorization state of an external subsystem
// (health store or notification center).
type AuthStatus string

const (
	AuthNotDetermined AuthStatus = "notDetermined"
	AuthDenied        AuthStatus = "denied"
	AuthAuthorized    AuthStatus = "authorized"
	AuthProvisional   AuthStatus = "provisional"
)

// AuthOptions are the capability flags requested from the notification
// subsystem.
type AuthOptions struct {
	Alert bool
	Badge bool
	Sound bool
}

// EventType represents the type of out-of-band change in the health store.
type EventType string

const (
	EventUnitChanged EventType = "UNIT_CHANGED"
)

// Event represents an out-of-band change observed in the health store.
type Event struct {
	Type      EventType
	Unit      Unit
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer (and the lifecycle Event contract).
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Unit)
}

// StartOfDay returns midnight local time for the day containing t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
