package core_test

import (
	"math"
	"testing"
	"time"

	"github.com/aretw0/drip/pkg/core"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in      string
		want    core.TimeOfDay
		wantErr bool
	}{
		{in: "08:30", want: core.TimeOfDay{Hour: 8, Minute: 30}},
		{in: "0:00", want: core.TimeOfDay{Hour: 0, Minute: 0}},
		{in: "23:59", want: core.TimeOfDay{Hour: 23, Minute: 59}},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "08:30pm", wantErr: true},
		{in: "08:30:00", wantErr: true},
		{in: "8:3", want: core.TimeOfDay{Hour: 8, Minute: 3}},
	}
	for _, tc := range cases {
		got, err := core.ParseTimeOfDay(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestTimeOfDay_String(t *testing.T) {
	got := core.TimeOfDay{Hour: 7, Minute: 5}.String()
	if got != "07:05" {
		t.Errorf("expected zero-padded format, got %q", got)
	}
}

func TestUnitConversion(t *testing.T) {
	if got := core.FromMilliliters(500, core.Liters); got != 0.5 {
		t.Errorf("500 ml = %f L, want 0.5", got)
	}
	if got := core.ToMilliliters(0.5, core.Liters); got != 500 {
		t.Errorf("0.5 L = %f ml, want 500", got)
	}
	oz := core.FromMilliliters(500, core.FluidOunces)
	if math.Abs(oz-16.907) > 0.001 {
		t.Errorf("500 ml = %f fl oz, want ~16.907", oz)
	}
	// Unknown units round-trip untouched.
	if got := core.FromMilliliters(42, core.Unit("cups")); got != 42 {
		t.Errorf("unknown unit must pass through, got %f", got)
	}
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("TST", -5*3600)
	now := time.Date(2025, 3, 14, 15, 9, 26, 535, loc)
	start := core.StartOfDay(now)

	if h, m, s := start.Clock(); h != 0 || m != 0 || s != 0 {
		t.Errorf("expected midnight, got %02d:%02d:%02d", h, m, s)
	}
	if start.Location() != loc {
		t.Error("start of day must stay in the local zone")
	}
	if !start.Before(now) {
		t.Error("start of day must precede the sampled time")
	}
}
