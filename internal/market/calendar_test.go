package market

import (
	"testing"
	"time"
)

func ist(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("load tz: %v", err)
	}
	return loc
}

func TestCalendarWeekdaySession(t *testing.T) {
	cal := NewCalendar("Asia/Kolkata")
	loc := ist(t)

	cases := []struct {
		name string
		at   time.Time
		open bool
	}{
		{"before open", time.Date(2026, 3, 4, 9, 14, 0, 0, loc), false},
		{"at open", time.Date(2026, 3, 4, 9, 15, 0, 0, loc), true},
		{"midday", time.Date(2026, 3, 4, 12, 0, 0, 0, loc), true},
		{"at close", time.Date(2026, 3, 4, 15, 30, 0, 0, loc), true},
		{"after close", time.Date(2026, 3, 4, 15, 31, 0, 0, loc), false},
		{"saturday", time.Date(2026, 3, 7, 12, 0, 0, 0, loc), false},
		{"sunday", time.Date(2026, 3, 8, 12, 0, 0, 0, loc), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cal.IsOpen(tc.at); got != tc.open {
				t.Errorf("IsOpen(%v) = %v, want %v", tc.at, got, tc.open)
			}
		})
	}
}

func TestCalendarBudgetDayWeekendException(t *testing.T) {
	cal := NewCalendar("Asia/Kolkata")
	loc := ist(t)

	// Feb 1 2026 is a Sunday but the budget session trades.
	budgetDay := time.Date(2026, 2, 1, 11, 0, 0, 0, loc)
	if !cal.IsOpen(budgetDay) {
		t.Error("budget day session should be open despite weekend")
	}

	// Outside session hours still closed, even on budget day.
	budgetEvening := time.Date(2026, 2, 1, 17, 0, 0, 0, loc)
	if cal.IsOpen(budgetEvening) {
		t.Error("budget day after close should be closed")
	}
}

func TestCalendarStatus(t *testing.T) {
	cal := NewCalendar("Asia/Kolkata")
	loc := ist(t)

	if got := cal.Status(time.Date(2026, 3, 4, 12, 0, 0, 0, loc)); got != "OPEN" {
		t.Errorf("status = %q", got)
	}
	if got := cal.Status(time.Date(2026, 3, 4, 20, 0, 0, 0, loc)); got != "CLOSED" {
		t.Errorf("status = %q", got)
	}
}

func TestCalendarBadTimezoneFallsBack(t *testing.T) {
	cal := NewCalendar("Mars/Olympus")
	if cal.Location() == nil {
		t.Fatal("location should fall back, not be nil")
	}
	if cal.Location().String() != "Asia/Kolkata" {
		t.Errorf("fallback location = %q", cal.Location())
	}
}

func TestStrikeStep(t *testing.T) {
	cases := map[string]int{
		"NIFTY":      50,
		"BANKNIFTY":  100,
		"FINNIFTY":   50,
		"MIDCPNIFTY": 25,
		"RELIANCE":   50,
	}
	for sym, want := range cases {
		if got := StrikeStep(sym); got != want {
			t.Errorf("StrikeStep(%s) = %d, want %d", sym, got, want)
		}
	}
}
