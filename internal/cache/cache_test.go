package cache

import (
	"testing"
	"time"
)

func TestTTLFreshAndExpired(t *testing.T) {
	c := NewTTL[[]string](60 * time.Second)
	base := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	now := base
	c.now = func() time.Time { return now }

	if _, ok := c.Get(); ok {
		t.Fatal("empty cache should miss")
	}

	c.Set([]string{"a", "b"})

	now = base.Add(59 * time.Second)
	v, ok := c.Get()
	if !ok || len(v) != 2 {
		t.Fatalf("fresh entry should hit, got ok=%v v=%v", ok, v)
	}

	now = base.Add(61 * time.Second)
	if _, ok := c.Get(); ok {
		t.Fatal("expired entry should miss")
	}

	// stale data still reachable via Peek
	if v, ok := c.Peek(); !ok || len(v) != 2 {
		t.Fatalf("peek should return stale value, got ok=%v v=%v", ok, v)
	}
}

func TestTTLClear(t *testing.T) {
	c := NewTTL[int](time.Minute)
	c.Set(42)
	c.Clear()
	if _, ok := c.Peek(); ok {
		t.Fatal("cleared cache should miss even on Peek")
	}
}

func TestDailyCalendarRollover(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("load tz: %v", err)
	}

	c := NewDaily[string](loc)
	stored := time.Date(2026, 3, 4, 23, 50, 0, 0, loc)
	now := stored
	c.now = func() time.Time { return now }

	c.Set("close-data")

	// Still the same calendar day hours later in wall-clock terms.
	now = stored.Add(9 * time.Minute)
	if v, ok := c.Get(); !ok || v != "close-data" {
		t.Fatalf("same-day entry should hit, got ok=%v v=%q", ok, v)
	}

	// Eleven minutes later it is the next date: entry is invalid,
	// even though far less than 24h elapsed.
	now = stored.Add(11 * time.Minute)
	if _, ok := c.Get(); ok {
		t.Fatal("entry should expire at calendar rollover")
	}
}

func TestKeyedGetSetSweep(t *testing.T) {
	c := NewKeyed[float64](60 * time.Second)
	base := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	now := base
	c.now = func() time.Time { return now }

	c.Set("NIFTY", 25350)
	c.Set("BANKNIFTY", 53800)

	if v, ok := c.Get("NIFTY"); !ok || v != 25350 {
		t.Fatalf("get = %v, %v", v, ok)
	}
	if _, ok := c.Get("FINNIFTY"); ok {
		t.Fatal("unknown key should miss")
	}

	now = base.Add(2 * time.Minute)
	if _, ok := c.Get("NIFTY"); ok {
		t.Fatal("expired key should miss")
	}

	if n := c.Sweep(); n != 2 {
		t.Errorf("sweep removed %d, want 2", n)
	}
	if c.Len() != 0 {
		t.Errorf("len after sweep = %d", c.Len())
	}
}

func TestKeyedClearWholesale(t *testing.T) {
	c := NewKeyed[int](time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("len after clear = %d", c.Len())
	}
}
