package signals

import "testing"

func TestClassifyOIShiftTable(t *testing.T) {
	cases := []struct {
		name    string
		call    int64
		put     int64
		status  string
	}{
		{"short covering", -50000, 80000, OIShortCovering},
		{"long unwinding", 60000, -40000, OILongUnwinding},
		{"mild bullish", 30000, 90000, OIMildBullish},
		{"mild bearish equal", 50000, 50000, OIMildBearish},
		{"mild bearish call heavy", 90000, 30000, OIMildBearish},
		{"uncertain", -20000, -30000, OIUncertain},
		{"neutral zero call", 0, 50000, OINeutral},
		{"neutral zero put", 50000, 0, OINeutral},
		{"neutral both zero", 0, 0, OINeutral},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyOIShift(tc.call, tc.put)
			if got.Status != tc.status {
				t.Errorf("ClassifyOIShift(%d, %d) = %q, want %q", tc.call, tc.put, got.Status, tc.status)
			}
		})
	}
}

func TestShortCoveringRegardlessOfMagnitude(t *testing.T) {
	for _, call := range []int64{-1, -1000, -9999999} {
		for _, put := range []int64{1, 1000, 9999999} {
			if got := ClassifyOIShift(call, put).Status; got != OIShortCovering {
				t.Errorf("(%d, %d) = %q, want SHORT COVERING", call, put, got)
			}
		}
	}
}

func TestClassifyOIShiftTotal(t *testing.T) {
	// Every input yields exactly one non-empty label.
	values := []int64{-100, -1, 0, 1, 100}
	for _, c := range values {
		for _, p := range values {
			got := ClassifyOIShift(c, p)
			if got.Status == "" || got.Message == "" || got.Color == "" {
				t.Errorf("(%d, %d) produced empty classification: %+v", c, p, got)
			}
		}
	}
}

func TestBarColor(t *testing.T) {
	cases := []struct {
		change int64
		isCall bool
		want   string
	}{
		{-1000, true, "GREEN"}, // call unwinding
		{1000, true, "RED"},    // call writing
		{1000, false, "GREEN"}, // put writing
		{-1000, false, "RED"},  // put unwinding
		{0, true, "GREY"},
		{0, false, "GREY"},
	}
	for _, tc := range cases {
		if got := BarColor(tc.change, tc.isCall); got != tc.want {
			t.Errorf("BarColor(%d, %v) = %q, want %q", tc.change, tc.isCall, got, tc.want)
		}
	}
}
