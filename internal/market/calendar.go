package market

import "time"

// Session window of the Indian cash market, local exchange time.
const (
	openHour    = 9
	openMinute  = 15
	closeHour   = 15
	closeMinute = 30
)

// Calendar answers market-open questions for a fixed timezone.
type Calendar struct {
	loc *time.Location
}

// NewCalendar builds a Calendar for the given timezone name,
// defaulting to Asia/Kolkata when the name cannot be loaded.
func NewCalendar(tz string) *Calendar {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc, _ = time.LoadLocation("Asia/Kolkata")
	}
	return &Calendar{loc: loc}
}

// IsOpen reports whether the market is open at t. Open means a weekday
// between 09:15 and 15:30 local time. The Union Budget session on
// Feb 1 trades even when it lands on a weekend.
func (c *Calendar) IsOpen(t time.Time) bool {
	local := t.In(c.loc)

	budgetDay := local.Month() == time.February && local.Day() == 1
	wd := local.Weekday()
	if (wd == time.Saturday || wd == time.Sunday) && !budgetDay {
		return false
	}

	minutes := local.Hour()*60 + local.Minute()
	return minutes >= openHour*60+openMinute && minutes <= closeHour*60+closeMinute
}

// Status returns "OPEN" or "CLOSED" for t.
func (c *Calendar) Status(t time.Time) string {
	if c.IsOpen(t) {
		return "OPEN"
	}
	return "CLOSED"
}

// Today returns the current calendar date in the market timezone.
func (c *Calendar) Today(t time.Time) (year int, month time.Month, day int) {
	return t.In(c.loc).Date()
}

// Location exposes the market timezone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}
