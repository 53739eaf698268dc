package posts

import (
	"fmt"
	"time"
)

// dateOnlyLayout is accepted by ParseDate in addition to RFC 3339
const dateOnlyLayout = "2006-01-02"

// DayBounds returns the first and last millisecond of the calendar day containing t in loc.
// Both bounds are inclusive.
func DayBounds(t time.Time, loc *time.Location) (start, end time.Time) {
	local := t.In(loc)
	start = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, EndOfDay(local, loc)
}

// EndOfDay returns 23:59:59.999 of the calendar day containing t in loc
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
}

// ParseDate parses an RFC 3339 timestamp or a YYYY-MM-DD date (midnight in loc)
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(dateOnlyLayout, value, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected RFC 3339 timestamp or YYYY-MM-DD", value)
}
