package util

import (
	"fmt"
	"time"
)

// DisplayLayout is how timestamps are printed on pages.
const DisplayLayout = "02 Jan 2006, 03:04 PM"

// startOfDay returns 00:00:00 of t's calendar day in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// ParseDateIn parses a YYYY-MM-DD string (HTML date input) as the start of
// that day in loc.
func ParseDateIn(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		return time.Time{}, err
	}
	return startOfDay(t, loc), nil
}

// ValidateNotFutureDate validates that a date is not in the future.
// It compares only the DATE (not time of day) in loc. Today is allowed.
func ValidateNotFutureDate(d, now time.Time, loc *time.Location) error {
	if startOfDay(d, loc).After(startOfDay(now, loc)) {
		return fmt.Errorf("release date cannot be in the future")
	}
	return nil
}

// InZone converts a stored UTC instant for presentation. The zero time
// stays zero.
func InZone(t time.Time, loc *time.Location) time.Time {
	if t.IsZero() {
		return t
	}
	return t.In(loc)
}

// FormatInZone renders t in loc, or "" for the zero time.
func FormatInZone(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(DisplayLayout)
}
