package models

import (
	"fmt"
	"time"
)

const MinutesPerDay = 24 * 60

// ParseClock converts an HH:MM string into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as HH:MM, wrapping past the
// end of the day.
func FormatClock(minute int) string {
	minute %= MinutesPerDay
	if minute < 0 {
		minute += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// ClockMinute extracts minutes since midnight from a wall-clock time.
func ClockMinute(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
