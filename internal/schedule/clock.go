// Package schedule builds the bookable slot grid for a court-day from
// the owning venue's weekly opening hours.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClock converts a wall-clock string such as "9:00" or "14:30"
// into minutes from midnight.  Both "H:mm" and "HH:mm" are accepted
// because the opening_hours table and the mobile clients disagree on
// zero padding.
func ParseClock(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in clock value %q", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in clock value %q", s)
	}
	return hour*60 + minute, nil
}

// FormatClock renders minutes from midnight as "H:mm", the format the
// mobile clients expect (no zero-padded hour).
func FormatClock(minutes int) string {
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}
