package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/hoangnm/sports-booking/internal/model"
)

// DateLayout is the wire format for play dates across the API, the
// database and the cache keys.
const DateLayout = "2006-01-02"

// DayKey returns the lowercase three-letter weekday key used by the
// opening_hours table for the given date ("mon".."sun").
func DayKey(date time.Time) string {
	return strings.ToLower(date.Weekday().String()[:3])
}

// BuildDaySlots produces the ordered slot grid for one date from a
// venue's weekly opening hours.  Starting at the day's opening time it
// emits consecutive slots of slotLen until the next slot would end
// past closing time; a slot that would overhang is dropped, not
// truncated, so misaligned closing times leave an unbookable
// remainder.  All slots start free.
//
// A date whose weekday has no opening-hours row yields an empty grid
// and a nil error: a closed venue is "no availability", not a failure.
func BuildDaySlots(hours []model.OpeningHour, date time.Time, slotLen time.Duration) ([]model.Slot, error) {
	day := DayKey(date)
	step := int(slotLen / time.Minute)
	if step <= 0 {
		return nil, fmt.Errorf("slot length %v is not a positive number of minutes", slotLen)
	}

	var slots []model.Slot
	for _, h := range hours {
		if h.DayOfWeek != day {
			continue
		}
		open, err := ParseClock(h.OpeningTime)
		if err != nil {
			return nil, fmt.Errorf("opening time for %s: %w", day, err)
		}
		closing, err := ParseClock(h.ClosingTime)
		if err != nil {
			return nil, fmt.Errorf("closing time for %s: %w", day, err)
		}
		if open >= closing {
			return nil, fmt.Errorf("opening hours for %s invert: %s >= %s", day, h.OpeningTime, h.ClosingTime)
		}
		for cur := open; cur+step <= closing; cur += step {
			slots = append(slots, model.Slot{
				StartTime: FormatClock(cur),
				EndTime:   FormatClock(cur + step),
				IsFree:    true,
			})
		}
		break // at most one row per weekday
	}
	return slots, nil
}
