// Package availability computes the per-slot free/busy view of a
// court-day by joining the venue slot grid with confirmed bookings and
// live cart holds, and orchestrates the hold lifecycle around it.
package availability

import (
	"github.com/hoangnm/sports-booking/internal/model"
	"github.com/hoangnm/sports-booking/internal/schedule"
)

// Overlaps reports whether two half-open intervals measured in minutes
// from midnight intersect.  The inequalities are strict so that
// back-to-back bookings (one ending exactly when the next starts) do
// not collide.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// Compose returns a copy of slots with IsFree recomputed against the
// given bookings and holds.  A slot is busy when its interval overlaps
// any non-cancelled booking or any live hold.  The function is pure:
// it never mutates its inputs and the same snapshots always produce
// the same output.
//
// Intervals that fail to parse are skipped rather than failing the
// whole grid; a malformed row in one booking must not blank out the
// court's entire day.
func Compose(slots []model.Slot, bookings []model.Booking, holds []model.Hold) []model.Slot {
	out := make([]model.Slot, len(slots))
	for i, slot := range slots {
		start, err := schedule.ParseClock(slot.StartTime)
		if err != nil {
			out[i] = slot
			continue
		}
		end, err := schedule.ParseClock(slot.EndTime)
		if err != nil {
			out[i] = slot
			continue
		}

		slot.IsFree = true
		for _, b := range bookings {
			if !b.Occupies() {
				continue
			}
			if intervalOverlaps(start, end, b.StartTime, b.EndTime) {
				slot.IsFree = false
				break
			}
		}
		if slot.IsFree {
			for _, h := range holds {
				if intervalOverlaps(start, end, h.StartTime, h.EndTime) {
					slot.IsFree = false
					break
				}
			}
		}
		out[i] = slot
	}
	return out
}

func intervalOverlaps(slotStart, slotEnd int, otherStart, otherEnd string) bool {
	bStart, err := schedule.ParseClock(otherStart)
	if err != nil {
		return false
	}
	bEnd, err := schedule.ParseClock(otherEnd)
	if err != nil {
		return false
	}
	return Overlaps(slotStart, slotEnd, bStart, bEnd)
}
