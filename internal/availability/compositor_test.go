package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangnm/sports-booking/internal/model"
)

func grid(times ...string) []model.Slot {
	var slots []model.Slot
	for i := 0; i+1 < len(times); i++ {
		slots = append(slots, model.Slot{StartTime: times[i], EndTime: times[i+1], IsFree: true})
	}
	return slots
}

func free(slots []model.Slot) []bool {
	out := make([]bool, len(slots))
	for i, s := range slots {
		out[i] = s.IsFree
	}
	return out
}

func TestOverlapsBoundaryTouchIsNotOverlap(t *testing.T) {
	// Back-to-back intervals share an endpoint but no time.
	assert.False(t, Overlaps(540, 600, 600, 660)) // 9-10 vs 10-11
	assert.False(t, Overlaps(600, 660, 540, 600))
	assert.True(t, Overlaps(540, 600, 570, 630)) // 9-10 vs 9:30-10:30
	assert.True(t, Overlaps(540, 660, 570, 600)) // containment
	assert.True(t, Overlaps(540, 600, 540, 600)) // identical
}

func TestComposeBookingMarksOnlyOverlappedSlots(t *testing.T) {
	slots := grid("9:00", "10:00", "11:00", "12:00")
	bookings := []model.Booking{
		{StartTime: "10:00", EndTime: "11:00", Status: model.BookingWaiting},
	}
	out := Compose(slots, bookings, nil)
	assert.Equal(t, []bool{true, false, true}, free(out))
}

func TestComposeCancelledBookingIsIgnored(t *testing.T) {
	slots := grid("9:00", "10:00", "11:00")
	bookings := []model.Booking{
		{StartTime: "9:00", EndTime: "10:00", Status: model.BookingCancelled},
	}
	out := Compose(slots, bookings, nil)
	assert.Equal(t, []bool{true, true}, free(out))
}

func TestComposeHoldMarksSlot(t *testing.T) {
	slots := grid("9:00", "10:00", "11:00")
	holds := []model.Hold{
		{StartTime: "9:00", EndTime: "10:00"},
	}
	out := Compose(slots, nil, holds)
	assert.Equal(t, []bool{false, true}, free(out))
}

func TestComposeMultiSlotIntervalMarksEverySlot(t *testing.T) {
	slots := grid("9:00", "10:00", "11:00", "12:00", "13:00")
	holds := []model.Hold{
		{StartTime: "10:00", EndTime: "12:00"},
	}
	out := Compose(slots, nil, holds)
	assert.Equal(t, []bool{true, false, false, true}, free(out))
}

func TestComposeIsPureAndIdempotent(t *testing.T) {
	slots := grid("9:00", "10:00", "11:00")
	bookings := []model.Booking{
		{StartTime: "9:00", EndTime: "10:00", Status: model.BookingActive},
	}

	first := Compose(slots, bookings, nil)
	second := Compose(slots, bookings, nil)
	assert.Equal(t, first, second)

	// Inputs stay untouched.
	require.True(t, slots[0].IsFree)

	// Recomposing an already-composed grid against the same snapshots
	// changes nothing.
	again := Compose(first, bookings, nil)
	assert.Equal(t, first, again)
}

func TestComposeSkipsUnparseableIntervals(t *testing.T) {
	slots := grid("9:00", "10:00")
	bookings := []model.Booking{
		{StartTime: "not-a-time", EndTime: "10:00", Status: model.BookingWaiting},
	}
	holds := []model.Hold{
		{StartTime: "9:00", EndTime: ""},
	}
	out := Compose(slots, bookings, holds)
	assert.Equal(t, []bool{true}, free(out))
}

func TestComposeEmptyGrid(t *testing.T) {
	out := Compose(nil, []model.Booking{{StartTime: "9:00", EndTime: "10:00"}}, nil)
	assert.Empty(t, out)
}
