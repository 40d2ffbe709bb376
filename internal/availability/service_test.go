package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangnm/sports-booking/internal/hold"
	"github.com/hoangnm/sports-booking/internal/model"
	"github.com/hoangnm/sports-booking/internal/queue"
	"github.com/hoangnm/sports-booking/internal/repository"
)

type stubCourts struct {
	detail *model.CourtDetail
}

func (s *stubCourts) GetDetail(ctx context.Context, id uint64) (*model.CourtDetail, error) {
	if s.detail == nil || s.detail.ID != id {
		return nil, repository.ErrCourtNotFound
	}
	return s.detail, nil
}

type stubHours struct {
	hours []model.OpeningHour
}

func (s *stubHours) ListBySportsCenter(ctx context.Context, centerID uint64) ([]model.OpeningHour, error) {
	return s.hours, nil
}

type stubBookings struct {
	bookings []model.Booking
}

func (s *stubBookings) ListForCourtDate(ctx context.Context, courtID uint64, date string) ([]model.Booking, error) {
	return s.bookings, nil
}

type publishCall struct {
	courtID uint64
	date    string
	event   string
	data    any
}

type captureHub struct {
	calls []publishCall
}

func (c *captureHub) Publish(courtID uint64, date string, event string, data any) error {
	c.calls = append(c.calls, publishCall{courtID, date, event, data})
	return nil
}

type captureEvents struct {
	events []queue.HoldPlacedEvent
}

func (c *captureEvents) HoldPlaced(ctx context.Context, ev queue.HoldPlacedEvent) error {
	c.events = append(c.events, ev)
	return nil
}

type captureScheduler struct {
	delays []time.Duration
}

func (c *captureScheduler) ScheduleRefresh(ctx context.Context, courtID uint64, date string, delay time.Duration) error {
	c.delays = append(c.delays, delay)
	return nil
}

// brokenStore simulates an unreachable cache.
type brokenStore struct{}

func (brokenStore) Get(context.Context, uint64, string) ([]model.Hold, error) {
	return nil, hold.ErrStoreUnavailable
}
func (brokenStore) Place(context.Context, model.Hold, time.Duration) error {
	return hold.ErrStoreUnavailable
}
func (brokenStore) GetCart(context.Context, uint64) ([]model.Hold, error) {
	return nil, hold.ErrStoreUnavailable
}

// 2025-06-02 is a Monday; the fixture venue opens 9:00-12:00 that day.
const testDate = "2025-06-02"

func fixtureDeps() (*stubCourts, *stubHours, *stubBookings) {
	courts := &stubCourts{detail: &model.CourtDetail{
		Court: model.Court{ID: 7, SportsCenterID: 3, Name: "Court A", Price: 100},
	}}
	hours := &stubHours{hours: []model.OpeningHour{
		{SportsCenterID: 3, DayOfWeek: "mon", OpeningTime: "9:00", ClosingTime: "12:00"},
	}}
	return courts, hours, &stubBookings{}
}

func newTestService(courts CourtReader, hours OpeningHourReader, bookings BookingReader, store hold.Store, hub Broadcaster, events EventSink, sched ExpiryScheduler) *Service {
	return NewService(courts, hours, bookings, store, hub, events, sched, Settings{
		SlotLength: time.Hour,
		HoldTTL:    5 * time.Minute,
	})
}

func TestCourtDayComposesGrid(t *testing.T) {
	courts, hours, bookings := fixtureDeps()
	bookings.bookings = []model.Booking{
		{CourtID: 7, StartDate: testDate, StartTime: "10:00", EndTime: "11:00", Status: model.BookingWaiting},
	}
	svc := newTestService(courts, hours, bookings, hold.NewMemoryStore(), nil, nil, nil)

	day, err := svc.CourtDay(context.Background(), 7, testDate)
	require.NoError(t, err)
	require.Len(t, day.Slots, 3)
	assert.True(t, day.Slots[0].IsFree)
	assert.False(t, day.Slots[1].IsFree)
	assert.True(t, day.Slots[2].IsFree)
	assert.Equal(t, "Court A", day.Court.Name)
}

func TestCourtDayUnknownCourt(t *testing.T) {
	courts, hours, bookings := fixtureDeps()
	svc := newTestService(courts, hours, bookings, hold.NewMemoryStore(), nil, nil, nil)

	_, err := svc.CourtDay(context.Background(), 999, testDate)
	assert.ErrorIs(t, err, repository.ErrCourtNotFound)
}

func TestCourtDayInvalidDate(t *testing.T) {
	courts, hours, bookings := fixtureDeps()
	svc := newTestService(courts, hours, bookings, hold.NewMemoryStore(), nil, nil, nil)

	_, err := svc.CourtDay(context.Background(), 7, "02-06-2025")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestAddToCartPlacesHoldAndBroadcastsOnce(t *testing.T) {
	courts, hours, bookings := fixtureDeps()
	store := hold.NewMemoryStore()
	hub := &captureHub{}
	events := &captureEvents{}
	sched := &captureScheduler{}
	svc := newTestService(courts, hours, bookings, store, hub, events, sched)

	day, err := svc.AddToCart(context.Background(), AddToCartParams{
		CourtID: 7, Date: testDate, StartTime: "9:00", EndTime: "10:00", UserID: 42,
	})
	require.NoError(t, err)

	// The returned grid already shows the hold occupying its slot.
	require.Len(t, day.Slots, 3)
	assert.False(t, day.Slots[0].IsFree)
	assert.True(t, day.Slots[1].IsFree)

	// Exactly one broadcast, on the right channel, carrying the same
	// document the caller got.
	require.Len(t, hub.calls, 1)
	assert.Equal(t, uint64(7), hub.calls[0].courtID)
	assert.Equal(t, testDate, hub.calls[0].date)
	assert.Equal(t, CourtDataEvent, hub.calls[0].event)
	assert.Equal(t, day, hub.calls[0].data)

	// The hold landed in both the court-day set and the user's cart.
	holds, err := store.Get(context.Background(), 7, testDate)
	require.NoError(t, err)
	require.Len(t, holds, 1)
	assert.Equal(t, uint64(42), holds[0].OwnerID)

	cart, err := svc.Cart(context.Background(), 42)
	require.NoError(t, err)
	assert.Len(t, cart, 1)

	// An expiry refresh was scheduled past the TTL and the domain event
	// published.
	require.Len(t, sched.delays, 1)
	assert.Equal(t, 5*time.Minute+time.Second, sched.delays[0])
	require.Len(t, events.events, 1)
	assert.Equal(t, "Court A", events.events[0].CourtName)
}

func TestAddToCartConcurrentHoldersBothSucceed(t *testing.T) {
	courts, hours, bookings := fixtureDeps()
	store := hold.NewMemoryStore()
	svc := newTestService(courts, hours, bookings, store, nil, nil, nil)

	for _, user := range []uint64{1, 2} {
		_, err := svc.AddToCart(context.Background(), AddToCartParams{
			CourtID: 7, Date: testDate, StartTime: "9:00", EndTime: "10:00", UserID: user,
		})
		require.NoError(t, err)
	}

	holds, err := store.Get(context.Background(), 7, testDate)
	require.NoError(t, err)
	assert.Len(t, holds, 2)
}

func TestAddToCartValidation(t *testing.T) {
	courts, hours, bookings := fixtureDeps()
	svc := newTestService(courts, hours, bookings, hold.NewMemoryStore(), nil, nil, nil)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, AddToCartParams{CourtID: 7, Date: "bad", StartTime: "9:00", EndTime: "10:00", UserID: 1})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = svc.AddToCart(ctx, AddToCartParams{CourtID: 7, Date: testDate, StartTime: "10:00", EndTime: "9:00", UserID: 1})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = svc.AddToCart(ctx, AddToCartParams{CourtID: 7, Date: testDate, StartTime: "9:00", EndTime: "9:00", UserID: 1})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = svc.AddToCart(ctx, AddToCartParams{CourtID: 999, Date: testDate, StartTime: "9:00", EndTime: "10:00", UserID: 1})
	assert.ErrorIs(t, err, repository.ErrCourtNotFound)
}

func TestAddToCartFailsWhenStoreIsDown(t *testing.T) {
	courts, hours, bookings := fixtureDeps()
	hub := &captureHub{}
	svc := newTestService(courts, hours, bookings, brokenStore{}, hub, nil, nil)

	_, err := svc.AddToCart(context.Background(), AddToCartParams{
		CourtID: 7, Date: testDate, StartTime: "9:00", EndTime: "10:00", UserID: 1,
	})
	assert.ErrorIs(t, err, hold.ErrStoreUnavailable)

	// Nothing was announced for a hold that never landed.
	assert.Empty(t, hub.calls)
}

func TestRefreshBroadcastsCurrentState(t *testing.T) {
	courts, hours, bookings := fixtureDeps()
	hub := &captureHub{}
	svc := newTestService(courts, hours, bookings, hold.NewMemoryStore(), hub, nil, nil)

	require.NoError(t, svc.Refresh(context.Background(), 7, testDate))
	require.Len(t, hub.calls, 1)
	assert.Equal(t, CourtDataEvent, hub.calls[0].event)

	day, ok := hub.calls[0].data.(*CourtDay)
	require.True(t, ok)
	assert.Len(t, day.Slots, 3)
}

func TestHoldExpiryFreesSlot(t *testing.T) {
	courts, hours, bookings := fixtureDeps()
	store := hold.NewMemoryStore()
	base := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	now := base
	store.SetClock(func() time.Time { return now })
	svc := newTestService(courts, hours, bookings, store, nil, nil, nil)

	_, err := svc.AddToCart(context.Background(), AddToCartParams{
		CourtID: 7, Date: testDate, StartTime: "9:00", EndTime: "10:00", UserID: 1,
	})
	require.NoError(t, err)

	day, err := svc.CourtDay(context.Background(), 7, testDate)
	require.NoError(t, err)
	assert.False(t, day.Slots[0].IsFree)

	// Past the TTL the same recomputation shows the slot free again.
	now = base.Add(6 * time.Minute)
	day, err = svc.CourtDay(context.Background(), 7, testDate)
	require.NoError(t, err)
	assert.True(t, day.Slots[0].IsFree)
}
