package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangnm/sports-booking/internal/availability"
	"github.com/hoangnm/sports-booking/internal/hold"
	"github.com/hoangnm/sports-booking/internal/model"
	"github.com/hoangnm/sports-booking/internal/repository"
)

func TestConflictsWithForeignHold(t *testing.T) {
	item := model.Hold{CourtID: 7, Date: "2025-06-02", StartTime: "9:00", EndTime: "10:00", OwnerID: 1}

	overlapping := model.Hold{StartTime: "9:30", EndTime: "10:30", OwnerID: 2}
	assert.True(t, conflictsWithForeignHold(item, []model.Hold{overlapping}, 1))

	// The caller's own holds never conflict with their checkout.
	own := model.Hold{StartTime: "9:00", EndTime: "10:00", OwnerID: 1}
	assert.False(t, conflictsWithForeignHold(item, []model.Hold{own}, 1))

	// Back-to-back is clean: the foreign hold starts exactly when the
	// item ends.
	adjacent := model.Hold{StartTime: "10:00", EndTime: "11:00", OwnerID: 2}
	assert.False(t, conflictsWithForeignHold(item, []model.Hold{adjacent}, 1))

	disjoint := model.Hold{StartTime: "12:00", EndTime: "13:00", OwnerID: 2}
	assert.False(t, conflictsWithForeignHold(item, []model.Hold{disjoint}, 1))

	malformed := model.Hold{StartTime: "not-a-time", EndTime: "10:00", OwnerID: 2}
	assert.False(t, conflictsWithForeignHold(item, []model.Hold{malformed}, 1))
}

func TestConflictsWithBookings(t *testing.T) {
	item := model.Hold{StartTime: "9:00", EndTime: "10:00"}

	taken := model.Booking{StartTime: "9:00", EndTime: "10:00", Status: model.BookingWaiting}
	assert.True(t, conflictsWithBookings(item, []model.Booking{taken}))

	cancelled := model.Booking{StartTime: "9:00", EndTime: "10:00", Status: model.BookingCancelled}
	assert.False(t, conflictsWithBookings(item, []model.Booking{cancelled}))

	adjacent := model.Booking{StartTime: "10:00", EndTime: "11:00", Status: model.BookingActive}
	assert.False(t, conflictsWithBookings(item, []model.Booking{adjacent}))
}

func TestDedupeCartItems(t *testing.T) {
	a := model.Hold{ID: "a", CourtID: 7, Date: "2025-06-02", StartTime: "9:00", EndTime: "10:00"}
	b := a
	b.ID = "b" // same slot added a second time
	c := model.Hold{ID: "c", CourtID: 7, Date: "2025-06-02", StartTime: "10:00", EndTime: "11:00"}
	d := a
	d.ID = "d"
	d.Date = "2025-06-03" // same interval, different day

	out := dedupeCartItems([]model.Hold{a, b, c, d})
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "c", out[1].ID)
	assert.Equal(t, "d", out[2].ID)
}

type checkoutCourts struct{}

func (checkoutCourts) GetDetail(ctx context.Context, id uint64) (*model.CourtDetail, error) {
	return &model.CourtDetail{Court: model.Court{ID: id, SportsCenterID: 3, Name: "Court A"}}, nil
}

type checkoutHours struct{}

func (checkoutHours) ListBySportsCenter(ctx context.Context, centerID uint64) ([]model.OpeningHour, error) {
	return []model.OpeningHour{
		{SportsCenterID: centerID, DayOfWeek: "mon", OpeningTime: "9:00", ClosingTime: "12:00"},
	}, nil
}

type checkoutBookings struct{}

func (checkoutBookings) ListForCourtDate(ctx context.Context, courtID uint64, date string) ([]model.Booking, error) {
	return nil, nil
}

// newCheckoutHandler builds a BookingHandler whose repositories wrap a
// nil connection: any test that reaches the booking transaction
// crashes, so a passing test proves the request was decided before any
// database write.
func newCheckoutHandler(store hold.Store) *BookingHandler {
	svc := availability.NewService(checkoutCourts{}, checkoutHours{}, checkoutBookings{}, store, nil, nil, nil, availability.Settings{
		SlotLength: time.Hour,
		HoldTTL:    5 * time.Minute,
	})
	return NewBookingHandler(repository.NewCourtRepo(nil), repository.NewBookingRepo(nil), store, svc, nil, nil)
}

func doCheckout(t *testing.T, h *BookingHandler, userID uint64) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings/checkout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("user_id", userID)
	}
	require.NoError(t, h.Checkout(c))
	return rec
}

func TestCheckoutRejectsForeignHeldSlot(t *testing.T) {
	ctx := context.Background()
	store := hold.NewMemoryStore()

	mine := model.Hold{ID: "m", CourtID: 7, Date: "2025-06-02", StartTime: "9:00", EndTime: "10:00", OwnerID: 1}
	require.NoError(t, store.Place(ctx, mine, time.Minute))
	theirs := model.Hold{ID: "t", CourtID: 7, Date: "2025-06-02", StartTime: "9:30", EndTime: "10:30", OwnerID: 2}
	require.NoError(t, store.Place(ctx, theirs, time.Minute))

	rec := doCheckout(t, newCheckoutHandler(store), 1)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "time slot already taken")
}

func TestCheckoutEmptyCart(t *testing.T) {
	rec := doCheckout(t, newCheckoutHandler(hold.NewMemoryStore()), 1)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutRequiresUser(t *testing.T) {
	rec := doCheckout(t, newCheckoutHandler(hold.NewMemoryStore()), 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type downStore struct{}

func (downStore) Get(context.Context, uint64, string) ([]model.Hold, error) {
	return nil, hold.ErrStoreUnavailable
}
func (downStore) Place(context.Context, model.Hold, time.Duration) error {
	return hold.ErrStoreUnavailable
}
func (downStore) GetCart(context.Context, uint64) ([]model.Hold, error) {
	return nil, hold.ErrStoreUnavailable
}

func TestCheckoutFailsWhenStoreIsDown(t *testing.T) {
	rec := doCheckout(t, newCheckoutHandler(downStore{}), 1)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
