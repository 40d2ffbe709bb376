package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/hoangnm/sports-booking/internal/availability"
	"github.com/hoangnm/sports-booking/internal/hold"
	"github.com/hoangnm/sports-booking/internal/middleware"
	"github.com/hoangnm/sports-booking/internal/model"
	"github.com/hoangnm/sports-booking/internal/queue"
	"github.com/hoangnm/sports-booking/internal/repository"
	"github.com/hoangnm/sports-booking/internal/schedule"
)

// BookingHandler converts cart holds into durable bookings and
// processes payment confirmations. Critical DB operations run inside a
// transaction so the conflict check and the insert act on one
// snapshot.
type BookingHandler struct {
	CourtRepo    *repository.CourtRepo
	BookingRepo  *repository.BookingRepo
	Holds        hold.Store
	Availability *availability.Service
	Events       *queue.Publisher
	Logger       *zap.Logger
}

// NewBookingHandler constructs a BookingHandler. Events may be nil
// when no broker is configured.
func NewBookingHandler(courts *repository.CourtRepo, bookings *repository.BookingRepo, holds hold.Store, svc *availability.Service, events *queue.Publisher, logger *zap.Logger) *BookingHandler {
	if courts == nil || bookings == nil || holds == nil || svc == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingHandler{
		CourtRepo:    courts,
		BookingRepo:  bookings,
		Holds:        holds,
		Availability: svc,
		Events:       events,
		Logger:       logger,
	}
}

// Checkout handles POST /v1/bookings/checkout. It reads the caller's
// live cart holds and creates one WAITING booking per hold.
//
// Holds are advisory while shopping; this is where they become
// binding. Inside the transaction the existing bookings for each
// court-day are read FOR UPDATE and every cart entry is re-validated
// against them, and against other users' live holds, before inserting.
// Losing either race yields 409 and nothing is written.
func (h *BookingHandler) Checkout(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()

	cart, err := h.Holds.GetCart(ctx, userID)
	if err != nil {
		h.Logger.Error("read cart failed", zap.Uint64("user_id", userID), zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "hold store unavailable"})
	}
	if len(cart) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cart is empty or expired"})
	}
	cart = dedupeCartItems(cart)

	// Re-validate against other shoppers' live holds before touching
	// the database; a hold someone else placed first wins the slot.
	for _, item := range cart {
		others, err := h.Holds.Get(ctx, item.CourtID, item.Date)
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "hold store unavailable"})
		}
		if conflictsWithForeignHold(item, others, userID) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": repository.ErrSlotConflict.Error(),
				"slot":  item,
			})
		}
	}

	tx, err := h.BookingRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	paymentRef := uuid.NewString()
	created := make([]model.Booking, 0, len(cart))
	for _, item := range cart {
		court, err := h.CourtRepo.GetByID(ctx, item.CourtID)
		if err != nil {
			if errors.Is(err, repository.ErrCourtNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		existing, err := h.BookingRepo.ListForCourtDateTx(ctx, tx, item.CourtID, item.Date)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if conflictsWithBookings(item, existing) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": repository.ErrSlotConflict.Error(),
				"slot":  item,
			})
		}
		b := model.Booking{
			CourtID:    item.CourtID,
			UserID:     userID,
			StartDate:  item.Date,
			StartTime:  item.StartTime,
			EndTime:    item.EndTime,
			Status:     model.BookingWaiting,
			TotalPrice: discountedPrice(court),
			PaymentRef: paymentRef,
		}
		if err := h.BookingRepo.CreateTx(ctx, tx, &b); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
		}
		created = append(created, b)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	h.refreshCourtDays(created)

	return c.JSON(http.StatusCreated, echo.Map{
		"paymentRef": paymentRef,
		"bookings":   created,
	})
}

// Confirm handles POST /v1/bookings/:id/confirm, the callback the
// payment collaborator hits once a transaction clears. The booking
// moves WAITING -> WAITING_ACTIVE, the confirmation event is published
// and viewers of the court-day get a fresh grid.
func (h *BookingHandler) Confirm(c echo.Context) error {
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()

	booking, err := h.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.BookingRepo.TransitionStatus(ctx, bookingID, model.BookingWaiting, model.BookingWaitingActive); err != nil {
		if errors.Is(err, repository.ErrNoChange) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not awaiting confirmation"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	booking.Status = model.BookingWaitingActive

	if h.Events != nil {
		ev := queue.BookingConfirmedEvent{
			BookingID:   booking.ID,
			CourtID:     booking.CourtID,
			UserID:      booking.UserID,
			StartDate:   booking.StartDate,
			StartTime:   booking.StartTime,
			EndTime:     booking.EndTime,
			TotalPrice:  booking.TotalPrice,
			PaymentRef:  booking.PaymentRef,
			ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if detail, derr := h.CourtRepo.GetDetail(ctx, booking.CourtID); derr == nil {
			ev.CourtName = detail.Name
			if detail.SportsCenter != nil {
				ev.CenterName = detail.SportsCenter.Name
			}
		}
		if perr := h.Events.BookingConfirmed(ctx, ev); perr != nil {
			h.Logger.Warn("publish booking.confirmed failed",
				zap.Uint64("booking_id", booking.ID), zap.Error(perr))
		}
	}

	h.refreshCourtDays([]model.Booking{*booking})

	return c.JSON(http.StatusOK, echo.Map{"booking": booking})
}

// refreshCourtDays re-broadcasts availability for every distinct
// court-day touched by the given bookings. Best effort: the bookings
// are committed, so a failed push only costs freshness.
func (h *BookingHandler) refreshCourtDays(bookings []model.Booking) {
	type key struct {
		courtID uint64
		date    string
	}
	seen := make(map[key]struct{}, len(bookings))
	for _, b := range bookings {
		k := key{b.CourtID, b.StartDate}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		if err := h.Availability.Refresh(context.Background(), b.CourtID, b.StartDate); err != nil {
			h.Logger.Warn("refresh after booking change failed",
				zap.Uint64("court_id", b.CourtID), zap.String("date", b.StartDate), zap.Error(err))
		}
	}
}

// dedupeCartItems collapses cart entries targeting the same court-day
// interval, keeping the first. Adding a slot to the cart twice means
// one booking, not a conflict with itself.
func dedupeCartItems(cart []model.Hold) []model.Hold {
	type slotKey struct {
		courtID    uint64
		date       string
		start, end string
	}
	seen := make(map[slotKey]struct{}, len(cart))
	out := make([]model.Hold, 0, len(cart))
	for _, item := range cart {
		k := slotKey{item.CourtID, item.Date, item.StartTime, item.EndTime}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

func conflictsWithForeignHold(item model.Hold, others []model.Hold, userID uint64) bool {
	aStart, err1 := schedule.ParseClock(item.StartTime)
	aEnd, err2 := schedule.ParseClock(item.EndTime)
	if err1 != nil || err2 != nil {
		return false
	}
	for _, o := range others {
		if o.OwnerID == userID {
			continue
		}
		bStart, err1 := schedule.ParseClock(o.StartTime)
		bEnd, err2 := schedule.ParseClock(o.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		if availability.Overlaps(aStart, aEnd, bStart, bEnd) {
			return true
		}
	}
	return false
}

func conflictsWithBookings(item model.Hold, bookings []model.Booking) bool {
	aStart, err1 := schedule.ParseClock(item.StartTime)
	aEnd, err2 := schedule.ParseClock(item.EndTime)
	if err1 != nil || err2 != nil {
		return false
	}
	for _, b := range bookings {
		if !b.Occupies() {
			continue
		}
		bStart, err1 := schedule.ParseClock(b.StartTime)
		bEnd, err2 := schedule.ParseClock(b.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		if availability.Overlaps(aStart, aEnd, bStart, bEnd) {
			return true
		}
	}
	return false
}

// discountedPrice applies the court's percentage discount.
func discountedPrice(c *model.Court) uint64 {
	if c.Discount == 0 || c.Discount > 100 {
		return c.Price
	}
	return c.Price * uint64(100-c.Discount) / 100
}
