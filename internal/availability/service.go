package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hoangnm/sports-booking/internal/hold"
	"github.com/hoangnm/sports-booking/internal/model"
	"github.com/hoangnm/sports-booking/internal/queue"
	"github.com/hoangnm/sports-booking/internal/schedule"
)

// Validation sentinels.  Handlers translate these into 400 responses.
var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidTimeRange = errors.New("start time must be before end time")
)

// CourtReader looks up a court with its related records.
type CourtReader interface {
	GetDetail(ctx context.Context, id uint64) (*model.CourtDetail, error)
}

// OpeningHourReader lists a venue's weekly schedule.
type OpeningHourReader interface {
	ListBySportsCenter(ctx context.Context, centerID uint64) ([]model.OpeningHour, error)
}

// BookingReader lists the non-cancelled bookings for one court-day.
type BookingReader interface {
	ListForCourtDate(ctx context.Context, courtID uint64, date string) ([]model.Booking, error)
}

// Broadcaster pushes a full payload to every viewer of a court-day.
type Broadcaster interface {
	Publish(courtID uint64, date string, event string, data any) error
}

// EventSink receives domain events for out-of-band consumers.
type EventSink interface {
	HoldPlaced(ctx context.Context, ev queue.HoldPlacedEvent) error
}

// ExpiryScheduler arranges for availability to be recomputed and
// re-broadcast after a delay, so viewers see a slot free again when
// the hold protecting it lapses.
type ExpiryScheduler interface {
	ScheduleRefresh(ctx context.Context, courtID uint64, date string, delay time.Duration) error
}

// CourtDay is the full availability document for one court on one
// date.  It is both the HTTP response body and the realtime courtData
// payload, so every viewer always renders the same shape.
type CourtDay struct {
	Court *model.CourtDetail `json:"existingCourt"`
	Slots []model.Slot       `json:"listOfTimeBooking"`
}

// CourtDataEvent is the realtime event name carrying a CourtDay.
const CourtDataEvent = "courtData"

// Settings carries the tunables the service needs.
type Settings struct {
	SlotLength time.Duration // length of one bookable slot
	HoldTTL    time.Duration // cart hold lifetime
	Logger     *zap.Logger
}

// Service joins the slot grid with both busy-interval sources and owns
// the hold lifecycle: place hold, recompute, broadcast.  It holds no
// availability state of its own; every answer is recomputed from the
// current booking and hold snapshots.
type Service struct {
	courts    CourtReader
	hours     OpeningHourReader
	bookings  BookingReader
	holds     hold.Store
	hub       Broadcaster
	events    EventSink
	scheduler ExpiryScheduler
	slotLen   time.Duration
	holdTTL   time.Duration
	logger    *zap.Logger
}

// NewService wires the service.  hub, events and scheduler may be nil
// in tests or reduced deployments; the corresponding step is skipped.
func NewService(courts CourtReader, hours OpeningHourReader, bookings BookingReader, holds hold.Store, hub Broadcaster, events EventSink, scheduler ExpiryScheduler, cfg Settings) *Service {
	if courts == nil || hours == nil || bookings == nil || holds == nil {
		panic("nil dependency passed to availability.NewService")
	}
	if cfg.SlotLength <= 0 {
		cfg.SlotLength = time.Hour
	}
	if cfg.HoldTTL <= 0 {
		cfg.HoldTTL = 5 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Service{
		courts:    courts,
		hours:     hours,
		bookings:  bookings,
		holds:     holds,
		hub:       hub,
		events:    events,
		scheduler: scheduler,
		slotLen:   cfg.SlotLength,
		holdTTL:   cfg.HoldTTL,
		logger:    cfg.Logger,
	}
}

// CourtDay returns the availability document for one court-day.
// A court that does not exist surfaces repository.ErrCourtNotFound
// before any other work happens.
func (s *Service) CourtDay(ctx context.Context, courtID uint64, date string) (*CourtDay, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	detail, err := s.courts.GetDetail(ctx, courtID)
	if err != nil {
		return nil, err
	}
	return s.composeDay(ctx, detail, day, date)
}

// AddToCartParams carries one add-to-cart request.
type AddToCartParams struct {
	CourtID   uint64
	Date      string // "2006-01-02"
	StartTime string // "H:mm"
	EndTime   string // "H:mm"
	UserID    uint64
}

// AddToCart places a cart hold and returns the recomputed availability.
//
// The order is fixed: court lookup, hold append, expiry scheduling,
// recompute, broadcast.  Once this returns, any concurrent reader sees
// the new hold occupying its slot.  The append is the only mutation;
// if it fails the whole request fails, because reporting a hold that
// the cache never stored would let two users believe they can book the
// same slot.  Broadcast and event failures, by contrast, are logged
// and swallowed: the hold is already committed.
//
// No hold-vs-hold conflict is rejected here.  Two shoppers may hold
// the same slot at once; each subsequent reader simply sees it busy,
// and the authoritative check happens at checkout.
func (s *Service) AddToCart(ctx context.Context, p AddToCartParams) (*CourtDay, error) {
	day, err := parseDate(p.Date)
	if err != nil {
		return nil, err
	}
	start, err := schedule.ParseClock(p.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
	}
	end, err := schedule.ParseClock(p.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
	}
	if start >= end {
		return nil, ErrInvalidTimeRange
	}

	detail, err := s.courts.GetDetail(ctx, p.CourtID)
	if err != nil {
		return nil, err
	}

	h := model.Hold{
		ID:        uuid.NewString(),
		CourtID:   p.CourtID,
		Date:      p.Date,
		StartTime: p.StartTime,
		EndTime:   p.EndTime,
		OwnerID:   p.UserID,
		PlacedAt:  time.Now().UTC(),
	}
	if err := s.holds.Place(ctx, h, s.holdTTL); err != nil {
		return nil, err
	}

	if s.scheduler != nil {
		// Fire slightly after the TTL so the store has already pruned
		// the hold when the refresh recomputes.
		if err := s.scheduler.ScheduleRefresh(ctx, p.CourtID, p.Date, s.holdTTL+time.Second); err != nil {
			s.logger.Warn("schedule expiry refresh failed",
				zap.Uint64("court_id", p.CourtID), zap.String("date", p.Date), zap.Error(err))
		}
	}

	payload, err := s.composeDay(ctx, detail, day, p.Date)
	if err != nil {
		return nil, err
	}
	s.broadcast(p.CourtID, p.Date, payload)

	if s.events != nil {
		ev := queue.HoldPlacedEvent{
			HoldID:    h.ID,
			CourtID:   h.CourtID,
			CourtName: detail.Name,
			Date:      h.Date,
			StartTime: h.StartTime,
			EndTime:   h.EndTime,
			UserID:    h.OwnerID,
			ExpiresAt: h.PlacedAt.Add(s.holdTTL).Format(time.RFC3339),
		}
		if err := s.events.HoldPlaced(ctx, ev); err != nil {
			s.logger.Warn("publish hold.placed failed", zap.String("hold_id", h.ID), zap.Error(err))
		}
	}
	return payload, nil
}

// Cart returns the caller's live cart holds.
func (s *Service) Cart(ctx context.Context, userID uint64) ([]model.Hold, error) {
	return s.holds.GetCart(ctx, userID)
}

// HoldTTL exposes the configured hold lifetime; checkout uses it to
// explain expiry to clients.
func (s *Service) HoldTTL() time.Duration {
	return s.holdTTL
}

// Refresh recomputes a court-day and broadcasts it.  It backs the
// delayed hold-expiry task and the booking-confirmation flow, both of
// which change what viewers should see without a viewer asking.
func (s *Service) Refresh(ctx context.Context, courtID uint64, date string) error {
	payload, err := s.CourtDay(ctx, courtID, date)
	if err != nil {
		return err
	}
	s.broadcast(courtID, date, payload)
	return nil
}

func (s *Service) composeDay(ctx context.Context, detail *model.CourtDetail, day time.Time, date string) (*CourtDay, error) {
	hours, err := s.hours.ListBySportsCenter(ctx, detail.SportsCenterID)
	if err != nil {
		return nil, fmt.Errorf("list opening hours: %w", err)
	}
	slots, err := schedule.BuildDaySlots(hours, day, s.slotLen)
	if err != nil {
		return nil, fmt.Errorf("build slot grid: %w", err)
	}
	bookings, err := s.bookings.ListForCourtDate(ctx, detail.ID, date)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	holds, err := s.holds.Get(ctx, detail.ID, date)
	if err != nil {
		return nil, err
	}
	return &CourtDay{
		Court: detail,
		Slots: Compose(slots, bookings, holds),
	}, nil
}

// broadcast pushes a courtData frame; failures never propagate because
// the mutation that triggered the push has already been committed.
func (s *Service) broadcast(courtID uint64, date string, payload *CourtDay) {
	if s.hub == nil {
		return
	}
	if err := s.hub.Publish(courtID, date, CourtDataEvent, payload); err != nil {
		s.logger.Warn("broadcast availability failed",
			zap.Uint64("court_id", courtID), zap.String("date", date), zap.Error(err))
	}
}

func parseDate(date string) (time.Time, error) {
	t, err := time.Parse(schedule.DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return t, nil
}
