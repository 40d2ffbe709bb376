package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/hoangnm/sports-booking/internal/availability"
	"github.com/hoangnm/sports-booking/internal/hold"
	"github.com/hoangnm/sports-booking/internal/middleware"
	"github.com/hoangnm/sports-booking/internal/repository"
	"github.com/hoangnm/sports-booking/internal/schedule"
)

// CourtHandler serves the court-day availability view and the
// add-to-cart operation.
type CourtHandler struct {
	Availability *availability.Service
	Logger       *zap.Logger
}

// NewCourtHandler constructs a CourtHandler.
func NewCourtHandler(svc *availability.Service, logger *zap.Logger) *CourtHandler {
	if svc == nil {
		panic("nil availability service passed to NewCourtHandler")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourtHandler{Availability: svc, Logger: logger}
}

// GetCourt handles GET /v1/courts/:id?date=YYYY-MM-DD. It returns the
// court aggregate plus the computed slot grid for the requested date,
// defaulting to today. Unknown court ids yield 404.
func (h *CourtHandler) GetCourt(c echo.Context) error {
	courtID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || courtID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().Format(schedule.DateLayout)
	}
	payload, err := h.Availability.CourtDay(c.Request().Context(), courtID, date)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, payload)
}

// addToCartRequest is the body of POST /v1/courts/add-to-cart. The
// user comes from the access token, never from the body.
type addToCartRequest struct {
	CourtID   uint64 `json:"courtId"`
	StartDate string `json:"startDate"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// AddToCart handles POST /v1/courts/add-to-cart. It places a cart hold
// on the requested interval, then returns the recomputed availability
// so the caller's view matches what every other viewer was just
// pushed.
func (h *CourtHandler) AddToCart(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body addToCartRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.CourtID == 0 || body.StartDate == "" || body.StartTime == "" || body.EndTime == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "courtId, startDate, startTime and endTime are required"})
	}

	payload, err := h.Availability.AddToCart(c.Request().Context(), availability.AddToCartParams{
		CourtID:   body.CourtID,
		Date:      body.StartDate,
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
		UserID:    userID,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, payload)
}

// GetCart handles GET /v1/cart. It lists the caller's live cart holds;
// entries disappear on their own as TTLs lapse.
func (h *CourtHandler) GetCart(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	holds, err := h.Availability.Cart(c.Request().Context(), userID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":      holds,
		"ttlSeconds": int(h.Availability.HoldTTL().Seconds()),
	})
}

// fail maps service errors onto HTTP responses. Store outages are
// surfaced as 503 so a hold is never silently reported as placed.
func (h *CourtHandler) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrCourtNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
	case errors.Is(err, availability.ErrInvalidDate),
		errors.Is(err, availability.ErrInvalidTimeRange):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, hold.ErrStoreUnavailable):
		h.Logger.Error("hold store unavailable", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "hold store unavailable"})
	default:
		h.Logger.Error("court request failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
