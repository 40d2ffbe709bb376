// Package tasks schedules and processes delayed work over asynq.  Its
// single task today is the hold-expiry refresh: when a cart hold is
// placed, a task is enqueued to fire at the hold's TTL so that every
// viewer of the court-day sees the slot free again the moment the hold
// lapses, without polling.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeHoldExpiryRefresh identifies the delayed availability refresh task.
const TypeHoldExpiryRefresh = "hold:expiry_refresh"

// HoldExpiryRefreshPayload names the court-day to recompute.
type HoldExpiryRefreshPayload struct {
	CourtID uint64 `json:"court_id"`
	Date    string `json:"date"`
}

// Client enqueues delayed tasks.  It satisfies the availability
// service's ExpiryScheduler interface.
type Client struct {
	inner *asynq.Client
}

// NewClient builds a Client on the given Redis connection options.
func NewClient(opt asynq.RedisClientOpt) *Client {
	return &Client{inner: asynq.NewClient(opt)}
}

// ScheduleRefresh enqueues a refresh for courtID+date after delay.
func (c *Client) ScheduleRefresh(ctx context.Context, courtID uint64, date string, delay time.Duration) error {
	payload, err := json.Marshal(HoldExpiryRefreshPayload{CourtID: courtID, Date: date})
	if err != nil {
		return fmt.Errorf("marshal refresh payload: %w", err)
	}
	task := asynq.NewTask(TypeHoldExpiryRefresh, payload)
	if _, err := c.inner.EnqueueContext(ctx, task, asynq.ProcessIn(delay), asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeHoldExpiryRefresh, err)
	}
	return nil
}

// Close releases the underlying asynq client.
func (c *Client) Close() error {
	return c.inner.Close()
}

// Refresher recomputes and re-broadcasts a court-day.  Implemented by
// the availability service.
type Refresher interface {
	Refresh(ctx context.Context, courtID uint64, date string) error
}

// Handlers processes the tasks this package defines.
type Handlers struct {
	refresher Refresher
	logger    *zap.Logger
}

// NewHandlers wires task handlers.
func NewHandlers(refresher Refresher, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{refresher: refresher, logger: logger}
}

// HandleHoldExpiryRefresh recomputes availability for the named
// court-day and broadcasts the result.  By the time the task fires the
// hold has already been evicted by its TTL, so the recomputed grid
// shows the slot free unless something else claimed it meanwhile.
func (h *Handlers) HandleHoldExpiryRefresh(ctx context.Context, t *asynq.Task) error {
	var payload HoldExpiryRefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", TypeHoldExpiryRefresh, err)
	}
	h.logger.Debug("hold expiry refresh",
		zap.Uint64("court_id", payload.CourtID), zap.String("date", payload.Date))
	return h.refresher.Refresh(ctx, payload.CourtID, payload.Date)
}

// NewServeMux registers all task handlers.
func NewServeMux(h *Handlers) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeHoldExpiryRefresh, h.HandleHoldExpiryRefresh)
	return mux
}
