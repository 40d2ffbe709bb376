// Package realtime fans recomputed availability out to every client
// watching a court-day.  One logical channel exists per court+date;
// membership changes as viewers connect and disconnect.
package realtime

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Subscriber receives published messages.  Deliver must not block; it
// returns false when the subscriber can no longer accept messages, in
// which case the hub drops it from every channel.
type Subscriber interface {
	Deliver(msg []byte) bool
}

// Envelope is the wire frame for every server-to-client event.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ChannelName builds the canonical channel key for a court-day.  The
// same format is used by the mobile clients when they ask to join.
func ChannelName(courtID uint64, date string) string {
	return fmt.Sprintf("court-%d-%s", courtID, date)
}

// Hub is the in-process channel registry.  It is safe for concurrent
// joins, leaves and publishes.  Publishing to a channel nobody watches
// is a no-op, never an error.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[Subscriber]struct{}
	logger   *zap.Logger
}

// NewHub returns an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		channels: make(map[string]map[Subscriber]struct{}),
		logger:   logger,
	}
}

// Join subscribes sub to the court-day channel.
func (h *Hub) Join(courtID uint64, date string, sub Subscriber) {
	name := ChannelName(courtID, date)
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.channels[name]
	if !ok {
		members = make(map[Subscriber]struct{})
		h.channels[name] = members
	}
	members[sub] = struct{}{}
}

// Leave removes sub from one court-day channel.
func (h *Hub) Leave(courtID uint64, date string, sub Subscriber) {
	name := ChannelName(courtID, date)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(name, sub)
}

// LeaveAll removes sub from every channel.  Called when a connection
// closes.
func (h *Hub) LeaveAll(sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for name := range h.channels {
		h.removeLocked(name, sub)
	}
}

func (h *Hub) removeLocked(name string, sub Subscriber) {
	members, ok := h.channels[name]
	if !ok {
		return
	}
	delete(members, sub)
	if len(members) == 0 {
		delete(h.channels, name)
	}
}

// Subscribers reports the current membership of a court-day channel.
func (h *Hub) Subscribers(courtID uint64, date string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[ChannelName(courtID, date)])
}

// Publish sends one event to every subscriber of the court-day
// channel.  The payload is marshalled once and delivered as a full
// document; viewers render the latest frame they receive, so no
// ordering beyond "last publish wins" is promised.  Subscribers that
// cannot keep up are dropped so one stuck connection never stalls the
// rest of the channel.
func (h *Hub) Publish(courtID uint64, date string, event string, data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", event, err)
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: body})
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", event, err)
	}
	name := ChannelName(courtID, date)

	h.mu.RLock()
	members := make([]Subscriber, 0, len(h.channels[name]))
	for sub := range h.channels[name] {
		members = append(members, sub)
	}
	h.mu.RUnlock()

	var dropped []Subscriber
	for _, sub := range members {
		if !sub.Deliver(frame) {
			dropped = append(dropped, sub)
		}
	}
	for _, sub := range dropped {
		h.LeaveAll(sub)
	}
	if len(dropped) > 0 {
		h.logger.Warn("dropped slow realtime subscribers",
			zap.String("channel", name),
			zap.Int("dropped", len(dropped)))
	}
	return nil
}
