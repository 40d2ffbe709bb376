// Package queue defines message payloads exchanged over the message broker.
package queue

// HoldPlacedEvent is published when a user puts a court slot into
// their cart.  Downstream consumers (analytics, abandoned-cart
// nudges) get enough context to act without querying the primary
// database.  The hold itself lives only in the cache; this event is
// informational and its loss never affects slot protection.
type HoldPlacedEvent struct {
	HoldID    string `json:"hold_id"`
	CourtID   uint64 `json:"court_id"`
	CourtName string `json:"court_name"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	UserID    uint64 `json:"user_id"`
	ExpiresAt string `json:"expires_at"`
}

// BookingConfirmedEvent is published when the payment gateway confirms
// a booking and its status moves to WAITING_ACTIVE.
type BookingConfirmedEvent struct {
	BookingID   uint64 `json:"booking_id"`
	CourtID     uint64 `json:"court_id"`
	CourtName   string `json:"court_name"`
	CenterName  string `json:"center_name"`
	UserID      uint64 `json:"user_id"`
	StartDate   string `json:"start_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	TotalPrice  uint64 `json:"total_price"`
	PaymentRef  string `json:"payment_ref"`
	ConfirmedAt string `json:"confirmed_at"`
}

// Queue names.  Declared durable by both publisher and consumer so
// either side may start first.
const (
	HoldPlacedQueue       = "hold.placed"
	BookingConfirmedQueue = "booking.confirmed"
)
