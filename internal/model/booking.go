package model

import "time"

// Booking statuses.  A booking is created WAITING at checkout,
// promoted to WAITING_ACTIVE once the payment gateway confirms the
// transaction, becomes ACTIVE on the day of play and terminates at
// SUCCESS or CANCELLED.  Every status except CANCELLED occupies the
// booked interval.
const (
	BookingWaiting       = "WAITING"
	BookingWaitingActive = "WAITING_ACTIVE"
	BookingActive        = "ACTIVE"
	BookingSuccess       = "SUCCESS"
	BookingCancelled     = "CANCELLED"
)

// Booking is a durable reservation of one court slot on one date.
//
// Fields:
//  ID         – primary key identifier.
//  CourtID    – booked court.
//  UserID     – user who made the booking.
//  StartDate  – play date in "2006-01-02" format.
//  StartTime  – slot start, wall-clock "H:mm".
//  EndTime    – slot end, wall-clock "H:mm".
//  Status     – lifecycle status, see constants above.
//  TotalPrice – amount charged after discount.
//  PaymentRef – opaque reference issued for the payment transaction.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Booking struct {
	ID         uint64    `json:"id"`         // bookings.id
	CourtID    uint64    `json:"courtId"`    // bookings.court_id
	UserID     uint64    `json:"userId"`     // bookings.user_id
	StartDate  string    `json:"startDate"`  // bookings.start_date
	StartTime  string    `json:"startTime"`  // bookings.start_time
	EndTime    string    `json:"endTime"`    // bookings.end_time
	Status     string    `json:"status"`     // bookings.status
	TotalPrice uint64    `json:"totalPrice"` // bookings.total_price
	PaymentRef string    `json:"paymentRef"` // bookings.payment_ref
	CreatedAt  time.Time `json:"createdAt"`  // bookings.created_at
	UpdatedAt  time.Time `json:"updatedAt"`  // bookings.updated_at
}

// Occupies reports whether the booking blocks its interval.  Cancelled
// bookings never occupy a slot.
func (b Booking) Occupies() bool {
	return b.Status != BookingCancelled
}
