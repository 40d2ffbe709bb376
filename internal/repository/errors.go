// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as handlers to distinguish between failure scenarios: a court
// id that matches nothing maps to a 404, while a checkout that loses
// the race for a slot maps to a 409.
package repository

import "errors"

// ErrCourtNotFound is returned when a court id matches no live row.
// Handlers should translate this into an HTTP 404 response.
var ErrCourtNotFound = errors.New("court not found")

// ErrBookingNotFound is returned when a booking id matches no row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrSlotConflict is returned when a checkout attempts to book an
// interval already occupied by a non-cancelled booking or another
// user's live hold. Handlers should translate this into an HTTP 409.
var ErrSlotConflict = errors.New("time slot already taken")

// ErrNoChange indicates a status transition matched no row in the
// expected prior state (already promoted or cancelled).
var ErrNoChange = errors.New("no change")
