package model

// Slot is one fixed-length bookable window within a day's grid.  The
// IsFree flag is always computed from current bookings and holds and
// is never stored.
type Slot struct {
	StartTime string `json:"startTime"` // wall-clock "H:mm"
	EndTime   string `json:"endTime"`   // wall-clock "H:mm"
	IsFree    bool   `json:"isFree"`
}
