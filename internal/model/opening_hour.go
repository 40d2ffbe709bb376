package model

// OpeningHour is one row of a sports center's weekly schedule.  A
// center has at most one row per weekday; a missing row means the
// venue is closed that day.  Times are wall-clock "H:mm" strings and
// OpeningTime must precede ClosingTime.
//
// Fields:
//  ID             – primary key identifier.
//  SportsCenterID – owning venue.
//  DayOfWeek      – lowercase three-letter weekday ("mon".."sun").
//  OpeningTime    – time the venue opens, e.g. "9:00".
//  ClosingTime    – time the venue closes, e.g. "22:00".
type OpeningHour struct {
	ID             uint64 `json:"id"`             // opening_hours.id
	SportsCenterID uint64 `json:"sportsCenterId"` // opening_hours.sports_center_id
	DayOfWeek      string `json:"dayOfWeek"`      // opening_hours.day_of_week
	OpeningTime    string `json:"openingTime"`    // opening_hours.opening_time
	ClosingTime    string `json:"closingTime"`    // opening_hours.closing_time
}
