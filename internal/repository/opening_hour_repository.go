package repository

import (
	"context"
	"database/sql"

	"github.com/hoangnm/sports-booking/internal/model"
)

// OpeningHourRepo reads the weekly schedules of sports centers.
type OpeningHourRepo struct {
	db *sql.DB
}

// NewOpeningHourRepo returns a new OpeningHourRepo bound to the
// provided database.
func NewOpeningHourRepo(db *sql.DB) *OpeningHourRepo { return &OpeningHourRepo{db: db} }

// ListBySportsCenter returns every opening-hours row of one venue,
// at most one per weekday. An empty result means the venue published
// no schedule and has no bookable slots.
func (r *OpeningHourRepo) ListBySportsCenter(ctx context.Context, centerID uint64) ([]model.OpeningHour, error) {
	const q = `SELECT id, sports_center_id, day_of_week, opening_time, closing_time
	           FROM opening_hours WHERE sports_center_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, centerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.OpeningHour
	for rows.Next() {
		var h model.OpeningHour
		if err := rows.Scan(&h.ID, &h.SportsCenterID, &h.DayOfWeek, &h.OpeningTime, &h.ClosingTime); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
