package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hoangnm/sports-booking/internal/model"
)

// BookingRepo manages persistence for bookings. Reads exclude
// CANCELLED rows because a cancelled booking no longer occupies its
// interval. Writes happen only through the checkout and
// payment-confirmation flows.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the provided database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying sql.DB for multi-repository transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, court_id, user_id, start_date, start_time, end_time, status, total_price, payment_ref, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.CourtID, &b.UserID, &b.StartDate, &b.StartTime, &b.EndTime,
		&b.Status, &b.TotalPrice, &b.PaymentRef, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// GetByID fetches one booking regardless of status.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListForCourtDate returns the bookings that occupy intervals on one
// court-day: every status except CANCELLED.
func (r *BookingRepo) ListForCourtDate(ctx context.Context, courtID uint64, date string) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + `
	           FROM bookings
	           WHERE court_id = ? AND start_date = ? AND status <> 'CANCELLED'
	           ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, courtID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListForCourtDateTx is ListForCourtDate inside the caller's
// transaction, locking the matched rows. Checkout uses it so the
// conflict check and the insert see one consistent snapshot; two
// concurrent checkouts for the same court-day serialize on the locks.
func (r *BookingRepo) ListForCourtDateTx(ctx context.Context, tx *sql.Tx, courtID uint64, date string) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + `
	           FROM bookings
	           WHERE court_id = ? AND start_date = ? AND status <> 'CANCELLED'
	           ORDER BY id
	           FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, courtID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CreateTx inserts a new booking within the provided transaction and
// populates the generated id and DB-default timestamps on b. The
// caller must commit or roll back the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (court_id, user_id, start_date, start_time, end_time, status, total_price, payment_ref)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.CourtID, b.UserID, b.StartDate, b.StartTime, b.EndTime, b.Status, b.TotalPrice, b.PaymentRef)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM bookings WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt)
}

// TransitionStatus moves one booking from an expected prior status to
// a new one. Returns ErrBookingNotFound when the id matches nothing
// and ErrNoChange when the row exists but is no longer in the expected
// state (already promoted, or cancelled meanwhile).
func (r *BookingRepo) TransitionStatus(ctx context.Context, id uint64, from, to string) error {
	const q = `UPDATE bookings SET status = ? WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, to, id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrNoChange
	}
	return nil
}
