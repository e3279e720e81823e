package repository

import (
	"context"

	"github.com/renterra/boxrent/internal/model"
)

// InsertExtension appends one extension history row.  The table is
// append-only; rows are never updated or deleted.
func (q *queries) InsertExtension(ctx context.Context, e *model.BookingExtension) error {
	const query = `INSERT INTO booking_extensions
	               (booking_id, previous_end_at, new_end_at, previous_pin, new_pin,
	                additional_days, additional_cost_cents, box_status)
	               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := q.db.ExecContext(ctx, query, e.BookingID,
		e.PreviousEndAt.UTC().Format("2006-01-02 15:04:05"),
		e.NewEndAt.UTC().Format("2006-01-02 15:04:05"),
		e.PreviousPin, e.NewPin, e.AdditionalDays, e.AdditionalCostCents, e.BoxStatus)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// ListExtensionsByBooking returns a booking's extension history, oldest
// first.
func (s *Store) ListExtensionsByBooking(ctx context.Context, bookingID uint64) ([]model.BookingExtension, error) {
	const query = `SELECT id, booking_id, previous_end_at, new_end_at, previous_pin, new_pin,
	                      additional_days, additional_cost_cents, box_status, created_at
	               FROM booking_extensions
	               WHERE booking_id = ?
	               ORDER BY created_at ASC`
	rows, err := s.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	exts := make([]model.BookingExtension, 0)
	for rows.Next() {
		var e model.BookingExtension
		if err := rows.Scan(&e.ID, &e.BookingID, &e.PreviousEndAt, &e.NewEndAt,
			&e.PreviousPin, &e.NewPin, &e.AdditionalDays, &e.AdditionalCostCents,
			&e.BoxStatus, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.PreviousEndAt = e.PreviousEndAt.UTC()
		e.NewEndAt = e.NewEndAt.UTC()
		exts = append(exts, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return exts, nil
}
