package repository

import (
	"context"
	"database/sql"

	"github.com/renterra/boxrent/internal/model"
)

// InsertNotification records a message for a customer.  Inside a
// transaction the row commits or rolls back with the change it describes,
// so a failed extension never leaves a stray reassignment notice.
func (q *queries) InsertNotification(ctx context.Context, n *model.Notification) error {
	const query = `INSERT INTO notifications (user_id, title, message, booking_id)
	               VALUES (?, ?, ?, ?)`
	var bookingID interface{}
	if n.BookingID != nil {
		bookingID = *n.BookingID
	}
	res, err := q.db.ExecContext(ctx, query, n.UserID, n.Title, n.Message, bookingID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return nil
}

// ListNotificationsByUser returns a user's notifications, newest first.
func (s *Store) ListNotificationsByUser(ctx context.Context, userID uint64) ([]model.Notification, error) {
	const query = `SELECT id, user_id, title, message, booking_id, created_at
	               FROM notifications
	               WHERE user_id = ?
	               ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		var bookingID sql.NullInt64
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &bookingID, &n.CreatedAt); err != nil {
			return nil, err
		}
		if bookingID.Valid {
			bid := uint64(bookingID.Int64)
			n.BookingID = &bid
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
