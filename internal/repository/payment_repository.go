package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/renterra/boxrent/internal/model"
)

// GetPayment loads a payment row.  Inside a transaction the row is locked
// so the completion write and its verification read observe the same row
// version.  Returns ErrPaymentNotFound when the id does not resolve.
func (q *queries) GetPayment(ctx context.Context, id uint64) (*model.Payment, error) {
	query := `SELECT id, user_id, amount_cents, status, completed_at, created_at
	          FROM payments WHERE id = ?` + q.forUpdate()
	var p model.Payment
	var userID sql.NullInt64
	var completedAt sql.NullTime
	err := q.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &userID, &p.AmountCents, &p.Status, &completedAt, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		uid := uint64(userID.Int64)
		p.UserID = &uid
	}
	if completedAt.Valid {
		t := completedAt.Time.UTC()
		p.CompletedAt = &t
	}
	return &p, nil
}

// CompletePayment resolves the paying user and stamps the completion time.
// The status flips to COMPLETED in the same statement.  Callers re-fetch
// the row afterwards to verify the write stuck; this method only reports
// whether a row was matched.
func (q *queries) CompletePayment(ctx context.Context, id, userID uint64, completedAt time.Time) error {
	const query = `UPDATE payments
	               SET user_id = ?, status = ?, completed_at = ?
	               WHERE id = ?`
	res, err := q.db.ExecContext(ctx, query, userID, model.PaymentStatusCompleted,
		completedAt.UTC().Format("2006-01-02 15:04:05"), id)
	if err != nil {
		return err
	}
	// RowsAffected is zero both for a missing row and for a no-op write, so
	// only the missing-row case is detectable here when the values changed.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, getErr := q.GetPayment(ctx, id); getErr != nil {
			return getErr
		}
	}
	return nil
}
