package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/renterra/boxrent/internal/model"
)

const boxColumns = `id, stand_id, display_code, box_model, status,
                    price_per_day_cents, deposit_cents, score, created_at, updated_at`

// scanBox reads one box row from a *sql.Row or *sql.Rows scanner.
func scanBox(scan func(dest ...interface{}) error) (*model.Box, error) {
	var b model.Box
	var price sql.NullInt64
	err := scan(&b.ID, &b.StandID, &b.DisplayCode, &b.BoxModel, &b.Status,
		&price, &b.DepositCents, &b.Score, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if price.Valid {
		p := price.Int64
		b.PricePerDayCents = &p
	}
	return &b, nil
}

// GetBox loads a single box.  Inside a transaction the row is locked so a
// concurrent extension or creation touching the same box serializes here.
// Returns ErrBoxNotFound when the id does not resolve.
func (q *queries) GetBox(ctx context.Context, id uint64) (*model.Box, error) {
	query := `SELECT ` + boxColumns + ` FROM boxes WHERE id = ?` + q.forUpdate()
	b, err := scanBox(q.db.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBoxNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateBoxScore overwrites the box's reassignment-preference score.
func (q *queries) UpdateBoxScore(ctx context.Context, boxID uint64, score int64) error {
	const query = `UPDATE boxes SET score = ? WHERE id = ?`
	res, err := q.db.ExecContext(ctx, query, score, boxID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, getErr := q.GetBox(ctx, boxID); getErr != nil {
			return getErr
		}
	}
	return nil
}

// StandLocationForBox resolves the stand and location a box belongs to.
// Returns ErrBoxNotFound when the box does not exist.
func (q *queries) StandLocationForBox(ctx context.Context, boxID uint64) (standID, locationID uint64, err error) {
	const query = `SELECT st.id, st.location_id
	               FROM boxes b
	               JOIN stands st ON st.id = b.stand_id
	               WHERE b.id = ?`
	err = q.db.QueryRowContext(ctx, query, boxID).Scan(&standID, &locationID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, ErrBoxNotFound
	}
	if err != nil {
		return 0, 0, err
	}
	return standID, locationID, nil
}

// AlternateBoxes lists the ACTIVE boxes of the given model at a location,
// excluding one box, ordered by ascending score so the least-recently and
// least-long used box is tried first during reassignment.  Inside a
// transaction the candidate rows are locked, which serializes two
// extensions competing for the same alternate.
func (q *queries) AlternateBoxes(ctx context.Context, locationID uint64, boxModel string, excludeBoxID uint64) ([]model.Box, error) {
	query := `SELECT b.` + rewriteBoxColumns() + `
	          FROM boxes b
	          JOIN stands st ON st.id = b.stand_id
	          WHERE st.location_id = ? AND b.box_model = ? AND b.status = ? AND b.id <> ?
	          ORDER BY b.score ASC, b.id ASC` + q.forUpdate()
	rows, err := q.db.QueryContext(ctx, query, locationID, boxModel, model.BoxStatusActive, excludeBoxID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBoxes(rows)
}

// ActiveBoxesAtLocation lists every ACTIVE box at a location across all of
// its stands.  An empty boxModel matches all models.
func (q *queries) ActiveBoxesAtLocation(ctx context.Context, locationID uint64, boxModel string) ([]model.Box, error) {
	query := `SELECT b.` + rewriteBoxColumns() + `
	          FROM boxes b
	          JOIN stands st ON st.id = b.stand_id
	          WHERE st.location_id = ? AND b.status = ?`
	args := []interface{}{locationID, model.BoxStatusActive}
	if boxModel != "" {
		query += ` AND b.box_model = ?`
		args = append(args, boxModel)
	}
	query += ` ORDER BY b.id ASC`
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBoxes(rows)
}

// rewriteBoxColumns prefixes the shared column list for aliased queries.
func rewriteBoxColumns() string {
	return `id, b.stand_id, b.display_code, b.box_model, b.status,
	        b.price_per_day_cents, b.deposit_cents, b.score, b.created_at, b.updated_at`
}

func collectBoxes(rows *sql.Rows) ([]model.Box, error) {
	boxes := make([]model.Box, 0)
	for rows.Next() {
		b, err := scanBox(rows.Scan)
		if err != nil {
			return nil, err
		}
		boxes = append(boxes, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return boxes, nil
}
