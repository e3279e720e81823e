package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/renterra/boxrent/internal/model"
)

// GetLocation loads a location row.  Returns ErrLocationNotFound when the
// id does not resolve.
func (q *queries) GetLocation(ctx context.Context, id uint64) (*model.Location, error) {
	const query = `SELECT id, distributor_id, name, city, timezone, created_at
	               FROM locations WHERE id = ?`
	var l model.Location
	err := q.db.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.DistributorID, &l.Name, &l.City, &l.Timezone, &l.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// LocationPricePerWeek returns the configured weekly rate for a box model
// at a location, or nil when the distributor has not configured one and
// pricing should fall through to the box's own daily rate.
func (q *queries) LocationPricePerWeek(ctx context.Context, locationID uint64, boxModel string) (*int64, error) {
	const query = `SELECT price_per_week_cents FROM location_prices
	               WHERE location_id = ? AND box_model = ?`
	var cents int64
	err := q.db.QueryRowContext(ctx, query, locationID, boxModel).Scan(&cents)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cents, nil
}
