package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/renterra/boxrent/internal/model"
)

// DistributorForUser resolves the distributor tenant behind an identity
// provider subject.  Returns ErrForbidden when the user is not a
// distributor, so owner endpoints reject customers uniformly.
func (s *Store) DistributorForUser(ctx context.Context, userID uint64) (*model.Distributor, error) {
	const query = `SELECT id, user_id, name, created_at FROM distributors WHERE user_id = ?`
	var d model.Distributor
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&d.ID, &d.UserID, &d.Name, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListLocationsByDistributor returns the distributor's locations.
func (s *Store) ListLocationsByDistributor(ctx context.Context, distributorID uint64) ([]model.Location, error) {
	const query = `SELECT id, distributor_id, name, city, timezone, created_at
	               FROM locations WHERE distributor_id = ? ORDER BY id ASC`
	rows, err := s.db.QueryContext(ctx, query, distributorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	locations := make([]model.Location, 0)
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.DistributorID, &l.Name, &l.City, &l.Timezone, &l.CreatedAt); err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return locations, nil
}

// GetStandForOwner loads a stand and verifies it chains back to the given
// distributor.  Returns ErrStandNotFound for a missing stand and
// ErrForbidden on a tenant mismatch.
func (s *Store) GetStandForOwner(ctx context.Context, standID, distributorID uint64) (*model.Stand, error) {
	const query = `SELECT st.id, st.location_id, st.name, st.created_at, l.distributor_id
	               FROM stands st
	               JOIN locations l ON l.id = st.location_id
	               WHERE st.id = ?`
	var st model.Stand
	var owner uint64
	err := s.db.QueryRowContext(ctx, query, standID).Scan(&st.ID, &st.LocationID, &st.Name, &st.CreatedAt, &owner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStandNotFound
	}
	if err != nil {
		return nil, err
	}
	if owner != distributorID {
		return nil, ErrForbidden
	}
	return &st, nil
}

// ListStandsByLocation returns a location's stands for its owning
// distributor.  Returns ErrLocationNotFound / ErrForbidden following the
// same ownership rules as the rest of the owner surface.
func (s *Store) ListStandsByLocation(ctx context.Context, locationID, distributorID uint64) ([]model.Stand, error) {
	loc, err := s.GetLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if loc.DistributorID != distributorID {
		return nil, ErrForbidden
	}
	const query = `SELECT id, location_id, name, created_at
	               FROM stands WHERE location_id = ? ORDER BY id ASC`
	rows, err := s.db.QueryContext(ctx, query, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	stands := make([]model.Stand, 0)
	for rows.Next() {
		var st model.Stand
		if err := rows.Scan(&st.ID, &st.LocationID, &st.Name, &st.CreatedAt); err != nil {
			return nil, err
		}
		stands = append(stands, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stands, nil
}

// ListBoxesByStand returns all boxes on a stand owned by the distributor.
func (s *Store) ListBoxesByStand(ctx context.Context, standID, distributorID uint64) ([]model.Box, error) {
	if _, err := s.GetStandForOwner(ctx, standID, distributorID); err != nil {
		return nil, err
	}
	query := `SELECT ` + boxColumns + ` FROM boxes WHERE stand_id = ? ORDER BY id ASC`
	rows, err := s.db.QueryContext(ctx, query, standID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBoxes(rows)
}

// CreateBox installs a new box on a stand after verifying ownership.  The
// generated id and timestamps are populated on the record.
func (s *Store) CreateBox(ctx context.Context, distributorID uint64, b *model.Box) error {
	if _, err := s.GetStandForOwner(ctx, b.StandID, distributorID); err != nil {
		return err
	}
	const query = `INSERT INTO boxes
	               (stand_id, display_code, box_model, status, price_per_day_cents, deposit_cents, score)
	               VALUES (?, ?, ?, ?, ?, ?, ?)`
	var price interface{}
	if b.PricePerDayCents != nil {
		price = *b.PricePerDayCents
	}
	res, err := s.db.ExecContext(ctx, query, b.StandID, b.DisplayCode, b.BoxModel,
		b.Status, price, b.DepositCents, b.Score)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM boxes WHERE id = ?`
	return s.db.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt)
}
