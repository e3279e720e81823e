package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/renterra/boxrent/internal/model"
)

const bookingColumns = `id, box_id, payment_id, display_code, start_at, end_at,
                        status, lock_pin, created_at, updated_at`

func scanBooking(scan func(dest ...interface{}) error) (*model.Booking, error) {
	var b model.Booking
	err := scan(&b.ID, &b.BoxID, &b.PaymentID, &b.DisplayCode,
		&b.StartAt, &b.EndAt, &b.Status, &b.LockPin, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.StartAt = b.StartAt.UTC()
	b.EndAt = b.EndAt.UTC()
	return &b, nil
}

// GetBooking loads a single booking.  Inside a transaction the row is
// locked so concurrent extensions on the same booking serialize.  Returns
// ErrBookingNotFound when the id does not resolve.
func (q *queries) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?` + q.forUpdate()
	b, err := scanBooking(q.db.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// OpenBookingsForBox lists the UPCOMING and ACTIVE bookings on a box,
// optionally excluding one booking id (pass 0 to exclude none).  Inside a
// transaction the rows are locked: a reassignment decision made from this
// scan must still hold when the reassignment is written.
func (q *queries) OpenBookingsForBox(ctx context.Context, boxID, excludeBookingID uint64) ([]model.Booking, error) {
	query := `SELECT ` + bookingColumns + `
	          FROM bookings
	          WHERE box_id = ? AND id <> ? AND status IN (?, ?)
	          ORDER BY start_at ASC` + q.forUpdate()
	rows, err := q.db.QueryContext(ctx, query, boxID, excludeBookingID,
		model.BookingStatusUpcoming, model.BookingStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// NextDisplayCode generates the next YYMMDD-NNN code for the given day.
// The lookup reads the highest code issued today; inside a transaction the
// read takes a row lock (and, on InnoDB, a gap lock on the day prefix when
// no row exists yet), which serializes concurrent creations so two
// bookings in the same transaction-overlap window never share a sequence
// number.  Returns ErrSequenceExhausted past sequence 999.
func (q *queries) NextDisplayCode(ctx context.Context, day time.Time) (string, error) {
	prefix := day.UTC().Format("060102")
	query := `SELECT display_code FROM bookings
	          WHERE display_code LIKE CONCAT(?, '-%')
	          ORDER BY display_code DESC
	          LIMIT 1` + q.forUpdate()
	var last string
	err := q.db.QueryRowContext(ctx, query, prefix).Scan(&last)
	if errors.Is(err, sql.ErrNoRows) {
		return nextSequenceCode(prefix, "")
	}
	if err != nil {
		return "", err
	}
	return nextSequenceCode(prefix, last)
}

// nextSequenceCode computes the display code following last for the given
// day prefix.  An empty last starts the day at 001; sequence 999 is the
// hard ceiling and yields ErrSequenceExhausted.
func nextSequenceCode(prefix, last string) (string, error) {
	if last == "" {
		return fmt.Sprintf("%s-001", prefix), nil
	}
	seq, err := parseSequence(last)
	if err != nil {
		return "", err
	}
	if seq >= 999 {
		return "", ErrSequenceExhausted
	}
	return fmt.Sprintf("%s-%03d", prefix, seq+1), nil
}

// parseSequence extracts the NNN suffix from a YYMMDD-NNN code.
func parseSequence(code string) (int, error) {
	idx := strings.LastIndex(code, "-")
	if idx < 0 || idx+1 >= len(code) {
		return 0, fmt.Errorf("malformed display code %q", code)
	}
	seq, err := strconv.Atoi(code[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("malformed display code %q: %w", code, err)
	}
	return seq, nil
}

// InsertBooking persists a new booking and populates the generated id and
// timestamps on the provided record.
func (q *queries) InsertBooking(ctx context.Context, b *model.Booking) error {
	const query = `INSERT INTO bookings
	               (box_id, payment_id, display_code, start_at, end_at, status, lock_pin)
	               VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := q.db.ExecContext(ctx, query, b.BoxID, b.PaymentID, b.DisplayCode,
		b.StartAt.UTC().Format("2006-01-02 15:04:05"),
		b.EndAt.UTC().Format("2006-01-02 15:04:05"),
		b.Status, b.LockPin)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Read back timestamps set by column defaults.
	const sel = `SELECT created_at, updated_at FROM bookings WHERE id = ?`
	return q.db.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt)
}

// ReassignBookingBox moves a displaced booking onto an alternate box.
func (q *queries) ReassignBookingBox(ctx context.Context, bookingID, newBoxID uint64) error {
	const query = `UPDATE bookings SET box_id = ? WHERE id = ?`
	res, err := q.db.ExecContext(ctx, query, newBoxID, bookingID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, getErr := q.GetBooking(ctx, bookingID); getErr != nil {
			return getErr
		}
	}
	return nil
}

// UpdateBookingEndAndPin applies an extension's outcome: the new end
// instant and the replacement lock PIN.  These two columns are mutated
// only here.
func (q *queries) UpdateBookingEndAndPin(ctx context.Context, bookingID uint64, newEnd time.Time, pin int64) error {
	const query = `UPDATE bookings SET end_at = ?, lock_pin = ? WHERE id = ?`
	res, err := q.db.ExecContext(ctx, query,
		newEnd.UTC().Format("2006-01-02 15:04:05"), pin, bookingID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, getErr := q.GetBooking(ctx, bookingID); getErr != nil {
			return getErr
		}
	}
	return nil
}

// BookingDetail is a booking joined with its box, stand and location
// context for customer-facing listings.
type BookingDetail struct {
	ID           uint64    `json:"id"`
	DisplayCode  string    `json:"display_code"`
	Status       string    `json:"status"`
	StartAt      time.Time `json:"start_at"`
	EndAt        time.Time `json:"end_at"`
	LockPin      int64     `json:"lock_pin"`
	BoxID        uint64    `json:"box_id"`
	BoxCode      string    `json:"box_code"`
	BoxModel     string    `json:"box_model"`
	StandID      uint64    `json:"stand_id"`
	StandName    string    `json:"stand_name"`
	LocationID   uint64    `json:"location_id"`
	LocationName string    `json:"location_name"`
	AmountCents  int64     `json:"amount_cents"`
}

const bookingDetailQuery = `SELECT bk.id, bk.display_code, bk.status, bk.start_at, bk.end_at, bk.lock_pin,
	       b.id, b.display_code, b.box_model,
	       st.id, st.name, l.id, l.name, p.amount_cents
	FROM bookings bk
	JOIN boxes b ON b.id = bk.box_id
	JOIN stands st ON st.id = b.stand_id
	JOIN locations l ON l.id = st.location_id
	JOIN payments p ON p.id = bk.payment_id`

func scanBookingDetail(scan func(dest ...interface{}) error) (*BookingDetail, error) {
	var d BookingDetail
	err := scan(&d.ID, &d.DisplayCode, &d.Status, &d.StartAt, &d.EndAt, &d.LockPin,
		&d.BoxID, &d.BoxCode, &d.BoxModel,
		&d.StandID, &d.StandName, &d.LocationID, &d.LocationName, &d.AmountCents)
	if err != nil {
		return nil, err
	}
	d.StartAt = d.StartAt.UTC()
	d.EndAt = d.EndAt.UTC()
	return &d, nil
}

// ListBookingsByUser returns all bookings paid for by the given user,
// newest first, with box, stand and location context.
func (s *Store) ListBookingsByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	query := bookingDetailQuery + `
	        WHERE p.user_id = ?
	        ORDER BY bk.created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		d, err := scanBookingDetail(rows.Scan)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// GetBookingDetailForUser returns one booking with context, enforcing that
// the caller paid for it.  Returns ErrBookingNotFound for a missing id and
// ErrForbidden when the booking belongs to someone else.
func (s *Store) GetBookingDetailForUser(ctx context.Context, bookingID, userID uint64) (*BookingDetail, error) {
	const ownerQ = `SELECT p.user_id FROM bookings bk
	                JOIN payments p ON p.id = bk.payment_id
	                WHERE bk.id = ?`
	var owner sql.NullInt64
	err := s.db.QueryRowContext(ctx, ownerQ, bookingID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	if !owner.Valid || uint64(owner.Int64) != userID {
		return nil, ErrForbidden
	}
	query := bookingDetailQuery + ` WHERE bk.id = ?`
	d, err := scanBookingDetail(s.db.QueryRowContext(ctx, query, bookingID).Scan)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListBookingsByLocationForOwner returns all bookings at a location for the
// owning distributor, newest first.  Returns ErrLocationNotFound for an
// unknown location and ErrForbidden when the location belongs to a
// different distributor.
func (s *Store) ListBookingsByLocationForOwner(ctx context.Context, locationID, distributorID uint64) ([]BookingDetail, error) {
	loc, err := s.GetLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if loc.DistributorID != distributorID {
		return nil, ErrForbidden
	}
	query := bookingDetailQuery + `
	        WHERE l.id = ?
	        ORDER BY bk.created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		d, err := scanBookingDetail(rows.Scan)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
