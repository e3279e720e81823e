package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/renterra/boxrent/internal/model"
)

// Queries is the method set shared by the plain store and a transaction
// scope.  Services program against this interface so that the booking
// creation and extension flows can be exercised with test doubles, while
// production code runs them against MySQL.  Methods that take row locks
// (FOR UPDATE) do so only when executed inside WithinTx; outside a
// transaction the same statements run as plain reads.
type Queries interface {
	// payments
	GetPayment(ctx context.Context, id uint64) (*model.Payment, error)
	CompletePayment(ctx context.Context, id, userID uint64, completedAt time.Time) error

	// boxes
	GetBox(ctx context.Context, id uint64) (*model.Box, error)
	UpdateBoxScore(ctx context.Context, boxID uint64, score int64) error
	StandLocationForBox(ctx context.Context, boxID uint64) (standID, locationID uint64, err error)
	AlternateBoxes(ctx context.Context, locationID uint64, boxModel string, excludeBoxID uint64) ([]model.Box, error)

	// locations
	GetLocation(ctx context.Context, id uint64) (*model.Location, error)
	ActiveBoxesAtLocation(ctx context.Context, locationID uint64, boxModel string) ([]model.Box, error)
	LocationPricePerWeek(ctx context.Context, locationID uint64, boxModel string) (*int64, error)

	// bookings
	GetBooking(ctx context.Context, id uint64) (*model.Booking, error)
	OpenBookingsForBox(ctx context.Context, boxID, excludeBookingID uint64) ([]model.Booking, error)
	NextDisplayCode(ctx context.Context, day time.Time) (string, error)
	InsertBooking(ctx context.Context, b *model.Booking) error
	ReassignBookingBox(ctx context.Context, bookingID, newBoxID uint64) error
	UpdateBookingEndAndPin(ctx context.Context, bookingID uint64, newEnd time.Time, pin int64) error

	// extensions and notifications
	InsertExtension(ctx context.Context, e *model.BookingExtension) error
	InsertNotification(ctx context.Context, n *model.Notification) error
}

// dbtx is the subset of *sql.DB and *sql.Tx the query methods need.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// queries implements Queries over either a *sql.DB or a *sql.Tx.  The
// locking flag appends FOR UPDATE to the statements that serialize hot rows
// (daily sequence lookup, box and booking scans during reassignment); it is
// set only for transaction scopes.
type queries struct {
	db      dbtx
	locking bool
}

// forUpdate returns the row-locking suffix when inside a transaction.
func (q *queries) forUpdate() string {
	if q.locking {
		return " FOR UPDATE"
	}
	return ""
}

// Store is the root data-access object bound to the connection pool.  Its
// methods run as auto-committed statements; WithinTx runs a function
// against a transaction scope with row locking enabled.
type Store struct {
	queries
	db *sql.DB
}

// NewStore returns a Store bound to the given database.
func NewStore(db *sql.DB) *Store {
	return &Store{queries: queries{db: db}, db: db}
}

// DB exposes the underlying pool for middleware and health checks.
func (s *Store) DB() *sql.DB { return s.db }

// WithinTx executes fn inside a single database transaction at repeatable
// read isolation and commits only when fn returns nil; any error rolls the
// whole transaction back.  Repeatable read is required so two concurrent
// extensions cannot both observe the same alternate box as free (plain read
// committed would race).
func (s *Store) WithinTx(ctx context.Context, fn func(q Queries) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&queries{db: tx, locking: true}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
