package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	ListOccupancy(ctx context.Context, tourID string, from time.Time) ([]domain.OccupancyRow, error)
	Create(ctx context.Context, booking *domain.Booking) error
	CreateWithinCapacity(ctx context.Context, booking *domain.Booking, maxCapacity int) error
	ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
	Check(ctx context.Context) error
}

// DB is the part of *pgxpool.Pool the repository uses.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

type PGBookingRepository struct {
	db DB
}

func NewBookingRepository(db DB) BookingRepository {
	return &PGBookingRepository{db: db}
}

const (
	listOccupancySQL = `SELECT date, guests FROM bookings
	WHERE tour_id=$1 AND date >= $2 AND payment_status <> $3`

	lockDateSQL = `SELECT pg_advisory_xact_lock(hashtext($1))`

	occupiedOnDateSQL = `SELECT COALESCE(SUM(guests), 0) FROM bookings
	WHERE tour_id=$1 AND date=$2 AND payment_status <> $3`

	insertBookingSQL = `INSERT INTO bookings (date, tour_id, guests, payment_status, stripe_id, customer_email, customer_name)
	VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''))
	ON CONFLICT (stripe_id) DO NOTHING
	RETURNING id, created_at`

	expirePendingSQL = `UPDATE bookings SET payment_status=$1
	WHERE payment_status=$2 AND created_at <= $3
	RETURNING id, date, tour_id, guests, payment_status, COALESCE(stripe_id, ''), COALESCE(customer_email, ''), COALESCE(customer_name, ''), created_at`

	countBookingsSQL = `SELECT count(*) FROM bookings`
)

func (r *PGBookingRepository) ListOccupancy(ctx context.Context, tourID string, from time.Time) ([]domain.OccupancyRow, error) {
	rows, err := r.db.Query(ctx, listOccupancySQL, tourID, from, domain.PaymentStatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.OccupancyRow, 0)
	for rows.Next() {
		var row domain.OccupancyRow
		if err := rows.Scan(&row.Date, &row.Guests); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// Create inserts the row as-is. A reference that already exists is treated
// as the same submission and leaves booking.ID at zero.
func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return scanInserted(r.db.QueryRow(ctx, insertBookingSQL, insertArgs(booking)...), booking)
}

// CreateWithinCapacity serialises writers of the same (tour, date) with a
// transaction-scoped advisory lock and inserts only if the row still fits.
func (r *PGBookingRepository) CreateWithinCapacity(ctx context.Context, booking *domain.Booking, maxCapacity int) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, lockDateSQL, lockKey(booking.TourID, booking.Date)); err != nil {
		return fmt.Errorf("lock %s: %w", lockKey(booking.TourID, booking.Date), err)
	}

	var occupied int
	if err := tx.QueryRow(ctx, occupiedOnDateSQL,
		booking.TourID, booking.Date, domain.PaymentStatusCancelled).Scan(&occupied); err != nil {
		return err
	}
	if occupied+booking.Guests > maxCapacity {
		return domain.ErrSoldOut
	}

	if err := scanInserted(tx.QueryRow(ctx, insertBookingSQL, insertArgs(booking)...), booking); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGBookingRepository) ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, expirePendingSQL,
		domain.PaymentStatusCancelled, domain.PaymentStatusPending, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.Date, &b.TourID, &b.Guests, &b.PaymentStatus, &b.Reference, &b.CustomerEmail, &b.CustomerName, &b.CreatedAt); err != nil {
			return nil, err
		}
		expired = append(expired, b)
	}
	return expired, rows.Err()
}

// Check verifies the pool is reachable and the bookings table exists.
func (r *PGBookingRepository) Check(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	var n int64
	if err := r.db.QueryRow(ctx, countBookingsSQL).Scan(&n); err != nil {
		return fmt.Errorf("bookings table: %w", err)
	}
	return nil
}

func insertArgs(b *domain.Booking) []any {
	return []any{b.Date, b.TourID, b.Guests, b.PaymentStatus, b.Reference, b.CustomerEmail, b.CustomerName}
}

func scanInserted(row pgx.Row, booking *domain.Booking) error {
	err := row.Scan(&booking.ID, &booking.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}

func lockKey(tourID string, date time.Time) string {
	return tourID + "|" + domain.DateKey(date)
}

var (
	_ BookingRepository = (*PGBookingRepository)(nil)
	_ DB                = (*pgxpool.Pool)(nil)
)
