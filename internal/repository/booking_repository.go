package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"planet-beauty/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const (
	bookingColumns = `id, service_id, user_id, date, time, duration, customer_name, customer_email,
		customer_phone, notes, stylist, status, total_price, created_at, updated_at`

	activeSlotConstraint = "bookings_active_slot_key"
)

type bookingRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewBookingRepository creates a PostgreSQL-backed booking repository.
// The partial unique index on (date, time) is the final arbiter of slot ownership.
func NewBookingRepository(pool *pgxpool.Pool, logger zerolog.Logger) BookingRepository {
	return &bookingRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "booking").Logger(),
	}
}

func scanBooking(row pgx.Row, b *model.Booking) error {
	err := row.Scan(&b.ID, &b.ServiceID, &b.UserID, &b.Date, &b.Time, &b.Duration, &b.CustomerName,
		&b.CustomerEmail, &b.CustomerPhone, &b.Notes, &b.Stylist, &b.Status, &b.TotalPrice,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return err
	}
	b.DateString = b.Date.Format(model.DateLayout)
	return nil
}

func (r *bookingRepository) ExistsActiveAt(ctx context.Context, date time.Time, slot string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE date = $1 AND time = $2 AND status IN ('pending', 'confirmed')
		)
	`, date, slot).Scan(&exists)
	if err != nil {
		r.logger.Error().Err(err).Str("date", date.Format(model.DateLayout)).Str("time", slot).Msg("failed to check slot")
		return false, fmt.Errorf("failed to check slot: %w", err)
	}
	return exists, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *model.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.pool.Exec(ctx, query, b.ID, b.ServiceID, b.UserID, b.Date, b.Time, b.Duration, b.CustomerName,
		b.CustomerEmail, b.CustomerPhone, b.Notes, b.Stylist, b.Status, b.TotalPrice, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, activeSlotConstraint) {
			r.logger.Info().Str("date", b.DateString).Str("time", b.Time).Msg("slot already held")
			return model.ErrSlotTaken
		}
		r.logger.Error().Err(err).Str("booking_id", b.ID.String()).Msg("failed to create booking")
		return fmt.Errorf("failed to create booking: %w", err)
	}

	r.logger.Debug().Str("booking_id", b.ID.String()).Msg("booking created successfully")
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	if err := scanBooking(r.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("booking_id", id.String()).Msg("failed to query booking")
		return nil, fmt.Errorf("failed to query booking: %w", err)
	}
	return &b, nil
}

func (r *bookingRepository) List(ctx context.Context, filter model.BookingFilter) ([]model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE ($1::uuid IS NULL OR user_id = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY date DESC, time DESC
	`

	rows, err := r.pool.Query(ctx, query, filter.UserID, string(filter.Status))
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query bookings")
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	bookings := []model.Booking{}
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(rows, &b); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan booking row")
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) Update(ctx context.Context, b *model.Booking) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bookings
		SET status = $2, stylist = $3, notes = $4, updated_at = NOW()
		WHERE id = $1
	`, b.ID, b.Status, b.Stylist, b.Notes)
	if err != nil {
		if isUniqueViolation(err, activeSlotConstraint) {
			return model.ErrSlotTaken
		}
		r.logger.Error().Err(err).Str("booking_id", b.ID.String()).Msg("failed to update booking")
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookingNotFound
	}
	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("booking_id", id.String()).Msg("failed to delete booking")
		return false, fmt.Errorf("failed to delete booking: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
