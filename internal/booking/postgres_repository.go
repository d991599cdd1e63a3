package booking

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL booking repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// GetBooking retrieves a booking by ID.
func (r *PostgresRepository) GetBooking(ctx context.Context, bookingID string) (*Booking, error) {
	query := `
		SELECT id, user_id, trip_id, seat_number, base_price, status, created_at
		FROM bookings
		WHERE id = $1
	`

	var booking Booking
	err := r.pool.QueryRow(ctx, query, bookingID).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.TripID,
		&booking.SeatNumber,
		&booking.BasePrice,
		&booking.Status,
		&booking.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &booking, nil
}

// GetTrip retrieves a trip by ID.
func (r *PostgresRepository) GetTrip(ctx context.Context, tripID string) (*Trip, error) {
	query := `
		SELECT id, route_name, departure_time, arrival_time, status, cancellation_policy_id
		FROM trips
		WHERE id = $1
	`

	var trip Trip
	err := r.pool.QueryRow(ctx, query, tripID).Scan(
		&trip.ID,
		&trip.RouteName,
		&trip.DepartureTime,
		&trip.ArrivalTime,
		&trip.Status,
		&trip.PolicyID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	return &trip, nil
}
