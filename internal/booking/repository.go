package booking

import "context"

// Repository provides read access to bookings and trips.
type Repository interface {
	// GetBooking retrieves a booking by ID.
	// Returns ErrBookingNotFound if it does not exist.
	GetBooking(ctx context.Context, bookingID string) (*Booking, error)

	// GetTrip retrieves a trip by ID.
	// Returns ErrTripNotFound if it does not exist.
	GetTrip(ctx context.Context, tripID string) (*Trip, error)
}
