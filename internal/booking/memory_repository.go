package booking

import (
	"context"
	"sync"
)

// MemoryRepository is an in-memory implementation of Repository for tests
// and local development.
type MemoryRepository struct {
	mu       sync.RWMutex
	bookings map[string]*Booking
	trips    map[string]*Trip
}

// NewMemoryRepository creates a new in-memory booking repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		bookings: make(map[string]*Booking),
		trips:    make(map[string]*Trip),
	}
}

// GetBooking retrieves a booking by ID.
func (r *MemoryRepository) GetBooking(_ context.Context, bookingID string) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

// GetTrip retrieves a trip by ID.
func (r *MemoryRepository) GetTrip(_ context.Context, tripID string) (*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trips[tripID]
	if !ok {
		return nil, ErrTripNotFound
	}
	return t, nil
}

// SetBooking stores a booking.
func (r *MemoryRepository) SetBooking(b *Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = b
}

// SetTrip stores a trip.
func (r *MemoryRepository) SetTrip(t *Trip) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trips[t.ID] = t
}
