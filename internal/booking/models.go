// Package booking provides booking and trip read models backing refund
// quotes.
package booking

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrTripNotFound    = errors.New("trip not found")
)

// ErrBookingNotRefundable is returned when a quote is requested for a
// booking that is not in a refundable state.
var ErrBookingNotRefundable = errors.New("booking is not refundable")

// Booking statuses as stored.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusRefunded  = "refunded"
)

// Booking is a passenger booking on a trip.
type Booking struct {
	ID         string
	UserID     string
	TripID     string
	SeatNumber string
	BasePrice  float64
	Status     string
	CreatedAt  time.Time
}

// Refundable reports whether a refund quote makes sense for this booking.
func (b *Booking) Refundable() bool {
	return b.Status == StatusConfirmed
}

// Trip is the trip summary a refund quote needs.
type Trip struct {
	ID            string
	RouteName     string
	DepartureTime time.Time
	ArrivalTime   time.Time
	Status        string
	PolicyID      string
}
