package booking

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/safarbus/safarbus/internal/policy"
)

// PolicySource supplies the ordered cancellation rules for a policy.
// Implemented by policy.Service.
type PolicySource interface {
	GetPolicy(ctx context.Context, policyID string) (*policy.Policy, error)
}

// ServiceConfig holds configuration for the booking service.
type ServiceConfig struct {
	Repository Repository
	Policies   PolicySource
	Logger     zerolog.Logger
}

// Service provides booking operations.
type Service struct {
	repo     Repository
	policies PolicySource
	logger   zerolog.Logger
}

// NewService creates a new booking service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:     cfg.Repository,
		policies: cfg.Policies,
		logger:   cfg.Logger,
	}
}

// RefundQuote is a refund calculation bound to a concrete booking.
type RefundQuote struct {
	BookingID     string
	TripID        string
	BasePrice     float64
	DepartureTime time.Time
	QuotedAt      time.Time
	Refund        policy.RefundCalculation
}

// RefundQuote computes the refund a passenger would receive for cancelling
// the booking at quotedAt. A missing policy is not an error: the calculator
// fails open to a full refund over an empty rule set, which is the deliberate
// customer-favoring default for incomplete policy data.
func (s *Service) RefundQuote(ctx context.Context, bookingID string, quotedAt time.Time) (*RefundQuote, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.Refundable() {
		return nil, ErrBookingNotRefundable
	}

	trip, err := s.repo.GetTrip(ctx, booking.TripID)
	if err != nil {
		return nil, err
	}

	var rules []policy.CancellationRule
	if trip.PolicyID != "" {
		p, err := s.policies.GetPolicy(ctx, trip.PolicyID)
		switch {
		case err == nil:
			rules = p.Rules
		case errors.Is(err, policy.ErrPolicyNotFound):
			s.logger.Warn().
				Str("trip_id", trip.ID).
				Str("policy_id", trip.PolicyID).
				Msg("trip references a missing cancellation policy, quoting fail-open")
		default:
			return nil, err
		}
	}

	return &RefundQuote{
		BookingID:     booking.ID,
		TripID:        trip.ID,
		BasePrice:     booking.BasePrice,
		DepartureTime: trip.DepartureTime,
		QuotedAt:      quotedAt,
		Refund:        policy.CalculateRefund(booking.BasePrice, trip.DepartureTime, rules, quotedAt),
	}, nil
}
