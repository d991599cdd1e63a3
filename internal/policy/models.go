// Package policy provides cancellation policy rules and refund calculation.
package policy

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrPolicyNotFound = errors.New("cancellation policy not found")
)

// CancellationRule describes one tier of a cancellation policy: a window of
// hours before departure mapped to refund terms. Bounds are inclusive; a nil
// MinHours means no lower bound (0), a nil MaxHours means unbounded.
type CancellationRule struct {
	// RuleID uniquely identifies this rule.
	RuleID string

	// MinHours is the inclusive lower bound in hours before departure.
	MinHours *float64

	// MaxHours is the inclusive upper bound in hours before departure.
	MaxHours *float64

	// RefundPercentage is the refunded share of the base price (0-100).
	RefundPercentage float64

	// CancellationFee is a fixed fee deducted from the percentage-based
	// entitlement. Defaults to 0.
	CancellationFee float64
}

// Contains reports whether the given hours-before-departure value falls
// within the rule's window.
func (r *CancellationRule) Contains(hours float64) bool {
	min := 0.0
	if r.MinHours != nil {
		min = *r.MinHours
	}
	if hours < min {
		return false
	}
	if r.MaxHours != nil && hours > *r.MaxHours {
		return false
	}
	return true
}

// Policy is a named, ordered sequence of cancellation rules. Rule order is
// significant: the calculator selects the first matching rule.
type Policy struct {
	ID        string
	Name      string
	Rules     []CancellationRule
	UpdatedAt time.Time
}

// RefundCalculation is the outcome of a refund computation.
type RefundCalculation struct {
	// RefundAmount is the amount returned to the customer, never negative.
	RefundAmount float64

	// CancellationFee is the amount retained. For a matched rule,
	// RefundAmount + CancellationFee equals the base price.
	CancellationFee float64

	// RefundPercentage is the applied percentage, informational.
	RefundPercentage float64

	// AppliedRuleID identifies the matching rule, or is empty when a
	// default path (departed guard or fail-open) was taken.
	AppliedRuleID string
}
