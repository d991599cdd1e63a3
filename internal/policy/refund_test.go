package policy_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/safarbus/safarbus/internal/policy"
)

func fptr(v float64) *float64 { return &v }

func TestCalculateRefund_MatchedRule(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	departure := now.Add(10 * time.Hour)

	rules := []policy.CancellationRule{
		{RuleID: "r1", MinHours: fptr(6), MaxHours: fptr(24), RefundPercentage: 50, CancellationFee: 20},
	}

	result := policy.CalculateRefund(200, departure, rules, now)

	assert.InDelta(t, 80, result.RefundAmount, 1e-9)
	assert.InDelta(t, 120, result.CancellationFee, 1e-9)
	assert.InDelta(t, 50, result.RefundPercentage, 1e-9)
	assert.Equal(t, "r1", result.AppliedRuleID)
}

func TestCalculateRefund_ConservationInvariant(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		basePrice float64
		hours     float64
		rule      policy.CancellationRule
	}{
		{"typical", 150, 12, policy.CancellationRule{RuleID: "a", MinHours: fptr(6), MaxHours: fptr(24), RefundPercentage: 75, CancellationFee: 10}},
		{"fee exceeds entitlement", 40, 8, policy.CancellationRule{RuleID: "b", MinHours: fptr(6), MaxHours: fptr(24), RefundPercentage: 10, CancellationFee: 100}},
		{"zero price", 0, 8, policy.CancellationRule{RuleID: "c", MinHours: fptr(6), MaxHours: fptr(24), RefundPercentage: 50, CancellationFee: 0}},
		{"full percentage", 99.5, 7.25, policy.CancellationRule{RuleID: "d", MinHours: fptr(6), MaxHours: fptr(24), RefundPercentage: 100, CancellationFee: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			departure := now.Add(time.Duration(tt.hours * float64(time.Hour)))
			result := policy.CalculateRefund(tt.basePrice, departure, []policy.CancellationRule{tt.rule}, now)

			assert.Equal(t, tt.rule.RuleID, result.AppliedRuleID)
			assert.GreaterOrEqual(t, result.RefundAmount, 0.0)
			assert.InDelta(t, tt.basePrice, result.RefundAmount+result.CancellationFee, 1e-9)
		})
	}
}

func TestCalculateRefund_AlreadyDeparted(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	departure := now.Add(-2 * time.Hour)

	// Rules grant a full refund, but the departed guard wins regardless.
	rules := []policy.CancellationRule{
		{RuleID: "generous", RefundPercentage: 100},
	}

	result := policy.CalculateRefund(200, departure, rules, now)

	assert.Zero(t, result.RefundAmount)
	assert.InDelta(t, 200, result.CancellationFee, 1e-9)
	assert.Zero(t, result.RefundPercentage)
	assert.Empty(t, result.AppliedRuleID)
}

func TestCalculateRefund_DepartingExactlyNow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	result := policy.CalculateRefund(120, now, nil, now)

	assert.Zero(t, result.RefundAmount)
	assert.InDelta(t, 120, result.CancellationFee, 1e-9)
}

func TestCalculateRefund_NoMatchFailsOpen(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	departure := now.Add(1 * time.Hour)

	// Rules only cover >= 6h before departure; 1h falls outside every window.
	rules := []policy.CancellationRule{
		{RuleID: "r1", MinHours: fptr(6), MaxHours: fptr(24), RefundPercentage: 50, CancellationFee: 20},
		{RuleID: "r2", MinHours: fptr(24), RefundPercentage: 90},
	}

	result := policy.CalculateRefund(200, departure, rules, now)

	assert.InDelta(t, 200, result.RefundAmount, 1e-9)
	assert.Zero(t, result.CancellationFee)
	assert.InDelta(t, 100, result.RefundPercentage, 1e-9)
	assert.Empty(t, result.AppliedRuleID)
}

func TestCalculateRefund_EmptyRulesFailsOpen(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	result := policy.CalculateRefund(80, now.Add(5*time.Hour), nil, now)

	assert.InDelta(t, 80, result.RefundAmount, 1e-9)
	assert.Zero(t, result.CancellationFee)
}

func TestCalculateRefund_FirstMatchWins(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	departure := now.Add(10 * time.Hour)

	// Deliberately overlapping windows: both contain 10h.
	rules := []policy.CancellationRule{
		{RuleID: "first", MinHours: fptr(5), MaxHours: fptr(15), RefundPercentage: 30},
		{RuleID: "second", MinHours: fptr(0), MaxHours: fptr(48), RefundPercentage: 90},
	}

	result := policy.CalculateRefund(100, departure, rules, now)

	assert.Equal(t, "first", result.AppliedRuleID)
	assert.InDelta(t, 30, result.RefundAmount, 1e-9)
}

func TestCalculateRefund_InclusiveBounds(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rule := policy.CancellationRule{RuleID: "r", MinHours: fptr(6), MaxHours: fptr(24), RefundPercentage: 50}

	lower := policy.CalculateRefund(100, now.Add(6*time.Hour), []policy.CancellationRule{rule}, now)
	assert.Equal(t, "r", lower.AppliedRuleID)

	upper := policy.CalculateRefund(100, now.Add(24*time.Hour), []policy.CancellationRule{rule}, now)
	assert.Equal(t, "r", upper.AppliedRuleID)
}

func TestCalculateRefund_NilBounds(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Nil min is treated as 0, nil max as unbounded.
	openEnded := []policy.CancellationRule{
		{RuleID: "open", RefundPercentage: 60},
	}

	near := policy.CalculateRefund(100, now.Add(30*time.Minute), openEnded, now)
	assert.Equal(t, "open", near.AppliedRuleID)

	far := policy.CalculateRefund(100, now.Add(1000*time.Hour), openEnded, now)
	assert.Equal(t, "open", far.AppliedRuleID)
}

func TestCalculateRefund_FeeNeverProducesNegativeRefund(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	departure := now.Add(10 * time.Hour)

	rules := []policy.CancellationRule{
		{RuleID: "r", MinHours: fptr(0), MaxHours: fptr(24), RefundPercentage: 10, CancellationFee: 500},
	}

	result := policy.CalculateRefund(200, departure, rules, now)

	assert.Zero(t, result.RefundAmount)
	assert.InDelta(t, 200, result.CancellationFee, 1e-9)
	assert.Equal(t, "r", result.AppliedRuleID)
}

func TestCalculateRefund_FractionalHours(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	departure := now.Add(90 * time.Minute) // 1.5h

	rules := []policy.CancellationRule{
		{RuleID: "r", MinHours: fptr(1), MaxHours: fptr(2), RefundPercentage: 25},
	}

	result := policy.CalculateRefund(100, departure, rules, now)

	assert.Equal(t, "r", result.AppliedRuleID)
	assert.InDelta(t, 25, result.RefundAmount, 1e-9)
}
