package policy

import "time"

// CalculateRefund computes the refund for cancelling a booking with the given
// base price at cancelledAt, against a trip departing at departure. Rules are
// scanned in caller order and the first rule whose window contains the time
// until departure wins; the calculator performs no overlap resolution.
//
// The function is pure: no I/O, no clock access, total over its input domain.
//
// Branches, in priority order:
//   - departure already passed (or passing): zero refund, fee is the full
//     base price, regardless of rule content
//   - first matching rule: refund = max(0, basePrice*pct/100 - fee),
//     cancellation fee derived as basePrice - refund so the two always sum
//     to the base price
//   - no rule matches: full refund, zero fee (fail-open toward the customer
//     when policy data does not cover the window)
func CalculateRefund(basePrice float64, departure time.Time, rules []CancellationRule, cancelledAt time.Time) RefundCalculation {
	hoursUntilDeparture := departure.Sub(cancelledAt).Hours()

	if hoursUntilDeparture <= 0 {
		return RefundCalculation{
			RefundAmount:     0,
			CancellationFee:  basePrice,
			RefundPercentage: 0,
		}
	}

	for i := range rules {
		rule := &rules[i]
		if !rule.Contains(hoursUntilDeparture) {
			continue
		}

		refund := basePrice*(rule.RefundPercentage/100) - rule.CancellationFee
		if refund < 0 {
			refund = 0
		}

		return RefundCalculation{
			RefundAmount:     refund,
			CancellationFee:  basePrice - refund,
			RefundPercentage: rule.RefundPercentage,
			AppliedRuleID:    rule.RuleID,
		}
	}

	return RefundCalculation{
		RefundAmount:     basePrice,
		CancellationFee:  0,
		RefundPercentage: 100,
	}
}
