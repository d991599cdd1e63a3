package policy

import "fmt"

// RuleWarning describes a suspicious condition found in a rule set.
type RuleWarning struct {
	// RuleID is the offending rule (the later of the two for overlaps).
	RuleID string

	// Message describes the condition.
	Message string
}

func (w RuleWarning) String() string {
	return fmt.Sprintf("rule %s: %s", w.RuleID, w.Message)
}

// ValidateRules inspects a rule set for conditions that make first-match
// selection order-sensitive or leave windows uncovered. It never rejects:
// the calculator contract is first-match in caller order, so overlapping
// data still produces a deterministic result. Callers log the warnings.
//
// Reported conditions:
//   - inverted window (min > max)
//   - refund percentage outside 0-100
//   - negative cancellation fee
//   - two rules with overlapping windows (the earlier rule shadows the
//     later one wherever they overlap)
func ValidateRules(rules []CancellationRule) []RuleWarning {
	var warnings []RuleWarning

	for i := range rules {
		r := &rules[i]

		if r.MinHours != nil && r.MaxHours != nil && *r.MinHours > *r.MaxHours {
			warnings = append(warnings, RuleWarning{
				RuleID:  r.RuleID,
				Message: fmt.Sprintf("inverted window [%g, %g] can never match", *r.MinHours, *r.MaxHours),
			})
		}

		if r.RefundPercentage < 0 || r.RefundPercentage > 100 {
			warnings = append(warnings, RuleWarning{
				RuleID:  r.RuleID,
				Message: fmt.Sprintf("refund percentage %g outside 0-100", r.RefundPercentage),
			})
		}

		if r.CancellationFee < 0 {
			warnings = append(warnings, RuleWarning{
				RuleID:  r.RuleID,
				Message: fmt.Sprintf("negative cancellation fee %g", r.CancellationFee),
			})
		}

		if neverMatches(r) {
			continue
		}

		for j := i + 1; j < len(rules); j++ {
			if neverMatches(&rules[j]) {
				continue
			}
			if windowsOverlap(r, &rules[j]) {
				warnings = append(warnings, RuleWarning{
					RuleID:  rules[j].RuleID,
					Message: fmt.Sprintf("window overlaps earlier rule %s, which shadows it", r.RuleID),
				})
			}
		}
	}

	return warnings
}

// neverMatches reports whether a rule's window is inverted and so can never
// contain any value. Such rules are warned separately and excluded from
// overlap detection.
func neverMatches(r *CancellationRule) bool {
	return r.MinHours != nil && r.MaxHours != nil && *r.MinHours > *r.MaxHours
}

// windowsOverlap reports whether two rule windows share at least one point.
// Missing bounds are treated as 0 (min) and unbounded (max), matching the
// calculator.
func windowsOverlap(a, b *CancellationRule) bool {
	aMin, aMax := bounds(a)
	bMin, bMax := bounds(b)

	if a.MaxHours == nil && b.MaxHours == nil {
		return true
	}
	if a.MaxHours == nil {
		return bMax >= aMin
	}
	if b.MaxHours == nil {
		return aMax >= bMin
	}
	return aMin <= bMax && bMin <= aMax
}

func bounds(r *CancellationRule) (min, max float64) {
	if r.MinHours != nil {
		min = *r.MinHours
	}
	if r.MaxHours != nil {
		max = *r.MaxHours
	}
	return min, max
}
