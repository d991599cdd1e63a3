package policy

import "context"

// Repository provides read access to cancellation policies. Rule order as
// returned is the order the calculator scans in.
type Repository interface {
	// GetPolicy retrieves a policy with its ordered rules.
	// Returns ErrPolicyNotFound if no policy exists with the given ID.
	GetPolicy(ctx context.Context, policyID string) (*Policy, error)

	// ListPolicies retrieves all policies with their ordered rules.
	ListPolicies(ctx context.Context) ([]*Policy, error)
}
