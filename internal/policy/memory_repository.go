package policy

import (
	"context"
	"sync"
)

// MemoryRepository is an in-memory implementation of Repository for tests
// and local development.
type MemoryRepository struct {
	mu       sync.RWMutex
	policies map[string]*Policy
}

// NewMemoryRepository creates a new in-memory policy repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		policies: make(map[string]*Policy),
	}
}

// GetPolicy retrieves a policy by ID.
func (r *MemoryRepository) GetPolicy(_ context.Context, policyID string) (*Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.policies[policyID]
	if !ok {
		return nil, ErrPolicyNotFound
	}
	return p, nil
}

// ListPolicies retrieves all policies.
func (r *MemoryRepository) ListPolicies(_ context.Context) ([]*Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	policies := make([]*Policy, 0, len(r.policies))
	for _, p := range r.policies {
		policies = append(policies, p)
	}
	return policies, nil
}

// SetPolicy stores a policy.
func (r *MemoryRepository) SetPolicy(p *Policy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.policies[p.ID] = p
}
