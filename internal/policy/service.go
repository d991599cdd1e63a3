package policy

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the policy service.
type ServiceConfig struct {
	Repository Repository
	Logger     zerolog.Logger

	// CacheTTL is how long to cache policies in memory (default: 5 minutes).
	CacheTTL time.Duration

	// StaleIfErrorTTL allows serving stale policies on repository errors
	// (default: 1 hour). Rule data changes rarely; a stale policy beats a
	// failed refund quote.
	StaleIfErrorTTL time.Duration
}

// Service provides cancellation policies with caching and load-time rule
// validation. Warnings from validation are logged, never enforced: the
// calculator's first-match contract stays intact even over messy data.
type Service struct {
	repo            Repository
	logger          zerolog.Logger
	cacheTTL        time.Duration
	staleIfErrorTTL time.Duration

	mu    sync.RWMutex
	cache map[string]*cachedPolicy
}

type cachedPolicy struct {
	policy    *Policy
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new policy service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 1 * time.Hour
	}

	return &Service{
		repo:            cfg.Repository,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		staleIfErrorTTL: staleIfErrorTTL,
		cache:           make(map[string]*cachedPolicy),
	}
}

// GetPolicy returns a policy with its ordered rules, from cache when fresh.
func (s *Service) GetPolicy(ctx context.Context, policyID string) (*Policy, error) {
	s.mu.RLock()
	if cached, ok := s.cache[policyID]; ok && time.Now().Before(cached.expiresAt) {
		policy := cached.policy
		s.mu.RUnlock()
		return policy, nil
	}
	s.mu.RUnlock()

	return s.fetchPolicy(ctx, policyID)
}

// fetchPolicy loads a policy from the repository and updates the cache.
func (s *Service) fetchPolicy(ctx context.Context, policyID string) (*Policy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache
	if cached, ok := s.cache[policyID]; ok && time.Now().Before(cached.expiresAt) {
		return cached.policy, nil
	}

	policy, err := s.repo.GetPolicy(ctx, policyID)
	if err != nil {
		if errors.Is(err, ErrPolicyNotFound) {
			return nil, err
		}

		s.logger.Error().Err(err).Str("policy_id", policyID).Msg("failed to load cancellation policy")

		// Serve stale data within the error window
		if cached, ok := s.cache[policyID]; ok {
			if time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				s.logger.Warn().
					Str("policy_id", policyID).
					Time("fetched_at", cached.fetchedAt).
					Msg("serving stale cancellation policy due to repository error")
				return cached.policy, nil
			}
		}

		return nil, err
	}

	s.auditRules(policy)

	now := time.Now()
	s.cache[policyID] = &cachedPolicy{
		policy:    policy,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	return policy, nil
}

// auditRules logs validation warnings for a freshly loaded policy.
func (s *Service) auditRules(policy *Policy) {
	for _, w := range ValidateRules(policy.Rules) {
		s.logger.Warn().
			Str("policy_id", policy.ID).
			Str("rule_id", w.RuleID).
			Str("warning", w.Message).
			Msg("cancellation policy rule warning")
	}
}

// InvalidateCache clears all cached policies.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedPolicy)
}
