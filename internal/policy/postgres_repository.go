package policy

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository, reading
// the cancellation_policies and cancellation_policy_rules tables.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL policy repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// GetPolicy retrieves a policy with its rules ordered by position.
func (r *PostgresRepository) GetPolicy(ctx context.Context, policyID string) (*Policy, error) {
	query := `
		SELECT id, name, updated_at
		FROM cancellation_policies
		WHERE id = $1
	`

	var policy Policy
	err := r.pool.QueryRow(ctx, query, policyID).Scan(
		&policy.ID,
		&policy.Name,
		&policy.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPolicyNotFound
		}
		return nil, err
	}

	rules, err := r.listRules(ctx, policyID)
	if err != nil {
		return nil, err
	}
	policy.Rules = rules

	return &policy, nil
}

// ListPolicies retrieves all policies with their rules.
func (r *PostgresRepository) ListPolicies(ctx context.Context) ([]*Policy, error) {
	query := `
		SELECT id, name, updated_at
		FROM cancellation_policies
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []*Policy
	for rows.Next() {
		var policy Policy
		if err := rows.Scan(&policy.ID, &policy.Name, &policy.UpdatedAt); err != nil {
			return nil, err
		}
		policies = append(policies, &policy)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, policy := range policies {
		rules, err := r.listRules(ctx, policy.ID)
		if err != nil {
			return nil, err
		}
		policy.Rules = rules
	}

	return policies, nil
}

// listRules retrieves the ordered rules of a policy. Position order is the
// order the refund calculator scans in.
func (r *PostgresRepository) listRules(ctx context.Context, policyID string) ([]CancellationRule, error) {
	query := `
		SELECT
			rule_id,
			min_hours_before_departure,
			max_hours_before_departure,
			refund_percentage,
			COALESCE(cancellation_fee, 0)
		FROM cancellation_policy_rules
		WHERE policy_id = $1
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, query, policyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []CancellationRule
	for rows.Next() {
		var rule CancellationRule
		err := rows.Scan(
			&rule.RuleID,
			&rule.MinHours,
			&rule.MaxHours,
			&rule.RefundPercentage,
			&rule.CancellationFee,
		)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rules, nil
}
