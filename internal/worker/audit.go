// Package worker provides background job processing for SafarBus.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/safarbus/safarbus/internal/policy"
)

// AuditJob re-validates cancellation policy rule sets against the
// first-match selection contract. Warnings are logged and counted, never
// enforced: serving traffic keeps using the data as-is.
type AuditJob struct {
	repo        policy.Repository
	logger      zerolog.Logger
	concurrency int
	timeout     time.Duration

	// Metrics
	metrics *AuditMetrics
}

// AuditMetrics tracks audit job statistics.
type AuditMetrics struct {
	mu sync.RWMutex

	// Counters
	TotalRuns        int64
	PoliciesAudited  int64
	PoliciesFlagged  int64
	WarningsReported int64
	FailedRuns       int64

	// Timings
	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// AuditJobConfig holds configuration for creating an AuditJob.
type AuditJobConfig struct {
	Repository policy.Repository
	Logger     zerolog.Logger

	// Concurrency is the number of policies validated in parallel.
	// Default: 3
	Concurrency int

	// Timeout bounds each repository read.
	// Default: 30 seconds
	Timeout time.Duration
}

// NewAuditJob creates a new policy audit job processor.
func NewAuditJob(cfg AuditJobConfig) *AuditJob {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 3
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &AuditJob{
		repo:        cfg.Repository,
		logger:      cfg.Logger,
		concurrency: concurrency,
		timeout:     timeout,
		metrics:     &AuditMetrics{},
	}
}

// AuditResult contains the result of one audit run.
type AuditResult struct {
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	TotalPolicies int
	Flagged       int
	Warnings      []PolicyWarning
	Err           error
}

// PolicyWarning is one rule warning attributed to a policy.
type PolicyWarning struct {
	PolicyID string
	RuleID   string
	Message  string
}

// Run audits every stored policy's rule set.
func (j *AuditJob) Run(ctx context.Context) *AuditResult {
	startTime := time.Now()
	result := &AuditResult{StartTime: startTime}

	listCtx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	policies, err := j.repo.ListPolicies(listCtx)
	if err != nil {
		j.logger.Error().Err(err).Msg("policy audit failed to list policies")
		result.Err = err
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(startTime)
		j.updateMetrics(result)
		return result
	}

	result.TotalPolicies = len(policies)

	j.logger.Info().
		Int("total_policies", result.TotalPolicies).
		Int("concurrency", j.concurrency).
		Msg("starting policy audit job")

	// Create work channels
	policiesChan := make(chan *policy.Policy, len(policies))
	warningsChan := make(chan []PolicyWarning, len(policies))

	// Start workers
	var wg sync.WaitGroup
	for i := 0; i < j.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.auditWorker(ctx, policiesChan, warningsChan)
		}()
	}

	// Send policies to workers
	for _, p := range policies {
		policiesChan <- p
	}
	close(policiesChan)

	// Wait for workers to complete
	go func() {
		wg.Wait()
		close(warningsChan)
	}()

	// Collect results
	for warnings := range warningsChan {
		if len(warnings) > 0 {
			result.Flagged++
			result.Warnings = append(result.Warnings, warnings...)
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("total_policies", result.TotalPolicies).
		Int("flagged", result.Flagged).
		Int("warnings", len(result.Warnings)).
		Msg("policy audit job completed")

	return result
}

func (j *AuditJob) auditWorker(ctx context.Context, policies <-chan *policy.Policy, warnings chan<- []PolicyWarning) {
	for p := range policies {
		select {
		case <-ctx.Done():
			return
		default:
			warnings <- j.auditPolicy(p)
		}
	}
}

func (j *AuditJob) auditPolicy(p *policy.Policy) []PolicyWarning {
	var flagged []PolicyWarning
	for _, w := range policy.ValidateRules(p.Rules) {
		j.logger.Warn().
			Str("policy_id", p.ID).
			Str("rule_id", w.RuleID).
			Str("warning", w.Message).
			Msg("policy audit warning")
		flagged = append(flagged, PolicyWarning{
			PolicyID: p.ID,
			RuleID:   w.RuleID,
			Message:  w.Message,
		})
	}
	return flagged
}

// HealthCheck verifies repository connectivity with a single list call.
func (j *AuditJob) HealthCheck(ctx context.Context) error {
	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := j.repo.ListPolicies(checkCtx)
	return err
}

func (j *AuditJob) updateMetrics(result *AuditResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	if result.Err != nil {
		j.metrics.FailedRuns++
	}
	j.metrics.PoliciesAudited += int64(result.TotalPolicies)
	j.metrics.PoliciesFlagged += int64(result.Flagged)
	j.metrics.WarningsReported += int64(len(result.Warnings))
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *AuditJob) GetMetrics() AuditMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return AuditMetrics{
		TotalRuns:        j.metrics.TotalRuns,
		PoliciesAudited:  j.metrics.PoliciesAudited,
		PoliciesFlagged:  j.metrics.PoliciesFlagged,
		WarningsReported: j.metrics.WarningsReported,
		FailedRuns:       j.metrics.FailedRuns,
		LastRunAt:        j.metrics.LastRunAt,
		LastRunDuration:  j.metrics.LastRunDuration,
		TotalDuration:    j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *AuditJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":        m.TotalRuns,
		"policies_audited":  m.PoliciesAudited,
		"policies_flagged":  m.PoliciesFlagged,
		"warnings_reported": m.WarningsReported,
		"failed_runs":       m.FailedRuns,
		"last_run_at":       m.LastRunAt,
		"last_run_duration": m.LastRunDuration.String(),
		"total_duration":    m.TotalDuration.String(),
	}
}
