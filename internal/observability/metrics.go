package observability

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsManager owns the runtime's domain-level Prometheus
// instruments: task distribution/completion/retry, skill adjustments,
// policy decisions, gateway invocations, and pool occupancy. It
// implements policy.DecisionRecorder and gateway.MetricsRecorder so it
// can be wired directly into those packages without either importing
// this one.
type MetricsManager struct {
	meter metric.Meter

	tasksDistributedTotal   metric.Int64Counter
	tasksCompletedTotal     metric.Int64Counter
	taskRetryTotal          metric.Int64Counter
	skillAdjustmentsTotal   metric.Int64Counter
	policyDecisionsTotal    metric.Int64Counter
	gatewayInvocationsTotal metric.Int64Counter
	gatewayRateLimitedTotal metric.Int64Counter
	agentPoolSize           metric.Int64UpDownCounter

	mu           sync.Mutex
	lastPoolSize int64
}

// NewMetricsManager creates and registers every instrument against
// meter.
func NewMetricsManager(meter metric.Meter) (*MetricsManager, error) {
	mm := &MetricsManager{meter: meter}

	var err error

	mm.tasksDistributedTotal, err = meter.Int64Counter(
		"orchestra_tasks_distributed_total",
		metric.WithDescription("Total number of tasks assigned to an agent"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	mm.tasksCompletedTotal, err = meter.Int64Counter(
		"orchestra_tasks_completed_total",
		metric.WithDescription("Total number of tasks that finished successfully"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	mm.taskRetryTotal, err = meter.Int64Counter(
		"orchestra_task_retry_total",
		metric.WithDescription("Total number of task executions requeued for retry after a failure"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	mm.skillAdjustmentsTotal, err = meter.Int64Counter(
		"orchestra_skill_adjustments_total",
		metric.WithDescription("Total number of agent skill proficiency adjustments applied"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	mm.policyDecisionsTotal, err = meter.Int64Counter(
		"orchestra_policy_decisions_total",
		metric.WithDescription("Total number of policy engine evaluations, by decision"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	mm.gatewayInvocationsTotal, err = meter.Int64Counter(
		"orchestra_gateway_invocations_total",
		metric.WithDescription("Total number of capability gateway tool invocations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	mm.gatewayRateLimitedTotal, err = meter.Int64Counter(
		"orchestra_gateway_rate_limited_total",
		metric.WithDescription("Total number of capability gateway invocations rejected for exceeding their rate limit"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	mm.agentPoolSize, err = meter.Int64UpDownCounter(
		"orchestra_agent_pool_size",
		metric.WithDescription("Current number of agents live in the pool"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	return mm, nil
}

// IncrementTasksDistributed records one task assignment in domain.
func (mm *MetricsManager) IncrementTasksDistributed(ctx context.Context, domain string) {
	mm.tasksDistributedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("domain", domain)))
}

// IncrementTasksCompleted records one successful task completion in
// domain.
func (mm *MetricsManager) IncrementTasksCompleted(ctx context.Context, domain string) {
	mm.tasksCompletedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("domain", domain)))
}

// IncrementTaskRetry records one task execution requeued for retry in
// domain.
func (mm *MetricsManager) IncrementTaskRetry(ctx context.Context, domain string) {
	mm.taskRetryTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("domain", domain)))
}

// IncrementSkillAdjustments records n proficiency adjustments applied
// to agentID.
func (mm *MetricsManager) IncrementSkillAdjustments(ctx context.Context, agentID string, n int) {
	if n <= 0 {
		return
	}
	mm.skillAdjustmentsTotal.Add(ctx, int64(n), metric.WithAttributes(attribute.String("agent_id", agentID)))
}

// IncrementPolicyDecisions implements policy.DecisionRecorder.
func (mm *MetricsManager) IncrementPolicyDecisions(effect, ruleName string) {
	mm.policyDecisionsTotal.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("effect", effect),
		attribute.String("rule", ruleName),
	))
}

// IncrementGatewayInvocations implements gateway.MetricsRecorder.
func (mm *MetricsManager) IncrementGatewayInvocations(ctx context.Context, capabilityID string, success bool) {
	mm.gatewayInvocationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("capability_id", capabilityID),
		attribute.Bool("success", success),
	))
}

// IncrementGatewayRateLimited implements gateway.MetricsRecorder.
func (mm *MetricsManager) IncrementGatewayRateLimited(ctx context.Context, capabilityID string) {
	mm.gatewayRateLimitedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("capability_id", capabilityID)))
}

// UpdateAgentPoolSize sets the pool-size gauge to n, recorded as the
// delta from the last observed value since Int64UpDownCounter only
// exposes Add.
func (mm *MetricsManager) UpdateAgentPoolSize(ctx context.Context, n int) {
	mm.mu.Lock()
	delta := int64(n) - mm.lastPoolSize
	mm.lastPoolSize = int64(n)
	mm.mu.Unlock()

	if delta != 0 {
		mm.agentPoolSize.Add(ctx, delta)
	}
}
