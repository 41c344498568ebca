// Command orchestra runs the orchestration runtime's ambient services:
// observability, health checks, and the wired scheduler/gateway/module
// runtime stack. The embedder typically imports the internal packages
// directly rather than running this binary; it exists as the
// reference wiring and as a standalone health/metrics endpoint for
// operating the runtime out of process.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adaworld/orchestra/internal/card"
	"github.com/adaworld/orchestra/internal/config"
	"github.com/adaworld/orchestra/internal/events"
	"github.com/adaworld/orchestra/internal/gateway"
	"github.com/adaworld/orchestra/internal/moduleruntime"
	"github.com/adaworld/orchestra/internal/observability"
	"github.com/adaworld/orchestra/internal/orchestrator"
	"github.com/adaworld/orchestra/internal/policy"
	"github.com/adaworld/orchestra/internal/policy/rbac"
	"github.com/adaworld/orchestra/internal/pool"
	"github.com/adaworld/orchestra/internal/skillengine"
	"github.com/adaworld/orchestra/internal/spawner"
)

// demoObjective seeds the reference orchestration run this binary
// demonstrates on startup. An embedder driving the runtime from its
// own service replaces this with objectives from its own request
// path; nothing downstream of Spawner.Decompose cares where the
// objective string came from.
const demoObjective = "Research competitor pricing, analyze the resulting data, and write a summary report"

// loggingExecutor is a placeholder orchestrator.Executor that logs
// instead of calling out to an LLM. Real deployments supply their own
// Executor backed by whatever agent-execution client they use; the
// orchestrator core deliberately has no opinion on that transport.
type loggingExecutor struct{}

func (e loggingExecutor) Execute(ctx context.Context, agentID, taskDescription, taskContext string) (string, error) {
	return fmt.Sprintf("[stub] agent %s would run: %s", agentID, taskDescription), nil
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("shutting down orchestra...")
		cancel()
	}()

	cfg := config.Load()

	obsCfg := observability.DefaultConfig(cfg.ServiceName)
	obs, err := observability.NewObservability(obsCfg)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize observability: %v", err))
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			obs.Logger.ErrorContext(shutdownCtx, "error during observability shutdown", "error", err)
		}
	}()

	// Posting to stdout stands in for whatever event sink an embedder
	// wires in (a message bus, a webhook, another service's ingest
	// endpoint); the mechanism is the same either way — every domain
	// event drained below gets wrapped into an EventData and handed to
	// this poster.
	obs.Handler.SetEventPoster(func(event observability.EventData) error {
		fmt.Printf("event: type=%s subject=%s\n", event.Type, event.Subject)
		return nil
	})

	metricsManager, err := observability.NewMetricsManager(obs.Meter)
	if err != nil {
		obs.Logger.ErrorContext(ctx, "failed to create metrics manager", "error", err)
		panic(err)
	}

	agentPool := pool.NewWithDefaultSavants(cfg.AgentCardBaseURL, cfg.DefaultLLM)
	policyEngine := policy.NewEngine()
	policyEngine.SetDecisionRecorder(metricsManager)
	rbacManager := rbac.New()
	capGateway := gateway.New()
	capGateway.SetMetricsRecorder(metricsManager)

	orchCfg := orchestrator.Config{
		DefaultLLM:     cfg.DefaultLLM,
		BaseURL:        cfg.AgentCardBaseURL,
		MaxAgents:      cfg.MaxAgents,
		MaxTaskRetries: cfg.MaxTaskRetries,
		AutoSpawn:      cfg.AutoSpawn,
		AdaptiveSkills: cfg.AdaptiveSkills,
		MinMatchScore:  cfg.MinMatchScore,
	}
	sched := orchestrator.New(orchCfg, agentPool, loggingExecutor{})
	moduleRuntime := moduleruntime.NewRuntime(agentPool, policyEngine, rbacManager, capGateway)
	skillEngine := skillengine.DefaultEngine()
	taskSpawner := spawner.New(cfg.DefaultLLM)

	activateConfiguredModules(ctx, obs, moduleRuntime, policyEngine, cfg.CapabilitySearchPaths)

	runDemoObjective(ctx, obs, sched, taskSpawner, skillEngine, agentPool)
	drainAndReportEvents(ctx, obs, metricsManager, agentPool, sched, taskSpawner, skillEngine)

	healthServer := observability.NewHealthServer(cfg.HealthPort, cfg.ServiceName, cfg.ServiceVersion)
	healthServer.AddChecker("self", observability.NewBasicHealthChecker("self", func(ctx context.Context) error {
		return nil
	}))
	healthServer.AddChecker("gateway", observability.NewAdapterHealthChecker("gateway", func(ctx context.Context) (bool, string) {
		results := capGateway.HealthCheckAll(ctx)
		for capID, h := range results {
			if !h.Connected {
				return false, fmt.Sprintf("capability %s disconnected: %s", capID, h.Message)
			}
		}
		return true, ""
	}))

	go func() {
		obs.Logger.InfoContext(ctx, "starting health server", "port", cfg.HealthPort)
		if err := healthServer.Start(ctx); err != nil {
			obs.Logger.ErrorContext(ctx, "health server stopped", "error", err)
		}
	}()

	obs.Logger.InfoContext(ctx, "orchestra runtime started",
		"service", cfg.ServiceName,
		"default_llm", cfg.DefaultLLM,
		"pool_size", agentPool.Len(),
	)

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		obs.Logger.ErrorContext(shutdownCtx, "error shutting down health server", "error", err)
	}
	if err := capGateway.Shutdown(shutdownCtx); err != nil {
		obs.Logger.ErrorContext(shutdownCtx, "error shutting down gateway", "error", err)
	}

	obs.Logger.InfoContext(ctx, "orchestra runtime stopped")
}

// activateConfiguredModules resolves and activates the module
// definition file named by each entry of cfg.CapabilitySearchPaths
// (each entry is loaded as a single file; directories are not
// walked), wiring each
// module's blueprint, capabilities, and RBAC grants into the shared
// pool/policy/gateway stack. A failed load or activation is logged and
// skipped rather than treated as fatal — one broken module definition
// should not keep the rest of the fleet from starting. Every
// successfully activated agent gets one representative policy check,
// exercising the five-subsystem path a real tool-call gate would walk
// before invoking the gateway.
func activateConfiguredModules(ctx context.Context, obs *observability.Observability, rt *moduleruntime.ModuleRuntime, policyEngine *policy.Engine, paths []string) {
	if len(paths) == 0 {
		return
	}

	loader := moduleruntime.NewLoader()
	for _, path := range paths {
		instance, err := loader.LoadFile(path)
		if err != nil {
			obs.Logger.ErrorContext(ctx, "failed to load module definition", "path", path, "error", err)
			continue
		}

		agentID, err := rt.Activate(ctx, instance)
		if err != nil {
			obs.Logger.ErrorContext(ctx, "failed to activate module", "module", instance.Def.ID, "error", err)
			continue
		}
		obs.Logger.InfoContext(ctx, "activated module", "module", instance.Def.ID, "agent", agentID)

		effect, rule := policyEngine.Evaluate(
			policy.Subject{AgentID: agentID},
			policy.AnyToolCallAction(),
			policy.AnyResource(),
			nil,
		)
		obs.Logger.DebugContext(ctx, "policy check for activated module agent",
			"agent", agentID, "effect", effect, "rule", rule)
	}
}

// runDemoObjective decomposes demoObjective into a task plan, runs it
// to completion through sched, and feeds every finished task's outcome
// back into skillEngine — the spawner → orchestrator.Run →
// skillengine loop spec.md calls out as the runtime's core
// interaction.
func runDemoObjective(ctx context.Context, obs *observability.Observability, sched *orchestrator.Orchestrator, taskSpawner *spawner.Spawner, skillEngine *skillengine.Engine, agentPool *pool.Pool) {
	plan := taskSpawner.Decompose(demoObjective)
	sched.AddTasks(taskSpawner.PlanToOrchestratedTasks(plan))

	result := sched.Run(ctx)
	obs.Logger.InfoContext(ctx, "orchestration run complete",
		"total", result.TotalTasks,
		"completed", result.CompletedTasks,
		"failed", result.FailedTasks,
		"pending", result.PendingTasks,
		"agents_spawned", result.AgentsSpawned,
	)

	finished := append(append([]orchestrator.Task{}, result.Completed...), result.Failed...)
	for _, t := range finished {
		if t.AssignedAgent == "" {
			continue
		}

		outcome := events.Success
		if t.Status == orchestrator.Failed {
			outcome = events.Failure
		}
		feedback := events.AgentFeedback{
			AgentID:           t.AssignedAgent,
			TaskID:            t.ID,
			Outcome:           outcome,
			RelevantSkills:    t.RequiredSkills,
			ProficiencyDeltas: map[string]float64{},
		}

		agentPool.MutateStateAndCard(t.AssignedAgent, func(s *pool.AgentState, c *card.Card) {
			skillEngine.ApplyFeedback(feedback, s, c)
		})
	}
}

// drainAndReportEvents drains every lifecycle event generated by the
// run above — from the scheduler, the spawner, the skill engine, and
// the pool — and for each one records the metric SPEC_FULL.md's
// catalog promises plus posts it through the observability handler's
// event poster.
func drainAndReportEvents(ctx context.Context, obs *observability.Observability, mm *observability.MetricsManager, agentPool *pool.Pool, sched *orchestrator.Orchestrator, taskSpawner *spawner.Spawner, skillEngine *skillengine.Engine) {
	var all []events.Event
	all = append(all, sched.Events.Drain()...)
	all = append(all, taskSpawner.DrainEvents()...)
	all = append(all, skillEngine.Events.Drain()...)
	all = append(all, agentPool.Events.Drain()...)

	for _, ev := range all {
		recordEventMetrics(ctx, mm, agentPool, ev)
		postDomainEvent(ctx, obs.Handler, obs.Config.ServiceName, ev)
	}

	mm.UpdateAgentPoolSize(ctx, agentPool.Len())
}

func recordEventMetrics(ctx context.Context, mm *observability.MetricsManager, agentPool *pool.Pool, ev events.Event) {
	switch e := ev.(type) {
	case events.TaskAssigned:
		mm.IncrementTasksDistributed(ctx, domainFor(agentPool, e.AgentID))
	case events.TaskCompleted:
		mm.IncrementTasksCompleted(ctx, domainFor(agentPool, e.AgentID))
	case events.TaskFailed:
		if e.WillRetry {
			mm.IncrementTaskRetry(ctx, domainFor(agentPool, e.AgentID))
		}
	case events.SkillsAdjusted:
		mm.IncrementSkillAdjustments(ctx, e.AgentID, len(e.Adjustments))
	}
}

func domainFor(agentPool *pool.Pool, agentID string) string {
	if state, ok := agentPool.State(agentID); ok {
		return state.Domain.String()
	}
	return "unknown"
}

// postDomainEvent wraps ev into the observability handler's EventData
// shape and posts it through the configured poster, so every domain
// lifecycle event — not just generic log lines — reaches whatever
// sink SetEventPoster was wired to.
func postDomainEvent(ctx context.Context, handler *observability.ObservabilityHandler, serviceName string, ev events.Event) {
	data := observability.EventData{
		ID:      fmt.Sprintf("%s_%d", ev.Kind(), time.Now().UnixNano()),
		Type:    ev.Kind(),
		Source:  serviceName,
		Subject: ev.Kind(),
		Time:    time.Now(),
		Data:    ev,
		Headers: map[string]string{},
	}
	_ = handler.PostEvent(ctx, data)
}
