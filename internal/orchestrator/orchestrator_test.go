package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/adaworld/orchestra/internal/pool"
	"github.com/adaworld/orchestra/internal/savants"
)

// stubExecutor always succeeds, echoing the task description as output.
type stubExecutor struct{}

func (stubExecutor) Execute(ctx context.Context, agentID, desc, taskContext string) (string, error) {
	return "done: " + desc, nil
}

// failingExecutor always fails with a fixed error.
type failingExecutor struct{}

func (failingExecutor) Execute(ctx context.Context, agentID, desc, taskContext string) (string, error) {
	return "", errors.New("execution failed")
}

// TestRun_S2AutoSpawnOnEmptyPool is spec scenario S2: an empty pool
// with auto_spawn enabled spawns exactly one agent for a task's
// preferred domain and completes it.
func TestRun_S2AutoSpawnOnEmptyPool(t *testing.T) {
	p := pool.New("http://localhost")
	cfg := Config{
		DefaultLLM:     "test-llm",
		MaxAgents:      20,
		MaxTaskRetries: 3,
		AutoSpawn:      true,
		MinMatchScore:  0.0,
	}
	o := New(cfg, p, stubExecutor{})

	domain := savants.DevOps_
	task := NewTask("Deploy to Kubernetes").WithDomain(domain)
	o.AddTask(task)

	result := o.Run(context.Background())

	if result.AgentsSpawned != 1 {
		t.Errorf("expected exactly 1 agent spawned, got %d", result.AgentsSpawned)
	}
	if result.CompletedTasks != 1 {
		t.Errorf("expected 1 completed task, got %d (failed=%d pending=%d)", result.CompletedTasks, result.FailedTasks, result.PendingTasks)
	}
}

// TestRun_S6DependencyGating is spec scenario S6: T2 (depends on T1)
// is never assigned before T1 completes.
func TestRun_S6DependencyGating(t *testing.T) {
	p := pool.New("http://localhost")
	agentID := p.SpawnDomain(savants.General, "test-llm")
	_ = agentID

	cfg := Config{DefaultLLM: "test-llm", MaxAgents: 1, MaxTaskRetries: 3, MinMatchScore: 0.0}
	o := New(cfg, p, stubExecutor{})

	// Both descriptions contain the Planning savant's "planning" tag, so
	// the lone agent scores above MinMatchScore for each of them.
	t1 := NewTask("first planning step")
	t2 := NewTask("second planning step").WithDependencies([]string{t1.ID})
	o.AddTasks([]Task{t1, t2})

	assigned := o.DistributeTasks()
	if assigned != 1 {
		t.Fatalf("expected exactly 1 task assignable before T1 completes, got %d", assigned)
	}
	for _, task := range o.Tasks() {
		if task.ID == t2.ID && task.Status == Assigned {
			t.Fatal("T2 must not be assigned before its dependency T1 completes")
		}
	}

	o.ExecuteAssignedTasks(context.Background())

	assigned = o.DistributeTasks()
	if assigned != 1 {
		t.Fatalf("expected T2 to become assignable after T1 completes, got %d newly assigned", assigned)
	}
	for _, task := range o.Tasks() {
		if task.ID == t2.ID && task.Status != Assigned {
			t.Fatal("expected T2 to be assigned once T1 has completed")
		}
	}
}

// TestAdjustAgentSkills_FailureReducesProficiency checks the
// scheduler's own lighter-weight skill adjustment reduces a matching
// skill's proficiency on failure, floored at 0.1.
func TestAdjustAgentSkills_FailureReducesProficiency(t *testing.T) {
	p := pool.New("http://localhost")
	bp := savants.ForDomain(savants.Research_, "test-llm")
	id := p.Spawn(bp)

	cfg := Config{DefaultLLM: "test-llm", MaxAgents: 5, MaxTaskRetries: 1, AdaptiveSkills: true, MinMatchScore: 0.0}
	o := New(cfg, p, failingExecutor{})

	task := NewTask("do some web research")
	o.AddTask(task)

	o.Run(context.Background())

	state, _ := p.State(id)
	reduced := false
	for _, sk := range state.Skills {
		if sk.Proficiency < 0.1 {
			t.Errorf("expected skill proficiency to stay at or above the 0.1 floor, got %v for %q", sk.Proficiency, sk.ID)
		}
		if sk.ID == "web_research" && sk.Proficiency < 1.0 {
			reduced = true
		}
	}
	if !reduced {
		t.Error("expected the matching web_research skill's proficiency to drop below 1.0 after the failure")
	}
}

// TestDistributeTasks_PriorityOrder verifies higher-priority tasks are
// assigned first when agents are scarce.
func TestDistributeTasks_PriorityOrder(t *testing.T) {
	p := pool.New("http://localhost")
	p.SpawnDomain(savants.General, "test-llm")

	cfg := Config{DefaultLLM: "test-llm", MaxAgents: 1, MinMatchScore: 0.0}
	o := New(cfg, p, stubExecutor{})

	low := NewTask("low priority planning work").WithPriority(Low)
	critical := NewTask("urgent planning work").WithPriority(Critical)
	o.AddTasks([]Task{low, critical})

	o.DistributeTasks()

	for _, task := range o.Tasks() {
		if task.ID == critical.ID && task.Status != Assigned {
			t.Error("expected the Critical-priority task to be assigned first")
		}
		if task.ID == low.ID && task.Status == Assigned {
			t.Error("expected the Low-priority task to remain pending when only one agent is available")
		}
	}
}
