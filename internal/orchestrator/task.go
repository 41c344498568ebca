// Package orchestrator implements the scheduler: it distributes a DAG
// of tasks across the agent pool, executes them (sequentially, per
// this runtime's cooperative concurrency model), requeues failed tasks
// up to a retry limit, and adapts agent skill profiles from the
// outcomes.
package orchestrator

import (
	"github.com/adaworld/orchestra/internal/savants"
	"github.com/google/uuid"
)

// Priority orders tasks for scheduling purposes; higher sorts first.
type Priority int

const (
	Low Priority = iota
	Medium
	High
	Critical
)

// Status is a task's current lifecycle state.
type Status int

const (
	Pending Status = iota
	Assigned
	Running
	Completed
	Failed
	Cancelled
)

// Task is one unit of work the scheduler distributes to the pool.
type Task struct {
	ID              string
	Description     string
	Context         string
	Status          Status
	Priority        Priority
	Dependencies    []string
	RequiredSkills  []string
	PreferredDomain *savants.Domain
	AssignedAgent   string
	Output          string
	Error           string
	Metadata        map[string]any
	RetryCount      int
}

// NewTask creates a pending, medium-priority task with a fresh ID.
func NewTask(description string) Task {
	return Task{
		ID:          uuid.NewString(),
		Description: description,
		Status:      Pending,
		Priority:    Medium,
		Metadata:    make(map[string]any),
	}
}

func (t Task) WithContext(ctx string) Task {
	t.Context = ctx
	return t
}

func (t Task) WithPriority(p Priority) Task {
	t.Priority = p
	return t
}

func (t Task) WithDependencies(deps []string) Task {
	t.Dependencies = deps
	return t
}

func (t Task) WithRequiredSkills(skills []string) Task {
	t.RequiredSkills = skills
	return t
}

func (t Task) WithDomain(d savants.Domain) Task {
	t.PreferredDomain = &d
	return t
}

// DependenciesSatisfied reports whether every dependency ID of t
// appears in completedIDs.
func (t Task) DependenciesSatisfied(completedIDs []string) bool {
	done := make(map[string]struct{}, len(completedIDs))
	for _, id := range completedIDs {
		done[id] = struct{}{}
	}
	for _, dep := range t.Dependencies {
		if _, ok := done[dep]; !ok {
			return false
		}
	}
	return true
}

func (t *Task) Assign(agentID string) {
	t.Status = Assigned
	t.AssignedAgent = agentID
}

func (t *Task) Start() {
	t.Status = Running
}

func (t *Task) Complete(output string) {
	t.Status = Completed
	t.Output = output
}

func (t *Task) Fail(errMsg string) {
	t.Status = Failed
	t.Error = errMsg
}
