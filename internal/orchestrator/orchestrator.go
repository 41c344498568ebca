package orchestrator

import (
	"context"
	"sort"
	"strings"

	"github.com/adaworld/orchestra/internal/events"
	"github.com/adaworld/orchestra/internal/pool"
	"github.com/adaworld/orchestra/internal/savants"
	"github.com/adaworld/orchestra/internal/skill"
)

// Config controls the scheduler's spawning, retry, and matching
// behavior.
type Config struct {
	DefaultLLM      string
	BaseURL         string
	MaxAgents       int
	MaxTaskRetries  int
	AutoSpawn       bool
	AdaptiveSkills  bool
	MinMatchScore   float64
}

// DefaultConfig returns the scheduler's default configuration.
func DefaultConfig() Config {
	return Config{
		DefaultLLM:     "openai/gpt-4o-mini",
		BaseURL:        "http://localhost:8080",
		MaxAgents:      20,
		MaxTaskRetries: 3,
		AutoSpawn:      true,
		AdaptiveSkills: true,
		MinMatchScore:  0.5,
	}
}

// Executor runs one task's description (with dependency-built
// context) through its assigned agent and returns the task's output.
// The concrete LLM/agent-execution client lives outside this module;
// Executor is the seam the embedder wires it in through.
type Executor interface {
	Execute(ctx context.Context, agentID, taskDescription, taskContext string) (string, error)
}

// Orchestrator distributes tasks across a pool.Pool, executes them
// through an Executor, requeues failed tasks until they have failed
// Config.MaxTaskRetries times, and adapts agent skill profiles from
// the outcomes.
type Orchestrator struct {
	Config           Config
	Pool             *pool.Pool
	Executor         Executor
	Events           *events.Log
	tasks            []Task
	taskRetries      map[string]int
	completedTaskIDs []string
}

// New creates an orchestrator backed by p and executing tasks via exec.
func New(cfg Config, p *pool.Pool, exec Executor) *Orchestrator {
	return &Orchestrator{
		Config:      cfg,
		Pool:        p,
		Executor:    exec,
		Events:      &events.Log{},
		taskRetries: make(map[string]int),
	}
}

// AddTask enqueues a task.
func (o *Orchestrator) AddTask(t Task) {
	o.tasks = append(o.tasks, t)
	o.Events.Push(events.TaskQueued{TaskID: t.ID})
}

// AddTasks enqueues every task in ts.
func (o *Orchestrator) AddTasks(ts []Task) {
	for _, t := range ts {
		o.AddTask(t)
	}
}

// Tasks returns the full task queue, regardless of status.
func (o *Orchestrator) Tasks() []Task { return o.tasks }

// FindBestAgent scores every idle pool agent against task, applying
// the scheduler's domain-bonus and required-skill-penalty formula.
func (o *Orchestrator) FindBestAgent(t Task) (string, float64, bool) {
	c, ok := o.Pool.FindBest(t.Description, t.RequiredSkills, t.PreferredDomain, o.Config.MinMatchScore)
	if !ok {
		return "", 0, false
	}
	return c.AgentID, c.Score, true
}

// DistributeTasks assigns every pending, dependency-satisfied task to
// its best-matching idle agent, auto-spawning one when AutoSpawn is
// enabled and no match exists. Tasks are considered in priority
// order, highest first. Returns the number of tasks assigned.
func (o *Orchestrator) DistributeTasks() int {
	assignable := make([]int, 0, len(o.tasks))
	for i, t := range o.tasks {
		if t.Status == Pending && t.DependenciesSatisfied(o.completedTaskIDs) {
			assignable = append(assignable, i)
		}
	}
	sort.SliceStable(assignable, func(a, b int) bool {
		return o.tasks[assignable[a]].Priority > o.tasks[assignable[b]].Priority
	})

	assigned := 0
	for _, idx := range assignable {
		task := o.tasks[idx]

		if agentID, score, ok := o.FindBestAgent(task); ok {
			o.tasks[idx].Assign(agentID)
			o.Pool.MutateState(agentID, func(s *pool.AgentState) { s.AssignTask(task.ID) })
			o.Events.Push(events.TaskAssigned{TaskID: task.ID, AgentID: agentID})
			_ = score
			assigned++
			continue
		}

		if o.Config.AutoSpawn && o.Pool.Len() < o.Config.MaxAgents {
			domain := savants.General
			if task.PreferredDomain != nil {
				domain = *task.PreferredDomain
			}
			newAgentID := o.Pool.SpawnDomain(domain, o.Config.DefaultLLM)
			o.tasks[idx].Assign(newAgentID)
			o.Pool.MutateState(newAgentID, func(s *pool.AgentState) { s.AssignTask(task.ID) })
			o.Events.Push(events.TaskAssigned{TaskID: task.ID, AgentID: newAgentID})
			assigned++
		}
	}

	return assigned
}

// ExecuteAssignedTasks runs every assigned task through its agent via
// Executor, completing, failing, or resetting to Pending for retry
// according to Config.MaxTaskRetries. Returns the number of tasks
// processed (completed, permanently failed, or queued for retry).
func (o *Orchestrator) ExecuteAssignedTasks(ctx context.Context) int {
	executed := 0

	for idx := range o.tasks {
		if o.tasks[idx].Status != Assigned {
			continue
		}

		agentID := o.tasks[idx].AssignedAgent
		o.tasks[idx].Start()
		o.Events.Push(events.TaskStarted{TaskID: o.tasks[idx].ID, AgentID: agentID})

		taskContext := o.buildTaskContext(idx)
		output, err := o.Executor.Execute(ctx, agentID, o.tasks[idx].Description, taskContext)

		if err == nil {
			o.tasks[idx].Complete(output)
			o.completedTaskIDs = append(o.completedTaskIDs, o.tasks[idx].ID)
			o.Pool.MutateState(agentID, func(s *pool.AgentState) { s.CompleteTask(true) })
			if o.Config.AdaptiveSkills {
				o.AdjustAgentSkills(agentID, o.tasks[idx], true)
			}
			o.Pool.UpdateCard(agentID)
			o.Events.Push(events.TaskCompleted{TaskID: o.tasks[idx].ID, AgentID: agentID})
		} else {
			taskID := o.tasks[idx].ID
			o.taskRetries[taskID]++
			retries := o.taskRetries[taskID]

			willRetry := retries < o.Config.MaxTaskRetries
			if !willRetry {
				o.tasks[idx].Fail(err.Error())
			} else {
				o.tasks[idx].Status = Pending
				o.tasks[idx].AssignedAgent = ""
			}
			o.Pool.MutateState(agentID, func(s *pool.AgentState) { s.CompleteTask(false) })
			if o.Config.AdaptiveSkills {
				o.AdjustAgentSkills(agentID, o.tasks[idx], false)
			}
			o.Pool.UpdateCard(agentID)
			o.Events.Push(events.TaskFailed{TaskID: taskID, AgentID: agentID, Error: err.Error(), WillRetry: willRetry, RetryCount: retries})
		}

		executed++
	}

	return executed
}

func (o *Orchestrator) buildTaskContext(idx int) string {
	t := o.tasks[idx]
	if len(t.Dependencies) == 0 {
		return t.Context
	}

	deps := make(map[string]struct{}, len(t.Dependencies))
	for _, d := range t.Dependencies {
		deps[d] = struct{}{}
	}

	var depOutputs []string
	for _, other := range o.tasks {
		if _, ok := deps[other.ID]; !ok || other.Output == "" {
			continue
		}
		depOutputs = append(depOutputs, "Result from '"+other.Description+"': "+other.Output)
	}

	if len(depOutputs) == 0 {
		return t.Context
	}

	context := joinLines(depOutputs)
	if t.Context != "" {
		context = t.Context + "\n\n" + context
	}
	return context
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n\n"
		}
		out += l
	}
	return out
}

// Result summarizes one orchestration Run.
type Result struct {
	TotalTasks     int
	CompletedTasks int
	FailedTasks    int
	PendingTasks   int
	AgentsSpawned  int
	Completed      []Task
	Failed         []Task
	Pending        []Task
}

// Run repeatedly distributes and executes tasks until none remain
// pending, assigned, or running, stopping early if an iteration makes
// no progress (a stall) or after a safety bound of 5*len(tasks)+10
// iterations.
func (o *Orchestrator) Run(ctx context.Context) Result {
	maxIterations := len(o.tasks)*5 + 10

	for iterations := 0; iterations < maxIterations; iterations++ {
		distributed := o.DistributeTasks()
		executed := o.ExecuteAssignedTasks(ctx)

		pending, assigned, running := o.counts()
		if pending == 0 && assigned == 0 && running == 0 {
			break
		}
		if distributed == 0 && executed == 0 && pending > 0 {
			break
		}
	}

	result := o.BuildResult()
	o.Events.Push(events.OrchestrationFinished{
		Total:     result.TotalTasks,
		Completed: result.CompletedTasks,
		Failed:    result.FailedTasks,
		Pending:   result.PendingTasks,
	})
	return result
}

func (o *Orchestrator) counts() (pending, assigned, running int) {
	for _, t := range o.tasks {
		switch t.Status {
		case Pending:
			pending++
		case Assigned:
			assigned++
		case Running:
			running++
		}
	}
	return
}

// BuildResult snapshots the current task queue into a Result.
func (o *Orchestrator) BuildResult() Result {
	var completed, failed, pending []Task
	for _, t := range o.tasks {
		switch t.Status {
		case Completed:
			completed = append(completed, t)
		case Failed:
			failed = append(failed, t)
		case Pending:
			pending = append(pending, t)
		}
	}
	return Result{
		TotalTasks:     len(o.tasks),
		CompletedTasks: len(completed),
		FailedTasks:    len(failed),
		PendingTasks:   len(pending),
		AgentsSpawned:  o.Pool.Len(),
		Completed:      completed,
		Failed:         failed,
		Pending:        pending,
	}
}

// AdjustAgentSkills applies the scheduler's lighter-weight skill
// adjustment: on success, every skill that matched the task is
// boosted ×1.05 (capped at 1.0), and any required skill the agent
// lacked is learned at default proficiency; on failure, matching
// skills are reduced ×0.9 (floored at 0.1). This is distinct from,
// and runs independently of, the skill engine's feedback-driven EMA
// adjustment (internal/skillengine) — the scheduler's pass is a
// light touch applied on every task outcome, while the skill engine
// handles richer AgentFeedback from delegation and explicit review.
func (o *Orchestrator) AdjustAgentSkills(agentID string, task Task, success bool) {
	if !o.Config.AdaptiveSkills {
		return
	}

	o.Pool.MutateState(agentID, func(s *pool.AgentState) {
		if success {
			for i := range s.Skills {
				if s.Skills[i].MatchScore(task.Description) > 0 {
					s.Skills[i].Proficiency = min1(s.Skills[i].Proficiency * 1.05)
				}
			}
			for _, req := range task.RequiredSkills {
				has := false
				for _, sk := range s.Skills {
					if sk.ID == req {
						has = true
						break
					}
				}
				if !has {
					s.AddSkill(skill.New(req, req, "Learned from task: "+task.Description))
				}
			}
		} else {
			for i := range s.Skills {
				if s.Skills[i].MatchScore(task.Description) > 0 {
					s.Skills[i].Proficiency = max01(s.Skills[i].Proficiency * 0.9)
				}
			}
		}
	})
}

func min1(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	return v
}

func max01(v float64) float64 {
	if v < 0.1 {
		return 0.1
	}
	return v
}

// PoolStats proxies the pool's occupancy statistics.
func (o *Orchestrator) PoolStats() pool.Stats {
	return o.Pool.Stats()
}

// InferDomains infers candidate domains for objective from substring
// keyword matches, the simpler 7-domain path used by
// DecomposeObjective (as opposed to the weighted spawner
// decomposition in internal/spawner).
func InferDomains(objective string) []savants.Domain {
	lower := strings.ToLower(objective)
	var domains []savants.Domain

	add := func(d savants.Domain, keywords ...string) {
		for _, k := range keywords {
			if strings.Contains(lower, k) {
				domains = append(domains, d)
				return
			}
		}
	}

	add(savants.Research_, "research", "find", "search", "investigate")
	add(savants.Engineering_, "code", "implement", "build", "develop", "program")
	add(savants.DataAnalysis_, "data", "analy", "statistic", "metric")
	add(savants.ContentCreation_, "write", "content", "document", "article", "blog")
	add(savants.Planning_, "plan", "strateg", "organiz", "roadmap")
	add(savants.QualityAssurance_, "test", "quality", "qa", "verify")
	add(savants.Security_, "secur", "vulnerab", "audit", "penetration")

	return domains
}

// DecomposeObjective breaks objective into a planning task, one task
// per inferred domain (each depending on planning), and a synthesis
// task depending on all of them. A single general task is created
// when no domain is inferred. Returns the IDs of every created task,
// in creation order.
func (o *Orchestrator) DecomposeObjective(objective string) []string {
	var taskIDs []string
	domains := InferDomains(objective)

	if len(domains) == 0 {
		t := NewTask(objective).WithPriority(High)
		taskIDs = append(taskIDs, t.ID)
		o.AddTask(t)
		return taskIDs
	}

	planning := NewTask("Plan and decompose: "+objective).
		WithPriority(High).
		WithDomain(savants.Planning_).
		WithRequiredSkills([]string{"task_decomposition"})
	taskIDs = append(taskIDs, planning.ID)
	o.AddTask(planning)

	for _, d := range domains {
		t := NewTask(d.String()+" work for: "+objective).
			WithPriority(Medium).
			WithDomain(d).
			WithDependencies([]string{planning.ID})
		taskIDs = append(taskIDs, t.ID)
		o.AddTask(t)
	}

	synthesis := NewTask("Synthesize results for: "+objective).
		WithPriority(High).
		WithDependencies(append([]string{}, taskIDs...))
	taskIDs = append(taskIDs, synthesis.ID)
	o.AddTask(synthesis)

	return taskIDs
}
