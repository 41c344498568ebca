// Package events defines the tagged-union lifecycle events emitted by
// the agent pool, skill engine, spawner, and orchestrator, plus the
// delegation and feedback DTOs that drive them.
package events

import (
	"time"

	"github.com/adaworld/orchestra/internal/skill"
)

// Event is the common interface satisfied by every lifecycle event
// variant. The marker method keeps the set closed to this package.
type Event interface {
	eventMarker()
	Kind() string
}

type base struct{}

func (base) eventMarker() {}

// AgentSpawned is emitted when the pool creates a new agent.
type AgentSpawned struct {
	base
	AgentID     string
	BlueprintID string
	Domain      string
}

func (AgentSpawned) Kind() string { return "agent_spawned" }

// AgentTerminated is emitted when the pool removes an agent.
type AgentTerminated struct {
	base
	AgentID string
	Reason  string
}

func (AgentTerminated) Kind() string { return "agent_terminated" }

// TaskQueued is emitted when a task enters the orchestrator's queue.
type TaskQueued struct {
	base
	TaskID string
}

func (TaskQueued) Kind() string { return "task_queued" }

// TaskAssigned is emitted when a task is assigned to an agent.
type TaskAssigned struct {
	base
	TaskID  string
	AgentID string
}

func (TaskAssigned) Kind() string { return "task_assigned" }

// TaskStarted is emitted when an assigned task begins execution.
type TaskStarted struct {
	base
	TaskID  string
	AgentID string
}

func (TaskStarted) Kind() string { return "task_started" }

// TaskCompleted is emitted when a task finishes successfully.
type TaskCompleted struct {
	base
	TaskID  string
	AgentID string
}

func (TaskCompleted) Kind() string { return "task_completed" }

// TaskFailed is emitted when a task fails, permanently or for retry.
type TaskFailed struct {
	base
	TaskID      string
	AgentID     string
	Error       string
	WillRetry   bool
	RetryCount  int
}

func (TaskFailed) Kind() string { return "task_failed" }

// DelegationRequested is emitted when an agent requests delegation.
type DelegationRequested struct {
	base
	RequestID string
	FromAgent string
}

func (DelegationRequested) Kind() string { return "delegation_requested" }

// DelegationDispatched is emitted when a delegation request is routed
// to an agent (existing or freshly auto-spawned).
type DelegationDispatched struct {
	base
	RequestID    string
	AssignedTo   string
	MatchScore   float64
	AutoSpawned  bool
}

func (DelegationDispatched) Kind() string { return "delegation_dispatched" }

// DelegationCompleted is emitted when a delegated task's response
// arrives.
type DelegationCompleted struct {
	base
	RequestID string
	Success   bool
}

func (DelegationCompleted) Kind() string { return "delegation_completed" }

// SkillsAdjusted is emitted when the skill engine changes an agent's
// skill proficiencies.
type SkillsAdjusted struct {
	base
	AgentID     string
	Adjustments []SkillAdjustment
}

func (SkillsAdjusted) Kind() string { return "skills_adjusted" }

// CardUpdated is emitted whenever an agent's A2A card is regenerated.
type CardUpdated struct {
	base
	AgentID string
}

func (CardUpdated) Kind() string { return "card_updated" }

// OrchestrationFinished is emitted once at the end of a Run.
type OrchestrationFinished struct {
	base
	Total, Completed, Failed, Pending int
}

func (OrchestrationFinished) Kind() string { return "orchestration_finished" }

// AdjustmentType classifies a single skill adjustment.
type AdjustmentType int

const (
	ProficiencyBoosted AdjustmentType = iota
	ProficiencyReduced
	SkillAdded
	SkillRemoved
)

// SkillAdjustment records one change to an agent's skill set.
type SkillAdjustment struct {
	SkillID        string
	Type           AdjustmentType
	OldProficiency float64
	NewProficiency float64
}

// TaskOutcome classifies how a delegated or scheduled task ended, and
// drives the skill engine's feedback formulas.
type TaskOutcome int

const (
	ExcellentSuccess TaskOutcome = iota
	Success
	PartialSuccess
	Failure
	Timeout
)

// AgentFeedback reports the outcome of one task back to the skill
// engine for a given agent.
type AgentFeedback struct {
	ID                string
	AgentID           string
	TaskID            string
	Outcome           TaskOutcome
	RelevantSkills    []string
	MissingSkills     []string
	SuggestedSkills   []skill.Descriptor
	ProficiencyDeltas map[string]float64
	Notes             string
}

// NewSuccessFeedback builds an AgentFeedback with outcome Success.
func NewSuccessFeedback(agentID, taskID string) AgentFeedback {
	return AgentFeedback{AgentID: agentID, TaskID: taskID, Outcome: Success, ProficiencyDeltas: map[string]float64{}}
}

// NewFailureFeedback builds an AgentFeedback with outcome Failure.
func NewFailureFeedback(agentID, taskID string) AgentFeedback {
	return AgentFeedback{AgentID: agentID, TaskID: taskID, Outcome: Failure, ProficiencyDeltas: map[string]float64{}}
}

// WithRelevantSkills sets the skills whose proficiency this feedback
// concerns.
func (f AgentFeedback) WithRelevantSkills(ids []string) AgentFeedback {
	f.RelevantSkills = ids
	return f
}

// WithMissingSkills sets skills the agent lacked for this task.
func (f AgentFeedback) WithMissingSkills(ids []string) AgentFeedback {
	f.MissingSkills = ids
	return f
}

// WithProficiencyDelta sets an explicit proficiency delta for one
// skill, clamped to [-1, 1].
func (f AgentFeedback) WithProficiencyDelta(skillID string, delta float64) AgentFeedback {
	if delta > 1 {
		delta = 1
	}
	if delta < -1 {
		delta = -1
	}
	if f.ProficiencyDeltas == nil {
		f.ProficiencyDeltas = map[string]float64{}
	}
	f.ProficiencyDeltas[skillID] = delta
	return f
}

// WithSuggestedSkills sets skills the skill engine should consider
// auto-discovering for the agent.
func (f AgentFeedback) WithSuggestedSkills(skills []skill.Descriptor) AgentFeedback {
	f.SuggestedSkills = skills
	return f
}

// DelegationRequest asks the spawner to route a task to an existing or
// newly auto-spawned agent.
type DelegationRequest struct {
	ID              string
	FromAgent       string
	ToAgent         *string
	TargetDomain    *string
	RequiredSkills  []string
	TaskDescription string
	Context         *string
	Priority        int
	MaxTurns        int
	Metadata        map[string]any
}

// NewDelegationRequest builds a request with MaxTurns defaulted to 10.
func NewDelegationRequest(fromAgent, taskDescription string) DelegationRequest {
	return DelegationRequest{
		ID:              fromAgent + "-delegation",
		FromAgent:       fromAgent,
		TaskDescription: taskDescription,
		MaxTurns:        10,
	}
}

// To sets an explicit target agent.
func (r DelegationRequest) To(agentID string) DelegationRequest {
	r.ToAgent = &agentID
	return r
}

// WithDomain sets a target domain (used when ToAgent is unset).
func (r DelegationRequest) WithDomain(domain string) DelegationRequest {
	r.TargetDomain = &domain
	return r
}

// WithSkills sets the skills required of the assignee.
func (r DelegationRequest) WithSkills(skills []string) DelegationRequest {
	r.RequiredSkills = skills
	return r
}

// WithContext sets additional context text for the delegated task.
func (r DelegationRequest) WithContext(ctx string) DelegationRequest {
	r.Context = &ctx
	return r
}

// WithPriority sets the delegation's priority.
func (r DelegationRequest) WithPriority(p int) DelegationRequest {
	r.Priority = p
	return r
}

// DelegationDispatch is the result of routing a DelegationRequest to an
// agent.
type DelegationDispatch struct {
	Request      DelegationRequest
	AssignedTo   string
	MatchScore   float64
	AutoSpawned  bool
}

// DelegationResponse reports the final outcome of a dispatched
// delegation back to the requester.
type DelegationResponse struct {
	RequestID      string
	FromAgent      string
	Success        bool
	Result         *string
	Error          *string
	SkillsUsed     []string
	IterationsUsed int
	Metadata       map[string]any
}

// NewSuccessResponse builds a successful DelegationResponse.
func NewSuccessResponse(requestID, fromAgent, result string) DelegationResponse {
	return DelegationResponse{RequestID: requestID, FromAgent: fromAgent, Success: true, Result: &result}
}

// NewFailureResponse builds a failed DelegationResponse.
func NewFailureResponse(requestID, fromAgent, errMsg string) DelegationResponse {
	return DelegationResponse{RequestID: requestID, FromAgent: fromAgent, Success: false, Error: &errMsg}
}

// DelegationResult is delivered back to the agent that originally
// issued a DelegationRequest, once the dispatched delegate responds.
type DelegationResult struct {
	RequestID string
	Success   bool
	Result    *string
	Error     *string
	HandledBy string
}

// CapabilityUpdateTrigger classifies why a CapabilityUpdate was
// produced.
type CapabilityUpdateTrigger int

const (
	TriggerSpawn CapabilityUpdateTrigger = iota
	TriggerTaskOutcome
	TriggerManualAdjustment
	TriggerDelegationFeedback
)

// CapabilityUpdate summarizes an agent's skill state after an
// adjustment, for downstream card synchronization.
type CapabilityUpdate struct {
	AgentID          string
	Skills           []skill.Descriptor
	PerformanceScore float64
	Domain           string
	Trigger          CapabilityUpdateTrigger
	Timestamp        time.Time
}

// Log is a simple append-only, drainable event buffer used by each
// emitting component.
type Log struct {
	events []Event
}

// Push appends an event to the log.
func (l *Log) Push(e Event) {
	l.events = append(l.events, e)
}

// Drain returns and clears all buffered events.
func (l *Log) Drain() []Event {
	out := l.events
	l.events = nil
	return out
}

// Len reports the number of buffered events.
func (l *Log) Len() int {
	return len(l.events)
}
