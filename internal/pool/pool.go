package pool

import (
	"fmt"
	"strings"

	"github.com/adaworld/orchestra/internal/card"
	"github.com/adaworld/orchestra/internal/events"
	"github.com/adaworld/orchestra/internal/savants"
	"github.com/google/uuid"
)

// entry bundles a live agent's state with its current A2A card.
type entry struct {
	state AgentState
	card  card.Card
}

// Pool holds registered blueprints and every spawned agent's live
// state and card, and scores agents against tasks for the scheduler.
type Pool struct {
	BaseURL    string
	blueprints map[string]savants.Blueprint
	agents     map[string]*entry
	Events     *events.Log
}

// New creates an empty pool publishing cards under baseURL.
func New(baseURL string) *Pool {
	return &Pool{
		BaseURL:    baseURL,
		blueprints: make(map[string]savants.Blueprint),
		agents:     make(map[string]*entry),
		Events:     &events.Log{},
	}
}

// NewWithDefaultSavants creates a pool pre-loaded with the full
// built-in savant library for llm.
func NewWithDefaultSavants(baseURL, llm string) *Pool {
	p := New(baseURL)
	for _, bp := range savants.All(llm) {
		p.RegisterBlueprint(bp)
	}
	return p
}

// RegisterBlueprint adds a blueprint template the pool can spawn
// agents from.
func (p *Pool) RegisterBlueprint(bp savants.Blueprint) {
	p.blueprints[bp.ID] = bp
}

// RegisterDomainSavants registers the built-in savant blueprint for
// each of domains.
func (p *Pool) RegisterDomainSavants(domains []savants.Domain, llm string) {
	for _, d := range domains {
		p.RegisterBlueprint(savants.ForDomain(d, llm))
	}
}

func blueprintInfo(bp savants.Blueprint) card.BlueprintInfo {
	return card.BlueprintInfo{
		ID:              bp.ID,
		Role:            bp.Role,
		Goal:            bp.Goal,
		Domain:          bp.Domain.String(),
		LLM:             bp.LLM,
		AllowDelegation: bp.AllowDelegation,
		Skills:          bp.Skills,
	}
}

func stateInfo(s AgentState) card.StateInfo {
	return card.StateInfo{
		ID:               s.ID,
		Domain:           s.Domain.String(),
		PerformanceScore: s.PerformanceScore,
		TasksCompleted:   int(s.TasksCompleted),
		Skills:           s.Skills,
	}
}

// Spawn creates a live agent from bp: a fresh ID, state, and A2A
// card, all added to the pool. Returns the new agent's ID.
func (p *Pool) Spawn(bp savants.Blueprint) string {
	id := fmt.Sprintf("agent-%s", strings.SplitN(uuid.NewString(), "-", 2)[0])

	state := NewState(id, bp)
	c := card.BuildFromBlueprint(blueprintInfo(bp), p.BaseURL)

	p.agents[id] = &entry{state: state, card: c}
	p.Events.Push(events.AgentSpawned{AgentID: id, BlueprintID: bp.ID, Domain: bp.Domain.String()})

	return id
}

// SpawnDomain spawns an agent from the built-in savant blueprint for
// domain.
func (p *Pool) SpawnDomain(domain savants.Domain, llm string) string {
	return p.Spawn(savants.ForDomain(domain, llm))
}

// Terminate removes agentID from the pool.
func (p *Pool) Terminate(agentID, reason string) bool {
	if _, ok := p.agents[agentID]; !ok {
		return false
	}
	delete(p.agents, agentID)
	p.Events.Push(events.AgentTerminated{AgentID: agentID, Reason: reason})
	return true
}

// State returns the live state for agentID.
func (p *Pool) State(agentID string) (AgentState, bool) {
	e, ok := p.agents[agentID]
	if !ok {
		return AgentState{}, false
	}
	return e.state, true
}

// MutateState applies fn to agentID's state in place, returning false
// if the agent is unknown.
func (p *Pool) MutateState(agentID string, fn func(*AgentState)) bool {
	e, ok := p.agents[agentID]
	if !ok {
		return false
	}
	fn(&e.state)
	return true
}

// MutateStateAndCard applies fn to agentID's state and card together,
// in place, for callers that need to update both atomically (the
// skill engine's ApplyFeedback, which regenerates the card from the
// state it just adjusted). Returns false if the agent is unknown.
func (p *Pool) MutateStateAndCard(agentID string, fn func(*AgentState, *card.Card)) bool {
	e, ok := p.agents[agentID]
	if !ok {
		return false
	}
	fn(&e.state, &e.card)
	return true
}

// Card returns the current A2A card for agentID.
func (p *Pool) Card(agentID string) (card.Card, bool) {
	e, ok := p.agents[agentID]
	if !ok {
		return card.Card{}, false
	}
	return e.card, true
}

// UpdateCard regenerates agentID's card from its current state.
func (p *Pool) UpdateCard(agentID string) bool {
	e, ok := p.agents[agentID]
	if !ok {
		return false
	}
	card.UpdateSkills(&e.card, stateInfo(e.state))
	p.Events.Push(events.CardUpdated{AgentID: agentID})
	return true
}

// Cards returns every agent card currently in the pool.
func (p *Pool) Cards() []card.Card {
	out := make([]card.Card, 0, len(p.agents))
	for _, e := range p.agents {
		out = append(out, e.card)
	}
	return out
}

// Candidate is one scored option FindBest considers.
type Candidate struct {
	AgentID string
	Score   float64
}

// FindBest scores every idle agent against a task described by
// taskDescription/requiredSkills/preferredDomain, applying the same
// formula as the scheduler's distribution pass: best skill match,
// +3.0 domain bonus, +2.0 (or a 0.5x penalty) for required-skill
// coverage, all weighted by performance score. Returns the best
// candidate whose score exceeds minScore.
func (p *Pool) FindBest(taskDescription string, requiredSkills []string, preferredDomain *savants.Domain, minScore float64) (Candidate, bool) {
	var best Candidate
	found := false

	for agentID, e := range p.agents {
		if e.state.Busy {
			continue
		}

		score := e.state.BestSkillMatch(taskDescription)

		if preferredDomain != nil && e.state.Domain == *preferredDomain {
			score += 3.0
		}

		if len(requiredSkills) > 0 {
			hasAll := true
			agentSkills := make(map[string]struct{}, len(e.state.Skills))
			for _, sk := range e.state.Skills {
				agentSkills[sk.ID] = struct{}{}
			}
			for _, req := range requiredSkills {
				if _, ok := agentSkills[req]; !ok {
					hasAll = false
					break
				}
			}
			if hasAll {
				score += 2.0
			} else {
				score *= 0.5
			}
		}

		score *= e.state.PerformanceScore

		if score > minScore && (!found || score > best.Score) {
			best = Candidate{AgentID: agentID, Score: score}
			found = true
		}
	}

	return best, found
}

// Stats summarizes the pool's current occupancy.
type Stats struct {
	TotalAgents        int
	BusyAgents         int
	IdleAgents         int
	AveragePerformance float64
}

// Stats computes aggregate pool statistics.
func (p *Pool) Stats() Stats {
	total := len(p.agents)
	busy := 0
	sum := 0.0
	for _, e := range p.agents {
		if e.state.Busy {
			busy++
		}
		sum += e.state.PerformanceScore
	}
	avg := 0.0
	if total > 0 {
		avg = sum / float64(total)
	}
	return Stats{TotalAgents: total, BusyAgents: busy, IdleAgents: total - busy, AveragePerformance: avg}
}

// Len returns the number of spawned agents.
func (p *Pool) Len() int { return len(p.agents) }

// Blueprints returns every registered blueprint.
func (p *Pool) Blueprints() []savants.Blueprint {
	out := make([]savants.Blueprint, 0, len(p.blueprints))
	for _, bp := range p.blueprints {
		out = append(out, bp)
	}
	return out
}
