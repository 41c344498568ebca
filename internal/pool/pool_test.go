package pool

import (
	"testing"

	"github.com/adaworld/orchestra/internal/card"
	"github.com/adaworld/orchestra/internal/savants"
	"github.com/adaworld/orchestra/internal/skill"
)

func testPool() *Pool {
	p := New("http://localhost:8080")
	p.RegisterDomainSavants([]savants.Domain{savants.Research_, savants.Engineering_}, "test-llm")
	return p
}

// TestBusyCurrentTaskInvariant exercises spec property 1:
// a.busy ⇔ a.current_task.is_some().
func TestBusyCurrentTaskInvariant(t *testing.T) {
	p := testPool()
	id := p.SpawnDomain(savants.Research_, "test-llm")

	state, _ := p.State(id)
	if state.Busy || state.CurrentTask != "" {
		t.Fatalf("freshly spawned agent should be idle with no current task, got busy=%v current_task=%q", state.Busy, state.CurrentTask)
	}

	p.MutateState(id, func(s *AgentState) { s.AssignTask("task-1") })
	state, _ = p.State(id)
	if !state.Busy || state.CurrentTask != "task-1" {
		t.Fatalf("assigned agent should be busy with current_task set, got busy=%v current_task=%q", state.Busy, state.CurrentTask)
	}

	p.MutateState(id, func(s *AgentState) { s.CompleteTask(true) })
	state, _ = p.State(id)
	if state.Busy || state.CurrentTask != "" {
		t.Fatalf("completed agent should be idle with no current task, got busy=%v current_task=%q", state.Busy, state.CurrentTask)
	}
}

// TestCompleteTaskPerformanceScoreBounds exercises spec property 4's
// performance_score half: it must stay within [0.1, 1.0] across many
// successes and failures.
func TestCompleteTaskPerformanceScoreBounds(t *testing.T) {
	p := testPool()
	id := p.SpawnDomain(savants.Research_, "test-llm")

	for i := 0; i < 50; i++ {
		p.MutateState(id, func(s *AgentState) { s.CompleteTask(true) })
	}
	state, _ := p.State(id)
	if state.PerformanceScore > 1.0 {
		t.Errorf("performance score should never exceed 1.0, got %v", state.PerformanceScore)
	}

	for i := 0; i < 50; i++ {
		p.MutateState(id, func(s *AgentState) { s.CompleteTask(false) })
	}
	state, _ = p.State(id)
	if state.PerformanceScore < 0.1 {
		t.Errorf("performance score should never drop below 0.1, got %v", state.PerformanceScore)
	}
}

// TestUpdateCardMirrorsState exercises spec property 3: after a state
// mutation, the card's skill list equals the state's skill list and
// the description reflects performance/task count.
func TestUpdateCardMirrorsState(t *testing.T) {
	p := testPool()
	id := p.SpawnDomain(savants.Research_, "test-llm")

	p.MutateState(id, func(s *AgentState) {
		s.AddSkill(skill.New("new_skill", "New Skill", "something new"))
		s.CompleteTask(true)
	})
	p.UpdateCard(id)

	state, _ := p.State(id)
	c, ok := p.Card(id)
	if !ok {
		t.Fatal("expected card to exist")
	}
	if len(c.Skills) != len(state.Skills) {
		t.Fatalf("card skill count %d does not match state skill count %d", len(c.Skills), len(state.Skills))
	}
	for i, sk := range state.Skills {
		if c.Skills[i].ID != sk.ID {
			t.Errorf("card skill %d ID %q does not match state skill ID %q", i, c.Skills[i].ID, sk.ID)
		}
	}
	if c.Description == nil {
		t.Fatal("expected card description to be set")
	}
}

// TestMutateStateAndCard verifies both the state and card mutations
// applied inside fn are visible afterward.
func TestMutateStateAndCard(t *testing.T) {
	p := testPool()
	id := p.SpawnDomain(savants.Research_, "test-llm")

	ok := p.MutateStateAndCard(id, func(s *AgentState, c *card.Card) {
		s.PerformanceScore = 0.42
		desc := "custom description"
		c.Description = &desc
	})
	if !ok {
		t.Fatal("expected MutateStateAndCard to succeed for a known agent")
	}

	state, _ := p.State(id)
	if state.PerformanceScore != 0.42 {
		t.Errorf("expected performance score 0.42, got %v", state.PerformanceScore)
	}
	c, _ := p.Card(id)
	if c.Description == nil || *c.Description != "custom description" {
		t.Errorf("expected card description to be updated")
	}

	if p.MutateStateAndCard("unknown-agent", func(*AgentState, *card.Card) {}) {
		t.Error("expected MutateStateAndCard to report false for an unknown agent")
	}
}

// TestFindBestSkipsBusyAgents ensures a busy agent is never returned
// as a candidate.
func TestFindBestSkipsBusyAgents(t *testing.T) {
	p := testPool()
	id := p.SpawnDomain(savants.Research_, "test-llm")
	p.MutateState(id, func(s *AgentState) { s.AssignTask("t") })

	_, ok := p.FindBest("do some web research", nil, nil, 0.0)
	if ok {
		t.Error("expected no candidate when the only agent is busy")
	}
}

// TestFindBestDomainBonus confirms a matching preferred domain adds a
// score bonus large enough to outrank an otherwise-equal candidate in
// a different domain.
func TestFindBestDomainBonus(t *testing.T) {
	p := testPool()
	researchID := p.SpawnDomain(savants.Research_, "test-llm")
	engineeringID := p.SpawnDomain(savants.Engineering_, "test-llm")

	domain := savants.Engineering_
	best, ok := p.FindBest("perform some generic work", nil, &domain, 0.0)
	if !ok {
		t.Fatal("expected a candidate")
	}
	if best.AgentID != engineeringID {
		t.Errorf("expected domain bonus to favor %q, got %q (other candidate %q)", engineeringID, best.AgentID, researchID)
	}
}

// TestSpawnAndTerminate checks the pool's occupancy accounting.
func TestSpawnAndTerminate(t *testing.T) {
	p := testPool()
	if p.Len() != 0 {
		t.Fatalf("expected empty pool, got %d agents", p.Len())
	}

	id := p.SpawnDomain(savants.Research_, "test-llm")
	if p.Len() != 1 {
		t.Fatalf("expected 1 agent after spawn, got %d", p.Len())
	}

	if !p.Terminate(id, "test done") {
		t.Fatal("expected Terminate to succeed")
	}
	if p.Len() != 0 {
		t.Fatalf("expected 0 agents after terminate, got %d", p.Len())
	}
	if p.Terminate(id, "already gone") {
		t.Error("expected a second Terminate of the same ID to fail")
	}
}
