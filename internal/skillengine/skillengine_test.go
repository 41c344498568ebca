package skillengine

import (
	"testing"

	"github.com/adaworld/orchestra/internal/card"
	"github.com/adaworld/orchestra/internal/events"
	"github.com/adaworld/orchestra/internal/pool"
	"github.com/adaworld/orchestra/internal/savants"
	"github.com/adaworld/orchestra/internal/skill"
)

func newAgentState(proficiency float64) pool.AgentState {
	bp := savants.NewBlueprint("researcher", "research things", "", "test-llm", savants.Research_).
		WithSkill(skill.New("web_research", "Web Research", "search the web").WithProficiency(proficiency))
	return pool.NewState("agent-1", bp)
}

// TestApplyFeedback_S3SuccessBoostsMonotonically is spec scenario S3:
// three successive success feedbacks strictly increase proficiency,
// never exceeding 1.0, with a CardUpdated event each time and the
// skill count unchanged.
func TestApplyFeedback_S3SuccessBoostsMonotonically(t *testing.T) {
	e := DefaultEngine()
	state := newAgentState(0.8)
	c := card.BuildFromState(card.StateInfo{ID: state.ID, Skills: state.Skills}, "http://localhost")

	var last float64
	for i := 0; i < 3; i++ {
		last = skillProficiency(state, "web_research")
		feedback := events.NewSuccessFeedback(state.ID, "task-1").WithRelevantSkills([]string{"web_research"})
		e.ApplyFeedback(feedback, &state, &c)

		got := skillProficiency(state, "web_research")
		if got <= last {
			t.Fatalf("iteration %d: expected proficiency to strictly increase from %v, got %v", i, last, got)
		}
		if got > 1.0 {
			t.Fatalf("iteration %d: proficiency exceeded 1.0: %v", i, got)
		}
	}

	if len(state.Skills) != 1 {
		t.Errorf("expected skill count to remain 1, got %d", len(state.Skills))
	}

	var cardUpdates int
	for _, ev := range e.Events.Drain() {
		if _, ok := ev.(events.CardUpdated); ok {
			cardUpdates++
		}
	}
	if cardUpdates != 3 {
		t.Errorf("expected 3 CardUpdated events, got %d", cardUpdates)
	}
}

// TestApplyFeedback_ProficiencyClamped exercises spec property 4:
// proficiency always stays within [MinProficiency, MaxProficiency],
// even under repeated failure feedback or an explicit out-of-range
// delta.
func TestApplyFeedback_ProficiencyClamped(t *testing.T) {
	e := DefaultEngine()
	state := newAgentState(0.15)
	c := card.BuildFromState(card.StateInfo{ID: state.ID, Skills: state.Skills}, "http://localhost")

	for i := 0; i < 20; i++ {
		feedback := events.NewFailureFeedback(state.ID, "task-1").WithRelevantSkills([]string{"web_research"})
		e.ApplyFeedback(feedback, &state, &c)
	}

	got := skillProficiency(state, "web_research")
	if got < e.Config.MinProficiency {
		t.Errorf("expected proficiency to stay at or above the floor %v, got %v", e.Config.MinProficiency, got)
	}

	feedback := events.NewSuccessFeedback(state.ID, "task-2").WithProficiencyDelta("web_research", 5.0)
	e.ApplyFeedback(feedback, &state, &c)
	got = skillProficiency(state, "web_research")
	if got > e.Config.MaxProficiency {
		t.Errorf("expected proficiency to stay at or below the ceiling %v, got %v", e.Config.MaxProficiency, got)
	}
}

// TestApplyFeedback_LowProficiencySkillRemoved checks a skill whose
// proficiency falls under RemovalThreshold is dropped, with a
// SkillRemoved adjustment recorded.
func TestApplyFeedback_LowProficiencySkillRemoved(t *testing.T) {
	e := DefaultEngine()
	// The default MinProficiency floor (0.1) sits above RemovalThreshold
	// (0.05), so clamped deltas alone never reach it; lower the floor.
	e.Config.MinProficiency = 0.0
	state := newAgentState(0.2)
	c := card.BuildFromState(card.StateInfo{ID: state.ID, Skills: state.Skills}, "http://localhost")

	feedback := events.NewFailureFeedback(state.ID, "task-1").
		WithRelevantSkills([]string{"web_research"}).
		WithProficiencyDelta("web_research", -1.0)
	e.ApplyFeedback(feedback, &state, &c)

	if len(state.Skills) != 0 {
		t.Fatalf("expected the low-proficiency skill to be removed, still have %d skills", len(state.Skills))
	}

	var removed bool
	for _, ev := range e.Events.Drain() {
		if sa, ok := ev.(events.SkillsAdjusted); ok {
			for _, adj := range sa.Adjustments {
				if adj.SkillID == "web_research" && adj.Type == events.SkillRemoved {
					removed = true
				}
			}
		}
	}
	if !removed {
		t.Error("expected a SkillRemoved adjustment to be recorded")
	}
}

// TestTransferSkills_FloorAppliedConsistently ensures the floor on a
// transferred skill's proficiency is the same value both stored on the
// target skill and reported in the returned adjustment.
func TestTransferSkills_FloorAppliedConsistently(t *testing.T) {
	e := DefaultEngine()
	source := pool.AgentState{Skills: []skill.Descriptor{
		skill.New("rare_skill", "Rare Skill", "").WithProficiency(0.1),
	}}
	target := pool.AgentState{}

	adjustments := e.TransferSkills(source, &target, 0.9)
	if len(adjustments) != 1 {
		t.Fatalf("expected 1 adjustment, got %d", len(adjustments))
	}

	got := skillProficiency(target, "rare_skill")
	if got != adjustments[0].NewProficiency {
		t.Errorf("stored proficiency %v disagrees with reported adjustment %v", got, adjustments[0].NewProficiency)
	}
	if got < e.Config.MinProficiency {
		t.Errorf("expected transferred proficiency to respect the floor %v, got %v", e.Config.MinProficiency, got)
	}
}

func skillProficiency(state pool.AgentState, id string) float64 {
	for _, sk := range state.Skills {
		if sk.ID == id {
			return sk.Proficiency
		}
	}
	return -1
}
