package spawner

import (
	"testing"

	"github.com/adaworld/orchestra/internal/events"
	"github.com/adaworld/orchestra/internal/pool"
	"github.com/adaworld/orchestra/internal/savants"
)

// TestDecompose_S1MultiDomainSynthesize is spec scenario S1: a
// multi-domain objective decomposes into a planning task, one task per
// active domain, and a trailing synthesis task depending on every
// earlier task.
func TestDecompose_S1MultiDomainSynthesize(t *testing.T) {
	s := New("test-llm")
	plan := s.Decompose("research and implement a secure web application with tests")

	wantDomains := map[savants.Domain]bool{
		savants.Research_:         true,
		savants.Engineering_:      true,
		savants.Security_:         true,
		savants.QualityAssurance_: true,
	}
	got := make(map[savants.Domain]bool, len(plan.Domains))
	for _, d := range plan.Domains {
		got[d] = true
	}
	for d := range wantDomains {
		if !got[d] {
			t.Errorf("expected active domain %v, active domains were %v", d, plan.Domains)
		}
	}

	if len(plan.Tasks) < 6 {
		t.Fatalf("expected at least 6 tasks (4 domains + planning + synthesis), got %d", len(plan.Tasks))
	}

	if plan.Tasks[0].Domain != savants.Planning_ {
		t.Errorf("expected task[0] to be the planning task, got domain %v", plan.Tasks[0].Domain)
	}

	last := plan.Tasks[len(plan.Tasks)-1]
	if len(last.DependsOn) != len(plan.Tasks)-1 {
		t.Errorf("expected synthesis task to depend on all %d earlier tasks, got %d dependencies", len(plan.Tasks)-1, len(last.DependsOn))
	}

	if !plan.HasSynthesis {
		t.Error("expected HasSynthesis to be true")
	}
}

// TestDecompose_SingleDomainNoPlanning confirms a single-domain
// objective skips the planning task (only added when more than one
// domain is active).
func TestDecompose_SingleDomainNoPlanning(t *testing.T) {
	s := New("test-llm")
	plan := s.Decompose("write a blog post about coffee")

	if len(plan.Domains) > 1 {
		t.Skipf("objective matched more than one domain (%v), planning-omission doesn't apply", plan.Domains)
	}
	if plan.Tasks[0].Domain == savants.Planning_ && len(plan.Domains) <= 1 {
		t.Error("expected no planning task to be prepended for a single-domain objective")
	}
}

// TestPlanToOrchestratedTasks_DependencyMapping verifies positional
// DependsOn indices are translated into the real generated task IDs.
func TestPlanToOrchestratedTasks_DependencyMapping(t *testing.T) {
	s := New("test-llm")
	plan := s.Decompose("research and implement a secure web application with tests")
	tasks := s.PlanToOrchestratedTasks(plan)

	if len(tasks) != len(plan.Tasks) {
		t.Fatalf("expected %d converted tasks, got %d", len(plan.Tasks), len(tasks))
	}

	last := tasks[len(tasks)-1]
	if len(last.Dependencies) == 0 {
		t.Fatal("expected the synthesis task to carry dependencies")
	}
	for _, dep := range last.Dependencies {
		found := false
		for _, other := range tasks[:len(tasks)-1] {
			if other.ID == dep {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("synthesis task dependency %q does not match any earlier task ID", dep)
		}
	}
}

// TestHandleDelegation_BestScoreWins exercises spec property 6: the
// agent matching the requested domain and skills is dispatched over a
// generalist with no matching skills.
func TestHandleDelegation_BestScoreWins(t *testing.T) {
	s := New("test-llm")

	strong := savants.ForDomain(savants.Research_, "test-llm")
	weak := savants.ForDomain(savants.General, "test-llm")

	strongState := pool.NewState("strong-agent", strong)
	weakState := pool.NewState("weak-agent", weak)

	request := events.NewDelegationRequest("caller", "do some web research").
		WithDomain(savants.Research_.String()).
		WithSkills([]string{"web_research"})

	available := map[string]pool.AgentState{
		"strong-agent": strongState,
		"weak-agent":   weakState,
	}

	dispatch := s.HandleDelegation(request, available)

	if dispatch.AssignedTo != "strong-agent" {
		t.Errorf("expected the domain/skill-matching agent to win dispatch, got %q", dispatch.AssignedTo)
	}
	if dispatch.AutoSpawned {
		t.Error("expected no auto-spawn when a strong idle candidate exists")
	}
}

// TestHandleDelegation_AutoSpawnsWhenNoGoodCandidate confirms a weak
// field (no domain/skill match) falls back to auto-spawning rather
// than dispatching to a low-scoring existing agent.
func TestHandleDelegation_AutoSpawnsWhenNoGoodCandidate(t *testing.T) {
	s := New("test-llm")
	weak := savants.ForDomain(savants.General, "test-llm")
	weakState := pool.NewState("weak-agent", weak)

	request := events.NewDelegationRequest("caller", "do something totally unrelated").
		WithDomain(savants.Security_.String())

	dispatch := s.HandleDelegation(request, map[string]pool.AgentState{"weak-agent": weakState})

	if !dispatch.AutoSpawned {
		t.Error("expected auto-spawn when no idle candidate scores above threshold")
	}
}
