// Package spawner implements the auto-attended spawner meta-agent: it
// analyzes high-level objectives into structured, dependency-aware
// task decompositions (richer than the scheduler's own keyword-only
// decomposition in internal/orchestrator) and routes delegation
// requests to existing or freshly auto-spawned agents.
package spawner

import (
	"fmt"
	"strings"

	"github.com/adaworld/orchestra/internal/events"
	"github.com/adaworld/orchestra/internal/orchestrator"
	"github.com/adaworld/orchestra/internal/pool"
	"github.com/adaworld/orchestra/internal/savants"
	"github.com/google/uuid"
)

// domainOrder fixes an iteration order over the keyword table so
// scoring and extraction are deterministic.
var domainOrder = []savants.Domain{
	savants.Research_,
	savants.Engineering_,
	savants.DataAnalysis_,
	savants.ContentCreation_,
	savants.Planning_,
	savants.QualityAssurance_,
	savants.Security_,
	savants.DevOps_,
}

func defaultKeywords() map[savants.Domain][]string {
	return map[savants.Domain][]string{
		savants.Research_: {
			"research", "find", "search", "investigate", "discover", "explore",
			"analyze", "study", "survey", "review literature", "look up", "information",
		},
		savants.Engineering_: {
			"code", "implement", "build", "develop", "program", "software",
			"debug", "fix", "refactor", "architect", "design system", "deploy",
			"api", "database", "backend", "frontend", "function", "class",
		},
		savants.DataAnalysis_: {
			"data", "analyze", "statistics", "metrics", "visualization", "chart",
			"graph", "trend", "pattern", "correlation", "regression", "dashboard",
			"csv", "dataset", "aggregate",
		},
		savants.ContentCreation_: {
			"write", "content", "document", "article", "blog", "essay", "report",
			"copy", "draft", "edit", "proofread", "summarize", "narrative",
		},
		savants.Planning_: {
			"plan", "strategy", "organize", "roadmap", "timeline", "milestone",
			"decompose", "prioritize", "schedule", "coordinate", "allocate",
		},
		savants.QualityAssurance_: {
			"test", "quality", "qa", "verify", "validate", "check", "review",
			"regression", "edge case", "integration test", "unit test",
		},
		savants.Security_: {
			"security", "vulnerability", "audit", "penetration", "threat",
			"authentication", "authorization", "encryption", "owasp", "secure",
			"credential", "injection", "xss",
		},
		savants.DevOps_: {
			"deploy", "ci/cd", "docker", "kubernetes", "infrastructure",
			"monitoring", "logging", "pipeline", "container", "cloud",
		},
	}
}

// DecomposedTask is one sub-task produced by Decompose, still indexed
// by position within the plan rather than carrying a real task ID.
type DecomposedTask struct {
	Description    string
	Domain         savants.Domain
	RequiredSkills []string
	Priority       orchestrator.Priority
	DependsOn      []int
	SuggestedTools []string
}

// DecompositionPlan is the structured result of decomposing one
// objective.
type DecompositionPlan struct {
	Objective    string
	Tasks        []DecomposedTask
	Domains      []savants.Domain
	HasSynthesis bool
}

// Spawner analyzes objectives, builds decomposition plans, and routes
// delegation requests to the agent pool.
type Spawner struct {
	DefaultLLM     string
	Blueprints     []savants.Blueprint
	domainKeywords map[savants.Domain][]string
	Events         *events.Log
}

// New creates a spawner pre-loaded with the full built-in savant
// library for defaultLLM.
func New(defaultLLM string) *Spawner {
	return &Spawner{
		DefaultLLM:     defaultLLM,
		Blueprints:     savants.All(defaultLLM),
		domainKeywords: defaultKeywords(),
		Events:         &events.Log{},
	}
}

// RegisterBlueprint adds bp to the spawner's blueprint library.
func (s *Spawner) RegisterBlueprint(bp savants.Blueprint) {
	s.Blueprints = append(s.Blueprints, bp)
}

// Decompose breaks objective into a structured plan via four passes:
// domain scoring, clause-based task extraction, a planning step
// prepended when more than one domain is active, and a synthesis step
// appended when more than one task results.
func (s *Spawner) Decompose(objective string) DecompositionPlan {
	scores := s.scoreDomains(objective)

	var activeDomains []savants.Domain
	for _, d := range domainOrder {
		if scores[d] > 0.0 {
			activeDomains = append(activeDomains, d)
		}
	}

	tasks := s.extractTasks(objective, activeDomains)

	if len(activeDomains) > 1 {
		planning := DecomposedTask{
			Description:    fmt.Sprintf("Analyze and plan approach for: %s", objective),
			Domain:         savants.Planning_,
			RequiredSkills: []string{"task_decomposition"},
			Priority:       orchestrator.High,
		}
		for i := range tasks {
			shifted := make([]int, len(tasks[i].DependsOn))
			for j, idx := range tasks[i].DependsOn {
				shifted[j] = idx + 1
			}
			tasks[i].DependsOn = append(shifted, 0)
		}
		tasks = append([]DecomposedTask{planning}, tasks...)
	}

	hasSynthesis := len(tasks) > 1
	if hasSynthesis {
		depIndices := make([]int, len(tasks))
		for i := range tasks {
			depIndices[i] = i
		}
		synthesisDomain := savants.Planning_
		for _, d := range activeDomains {
			if d == savants.ContentCreation_ {
				synthesisDomain = savants.ContentCreation_
				break
			}
		}
		tasks = append(tasks, DecomposedTask{
			Description: fmt.Sprintf("Synthesize all results into final deliverable for: %s", objective),
			Domain:      synthesisDomain,
			Priority:    orchestrator.High,
			DependsOn:   depIndices,
		})
	}

	return DecompositionPlan{
		Objective:    objective,
		Tasks:        tasks,
		Domains:      activeDomains,
		HasSynthesis: hasSynthesis,
	}
}

// scoreDomains scores every known domain against objective: +1.0 per
// keyword substring hit, plus a +0.5 bonus when that keyword also
// appears as a whole word.
func (s *Spawner) scoreDomains(objective string) map[savants.Domain]float64 {
	lower := strings.ToLower(objective)
	words := make(map[string]struct{})
	for _, w := range strings.Fields(lower) {
		words[w] = struct{}{}
	}

	scores := make(map[savants.Domain]float64, len(s.domainKeywords))
	for domain, keywords := range s.domainKeywords {
		score := 0.0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				score += 1.0
				if _, ok := words[kw]; ok {
					score += 0.5
				}
			}
		}
		scores[domain] = score
	}
	return scores
}

// extractTasks produces one DecomposedTask per active domain, each
// assigned the best-matching clause of objective and the suggested
// tools/skills of that domain's savant blueprint. With no active
// domain, a single general task wraps the whole objective.
func (s *Spawner) extractTasks(objective string, domains []savants.Domain) []DecomposedTask {
	if len(domains) == 0 {
		return []DecomposedTask{{
			Description: objective,
			Domain:      savants.General,
			Priority:    orchestrator.Medium,
		}}
	}

	clauses := s.splitIntoClauses(objective)
	tasks := make([]DecomposedTask, 0, len(domains))

	for _, domain := range domains {
		keywords := s.domainKeywords[domain]

		bestClause := objective
		bestCount := -1
		for _, clause := range clauses {
			lower := strings.ToLower(clause)
			count := 0
			for _, kw := range keywords {
				if strings.Contains(lower, kw) {
					count++
				}
			}
			if count > bestCount {
				bestCount = count
				bestClause = clause
			}
		}

		var tools, skillIDs []string
		for _, bp := range s.Blueprints {
			if bp.Domain != domain {
				continue
			}
			tools = bp.Tools
			for _, sk := range bp.Skills {
				skillIDs = append(skillIDs, sk.ID)
			}
			break
		}

		tasks = append(tasks, DecomposedTask{
			Description:    fmt.Sprintf("%s — focus on %s aspects", strings.TrimSpace(bestClause), domain),
			Domain:         domain,
			RequiredSkills: skillIDs,
			Priority:       orchestrator.Medium,
			SuggestedTools: tools,
		})
	}

	return tasks
}

// splitIntoClauses splits text on commas, semicolons, and " and ",
// discarding fragments of 5 characters or fewer. Returns the whole
// text unsplit if nothing meaningful survives.
func (s *Spawner) splitIntoClauses(text string) []string {
	var clauses []string
	for _, segment := range strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ';' }) {
		for _, part := range strings.Split(segment, " and ") {
			trimmed := strings.TrimSpace(part)
			if len(trimmed) > 5 {
				clauses = append(clauses, trimmed)
			}
		}
	}
	if len(clauses) == 0 {
		clauses = append(clauses, text)
	}
	return clauses
}

// PlanToOrchestratedTasks converts plan into scheduler tasks, mapping
// each DecomposedTask's positional dependencies to the real task IDs
// assigned during conversion.
func (s *Spawner) PlanToOrchestratedTasks(plan DecompositionPlan) []orchestrator.Task {
	tasks := make([]orchestrator.Task, 0, len(plan.Tasks))
	idByIndex := make(map[int]string, len(plan.Tasks))

	for i, decomposed := range plan.Tasks {
		task := orchestrator.NewTask(decomposed.Description).
			WithDomain(decomposed.Domain).
			WithPriority(decomposed.Priority).
			WithRequiredSkills(decomposed.RequiredSkills)

		var deps []string
		for _, idx := range decomposed.DependsOn {
			if id, ok := idByIndex[idx]; ok {
				deps = append(deps, id)
			}
		}
		if len(deps) > 0 {
			task = task.WithDependencies(deps)
		}

		idByIndex[i] = task.ID
		tasks = append(tasks, task)
	}

	return tasks
}

// HandleDelegation routes request to the best idle agent in
// availableAgents, scored by skill match plus a +3.0 domain bonus and
// a +2.0 bonus (no penalty for partial coverage) when the agent holds
// every required skill, weighted by performance score. Falls back to
// auto-spawning the target domain's savant blueprint (or General's)
// when no idle agent scores above 0.5.
func (s *Spawner) HandleDelegation(request events.DelegationRequest, availableAgents map[string]pool.AgentState) events.DelegationDispatch {
	var bestAgent string
	var bestScore float64
	found := false

	for agentID, state := range availableAgents {
		if state.Busy {
			continue
		}

		score := state.BestSkillMatch(request.TaskDescription)

		if request.TargetDomain != nil && state.Domain.String() == *request.TargetDomain {
			score += 3.0
		}

		if len(request.RequiredSkills) > 0 {
			agentSkills := make(map[string]struct{}, len(state.Skills))
			for _, sk := range state.Skills {
				agentSkills[sk.ID] = struct{}{}
			}
			hasAll := true
			for _, req := range request.RequiredSkills {
				if _, ok := agentSkills[req]; !ok {
					hasAll = false
					break
				}
			}
			if hasAll {
				score += 2.0
			}
		}

		score *= state.PerformanceScore

		if !found || score > bestScore {
			bestAgent, bestScore, found = agentID, score, true
		}
	}

	if found && bestScore > 0.5 {
		s.Events.Push(events.DelegationDispatched{RequestID: request.ID, AssignedTo: bestAgent, MatchScore: bestScore})
		return events.DelegationDispatch{Request: request, AssignedTo: bestAgent, MatchScore: bestScore, AutoSpawned: false}
	}

	domainStr := "general"
	if request.TargetDomain != nil {
		domainStr = *request.TargetDomain
	}
	bp := s.blueprintForDomainString(domainStr)
	agentID := fmt.Sprintf("delegate-%s", strings.SplitN(uuid.NewString(), "-", 2)[0])

	skillIDs := make([]string, 0, len(bp.Skills))
	for _, sk := range bp.Skills {
		skillIDs = append(skillIDs, sk.ID)
	}
	s.Events.Push(events.AgentSpawned{AgentID: agentID, BlueprintID: bp.ID, Domain: bp.Domain.String()})
	s.Events.Push(events.DelegationDispatched{RequestID: request.ID, AssignedTo: agentID, MatchScore: 0.0})

	return events.DelegationDispatch{Request: request, AssignedTo: agentID, MatchScore: 0.0, AutoSpawned: true}
}

// BlueprintForDomain returns the registered blueprint for domain,
// falling back to the built-in savant for that domain.
func (s *Spawner) BlueprintForDomain(domain savants.Domain) savants.Blueprint {
	for _, bp := range s.Blueprints {
		if bp.Domain == domain {
			return bp
		}
	}
	return savants.ForDomain(domain, s.DefaultLLM)
}

func (s *Spawner) blueprintForDomainString(domain string) savants.Blueprint {
	for _, bp := range s.Blueprints {
		if bp.Domain.String() == domain {
			return bp
		}
	}
	return savants.ForDomain(domainFromString(domain), s.DefaultLLM)
}

func domainFromString(s string) savants.Domain {
	for d := savants.Research_; d <= savants.General; d++ {
		if d.String() == s {
			return d
		}
	}
	return savants.General
}

// DrainEvents returns and clears every event generated by decomposition
// and delegation handling so far.
func (s *Spawner) DrainEvents() []events.Event {
	return s.Events.Drain()
}
