// Package pool implements the agent pool: it holds registered
// blueprints, tracks every spawned agent's live state and A2A card,
// and scores agents against tasks for the scheduler's assignment
// pass.
package pool

import (
	"github.com/adaworld/orchestra/internal/savants"
	"github.com/adaworld/orchestra/internal/skill"
)

// AgentState tracks one spawned agent's live, possibly
// runtime-adjusted, condition in the pool.
type AgentState struct {
	ID               string
	BlueprintID      string
	Skills           []skill.Descriptor
	Domain           savants.Domain
	Busy             bool
	TasksCompleted   uint32
	TasksFailed      uint32
	PerformanceScore float64
	CurrentTask      string
}

// NewState creates state for a newly spawned agent, copying its
// origin blueprint's skill set and domain. PerformanceScore starts
// at 1.0.
func NewState(id string, bp savants.Blueprint) AgentState {
	skills := make([]skill.Descriptor, len(bp.Skills))
	copy(skills, bp.Skills)
	return AgentState{
		ID:               id,
		BlueprintID:      bp.ID,
		Skills:           skills,
		Domain:           bp.Domain,
		PerformanceScore: 1.0,
	}
}

// AssignTask marks the agent busy with taskID.
func (s *AgentState) AssignTask(taskID string) {
	s.Busy = true
	s.CurrentTask = taskID
}

// CompleteTask marks the agent idle and updates its running
// performance score via an exponential moving average: successes
// decay toward 1.0, failures decay toward 0.0, both at a 0.9/0.1
// split, with the score floored at 0.1.
func (s *AgentState) CompleteTask(success bool) {
	s.Busy = false
	s.CurrentTask = ""
	if success {
		s.TasksCompleted++
		s.PerformanceScore = s.PerformanceScore*0.9 + 0.1
	} else {
		s.TasksFailed++
		s.PerformanceScore = s.PerformanceScore * 0.9
		if s.PerformanceScore < 0.1 {
			s.PerformanceScore = 0.1
		}
	}
}

// AdjustSkills replaces the agent's entire skill set.
func (s *AgentState) AdjustSkills(skills []skill.Descriptor) {
	s.Skills = skills
}

// AddSkill appends a skill unless one with the same ID is already
// present.
func (s *AgentState) AddSkill(sk skill.Descriptor) {
	for _, existing := range s.Skills {
		if existing.ID == sk.ID {
			return
		}
	}
	s.Skills = append(s.Skills, sk)
}

// RemoveSkill removes the skill with the given ID, if present.
func (s *AgentState) RemoveSkill(skillID string) {
	out := s.Skills[:0]
	for _, sk := range s.Skills {
		if sk.ID != skillID {
			out = append(out, sk)
		}
	}
	s.Skills = out
}

// BestSkillMatch returns the highest match score across all of the
// agent's skills for a task description, or 0 if it has none.
func (s AgentState) BestSkillMatch(taskDescription string) float64 {
	best := 0.0
	for _, sk := range s.Skills {
		if score := sk.MatchScore(taskDescription); score > best {
			best = score
		}
	}
	return best
}
