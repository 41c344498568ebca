// Package skillengine processes AgentFeedback into skill proficiency
// adjustments, skill discovery, and skill removal, and handles
// skill transfer between agents during delegation.
package skillengine

import (
	"github.com/adaworld/orchestra/internal/card"
	"github.com/adaworld/orchestra/internal/events"
	"github.com/adaworld/orchestra/internal/pool"
	"github.com/adaworld/orchestra/internal/skill"
)

// Config controls the engine's EMA rates, proficiency bounds, and
// auto-discovery/removal thresholds.
type Config struct {
	SuccessAlpha                float64
	FailureAlpha                float64
	MinProficiency              float64
	MaxProficiency              float64
	AutoDiscoverSkills          bool
	RemovalThreshold            float64
	DiscoveryInitialProficiency float64
}

// DefaultConfig returns the engine's default configuration.
func DefaultConfig() Config {
	return Config{
		SuccessAlpha:                0.05,
		FailureAlpha:                0.08,
		MinProficiency:              0.1,
		MaxProficiency:              1.0,
		AutoDiscoverSkills:          true,
		RemovalThreshold:            0.05,
		DiscoveryInitialProficiency: 0.5,
	}
}

// Engine processes feedback and applies adjustments to agent states
// and A2A cards, logging an events.CardUpdated for every feedback
// processed, preceded by an events.SkillsAdjusted when that feedback
// changed any skill.
type Engine struct {
	Config Config
	Events *events.Log
}

// New creates an engine with cfg.
func New(cfg Config) *Engine {
	return &Engine{Config: cfg, Events: &events.Log{}}
}

// DefaultEngine creates an engine with DefaultConfig.
func DefaultEngine() *Engine {
	return New(DefaultConfig())
}

// ApplyFeedback applies feedback to state and regenerates c from the
// updated state, returning a CapabilityUpdate summarizing the result.
func (e *Engine) ApplyFeedback(feedback events.AgentFeedback, state *pool.AgentState, c *card.Card) events.CapabilityUpdate {
	var adjustments []events.SkillAdjustment

	switch feedback.Outcome {
	case events.ExcellentSuccess, events.Success:
		e.applySuccess(feedback, state, &adjustments)
	case events.PartialSuccess:
		e.applyPartialSuccess(feedback, state, &adjustments)
	case events.Failure, events.Timeout:
		e.applyFailure(feedback, state, &adjustments)
	}

	for skillID, delta := range feedback.ProficiencyDeltas {
		for i := range state.Skills {
			if state.Skills[i].ID != skillID {
				continue
			}
			old := state.Skills[i].Proficiency
			state.Skills[i].Proficiency = clamp(old+delta, e.Config.MinProficiency, e.Config.MaxProficiency)
			adjType := events.ProficiencyBoosted
			if delta < 0 {
				adjType = events.ProficiencyReduced
			}
			adjustments = append(adjustments, events.SkillAdjustment{
				SkillID: skillID, Type: adjType, OldProficiency: old, NewProficiency: state.Skills[i].Proficiency,
			})
			break
		}
	}

	if e.Config.AutoDiscoverSkills {
		for _, suggested := range feedback.SuggestedSkills {
			if hasSkill(state.Skills, suggested.ID) {
				continue
			}
			newSkill := suggested.WithProficiency(e.Config.DiscoveryInitialProficiency)
			state.AddSkill(newSkill)
			adjustments = append(adjustments, events.SkillAdjustment{
				SkillID: suggested.ID, Type: events.SkillAdded, NewProficiency: e.Config.DiscoveryInitialProficiency,
			})
		}
	}

	var toRemove []string
	for _, sk := range state.Skills {
		if sk.Proficiency < e.Config.RemovalThreshold {
			toRemove = append(toRemove, sk.ID)
		}
	}
	for _, id := range toRemove {
		state.RemoveSkill(id)
		adjustments = append(adjustments, events.SkillAdjustment{SkillID: id, Type: events.SkillRemoved})
	}

	card.UpdateSkills(c, card.StateInfo{
		ID:               state.ID,
		Domain:           state.Domain.String(),
		PerformanceScore: state.PerformanceScore,
		TasksCompleted:   int(state.TasksCompleted),
		Skills:           state.Skills,
	})

	if len(adjustments) > 0 {
		e.Events.Push(events.SkillsAdjusted{AgentID: state.ID, Adjustments: adjustments})
	}
	e.Events.Push(events.CardUpdated{AgentID: state.ID})

	return events.CapabilityUpdate{
		AgentID:          state.ID,
		Skills:           state.Skills,
		PerformanceScore: state.PerformanceScore,
		Domain:           state.Domain.String(),
		Trigger:          events.TriggerTaskOutcome,
	}
}

func (e *Engine) applySuccess(feedback events.AgentFeedback, state *pool.AgentState, adjustments *[]events.SkillAdjustment) {
	relevant := toSet(feedback.RelevantSkills)
	for i := range state.Skills {
		if _, ok := relevant[state.Skills[i].ID]; !ok {
			continue
		}
		old := state.Skills[i].Proficiency
		state.Skills[i].Proficiency = min(old+e.Config.SuccessAlpha*(e.Config.MaxProficiency-old), e.Config.MaxProficiency)
		*adjustments = append(*adjustments, events.SkillAdjustment{
			SkillID: state.Skills[i].ID, Type: events.ProficiencyBoosted, OldProficiency: old, NewProficiency: state.Skills[i].Proficiency,
		})
	}

	if e.Config.AutoDiscoverSkills {
		for _, missing := range feedback.MissingSkills {
			if hasSkill(state.Skills, missing) {
				continue
			}
			newSkill := skill.New(missing, missing, "Discovered as needed during task "+feedback.TaskID).
				WithProficiency(e.Config.DiscoveryInitialProficiency)
			state.AddSkill(newSkill)
			*adjustments = append(*adjustments, events.SkillAdjustment{
				SkillID: missing, Type: events.SkillAdded, NewProficiency: e.Config.DiscoveryInitialProficiency,
			})
		}
	}

	state.PerformanceScore = min(state.PerformanceScore*0.9+0.1, 1.0)
}

func (e *Engine) applyPartialSuccess(feedback events.AgentFeedback, state *pool.AgentState, adjustments *[]events.SkillAdjustment) {
	mildAlpha := e.Config.SuccessAlpha * 0.5
	relevant := toSet(feedback.RelevantSkills)
	for i := range state.Skills {
		if _, ok := relevant[state.Skills[i].ID]; !ok {
			continue
		}
		old := state.Skills[i].Proficiency
		state.Skills[i].Proficiency = min(old+mildAlpha*(e.Config.MaxProficiency-old), e.Config.MaxProficiency)
		*adjustments = append(*adjustments, events.SkillAdjustment{
			SkillID: state.Skills[i].ID, Type: events.ProficiencyBoosted, OldProficiency: old, NewProficiency: state.Skills[i].Proficiency,
		})
	}
}

func (e *Engine) applyFailure(feedback events.AgentFeedback, state *pool.AgentState, adjustments *[]events.SkillAdjustment) {
	relevant := toSet(feedback.RelevantSkills)
	for i := range state.Skills {
		if _, ok := relevant[state.Skills[i].ID]; !ok {
			continue
		}
		old := state.Skills[i].Proficiency
		state.Skills[i].Proficiency = max(old*(1.0-e.Config.FailureAlpha), e.Config.MinProficiency)
		*adjustments = append(*adjustments, events.SkillAdjustment{
			SkillID: state.Skills[i].ID, Type: events.ProficiencyReduced, OldProficiency: old, NewProficiency: state.Skills[i].Proficiency,
		})
	}

	state.PerformanceScore = max(state.PerformanceScore*0.85, 0.1)
}

// TransferSkills copies every skill source has that target lacks,
// at a reduced proficiency (source proficiency scaled by
// 1-transferPenalty, floored at MinProficiency). The floor is applied
// once and the same floored value is both stored on the target skill
// and reported in the returned adjustment, so the two never disagree.
func (e *Engine) TransferSkills(source pool.AgentState, target *pool.AgentState, transferPenalty float64) []events.SkillAdjustment {
	var adjustments []events.SkillAdjustment
	penalty := clamp(transferPenalty, 0.0, 1.0)

	for _, src := range source.Skills {
		if hasSkill(target.Skills, src.ID) {
			continue
		}
		newProficiency := max(src.Proficiency*(1.0-penalty), e.Config.MinProficiency)
		newSkill := src
		newSkill.Proficiency = newProficiency
		target.AddSkill(newSkill)
		adjustments = append(adjustments, events.SkillAdjustment{
			SkillID: src.ID, Type: events.SkillAdded, NewProficiency: newProficiency,
		})
	}

	return adjustments
}

func hasSkill(skills []skill.Descriptor, id string) bool {
	for _, s := range skills {
		if s.ID == id {
			return true
		}
	}
	return false
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
