// Package skill implements the skill descriptor and the single scoring
// primitive (match_score) used uniformly by agent pool routing, spawner
// matching, and delegation dispatch.
package skill

import (
	"math"
	"strings"
)

// Descriptor describes one capability an agent has, at some proficiency.
type Descriptor struct {
	ID            string
	Name          string
	Description   string
	Tags          []string
	InputModes    []string
	OutputModes   []string
	RequiredTools []string
	Proficiency   float64
	MaxConcurrent int
}

// New creates a descriptor with proficiency defaulted to 1.0, mirroring
// the Rust constructor's default.
func New(id, name, description string) Descriptor {
	return Descriptor{
		ID:          id,
		Name:        name,
		Description: description,
		Proficiency: 1.0,
	}
}

// WithTags returns a copy of d with Tags set. Builder-style, chainable.
func (d Descriptor) WithTags(tags []string) Descriptor {
	d.Tags = tags
	return d
}

// WithTools returns a copy of d with RequiredTools set.
func (d Descriptor) WithTools(tools []string) Descriptor {
	d.RequiredTools = tools
	return d
}

// WithProficiency returns a copy of d with Proficiency set.
func (d Descriptor) WithProficiency(p float64) Descriptor {
	d.Proficiency = p
	return d
}

// MatchScore scores how well this skill matches a free-text task
// description. Case-insensitive on both sides. Weights: a name
// substring hit is worth 2.0, each tag substring hit is worth 1.0, and
// description-word overlap contributes up to 2.0 (overlap count over
// description token count). The overlap count walks every task word,
// including repeats, counting each one found in the description's word
// set — a task that repeats a description word several times scores
// more overlap than one that mentions it once, matching the source's
// token-count-not-set semantics. The sum is multiplied by Proficiency
// so a low-proficiency skill never dominates a high-proficiency one.
func (d Descriptor) MatchScore(taskDesc string) float64 {
	lowerTask := strings.ToLower(taskDesc)
	lowerName := strings.ToLower(d.Name)

	var score float64

	if lowerName != "" && strings.Contains(lowerTask, lowerName) {
		score += 2.0
	}

	for _, tag := range d.Tags {
		if tag == "" {
			continue
		}
		if strings.Contains(lowerTask, strings.ToLower(tag)) {
			score += 1.0
		}
	}

	descWords := strings.Fields(strings.ToLower(d.Description))
	if len(descWords) > 0 {
		descSet := make(map[string]struct{}, len(descWords))
		for _, w := range descWords {
			descSet[w] = struct{}{}
		}
		var overlap int
		for _, w := range strings.Fields(lowerTask) {
			if _, ok := descSet[w]; ok {
				overlap++
			}
		}
		score += (float64(overlap) / float64(len(descWords))) * 2.0
	}

	return score * d.Proficiency
}

// Clamp restricts Proficiency to [min, max].
func (d Descriptor) Clamp(min, max float64) Descriptor {
	d.Proficiency = math.Max(min, math.Min(max, d.Proficiency))
	return d
}
