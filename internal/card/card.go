// Package card builds and updates A2A agent cards — the outward-facing
// JSON description of an agent's skills and capabilities — from agent
// blueprints and live spawned-agent state.
package card

import (
	"fmt"

	"github.com/adaworld/orchestra/internal/skill"
)

// Capabilities describes the A2A protocol capability flags.
type Capabilities struct {
	Streaming         bool `json:"streaming"`
	PushNotifications bool `json:"push_notifications"`
	MultiTurn         bool `json:"multi_turn"`
}

// Provider identifies the organization that publishes an agent card.
type Provider struct {
	Organization string  `json:"organization"`
	URL          *string `json:"url,omitempty"`
}

// Skill is the A2A protocol projection of an internal skill.Descriptor.
type Skill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	InputModes  []string `json:"input_modes"`
	OutputModes []string `json:"output_modes"`
	Tags        []string `json:"tags"`
}

// Card is the JSON object an agent publishes to advertise itself over
// A2A. Card URL format is always "{baseURL}/agents/{agentID}".
type Card struct {
	Name               string   `json:"name"`
	Description        *string  `json:"description,omitempty"`
	URL                string   `json:"url"`
	Version            *string  `json:"version,omitempty"`
	Capabilities       Capabilities `json:"capabilities"`
	Skills             []Skill  `json:"skills"`
	Provider           *Provider `json:"provider,omitempty"`
	DefaultInputModes  []string `json:"default_input_modes"`
	DefaultOutputModes []string `json:"default_output_modes"`
	SecuritySchemes    []any    `json:"security_schemes"`
	Extensions         []any    `json:"extensions"`
}

func defaultModes() []string {
	return []string{"text/plain", "application/json"}
}

func toA2ASkill(s skill.Descriptor) Skill {
	desc := s.Description
	return Skill{
		ID:          s.ID,
		Name:        s.Name,
		Description: &desc,
		InputModes:  s.InputModes,
		OutputModes: s.OutputModes,
		Tags:        s.Tags,
	}
}

// BlueprintInfo is the subset of a blueprint's fields the card builder
// needs, decoupling this package from internal/savants and avoiding an
// import cycle (pool imports both card and savants).
type BlueprintInfo struct {
	ID              string
	Role            string
	Goal            string
	Domain          string
	LLM             string
	AllowDelegation bool
	Skills          []skill.Descriptor
}

// BuildFromBlueprint builds an A2A card describing a not-yet-spawned
// blueprint.
func BuildFromBlueprint(bp BlueprintInfo, baseURL string) Card {
	skills := make([]Skill, 0, len(bp.Skills))
	for _, s := range bp.Skills {
		skills = append(skills, toA2ASkill(s))
	}

	desc := fmt.Sprintf("%s. Domain: %s. LLM: %s.", bp.Goal, bp.Domain, bp.LLM)
	ver := "1.0.0"

	return Card{
		Name:        bp.Role,
		Description: &desc,
		URL:         fmt.Sprintf("%s/agents/%s", baseURL, bp.ID),
		Version:     &ver,
		Capabilities: Capabilities{
			MultiTurn: bp.AllowDelegation,
		},
		Skills: skills,
		Provider: &Provider{
			Organization: "Orchestra Meta-Agent System",
			URL:          &baseURL,
		},
		DefaultInputModes:  defaultModes(),
		DefaultOutputModes: defaultModes(),
	}
}

// StateInfo is the subset of a live agent's state the card builder
// needs.
type StateInfo struct {
	ID               string
	Domain           string
	PerformanceScore float64
	TasksCompleted   int
	Skills           []skill.Descriptor
}

func stateDescription(s StateInfo) string {
	return fmt.Sprintf("Agent in %s domain. Performance: %.0f%%. Tasks completed: %d.",
		s.Domain, s.PerformanceScore*100.0, s.TasksCompleted)
}

// BuildFromState builds an A2A card reflecting a live agent's current
// (possibly runtime-adjusted) skill set, rather than its origin
// blueprint's skills.
func BuildFromState(s StateInfo, baseURL string) Card {
	skills := make([]Skill, 0, len(s.Skills))
	for _, sk := range s.Skills {
		skills = append(skills, toA2ASkill(sk))
	}

	desc := stateDescription(s)

	return Card{
		Name:        s.ID,
		Description: &desc,
		URL:         fmt.Sprintf("%s/agents/%s", baseURL, s.ID),
		Version:     strPtr("1.0.0"),
		Capabilities: Capabilities{
			MultiTurn: true,
		},
		Skills: skills,
		Provider: &Provider{
			Organization: "Orchestra Meta-Agent Pool",
			URL:          &baseURL,
		},
		DefaultInputModes:  defaultModes(),
		DefaultOutputModes: defaultModes(),
	}
}

// UpdateSkills regenerates c's skill list and description from s.
// Called after every state mutation so the card stays authoritative:
// the card's skill list must always equal the state's skill list.
func UpdateSkills(c *Card, s StateInfo) {
	skills := make([]Skill, 0, len(s.Skills))
	for _, sk := range s.Skills {
		skills = append(skills, toA2ASkill(sk))
	}
	c.Skills = skills
	desc := stateDescription(s)
	c.Description = &desc
}

func strPtr(s string) *string { return &s }
