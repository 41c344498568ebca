package savants

import "github.com/adaworld/orchestra/internal/skill"

// Blueprint is an immutable template describing how to spawn an agent.
// Blueprints are owned exclusively by the agent pool; spawned agents
// reference their origin blueprint by ID only.
type Blueprint struct {
	ID              string
	Role            string
	Goal            string
	Backstory       string
	LLM             string
	Domain          Domain
	Skills          []skill.Descriptor
	Tools           []string
	MaxIter         int
	AllowDelegation bool
	Config          map[string]any
}

// NewBlueprint creates a blueprint with MaxIter defaulted to 25, matching
// the Rust AgentBlueprint::new default.
func NewBlueprint(role, goal, backstory, llm string, domain Domain) Blueprint {
	return Blueprint{
		ID:        role,
		Role:      role,
		Goal:      goal,
		Backstory: backstory,
		LLM:       llm,
		Domain:    domain,
		MaxIter:   25,
	}
}

// WithSkill appends a skill and returns the updated blueprint.
func (b Blueprint) WithSkill(s skill.Descriptor) Blueprint {
	b.Skills = append(b.Skills, s)
	return b
}

// WithTools sets the blueprint's tool list.
func (b Blueprint) WithTools(tools []string) Blueprint {
	b.Tools = tools
	return b
}

// WithDelegation enables delegation for the blueprint's spawned agents.
func (b Blueprint) WithDelegation() Blueprint {
	b.AllowDelegation = true
	return b
}
