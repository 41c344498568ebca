package moduleruntime

import (
	"github.com/adaworld/orchestra/internal/capabilities"
	"github.com/adaworld/orchestra/internal/savants"
	"github.com/adaworld/orchestra/internal/skill"
)

// AgentConfig is the YAML-level description of the agent a module
// spawns when activated.
type AgentConfig struct {
	Role      string `yaml:"role"`
	Goal      string `yaml:"goal"`
	Backstory string `yaml:"backstory"`
	LLM       string `yaml:"llm"`
}

// InterfaceDef is a module-scoped capability: an interface protocol
// binding plus the tools and policy it exposes once bound. It mirrors
// capabilities.Capability but without a global registry ID namespace,
// since a module's interfaces only need to be unique within it.
type InterfaceDef struct {
	ID          string                 `yaml:"id"`
	Description string                 `yaml:"description,omitempty"`
	Interface   capabilities.Interface `yaml:"interface"`
	Tools       []capabilities.Tool    `yaml:"tools,omitempty"`
	Policy      capabilities.Policy    `yaml:"policy,omitempty"`
}

// toCapability resolves an InterfaceDef into a capabilities.Capability
// namespaced under the owning module's ID, so the gateway can bind it
// like any registry-resolved capability.
func (d InterfaceDef) toCapability(moduleID string) capabilities.Capability {
	return capabilities.Capability{
		ID:          moduleID + ":" + d.ID,
		Description: d.Description,
		Interface:   d.Interface,
		Tools:       d.Tools,
		Policy:      d.Policy,
	}
}

// PolicyDef maps roles to the capability IDs they're granted, applied
// to the module's spawned agent on Activate.
type PolicyDef struct {
	Roles []string            `yaml:"roles,omitempty"`
	Rbac  map[string][]string `yaml:"rbac,omitempty"`
}

// GateDef configures the module's optional cognitive gate: a
// pre-tool-call hook that can deny or require escalation for named
// tools before the gateway ever invokes them.
type GateDef struct {
	Enabled              bool     `yaml:"enabled"`
	DenyTools            []string `yaml:"deny_tools,omitempty"`
	RequireApprovalTools []string `yaml:"require_approval_tools,omitempty"`
}

// ModuleDef is the YAML document describing one installable module:
// its agent, the interfaces it binds, the policy it carries, and an
// optional cognitive gate.
type ModuleDef struct {
	ID            string             `yaml:"id"`
	Version       string             `yaml:"version"`
	Description   string             `yaml:"description"`
	DomainName    string             `yaml:"domain"`
	ThinkingStyle []float64          `yaml:"thinking_style,omitempty"`
	Agent         AgentConfig        `yaml:"agent"`
	Skills        []skill.Descriptor `yaml:"skills,omitempty"`
	Interfaces    []InterfaceDef     `yaml:"interfaces,omitempty"`
	Policy        PolicyDef          `yaml:"policy,omitempty"`
	Gate          *GateDef           `yaml:"gate,omitempty"`
}

// Domain resolves the module's YAML domain name to the canonical
// savants.Domain, falling back to General for an unrecognized or
// empty name.
func (d ModuleDef) Domain() savants.Domain {
	return domainFromString(d.DomainName)
}

func domainFromString(s string) savants.Domain {
	for d := savants.Research_; d <= savants.General; d++ {
		if d.String() == s {
			return d
		}
	}
	return savants.General
}

// moduleWrapper mirrors the YAML shape where a module definition is
// nested under a top-level "module:" key.
type moduleWrapper struct {
	Module ModuleDef `yaml:"module"`
}
