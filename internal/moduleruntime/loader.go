package moduleruntime

import (
	"os"

	"github.com/adaworld/orchestra/internal/capabilities"
	"github.com/adaworld/orchestra/internal/savants"
	"gopkg.in/yaml.v3"
)

// ModuleInstance is a ModuleDef resolved into the concrete pieces
// ModuleRuntime.Activate wires together: a spawnable blueprint, the
// capabilities to bind, and an optional cognitive gate.
type ModuleInstance struct {
	Def          ModuleDef
	Blueprint    savants.Blueprint
	Capabilities []capabilities.Capability
	Gate         *CognitiveGate
}

// ModuleLoader reads module YAML files and resolves them into
// ModuleInstances.
type ModuleLoader struct{}

// NewLoader creates a ModuleLoader.
func NewLoader() *ModuleLoader {
	return &ModuleLoader{}
}

// LoadFile reads and resolves the module definition at path.
func (l *ModuleLoader) LoadFile(path string) (ModuleInstance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ModuleInstance{}, wrapErr(ErrIO, "reading module file "+path, err)
	}
	return l.LoadBytes(data)
}

// LoadBytes resolves a module definition from raw YAML, without
// touching the filesystem.
func (l *ModuleLoader) LoadBytes(data []byte) (ModuleInstance, error) {
	var wrapper moduleWrapper
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return ModuleInstance{}, wrapErr(ErrYAML, "parsing module definition", err)
	}
	def := wrapper.Module
	if err := validate(def); err != nil {
		return ModuleInstance{}, err
	}

	bp := savants.NewBlueprint(def.Agent.Role, def.Agent.Goal, def.Agent.Backstory, def.Agent.LLM, def.Domain())
	for _, s := range def.Skills {
		bp = bp.WithSkill(s)
	}

	caps := make([]capabilities.Capability, len(def.Interfaces))
	for i, iface := range def.Interfaces {
		caps[i] = iface.toCapability(def.ID)
	}

	var gate *CognitiveGate
	if def.Gate != nil && def.Gate.Enabled {
		gate = newCognitiveGate(*def.Gate)
	}

	return ModuleInstance{Def: def, Blueprint: bp, Capabilities: caps, Gate: gate}, nil
}

func validate(def ModuleDef) error {
	if def.ID == "" {
		return newErr(ErrValidation, "module id is required")
	}
	if def.Agent.Role == "" {
		return newErr(ErrValidation, "module "+def.ID+": agent.role is required")
	}
	for _, iface := range def.Interfaces {
		if iface.ID == "" {
			return newErr(ErrInterface, "module "+def.ID+": interface entry missing id")
		}
		if iface.Interface.Protocol == "" {
			return newErr(ErrInterface, "module "+def.ID+": interface "+iface.ID+" missing protocol")
		}
	}
	return nil
}
