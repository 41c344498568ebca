package moduleruntime

import (
	"context"
	"strings"

	"github.com/adaworld/orchestra/internal/gateway"
	"github.com/adaworld/orchestra/internal/policy"
	"github.com/adaworld/orchestra/internal/policy/rbac"
	"github.com/adaworld/orchestra/internal/pool"
)

// GateDecision is the outcome of a cognitive gate's pre-tool-call
// evaluation.
type GateDecision int

const (
	GateAllow GateDecision = iota
	GateDeny
	GateEscalate
)

// PreToolCallHook evaluates a tool call an agent is about to make,
// before the gateway invokes it.
type PreToolCallHook func(agentID, tool string, args map[string]any, ctx map[string]any) GateDecision

// CognitiveGate denies or escalates named tools ahead of invocation,
// per a module's Gate configuration.
type CognitiveGate struct {
	denyTools     map[string]struct{}
	approvalTools map[string]struct{}
}

func newCognitiveGate(def GateDef) *CognitiveGate {
	g := &CognitiveGate{
		denyTools:     make(map[string]struct{}, len(def.DenyTools)),
		approvalTools: make(map[string]struct{}, len(def.RequireApprovalTools)),
	}
	for _, t := range def.DenyTools {
		g.denyTools[t] = struct{}{}
	}
	for _, t := range def.RequireApprovalTools {
		g.approvalTools[t] = struct{}{}
	}
	return g
}

// Evaluate decides whether tool may be called, matching by exact name
// or substring so a gate entry like "delete" can block every
// delete-prefixed or namespaced tool.
func (g *CognitiveGate) Evaluate(agentID, tool string, args map[string]any, ctx map[string]any) GateDecision {
	if matchesAny(g.denyTools, tool) {
		return GateDeny
	}
	if matchesAny(g.approvalTools, tool) {
		return GateEscalate
	}
	return GateAllow
}

func matchesAny(set map[string]struct{}, tool string) bool {
	if _, ok := set[tool]; ok {
		return true
	}
	for pattern := range set {
		if strings.Contains(tool, pattern) {
			return true
		}
	}
	return false
}

// activeModule tracks one activated module: the resolved instance and
// the agent it spawned. Its gate hook, if any, is held in
// ModuleRuntime.gates under that agent's ID.
type activeModule struct {
	instance ModuleInstance
	agentID  string
}

// ModuleRuntime activates and deactivates ModuleInstances, wiring each
// one's blueprint, capabilities, RBAC roles, and cognitive gate into
// the shared pool, policy engine, RBAC manager, and capability
// gateway.
type ModuleRuntime struct {
	Pool    *pool.Pool
	Policy  *policy.Engine
	RBAC    *rbac.Manager
	Gateway *gateway.Gateway

	active map[string]*activeModule
	gates  map[string]PreToolCallHook
}

// NewRuntime creates a ModuleRuntime wired to the given shared
// components.
func NewRuntime(p *pool.Pool, pol *policy.Engine, rbacMgr *rbac.Manager, gw *gateway.Gateway) *ModuleRuntime {
	return &ModuleRuntime{
		Pool:    p,
		Policy:  pol,
		RBAC:    rbacMgr,
		Gateway: gw,
		active:  make(map[string]*activeModule),
		gates:   make(map[string]PreToolCallHook),
	}
}

// Activate spawns instance's agent, binds its capabilities into the
// gateway and their policies into the policy engine, assigns its RBAC
// roles and capability grants, and installs its cognitive gate (if
// any) as a pre-tool-call hook. It returns the ID of the newly spawned
// agent.
func (r *ModuleRuntime) Activate(ctx context.Context, instance ModuleInstance) (string, error) {
	if _, ok := r.active[instance.Def.ID]; ok {
		return "", newErr(ErrAlreadyActive, "module "+instance.Def.ID+" is already active")
	}

	agentID := r.Pool.Spawn(instance.Blueprint)

	bound := make([]string, 0, len(instance.Capabilities))
	for _, cap := range instance.Capabilities {
		if err := r.Gateway.BindCapability(ctx, cap, nil); err != nil {
			for _, b := range bound {
				_ = r.Gateway.UnbindCapability(ctx, b)
			}
			r.Pool.Terminate(agentID, "activation failed: "+err.Error())
			return "", wrapErr(ErrRuntime, "binding capability "+cap.ID+" for module "+instance.Def.ID, err)
		}
		bound = append(bound, cap.ID)
		r.Policy.LoadCapabilityPolicy(cap.ID, cap.Policy)
	}

	for _, role := range instance.Def.Policy.Roles {
		r.RBAC.AssignRole(agentID, role)
	}
	for role, capIDs := range instance.Def.Policy.Rbac {
		r.RBAC.AssignRole(agentID, role)
		for _, capID := range capIDs {
			r.RBAC.GrantCapabilityToRole(role, capID)
		}
	}

	if instance.Gate != nil {
		r.gates[agentID] = instance.Gate.Evaluate
	}

	r.active[instance.Def.ID] = &activeModule{instance: instance, agentID: agentID}
	return agentID, nil
}

// Deactivate reverses Activate for the module identified by moduleID:
// it unbinds the module's capabilities, terminates its agent, revokes
// its RBAC roles, and drops its gate hook. The policy rules Activate
// loaded through LoadCapabilityPolicy and the role-to-capability
// grants it made stay registered on the policy engine and RBAC
// manager.
func (r *ModuleRuntime) Deactivate(ctx context.Context, moduleID string) error {
	am, ok := r.active[moduleID]
	if !ok {
		return newErr(ErrNotFound, "module "+moduleID+" is not active")
	}

	for _, cap := range am.instance.Capabilities {
		if err := r.Gateway.UnbindCapability(ctx, cap.ID); err != nil {
			return wrapErr(ErrRuntime, "unbinding capability "+cap.ID+" for module "+moduleID, err)
		}
	}

	r.Pool.Terminate(am.agentID, "module "+moduleID+" deactivated")

	for _, role := range am.instance.Def.Policy.Roles {
		r.RBAC.RevokeRole(am.agentID, role)
	}
	for role := range am.instance.Def.Policy.Rbac {
		r.RBAC.RevokeRole(am.agentID, role)
	}

	delete(r.gates, am.agentID)
	delete(r.active, moduleID)
	return nil
}

// Gate returns the installed pre-tool-call hook for agentID, if any.
func (r *ModuleRuntime) Gate(agentID string) (PreToolCallHook, bool) {
	hook, ok := r.gates[agentID]
	return hook, ok
}

// Active reports whether moduleID currently has an activated instance.
func (r *ModuleRuntime) Active(moduleID string) bool {
	_, ok := r.active[moduleID]
	return ok
}

// AgentFor returns the agent ID spawned for moduleID, if active.
func (r *ModuleRuntime) AgentFor(moduleID string) (string, bool) {
	am, ok := r.active[moduleID]
	if !ok {
		return "", false
	}
	return am.agentID, true
}
