package policy

import (
	"fmt"
	"strings"

	"github.com/adaworld/orchestra/internal/capabilities"
)

// LoadCapabilityPolicy expands a capability's declarative Policy block
// into concrete rules and registers them on the engine:
//
//   - an RBAC-style Allow rule for every required role,
//   - an Allow rule at priority 50 if max_rpm is set (actual rate
//     limiting is enforced by the gateway; this rule only documents
//     the grant for audit/export purposes),
//   - a Deny at priority 10 for each approval-gated operation, unless
//     the caller's context carries human_approved=true,
//   - a Deny at priority 20 when the caller's nars_confidence context
//     value falls below min_confidence,
//   - a Deny at priority 5 for each deny_pattern, matched against the
//     caller's args_string context value.
func (e *Engine) LoadCapabilityPolicy(capID string, cap capabilities.Policy) {
	for _, role := range cap.RequiresRoles {
		e.AddRule(NewRule(
			fmt.Sprintf("%s::role::%s", capID, role),
			Allow,
			RolePrincipal(role),
			AnyToolCallAction(),
			CapabilityResource(capID),
		))
	}

	if cap.MaxRPM != nil {
		r := NewRule(
			fmt.Sprintf("%s::rate_limit", capID),
			Allow,
			AnyPrincipal(),
			AnyToolCallAction(),
			CapabilityResource(capID),
		)
		r.Priority = 50
		e.AddRule(r)
	}

	for _, op := range cap.RequiresApprovalFor {
		r := Rule{
			Name:      fmt.Sprintf("%s::approval::%s", capID, op),
			Effect:    Deny,
			Principal: AnyPrincipal(),
			Action:    ToolCallAction(fmt.Sprintf("%s::*%s*", capID, op)),
			Resource:  AnyResource(),
			Conditions: []Condition{
				{Key: "human_approved", Operator: OpNotEquals, Value: true},
			},
			Priority: 10,
		}
		e.AddRule(r)
	}

	if cap.MinConfidence != nil {
		r := Rule{
			Name:      fmt.Sprintf("%s::min_confidence", capID),
			Effect:    Deny,
			Principal: AnyPrincipal(),
			Action:    AnyToolCallAction(),
			Resource:  CapabilityResource(capID),
			Conditions: []Condition{
				{Key: "nars_confidence", Operator: OpLessThan, Value: *cap.MinConfidence},
			},
			Priority: 20,
		}
		e.AddRule(r)
	}

	for i, pattern := range cap.DenyPatterns {
		r := Rule{
			Name:      fmt.Sprintf("%s::deny_pattern::%d", capID, i),
			Effect:    Deny,
			Principal: AnyPrincipal(),
			Action:    AnyToolCallAction(),
			Resource:  CapabilityResource(capID),
			Conditions: []Condition{
				{Key: "args_string", Operator: OpMatches, Value: pattern},
			},
			Priority: 5,
		}
		e.AddRule(r)
	}
}

// ExportCedar renders the engine's rules as Cedar-like policy text,
// for human review and export to external authorization tooling. The
// output is descriptive, not parsed back by this package.
func (e *Engine) ExportCedar() string {
	var b strings.Builder
	for _, r := range e.rules {
		effect := "permit"
		if r.Effect == Deny {
			effect = "forbid"
		}
		fmt.Fprintf(&b, "// %s: %s\n%s(\n  principal %s,\n  action %s,\n  resource %s\n)",
			r.Name, r.Description, effect, principalCedar(r.Principal), actionCedar(r.Action), resourceCedar(r.Resource))
		if len(r.Conditions) > 0 {
			b.WriteString(" when {\n")
			for _, c := range r.Conditions {
				fmt.Fprintf(&b, "  %s %s %v,\n", c.Key, operatorCedar(c.Operator), c.Value)
			}
			b.WriteString("}")
		}
		b.WriteString(";\n\n")
	}
	return b.String()
}

func principalCedar(p Principal) string {
	switch p.Kind {
	case PrincipalAll:
		return "== *"
	case PrincipalAgent:
		return fmt.Sprintf("== Agent::\"%d\"", p.Agent)
	case PrincipalRole:
		return fmt.Sprintf("in Role::\"%s\"", p.Role)
	case PrincipalAgentID:
		return fmt.Sprintf("== Agent::\"%s\"", p.AgentID)
	case PrincipalGroup:
		return fmt.Sprintf("in Group::%v", p.Group)
	}
	return "== *"
}

func actionCedar(a Action) string {
	switch a.Kind {
	case ActionAny:
		return "== *"
	case ActionAnyToolCall:
		return "== Action::\"ToolCall::*\""
	case ActionToolCall:
		return fmt.Sprintf("== Action::\"ToolCall::%s\"", a.Tool)
	case ActionA2AMessage:
		return fmt.Sprintf("== Action::\"A2aMessage::%s\"", a.A2A)
	case ActionMemoryWrite:
		return "== Action::\"MemoryWrite\""
	case ActionMemoryRead:
		return "== Action::\"MemoryRead\""
	case ActionBlackboardCommit:
		return "== Action::\"BlackboardCommit\""
	case ActionHandover:
		return "== Action::\"Handover\""
	case ActionCAMOp:
		return fmt.Sprintf("== Action::\"CamOp::%d\"", a.CAMOp)
	case ActionCustom:
		return fmt.Sprintf("== Action::\"Custom::%s\"", a.Tool)
	}
	return "== *"
}

func resourceCedar(r Resource) string {
	switch r.Kind {
	case ResourceAny:
		return "== *"
	case ResourceTool:
		return fmt.Sprintf("== Tool::\"%s\"", r.Name)
	case ResourceCapability:
		return fmt.Sprintf("== Capability::\"%s\"", r.Name)
	case ResourceCollection:
		return fmt.Sprintf("== Collection::\"%s\"", r.Name)
	case ResourceZone:
		return fmt.Sprintf("== Zone::\"%s\"", r.Name)
	case ResourcePrefix:
		return fmt.Sprintf("== Prefix::\"%d\"", r.Prefix)
	case ResourcePattern:
		return fmt.Sprintf("like \"%s\"", r.Name)
	case ResourceCustom:
		return fmt.Sprintf("== Custom::\"%s\"", r.Name)
	}
	return "== *"
}

func operatorCedar(op ConditionOperator) string {
	switch op {
	case OpEquals:
		return "=="
	case OpNotEquals:
		return "!="
	case OpGreaterThan:
		return ">"
	case OpLessThan:
		return "<"
	case OpGreaterThanOrEqual:
		return ">="
	case OpLessThanOrEqual:
		return "<="
	case OpContains:
		return "contains"
	case OpNotContains:
		return "!contains"
	case OpMatches:
		return "matches"
	case OpStartsWith:
		return "startsWith"
	case OpEndsWith:
		return "endsWith"
	case OpIn:
		return "in"
	case OpNotIn:
		return "!in"
	}
	return "=="
}
