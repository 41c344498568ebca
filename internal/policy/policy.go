// Package policy implements the policy engine that gates every tool
// call, A2A message, and memory/blackboard operation an agent
// attempts: a prioritized set of allow/deny rules evaluated
// deny-first, with an audit trail and a Cedar-ish text export.
package policy

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Effect is the outcome a matching rule applies.
type Effect int

const (
	Allow Effect = iota
	Deny
)

// String renders e as the lowercase label used in telemetry and audit
// output.
func (e Effect) String() string {
	if e == Deny {
		return "deny"
	}
	return "allow"
}

// PrincipalKind discriminates Principal's variant.
type PrincipalKind int

const (
	PrincipalAll PrincipalKind = iota
	PrincipalAgent
	PrincipalRole
	PrincipalAgentID
	PrincipalGroup
)

// Principal identifies who a rule applies to. Exactly the fields
// relevant to Kind are populated.
type Principal struct {
	Kind    PrincipalKind
	Agent   uint8
	Role    string
	AgentID string
	Group   []uint8
}

func AnyPrincipal() Principal                { return Principal{Kind: PrincipalAll} }
func AgentPrincipal(n uint8) Principal       { return Principal{Kind: PrincipalAgent, Agent: n} }
func RolePrincipal(role string) Principal    { return Principal{Kind: PrincipalRole, Role: role} }
func AgentIDPrincipal(id string) Principal   { return Principal{Kind: PrincipalAgentID, AgentID: id} }
func GroupPrincipal(ids []uint8) Principal   { return Principal{Kind: PrincipalGroup, Group: ids} }

// principalMatches checks whether subject (an agent number, role, and
// agent ID, as applicable) satisfies p.
func principalMatches(p Principal, agentNum *uint8, role, agentID string) bool {
	switch p.Kind {
	case PrincipalAll:
		return true
	case PrincipalAgent:
		return agentNum != nil && *agentNum == p.Agent
	case PrincipalRole:
		return role == p.Role
	case PrincipalAgentID:
		return agentID == p.AgentID
	case PrincipalGroup:
		if agentNum == nil {
			return false
		}
		for _, n := range p.Group {
			if n == *agentNum {
				return true
			}
		}
		return false
	}
	return false
}

// ActionKind discriminates Action's variant.
type ActionKind int

const (
	ActionToolCall ActionKind = iota
	ActionAnyToolCall
	ActionA2AMessage
	ActionMemoryWrite
	ActionMemoryRead
	ActionBlackboardCommit
	ActionHandover
	ActionCAMOp
	ActionAny
	ActionCustom
)

// Action identifies the kind of operation a rule governs.
type Action struct {
	Kind   ActionKind
	Tool   string // ToolCall, Custom
	A2A    string // A2AMessage
	CAMOp  uint16 // CAMOp
}

func ToolCallAction(tool string) Action { return Action{Kind: ActionToolCall, Tool: tool} }
func AnyToolCallAction() Action         { return Action{Kind: ActionAnyToolCall} }
func A2AMessageAction(kind string) Action { return Action{Kind: ActionA2AMessage, A2A: kind} }
func MemoryWriteAction() Action         { return Action{Kind: ActionMemoryWrite} }
func MemoryReadAction() Action          { return Action{Kind: ActionMemoryRead} }
func BlackboardCommitAction() Action    { return Action{Kind: ActionBlackboardCommit} }
func HandoverAction() Action            { return Action{Kind: ActionHandover} }
func CAMOpAction(op uint16) Action      { return Action{Kind: ActionCAMOp, CAMOp: op} }
func AnyAction() Action                 { return Action{Kind: ActionAny} }
func CustomAction(name string) Action   { return Action{Kind: ActionCustom, Tool: name} }

// actionMatches reports whether requested matches rule, the rule
// action from a PolicyRule being tested against an attempted action.
func actionMatches(rule, requested Action) bool {
	if rule.Kind == ActionAny {
		return true
	}
	if rule.Kind == ActionAnyToolCall && requested.Kind == ActionToolCall {
		return true
	}
	if rule.Kind != requested.Kind {
		return false
	}
	switch rule.Kind {
	case ActionToolCall:
		a, b := rule.Tool, requested.Tool
		return a == b || a == "*" || patternMatches(a, b)
	case ActionA2AMessage:
		return rule.A2A == requested.A2A
	case ActionCAMOp:
		return rule.CAMOp == requested.CAMOp
	case ActionCustom:
		return rule.Tool == requested.Tool
	default:
		return true
	}
}

// ResourceKind discriminates Resource's variant.
type ResourceKind int

const (
	ResourceAny ResourceKind = iota
	ResourceTool
	ResourceCapability
	ResourceCollection
	ResourceZone
	ResourcePrefix
	ResourcePattern
	ResourceCustom
)

// Resource identifies what a rule's action targets.
type Resource struct {
	Kind  ResourceKind
	Name  string // Tool, Capability, Collection, Zone, Pattern, Custom
	Prefix uint8 // Prefix
}

func AnyResource() Resource                 { return Resource{Kind: ResourceAny} }
func ToolResource(name string) Resource     { return Resource{Kind: ResourceTool, Name: name} }
func CapabilityResource(name string) Resource { return Resource{Kind: ResourceCapability, Name: name} }
func CollectionResource(name string) Resource { return Resource{Kind: ResourceCollection, Name: name} }
func ZoneResource(name string) Resource     { return Resource{Kind: ResourceZone, Name: name} }
func PrefixResource(p uint8) Resource       { return Resource{Kind: ResourcePrefix, Prefix: p} }
func PatternResource(pattern string) Resource { return Resource{Kind: ResourcePattern, Name: pattern} }
func CustomResource(name string) Resource   { return Resource{Kind: ResourceCustom, Name: name} }

// resourceMatches reports whether rule's resource covers the resource
// being accessed, described by kind/name/prefix of the requested access.
func resourceMatches(rule Resource, requested Resource) bool {
	if rule.Kind == ResourceAny {
		return true
	}
	if rule.Kind == ResourcePattern {
		if requested.Kind == ResourceTool || requested.Kind == ResourceCapability {
			return patternMatches(rule.Name, requested.Name)
		}
		return false
	}
	if rule.Kind != requested.Kind {
		return false
	}
	switch rule.Kind {
	case ResourcePrefix:
		return rule.Prefix == requested.Prefix
	default:
		return rule.Name == requested.Name
	}
}

// ConditionOperator is the comparison a Condition applies between its
// key's runtime value and its configured value.
type ConditionOperator int

const (
	OpEquals ConditionOperator = iota
	OpNotEquals
	OpGreaterThan
	OpLessThan
	OpGreaterThanOrEqual
	OpLessThanOrEqual
	OpContains
	OpNotContains
	OpMatches
	OpStartsWith
	OpEndsWith
	OpIn
	OpNotIn
)

// Condition is one extra predicate a rule requires, evaluated against
// a context map supplied at Evaluate time.
type Condition struct {
	Key      string
	Operator ConditionOperator
	Value    any
}

// conditionMatches evaluates c against ctx, the request's condition
// context. A missing key or comparison type mismatch fails the
// condition rather than panicking or erroring.
func conditionMatches(c Condition, ctx map[string]any) bool {
	actual, ok := ctx[c.Key]
	if !ok {
		return false
	}
	switch c.Operator {
	case OpEquals:
		return compareEqual(actual, c.Value)
	case OpNotEquals:
		return !compareEqual(actual, c.Value)
	case OpGreaterThan:
		cmp, ok := compareValues(actual, c.Value)
		return ok && cmp > 0
	case OpLessThan:
		cmp, ok := compareValues(actual, c.Value)
		return ok && cmp < 0
	case OpGreaterThanOrEqual:
		cmp, ok := compareValues(actual, c.Value)
		return ok && cmp >= 0
	case OpLessThanOrEqual:
		cmp, ok := compareValues(actual, c.Value)
		return ok && cmp <= 0
	case OpContains:
		return containsMatch(actual, c.Value)
	case OpNotContains:
		return !containsMatch(actual, c.Value)
	case OpMatches:
		re, err := regexp.Compile(toString(c.Value))
		if err != nil {
			return false
		}
		return re.MatchString(toString(actual))
	case OpStartsWith:
		return strings.HasPrefix(toString(actual), toString(c.Value))
	case OpEndsWith:
		return strings.HasSuffix(toString(actual), toString(c.Value))
	case OpIn:
		list, ok := c.Value.([]any)
		if !ok {
			return false
		}
		for _, v := range list {
			if compareEqual(actual, v) {
				return true
			}
		}
		return false
	case OpNotIn:
		list, ok := c.Value.([]any)
		if !ok {
			return true
		}
		for _, v := range list {
			if compareEqual(actual, v) {
				return false
			}
		}
		return true
	}
	return false
}

// containsMatch implements Contains/NotContains: a string actual is
// checked by substring against a string value; an array actual
// ([]any, as decoded from JSON) is checked for exact element
// membership rather than stringified substring match. Anything else
// fails the condition.
func containsMatch(actual, value any) bool {
	if haystack, ok := actual.(string); ok {
		needle, ok := value.(string)
		return ok && strings.Contains(haystack, needle)
	}
	if arr, ok := actual.([]any); ok {
		for _, v := range arr {
			if reflect.DeepEqual(v, value) {
				return true
			}
		}
		return false
	}
	return false
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

func compareEqual(a, b any) bool {
	return toString(a) == toString(b)
}

// compareValues compares two JSON-ish values numerically if both
// parse as numbers, else lexicographically by string form.
func compareValues(a, b any) (int, bool) {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	return strings.Compare(toString(a), toString(b)), true
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// EnforcementMode controls what happens to a Deny verdict.
type EnforcementMode int

const (
	Strict EnforcementMode = iota
	AuditOnly
	Escalate
)

// Rule is one prioritized policy statement: if principal, action,
// resource, and every condition match, effect applies.
type Rule struct {
	Name        string
	Description string
	Effect      Effect
	Principal   Principal
	Action      Action
	Resource    Resource
	Conditions  []Condition
	Priority    int // lower runs first; default 100
}

// NewRule builds a Rule with Priority defaulted to 100.
func NewRule(name string, effect Effect, principal Principal, action Action, resource Resource) Rule {
	return Rule{Name: name, Effect: effect, Principal: principal, Action: action, Resource: resource, Priority: 100}
}

// Subject describes the caller attempting an action, for principal
// matching.
type Subject struct {
	AgentNum *uint8
	Role     string
	AgentID  string
}

func ruleMatches(r Rule, subject Subject, action Action, resource Resource, ctx map[string]any) bool {
	if !principalMatches(r.Principal, subject.AgentNum, subject.Role, subject.AgentID) {
		return false
	}
	if !actionMatches(r.Action, action) {
		return false
	}
	if !resourceMatches(r.Resource, resource) {
		return false
	}
	for _, c := range r.Conditions {
		if !conditionMatches(c, ctx) {
			return false
		}
	}
	return true
}

// AuditEntry records one evaluated decision.
type AuditEntry struct {
	Subject  Subject
	Action   Action
	Resource Resource
	Decision Effect
	RuleName string
}

// DecisionRecorder receives policy decision telemetry: one call per
// Evaluate, naming the effect applied and the rule that produced it
// ("" for the no-match default-allow case).
type DecisionRecorder interface {
	IncrementPolicyDecisions(effect, ruleName string)
}

// Engine evaluates rules against attempted actions, deny-first then
// allow, defaulting to Allow when nothing matches — permissive by
// design; callers wanting strict-by-default should register a
// trailing catch-all Deny rule.
type Engine struct {
	rules           []Rule
	enforcement     EnforcementMode
	auditLog        []AuditEntry
	maxAuditEntries int
	recorder        DecisionRecorder
}

// NewEngine creates an engine in Strict enforcement mode with a
// 10000-entry bounded audit ring.
func NewEngine() *Engine {
	return &Engine{enforcement: Strict, maxAuditEntries: 10000}
}

// SetEnforcement changes the engine's enforcement mode.
func (e *Engine) SetEnforcement(mode EnforcementMode) { e.enforcement = mode }

// SetDecisionRecorder wires r into the engine; every subsequent
// Evaluate reports its verdict through it.
func (e *Engine) SetDecisionRecorder(r DecisionRecorder) { e.recorder = r }

// AddRule registers a rule.
func (e *Engine) AddRule(r Rule) { e.rules = append(e.rules, r) }

// Evaluate decides whether subject may perform action on resource,
// given ctx as the condition-evaluation context. Deny rules are
// scanned first in priority order, then Allow rules; the first
// matching rule in each pass wins. No match defaults to Allow.
func (e *Engine) Evaluate(subject Subject, action Action, resource Resource, ctx map[string]any) (Effect, string) {
	denyRules := e.sortedByPriority(Deny)
	for _, r := range denyRules {
		if ruleMatches(r, subject, action, resource, ctx) {
			e.audit(subject, action, resource, Deny, r.Name)
			e.record(Deny, r.Name)
			return Deny, r.Name
		}
	}
	allowRules := e.sortedByPriority(Allow)
	for _, r := range allowRules {
		if ruleMatches(r, subject, action, resource, ctx) {
			e.audit(subject, action, resource, Allow, r.Name)
			e.record(Allow, r.Name)
			return Allow, r.Name
		}
	}
	e.audit(subject, action, resource, Allow, "")
	e.record(Allow, "")
	return Allow, ""
}

func (e *Engine) record(effect Effect, ruleName string) {
	if e.recorder != nil {
		e.recorder.IncrementPolicyDecisions(effect.String(), ruleName)
	}
}

func (e *Engine) sortedByPriority(effect Effect) []Rule {
	var out []Rule
	for _, r := range e.rules {
		if r.Effect == effect {
			out = append(out, r)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Priority < out[j-1].Priority; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func (e *Engine) audit(subject Subject, action Action, resource Resource, decision Effect, ruleName string) {
	if len(e.auditLog) >= e.maxAuditEntries {
		e.auditLog = e.auditLog[1:]
	}
	e.auditLog = append(e.auditLog, AuditEntry{subject, action, resource, decision, ruleName})
}

// AuditLog returns the current bounded audit trail.
func (e *Engine) AuditLog() []AuditEntry { return e.auditLog }

// patternMatches implements the glob used for pinned, testable rule
// matching: '*' alone matches everything; a pattern without '*'
// requires exact equality; otherwise each '*'-delimited, non-empty
// segment must be found in order within text, with the first segment
// anchored at position 0 unless the pattern begins with '*', and the
// final position required to reach the end of text unless the
// pattern ends with '*'.
func patternMatches(pattern, text string) bool {
	if pattern == "*" {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return pattern == text
	}

	segments := strings.Split(pattern, "*")
	pos := 0
	startsWithStar := strings.HasPrefix(pattern, "*")
	endsWithStar := strings.HasSuffix(pattern, "*")

	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if i == 0 && !startsWithStar {
			if !strings.HasPrefix(text[pos:], seg) {
				return false
			}
			pos += len(seg)
			continue
		}
		idx := strings.Index(text[pos:], seg)
		if idx < 0 {
			return false
		}
		pos += idx + len(seg)
	}

	if !endsWithStar && pos != len(text) {
		return false
	}
	return true
}
