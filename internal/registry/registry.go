// Package registry implements the type registry: a thread-safe store
// of DTO schemas used to wrap, validate, and check the cross-agent
// compatibility of every envelope flowing between agents and the
// orchestrator.
package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/adaworld/orchestra/internal/savants"
	"github.com/google/uuid"
)

// ContentType classifies an envelope's payload shape.
type ContentType int

const (
	ContentText ContentType = iota
	ContentJSON
	ContentBinary
	ContentTaskResult
	ContentCapability
	ContentDelegation
	ContentSkill
	ContentEvent
)

// String returns the MIME-ish string used in logs and wire metadata.
func (c ContentType) String() string {
	switch c {
	case ContentText:
		return "text/plain"
	case ContentJSON:
		return "application/json"
	case ContentBinary:
		return "application/octet-stream"
	case ContentTaskResult:
		return "application/x-task-result"
	case ContentCapability:
		return "application/x-capability"
	case ContentDelegation:
		return "application/x-delegation"
	case ContentSkill:
		return "application/x-skill"
	case ContentEvent:
		return "application/x-event"
	default:
		return "application/octet-stream"
	}
}

// SemVer is a schema's version, used for compatibility checks.
type SemVer struct {
	Major, Minor, Patch uint32
}

// IsCompatibleWith reports whether v and other share a major version.
func (v SemVer) IsCompatibleWith(other SemVer) bool {
	return v.Major == other.Major
}

// String renders v as "major.minor.patch".
func (v SemVer) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Schema is a registered DTO schema definition.
type Schema struct {
	Name           string
	Version        SemVer
	ContentType    ContentType
	Description    string
	RequiredFields []string
	OptionalFields []string
	Domain         *savants.Domain
	Example        any
}

// Envelope is the standard typed wrapper for data flowing between
// agents and the orchestrator.
type Envelope struct {
	ID           string
	SchemaName   string
	Version      SemVer
	ContentType  ContentType
	Payload      any
	SourceAgent  *string
	TargetAgent  *string
	SourceDomain *savants.Domain
	Timestamp    time.Time
	Metadata     map[string]any
}

// NewEnvelope creates an envelope for schemaName wrapping payload.
func NewEnvelope(schemaName string, contentType ContentType, payload any) Envelope {
	return Envelope{
		ID:          uuid.NewString(),
		SchemaName:  schemaName,
		Version:     SemVer{Major: 1, Minor: 0, Patch: 0},
		ContentType: contentType,
		Payload:     payload,
		Timestamp:   time.Now(),
		Metadata:    make(map[string]any),
	}
}

// FromAgent sets the envelope's source agent.
func (e Envelope) FromAgent(agentID string) Envelope {
	e.SourceAgent = &agentID
	return e
}

// ToAgent sets the envelope's target agent.
func (e Envelope) ToAgent(agentID string) Envelope {
	e.TargetAgent = &agentID
	return e
}

// WithDomain sets the envelope's source domain.
func (e Envelope) WithDomain(domain savants.Domain) Envelope {
	e.SourceDomain = &domain
	return e
}

// WithMetadata sets one metadata key on the envelope.
func (e Envelope) WithMetadata(key string, value any) Envelope {
	if e.Metadata == nil {
		e.Metadata = make(map[string]any)
	}
	e.Metadata[key] = value
	return e
}

// ValidationResult is the outcome of validating data against a schema.
type ValidationResult struct {
	Valid   bool
	Schema  string
	Errors  []string
	Warnings []string
}

// Registry is the central, thread-safe store of DTO schemas: it
// creates envelopes, validates payloads, and checks cross-schema
// compatibility, logging every envelope it creates for audit.
type Registry struct {
	mu                  sync.RWMutex
	schemas             map[string]Schema
	envelopeLog         []Envelope
	compatibilityCache  map[[2]string]bool
}

// New creates a registry pre-loaded with the built-in meta-agent
// schemas.
func New() *Registry {
	r := &Registry{
		schemas:            make(map[string]Schema),
		compatibilityCache: make(map[[2]string]bool),
	}
	r.registerBuiltinSchemas()
	return r
}

func (r *Registry) registerBuiltinSchemas() {
	builtins := []Schema{
		{
			Name:           "delegation_request",
			Version:        SemVer{1, 0, 0},
			ContentType:    ContentDelegation,
			Description:    "Request from one agent to delegate a sub-task to another",
			RequiredFields: []string{"id", "from_agent", "task_description", "priority"},
			OptionalFields: []string{"to_agent", "target_domain", "required_skills", "context", "max_turns", "metadata"},
		},
		{
			Name:           "delegation_response",
			Version:        SemVer{1, 0, 0},
			ContentType:    ContentDelegation,
			Description:    "Response from a delegate agent back to the orchestrator",
			RequiredFields: []string{"request_id", "from_agent", "success"},
			OptionalFields: []string{"result", "error", "skills_used", "iterations_used", "metadata"},
		},
		{
			Name:           "orchestrated_task",
			Version:        SemVer{1, 0, 0},
			ContentType:    ContentTaskResult,
			Description:    "A task managed by the meta-orchestrator",
			RequiredFields: []string{"id", "description", "status", "priority"},
			OptionalFields: []string{"context", "dependencies", "required_skills", "preferred_domain", "assigned_agent", "output", "error", "metadata"},
		},
		{
			Name:           "agent_feedback",
			Version:        SemVer{1, 0, 0},
			ContentType:    ContentJSON,
			Description:    "Performance feedback for an agent's task execution",
			RequiredFields: []string{"id", "agent_id", "task_id", "outcome"},
			OptionalFields: []string{"relevant_skills", "missing_skills", "suggested_skills", "proficiency_deltas", "notes"},
		},
		{
			Name:           "skill_descriptor",
			Version:        SemVer{1, 0, 0},
			ContentType:    ContentSkill,
			Description:    "Describes a specific skill that an agent possesses",
			RequiredFields: []string{"id", "name", "description"},
			OptionalFields: []string{"tags", "input_modes", "output_modes", "proficiency", "required_tools", "max_concurrent"},
		},
		{
			Name:           "capability_update",
			Version:        SemVer{1, 0, 0},
			ContentType:    ContentCapability,
			Description:    "Notification that an agent's capabilities have changed",
			RequiredFields: []string{"agent_id", "skills", "performance_score", "domain", "trigger"},
		},
		{
			Name:           "orchestration_event",
			Version:        SemVer{1, 0, 0},
			ContentType:    ContentEvent,
			Description:    "Lifecycle event emitted during orchestration",
			RequiredFields: []string{"event_type", "data"},
		},
		{
			Name:           "agent_blueprint",
			Version:        SemVer{1, 0, 0},
			ContentType:    ContentJSON,
			Description:    "Template for spawning an agent with specific capabilities",
			RequiredFields: []string{"id", "role", "goal", "backstory", "llm", "domain"},
			OptionalFields: []string{"skills", "tools", "max_iter", "allow_delegation", "config"},
		},
		{
			Name:           "savant_entry",
			Version:        SemVer{1, 0, 0},
			ContentType:    ContentJSON,
			Description:    "A registered savant instance with live state",
			RequiredFields: []string{"id", "domain", "skills", "blueprint_id", "busy", "performance_score"},
			OptionalFields: []string{"current_task", "delegation_targets", "auto_spawned"},
		},
		{
			Name:           "cross_domain_delegation",
			Version:        SemVer{1, 0, 0},
			ContentType:    ContentDelegation,
			Description:    "Record of a cross-domain delegation between savants",
			RequiredFields: []string{"id", "from_savant", "from_domain", "to_savant", "to_domain", "task_description"},
			OptionalFields: []string{"success", "result"},
		},
		{
			Name:           "routing_decision",
			Version:        SemVer{1, 0, 0},
			ContentType:    ContentJSON,
			Description:    "Result of skill-based routing to a savant",
			RequiredFields: []string{"savant_id", "match_score", "domain"},
			OptionalFields: []string{"matched_skills", "auto_spawned"},
		},
	}

	for _, s := range builtins {
		r.Register(s)
	}
}

// Register adds or replaces a schema definition.
func (r *Registry) Register(schema Schema) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[schema.Name] = schema
}

// Get returns the schema registered under name.
func (r *Registry) Get(name string) (Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	return s, ok
}

// SchemaNames returns every registered schema name.
func (r *Registry) SchemaNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	return names
}

// SchemaCount returns the number of registered schemas.
func (r *Registry) SchemaCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.schemas)
}

// Validate checks data (expected to be a map[string]any, mirroring a
// decoded JSON object) against schemaName's required/optional fields.
// An unregistered schema name always fails with a single error; a
// non-object value (a nil map) always fails with a single error; unknown object
// keys produce warnings, not errors.
func (r *Registry) Validate(schemaName string, data map[string]any) ValidationResult {
	r.mu.RLock()
	schema, ok := r.schemas[schemaName]
	r.mu.RUnlock()

	if !ok {
		return ValidationResult{
			Valid:  false,
			Schema: schemaName,
			Errors: []string{fmt.Sprintf("Schema '%s' not registered", schemaName)},
		}
	}

	if data == nil {
		return ValidationResult{
			Valid:  false,
			Schema: schemaName,
			Errors: []string{"Value must be a JSON object"},
		}
	}

	var errs, warnings []string

	for _, field := range schema.RequiredFields {
		if _, ok := data[field]; !ok {
			errs = append(errs, fmt.Sprintf("Missing required field: '%s'", field))
		}
	}

	known := make(map[string]struct{}, len(schema.RequiredFields)+len(schema.OptionalFields))
	for _, f := range schema.RequiredFields {
		known[f] = struct{}{}
	}
	for _, f := range schema.OptionalFields {
		known[f] = struct{}{}
	}
	for key := range data {
		if _, ok := known[key]; !ok {
			warnings = append(warnings, fmt.Sprintf("Unknown field: '%s'", key))
		}
	}

	return ValidationResult{
		Valid:    len(errs) == 0,
		Schema:   schemaName,
		Errors:   errs,
		Warnings: warnings,
	}
}

// ValidateEnvelope validates e's payload against e's declared schema;
// a payload that is not a map[string]any is passed on as a nil map
// and fails as a non-object value.
func (r *Registry) ValidateEnvelope(e Envelope) ValidationResult {
	obj, _ := e.Payload.(map[string]any)
	return r.Validate(e.SchemaName, obj)
}

// SchemasCompatible reports whether two schemas can interoperate:
// either they share a name and a compatible major version, or they
// share a content type (structural compatibility). Results are
// memoized.
func (r *Registry) SchemasCompatible(schemaA, schemaB string) bool {
	key := [2]string{schemaA, schemaB}

	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.compatibilityCache[key]; ok {
		return cached
	}

	a, okA := r.schemas[schemaA]
	b, okB := r.schemas[schemaB]

	compatible := okA && okB &&
		((a.Name == b.Name && a.Version.IsCompatibleWith(b.Version)) || a.ContentType == b.ContentType)

	r.compatibilityCache[key] = compatible
	return compatible
}

// AgentsCompatible reports whether one agent's declared output schema
// can feed another agent's declared input schema.
func (r *Registry) AgentsCompatible(outputSchema, inputSchema string) bool {
	return r.SchemasCompatible(outputSchema, inputSchema)
}

// CreateEnvelope builds a new envelope and appends it to the audit log.
func (r *Registry) CreateEnvelope(schemaName string, contentType ContentType, payload any) Envelope {
	e := NewEnvelope(schemaName, contentType, payload)
	r.mu.Lock()
	r.envelopeLog = append(r.envelopeLog, e)
	r.mu.Unlock()
	return e
}

// EnvelopeLog returns every envelope created so far, oldest first.
func (r *Registry) EnvelopeLog() []Envelope {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Envelope, len(r.envelopeLog))
	copy(out, r.envelopeLog)
	return out
}

// ClearLog empties the envelope audit log.
func (r *Registry) ClearLog() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.envelopeLog = nil
}

// SchemasForType returns every schema registered under contentType.
func (r *Registry) SchemasForType(contentType ContentType) []Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Schema
	for _, s := range r.schemas {
		if s.ContentType == contentType {
			out = append(out, s)
		}
	}
	return out
}

// SchemasForDomain returns every schema associated with domain.
func (r *Registry) SchemasForDomain(domain savants.Domain) []Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Schema
	for _, s := range r.schemas {
		if s.Domain != nil && *s.Domain == domain {
			out = append(out, s)
		}
	}
	return out
}
