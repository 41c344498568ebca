// Package capabilities defines the YAML-importable capability bundle —
// the unit of agent functionality that binds a tool set to an
// interface protocol and a set of policy constraints — and the
// registry that resolves namespaced capability IDs to bundles.
package capabilities

import "strings"

// InterfaceProtocol identifies which adapter protocol a capability's
// interface needs.
type InterfaceProtocol string

const (
	ProtocolRestAPI      InterfaceProtocol = "rest_api"
	ProtocolGraphQL      InterfaceProtocol = "graphql"
	ProtocolGRPC         InterfaceProtocol = "grpc"
	ProtocolMCP          InterfaceProtocol = "mcp"
	ProtocolRCON         InterfaceProtocol = "rcon"
	ProtocolWebsocket    InterfaceProtocol = "websocket"
	ProtocolArrowFlight  InterfaceProtocol = "arrow_flight"
	ProtocolMSGraph      InterfaceProtocol = "ms_graph"
	ProtocolAWSSDK       InterfaceProtocol = "aws_sdk"
	ProtocolSSH          InterfaceProtocol = "ssh"
	ProtocolDatabase     InterfaceProtocol = "database"
	ProtocolNative       InterfaceProtocol = "native"
	// Custom protocols use any other string value verbatim.
)

// CapabilityMetadata carries registry/discovery metadata about a
// capability; every field is optional.
type CapabilityMetadata struct {
	Author            string `yaml:"author,omitempty"`
	License           string `yaml:"license,omitempty"`
	Homepage          string `yaml:"homepage,omitempty"`
	MinOrchestraVersion string `yaml:"min_orchestra_version,omitempty"`
	FingerprintHint   string `yaml:"fingerprint_hint,omitempty"`
}

// Interface specifies which adapter/protocol a capability needs, plus
// protocol-specific configuration the gateway passes through to the
// adapter at bind time.
type Interface struct {
	Protocol          InterfaceProtocol      `yaml:"protocol"`
	Config            map[string]any         `yaml:"config,omitempty"`
	EndpointTemplate  string                 `yaml:"endpoint_template,omitempty"`
	AuthScheme        string                 `yaml:"auth_scheme,omitempty"`
}

// ToolArgSchema describes one argument of a CapabilityTool.
type ToolArgSchema struct {
	Type        string           `yaml:"type"`
	Required    bool             `yaml:"required,omitempty"`
	Default     any              `yaml:"default,omitempty"`
	Description string           `yaml:"description,omitempty"`
	Enum        []any            `yaml:"enum,omitempty"`
	Items       *ToolArgSchema   `yaml:"items,omitempty"`
	Pattern     string           `yaml:"pattern,omitempty"`
}

// Tool is one tool a capability provides; once bound, it becomes
// available in an agent's tool set under its qualified name.
type Tool struct {
	Name             string                   `yaml:"name"`
	Description      string                   `yaml:"description"`
	ArgsSchema       map[string]ToolArgSchema `yaml:"args_schema,omitempty"`
	ResultAsAnswer   bool                     `yaml:"result_as_answer,omitempty"`
	CAMOpcode        *uint16                  `yaml:"cam_opcode,omitempty"`
	FingerprintHint  string                   `yaml:"fingerprint_hint,omitempty"`
	RequiresRoles    []string                 `yaml:"requires_roles,omitempty"`
	RequiresApproval bool                     `yaml:"requires_approval,omitempty"`
	Idempotent       bool                     `yaml:"idempotent,omitempty"`
	ReadOnly         bool                     `yaml:"read_only,omitempty"`
	MaxRPM           *uint32                  `yaml:"max_rpm,omitempty"`
}

// Policy carries the declarative policy constraints load_capability_policy
// expands into concrete PolicyRules when a capability becomes active.
type Policy struct {
	RequiresRoles        []string `yaml:"requires_roles,omitempty"`
	MaxRPM               *uint32  `yaml:"max_rpm,omitempty"`
	RequiresApprovalFor  []string `yaml:"requires_approval_for,omitempty"`
	DataClassification   string   `yaml:"data_classification,omitempty"`
	GeoRestrictions      []string `yaml:"geo_restrictions,omitempty"`
	AuditLevel           string   `yaml:"audit_level,omitempty"`
	MinConfidence        *float64 `yaml:"min_confidence,omitempty"`
	DenyPatterns         []string `yaml:"deny_patterns,omitempty"`
	CedarRules           []string `yaml:"cedar_rules,omitempty"`
}

// Capability is a self-contained, YAML-importable bundle of tools,
// an interface/protocol binding, and policy constraints.
type Capability struct {
	ID             string             `yaml:"id"`
	Version        string             `yaml:"version"`
	Description    string             `yaml:"description"`
	Tags           []string           `yaml:"tags,omitempty"`
	Metadata       CapabilityMetadata `yaml:"metadata,omitempty"`
	Interface      Interface          `yaml:"interface"`
	Tools          []Tool             `yaml:"tools,omitempty"`
	Policy         Policy             `yaml:"policy,omitempty"`
	DependsOn      []string           `yaml:"depends_on,omitempty"`
	CAMOpcodeRange *[2]uint16         `yaml:"cam_opcode_range,omitempty"`
}

// capabilityWrapper mirrors the YAML shape where a single capability
// is nested under a top-level "capability:" key.
type capabilityWrapper struct {
	Capability Capability `yaml:"capability"`
}

// capabilityListWrapper mirrors the YAML shape of a top-level
// "capabilities:" list.
type capabilityListWrapper struct {
	Capabilities []Capability `yaml:"capabilities"`
}

// Namespace returns the part of ID before the first ':', e.g.
// "minecraft" from "minecraft:server_control".
func (c Capability) Namespace() string {
	if i := strings.Index(c.ID, ":"); i >= 0 {
		return c.ID[:i]
	}
	return c.ID
}

// Name returns the part of ID after the first ':'.
func (c Capability) Name() string {
	if i := strings.Index(c.ID, ":"); i >= 0 {
		return c.ID[i+1:]
	}
	return ""
}

// RoleSatisfies reports whether roles covers every role this
// capability's policy requires. A capability with no role
// requirements is satisfied by any role set, including none.
func (c Capability) RoleSatisfies(roles []string) bool {
	if len(c.Policy.RequiresRoles) == 0 {
		return true
	}
	has := make(map[string]bool, len(roles))
	for _, r := range roles {
		has[r] = true
	}
	for _, required := range c.Policy.RequiresRoles {
		if !has[required] {
			return false
		}
	}
	return true
}

// ToolRequiresApproval reports whether toolName contains any of this
// capability's requires_approval_for substrings.
func (c Capability) ToolRequiresApproval(toolName string) bool {
	for _, pattern := range c.Policy.RequiresApprovalFor {
		if strings.Contains(toolName, pattern) {
			return true
		}
	}
	return false
}

// ToolNames returns the names of every tool this capability provides.
func (c Capability) ToolNames() []string {
	names := make([]string, len(c.Tools))
	for i, t := range c.Tools {
		names[i] = t.Name
	}
	return names
}
