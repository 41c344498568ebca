// Package rbac bridges agent card role assignments and capability
// RBAC requirements: it maps agents to roles and roles to granted
// capabilities, independent of the policy engine's rule evaluation.
package rbac

// Manager tracks role assignments and capability grants.
type Manager struct {
	agentRoles       map[string]map[string]struct{}
	roleCapabilities map[string]map[string]struct{}
}

// New creates an empty RBAC manager.
func New() *Manager {
	return &Manager{
		agentRoles:       make(map[string]map[string]struct{}),
		roleCapabilities: make(map[string]map[string]struct{}),
	}
}

// AssignRole grants role to agentID.
func (m *Manager) AssignRole(agentID, role string) {
	roles, ok := m.agentRoles[agentID]
	if !ok {
		roles = make(map[string]struct{})
		m.agentRoles[agentID] = roles
	}
	roles[role] = struct{}{}
}

// RevokeRole removes role from agentID, reporting whether it had been
// assigned.
func (m *Manager) RevokeRole(agentID, role string) bool {
	roles, ok := m.agentRoles[agentID]
	if !ok {
		return false
	}
	if _, present := roles[role]; !present {
		return false
	}
	delete(roles, role)
	return true
}

// GrantCapabilityToRole grants capabilityID to every agent holding role.
func (m *Manager) GrantCapabilityToRole(role, capabilityID string) {
	caps, ok := m.roleCapabilities[role]
	if !ok {
		caps = make(map[string]struct{})
		m.roleCapabilities[role] = caps
	}
	caps[capabilityID] = struct{}{}
}

// RevokeCapabilityFromRole removes capabilityID from role, reporting
// whether it had been granted.
func (m *Manager) RevokeCapabilityFromRole(role, capabilityID string) bool {
	caps, ok := m.roleCapabilities[role]
	if !ok {
		return false
	}
	if _, present := caps[capabilityID]; !present {
		return false
	}
	delete(caps, capabilityID)
	return true
}

// AgentRoles returns the roles assigned to agentID.
func (m *Manager) AgentRoles(agentID string) []string {
	roles, ok := m.agentRoles[agentID]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(roles))
	for r := range roles {
		out = append(out, r)
	}
	return out
}

// AgentCapabilities returns the set of capabilities accessible to
// agentID through any of its assigned roles.
func (m *Manager) AgentCapabilities(agentID string) map[string]struct{} {
	roles, ok := m.agentRoles[agentID]
	out := make(map[string]struct{})
	if !ok {
		return out
	}
	for role := range roles {
		for cap := range m.roleCapabilities[role] {
			out[cap] = struct{}{}
		}
	}
	return out
}

// CanUseCapability reports whether agentID can use capabilityID
// through any of its roles.
func (m *Manager) CanUseCapability(agentID, capabilityID string) bool {
	_, ok := m.AgentCapabilities(agentID)[capabilityID]
	return ok
}

// HasRole reports whether agentID has been assigned role.
func (m *Manager) HasRole(agentID, role string) bool {
	roles, ok := m.agentRoles[agentID]
	if !ok {
		return false
	}
	_, present := roles[role]
	return present
}

// AllRoles returns every role known to the manager, whether assigned
// to an agent or granted a capability.
func (m *Manager) AllRoles() []string {
	seen := make(map[string]struct{})
	for _, roles := range m.agentRoles {
		for r := range roles {
			seen[r] = struct{}{}
		}
	}
	for role := range m.roleCapabilities {
		seen[role] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	return out
}

// AgentsWithRole returns every agent ID assigned role.
func (m *Manager) AgentsWithRole(role string) []string {
	var out []string
	for agentID, roles := range m.agentRoles {
		if _, ok := roles[role]; ok {
			out = append(out, agentID)
		}
	}
	return out
}

// Summary reports aggregate counts of the RBAC state.
type Summary struct {
	TotalAgents       int
	TotalRoles        int
	TotalCapabilities int
}

// Summary computes a Summary over the manager's current state.
func (m *Manager) Summary() Summary {
	caps := make(map[string]struct{})
	for _, c := range m.roleCapabilities {
		for cap := range c {
			caps[cap] = struct{}{}
		}
	}
	return Summary{
		TotalAgents:       len(m.agentRoles),
		TotalRoles:        len(m.AllRoles()),
		TotalCapabilities: len(caps),
	}
}
