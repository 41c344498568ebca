package capabilities

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Registry resolves namespaced capability IDs ("namespace:name") to
// Capability bundles, loading them from an in-memory map, individual
// YAML files, or directory trees, and supports namespace aliasing
// (e.g. "ms" -> "o365") and tag/description discovery.
type Registry struct {
	capabilities map[string]Capability
	searchPaths  []string
	aliases      map[string]string
}

// New creates an empty registry with no search paths.
func New() *Registry {
	return &Registry{
		capabilities: make(map[string]Capability),
		aliases:      make(map[string]string),
	}
}

// WithDefaults creates a registry seeded with the standard search
// paths: a project-local "capabilities" directory, then the user and
// system-wide orchestra capability directories.
func WithDefaults() *Registry {
	r := New()
	r.searchPaths = append(r.searchPaths,
		"capabilities",
		"~/.orchestra/capabilities",
		"/etc/orchestra/capabilities",
	)
	return r
}

// AddSearchPath appends a directory to search when resolving a
// capability that isn't registered in memory.
func (r *Registry) AddSearchPath(path string) {
	r.searchPaths = append(r.searchPaths, path)
}

// AddAlias registers a namespace alias: resolving "{alias}:{name}"
// behaves as if "{target}:{name}" had been requested.
func (r *Registry) AddAlias(alias, targetNamespace string) {
	r.aliases[alias] = targetNamespace
}

// Register adds or replaces a capability directly.
func (r *Registry) Register(cap Capability) {
	r.capabilities[cap.ID] = cap
}

// RegisterFromFile loads one YAML file, which may contain a single
// top-level "capability:" bundle or a "capabilities:" list, and
// registers every capability found. It returns the number registered.
func (r *Registry) RegisterFromFile(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var single capabilityWrapper
	if err := yaml.Unmarshal(content, &single); err == nil && single.Capability.ID != "" {
		r.capabilities[single.Capability.ID] = single.Capability
		return 1, nil
	}

	var list capabilityListWrapper
	if err := yaml.Unmarshal(content, &list); err != nil {
		return 0, fmt.Errorf("capabilities: parse %s: %w", path, err)
	}
	for _, cap := range list.Capabilities {
		r.capabilities[cap.ID] = cap
	}
	return len(list.Capabilities), nil
}

// LoadDirectory recursively loads every .yaml/.yml file under dir. A
// missing directory is not an error; individual file parse failures
// are skipped, not fatal, matching the registry's best-effort load
// philosophy.
func (r *Registry) LoadDirectory(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	count := 0
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			n, err := r.LoadDirectory(path)
			if err != nil {
				return count, err
			}
			count += n
			continue
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		if n, err := r.RegisterFromFile(path); err == nil {
			count += n
		}
	}
	return count, nil
}

// LoadAll loads capabilities from every registered search path.
func (r *Registry) LoadAll() (int, error) {
	count := 0
	for _, path := range r.searchPaths {
		n, err := r.LoadDirectory(path)
		if err != nil {
			return count, err
		}
		count += n
	}
	return count, nil
}

// Resolve returns the capability for id, applying alias resolution
// first. If it isn't in memory, Resolve tries each search path for a
// "{namespace}/{name}.yaml" or ".yml" file before giving up.
func (r *Registry) Resolve(id string) (Capability, bool) {
	resolvedID := r.resolveAlias(id)

	if cap, ok := r.capabilities[resolvedID]; ok {
		return cap, true
	}

	namespace, name := splitID(resolvedID)
	for _, searchPath := range r.searchPaths {
		for _, ext := range []string{".yaml", ".yml"} {
			candidate := filepath.Join(searchPath, namespace, name+ext)
			if _, err := os.Stat(candidate); err != nil {
				continue
			}
			if _, err := r.RegisterFromFile(candidate); err == nil {
				if cap, ok := r.capabilities[resolvedID]; ok {
					return cap, true
				}
			}
		}
	}
	return Capability{}, false
}

// ResolveMany resolves a batch of capability IDs (e.g. the tool_uses
// list on an agent card), returning the resolved bundles and the IDs
// that could not be found anywhere.
func (r *Registry) ResolveMany(ids []string) (resolved []Capability, unresolved []string) {
	for _, id := range ids {
		if cap, ok := r.Resolve(id); ok {
			resolved = append(resolved, cap)
		} else {
			unresolved = append(unresolved, id)
		}
	}
	return resolved, unresolved
}

// List returns every registered capability, in no particular order.
func (r *Registry) List() []Capability {
	out := make([]Capability, 0, len(r.capabilities))
	for _, cap := range r.capabilities {
		out = append(out, cap)
	}
	return out
}

// ListByNamespace returns capabilities whose namespace matches ns,
// after resolving ns through the alias table.
func (r *Registry) ListByNamespace(ns string) []Capability {
	resolvedNS := ns
	if target, ok := r.aliases[ns]; ok {
		resolvedNS = target
	}
	var out []Capability
	for _, cap := range r.capabilities {
		if cap.Namespace() == resolvedNS {
			out = append(out, cap)
		}
	}
	return out
}

// SearchByTag returns capabilities carrying an exact tag match, or,
// when tag contains a glob meta-character, every capability with at
// least one tag matching the glob pattern.
func (r *Registry) SearchByTag(tag string) []Capability {
	var matcher glob.Glob
	isGlob := strings.ContainsAny(tag, "*?[")
	if isGlob {
		g, err := glob.Compile(tag)
		if err == nil {
			matcher = g
		}
	}

	var out []Capability
	for _, cap := range r.capabilities {
		for _, t := range cap.Tags {
			if matcher != nil && matcher.Match(t) {
				out = append(out, cap)
				break
			}
			if matcher == nil && t == tag {
				out = append(out, cap)
				break
			}
		}
	}
	return out
}

// SearchByDescription returns capabilities whose description contains
// query, case-insensitively.
func (r *Registry) SearchByDescription(query string) []Capability {
	q := strings.ToLower(query)
	var out []Capability
	for _, cap := range r.capabilities {
		if strings.Contains(strings.ToLower(cap.Description), q) {
			out = append(out, cap)
		}
	}
	return out
}

// Len returns the number of registered capabilities.
func (r *Registry) Len() int { return len(r.capabilities) }

func (r *Registry) resolveAlias(id string) string {
	namespace, name := splitID(id)
	if target, ok := r.aliases[namespace]; ok {
		return target + ":" + name
	}
	return id
}

func splitID(id string) (namespace, name string) {
	parts := strings.SplitN(id, ":", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}
