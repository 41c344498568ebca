package gateway

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/adaworld/orchestra/internal/capabilities"
)

const rateLimitWindow = 60 * time.Second

type rateLimitState struct {
	maxRPM      uint32
	windowStart time.Time
	count       uint32
}

type boundAdapter struct {
	mu      sync.RWMutex
	adapter Adapter
}

// MetricsRecorder receives gateway invocation and rate-limit
// telemetry. Optional: a Gateway with none configured simply skips
// recording.
type MetricsRecorder interface {
	IncrementGatewayInvocations(ctx context.Context, capabilityID string, success bool)
	IncrementGatewayRateLimited(ctx context.Context, capabilityID string)
}

// Gateway binds capabilities to protocol adapters and routes tool
// calls to the bound adapter responsible for each tool name.
type Gateway struct {
	mu             sync.Mutex
	factories      map[string]Factory
	activeAdapters map[string]*boundAdapter // capability ID -> adapter
	toolRouting    map[string]string        // tool name -> capability ID
	rateLimits     map[string]*rateLimitState
	metrics        MetricsRecorder
}

// SetMetricsRecorder wires m into the gateway; every subsequent
// Invoke reports its outcome (and any rate-limit rejection) through
// it.
func (g *Gateway) SetMetricsRecorder(m MetricsRecorder) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.metrics = m
}

// New creates a gateway with no registered adapter factories. Callers
// register factories for the protocols they actually support; no
// built-in adapters (REST, RCON, GraphQL, MCP) ship with this package.
func New() *Gateway {
	return &Gateway{
		factories:      make(map[string]Factory),
		activeAdapters: make(map[string]*boundAdapter),
		toolRouting:    make(map[string]string),
		rateLimits:     make(map[string]*rateLimitState),
	}
}

// RegisterFactory installs a protocol adapter factory.
func (g *Gateway) RegisterFactory(f Factory) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.factories[f.Protocol()] = f
}

// BindCapability resolves the factory for cap's interface protocol,
// connects a fresh adapter with cap's config merged under
// connectionConfig overrides, and registers tool routing for every
// tool the capability declares, both qualified ("cap::tool") and bare.
func (g *Gateway) BindCapability(ctx context.Context, cap capabilities.Capability, connectionConfig map[string]any) error {
	key := protocolToKey(cap.Interface.Protocol)

	g.mu.Lock()
	factory, ok := g.factories[key]
	g.mu.Unlock()
	if !ok {
		return newErr(InvalidConfig, "no adapter factory registered for protocol %q", key)
	}

	merged := make(map[string]any, len(cap.Interface.Config)+len(connectionConfig))
	for k, v := range cap.Interface.Config {
		merged[k] = v
	}
	for k, v := range connectionConfig {
		merged[k] = v
	}

	adapter := factory.Create()
	if err := adapter.Connect(ctx, merged); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.activeAdapters[cap.ID] = &boundAdapter{adapter: adapter}

	for _, tool := range cap.Tools {
		g.toolRouting[fmt.Sprintf("%s::%s", cap.ID, tool.Name)] = cap.ID
		g.toolRouting[tool.Name] = cap.ID
	}

	if cap.Policy.MaxRPM != nil {
		g.rateLimits[cap.ID] = &rateLimitState{maxRPM: *cap.Policy.MaxRPM}
	}

	return nil
}

// UnbindCapability disconnects and removes the adapter bound to
// capID, clearing its tool routing and rate limit state.
func (g *Gateway) UnbindCapability(ctx context.Context, capID string) error {
	g.mu.Lock()
	bound, ok := g.activeAdapters[capID]
	if ok {
		delete(g.activeAdapters, capID)
		for tool, cid := range g.toolRouting {
			if cid == capID {
				delete(g.toolRouting, tool)
			}
		}
		delete(g.rateLimits, capID)
	}
	g.mu.Unlock()

	if !ok {
		return nil
	}
	bound.mu.Lock()
	defer bound.mu.Unlock()
	return bound.adapter.Disconnect(ctx)
}

// Invoke routes toolName to its bound capability's adapter, enforcing
// the capability's rate limit first.
func (g *Gateway) Invoke(ctx context.Context, toolName string, args any) (any, error) {
	g.mu.Lock()
	capID, ok := g.toolRouting[toolName]
	if !ok {
		g.mu.Unlock()
		return nil, newErr(OperationNotSupported, "no capability bound for tool %q", toolName)
	}

	metrics := g.metrics

	if rl, ok := g.rateLimits[capID]; ok {
		now := time.Now()
		if now.Sub(rl.windowStart) >= rateLimitWindow {
			rl.windowStart = now
			rl.count = 0
		}
		if rl.count >= rl.maxRPM {
			remaining := rateLimitWindow - now.Sub(rl.windowStart)
			g.mu.Unlock()
			if metrics != nil {
				metrics.IncrementGatewayRateLimited(ctx, capID)
			}
			return nil, &AdapterError{Kind: RateLimited, Millis: uint64(remaining.Milliseconds())}
		}
		rl.count++
	}

	bound, ok := g.activeAdapters[capID]
	g.mu.Unlock()
	if !ok {
		return nil, newErr(OperationNotSupported, "capability %q has no active adapter", capID)
	}

	bare := toolName
	if idx := strings.LastIndex(toolName, "::"); idx >= 0 {
		bare = toolName[idx+2:]
	}

	bound.mu.RLock()
	result, err := bound.adapter.Execute(ctx, bare, args)
	bound.mu.RUnlock()

	if metrics != nil {
		metrics.IncrementGatewayInvocations(ctx, capID, err == nil)
	}
	return result, err
}

// HealthCheckAll runs a health check against every bound adapter,
// keyed by capability ID.
func (g *Gateway) HealthCheckAll(ctx context.Context) map[string]Health {
	g.mu.Lock()
	bounds := make(map[string]*boundAdapter, len(g.activeAdapters))
	for capID, b := range g.activeAdapters {
		bounds[capID] = b
	}
	g.mu.Unlock()

	out := make(map[string]Health, len(bounds))
	for capID, b := range bounds {
		b.mu.RLock()
		h, err := b.adapter.HealthCheck(ctx)
		b.mu.RUnlock()
		if err != nil {
			h = Health{Connected: false, Message: err.Error()}
		}
		out[capID] = h
	}
	return out
}

// BoundCapabilities returns the IDs of every capability with an
// active adapter.
func (g *Gateway) BoundCapabilities() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, 0, len(g.activeAdapters))
	for capID := range g.activeAdapters {
		out = append(out, capID)
	}
	return out
}

// AvailableTools returns every routable tool name.
func (g *Gateway) AvailableTools() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, 0, len(g.toolRouting))
	for tool := range g.toolRouting {
		out = append(out, tool)
	}
	return out
}

// Shutdown disconnects every bound adapter.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.mu.Lock()
	bounds := make([]*boundAdapter, 0, len(g.activeAdapters))
	for _, b := range g.activeAdapters {
		bounds = append(bounds, b)
	}
	g.activeAdapters = make(map[string]*boundAdapter)
	g.toolRouting = make(map[string]string)
	g.rateLimits = make(map[string]*rateLimitState)
	g.mu.Unlock()

	var firstErr error
	for _, b := range bounds {
		b.mu.Lock()
		if err := b.adapter.Disconnect(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
		b.mu.Unlock()
	}
	return firstErr
}

func protocolToKey(p capabilities.InterfaceProtocol) string {
	switch p {
	case capabilities.ProtocolRestAPI:
		return "rest_api"
	case capabilities.ProtocolGraphQL:
		return "graphql"
	case capabilities.ProtocolGRPC:
		return "grpc"
	case capabilities.ProtocolMCP:
		return "mcp"
	case capabilities.ProtocolRCON:
		return "rcon"
	case capabilities.ProtocolWebsocket:
		return "websocket"
	case capabilities.ProtocolArrowFlight:
		return "arrow_flight"
	case capabilities.ProtocolMSGraph:
		return "ms_graph"
	case capabilities.ProtocolAWSSDK:
		return "aws_sdk"
	case capabilities.ProtocolSSH:
		return "ssh"
	case capabilities.ProtocolDatabase:
		return "database"
	case capabilities.ProtocolNative:
		return "native"
	default:
		return string(p)
	}
}
