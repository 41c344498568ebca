// Package gateway implements the capability gateway: it binds
// capabilities to protocol adapters, routes tool calls to the right
// adapter, enforces per-capability rate limits, and exposes aggregate
// health and tool-availability views.
package gateway

import (
	"context"
	"fmt"
)

// ErrorKind classifies an adapter failure.
type ErrorKind int

const (
	ConnectionFailed ErrorKind = iota
	AuthenticationFailed
	OperationNotSupported
	ExecutionFailed
	Timeout
	RateLimited
	PermissionDenied
	InvalidConfig
	ProtocolError
	SerializationError
)

// AdapterError is the typed error every Adapter method returns on
// failure.
type AdapterError struct {
	Kind    ErrorKind
	Message string
	// Millis carries the retry-after duration for RateLimited and the
	// elapsed duration for Timeout; zero otherwise.
	Millis uint64
}

func (e *AdapterError) Error() string {
	switch e.Kind {
	case Timeout:
		return fmt.Sprintf("timeout after %dms", e.Millis)
	case RateLimited:
		return fmt.Sprintf("rate limited: retry after %dms", e.Millis)
	default:
		return e.Message
	}
}

func newErr(kind ErrorKind, format string, args ...any) *AdapterError {
	return &AdapterError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Health reports an adapter's current connectivity.
type Health struct {
	Connected bool
	LatencyMS *uint64
	Message   string
}

// Operation describes one operation an adapter supports, for
// capability auto-discovery.
type Operation struct {
	Name        string
	Description string
	ReadOnly    bool
	Idempotent  bool
}

// Adapter is the contract every external-system protocol
// implementation satisfies. Lifecycle: Connect, then any number of
// Execute calls, then Disconnect. Adapters are stateful: they own
// connection handles, auth tokens, and the like.
type Adapter interface {
	Name() string
	Protocol() string
	Connect(ctx context.Context, config map[string]any) error
	Execute(ctx context.Context, toolName string, args any) (any, error)
	Disconnect(ctx context.Context) error
	HealthCheck(ctx context.Context) (Health, error)
	SupportedOperations() []Operation
	IsConnected() bool
}

// Factory constructs fresh Adapter instances for one protocol. The
// gateway holds one factory per protocol key and creates a new
// adapter instance each time a capability binds that protocol.
type Factory interface {
	Create() Adapter
	Protocol() string
}
