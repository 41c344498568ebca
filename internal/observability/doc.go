// Package observability provides the orchestration runtime's tracing,
// metrics, structured logging, and health-check infrastructure.
//
// # Quick Start
//
//	cfg := observability.DefaultConfig("orchestra")
//	obs, err := observability.NewObservability(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer obs.Shutdown(context.Background())
//
// This sets up an in-process OpenTelemetry tracer (no push exporter —
// the runtime is an embedded library, not a standalone service), a
// Prometheus metrics reader, and a structured slog.Logger with trace
// context injection.
//
// # Components
//
//   - TraceManager: span creation/management for task and delegation
//     lifecycle events (see StartPublishSpan/StartConsumeSpan/
//     AddTaskAttributes).
//   - MetricsManager: counters for task distribution, completion and
//     retry, skill adjustments, policy decisions, and gateway
//     invocations/rate limiting, plus an up-down counter for the agent
//     pool size, exposed on the Prometheus /metrics endpoint.
//   - HealthServer: /health and /metrics HTTP endpoints, with
//     pluggable HealthChecker implementations — BasicHealthChecker for
//     self-checks, AdapterHealthChecker for gateway-bound capability
//     adapters (see gateway.Gateway.HealthCheckAll).
//
// # Log Levels
//
// LOG_LEVEL selects DEBUG/INFO/WARN/ERROR; DEBUG also duplicates
// output to stdout via a CombinedHandler.
package observability
