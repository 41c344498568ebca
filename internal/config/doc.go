// Package config provides centralized configuration management for the
// orchestration runtime through environment variables with sensible
// defaults.
//
// # Quick Start
//
//	cfg := config.Load()
//	fmt.Printf("LLM: %s\n", cfg.DefaultLLM)
//	fmt.Printf("Environment: %s\n", cfg.Environment)
//
// # Configuration Fields
//
//   - ORCHESTRA_DEFAULT_LLM: default LLM identifier spawned agents use
//     (default: "gpt-4o-mini")
//   - ORCHESTRA_MAX_AGENTS: pool size ceiling for auto-spawning
//     (default: 20)
//   - ORCHESTRA_MAX_CONCURRENT_AGENTS (default: 32) and
//     ORCHESTRA_TRANSFER_PENALTY (default: 0.2): loaded into AppConfig
//     but not read by any other package
//   - JAEGER_ENDPOINT, PROMETHEUS_PORT: observability exporter targets
//   - ORCHESTRA_HEALTH_PORT: health check listener port (default: "8080")
//   - SERVICE_NAME, SERVICE_VERSION, ENVIRONMENT, LOG_LEVEL: service metadata
//
// AppConfig is a read-only snapshot of the environment at startup; do
// not mutate it after Load returns. It is safe to read from multiple
// goroutines.
package config
