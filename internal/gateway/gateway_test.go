package gateway

import (
	"context"
	"testing"

	"github.com/adaworld/orchestra/internal/capabilities"
)

// noopAdapter succeeds on every Execute call without touching any
// external system.
type noopAdapter struct {
	connected bool
}

func (a *noopAdapter) Name() string     { return "noop" }
func (a *noopAdapter) Protocol() string { return "noop" }
func (a *noopAdapter) Connect(ctx context.Context, config map[string]any) error {
	a.connected = true
	return nil
}
func (a *noopAdapter) Execute(ctx context.Context, toolName string, args any) (any, error) {
	return "ok", nil
}
func (a *noopAdapter) Disconnect(ctx context.Context) error { a.connected = false; return nil }
func (a *noopAdapter) HealthCheck(ctx context.Context) (Health, error) {
	return Health{Connected: a.connected}, nil
}
func (a *noopAdapter) SupportedOperations() []Operation { return nil }
func (a *noopAdapter) IsConnected() bool                { return a.connected }

type noopFactory struct{}

func (noopFactory) Create() Adapter  { return &noopAdapter{} }
func (noopFactory) Protocol() string { return "noop" }

func newTestCapability(maxRPM uint32) capabilities.Capability {
	return capabilities.Capability{
		ID: "test:cap",
		Interface: capabilities.Interface{
			Protocol: capabilities.InterfaceProtocol("noop"),
		},
		Tools: []capabilities.Tool{{Name: "do_thing"}},
		Policy: capabilities.Policy{MaxRPM: &maxRPM},
	}
}

// fakeMetrics captures Invoke/rate-limit telemetry for assertion.
type fakeMetrics struct {
	invocations  int
	successes    int
	rateLimited  int
}

func (f *fakeMetrics) IncrementGatewayInvocations(ctx context.Context, capabilityID string, success bool) {
	f.invocations++
	if success {
		f.successes++
	}
}
func (f *fakeMetrics) IncrementGatewayRateLimited(ctx context.Context, capabilityID string) {
	f.rateLimited++
}

// TestInvoke_S5RateLimitWindow is spec scenario S5: with max_rpm=2, the
// first two invocations within the window succeed and the third
// returns RateLimited with a bounded remaining-ms value.
func TestInvoke_S5RateLimitWindow(t *testing.T) {
	g := New()
	g.RegisterFactory(noopFactory{})
	cap := newTestCapability(2)
	if err := g.BindCapability(context.Background(), cap, nil); err != nil {
		t.Fatalf("BindCapability failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := g.Invoke(context.Background(), "do_thing", nil); err != nil {
			t.Fatalf("call %d: expected success within rate limit, got %v", i, err)
		}
	}

	_, err := g.Invoke(context.Background(), "do_thing", nil)
	if err == nil {
		t.Fatal("expected the third call to be rate limited")
	}
	adapterErr, ok := err.(*AdapterError)
	if !ok || adapterErr.Kind != RateLimited {
		t.Fatalf("expected an AdapterError with Kind=RateLimited, got %v", err)
	}
	if adapterErr.Millis == 0 || adapterErr.Millis > 60_000 {
		t.Errorf("expected remaining_ms in (0, 60000], got %d", adapterErr.Millis)
	}
}

// TestInvoke_RecordsMetrics confirms a wired MetricsRecorder observes
// both successful invocations and rate-limit rejections.
func TestInvoke_RecordsMetrics(t *testing.T) {
	g := New()
	g.RegisterFactory(noopFactory{})
	cap := newTestCapability(1)
	if err := g.BindCapability(context.Background(), cap, nil); err != nil {
		t.Fatalf("BindCapability failed: %v", err)
	}
	metrics := &fakeMetrics{}
	g.SetMetricsRecorder(metrics)

	g.Invoke(context.Background(), "do_thing", nil)
	g.Invoke(context.Background(), "do_thing", nil)

	if metrics.invocations != 1 || metrics.successes != 1 {
		t.Errorf("expected 1 recorded successful invocation, got invocations=%d successes=%d", metrics.invocations, metrics.successes)
	}
	if metrics.rateLimited != 1 {
		t.Errorf("expected 1 recorded rate-limit rejection, got %d", metrics.rateLimited)
	}
}

// TestInvoke_UnboundToolFails confirms invoking a tool with no bound
// capability fails rather than panicking.
func TestInvoke_UnboundToolFails(t *testing.T) {
	g := New()
	_, err := g.Invoke(context.Background(), "nonexistent_tool", nil)
	if err == nil {
		t.Error("expected an error for an unbound tool")
	}
}

// TestHealthCheckAll_ReflectsBoundAdapters checks health reporting
// covers every bound capability.
func TestHealthCheckAll_ReflectsBoundAdapters(t *testing.T) {
	g := New()
	g.RegisterFactory(noopFactory{})
	cap := newTestCapability(10)
	if err := g.BindCapability(context.Background(), cap, nil); err != nil {
		t.Fatalf("BindCapability failed: %v", err)
	}

	health := g.HealthCheckAll(context.Background())
	h, ok := health["test:cap"]
	if !ok || !h.Connected {
		t.Errorf("expected test:cap to report connected health, got %+v (present=%v)", h, ok)
	}
}
