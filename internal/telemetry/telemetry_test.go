package telemetry_test

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/30tools/ai-agents-directory/internal/config"
	"github.com/30tools/ai-agents-directory/internal/telemetry"
)

func TestInitDisabled(t *testing.T) {
	for _, cfg := range []config.TelemetryConfig{
		{Enabled: false, OTLPEndpoint: "localhost:4317"},
		{Enabled: true, OTLPEndpoint: ""},
	} {
		shutdown, err := telemetry.Init(context.Background(), cfg, "test")
		if err != nil {
			t.Fatalf("Init(%+v): %v", cfg, err)
		}
		if shutdown == nil {
			t.Fatalf("Init(%+v) returned nil shutdown", cfg)
		}
		if err := shutdown(context.Background()); err != nil {
			t.Errorf("shutdown: %v", err)
		}
	}
}

func TestSampler(t *testing.T) {
	traceID := trace.TraceID{0x01, 0x02, 0x03}
	root := sdktrace.SamplingParameters{ParentContext: context.Background(), TraceID: traceID, Name: "GET /"}

	tests := []struct {
		ratio float64
		want  sdktrace.SamplingDecision
	}{
		{1, sdktrace.RecordAndSample},
		{2, sdktrace.RecordAndSample},
		{0, sdktrace.Drop},
		{-1, sdktrace.Drop},
	}
	for _, tt := range tests {
		if got := telemetry.Sampler(tt.ratio).ShouldSample(root).Decision; got != tt.want {
			t.Errorf("Sampler(%v) root decision = %v, want %v", tt.ratio, got, tt.want)
		}
	}

	// A sampled remote parent wins over the ratio.
	parent := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     trace.SpanID{0x01},
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	child := root
	child.ParentContext = trace.ContextWithSpanContext(context.Background(), parent)
	if got := telemetry.Sampler(0).ShouldSample(child).Decision; got != sdktrace.RecordAndSample {
		t.Errorf("child of sampled parent decision = %v, want RecordAndSample", got)
	}
}

func TestResource(t *testing.T) {
	cfg := config.Defaults().Telemetry
	cfg.Environment = "staging"

	res, err := telemetry.Resource(context.Background(), cfg, "1.2.3")
	if err != nil {
		t.Fatalf("Resource: %v", err)
	}
	set := res.Set()
	for key, want := range map[attribute.Key]string{
		semconv.ServiceNameKey:           "ai-agents-directory",
		semconv.ServiceVersionKey:        "1.2.3",
		semconv.DeploymentEnvironmentKey: "staging",
	} {
		v, ok := set.Value(key)
		if !ok || v.AsString() != want {
			t.Errorf("resource %s = %q (present %v), want %q", key, v.AsString(), ok, want)
		}
	}
}
