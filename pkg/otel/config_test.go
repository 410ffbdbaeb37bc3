package otel_test

import (
	"testing"
	"time"

	appconfig "github.com/glitchcube/glitchcube-go/pkg/core/config"
	"github.com/glitchcube/glitchcube-go/pkg/otel"
)

func TestDefaultConfig(t *testing.T) {
	cfg := otel.DefaultConfig()

	if cfg.Enabled {
		t.Fatalf("expected observability disabled by default")
	}
	if cfg.ServiceName != "glitchcube" {
		t.Fatalf("expected service name glitchcube, got %q", cfg.ServiceName)
	}
	if cfg.ServiceVersion != "0.1.0" {
		t.Fatalf("expected service version 0.1.0, got %q", cfg.ServiceVersion)
	}
	if cfg.Environment != "playa" {
		t.Fatalf("expected environment playa, got %q", cfg.Environment)
	}

	if cfg.Tracing.Enabled {
		t.Fatalf("expected tracing disabled by default")
	}
	if cfg.Tracing.Endpoint != "localhost:4317" {
		t.Fatalf("expected tracing endpoint localhost:4317, got %q", cfg.Tracing.Endpoint)
	}
	if !cfg.Tracing.Insecure {
		t.Fatalf("expected insecure tracing by default")
	}
	if cfg.Tracing.SampleRate != 1.0 {
		t.Fatalf("expected sample rate 1.0, got %v", cfg.Tracing.SampleRate)
	}
	if cfg.Tracing.Timeout != 30*time.Second {
		t.Fatalf("expected tracing timeout 30s, got %v", cfg.Tracing.Timeout)
	}

	if cfg.Metrics.Enabled {
		t.Fatalf("expected metrics disabled by default")
	}
	if cfg.Metrics.Interval != 60*time.Second {
		t.Fatalf("expected metrics interval 60s, got %v", cfg.Metrics.Interval)
	}

	if cfg.Logging.Level != "info" {
		t.Fatalf("expected log level info, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Fatalf("expected log format text, got %q", cfg.Logging.Format)
	}
	if !cfg.Logging.IncludeTraceID {
		t.Fatalf("expected trace IDs included in logs by default")
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := otel.Config{ServiceName: "cube-art-project"}
	got := cfg.WithDefaults()

	if got.ServiceName != "cube-art-project" {
		t.Fatalf("expected explicit service name kept, got %q", got.ServiceName)
	}
	if got.ServiceVersion != "0.1.0" {
		t.Fatalf("expected service version backfilled, got %q", got.ServiceVersion)
	}
	if got.Environment != "playa" {
		t.Fatalf("expected environment backfilled, got %q", got.Environment)
	}
	if got.Tracing.Endpoint != "localhost:4317" {
		t.Fatalf("expected tracing endpoint backfilled, got %q", got.Tracing.Endpoint)
	}
	if got.Tracing.SampleRate != 1.0 {
		t.Fatalf("expected sample rate backfilled, got %v", got.Tracing.SampleRate)
	}
	if got.Tracing.Timeout != 30*time.Second {
		t.Fatalf("expected tracing timeout backfilled, got %v", got.Tracing.Timeout)
	}
	// an empty metrics endpoint selects the in-memory backend, so it must
	// survive defaulting untouched
	if got.Metrics.Endpoint != "" {
		t.Fatalf("expected metrics endpoint left empty, got %q", got.Metrics.Endpoint)
	}
	if got.Metrics.Interval != 60*time.Second {
		t.Fatalf("expected metrics interval backfilled, got %v", got.Metrics.Interval)
	}
	if got.Logging.Level != "info" || got.Logging.Format != "text" {
		t.Fatalf("expected logging defaults backfilled, got %q/%q", got.Logging.Level, got.Logging.Format)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rate    float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"half", 0.5, false},
		{"full", 1.0, false},
		{"negative", -0.1, true},
		{"above one", 1.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := otel.Config{Tracing: otel.TracingConfig{SampleRate: tt.rate}}
			err := cfg.Validate()
			if tt.wantErr {
				if err != otel.ErrInvalidSampleRate {
					t.Fatalf("expected ErrInvalidSampleRate, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	app := appconfig.ObservabilityConfig{
		Enabled:         true,
		ServiceName:     "cube-art-project",
		TracerEndpoint:  "collector.playa.lan:4317",
		MetricsEndpoint: "collector.playa.lan:4317",
		SampleRate:      0.25,
	}

	cfg := otel.FromAppConfig(app)

	if !cfg.Enabled {
		t.Fatalf("expected observability enabled")
	}
	if cfg.ServiceName != "cube-art-project" {
		t.Fatalf("expected service name from app config, got %q", cfg.ServiceName)
	}
	if !cfg.Tracing.Enabled {
		t.Fatalf("expected tracing enabled when a tracer endpoint is set")
	}
	if cfg.Tracing.Endpoint != "collector.playa.lan:4317" {
		t.Fatalf("expected tracer endpoint forwarded, got %q", cfg.Tracing.Endpoint)
	}
	if !cfg.Tracing.Insecure {
		t.Fatalf("expected insecure transport")
	}
	if cfg.Tracing.SampleRate != 0.25 {
		t.Fatalf("expected sample rate 0.25, got %v", cfg.Tracing.SampleRate)
	}
	if cfg.Tracing.Timeout != 30*time.Second {
		t.Fatalf("expected tracing timeout backfilled, got %v", cfg.Tracing.Timeout)
	}
	if !cfg.Metrics.Enabled {
		t.Fatalf("expected metrics enabled")
	}
	if cfg.Metrics.Endpoint != "collector.playa.lan:4317" {
		t.Fatalf("expected metrics endpoint forwarded, got %q", cfg.Metrics.Endpoint)
	}
	if cfg.ServiceVersion != "0.1.0" {
		t.Fatalf("expected service version backfilled, got %q", cfg.ServiceVersion)
	}
}

func TestFromAppConfig_NoTracerEndpoint(t *testing.T) {
	app := appconfig.ObservabilityConfig{
		Enabled:     true,
		ServiceName: "glitchcube",
	}

	cfg := otel.FromAppConfig(app)

	if cfg.Tracing.Enabled {
		t.Fatalf("expected tracing disabled without a tracer endpoint")
	}
	if !cfg.Metrics.Enabled {
		t.Fatalf("expected metrics enabled")
	}
	// no metrics endpoint means the in-memory backend
	if cfg.Metrics.Endpoint != "" {
		t.Fatalf("expected empty metrics endpoint, got %q", cfg.Metrics.Endpoint)
	}
	if cfg.Tracing.SampleRate != 1.0 {
		t.Fatalf("expected sample rate backfilled, got %v", cfg.Tracing.SampleRate)
	}
}

func TestFromAppConfig_Disabled(t *testing.T) {
	cfg := otel.FromAppConfig(appconfig.ObservabilityConfig{})

	if cfg.Enabled {
		t.Fatalf("expected observability disabled")
	}
	if cfg.Tracing.Enabled {
		t.Fatalf("expected tracing disabled")
	}
	if cfg.Metrics.Enabled {
		t.Fatalf("expected metrics disabled")
	}
	if cfg.ServiceName != "glitchcube" {
		t.Fatalf("expected default service name, got %q", cfg.ServiceName)
	}
}
