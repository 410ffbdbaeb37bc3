package llm_test

import (
	"strings"
	"testing"
	"time"

	"github.com/glitchcube/glitchcube-go/pkg/core/config"
	"github.com/glitchcube/glitchcube-go/pkg/core/errors"
	"github.com/glitchcube/glitchcube-go/pkg/core/llm"
	"github.com/glitchcube/glitchcube-go/pkg/core/message"
)

func TestFromConfig_DefaultsToOpenRouter(t *testing.T) {
	provider, err := llm.FromConfig(config.LLMConfig{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer provider.Close()

	if _, ok := provider.(*llm.OpenRouterClient); !ok {
		t.Fatalf("expected openrouter client, got %T", provider)
	}
	if provider.Model() != "openai/gpt-4o-mini" {
		t.Fatalf("expected default model, got %q", provider.Model())
	}
}

func TestFromConfig_OpenAI(t *testing.T) {
	provider, err := llm.FromConfig(config.LLMConfig{
		Provider: config.ProviderOpenAI,
		Model:    "gpt-4o",
		APIKey:   "test-key",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer provider.Close()

	if _, ok := provider.(*llm.OpenAIClient); !ok {
		t.Fatalf("expected openai client, got %T", provider)
	}
}

func TestFromConfig_FallbackModels(t *testing.T) {
	provider, err := llm.FromConfig(config.LLMConfig{
		APIKey:         "test-key",
		FallbackModels: []string{"anthropic/claude-3-haiku", "meta-llama/llama-3-8b"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer provider.Close()

	if _, ok := provider.(*llm.FallbackProvider); !ok {
		t.Fatalf("expected fallback provider, got %T", provider)
	}
	if provider.Name() != "fallback(openrouter)" {
		t.Fatalf("expected fallback identity, got %q", provider.Name())
	}
}

func TestFromConfig_MissingAPIKey(t *testing.T) {
	_, err := llm.FromConfig(config.LLMConfig{})
	if err != errors.ErrInvalidAPIKey {
		t.Fatalf("expected ErrInvalidAPIKey, got %v", err)
	}
}

func TestFromConfig_UnsupportedProvider(t *testing.T) {
	_, err := llm.FromConfig(config.LLMConfig{
		Provider: "carrier_pigeon",
		Model:    "homing-pigeon-1",
		APIKey:   "test-key",
	})
	if err == nil || !strings.Contains(err.Error(), "unsupported provider") {
		t.Fatalf("expected unsupported provider error, got %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := llm.DefaultConfig()
	if cfg.Provider != config.ProviderOpenRouter || cfg.Model != "openai/gpt-4o-mini" {
		t.Fatalf("expected openrouter defaults, got %+v", cfg)
	}
	if cfg.Timeout != 30*time.Second || cfg.MaxRetries != 3 || cfg.RetryDelay != time.Second {
		t.Fatalf("expected transport defaults, got %+v", cfg)
	}
}

func TestRequestOptions(t *testing.T) {
	req := llm.Request{Messages: []message.Message{message.NewUserMessage("hello")}}

	opts := []llm.RequestOption{
		llm.WithRequestTemperature(0.7),
		llm.WithRequestMaxTokens(256),
		llm.WithTools([]llm.ToolDefinition{{Name: "control_lights"}}),
		llm.WithToolChoice("auto"),
		llm.WithStop([]string{"\n\n"}),
	}
	for _, opt := range opts {
		opt(&req)
	}

	if req.Temperature == nil || *req.Temperature != 0.7 {
		t.Fatalf("expected temperature set, got %v", req.Temperature)
	}
	if req.MaxTokens == nil || *req.MaxTokens != 256 {
		t.Fatalf("expected max tokens set, got %v", req.MaxTokens)
	}
	if len(req.Tools) != 1 || req.Tools[0].Name != "control_lights" {
		t.Fatalf("expected tools set, got %+v", req.Tools)
	}
	if req.ToolChoice != "auto" {
		t.Fatalf("expected tool choice set, got %v", req.ToolChoice)
	}
	if len(req.Stop) != 1 {
		t.Fatalf("expected stop sequence set, got %v", req.Stop)
	}
}

func TestResponse_HasToolCalls(t *testing.T) {
	resp := llm.Response{Content: "plain text"}
	if resp.HasToolCalls() {
		t.Fatal("expected no tool calls")
	}

	resp.ToolCalls = []message.ToolCall{{ID: "call_1", Name: "set_mode"}}
	if !resp.HasToolCalls() {
		t.Fatal("expected tool calls to be detected")
	}
}
