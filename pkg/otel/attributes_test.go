package otel_test

import (
	"testing"

	"github.com/glitchcube/glitchcube-go/pkg/otel"
)

func TestIntentAttributes(t *testing.T) {
	persona := otel.IntentPersona("buddy")
	if persona.Key != otel.AttrIntentPersona || persona.Value.AsString() != "buddy" {
		t.Fatalf("expected intent.persona=buddy, got %v=%v", persona.Key, persona.Value.Emit())
	}

	outcome := otel.IntentOutcome("gave_up")
	if outcome.Key != otel.AttrIntentOutcome || outcome.Value.AsString() != "gave_up" {
		t.Fatalf("expected intent.outcome=gave_up, got %v=%v", outcome.Key, outcome.Value.Emit())
	}

	iter := otel.IntentIteration(3)
	if iter.Key != otel.AttrIntentIteration || iter.Value.AsInt64() != 3 {
		t.Fatalf("expected intent.iteration=3, got %v=%v", iter.Key, iter.Value.Emit())
	}
}

func TestLLMAttributes(t *testing.T) {
	provider := otel.LLMProvider("openrouter")
	if provider.Key != otel.AttrLLMProvider || provider.Value.AsString() != "openrouter" {
		t.Fatalf("expected llm.provider=openrouter, got %v=%v", provider.Key, provider.Value.Emit())
	}

	model := otel.LLMModel("openai/gpt-4o-mini")
	if model.Key != otel.AttrLLMModel || model.Value.AsString() != "openai/gpt-4o-mini" {
		t.Fatalf("expected llm.model attribute, got %v=%v", model.Key, model.Value.Emit())
	}
}

func TestLLMTokens(t *testing.T) {
	kvs := otel.LLMTokens(120, 48, 168)
	if len(kvs) != 3 {
		t.Fatalf("expected 3 token attributes, got %d", len(kvs))
	}
	if kvs[0].Key != otel.AttrLLMPromptTokens || kvs[0].Value.AsInt64() != 120 {
		t.Fatalf("expected prompt tokens 120, got %v", kvs[0])
	}
	if kvs[1].Key != otel.AttrLLMCompletionTokens || kvs[1].Value.AsInt64() != 48 {
		t.Fatalf("expected completion tokens 48, got %v", kvs[1])
	}
	if kvs[2].Key != otel.AttrLLMTotalTokens || kvs[2].Value.AsInt64() != 168 {
		t.Fatalf("expected total tokens 168, got %v", kvs[2])
	}
}

func TestToolAttributes(t *testing.T) {
	name := otel.ToolName("control_lights")
	if name.Key != otel.AttrToolName || name.Value.AsString() != "control_lights" {
		t.Fatalf("expected tool.name=control_lights, got %v=%v", name.Key, name.Value.Emit())
	}

	typ := otel.ToolExecutionType("async")
	if typ.Key != otel.AttrToolExecutionType || typ.Value.AsString() != "async" {
		t.Fatalf("expected tool.execution_type=async, got %v=%v", typ.Key, typ.Value.Emit())
	}

	dur := otel.ToolDuration(42)
	if dur.Key != otel.AttrToolDuration || dur.Value.AsInt64() != 42 {
		t.Fatalf("expected tool.duration_ms=42, got %v=%v", dur.Key, dur.Value.Emit())
	}
}

func TestHubService(t *testing.T) {
	kvs := otel.HubService("light", "turn_on")
	if len(kvs) != 2 {
		t.Fatalf("expected 2 hub attributes, got %d", len(kvs))
	}
	if kvs[0].Key != otel.AttrHubDomain || kvs[0].Value.AsString() != "light" {
		t.Fatalf("expected hub.domain=light, got %v", kvs[0])
	}
	if kvs[1].Key != otel.AttrHubService || kvs[1].Value.AsString() != "turn_on" {
		t.Fatalf("expected hub.service=turn_on, got %v", kvs[1])
	}
}

func TestErrorAttrs(t *testing.T) {
	kvs := otel.ErrorAttrs("rate_limited", "rate limit exceeded", true)
	if len(kvs) != 3 {
		t.Fatalf("expected 3 error attributes, got %d", len(kvs))
	}
	if kvs[0].Key != otel.AttrErrorType || kvs[0].Value.AsString() != "rate_limited" {
		t.Fatalf("expected error.type=rate_limited, got %v", kvs[0])
	}
	if kvs[1].Key != otel.AttrErrorMessage || kvs[1].Value.AsString() != "rate limit exceeded" {
		t.Fatalf("expected error.message attribute, got %v", kvs[1])
	}
	if kvs[2].Key != otel.AttrErrorRetryable || !kvs[2].Value.AsBool() {
		t.Fatalf("expected error.retryable=true, got %v", kvs[2])
	}
}
