package tools_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glitchcube/glitchcube-go/pkg/core/message"
	"github.com/glitchcube/glitchcube-go/pkg/tools"
)

// funcTool delegates execution to a pluggable function
type funcTool struct {
	*mockTool
	execute func(ctx context.Context, args map[string]interface{}) (*tools.Result, error)
}

func (f *funcTool) Execute(ctx context.Context, args map[string]interface{}) (*tools.Result, error) {
	return f.execute(ctx, args)
}

// metricSample captures one Record call
type metricSample struct {
	tool       string
	durationMs float64
	success    bool
	entityID   string
}

// recordingMetrics implements tools.MetricsRecorder for testing
type recordingMetrics struct {
	mu      sync.Mutex
	samples []metricSample
}

func (r *recordingMetrics) Record(toolName string, durationMs float64, success bool, entityID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, metricSample{toolName, durationMs, success, entityID})
}

func (r *recordingMetrics) all() []metricSample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]metricSample(nil), r.samples...)
}

// enqueueCall captures one Enqueue call
type enqueueCall struct {
	tool           string
	args           map[string]interface{}
	sessionID      string
	conversationID string
}

// recordingDispatcher implements tools.Dispatcher for testing
type recordingDispatcher struct {
	mu       sync.Mutex
	enqueued []enqueueCall
	err      error
}

func (r *recordingDispatcher) Enqueue(ctx context.Context, toolName string, args map[string]interface{}, sessionID, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.enqueued = append(r.enqueued, enqueueCall{toolName, args, sessionID, conversationID})
	return nil
}

func (r *recordingDispatcher) all() []enqueueCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]enqueueCall(nil), r.enqueued...)
}

func newTestExecutorRegistry() *tools.Registry {
	registry := tools.NewRegistry()

	lights := newLightsMock()

	sound := newMockTool("play_sound")
	sound.execType = tools.ExecutionAsync

	show := newMockTool("run_light_show")
	show.execType = tools.ExecutionAgent
	show.params = tools.ParameterSchema{
		Type: "object",
		Properties: map[string]tools.PropertySchema{
			"show": {Type: "string"},
		},
		Required: []string{"show"},
	}

	_ = registry.RegisterAll(lights, sound, show)
	return registry
}

func TestExecutor_Categorize(t *testing.T) {
	registry := newTestExecutorRegistry()
	executor := tools.NewExecutor(registry)

	batch := executor.Categorize([]message.ToolCall{
		message.NewToolCall("c1", "control_lights", nil),
		message.NewToolCall("c2", "play_sound", nil),
		message.NewToolCall("c3", "run_light_show", nil),
		message.NewToolCall("c4", "time_travel", nil),
	})

	if len(batch.Sync) != 1 || batch.Sync[0].Name != "control_lights" {
		t.Fatalf("expected control_lights in sync group, got %v", batch.Sync)
	}
	if len(batch.Async) != 1 || batch.Async[0].Name != "play_sound" {
		t.Fatalf("expected play_sound in async group, got %v", batch.Async)
	}
	if len(batch.Agent) != 1 || batch.Agent[0].Name != "run_light_show" {
		t.Fatalf("expected run_light_show in agent group, got %v", batch.Agent)
	}
}

func TestExecutor_ExecuteSyncRecordsSample(t *testing.T) {
	registry := tools.NewRegistry()
	tool := &funcTool{
		mockTool: newLightsMock(),
		execute: func(ctx context.Context, args map[string]interface{}) (*tools.Result, error) {
			return tools.NewToolResult("control_lights", "Turned on light.cube_inner"), nil
		},
	}
	_ = registry.Register(tool)
	metrics := &recordingMetrics{}
	executor := tools.NewExecutor(registry, tools.WithMetricsRecorder(metrics))

	results := executor.ExecuteSync(context.Background(), []message.ToolCall{
		message.NewToolCall("c1", "control_lights", map[string]interface{}{
			"state":  "on",
			"entity": "light.cube_inner",
		}),
	})

	result := results["control_lights"]
	if result == nil || !result.Success {
		t.Fatalf("expected success result, got %+v", result)
	}

	samples := metrics.all()
	if len(samples) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(samples))
	}
	sample := samples[0]
	if sample.tool != "control_lights" || !sample.success {
		t.Fatalf("expected success sample for control_lights, got %+v", sample)
	}
	if sample.entityID != "light.cube_inner" {
		t.Fatalf("expected entity from arguments, got %q", sample.entityID)
	}
	if sample.durationMs != result.DurationMs {
		t.Fatalf("expected sample duration %v to match result %v", sample.durationMs, result.DurationMs)
	}
}

func TestExecutor_ExecuteSyncValidationFailure(t *testing.T) {
	registry := tools.NewRegistry()
	executed := false
	tool := &funcTool{
		mockTool: newLightsMock(),
		execute: func(ctx context.Context, args map[string]interface{}) (*tools.Result, error) {
			executed = true
			return tools.NewToolResult("control_lights", "should not happen"), nil
		},
	}
	_ = registry.Register(tool)
	metrics := &recordingMetrics{}
	executor := tools.NewExecutor(registry, tools.WithMetricsRecorder(metrics))

	results := executor.ExecuteSync(context.Background(), []message.ToolCall{
		message.NewToolCall("c1", "control_lights", map[string]interface{}{}),
	})

	result := results["control_lights"]
	if result.Success {
		t.Fatalf("expected validation failure, got %+v", result)
	}
	if result.Error != tools.ValidationFailedError {
		t.Fatalf("expected %q, got %q", tools.ValidationFailedError, result.Error)
	}
	if len(result.Details) != 1 || result.Details[0] != "missing required parameter: state" {
		t.Fatalf("expected missing-parameter detail, got %v", result.Details)
	}
	if result.DurationMs != 0 {
		t.Fatalf("expected zero duration, got %v", result.DurationMs)
	}
	if executed {
		t.Fatal("tool must not execute when validation fails")
	}

	samples := metrics.all()
	if len(samples) != 1 || samples[0].success || samples[0].durationMs != 0 {
		t.Fatalf("expected one failed zero-duration sample, got %+v", samples)
	}
}

func TestExecutor_ExecuteSyncEveryAttemptMetered(t *testing.T) {
	registry := newTestExecutorRegistry()
	metrics := &recordingMetrics{}
	executor := tools.NewExecutor(registry, tools.WithMetricsRecorder(metrics))

	// One valid call, one invalid call, one unknown tool
	results := executor.ExecuteSync(context.Background(), []message.ToolCall{
		message.NewToolCall("c1", "control_lights", map[string]interface{}{"state": "on"}),
		message.NewToolCall("c2", "run_light_show", map[string]interface{}{"nonsense": true}),
		message.NewToolCall("c3", "does_not_exist", map[string]interface{}{}),
	})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !results["control_lights"].Success {
		t.Fatalf("expected control_lights to succeed, got %+v", results["control_lights"])
	}
	if results["does_not_exist"].Success {
		t.Fatal("expected unknown tool to fail")
	}
	if len(results["does_not_exist"].Details) != 1 ||
		results["does_not_exist"].Details[0] != "Tool 'does_not_exist' not found" {
		t.Fatalf("expected not-found detail, got %v", results["does_not_exist"].Details)
	}

	if len(metrics.all()) != 3 {
		t.Fatalf("expected a sample per attempt, got %d", len(metrics.all()))
	}
}

func TestExecutor_ExecuteSyncPanicBecomesFailure(t *testing.T) {
	registry := tools.NewRegistry()
	tool := &funcTool{
		mockTool: newMockTool("flaky"),
		execute: func(ctx context.Context, args map[string]interface{}) (*tools.Result, error) {
			panic("wiring on fire")
		},
	}
	_ = registry.Register(tool)
	metrics := &recordingMetrics{}
	executor := tools.NewExecutor(registry, tools.WithMetricsRecorder(metrics))

	results := executor.ExecuteSync(context.Background(), []message.ToolCall{
		message.NewToolCall("c1", "flaky", map[string]interface{}{}),
	})

	result := results["flaky"]
	if result.Success {
		t.Fatal("expected failure result")
	}
	if !strings.Contains(result.Error, "panic: wiring on fire") {
		t.Fatalf("expected panic message in error, got %q", result.Error)
	}

	samples := metrics.all()
	if len(samples) != 1 || samples[0].success {
		t.Fatalf("expected one failed sample, got %+v", samples)
	}
}

func TestExecutor_ExecuteSyncTimeout(t *testing.T) {
	registry := tools.NewRegistry()
	tool := &funcTool{
		mockTool: newMockTool("slow"),
		execute: func(ctx context.Context, args map[string]interface{}) (*tools.Result, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	_ = registry.Register(tool)
	executor := tools.NewExecutor(registry, tools.WithExecutorTimeout(20*time.Millisecond))

	done := make(chan map[string]*tools.Result, 1)
	go func() {
		done <- executor.ExecuteSync(context.Background(), []message.ToolCall{
			message.NewToolCall("c1", "slow", map[string]interface{}{}),
		})
	}()

	select {
	case results := <-done:
		result := results["slow"]
		if result.Success {
			t.Fatal("expected failure result")
		}
		if !strings.Contains(result.Error, "context deadline exceeded") {
			t.Fatalf("expected deadline error, got %q", result.Error)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("executor did not enforce the timeout")
	}
}

func TestExecutor_ExecuteAsyncEnqueues(t *testing.T) {
	registry := newTestExecutorRegistry()
	metrics := &recordingMetrics{}
	dispatcher := &recordingDispatcher{}
	executor := tools.NewExecutor(registry,
		tools.WithMetricsRecorder(metrics),
		tools.WithDispatcher(dispatcher),
	)

	results := executor.ExecuteAsync(context.Background(), []message.ToolCall{
		message.NewToolCall("c1", "play_sound", map[string]interface{}{"sound": "chime"}),
	}, "session-1", "conv-1")

	result := results["play_sound"]
	if !result.Success || result.Message != tools.QueuedMessage {
		t.Fatalf("expected queued placeholder, got %+v", result)
	}

	enqueued := dispatcher.all()
	if len(enqueued) != 1 {
		t.Fatalf("expected exactly one enqueue, got %d", len(enqueued))
	}
	call := enqueued[0]
	if call.tool != "play_sound" || call.sessionID != "session-1" || call.conversationID != "conv-1" {
		t.Fatalf("unexpected enqueue call %+v", call)
	}

	// The sample belongs to the worker that actually runs the tool
	if len(metrics.all()) != 0 {
		t.Fatalf("expected no samples on enqueue, got %d", len(metrics.all()))
	}
}

func TestExecutor_ExecuteAsyncValidationFailureNotEnqueued(t *testing.T) {
	registry := tools.NewRegistry()
	sound := newMockTool("play_sound")
	sound.execType = tools.ExecutionAsync
	sound.params = tools.ParameterSchema{
		Type: "object",
		Properties: map[string]tools.PropertySchema{
			"sound": {Type: "string"},
		},
		Required: []string{"sound"},
	}
	_ = registry.Register(sound)
	metrics := &recordingMetrics{}
	dispatcher := &recordingDispatcher{}
	executor := tools.NewExecutor(registry,
		tools.WithMetricsRecorder(metrics),
		tools.WithDispatcher(dispatcher),
	)

	results := executor.ExecuteAsync(context.Background(), []message.ToolCall{
		message.NewToolCall("c1", "play_sound", map[string]interface{}{}),
	}, "session-1", "conv-1")

	result := results["play_sound"]
	if result.Success || result.Error != tools.ValidationFailedError {
		t.Fatalf("expected validation failure, got %+v", result)
	}
	if len(dispatcher.all()) != 0 {
		t.Fatal("invalid calls must not be enqueued")
	}

	samples := metrics.all()
	if len(samples) != 1 || samples[0].success || samples[0].durationMs != 0 {
		t.Fatalf("expected one failed zero-duration sample, got %+v", samples)
	}
}

func TestExecutor_ExecuteAsyncWithoutDispatcher(t *testing.T) {
	registry := newTestExecutorRegistry()
	metrics := &recordingMetrics{}
	executor := tools.NewExecutor(registry, tools.WithMetricsRecorder(metrics))

	results := executor.ExecuteAsync(context.Background(), []message.ToolCall{
		message.NewToolCall("c1", "play_sound", map[string]interface{}{"sound": "chime"}),
	}, "session-1", "conv-1")

	result := results["play_sound"]
	if result.Success {
		t.Fatal("expected failure without a dispatcher")
	}
	if result.Error != "failed to queue tool call: queue unavailable" {
		t.Fatalf("expected queue-unavailable error, got %q", result.Error)
	}
	if len(metrics.all()) != 1 {
		t.Fatalf("expected one failed sample, got %d", len(metrics.all()))
	}
}

func TestExecutor_ExecuteAsyncDispatcherError(t *testing.T) {
	registry := newTestExecutorRegistry()
	dispatcher := &recordingDispatcher{err: fmt.Errorf("redis is down")}
	executor := tools.NewExecutor(registry, tools.WithDispatcher(dispatcher))

	results := executor.ExecuteAsync(context.Background(), []message.ToolCall{
		message.NewToolCall("c1", "play_sound", map[string]interface{}{"sound": "chime"}),
	}, "session-1", "conv-1")

	result := results["play_sound"]
	if result.Success {
		t.Fatal("expected failure when enqueue fails")
	}
	if !strings.Contains(result.Error, "failed to queue tool call") ||
		!strings.Contains(result.Error, "redis is down") {
		t.Fatalf("expected wrapped enqueue error, got %q", result.Error)
	}
}

func TestExecutor_ExecuteSingleAsync(t *testing.T) {
	registry := tools.NewRegistry()
	sound := newMockTool("play_sound")
	sound.execType = tools.ExecutionAsync
	sound.result = tools.NewToolResult("play_sound", "Playing 'chime'")
	_ = registry.Register(sound)
	metrics := &recordingMetrics{}
	executor := tools.NewExecutor(registry, tools.WithMetricsRecorder(metrics))

	result := executor.ExecuteSingleAsync(context.Background(), "play_sound",
		map[string]interface{}{"sound": "chime"}, "session-1", "conv-1")

	if !result.Success || result.Message != "Playing 'chime'" {
		t.Fatalf("expected tool result, got %+v", result)
	}

	samples := metrics.all()
	if len(samples) != 1 || !samples[0].success {
		t.Fatalf("expected one success sample from the worker path, got %+v", samples)
	}
}
