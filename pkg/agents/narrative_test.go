package agents_test

import (
	"strings"
	"testing"

	"github.com/glitchcube/glitchcube-go/pkg/agents"
	"github.com/glitchcube/glitchcube-go/pkg/tools"
)

func TestFormatResultsForNarrative_EmptyMap(t *testing.T) {
	out := agents.FormatResultsForNarrative(nil)
	if out == "" {
		t.Fatal("expected non-empty acknowledgment for nil results")
	}

	out = agents.FormatResultsForNarrative(map[string]*tools.Result{})
	if out == "" {
		t.Fatal("expected non-empty acknowledgment for empty results")
	}
}

func TestFormatResultsForNarrative_MixedOutcomes(t *testing.T) {
	results := map[string]*tools.Result{
		"control_lights": tools.NewToolResult("control_lights", "lights on"),
		"play_sound":     {ToolName: "play_sound", Success: true, Message: tools.QueuedMessage},
		"set_mode":       tools.NewToolFailure("set_mode", "Unknown mode 'party'"),
	}

	out := agents.FormatResultsForNarrative(results)

	want := "Okay, adjusting the lights completed, " +
		"started playing a sound in the background, " +
		"but switching modes (Unknown mode 'party') failed."
	if out != want {
		t.Fatalf("unexpected narrative:\nwant %q\ngot  %q", want, out)
	}
}

func TestFormatResultsForNarrative_OnlyFailures(t *testing.T) {
	results := map[string]*tools.Result{
		"control_effects": tools.NewValidationFailure("control_effects", []string{"missing required parameter: effect"}),
	}

	out := agents.FormatResultsForNarrative(results)

	if !strings.Contains(out, "changing the light effect") || !strings.Contains(out, "failed") {
		t.Fatalf("expected failure narrative, got %q", out)
	}
	if strings.Contains(out, "but ") {
		t.Fatalf("expected no contrast clause without successes, got %q", out)
	}
}

func TestFormatResultsForNarrative_HumanizesUnknownTools(t *testing.T) {
	results := map[string]*tools.Result{
		"defragment_the_playa": tools.NewToolResult("defragment_the_playa", "done"),
	}

	out := agents.FormatResultsForNarrative(results)

	if !strings.Contains(out, "defragment the playa") {
		t.Fatalf("expected humanized identifier, got %q", out)
	}
}

func TestFormatResultsForNarrative_ManyCompleted(t *testing.T) {
	results := map[string]*tools.Result{
		"control_lights":  tools.NewToolResult("control_lights", "ok"),
		"control_effects": tools.NewToolResult("control_effects", "ok"),
		"read_sensor":     tools.NewToolResult("read_sensor", "ok"),
	}

	out := agents.FormatResultsForNarrative(results)

	// Oxford-style join keeps longer lists readable
	want := "Okay, changing the light effect, adjusting the lights, and checking the sensors completed."
	if out != want {
		t.Fatalf("unexpected narrative:\nwant %q\ngot  %q", want, out)
	}
}

func TestFormatResultsForNarrative_SkipsNilResults(t *testing.T) {
	results := map[string]*tools.Result{
		"control_lights": nil,
	}

	out := agents.FormatResultsForNarrative(results)

	if out == "" {
		t.Fatal("expected fallback acknowledgment, got empty string")
	}
	if strings.Contains(out, "adjusting the lights") {
		t.Fatalf("expected nil result to be skipped, got %q", out)
	}
}
