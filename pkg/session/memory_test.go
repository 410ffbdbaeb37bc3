package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/glitchcube/glitchcube-go/pkg/core/errors"
	"github.com/glitchcube/glitchcube-go/pkg/core/message"
	"github.com/glitchcube/glitchcube-go/pkg/session"
	"github.com/glitchcube/glitchcube-go/pkg/tools"
)

func TestSessionFor(t *testing.T) {
	if got := session.SessionFor("01HX5KQT"); got != "voice_01HX5KQT" {
		t.Fatalf("expected voice_01HX5KQT, got %s", got)
	}
}

func TestGoal_Expired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"no expiry", time.Time{}, false},
		{"future expiry", now.Add(time.Hour), false},
		{"past expiry", now.Add(-time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := session.Goal{ID: "g1", Description: "glow warmly", ExpiresAt: tt.expiresAt}
			if got := g.Expired(now); got != tt.want {
				t.Fatalf("expected Expired=%v, got %v", tt.want, got)
			}
		})
	}
}

func TestMemoryStore_AppendAndHistory(t *testing.T) {
	store := session.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	_ = store.AppendMessage(ctx, "voice_a", message.NewUserMessage("hello cube"))
	_ = store.AppendMessage(ctx, "voice_a", message.NewAssistantMessage("hi there"))
	_ = store.AppendMessage(ctx, "voice_a", message.NewToolMessage("call_1", "play_sound", "Playing 'chime'"))

	history, err := store.History(ctx, "voice_a", 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(history))
	}
	if history[0].Role != message.RoleUser || history[0].Content != "hello cube" {
		t.Fatalf("expected user message first, got %+v", history[0])
	}
	if history[1].Role != message.RoleAssistant {
		t.Fatalf("expected assistant message second, got %+v", history[1])
	}
	if history[2].Name != "play_sound" || history[2].ToolCallID != "call_1" {
		t.Fatalf("expected tool message fields preserved, got %+v", history[2])
	}
}

func TestMemoryStore_HistoryLimit(t *testing.T) {
	store := session.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	contents := []string{"m1", "m2", "m3", "m4", "m5"}
	for _, c := range contents {
		_ = store.AppendMessage(ctx, "voice_a", message.NewUserMessage(c))
	}

	history, _ := store.History(ctx, "voice_a", 2)
	if len(history) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(history))
	}
	if history[0].Content != "m4" || history[1].Content != "m5" {
		t.Fatalf("expected the last two messages in order, got %+v", history)
	}

	// A limit larger than the stored history returns everything
	history, _ = store.History(ctx, "voice_a", 10)
	if len(history) != 5 {
		t.Fatalf("expected all 5 messages, got %d", len(history))
	}
}

func TestMemoryStore_HistoryReturnsCopy(t *testing.T) {
	store := session.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	_ = store.AppendMessage(ctx, "voice_a", message.NewUserMessage("original"))

	history, _ := store.History(ctx, "voice_a", 0)
	history[0].Content = "tampered"

	again, _ := store.History(ctx, "voice_a", 0)
	if again[0].Content != "original" {
		t.Fatalf("expected stored message untouched, got %q", again[0].Content)
	}
}

func TestMemoryStore_HistoryFillsZeroTimestamp(t *testing.T) {
	store := session.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	_ = store.AppendMessage(ctx, "voice_a", message.Message{Role: message.RoleUser, Content: "no clock"})

	history, _ := store.History(ctx, "voice_a", 0)
	if len(history) != 1 {
		t.Fatalf("expected 1 message, got %d", len(history))
	}
	if history[0].Timestamp.IsZero() {
		t.Fatal("expected timestamp to be filled on append")
	}
}

func TestMemoryStore_HistoryUnknownConversation(t *testing.T) {
	store := session.NewMemoryStore()
	defer store.Close()

	history, err := store.History(context.Background(), "voice_nobody", 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d messages", len(history))
	}
}

func TestMemoryStore_ConversationsIsolated(t *testing.T) {
	store := session.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	_ = store.AppendMessage(ctx, "voice_a", message.NewUserMessage("for a"))
	_ = store.AppendMessage(ctx, "voice_b", message.NewUserMessage("for b"))

	history, _ := store.History(ctx, "voice_a", 0)
	if len(history) != 1 || history[0].Content != "for a" {
		t.Fatalf("expected only conversation a's message, got %+v", history)
	}
}

func TestMemoryStore_SaveGoalOverwrites(t *testing.T) {
	store := session.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	_ = store.SaveGoal(ctx, session.Goal{ID: "g1", Description: "make friends"})
	_ = store.SaveGoal(ctx, session.Goal{ID: "g2", Description: "learn a joke", PersonaID: "buddy"})

	goal, err := store.CurrentGoal(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if goal.ID != "g2" || goal.Description != "learn a joke" || goal.PersonaID != "buddy" {
		t.Fatalf("expected the newer goal, got %+v", goal)
	}
}

func TestMemoryStore_SaveGoalFillsCreatedAt(t *testing.T) {
	store := session.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	_ = store.SaveGoal(ctx, session.Goal{ID: "g1", Description: "hum quietly"})

	goal, err := store.CurrentGoal(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if goal.CreatedAt.IsZero() {
		t.Fatal("expected creation time to be filled on save")
	}
}

func TestMemoryStore_CurrentGoalNotFound(t *testing.T) {
	store := session.NewMemoryStore()
	defer store.Close()

	_, err := store.CurrentGoal(context.Background())
	if err != errors.ErrGoalNotFound {
		t.Fatalf("expected ErrGoalNotFound, got %v", err)
	}
}

func TestMemoryStore_ExpiredGoalNotReturned(t *testing.T) {
	store := session.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	_ = store.SaveGoal(ctx, session.Goal{
		ID:          "g1",
		Description: "was supposed to be done by now",
		ExpiresAt:   time.Now().Add(-time.Minute),
	})

	_, err := store.CurrentGoal(ctx)
	if err != errors.ErrGoalNotFound {
		t.Fatalf("expected ErrGoalNotFound for expired goal, got %v", err)
	}
}

func TestMemoryStore_GoalWithoutExpiryNeverExpires(t *testing.T) {
	store := session.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	_ = store.SaveGoal(ctx, session.Goal{
		ID:          "g1",
		Description: "keep the playa company",
		CreatedAt:   time.Now().Add(-365 * 24 * time.Hour),
	})

	goal, err := store.CurrentGoal(ctx)
	if err != nil {
		t.Fatalf("expected goal without expiry to survive, got %v", err)
	}
	if goal.ID != "g1" {
		t.Fatalf("expected g1, got %+v", goal)
	}
}

func TestMemoryStore_CurrentGoalReturnsCopy(t *testing.T) {
	store := session.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	_ = store.SaveGoal(ctx, session.Goal{ID: "g1", Description: "original"})

	goal, _ := store.CurrentGoal(ctx)
	goal.Description = "tampered"

	again, _ := store.CurrentGoal(ctx)
	if again.Description != "original" {
		t.Fatalf("expected stored goal untouched, got %q", again.Description)
	}
}

func TestMemoryStore_ClearGoal(t *testing.T) {
	store := session.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	_ = store.SaveGoal(ctx, session.Goal{ID: "g1", Description: "short lived"})
	if err := store.ClearGoal(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err := store.CurrentGoal(ctx)
	if err != errors.ErrGoalNotFound {
		t.Fatalf("expected ErrGoalNotFound after clear, got %v", err)
	}
}

func TestMemoryStore_PendingResultsTakeAndClear(t *testing.T) {
	store := session.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	first := tools.NewToolResult("play_sound", "Playing 'chime'")
	second := tools.NewToolFailure("run_light_show", "hub is offline")
	_ = store.PutPendingResult(ctx, "voice_a", first)
	_ = store.PutPendingResult(ctx, "voice_a", second)

	results, err := store.TakePendingResults(ctx, "voice_a")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 pending results, got %d", len(results))
	}
	if results[0].Result.ToolName != "play_sound" || !results[0].Result.Success {
		t.Fatalf("expected first result preserved in order, got %+v", results[0].Result)
	}
	if results[1].Result.Error != "hub is offline" {
		t.Fatalf("expected failure preserved, got %+v", results[1].Result)
	}
	if results[0].StoredAt.IsZero() {
		t.Fatal("expected stored-at time to be set")
	}

	// Taking is destructive: a second take finds nothing
	results, _ = store.TakePendingResults(ctx, "voice_a")
	if len(results) != 0 {
		t.Fatalf("expected results to be cleared after take, got %d", len(results))
	}
}

func TestMemoryStore_PendingResultsPerSession(t *testing.T) {
	store := session.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	_ = store.PutPendingResult(ctx, "voice_a", tools.NewToolResult("play_sound", "for a"))
	_ = store.PutPendingResult(ctx, "voice_b", tools.NewToolResult("play_sound", "for b"))

	results, _ := store.TakePendingResults(ctx, "voice_a")
	if len(results) != 1 || results[0].Result.Message != "for a" {
		t.Fatalf("expected only session a's result, got %+v", results)
	}

	// Session b's result is untouched by a's take
	results, _ = store.TakePendingResults(ctx, "voice_b")
	if len(results) != 1 || results[0].Result.Message != "for b" {
		t.Fatalf("expected session b's result intact, got %+v", results)
	}
}

func TestMemoryStore_PutNilPendingResult(t *testing.T) {
	store := session.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	if err := store.PutPendingResult(ctx, "voice_a", nil); err != nil {
		t.Fatalf("expected nil result to be ignored, got %v", err)
	}

	results, _ := store.TakePendingResults(ctx, "voice_a")
	if len(results) != 0 {
		t.Fatalf("expected no pending results, got %d", len(results))
	}
}
