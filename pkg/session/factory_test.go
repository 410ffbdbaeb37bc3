package session_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glitchcube/glitchcube-go/pkg/core/config"
	"github.com/glitchcube/glitchcube-go/pkg/core/message"
	"github.com/glitchcube/glitchcube-go/pkg/session"
)

func TestNewStore_DefaultsToMemory(t *testing.T) {
	store, err := session.NewStore(config.SessionConfig{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer store.Close()

	if _, ok := store.(*session.MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}
}

func TestNewStore_SQLite(t *testing.T) {
	store, err := session.NewStore(config.SessionConfig{
		Backend: config.SessionBackendSQLite,
		Path:    filepath.Join(t.TempDir(), "glitchcube.db"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer store.Close()

	if _, ok := store.(*session.SQLiteStore); !ok {
		t.Fatalf("expected sqlite store, got %T", store)
	}

	ctx := context.Background()
	if err := store.AppendMessage(ctx, "voice_a", message.NewUserMessage("hello")); err != nil {
		t.Fatalf("expected live store, got %v", err)
	}
	history, _ := store.History(ctx, "voice_a", 0)
	if len(history) != 1 {
		t.Fatalf("expected round trip through sqlite, got %d messages", len(history))
	}
}

func TestNewStore_InvalidBackend(t *testing.T) {
	_, err := session.NewStore(config.SessionConfig{Backend: "punch_cards"})
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
