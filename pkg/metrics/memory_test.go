package metrics_test

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/glitchcube/glitchcube-go/pkg/metrics"
)

func TestMemoryStore_AppendAndSamples(t *testing.T) {
	store := metrics.NewMemoryStore(0)
	ctx := context.Background()
	now := time.Now()

	_ = store.Append(ctx, metrics.Sample{ToolName: "control_lights", DurationMs: 10, Success: true, RecordedAt: now})
	_ = store.Append(ctx, metrics.Sample{ToolName: "control_lights", DurationMs: 20, Success: false, RecordedAt: now})

	samples, err := store.Samples(ctx, "control_lights", now.Add(-time.Minute))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[0].DurationMs != 10 || samples[1].DurationMs != 20 {
		t.Fatalf("expected append order preserved, got %+v", samples)
	}
	if samples[1].Success {
		t.Fatal("expected failure flag preserved")
	}
}

func TestMemoryStore_SinceFilters(t *testing.T) {
	store := metrics.NewMemoryStore(0)
	ctx := context.Background()
	now := time.Now()

	_ = store.Append(ctx, metrics.Sample{ToolName: "set_mode", DurationMs: 1, RecordedAt: now.Add(-2 * time.Hour)})
	_ = store.Append(ctx, metrics.Sample{ToolName: "set_mode", DurationMs: 2, RecordedAt: now})

	samples, _ := store.Samples(ctx, "set_mode", now.Add(-time.Hour))
	if len(samples) != 1 || samples[0].DurationMs != 2 {
		t.Fatalf("expected only the recent sample, got %+v", samples)
	}
}

func TestMemoryStore_UnknownToolEmpty(t *testing.T) {
	store := metrics.NewMemoryStore(0)

	samples, err := store.Samples(context.Background(), "never_ran", time.Time{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(samples) != 0 {
		t.Fatalf("expected no samples, got %d", len(samples))
	}
}

func TestMemoryStore_ToolNamesSorted(t *testing.T) {
	store := metrics.NewMemoryStore(0)
	ctx := context.Background()
	now := time.Now()

	_ = store.Append(ctx, metrics.Sample{ToolName: "set_mode", RecordedAt: now})
	_ = store.Append(ctx, metrics.Sample{ToolName: "control_lights", RecordedAt: now})
	_ = store.Append(ctx, metrics.Sample{ToolName: "play_sound", RecordedAt: now})

	names, err := store.ToolNames(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []string{"control_lights", "play_sound", "set_mode"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
}

func TestMemoryStore_Clear(t *testing.T) {
	store := metrics.NewMemoryStore(0)
	ctx := context.Background()

	_ = store.Append(ctx, metrics.Sample{ToolName: "control_lights", RecordedAt: time.Now()})
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	names, _ := store.ToolNames(ctx)
	if len(names) != 0 {
		t.Fatalf("expected empty store, got %v", names)
	}
}

func TestMemoryStore_ConcurrentAppend(t *testing.T) {
	store := metrics.NewMemoryStore(0)
	ctx := context.Background()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Append(ctx, metrics.Sample{
				ToolName:   "control_lights",
				DurationMs: float64(n),
				Success:    true,
				RecordedAt: time.Now(),
			})
		}(i)
	}
	wg.Wait()

	samples, _ := store.Samples(ctx, "control_lights", time.Now().Add(-time.Minute))
	if len(samples) != 100 {
		t.Fatalf("expected 100 samples, got %d", len(samples))
	}
}
