package llm_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	cubeerrors "github.com/glitchcube/glitchcube-go/pkg/core/errors"
	"github.com/glitchcube/glitchcube-go/pkg/core/llm"
	"github.com/glitchcube/glitchcube-go/pkg/core/message"
)

// fakeProvider 可编排失败序列的测试提供商
type fakeProvider struct {
	name    string
	model   string
	content string
	// err 设置后每次调用都失败
	err error
	// errs 按调用顺序消费,nil 表示成功
	errs []error

	mu     sync.Mutex
	calls  int
	closed bool
}

func (f *fakeProvider) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	err := f.err
	if err == nil && len(f.errs) > 0 {
		err = f.errs[0]
		f.errs = f.errs[1:]
	}
	if err != nil {
		return llm.Response{}, err
	}
	return llm.Response{Content: f.content, FinishReason: "stop"}, nil
}

func (f *fakeProvider) Name() string  { return f.name }
func (f *fakeProvider) Model() string { return f.model }

func (f *fakeProvider) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeProvider) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func helloRequest() llm.Request {
	return llm.Request{Messages: []message.Message{message.NewUserMessage("hello")}}
}

func TestFallbackProvider_UsesPrimary(t *testing.T) {
	primary := &fakeProvider{name: "primary", model: "model-a", content: "from primary"}
	fallback := &fakeProvider{name: "backup", model: "model-b", content: "from fallback"}
	provider := llm.NewFallbackProvider(primary, []llm.Provider{fallback})

	resp, err := provider.Generate(context.Background(), helloRequest())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Content != "from primary" {
		t.Fatalf("expected primary response, got %q", resp.Content)
	}
	if fallback.callCount() != 0 {
		t.Fatalf("expected fallback untouched, got %d calls", fallback.callCount())
	}
}

func TestFallbackProvider_FailsOver(t *testing.T) {
	primary := &fakeProvider{name: "primary", model: "model-a", errs: []error{cubeerrors.ErrProviderUnavailable}}
	fallback := &fakeProvider{name: "backup", model: "model-b", content: "from fallback"}
	provider := llm.NewFallbackProvider(primary, []llm.Provider{fallback})

	resp, err := provider.Generate(context.Background(), helloRequest())
	if err != nil {
		t.Fatalf("expected fallback to cover the failure, got %v", err)
	}
	if resp.Content != "from fallback" {
		t.Fatalf("expected fallback response, got %q", resp.Content)
	}

	// The failed primary is skipped while it is marked unhealthy
	if _, err := provider.Generate(context.Background(), helloRequest()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if primary.callCount() != 1 {
		t.Fatalf("expected unhealthy primary to be skipped, got %d calls", primary.callCount())
	}
	if fallback.callCount() != 2 {
		t.Fatalf("expected fallback to serve both requests, got %d calls", fallback.callCount())
	}
}

func TestFallbackProvider_RetriesPrimaryAfterInterval(t *testing.T) {
	primary := &fakeProvider{name: "primary", model: "model-a", content: "from primary", errs: []error{cubeerrors.ErrProviderUnavailable}}
	fallback := &fakeProvider{name: "backup", model: "model-b", content: "from fallback"}
	provider := llm.NewFallbackProvider(primary, []llm.Provider{fallback},
		llm.WithFallbackCheckInterval(10*time.Millisecond))

	if _, err := provider.Generate(context.Background(), helloRequest()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	time.Sleep(25 * time.Millisecond)

	resp, err := provider.Generate(context.Background(), helloRequest())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Content != "from primary" {
		t.Fatalf("expected recovered primary to serve, got %q", resp.Content)
	}
	if primary.callCount() != 2 {
		t.Fatalf("expected primary retried after interval, got %d calls", primary.callCount())
	}
}

func TestFallbackProvider_AllFail(t *testing.T) {
	primary := &fakeProvider{name: "primary", model: "model-a", err: cubeerrors.ErrProviderUnavailable}
	fallback := &fakeProvider{name: "backup", model: "model-b", err: cubeerrors.ErrTimeout}
	provider := llm.NewFallbackProvider(primary, []llm.Provider{fallback})

	_, err := provider.Generate(context.Background(), helloRequest())
	if err == nil {
		t.Fatal("expected error when every provider fails")
	}
	if !strings.Contains(err.Error(), "all providers failed") {
		t.Fatalf("expected aggregate error, got %v", err)
	}
	if !errors.Is(err, cubeerrors.ErrTimeout) {
		t.Fatalf("expected last error wrapped, got %v", err)
	}
}

func TestFallbackProvider_NameAndModel(t *testing.T) {
	primary := &fakeProvider{name: "openrouter", model: "openai/gpt-4o-mini"}
	provider := llm.NewFallbackProvider(primary, nil)

	if provider.Name() != "fallback(openrouter)" {
		t.Fatalf("expected wrapped name, got %q", provider.Name())
	}
	if provider.Model() != "openai/gpt-4o-mini" {
		t.Fatalf("expected primary model, got %q", provider.Model())
	}
}

func TestFallbackProvider_CloseClosesAll(t *testing.T) {
	primary := &fakeProvider{name: "primary", model: "model-a"}
	first := &fakeProvider{name: "backup-1", model: "model-b"}
	second := &fakeProvider{name: "backup-2", model: "model-c"}
	provider := llm.NewFallbackProvider(primary, []llm.Provider{first, second})

	if err := provider.Close(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !primary.isClosed() || !first.isClosed() || !second.isClosed() {
		t.Fatal("expected every provider to be closed")
	}
}
