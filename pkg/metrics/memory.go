package metrics

import (
	"context"
	"sort"
	"sync"
	"time"
)

// pruneThreshold 单个工具的样本数超过此值时触发一次物理清理
const pruneThreshold = 4096

// MemoryStore 内存样本存储
//
// 默认实现,适合测试和单机运行。窗口外的样本在追加时偶尔
// 物理清理,查询时始终按时间过滤。
type MemoryStore struct {
	mu      sync.RWMutex
	samples map[string][]Sample
	window  time.Duration
}

// NewMemoryStore 创建内存样本存储
func NewMemoryStore(window time.Duration) *MemoryStore {
	if window <= 0 {
		window = 7 * 24 * time.Hour
	}
	return &MemoryStore{
		samples: make(map[string][]Sample),
		window:  window,
	}
}

// Append 追加一条样本
func (s *MemoryStore) Append(_ context.Context, sample Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := append(s.samples[sample.ToolName], sample)
	if len(list) > pruneThreshold {
		list = pruneBefore(list, time.Now().Add(-s.window))
	}
	s.samples[sample.ToolName] = list
	return nil
}

// Samples 返回某工具自 since 以来的样本
func (s *MemoryStore) Samples(_ context.Context, toolName string, since time.Time) ([]Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Sample
	for _, sample := range s.samples[toolName] {
		if sample.RecordedAt.Before(since) {
			continue
		}
		out = append(out, sample)
	}
	return out, nil
}

// ToolNames 返回出现过样本的工具名,按名称排序
func (s *MemoryStore) ToolNames(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.samples))
	for name := range s.samples {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Clear 清空全部样本
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = make(map[string][]Sample)
	return nil
}

// Close 关闭存储
func (s *MemoryStore) Close() error {
	return nil
}

// pruneBefore 丢弃 cutoff 之前的样本
func pruneBefore(list []Sample, cutoff time.Time) []Sample {
	kept := list[:0]
	for _, sample := range list {
		if sample.RecordedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, sample)
	}
	return kept
}

// compile-time interface check
var _ Store = (*MemoryStore)(nil)
