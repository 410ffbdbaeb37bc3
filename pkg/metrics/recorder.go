package metrics

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/glitchcube/glitchcube-go/pkg/tools"
)

// recordTimeout 单次样本写入的超时
const recordTimeout = 2 * time.Second

// Stats 某工具在窗口内的聚合统计
//
// Count 为 0 时其余字段全为零值。
type Stats struct {
	// Count 样本数量
	Count int `json:"count"`
	// Failures 失败样本数量
	Failures int `json:"failures"`
	// Min 最小耗时(毫秒)
	Min float64 `json:"min"`
	// Max 最大耗时(毫秒)
	Max float64 `json:"max"`
	// Avg 平均耗时(毫秒)
	Avg float64 `json:"avg"`
	// P50 中位耗时(毫秒)
	P50 float64 `json:"p50"`
	// P95 95 分位耗时(毫秒)
	P95 float64 `json:"p95"`
	// P99 99 分位耗时(毫秒)
	P99 float64 `json:"p99"`
}

// ToolSummary 单个工具的统计与建议
type ToolSummary struct {
	Stats          Stats          `json:"stats"`
	Recommendation Recommendation `json:"recommendation"`
}

// Recorder 样本记录与聚合查询的入口
//
// Record 满足执行器的记录边界:存储故障仅记日志,调用方
// 永远不会因为指标问题失败。
type Recorder struct {
	store  Store
	logger *slog.Logger
	window time.Duration
}

// RecorderOption Recorder 配置选项
type RecorderOption func(*Recorder)

// WithRecorderWindow 设置聚合查询的时间窗口
func WithRecorderWindow(window time.Duration) RecorderOption {
	return func(r *Recorder) {
		if window > 0 {
			r.window = window
		}
	}
}

// WithRecorderLogger 设置日志器
func WithRecorderLogger(l *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRecorder 创建记录器
func NewRecorder(store Store, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		store:  store,
		logger: slog.Default(),
		window: 7 * 24 * time.Hour,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Record 记录一条执行样本
//
// 不接收上下文:执行路径不应因指标存储被取消或拖慢,
// 写入使用独立的短超时。
func (r *Recorder) Record(toolName string, durationMs float64, success bool, entityID string) {
	sample := Sample{
		ToolName:   toolName,
		DurationMs: durationMs,
		Success:    success,
		EntityID:   entityID,
		RecordedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := r.store.Append(ctx, sample); err != nil {
		r.logger.Warn("metrics append failed", "tool", toolName, "error", err)
	}
}

// StatsFor 返回某工具在窗口内的聚合统计
//
// 存储故障按无样本处理,返回零值统计。
func (r *Recorder) StatsFor(ctx context.Context, toolName string) Stats {
	samples, err := r.store.Samples(ctx, toolName, time.Now().Add(-r.window))
	if err != nil {
		r.logger.Warn("metrics query failed", "tool", toolName, "error", err)
		return Stats{}
	}
	return computeStats(samples)
}

// RecommendationFor 按窗口内的 p95 给出执行方式建议
//
// 没有样本时返回 MaybeSync:一无所知的工具既不该被武断地
// 拖进同步路径,也不该直接丢给队列。
func (r *Recorder) RecommendationFor(ctx context.Context, toolName string) Recommendation {
	stats := r.StatsFor(ctx, toolName)
	if stats.Count == 0 {
		return RecommendationMaybeSync
	}
	return RecommendFromP95(stats.P95)
}

// RecommendationForAdjusted 按叠加网络开销后的 p95 给出建议
func (r *Recorder) RecommendationForAdjusted(ctx context.Context, toolName string) Recommendation {
	stats := r.StatsFor(ctx, toolName)
	if stats.Count == 0 {
		return RecommendationMaybeSync
	}
	return RecommendFromP95(PlayaAdjusted(stats.P95))
}

// Summary 返回全部工具的统计与建议
func (r *Recorder) Summary(ctx context.Context) map[string]ToolSummary {
	names, err := r.store.ToolNames(ctx)
	if err != nil {
		r.logger.Warn("metrics summary failed", "error", err)
		return map[string]ToolSummary{}
	}

	out := make(map[string]ToolSummary, len(names))
	for _, name := range names {
		stats := r.StatsFor(ctx, name)
		rec := RecommendationMaybeSync
		if stats.Count > 0 {
			rec = RecommendFromP95(stats.P95)
		}
		out[name] = ToolSummary{Stats: stats, Recommendation: rec}
	}
	return out
}

// ClearAll 清空全部样本
func (r *Recorder) ClearAll(ctx context.Context) error {
	return r.store.Clear(ctx)
}

// Close 关闭底层存储
func (r *Recorder) Close() error {
	return r.store.Close()
}

// computeStats 聚合样本列表
func computeStats(samples []Sample) Stats {
	if len(samples) == 0 {
		return Stats{}
	}

	durations := make([]float64, 0, len(samples))
	stats := Stats{Count: len(samples)}
	var sum float64

	for i, sample := range samples {
		d := sample.DurationMs
		durations = append(durations, d)
		sum += d
		if !sample.Success {
			stats.Failures++
		}
		if i == 0 || d < stats.Min {
			stats.Min = d
		}
		if d > stats.Max {
			stats.Max = d
		}
	}

	sort.Float64s(durations)
	stats.Avg = sum / float64(len(durations))
	stats.P50 = percentile(durations, 50)
	stats.P95 = percentile(durations, 95)
	stats.P99 = percentile(durations, 99)
	return stats
}

// percentile 取排序后样本的 p 分位值
//
// 秩取 ceil(p/100*n),即恰好覆盖 p% 样本的最小下标。
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}

	idx := int(math.Ceil(p/100*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}

// compile-time interface check
var _ tools.MetricsRecorder = (*Recorder)(nil)
