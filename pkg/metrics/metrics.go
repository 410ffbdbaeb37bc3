// Package metrics 维护按工具名分组的滚动性能样本。
//
// 每次工具执行尝试产生一条样本,聚合窗口内的样本回答
// "这个工具应该同步执行吗"。记录是尽力而为:存储故障被吞掉,
// 绝不影响工具执行。
package metrics

import (
	"context"
	"time"
)

// 推荐阈值,单位毫秒。经验值,按部署环境调整。
const (
	// SyncP95ThresholdMs p95 低于此值的工具推荐同步执行
	SyncP95ThresholdMs = 500.0
	// AsyncP95ThresholdMs p95 高于此值的工具推荐异步执行
	AsyncP95ThresholdMs = 2000.0
	// PlayaNetworkPenaltyMs 现场网状网络下到枢纽的固定往返开销,
	// 用于在不重录样本的情况下按退化网络重新评估推荐
	PlayaNetworkPenaltyMs = 300.0
)

// Recommendation 工具执行方式建议
type Recommendation string

const (
	// RecommendationSync 足够快,适合同步执行
	RecommendationSync Recommendation = "sync"
	// RecommendationMaybeSync 处于边界区间,两种方式都可接受
	RecommendationMaybeSync Recommendation = "maybe_sync"
	// RecommendationAsync 太慢,应当异步执行
	RecommendationAsync Recommendation = "async"
)

// Sample 单次工具执行的观测样本
type Sample struct {
	// ToolName 工具名称
	ToolName string `json:"tool_name"`
	// DurationMs 执行耗时(毫秒),校验失败为 0
	DurationMs float64 `json:"duration_ms"`
	// Success 执行是否成功
	Success bool `json:"success"`
	// EntityID 关联的实体标识(可选)
	EntityID string `json:"entity_id,omitempty"`
	// RecordedAt 记录时间
	RecordedAt time.Time `json:"recorded_at"`
}

// Store 样本存储接口
//
// 按工具名分组、以时间为窗口的追加型存储。窗口外的旧样本
// 不参与查询,物理清理允许延后。
type Store interface {
	// Append 追加一条样本
	Append(ctx context.Context, sample Sample) error

	// Samples 返回某工具自 since 以来的样本
	Samples(ctx context.Context, toolName string, since time.Time) ([]Sample, error)

	// ToolNames 返回出现过样本的工具名,按名称排序
	ToolNames(ctx context.Context) ([]string, error)

	// Clear 清空全部样本
	Clear(ctx context.Context) error

	// Close 关闭存储
	Close() error
}

// PlayaAdjusted 叠加网状网络开销后的耗时
func PlayaAdjusted(rawMs float64) float64 {
	return rawMs + PlayaNetworkPenaltyMs
}

// RecommendFromP95 按 p95 耗时给出执行方式建议
//
// 恰好落在阈值上的值归入边界区间。
func RecommendFromP95(p95 float64) Recommendation {
	switch {
	case p95 < SyncP95ThresholdMs:
		return RecommendationSync
	case p95 > AsyncP95ThresholdMs:
		return RecommendationAsync
	default:
		return RecommendationMaybeSync
	}
}
