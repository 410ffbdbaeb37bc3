package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/glitchcube/glitchcube-go/pkg/core/llm"
	"github.com/glitchcube/glitchcube-go/pkg/core/message"
	"github.com/glitchcube/glitchcube-go/pkg/tools"
)

// TracedProvider 带追踪的 LLM 提供商包装器
//
// 包装任意 llm.Provider,为每次 Generate 调用生成 Span 并上报
// 请求计数、耗时和 Token 用量指标。
type TracedProvider struct {
	provider llm.Provider
	tracer   Tracer
	metrics  Metrics
}

// TracedProviderOption 追踪包装器配置选项
type TracedProviderOption func(*TracedProvider)

// WithTracedProviderTracer 设置追踪器
func WithTracedProviderTracer(tracer Tracer) TracedProviderOption {
	return func(p *TracedProvider) {
		p.tracer = tracer
	}
}

// WithTracedProviderMetrics 设置指标收集器
func WithTracedProviderMetrics(metrics Metrics) TracedProviderOption {
	return func(p *TracedProvider) {
		p.metrics = metrics
	}
}

// NewTracedProvider 创建带追踪的 LLM 提供商包装器
func NewTracedProvider(provider llm.Provider, opts ...TracedProviderOption) *TracedProvider {
	tp := &TracedProvider{
		provider: provider,
		tracer:   NewNoopTracer(),
		metrics:  NewNoopMetrics(),
	}

	for _, opt := range opts {
		opt(tp)
	}

	return tp
}

// Generate 生成响应并记录追踪信息
func (p *TracedProvider) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	ctx, span := p.tracer.Start(ctx, "llm.generate",
		WithSpanKind(SpanKindClient),
		WithAttributes(
			LLMProvider(p.provider.Name()),
			LLMModel(p.provider.Model()),
		),
	)
	defer span.End()

	startTime := time.Now()
	resp, err := p.provider.Generate(ctx, req)
	duration := time.Since(startTime)

	p.recordMetrics(ctx, resp, err, duration)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(StatusError, err.Error())
		return resp, err
	}

	span.SetAttributes(
		attribute.Int(AttrLLMPromptTokens, resp.TokenUsage.PromptTokens),
		attribute.Int(AttrLLMCompletionTokens, resp.TokenUsage.CompletionTokens),
		attribute.Int(AttrLLMTotalTokens, resp.TokenUsage.TotalTokens),
	)
	span.AddEvent("llm.response",
		attribute.String("finish_reason", resp.FinishReason),
		attribute.Int("tool_calls", len(resp.ToolCalls)),
	)
	span.SetStatus(StatusOK, "")

	return resp, nil
}

// Name 返回提供商名称
func (p *TracedProvider) Name() string {
	return p.provider.Name()
}

// Model 返回当前模型名称
func (p *TracedProvider) Model() string {
	return p.provider.Model()
}

// Close 关闭底层提供商
func (p *TracedProvider) Close() error {
	return p.provider.Close()
}

// recordMetrics 记录 LLM 调用指标
func (p *TracedProvider) recordMetrics(ctx context.Context, resp llm.Response, err error, duration time.Duration) {
	if err != nil {
		p.metrics.Counter(MetricLLMRequests).Add(ctx, 1,
			NewAttr("provider", p.provider.Name()),
			NewAttr("model", p.provider.Model()),
			NewAttr("status", "error"),
		)
		p.metrics.Counter(MetricLLMErrors).Add(ctx, 1,
			NewAttr("provider", p.provider.Name()),
			NewAttr("model", p.provider.Model()),
		)
	} else {
		p.metrics.Counter(MetricLLMRequests).Add(ctx, 1,
			NewAttr("provider", p.provider.Name()),
			NewAttr("model", p.provider.Model()),
			NewAttr("status", "success"),
		)
		p.metrics.Counter(MetricLLMTokensPrompt).Add(ctx, int64(resp.TokenUsage.PromptTokens),
			NewAttr("provider", p.provider.Name()),
			NewAttr("model", p.provider.Model()),
		)
		p.metrics.Counter(MetricLLMTokensCompletion).Add(ctx, int64(resp.TokenUsage.CompletionTokens),
			NewAttr("provider", p.provider.Name()),
			NewAttr("model", p.provider.Model()),
		)
		p.metrics.Counter(MetricLLMTokensTotal).Add(ctx, int64(resp.TokenUsage.TotalTokens),
			NewAttr("provider", p.provider.Name()),
			NewAttr("model", p.provider.Model()),
		)
	}

	p.metrics.Histogram(MetricLLMRequestDuration).Record(ctx, duration.Seconds()*1000,
		NewAttr("provider", p.provider.Name()),
		NewAttr("model", p.provider.Model()),
	)
}

// TracedRecorder 带指标上报的工具样本记录器
//
// 实现 tools.MetricsRecorder,样本先转发给内层记录器(通常是
// metrics.Recorder),再上报 OpenTelemetry 计数器和直方图。
// 执行器只依赖窄接口,感知不到任何差异。
type TracedRecorder struct {
	inner   tools.MetricsRecorder
	metrics Metrics
}

// NewTracedRecorder 创建带指标上报的工具样本记录器
//
// 参数:
//   - inner: 内层记录器,可为 nil
//   - metrics: 指标收集器,nil 时使用空实现
func NewTracedRecorder(inner tools.MetricsRecorder, metrics Metrics) *TracedRecorder {
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	return &TracedRecorder{inner: inner, metrics: metrics}
}

// Record 记录一次工具执行样本
func (r *TracedRecorder) Record(toolName string, durationMs float64, success bool, entityID string) {
	if r.inner != nil {
		r.inner.Record(toolName, durationMs, success, entityID)
	}

	ctx := context.Background()
	status := "success"
	if !success {
		status = "error"
	}

	r.metrics.Counter(MetricToolCalls).Add(ctx, 1,
		NewAttr("tool", toolName),
		NewAttr("status", status),
	)
	r.metrics.Histogram(MetricToolCallDuration).Record(ctx, durationMs,
		NewAttr("tool", toolName),
	)
}

// IntentTracer 意图执行的追踪辅助器
//
// 为重试循环的关键事件提供统一的 Span 和指标上报入口。
type IntentTracer struct {
	tracer  Tracer
	metrics Metrics
}

// NewIntentTracer 创建意图追踪辅助器
func NewIntentTracer(tracer Tracer, metrics Metrics) *IntentTracer {
	if tracer == nil {
		tracer = NewNoopTracer()
	}
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	return &IntentTracer{
		tracer:  tracer,
		metrics: metrics,
	}
}

// StartIntent 开始一次意图执行的 Span
func (it *IntentTracer) StartIntent(ctx context.Context, personaID string) (context.Context, Span) {
	return it.tracer.Start(ctx, "intent.execute",
		WithSpanKind(SpanKindInternal),
		WithAttributes(
			IntentPersona(personaID),
		),
	)
}

// RecordIteration 记录一次重试迭代事件
func (it *IntentTracer) RecordIteration(ctx context.Context, iteration, maxIterations int) {
	span := it.tracer.SpanFromContext(ctx)
	span.AddEvent("intent.iteration",
		attribute.Int(AttrIntentIteration, iteration),
		attribute.Int(AttrIntentMaxIter, maxIterations),
	)
}

// RecordToolCall 记录一次工具调用事件
func (it *IntentTracer) RecordToolCall(ctx context.Context, toolName string, success bool, durationMs int64) {
	span := it.tracer.SpanFromContext(ctx)
	span.AddEvent("intent.tool_call",
		attribute.String(AttrToolName, toolName),
		attribute.Bool(AttrToolSuccess, success),
		attribute.Int64(AttrToolDuration, durationMs),
	)
}

// RecordTokenUsage 记录 Token 用量指标
func (it *IntentTracer) RecordTokenUsage(ctx context.Context, usage message.TokenUsage, provider, model string) {
	it.metrics.Counter(MetricLLMTokensPrompt).Add(ctx, int64(usage.PromptTokens),
		NewAttr("provider", provider),
		NewAttr("model", model),
	)
	it.metrics.Counter(MetricLLMTokensCompletion).Add(ctx, int64(usage.CompletionTokens),
		NewAttr("provider", provider),
		NewAttr("model", model),
	)
}

// FinishIntent 结束意图执行的 Span 并上报结果指标
//
// outcome 取值: succeeded, gave_up, llm_error, cancelled。
func (it *IntentTracer) FinishIntent(ctx context.Context, span Span, outcome string, iterations int, durationMs int64) {
	it.metrics.Counter(MetricIntentExecutions).Add(ctx, 1,
		NewAttr("outcome", outcome),
	)
	it.metrics.Histogram(MetricIntentDuration).Record(ctx, float64(durationMs))
	it.metrics.Histogram(MetricIntentIterations).Record(ctx, float64(iterations))
	if outcome == "gave_up" {
		it.metrics.Counter(MetricIntentGaveUp).Add(ctx, 1)
	}

	span.SetAttributes(
		IntentOutcome(outcome),
		attribute.Int(AttrIntentIteration, iterations),
		attribute.Int64("duration_ms", durationMs),
	)
	if outcome == "llm_error" {
		span.SetStatus(StatusError, "LLM boundary failure")
	} else {
		span.SetStatus(StatusOK, "")
	}
	span.End()
}

// compile-time interface check
var _ llm.Provider = (*TracedProvider)(nil)
var _ tools.MetricsRecorder = (*TracedRecorder)(nil)
