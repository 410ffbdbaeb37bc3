package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/glitchcube/glitchcube-go/pkg/core/errors"
	"github.com/glitchcube/glitchcube-go/pkg/core/message"
)

// MetricsRecorder 执行指标的记录边界
//
// 由 metrics 包实现。记录是尽力而为:存储故障由实现方吞掉,
// 绝不影响工具执行本身。
type MetricsRecorder interface {
	Record(toolName string, durationMs float64, success bool, entityID string)
}

// Dispatcher 异步派发边界
//
// 由 queue 包实现。Enqueue 只负责投递任务,不等待执行结果。
type Dispatcher interface {
	Enqueue(ctx context.Context, toolName string, args map[string]interface{}, sessionID, conversationID string) error
}

// Batch 按执行类型分组的调用请求
type Batch struct {
	Sync  []message.ToolCall
	Async []message.ToolCall
	Agent []message.ToolCall
}

// Executor 工具执行器
//
// 对一批调用请求逐项决定立即执行、入队或拒绝。保证每次执行尝试
// (成功、校验失败、执行异常)恰好记录一条指标样本;异步调用的
// 入队动作本身不计样本,样本由 worker 实际执行时记录。
type Executor struct {
	registry   *Registry
	metrics    MetricsRecorder
	dispatcher Dispatcher
	logger     *slog.Logger
	timeout    time.Duration
}

// ExecutorOption 执行器配置选项
type ExecutorOption func(*Executor)

// NewExecutor 创建工具执行器
func NewExecutor(registry *Registry, opts ...ExecutorOption) *Executor {
	e := &Executor{
		registry: registry,
		logger:   slog.Default(),
		timeout:  10 * time.Second,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// WithExecutorTimeout 设置单个同步工具的执行超时时间
func WithExecutorTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = d
	}
}

// WithMetricsRecorder 设置指标记录器
func WithMetricsRecorder(m MetricsRecorder) ExecutorOption {
	return func(e *Executor) {
		e.metrics = m
	}
}

// WithDispatcher 设置异步派发器
//
// 未设置时异步调用以入队失败的形式返回。
func WithDispatcher(d Dispatcher) ExecutorOption {
	return func(e *Executor) {
		e.dispatcher = d
	}
}

// WithExecutorLogger 设置日志器
func WithExecutorLogger(l *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// Categorize 按执行类型分流调用请求
//
// 未注册的工具名从所有分组中丢弃:分流阶段不报错,未知工具只在
// 显式执行时以校验失败的形式出现。这是分流与执行之间真实存在的
// 不对称,依赖方不要假设分流结果覆盖了全部请求。
func (e *Executor) Categorize(requests []message.ToolCall) Batch {
	var batch Batch

	for _, req := range requests {
		tool, err := e.registry.Get(req.Name)
		if err != nil {
			e.logger.Debug("dropping unknown tool from batch", "tool", req.Name)
			continue
		}

		switch tool.ExecutionType() {
		case ExecutionAsync:
			batch.Async = append(batch.Async, req)
		case ExecutionAgent:
			batch.Agent = append(batch.Agent, req)
		default:
			batch.Sync = append(batch.Sync, req)
		}
	}

	return batch
}

// ExecuteSync 同步执行一批调用请求
//
// 每项先校验:失败则合成校验失败结果(耗时 0)并记录失败样本;
// 通过则计时执行。返回以工具名为键的结果映射。
func (e *Executor) ExecuteSync(ctx context.Context, requests []message.ToolCall) map[string]*Result {
	results := make(map[string]*Result, len(requests))
	for _, req := range requests {
		results[req.Name] = e.executeValidated(ctx, e.resolve(req))
	}
	return results
}

// ExecuteAsync 校验并派发一批异步调用请求
//
// 校验通过的请求投递到队列后立即以 "Queued for execution" 乐观
// 返回,真实结果由 worker 产生;校验失败的请求记录失败样本,
// 绝不入队。
func (e *Executor) ExecuteAsync(ctx context.Context, requests []message.ToolCall, sessionID, conversationID string) map[string]*Result {
	results := make(map[string]*Result, len(requests))

	for _, req := range requests {
		vc := e.resolve(req)
		name := req.Name

		if problems := vc.Validate(); len(problems) > 0 {
			e.logger.Warn("async tool call rejected by validation",
				"tool", name, "problems", len(problems))
			e.record(name, 0, false, entityIDOf(vc.Arguments()))
			results[name] = NewValidationFailure(name, problems)
			continue
		}

		var err error
		if e.dispatcher == nil {
			err = errors.ErrQueueUnavailable
		} else {
			err = e.dispatcher.Enqueue(ctx, name, vc.Arguments(), sessionID, conversationID)
		}
		if err != nil {
			e.logger.Error("failed to enqueue tool call", "tool", name, "error", err)
			e.record(name, 0, false, entityIDOf(vc.Arguments()))
			results[name] = NewToolError(name, errors.WrapError(err, "failed to queue tool call"))
			continue
		}

		results[name] = &Result{ToolName: name, Success: true, Message: QueuedMessage}
	}

	return results
}

// ExecuteCall 执行一个已构造的校验视图
func (e *Executor) ExecuteCall(ctx context.Context, vc *ValidatedCall) *Result {
	return e.executeValidated(ctx, vc)
}

// ExecuteSingleAsync 执行单个排队任务
//
// 由队列 worker 调用。从 (name, args) 原始对重建校验视图,与
// 同步路径走完全相同的校验、计时和执行序列。
func (e *Executor) ExecuteSingleAsync(ctx context.Context, name string, args map[string]interface{}, sessionID, conversationID string) *Result {
	e.logger.Info("executing queued tool call",
		"tool", name, "session_id", sessionID, "conversation_id", conversationID)
	return e.executeValidated(ctx, e.resolve(message.NewToolCall("", name, args)))
}

// resolve 从原始请求构造校验视图,未注册的工具解析为 nil
func (e *Executor) resolve(req message.ToolCall) *ValidatedCall {
	tool, _ := e.registry.Get(req.Name)
	return NewValidatedCall(req, tool)
}

// executeValidated 所有执行路径汇聚的唯一例程
//
// 校验失败合成失败结果并记录零耗时样本;通过则在超时控制下
// 执行,捕获 panic 并转换为失败结果。任何失败形态都以 Result
// 返回,绝不向上抛出。
func (e *Executor) executeValidated(ctx context.Context, vc *ValidatedCall) (result *Result) {
	name := vc.Name()
	entityID := entityIDOf(vc.Arguments())

	if problems := vc.Validate(); len(problems) > 0 {
		e.logger.Warn("tool call rejected by validation", "tool", name, "problems", len(problems))
		e.record(name, 0, false, entityID)
		return NewValidationFailure(name, problems)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			elapsed := elapsedMs(start)
			e.logger.Error("tool execution panicked", "tool", name, "panic", r)
			result = NewToolError(name, fmt.Errorf("%w: panic: %v", errors.ErrToolExecutionFailed, r))
			result.DurationMs = elapsed
			e.record(name, elapsed, false, entityID)
		}
	}()

	res := e.registry.ExecuteTool(ctx, name, vc.Arguments())
	elapsed := elapsedMs(start)
	res.DurationMs = elapsed
	e.record(name, elapsed, res.Success, entityID)
	return res
}

// record 记录一条指标样本,未配置记录器时为空操作
func (e *Executor) record(toolName string, durationMs float64, success bool, entityID string) {
	if e.metrics == nil {
		return
	}
	e.metrics.Record(toolName, durationMs, success, entityID)
}

// entityIDOf 从参数中提取实体标识,用于样本关联
func entityIDOf(args map[string]interface{}) string {
	for _, key := range []string{"entity", "entity_id"} {
		if v, ok := args[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

// elapsedMs 计算自 start 起的毫秒耗时
func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
