// Package agents 提供意图到工具调用的翻译与重试执行
//
// ToolCallingAgent 是执行管线的唯一入口:一次低温技术 LLM 调用把
// 自由文本意图翻译成工具调用,执行器按类型分流执行,可纠正的校验
// 失败转成反馈后重新翻译,直到收敛或迭代预算用尽。技术调用与人格
// 化表达分离,人格只影响可用工具白名单,不影响翻译提示词。
package agents

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/glitchcube/glitchcube-go/pkg/core/errors"
	"github.com/glitchcube/glitchcube-go/pkg/core/llm"
	"github.com/glitchcube/glitchcube-go/pkg/core/message"
	"github.com/glitchcube/glitchcube-go/pkg/otel"
	"github.com/glitchcube/glitchcube-go/pkg/tools"
)

// llmTroubleFallback LLM 边界故障时返回给用户的兜底答复
const llmTroubleFallback = "I'm having trouble with that right now."

// 观测数据里的两个额外结果取值,不是循环状态
const (
	outcomeLLMError  = "llm_error"
	outcomeCancelled = "cancelled"
)

// technicalSystemPrompt 技术翻译调用的系统提示词
//
// 该调用是确定性的命令翻译器,不承担任何人格化表达。
const technicalSystemPrompt = `You are the technical command translator for the Glitch Cube, an interactive art installation. Convert the user's intent into tool calls.

Rules:
- Respond with tool calls only. A separate system handles all conversation.
- Use only the provided tools, and copy option values exactly as listed.
- If the intent requires no device action, respond without tool calls.
- When the intent lists IMPORTANT CORRECTIONS NEEDED, fix every correction.`

// ToolCallingAgent 工具调用代理
//
// 对单条意图的处理严格串行:第 n 轮的全部执行结果落地之后才会
// 发起第 n+1 次 LLM 调用。取消在迭代之间生效,不打断进行中的
// 工具执行。
type ToolCallingAgent struct {
	provider llm.Provider
	registry *tools.Registry
	executor *tools.Executor
	options  *AgentOptions
	counter  message.TokenCounter
	tracer   *otel.IntentTracer
	logger   *slog.Logger
}

// NewToolCalling 创建工具调用代理
//
// 参数:
//   - provider: LLM 提供商（必需）
//   - registry: 工具注册表（必需）
//   - executor: 工具执行器,nil 时基于 registry 创建不带指标和
//     派发器的裸执行器
//   - opts: 配置选项
//
// 返回:
//   - *ToolCallingAgent: 代理实例
//   - error: provider 或 registry 缺失时返回错误
func NewToolCalling(provider llm.Provider, registry *tools.Registry, executor *tools.Executor, opts ...Option) (*ToolCallingAgent, error) {
	if provider == nil {
		return nil, errors.WrapError(errors.ErrProviderUnavailable, "tool calling agent requires an LLM provider")
	}
	if registry == nil {
		return nil, errors.WrapError(errors.ErrInvalidConfig, "tool calling agent requires a tool registry")
	}

	options := DefaultAgentOptions()
	for _, opt := range opts {
		opt(options)
	}
	if options.MaxIterations <= 0 {
		options.MaxIterations = DefaultAgentOptions().MaxIterations
	}

	if executor == nil {
		executor = tools.NewExecutor(registry)
	}

	counter := options.Counter
	if counter == nil {
		if tc, err := message.NewTiktokenCounter(message.WithCounterModel(options.Model)); err == nil {
			counter = tc
		} else {
			counter = message.NewEstimatedCounter()
		}
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ToolCallingAgent{
		provider: provider,
		registry: registry,
		executor: executor,
		options:  options,
		counter:  counter,
		tracer:   otel.NewIntentTracer(options.Tracer, options.Metrics),
		logger:   logger,
	}, nil
}

// Name 返回代理名称
func (a *ToolCallingAgent) Name() string {
	return a.options.Name
}

// ExecuteIntent 执行一条自由文本意图
//
// 返回总结执行情况的自然语言,供叙事层转述给访客。任何失败形态
// 都以文案呈现,绝不向调用方返回错误或 panic:LLM 边界故障返回
// 固定兜底答复,迭代预算用尽返回最后一轮结果的尽力总结。
//
// 参数:
//   - ctx: 上下文,取消在迭代之间生效
//   - intent: 自由文本意图
//   - ic: 会话上下文
//
// 返回:
//   - string: 面向用户的自然语言总结
func (a *ToolCallingAgent) ExecuteIntent(ctx context.Context, intent string, ic IntentContext) string {
	start := time.Now()
	ctx, span := a.tracer.StartIntent(ctx, ic.Persona)

	intent = strings.TrimSpace(intent)
	if intent == "" {
		a.finish(ctx, span, string(StateSucceeded), 0, start)
		return genericAcknowledgment
	}

	toolDefs := a.toolDefinitions(ic.Persona)
	if len(toolDefs) == 0 {
		a.logger.Warn("no tools available for persona", "persona", ic.Persona)
		a.finish(ctx, span, string(StateSucceeded), 0, start)
		return genericAcknowledgment
	}

	a.logger.Info("executing intent",
		"persona", ic.Persona,
		"session_id", ic.SessionID,
		"tools", len(toolDefs))

	originalIntent := intent
	currentIntent := intent
	var lastResults map[string]*tools.Result

	for iteration := 1; iteration <= a.options.MaxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			a.logger.Warn("intent execution cancelled",
				"iteration", iteration, "error", err)
			a.finish(ctx, span, outcomeCancelled, iteration-1, start)
			return llmTroubleFallback
		}

		a.tracer.RecordIteration(ctx, iteration, a.options.MaxIterations)

		resp, err := a.translate(ctx, currentIntent, toolDefs)
		if err != nil {
			a.logger.Error("technical translation failed",
				"iteration", iteration, "error", err)
			a.finish(ctx, span, outcomeLLMError, iteration, start)
			return llmTroubleFallback
		}

		if len(resp.ToolCalls) == 0 {
			a.logger.Info("intent needs no tool calls", "iteration", iteration)
			a.finish(ctx, span, string(StateSucceeded), iteration, start)
			return genericAcknowledgment
		}

		results := a.executeBatch(ctx, resp.ToolCalls, ic)
		lastResults = results
		for name, res := range results {
			a.tracer.RecordToolCall(ctx, name, res.Success, int64(res.DurationMs))
		}

		issues := ExtractValidationIssues(results)
		if len(issues) == 0 {
			a.finish(ctx, span, string(StateSucceeded), iteration, start)
			return FormatResultsForNarrative(results)
		}

		if iteration == a.options.MaxIterations {
			break
		}

		currentIntent = BuildCorrectiveIntent(originalIntent, issues)
		a.logger.Info("retrying with corrective feedback",
			"iteration", iteration, "issues", len(issues))
	}

	a.logger.Warn("giving up after exhausting iterations",
		"max_iterations", a.options.MaxIterations)
	a.finish(ctx, span, string(StateGaveUp), a.options.MaxIterations, start)
	return FormatResultsForNarrative(lastResults)
}

// translate 执行一次低温技术翻译调用
func (a *ToolCallingAgent) translate(ctx context.Context, intent string, toolDefs []llm.ToolDefinition) (llm.Response, error) {
	messages := []message.Message{
		message.NewSystemMessage(technicalSystemPrompt),
		message.NewUserMessage(intent),
	}
	a.warnOverBudget(messages)

	if a.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.options.Timeout)
		defer cancel()
	}

	temperature := a.options.Temperature
	maxTokens := a.options.MaxTokens
	resp, err := a.provider.Generate(ctx, llm.Request{
		Messages:    messages,
		Tools:       toolDefs,
		ToolChoice:  "auto",
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return llm.Response{}, err
	}

	a.tracer.RecordTokenUsage(ctx, resp.TokenUsage, a.provider.Name(), a.provider.Model())
	return resp, nil
}

// executeBatch 分流并执行一批调用请求,合并各路结果
//
// agent 型调用与 async 同路入队,worker 侧会按注册表重新判型。
// Categorize 无法为未注册的工具判型,落空的请求并回同步路径,
// 以 "Tool not found" 校验失败进入结果映射和纠正反馈。
func (a *ToolCallingAgent) executeBatch(ctx context.Context, calls []message.ToolCall, ic IntentContext) map[string]*tools.Result {
	batch := a.executor.Categorize(calls)

	categorized := make(map[string]bool, len(calls))
	for _, group := range [][]message.ToolCall{batch.Sync, batch.Async, batch.Agent} {
		for _, req := range group {
			categorized[req.Name] = true
		}
	}
	syncCalls := batch.Sync
	for _, req := range calls {
		if !categorized[req.Name] {
			syncCalls = append(syncCalls, req)
		}
	}

	results := a.executor.ExecuteSync(ctx, syncCalls)
	for name, res := range a.executor.ExecuteAsync(ctx, batch.Async, ic.SessionID, ic.ConversationID) {
		results[name] = res
	}
	for name, res := range a.executor.ExecuteAsync(ctx, batch.Agent, ic.SessionID, ic.ConversationID) {
		results[name] = res
	}
	return results
}

// toolDefinitions 生成当前人格可用的工具定义列表
func (a *ToolCallingAgent) toolDefinitions(personaID string) []llm.ToolDefinition {
	available := a.registry.ToolsForPersona(personaID)

	defs := make([]llm.ToolDefinition, 0, len(available))
	for _, tool := range available {
		schema := tool.Parameters()
		defs = append(defs, llm.ToolDefinition{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters: map[string]interface{}{
				"type":       schema.Type,
				"properties": schema.Properties,
				"required":   schema.Required,
			},
		})
	}
	return defs
}

// warnOverBudget 技术提示词超出 Token 预算时告警
//
// 只告警不截断:技术提示词主要由工具 Schema 构成,截断会直接
// 破坏翻译质量。告警用于发现失控的意图膨胀和纠正反馈堆积。
func (a *ToolCallingAgent) warnOverBudget(messages []message.Message) {
	if a.counter == nil || a.options.TokenBudget <= 0 {
		return
	}
	total := a.counter.CountMessages(messages)
	if total > a.options.TokenBudget {
		a.logger.Warn("technical prompt exceeds token budget",
			"tokens", total, "budget", a.options.TokenBudget)
	}
}

// finish 结束意图 Span 并上报意图级指标
func (a *ToolCallingAgent) finish(ctx context.Context, span otel.Span, outcome string, iterations int, start time.Time) {
	a.tracer.FinishIntent(ctx, span, outcome, iterations, time.Since(start).Milliseconds())
}

// 编译时接口检查
var _ IntentExecutor = (*ToolCallingAgent)(nil)
