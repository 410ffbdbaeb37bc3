package otel

import "go.opentelemetry.io/otel/attribute"

// 预定义的语义属性键
// 遵循 OpenTelemetry 语义约定
const (
	// 意图相关属性
	AttrIntentPersona   = "intent.persona"
	AttrIntentOutcome   = "intent.outcome"
	AttrIntentIteration = "intent.iteration"
	AttrIntentMaxIter   = "intent.max_iterations"

	// LLM 相关属性
	AttrLLMProvider         = "llm.provider"
	AttrLLMModel            = "llm.model"
	AttrLLMTemperature      = "llm.temperature"
	AttrLLMPromptTokens     = "llm.prompt_tokens"
	AttrLLMCompletionTokens = "llm.completion_tokens"
	AttrLLMTotalTokens      = "llm.total_tokens"

	// Tool 相关属性
	AttrToolName          = "tool.name"
	AttrToolExecutionType = "tool.execution_type"
	AttrToolSuccess       = "tool.success"
	AttrToolDuration      = "tool.duration_ms"

	// 执行器枢纽相关属性
	AttrHubDomain  = "hub.domain"
	AttrHubService = "hub.service"
	AttrHubEntity  = "hub.entity_id"

	// 队列相关属性
	AttrQueueBackend = "queue.backend"
	AttrQueueJobID   = "queue.job_id"

	// Error 相关属性
	AttrErrorType      = "error.type"
	AttrErrorMessage   = "error.message"
	AttrErrorRetryable = "error.retryable"
)

// IntentPersona 创建人格属性
func IntentPersona(id string) attribute.KeyValue {
	return attribute.String(AttrIntentPersona, id)
}

// IntentOutcome 创建意图结果属性(succeeded, gave_up, llm_error)
func IntentOutcome(outcome string) attribute.KeyValue {
	return attribute.String(AttrIntentOutcome, outcome)
}

// IntentIteration 创建迭代次数属性
func IntentIteration(iter int) attribute.KeyValue {
	return attribute.Int(AttrIntentIteration, iter)
}

// LLMProvider 创建 LLM 提供商属性
func LLMProvider(provider string) attribute.KeyValue {
	return attribute.String(AttrLLMProvider, provider)
}

// LLMModel 创建 LLM 模型属性
func LLMModel(model string) attribute.KeyValue {
	return attribute.String(AttrLLMModel, model)
}

// LLMTokens 创建 LLM Token 使用属性
func LLMTokens(prompt, completion, total int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrLLMPromptTokens, prompt),
		attribute.Int(AttrLLMCompletionTokens, completion),
		attribute.Int(AttrLLMTotalTokens, total),
	}
}

// ToolName 创建工具名称属性
func ToolName(name string) attribute.KeyValue {
	return attribute.String(AttrToolName, name)
}

// ToolExecutionType 创建工具执行类型属性
func ToolExecutionType(typ string) attribute.KeyValue {
	return attribute.String(AttrToolExecutionType, typ)
}

// ToolDuration 创建工具执行时间属性（毫秒）
func ToolDuration(ms int64) attribute.KeyValue {
	return attribute.Int64(AttrToolDuration, ms)
}

// HubService 创建枢纽服务调用属性
func HubService(domain, service string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrHubDomain, domain),
		attribute.String(AttrHubService, service),
	}
}

// ErrorAttrs 创建错误属性
func ErrorAttrs(errType, message string, retryable bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrErrorType, errType),
		attribute.String(AttrErrorMessage, message),
		attribute.Bool(AttrErrorRetryable, retryable),
	}
}
