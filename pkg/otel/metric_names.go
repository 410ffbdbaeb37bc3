package otel

// 预定义的指标名称
// 遵循 OpenTelemetry 语义约定
const (
	// 意图执行指标
	MetricIntentExecutions = "intent.executions"     // 计数器: 意图执行次数
	MetricIntentDuration   = "intent.duration"       // 直方图: 意图执行时间(ms)
	MetricIntentIterations = "intent.iterations"     // 直方图: 每次意图的重试迭代次数
	MetricIntentGaveUp     = "intent.gave_up"        // 计数器: 达到迭代上限放弃的次数

	// 工具指标
	MetricToolCalls              = "tool.calls"               // 计数器: 工具调用次数
	MetricToolCallDuration       = "tool.call.duration"       // 直方图: 工具调用时间(ms)
	MetricToolValidationFailures = "tool.validation_failures" // 计数器: 参数校验失败次数
	MetricToolQueued             = "tool.queued"              // 计数器: 异步入队次数

	// LLM 指标
	MetricLLMRequests         = "llm.requests"          // 计数器: LLM 请求次数
	MetricLLMRequestDuration  = "llm.request.duration"  // 直方图: LLM 请求时间(ms)
	MetricLLMTokensPrompt     = "llm.tokens.prompt"     // 计数器: Prompt Token 总数
	MetricLLMTokensCompletion = "llm.tokens.completion" // 计数器: Completion Token 总数
	MetricLLMTokensTotal      = "llm.tokens.total"      // 计数器: 总 Token 数
	MetricLLMErrors           = "llm.errors"            // 计数器: LLM 错误次数

	// 执行器枢纽指标
	MetricHubRequests        = "hub.requests"         // 计数器: 枢纽 REST 调用次数
	MetricHubRequestDuration = "hub.request.duration" // 直方图: 枢纽调用时间(ms)
	MetricHubErrors          = "hub.errors"           // 计数器: 枢纽调用错误次数

	// 队列指标
	MetricQueueJobsEnqueued  = "queue.jobs.enqueued"  // 计数器: 入队任务数
	MetricQueueJobsProcessed = "queue.jobs.processed" // 计数器: Worker 处理完成的任务数
	MetricQueueDepth         = "queue.depth"          // 仪表: 当前队列深度
)

// MetricUnit 指标单位
type MetricUnit string

const (
	UnitNone         MetricUnit = ""
	UnitMilliseconds MetricUnit = "ms"
	UnitSeconds      MetricUnit = "s"
	UnitBytes        MetricUnit = "By"
	UnitCount        MetricUnit = "1"
)

// MetricDescription 指标描述
type MetricDescription struct {
	Name        string
	Description string
	Unit        MetricUnit
	Type        string // counter, histogram, gauge
}

// PredefinedMetrics 预定义指标列表
var PredefinedMetrics = []MetricDescription{
	{MetricIntentExecutions, "Number of intent executions", UnitCount, "counter"},
	{MetricIntentDuration, "Duration of intent executions", UnitMilliseconds, "histogram"},
	{MetricIntentIterations, "Number of retry iterations per intent", UnitCount, "histogram"},
	{MetricIntentGaveUp, "Number of intents abandoned at the iteration limit", UnitCount, "counter"},

	{MetricToolCalls, "Number of tool calls", UnitCount, "counter"},
	{MetricToolCallDuration, "Duration of tool calls", UnitMilliseconds, "histogram"},
	{MetricToolValidationFailures, "Number of tool argument validation failures", UnitCount, "counter"},
	{MetricToolQueued, "Number of tool calls queued for async execution", UnitCount, "counter"},

	{MetricLLMRequests, "Number of LLM requests", UnitCount, "counter"},
	{MetricLLMRequestDuration, "Duration of LLM requests", UnitMilliseconds, "histogram"},
	{MetricLLMTokensPrompt, "Number of prompt tokens", UnitCount, "counter"},
	{MetricLLMTokensCompletion, "Number of completion tokens", UnitCount, "counter"},
	{MetricLLMTokensTotal, "Total number of tokens", UnitCount, "counter"},
	{MetricLLMErrors, "Number of LLM errors", UnitCount, "counter"},

	{MetricHubRequests, "Number of actuator hub requests", UnitCount, "counter"},
	{MetricHubRequestDuration, "Duration of actuator hub requests", UnitMilliseconds, "histogram"},
	{MetricHubErrors, "Number of actuator hub errors", UnitCount, "counter"},

	{MetricQueueJobsEnqueued, "Number of jobs enqueued", UnitCount, "counter"},
	{MetricQueueJobsProcessed, "Number of jobs processed by the worker", UnitCount, "counter"},
	{MetricQueueDepth, "Current queue depth", UnitCount, "gauge"},
}
