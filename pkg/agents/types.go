package agents

import "context"

// IntentContext 意图执行的会话上下文
type IntentContext struct {
	// Persona 当前人格标识,决定可用工具白名单
	Persona string
	// SessionID 语音会话标识,异步结果最终回写到该会话
	SessionID string
	// ConversationID 对话标识
	ConversationID string
}

// IntentState 重试循环的状态
type IntentState string

const (
	// StateAttempting 正在尝试:翻译意图并执行产生的工具调用
	StateAttempting IntentState = "attempting"
	// StateSucceeded 本轮结果中没有可纠正的校验失败
	StateSucceeded IntentState = "succeeded"
	// StateGaveUp 迭代预算用尽仍未收敛
	StateGaveUp IntentState = "gave_up"
)

// IntentExecutor 意图执行边界
//
// 叙事层只依赖这一个方法。返回值始终是面向用户的自然语言,
// 任何失败形态都以文案呈现,实现绝不返回错误或 panic。
type IntentExecutor interface {
	ExecuteIntent(ctx context.Context, intent string, ic IntentContext) string
}
