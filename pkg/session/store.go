// Package session 提供会话状态存储。
//
// 会话状态包括三类数据:
//   - 对话历史: 按会话分组的消息序列,供 LLM 构建上下文
//   - 当前目标: Cube 正在追求的自主目标,重启后可恢复
//   - 待播报结果: 异步工具完成后暂存的结果,等下次交互时播报
//
// Store 同时实现 queue.ResultSink,异步 Worker 可直接把执行结果
// 写入会话存储。
package session

import (
	"context"
	"time"

	"github.com/glitchcube/glitchcube-go/pkg/core/message"
	"github.com/glitchcube/glitchcube-go/pkg/queue"
	"github.com/glitchcube/glitchcube-go/pkg/tools"
)

// SessionFor 从语音平台的对话标识派生会话标识
//
// 参数:
//   - conversationID: 语音平台分配的对话标识
//
// 返回:
//   - string: 会话标识
func SessionFor(conversationID string) string {
	return "voice_" + conversationID
}

// Goal Cube 正在追求的自主目标
type Goal struct {
	// ID 目标唯一标识
	ID string `json:"id"`
	// Description 目标描述(自然语言)
	Description string `json:"description"`
	// PersonaID 设定目标时的人格
	PersonaID string `json:"persona_id,omitempty"`
	// CreatedAt 创建时间
	CreatedAt time.Time `json:"created_at"`
	// ExpiresAt 过期时间(零值表示不过期)
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Expired 判断目标在指定时刻是否已过期
func (g Goal) Expired(now time.Time) bool {
	return !g.ExpiresAt.IsZero() && now.After(g.ExpiresAt)
}

// PendingResult 等待播报的异步工具结果
type PendingResult struct {
	// Result 工具执行结果
	Result tools.Result `json:"result"`
	// StoredAt 存入时间
	StoredAt time.Time `json:"stored_at"`
}

// Store 会话存储接口
type Store interface {
	// AppendMessage 追加一条对话消息
	//
	// 参数:
	//   - ctx: 上下文
	//   - conversationID: 对话标识
	//   - msg: 消息
	//
	// 返回:
	//   - error: 错误信息
	AppendMessage(ctx context.Context, conversationID string, msg message.Message) error

	// History 返回对话的最近消息,按时间正序排列
	//
	// 参数:
	//   - ctx: 上下文
	//   - conversationID: 对话标识
	//   - limit: 最大消息数(<=0 表示不限制)
	//
	// 返回:
	//   - []message.Message: 消息列表
	//   - error: 错误信息
	History(ctx context.Context, conversationID string, limit int) ([]message.Message, error)

	// SaveGoal 保存当前目标(覆盖旧目标)
	SaveGoal(ctx context.Context, goal Goal) error

	// CurrentGoal 返回当前目标
	//
	// 没有目标或目标已过期时返回 ErrGoalNotFound。
	CurrentGoal(ctx context.Context) (*Goal, error)

	// ClearGoal 清除当前目标
	ClearGoal(ctx context.Context) error

	// PutPendingResult 存入一条待播报的异步工具结果
	PutPendingResult(ctx context.Context, sessionID string, result *tools.Result) error

	// TakePendingResults 取出并清空会话的待播报结果
	//
	// 取出即删除,同一结果不会播报两次。
	TakePendingResults(ctx context.Context, sessionID string) ([]PendingResult, error)

	// Close 关闭存储
	Close() error
}

// Compile-time interface check: 会话存储可作为异步 Worker 的结果出口
var _ queue.ResultSink = (Store)(nil)
