package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/glitchcube/glitchcube-go/pkg/core/errors"
)

// Job 一次异步工具执行任务
//
// 可序列化的最小载荷。参数已经过执行器的规范化,worker 侧
// 不需要再做键名兼容。
type Job struct {
	// ID 任务唯一标识
	ID string `json:"id"`
	// Tool 工具名称
	Tool string `json:"tool"`
	// Arguments 规范化后的工具参数
	Arguments map[string]interface{} `json:"arguments,omitempty"`
	// SessionID 会话标识(可选)
	SessionID string `json:"session_id,omitempty"`
	// ConversationID 对话标识(可选)
	ConversationID string `json:"conversation_id,omitempty"`
	// EnqueuedAt 入队时间
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewJob 创建任务
func NewJob(toolName string, args map[string]interface{}, sessionID, conversationID string) Job {
	return Job{
		ID:             uuid.NewString(),
		Tool:           toolName,
		Arguments:      args,
		SessionID:      sessionID,
		ConversationID: conversationID,
		EnqueuedAt:     time.Now(),
	}
}

// Validate 检查任务是否完整
func (j Job) Validate() error {
	if j.Tool == "" {
		return errors.ErrInvalidJob
	}
	return nil
}
