package session

import (
	"context"
	"sync"
	"time"

	"github.com/glitchcube/glitchcube-go/pkg/core/errors"
	"github.com/glitchcube/glitchcube-go/pkg/core/message"
	"github.com/glitchcube/glitchcube-go/pkg/tools"
)

// MemoryStore 内存会话存储
//
// 基于 map 的简单实现,适用于测试和单机运行。进程退出后数据丢失。
type MemoryStore struct {
	messages map[string][]message.Message
	pending  map[string][]PendingResult
	goal     *Goal
	mu       sync.RWMutex
}

// NewMemoryStore 创建内存会话存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		messages: make(map[string][]message.Message),
		pending:  make(map[string][]PendingResult),
	}
}

// AppendMessage 追加一条对话消息
func (s *MemoryStore) AppendMessage(ctx context.Context, conversationID string, msg message.Message) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[conversationID] = append(s.messages[conversationID], msg)
	return nil
}

// History 返回对话的最近消息,按时间正序排列
func (s *MemoryStore) History(ctx context.Context, conversationID string, limit int) ([]message.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[conversationID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	// 返回副本,调用方修改不影响存储
	result := make([]message.Message, len(msgs))
	copy(result, msgs)
	return result, nil
}

// SaveGoal 保存当前目标
func (s *MemoryStore) SaveGoal(ctx context.Context, goal Goal) error {
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.goal = &goal
	return nil
}

// CurrentGoal 返回当前目标
func (s *MemoryStore) CurrentGoal(ctx context.Context) (*Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.goal == nil || s.goal.Expired(time.Now()) {
		return nil, errors.ErrGoalNotFound
	}

	goal := *s.goal
	return &goal, nil
}

// ClearGoal 清除当前目标
func (s *MemoryStore) ClearGoal(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.goal = nil
	return nil
}

// PutPendingResult 存入一条待播报的异步工具结果
func (s *MemoryStore) PutPendingResult(ctx context.Context, sessionID string, result *tools.Result) error {
	if result == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[sessionID] = append(s.pending[sessionID], PendingResult{
		Result:   *result,
		StoredAt: time.Now(),
	})
	return nil
}

// TakePendingResults 取出并清空会话的待播报结果
func (s *MemoryStore) TakePendingResults(ctx context.Context, sessionID string) ([]PendingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := s.pending[sessionID]
	delete(s.pending, sessionID)
	return results, nil
}

// Close 关闭存储
func (s *MemoryStore) Close() error {
	return nil
}

// Compile-time interface check
var _ Store = (*MemoryStore)(nil)
