package queue

import (
	"context"
	"sync"

	"github.com/glitchcube/glitchcube-go/pkg/core/errors"
)

// MemoryQueue 内存任务队列
//
// 带缓冲的进程内队列,适合测试和单机运行。缓冲满时 Enqueue
// 阻塞直到有空位或上下文取消。
type MemoryQueue struct {
	jobs chan Job
	done chan struct{}
	once sync.Once
}

// NewMemoryQueue 创建内存任务队列
func NewMemoryQueue(capacity int) *MemoryQueue {
	if capacity <= 0 {
		capacity = 128
	}
	return &MemoryQueue{
		jobs: make(chan Job, capacity),
		done: make(chan struct{}),
	}
}

// Enqueue 投递一个任务
func (q *MemoryQueue) Enqueue(ctx context.Context, toolName string, args map[string]interface{}, sessionID, conversationID string) error {
	job := NewJob(toolName, args, sessionID, conversationID)
	if err := job.Validate(); err != nil {
		return err
	}

	select {
	case <-q.done:
		return errors.ErrQueueClosed
	default:
	}

	select {
	case q.jobs <- job:
		return nil
	case <-q.done:
		return errors.ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue 取出一个任务
//
// 关闭后仍先交付已入队的任务,排空后才返回 ErrQueueClosed。
func (q *MemoryQueue) Dequeue(ctx context.Context) (*Job, error) {
	select {
	case job := <-q.jobs:
		return &job, nil
	default:
	}

	select {
	case job := <-q.jobs:
		return &job, nil
	case <-q.done:
		return nil, errors.ErrQueueClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len 当前排队任务数
func (q *MemoryQueue) Len() int {
	return len(q.jobs)
}

// Close 关闭队列
func (q *MemoryQueue) Close() error {
	q.once.Do(func() {
		close(q.done)
	})
	return nil
}

// compile-time interface check
var _ Queue = (*MemoryQueue)(nil)
