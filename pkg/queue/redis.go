package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/glitchcube/glitchcube-go/pkg/core/errors"
)

// RedisQueue Redis 任务队列
//
// LPUSH 入队、BRPOP 消费的简单可靠队列。多个 worker 可以消费
// 同一个键,Redis 保证单个任务只被取走一次。
type RedisQueue struct {
	client      *backend.Client
	key         string
	pollTimeout time.Duration
}

// RedisQueueOption RedisQueue 配置选项
type RedisQueueOption func(*RedisQueue)

// WithQueueKey 设置队列键名
func WithQueueKey(key string) RedisQueueOption {
	return func(q *RedisQueue) {
		if key != "" {
			q.key = key
		}
	}
}

// WithPollTimeout 设置 BRPOP 的阻塞等待时长
func WithPollTimeout(d time.Duration) RedisQueueOption {
	return func(q *RedisQueue) {
		if d > 0 {
			q.pollTimeout = d
		}
	}
}

// NewRedisQueue 创建 Redis 任务队列
func NewRedisQueue(addr, password string, db int, opts ...RedisQueueOption) *RedisQueue {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisQueueFromClient(client, opts...)
}

// NewRedisQueueFromClient 基于现有客户端创建 Redis 任务队列
func NewRedisQueueFromClient(client *backend.Client, opts ...RedisQueueOption) *RedisQueue {
	q := &RedisQueue{
		client:      client,
		key:         "glitchcube:queue:tools",
		pollTimeout: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(q)
	}

	return q
}

// Enqueue 投递一个任务
func (q *RedisQueue) Enqueue(ctx context.Context, toolName string, args map[string]interface{}, sessionID, conversationID string) error {
	job := NewJob(toolName, args, sessionID, conversationID)
	if err := job.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	if err := q.client.LPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrQueueUnavailable, err)
	}
	return nil
}

// Dequeue 取出一个任务
//
// 阻塞至多 pollTimeout,无任务时返回 (nil, nil) 让调用方继续
// 轮询,保证关闭信号能被及时观察到。
func (q *RedisQueue) Dequeue(ctx context.Context) (*Job, error) {
	res, err := q.client.BRPop(ctx, q.pollTimeout, q.key).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrQueueUnavailable, err)
	}
	if len(res) != 2 {
		return nil, fmt.Errorf("%w: unexpected BRPOP reply", errors.ErrInvalidJob)
	}

	var job Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidJob, err)
	}
	return &job, nil
}

// Len 当前排队任务数
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}

// Close 关闭 Redis 客户端
func (q *RedisQueue) Close() error {
	return q.client.Close()
}

// compile-time interface check
var _ Queue = (*RedisQueue)(nil)
