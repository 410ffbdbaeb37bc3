package queue

import (
	"github.com/glitchcube/glitchcube-go/pkg/core/config"
)

// NewQueue 根据配置创建任务队列
func NewQueue(cfg config.QueueConfig) (Queue, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case config.QueueBackendRedis:
		return NewRedisQueue(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			WithQueueKey(cfg.Key),
			WithPollTimeout(cfg.PollTimeout),
		), nil
	case config.QueueBackendMemory:
		fallthrough
	default:
		return NewMemoryQueue(0), nil
	}
}
