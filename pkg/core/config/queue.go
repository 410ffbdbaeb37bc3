package config

import "time"

// QueueBackend 队列后端类型
type QueueBackend string

const (
	// QueueBackendMemory 进程内队列
	QueueBackendMemory QueueBackend = "memory"
	// QueueBackendRedis Redis 列表队列
	QueueBackendRedis QueueBackend = "redis"
)

// QueueConfig 异步任务队列配置
type QueueConfig struct {
	// Backend 队列后端
	Backend QueueBackend `koanf:"backend"`
	// Key 队列键名
	Key string `koanf:"key"`
	// PollTimeout 工作进程阻塞弹出的超时
	// 默认: 5s
	PollTimeout time.Duration `koanf:"poll_timeout"`
	// Redis Redis 连接配置（backend=redis 时使用）
	Redis RedisConfig `koanf:"redis"`
}

// Validate 验证队列配置
func (c *QueueConfig) Validate() error {
	switch c.Backend {
	case QueueBackendMemory, QueueBackendRedis:
	default:
		return ErrInvalidBackend
	}
	if c.PollTimeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// WithDefaults 返回带默认值的配置
func (c QueueConfig) WithDefaults() QueueConfig {
	if c.Backend == "" {
		c.Backend = QueueBackendMemory
	}
	if c.Key == "" {
		c.Key = "glitchcube:queue:tools"
	}
	if c.PollTimeout == 0 {
		c.PollTimeout = 5 * time.Second
	}
	c.Redis = c.Redis.WithDefaults()
	return c
}
