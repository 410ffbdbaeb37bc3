package config

// MetricsBackend 指标存储后端类型
type MetricsBackend string

const (
	// MetricsBackendMemory 进程内存储
	MetricsBackendMemory MetricsBackend = "memory"
	// MetricsBackendRedis Redis 有序集合存储
	MetricsBackendRedis MetricsBackend = "redis"
)

// MetricsConfig 工具性能指标配置
type MetricsConfig struct {
	// Backend 存储后端
	Backend MetricsBackend `koanf:"backend"`
	// WindowDays 聚合查询的保留窗口（天）
	// 默认: 7
	WindowDays int `koanf:"window_days"`
	// Redis Redis 连接配置（backend=redis 时使用）
	Redis RedisConfig `koanf:"redis"`
}

// Validate 验证指标配置
func (c *MetricsConfig) Validate() error {
	switch c.Backend {
	case MetricsBackendMemory, MetricsBackendRedis:
	default:
		return ErrInvalidBackend
	}
	if c.WindowDays < 1 {
		return ErrInvalidWindow
	}
	return nil
}

// WithDefaults 返回带默认值的配置
func (c MetricsConfig) WithDefaults() MetricsConfig {
	if c.Backend == "" {
		c.Backend = MetricsBackendMemory
	}
	if c.WindowDays == 0 {
		c.WindowDays = 7
	}
	c.Redis = c.Redis.WithDefaults()
	return c
}
