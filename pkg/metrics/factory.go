package metrics

import (
	"time"

	"github.com/glitchcube/glitchcube-go/pkg/core/config"
)

// NewStore 根据配置创建样本存储
func NewStore(cfg config.MetricsConfig) (Store, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	window := time.Duration(cfg.WindowDays) * 24 * time.Hour

	switch cfg.Backend {
	case config.MetricsBackendRedis:
		return NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			WithStorePrefix(cfg.Redis.Prefix),
			WithStoreWindow(window),
		), nil
	case config.MetricsBackendMemory:
		fallthrough
	default:
		return NewMemoryStore(window), nil
	}
}
