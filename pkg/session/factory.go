package session

import (
	"github.com/glitchcube/glitchcube-go/pkg/core/config"
)

// NewStore 根据配置创建会话存储
//
// 参数:
//   - cfg: 会话存储配置
//
// 返回:
//   - Store: 存储实例
//   - error: 错误信息
func NewStore(cfg config.SessionConfig) (Store, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case config.SessionBackendSQLite:
		return NewSQLiteStore(cfg.Path)
	case config.SessionBackendMemory:
		fallthrough
	default:
		return NewMemoryStore(), nil
	}
}
