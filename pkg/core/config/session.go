package config

// SessionBackend 会话存储后端类型
type SessionBackend string

const (
	// SessionBackendMemory 进程内存储
	SessionBackendMemory SessionBackend = "memory"
	// SessionBackendSQLite SQLite 存储
	SessionBackendSQLite SessionBackend = "sqlite"
)

// SessionConfig 会话存储配置
type SessionConfig struct {
	// Backend 存储后端
	Backend SessionBackend `koanf:"backend"`
	// Path SQLite 数据库文件路径（backend=sqlite 时使用）
	Path string `koanf:"path"`
}

// Validate 验证会话配置
func (c *SessionConfig) Validate() error {
	switch c.Backend {
	case SessionBackendMemory, SessionBackendSQLite:
	default:
		return ErrInvalidBackend
	}
	if c.Backend == SessionBackendSQLite && c.Path == "" {
		return ErrPathRequired
	}
	return nil
}

// WithDefaults 返回带默认值的配置
func (c SessionConfig) WithDefaults() SessionConfig {
	if c.Backend == "" {
		c.Backend = SessionBackendMemory
	}
	if c.Backend == SessionBackendSQLite && c.Path == "" {
		c.Path = "glitchcube.db"
	}
	return c
}
