// Package config 提供配置加载和管理功能
package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config 全局配置结构
type Config struct {
	// LLM LLM 配置
	LLM LLMConfig `koanf:"llm"`
	// Hub 执行器枢纽（Home Assistant）配置
	Hub HubConfig `koanf:"hub"`
	// Tools 工具执行与重试循环配置
	Tools ToolsConfig `koanf:"tools"`
	// Cube 立方体硬件实体配置
	Cube CubeConfig `koanf:"cube"`
	// Metrics 工具性能指标配置
	Metrics MetricsConfig `koanf:"metrics"`
	// Queue 异步任务队列配置
	Queue QueueConfig `koanf:"queue"`
	// Session 会话存储配置
	Session SessionConfig `koanf:"session"`
	// Personas 人格配置
	Personas PersonasConfig `koanf:"personas"`
	// Observability 可观测性配置
	Observability ObservabilityConfig `koanf:"observability"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	// Enabled 是否启用
	Enabled bool `koanf:"enabled"`
	// ServiceName 服务名称
	ServiceName string `koanf:"service_name"`
	// TracerEndpoint 追踪端点
	TracerEndpoint string `koanf:"tracer_endpoint"`
	// MetricsEndpoint 指标端点
	MetricsEndpoint string `koanf:"metrics_endpoint"`
	// SampleRate 采样率 [0, 1]
	SampleRate float64 `koanf:"sample_rate"`
}

// PersonasConfig 人格配置
type PersonasConfig struct {
	// Dir 人格 YAML 文件目录
	Dir string `koanf:"dir"`
	// Default 默认人格 ID
	Default string `koanf:"default"`
}

// RedisConfig Redis 连接配置（队列与指标存储共用）
type RedisConfig struct {
	// Addr 地址（host:port）
	Addr string `koanf:"addr"`
	// Password 密码
	Password string `koanf:"password"`
	// DB 数据库编号
	DB int `koanf:"db"`
	// Prefix 键前缀
	Prefix string `koanf:"prefix"`
}

// WithDefaults 返回带默认值的配置
func (c RedisConfig) WithDefaults() RedisConfig {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.Prefix == "" {
		c.Prefix = "glitchcube"
	}
	return c
}

// Loader 配置加载器
type Loader struct {
	k *koanf.Koanf
}

// NewLoader 创建配置加载器
func NewLoader() *Loader {
	return &Loader{
		k: koanf.New("."),
	}
}

// LoadFile 从 YAML 文件加载配置
func (l *Loader) LoadFile(path string) error {
	// 文件不存在不报错，使用默认值
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return l.k.Load(file.Provider(path), yaml.Parser())
}

// LoadEnv 从环境变量加载配置
func (l *Loader) LoadEnv(prefix string) error {
	return l.k.Load(env.Provider(prefix, ".", func(s string) string {
		// 转换环境变量名: GLITCHCUBE_LLM_API_KEY -> llm.api_key
		s = strings.TrimPrefix(s, prefix)
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, "_", ".")
		return s
	}), nil)
}

// Unmarshal 解析配置到结构体
func (l *Loader) Unmarshal(cfg *Config) error {
	return l.k.Unmarshal("", cfg)
}

// Get 获取配置值
func (l *Loader) Get(key string) interface{} {
	return l.k.Get(key)
}

// GetString 获取字符串配置值
func (l *Loader) GetString(key string) string {
	return l.k.String(key)
}

// GetInt 获取整数配置值
func (l *Loader) GetInt(key string) int {
	return l.k.Int(key)
}

// GetBool 获取布尔配置值
func (l *Loader) GetBool(key string) bool {
	return l.k.Bool(key)
}

// GetDuration 获取时间间隔配置值
func (l *Loader) GetDuration(key string) time.Duration {
	return l.k.Duration(key)
}

// Load 加载完整配置（文件 + 环境变量）
func Load(configPath string) (*Config, error) {
	loader := NewLoader()

	// 加载配置文件
	if configPath != "" {
		if err := loader.LoadFile(configPath); err != nil {
			return nil, err
		}
	}

	// 加载环境变量（优先级更高）
	if err := loader.LoadEnv("GLITCHCUBE_"); err != nil {
		return nil, err
	}

	// 解析到结构体
	cfg := &Config{}
	if err := loader.Unmarshal(cfg); err != nil {
		return nil, err
	}

	// 应用默认值
	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults 应用默认配置值
func applyDefaults(cfg *Config) {
	cfg.LLM = cfg.LLM.WithDefaults()
	cfg.Hub = cfg.Hub.WithDefaults()
	cfg.Tools = cfg.Tools.WithDefaults()
	cfg.Cube = cfg.Cube.WithDefaults()
	cfg.Metrics = cfg.Metrics.WithDefaults()
	cfg.Queue = cfg.Queue.WithDefaults()
	cfg.Session = cfg.Session.WithDefaults()

	if cfg.Personas.Dir == "" {
		cfg.Personas.Dir = "configs/personas"
	}
	if cfg.Personas.Default == "" {
		cfg.Personas.Default = "buddy"
	}

	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = "glitchcube"
	}
	if cfg.Observability.SampleRate == 0 {
		cfg.Observability.SampleRate = 1.0
	}
}
