package agents

import (
	"log/slog"
	"time"

	"github.com/glitchcube/glitchcube-go/pkg/core/message"
	"github.com/glitchcube/glitchcube-go/pkg/otel"
)

// Option Agent 配置选项函数
type Option func(*AgentOptions)

// AgentOptions Agent 配置选项
//
// 标量配置与注入的协作对象都在这里。协作对象为 nil 时由
// 构造函数补默认实现。
type AgentOptions struct {
	// Name 代理名称
	Name string
	// MaxIterations 技术翻译的最大迭代次数
	MaxIterations int
	// Temperature 技术翻译调用的采样温度,翻译要求确定性所以取低值
	Temperature float64
	// MaxTokens 单次响应的最大 Token 数
	MaxTokens int
	// Model Token 预算计数使用的模型编码
	Model string
	// TokenBudget 技术提示词的 Token 预算,0 表示不检查
	TokenBudget int
	// Timeout 单次 LLM 调用的超时时间
	Timeout time.Duration
	// Logger 结构化日志器
	Logger *slog.Logger
	// Counter Token 计数器,nil 时按 Model 构造
	Counter message.TokenCounter
	// Tracer 分布式追踪器,与 Metrics 一起构成意图级观测
	Tracer otel.Tracer
	// Metrics 指标收集器
	Metrics otel.Metrics
}

// DefaultAgentOptions 返回默认选项
func DefaultAgentOptions() *AgentOptions {
	return &AgentOptions{
		Name:          "ToolCalling",
		MaxIterations: 5,
		Temperature:   0.1,
		MaxTokens:     1024,
		Model:         "gpt-4o",
		TokenBudget:   4096,
		Timeout:       30 * time.Second,
	}
}

// WithName 设置 Agent 名称
func WithName(name string) Option {
	return func(o *AgentOptions) {
		o.Name = name
	}
}

// WithMaxIterations 设置最大迭代次数
func WithMaxIterations(n int) Option {
	return func(o *AgentOptions) {
		o.MaxIterations = n
	}
}

// WithAgentTemperature 设置温度参数
func WithAgentTemperature(t float64) Option {
	return func(o *AgentOptions) {
		o.Temperature = t
	}
}

// WithAgentMaxTokens 设置最大 token 数
func WithAgentMaxTokens(n int) Option {
	return func(o *AgentOptions) {
		o.MaxTokens = n
	}
}

// WithModel 设置 Token 计数使用的模型编码
func WithModel(model string) Option {
	return func(o *AgentOptions) {
		o.Model = model
	}
}

// WithTokenBudget 设置技术提示词的 Token 预算
func WithTokenBudget(n int) Option {
	return func(o *AgentOptions) {
		o.TokenBudget = n
	}
}

// WithAgentTimeout 设置单次 LLM 调用的超时时间
func WithAgentTimeout(d time.Duration) Option {
	return func(o *AgentOptions) {
		o.Timeout = d
	}
}

// WithAgentLogger 设置日志器
func WithAgentLogger(l *slog.Logger) Option {
	return func(o *AgentOptions) {
		o.Logger = l
	}
}

// WithTokenCounter 设置 Token 计数器
func WithTokenCounter(c message.TokenCounter) Option {
	return func(o *AgentOptions) {
		o.Counter = c
	}
}

// WithTracer 设置追踪器
func WithTracer(t otel.Tracer) Option {
	return func(o *AgentOptions) {
		o.Tracer = t
	}
}

// WithMetrics 设置指标收集器
func WithMetrics(m otel.Metrics) Option {
	return func(o *AgentOptions) {
		o.Metrics = m
	}
}
