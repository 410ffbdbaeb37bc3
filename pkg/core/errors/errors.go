// Package errors 定义 Glitch Cube 核心的通用错误类型
package errors

import (
	"errors"
	"fmt"
)

// 通用错误
var (
	// ErrNotImplemented 功能未实现
	ErrNotImplemented = errors.New("not implemented")
	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrContextCanceled 上下文被取消
	ErrContextCanceled = errors.New("context canceled")
)

// LLM 相关错误
var (
	// ErrRateLimited 请求被限速
	ErrRateLimited = errors.New("rate limited")
	// ErrTimeout 请求超时
	ErrTimeout = errors.New("request timeout")
	// ErrTokenLimitExceeded Token 限制超出
	ErrTokenLimitExceeded = errors.New("token limit exceeded")
	// ErrInvalidAPIKey API 密钥无效
	ErrInvalidAPIKey = errors.New("invalid API key")
	// ErrModelNotFound 模型未找到
	ErrModelNotFound = errors.New("model not found")
	// ErrProviderUnavailable 提供商不可用
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrInvalidResponse LLM 响应无效
	ErrInvalidResponse = errors.New("invalid LLM response")
)

// 工具相关错误
var (
	// ErrToolNotFound 工具未找到
	ErrToolNotFound = errors.New("tool not found")
	// ErrToolExecutionFailed 工具执行失败
	ErrToolExecutionFailed = errors.New("tool execution failed")
	// ErrInvalidToolArgs 工具参数无效
	ErrInvalidToolArgs = errors.New("invalid tool arguments")
	// ErrToolAlreadyRegistered 工具已注册
	ErrToolAlreadyRegistered = errors.New("tool already registered")
	// ErrInvalidTool 无效的工具
	ErrInvalidTool = errors.New("invalid tool")
	// ErrToolTimeout 工具执行超时
	ErrToolTimeout = errors.New("tool execution timeout")
)

// 执行意图相关错误
var (
	// ErrMaxIterationsExceeded 超出最大重试次数
	ErrMaxIterationsExceeded = errors.New("max iterations exceeded")
	// ErrNoToolsAvailable 当前人格没有可用工具
	ErrNoToolsAvailable = errors.New("no tools available")
	// ErrEmptyIntent 意图为空
	ErrEmptyIntent = errors.New("empty intent")
)

// 执行器枢纽（Home Assistant）相关错误
var (
	// ErrHubUnavailable 执行器枢纽不可达
	ErrHubUnavailable = errors.New("actuator hub unavailable")
	// ErrHubRequestFailed 枢纽请求失败
	ErrHubRequestFailed = errors.New("hub request failed")
	// ErrEntityNotFound 实体不存在（正常结果，由调用方判断）
	ErrEntityNotFound = errors.New("entity not found")
)

// 存储相关错误
var (
	// ErrStoreUnavailable 存储不可用
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrConversationNotFound 会话未找到
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrGoalNotFound 当前目标未设置
	ErrGoalNotFound = errors.New("goal not found")
)

// 队列相关错误
var (
	// ErrQueueUnavailable 队列不可用
	ErrQueueUnavailable = errors.New("queue unavailable")
	// ErrQueueClosed 队列已关闭
	ErrQueueClosed = errors.New("queue closed")
	// ErrInvalidJob 任务负载无效
	ErrInvalidJob = errors.New("invalid job payload")
)

// WrapError 包装错误并添加上下文信息
func WrapError(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// IsRetryable 判断错误是否可重试
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrProviderUnavailable) ||
		errors.Is(err, ErrHubUnavailable) ||
		errors.Is(err, ErrQueueUnavailable)
}

// IsFatal 判断错误是否为致命错误（不可恢复）
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrInvalidAPIKey) ||
		errors.Is(err, ErrModelNotFound) ||
		errors.Is(err, ErrInvalidConfig)
}
