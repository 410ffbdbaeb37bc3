package config

import "errors"

// 配置验证相关错误
var (
	// ErrModelRequired 模型名称必填
	ErrModelRequired = errors.New("model name is required")
	// ErrInvalidTimeout 超时时间无效
	ErrInvalidTimeout = errors.New("invalid timeout value")
	// ErrInvalidMaxRetries 重试次数无效
	ErrInvalidMaxRetries = errors.New("invalid max retries value")
	// ErrInvalidMaxIterations 迭代次数无效
	ErrInvalidMaxIterations = errors.New("max iterations must be between 1 and 10")
	// ErrInvalidTemperature 温度值无效
	ErrInvalidTemperature = errors.New("temperature must be between 0 and 2")
	// ErrInvalidMaxTokens Token 数无效
	ErrInvalidMaxTokens = errors.New("max tokens must be positive")
	// ErrHubURLRequired 枢纽地址必填
	ErrHubURLRequired = errors.New("hub base URL is required")
	// ErrInvalidBackend 后端类型无效
	ErrInvalidBackend = errors.New("invalid backend type")
	// ErrInvalidWindow 保留窗口无效
	ErrInvalidWindow = errors.New("retention window must be at least one day")
	// ErrPathRequired 存储路径必填
	ErrPathRequired = errors.New("store path is required")
)
