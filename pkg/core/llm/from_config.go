package llm

import (
	"fmt"
	"time"

	"github.com/glitchcube/glitchcube-go/pkg/core/config"
)

// FromConfig 从配置创建 LLM Provider
//
// 配置了备用模型时返回 FallbackProvider，主模型失败后按顺序尝试。
func FromConfig(cfg config.LLMConfig) (Provider, error) {
	cfg = cfg.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// 创建主提供商
	primary, err := createProviderFromConfig(cfg, cfg.Model)
	if err != nil {
		return nil, err
	}

	if len(cfg.FallbackModels) == 0 {
		return primary, nil
	}

	// 为每个备用模型创建同源客户端
	fallbacks := make([]Provider, 0, len(cfg.FallbackModels))
	for _, model := range cfg.FallbackModels {
		fb, err := createProviderFromConfig(cfg, model)
		if err != nil {
			return nil, fmt.Errorf("failed to create fallback provider for %s: %w", model, err)
		}
		fallbacks = append(fallbacks, fb)
	}

	return NewFallbackProvider(primary, fallbacks), nil
}

// createProviderFromConfig 根据配置创建特定提供商
func createProviderFromConfig(cfg config.LLMConfig, model string) (Provider, error) {
	opts := []Option{
		WithModel(model),
		WithTimeout(cfg.Timeout),
		WithMaxRetries(cfg.MaxRetries),
		WithRetryDelay(cfg.RetryDelay),
	}

	if cfg.APIKey != "" {
		opts = append(opts, WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, WithBaseURL(cfg.BaseURL))
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAI(opts...)
	case config.ProviderOpenRouter:
		return NewOpenRouter(opts...)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

// MustFromConfig 从配置创建 Provider，失败时 panic
func MustFromConfig(cfg config.LLMConfig) Provider {
	provider, err := FromConfig(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to create provider from config: %v", err))
	}
	return provider
}

// DefaultConfig 返回默认配置
func DefaultConfig() config.LLMConfig {
	return config.LLMConfig{
		Provider:   config.ProviderOpenRouter,
		Model:      "openai/gpt-4o-mini",
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: time.Second,
	}
}

// OpenAIDefaultConfig 返回 OpenAI 直连默认配置
func OpenAIDefaultConfig() config.LLMConfig {
	return config.LLMConfig{
		Provider:   config.ProviderOpenAI,
		Model:      "gpt-4o-mini",
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: time.Second,
	}
}
