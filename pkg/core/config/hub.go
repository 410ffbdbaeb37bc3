package config

import "time"

// HubConfig 执行器枢纽（Home Assistant）配置
type HubConfig struct {
	// BaseURL 枢纽 API 地址（如 http://homeassistant.local:8123）
	BaseURL string `koanf:"base_url"`
	// Token 长期访问令牌
	Token string `koanf:"token"`
	// Timeout 单次请求超时
	// 默认: 10s
	Timeout time.Duration `koanf:"timeout"`
}

// Validate 验证枢纽配置
func (c *HubConfig) Validate() error {
	if c.BaseURL == "" {
		return ErrHubURLRequired
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// WithDefaults 返回带默认值的配置
func (c HubConfig) WithDefaults() HubConfig {
	if c.BaseURL == "" {
		c.BaseURL = "http://homeassistant.local:8123"
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	return c
}
