package config

import "time"

// ToolsConfig 工具执行与重试循环配置
type ToolsConfig struct {
	// MaxIterations 重试循环的最大迭代次数
	// 默认: 5, 范围: [1, 10]
	MaxIterations int `koanf:"max_iterations"`
	// Temperature 技术翻译调用的温度参数
	// 默认: 0.1, 范围: [0, 2]，精确的结构化翻译要求近似确定性
	Temperature float64 `koanf:"temperature"`
	// MaxTokens 技术翻译调用的最大输出 token 数
	// 默认: 1024
	MaxTokens int `koanf:"max_tokens"`
	// SyncTimeout 单次同步工具执行超时
	// 默认: 10s
	SyncTimeout time.Duration `koanf:"sync_timeout"`
	// TokenBudget 技术提示词的 Token 预算（超出时记录告警）
	// 默认: 4096
	TokenBudget int `koanf:"token_budget"`
}

// Validate 验证工具配置
func (c *ToolsConfig) Validate() error {
	if c.MaxIterations < 1 || c.MaxIterations > 10 {
		return ErrInvalidMaxIterations
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return ErrInvalidTemperature
	}
	if c.MaxTokens < 1 {
		return ErrInvalidMaxTokens
	}
	if c.SyncTimeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// WithDefaults 返回带默认值的配置
func (c ToolsConfig) WithDefaults() ToolsConfig {
	if c.MaxIterations == 0 {
		c.MaxIterations = 5
	}
	if c.Temperature == 0 {
		c.Temperature = 0.1
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 1024
	}
	if c.SyncTimeout == 0 {
		c.SyncTimeout = 10 * time.Second
	}
	if c.TokenBudget == 0 {
		c.TokenBudget = 4096
	}
	return c
}

// CubeConfig 立方体硬件实体配置
type CubeConfig struct {
	// LightEntity 默认灯光实体
	LightEntity string `koanf:"light_entity"`
	// ControllableLights 允许控制的灯光实体列表
	ControllableLights []string `koanf:"controllable_lights"`
	// MediaPlayerEntity 音频播放实体
	MediaPlayerEntity string `koanf:"media_player_entity"`
	// ModeEntity 运行模式选择实体
	ModeEntity string `koanf:"mode_entity"`
}

// WithDefaults 返回带默认值的配置
func (c CubeConfig) WithDefaults() CubeConfig {
	if c.LightEntity == "" {
		c.LightEntity = "light.cube_inner"
	}
	if len(c.ControllableLights) == 0 {
		c.ControllableLights = []string{"light.cube_inner", "light.cube_top", "light.cube_base"}
	}
	if c.MediaPlayerEntity == "" {
		c.MediaPlayerEntity = "media_player.square_voice"
	}
	if c.ModeEntity == "" {
		c.ModeEntity = "input_select.cube_mode"
	}
	return c
}
