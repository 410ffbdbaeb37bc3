// Package persona 提供人格配置加载。
//
// 每个人格是一个 YAML 文件,描述性格提示词、语音标识和工具白名单。
// 加载后通过 Set.ApplyTo 把白名单注入工具注册表。
package persona

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/glitchcube/glitchcube-go/pkg/core/errors"
)

// Persona 人格定义
type Persona struct {
	// ID 人格标识
	ID string `koanf:"id"`
	// Name 展示名称
	Name string `koanf:"name"`
	// VoiceID TTS 语音标识
	VoiceID string `koanf:"voice_id"`
	// SystemPrompt 性格系统提示词
	SystemPrompt string `koanf:"system_prompt"`
	// Greeting 开场白
	Greeting string `koanf:"greeting"`
	// Tools 工具白名单(空表示可用全部工具)
	Tools []string `koanf:"tools"`
}

// Validate 验证人格定义是否完整
func (p *Persona) Validate() error {
	if p.ID == "" {
		return errors.WrapError(errors.ErrInvalidConfig, "persona id is required")
	}
	if p.SystemPrompt == "" {
		return errors.WrapError(errors.ErrInvalidConfig, fmt.Sprintf("persona '%s': system_prompt is required", p.ID))
	}
	return nil
}

// Load 从 YAML 文件加载单个人格
//
// 文件未声明 id 时,以文件名(去扩展名)作为人格标识。
//
// 参数:
//   - path: YAML 文件路径
//
// 返回:
//   - *Persona: 人格定义
//   - error: 错误信息
func Load(path string) (*Persona, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load persona file %s: %w", path, err)
	}

	var p Persona
	if err := k.Unmarshal("", &p); err != nil {
		return nil, fmt.Errorf("failed to parse persona file %s: %w", path, err)
	}

	if p.ID == "" {
		base := filepath.Base(path)
		p.ID = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}
