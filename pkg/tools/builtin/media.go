package builtin

import (
	"context"
	"fmt"

	"github.com/glitchcube/glitchcube-go/pkg/core/config"
	"github.com/glitchcube/glitchcube-go/pkg/core/errors"
	"github.com/glitchcube/glitchcube-go/pkg/hub"
	"github.com/glitchcube/glitchcube-go/pkg/tools"
)

// PlaySound 声音播放工具
//
// 异步执行:播放可能持续数秒到数分钟,入队后由 worker 驱动
// 媒体播放器,对话回合不等待播放结果。
type PlaySound struct {
	hub *hub.Client
	cfg config.CubeConfig
}

// NewPlaySound 创建声音播放工具
func NewPlaySound(hubClient *hub.Client, cfg config.CubeConfig) *PlaySound {
	return &PlaySound{hub: hubClient, cfg: cfg}
}

// Name 返回工具名称
func (t *PlaySound) Name() string {
	return "play_sound"
}

// Description 返回工具描述
func (t *PlaySound) Description() string {
	return "Play a sound or piece of music through the cube's speaker."
}

// ExecutionType 返回执行类型
func (t *PlaySound) ExecutionType() tools.ExecutionType {
	return tools.ExecutionAsync
}

// Parameters 返回参数 Schema
func (t *PlaySound) Parameters() tools.ParameterSchema {
	return tools.ParameterSchema{
		Type: "object",
		Properties: map[string]tools.PropertySchema{
			"sound": {
				Type:        "string",
				Description: "URL or media ID of the sound to play",
			},
			"volume": {
				Type:        "number",
				Description: "Playback volume from 0.0 (mute) to 1.0 (full)",
			},
		},
		Required: []string{"sound"},
	}
}

// Validators 返回自定义校验器
func (t *PlaySound) Validators() []tools.Validator {
	return []tools.Validator{validateVolume}
}

// validateVolume 检查音量在 0.0 到 1.0 之间
func validateVolume(args map[string]interface{}, errs *tools.ErrorList) {
	v, ok := numberArg(args, "volume")
	if !ok {
		return
	}
	if v < 0.0 || v > 1.0 {
		errs.Add("Volume must be between 0.0 and 1.0")
	}
}

// Execute 播放声音
func (t *PlaySound) Execute(ctx context.Context, args map[string]interface{}) (*tools.Result, error) {
	sound, _ := stringArg(args, "sound")

	if volume, ok := numberArg(args, "volume"); ok {
		err := t.hub.CallService(ctx, "media_player", "volume_set", map[string]interface{}{
			"entity_id":    t.cfg.MediaPlayerEntity,
			"volume_level": volume,
		})
		if err != nil {
			return tools.NewToolError(t.Name(), errors.WrapError(err, "failed to set volume")), nil
		}
	}

	err := t.hub.CallService(ctx, "media_player", "play_media", map[string]interface{}{
		"entity_id":          t.cfg.MediaPlayerEntity,
		"media_content_id":   sound,
		"media_content_type": "music",
	})
	if err != nil {
		return tools.NewToolError(t.Name(), errors.WrapError(err, "failed to play sound")), nil
	}

	return tools.NewToolResultData(t.Name(),
		fmt.Sprintf("Playing '%s'", sound),
		map[string]interface{}{"sound": sound}), nil
}

// compile-time interface check
var _ tools.Tool = (*PlaySound)(nil)
var _ tools.ToolWithValidators = (*PlaySound)(nil)
