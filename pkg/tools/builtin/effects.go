package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/glitchcube/glitchcube-go/pkg/core/config"
	"github.com/glitchcube/glitchcube-go/pkg/core/errors"
	"github.com/glitchcube/glitchcube-go/pkg/hub"
	"github.com/glitchcube/glitchcube-go/pkg/tools"
)

// AvailableEffects Cube 灯光支持的特效名称
//
// 特效名的合法性在执行阶段检查而不是放进 Schema 枚举:
// 未知特效需要返回携带可选项的独立错误形态,供重试反馈
// 引导 LLM 改用合法名称。
var AvailableEffects = []string{
	"rainbow",
	"pulse",
	"strobe",
	"fade",
	"sparkle",
	"breathe",
}

// ControlEffects 灯光特效工具
type ControlEffects struct {
	hub *hub.Client
	cfg config.CubeConfig
}

// NewControlEffects 创建灯光特效工具
func NewControlEffects(hubClient *hub.Client, cfg config.CubeConfig) *ControlEffects {
	return &ControlEffects{hub: hubClient, cfg: cfg}
}

// Name 返回工具名称
func (t *ControlEffects) Name() string {
	return "control_effects"
}

// Description 返回工具描述
func (t *ControlEffects) Description() string {
	return fmt.Sprintf("Apply a light effect to the cube. Available effects: %s.",
		strings.Join(AvailableEffects, ", "))
}

// ExecutionType 返回执行类型
func (t *ControlEffects) ExecutionType() tools.ExecutionType {
	return tools.ExecutionSync
}

// Parameters 返回参数 Schema
func (t *ControlEffects) Parameters() tools.ParameterSchema {
	return tools.ParameterSchema{
		Type: "object",
		Properties: map[string]tools.PropertySchema{
			"effect": {
				Type:        "string",
				Description: "Name of the light effect to apply",
			},
			"entity": {
				Type:        "string",
				Description: "Entity ID of the light, defaults to the inner cube light",
			},
		},
		Required: []string{"effect"},
	}
}

// Execute 应用灯光特效
func (t *ControlEffects) Execute(ctx context.Context, args map[string]interface{}) (*tools.Result, error) {
	rawEffect, _ := stringArg(args, "effect")
	effect := strings.ToLower(strings.TrimSpace(rawEffect))

	if !contains(AvailableEffects, effect) {
		return tools.NewToolFailureData(t.Name(),
			fmt.Sprintf("Unknown effect '%s'", rawEffect),
			map[string]interface{}{"available_effects": AvailableEffects}), nil
	}

	entity := t.cfg.LightEntity
	if v, ok := stringArg(args, "entity"); ok {
		entity = v
	}

	err := t.hub.CallService(ctx, "light", "turn_on", map[string]interface{}{
		"entity_id": entity,
		"effect":    effect,
	})
	if err != nil {
		return tools.NewToolError(t.Name(), errors.WrapError(err, "failed to apply effect")), nil
	}

	return tools.NewToolResultData(t.Name(),
		fmt.Sprintf("Applied effect '%s' to %s", effect, entity),
		map[string]interface{}{"entity": entity, "effect": effect}), nil
}

// compile-time interface check
var _ tools.Tool = (*ControlEffects)(nil)
