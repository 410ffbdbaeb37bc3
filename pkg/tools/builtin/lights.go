// Package builtin 提供 Cube 装置的内置工具集
//
// 所有工具通过自动化枢纽的 REST API 驱动实体。工具假定参数已由
// 上层规范化为 snake_case 键名和目标类型。
package builtin

import (
	"context"
	"fmt"

	"github.com/glitchcube/glitchcube-go/pkg/core/config"
	"github.com/glitchcube/glitchcube-go/pkg/core/errors"
	"github.com/glitchcube/glitchcube-go/pkg/hub"
	"github.com/glitchcube/glitchcube-go/pkg/tools"
)

// ControlLights 灯光控制工具
//
// 开关灯并设置颜色与亮度。目标实体必须在可控灯列表内,
// 越界时返回携带可选实体列表的失败结果,供重试反馈使用。
type ControlLights struct {
	hub *hub.Client
	cfg config.CubeConfig
}

// NewControlLights 创建灯光控制工具
func NewControlLights(hubClient *hub.Client, cfg config.CubeConfig) *ControlLights {
	return &ControlLights{hub: hubClient, cfg: cfg}
}

// Name 返回工具名称
func (t *ControlLights) Name() string {
	return "control_lights"
}

// Description 返回工具描述
func (t *ControlLights) Description() string {
	return "Control the cube's lights: turn them on or off, set RGB color and brightness."
}

// ExecutionType 返回执行类型
func (t *ControlLights) ExecutionType() tools.ExecutionType {
	return tools.ExecutionSync
}

// Parameters 返回参数 Schema
func (t *ControlLights) Parameters() tools.ParameterSchema {
	return tools.ParameterSchema{
		Type: "object",
		Properties: map[string]tools.PropertySchema{
			"state": {
				Type:        "string",
				Description: "Desired light state",
				Enum:        []string{"on", "off"},
			},
			"entity": {
				Type:        "string",
				Description: "Entity ID of the light to control, defaults to the inner cube light",
			},
			"rgb_color": {
				Type:        "array",
				Description: "RGB color as three integers 0-255, e.g. [255, 128, 0]",
				Items:       &tools.PropertySchema{Type: "integer"},
			},
			"brightness": {
				Type:        "integer",
				Description: "Brightness from 0 (off) to 255 (full)",
				Minimum:     float64Ptr(0),
				Maximum:     float64Ptr(255),
			},
		},
		Required: []string{"state"},
	}
}

// Validators 返回自定义校验器
func (t *ControlLights) Validators() []tools.Validator {
	return []tools.Validator{validateRGB}
}

// validateRGB 检查 rgb_color 是三个 0-255 的整数
//
// 规范化层已把合法的简写编码展开为 []int,走到这里还不是
// []int 的值一律视为非法。
func validateRGB(args map[string]interface{}, errs *tools.ErrorList) {
	raw, ok := args["rgb_color"]
	if !ok || raw == nil {
		return
	}

	rgb, ok := raw.([]int)
	if !ok || len(rgb) != 3 {
		errs.Add("RGB values must be integers 0-255")
		return
	}
	for _, v := range rgb {
		if v < 0 || v > 255 {
			errs.Add("RGB values must be integers 0-255")
			return
		}
	}
}

// Execute 执行灯光控制
func (t *ControlLights) Execute(ctx context.Context, args map[string]interface{}) (*tools.Result, error) {
	entity := t.cfg.LightEntity
	if v, ok := stringArg(args, "entity"); ok {
		entity = v
	}

	if !t.controllable(entity) {
		return tools.NewToolFailureData(t.Name(),
			fmt.Sprintf("'%s' is not a controllable light", entity),
			map[string]interface{}{"controllable_lights": t.cfg.ControllableLights}), nil
	}

	state, _ := stringArg(args, "state")
	if state == "off" {
		err := t.hub.CallService(ctx, "light", "turn_off", map[string]interface{}{
			"entity_id": entity,
		})
		if err != nil {
			return tools.NewToolError(t.Name(), errors.WrapError(err, "failed to control light")), nil
		}
		return tools.NewToolResultData(t.Name(),
			fmt.Sprintf("Turned off %s", entity),
			map[string]interface{}{"entity": entity, "state": "off"}), nil
	}

	serviceData := map[string]interface{}{"entity_id": entity}
	resultData := map[string]interface{}{"entity": entity, "state": "on"}

	if rgb, ok := args["rgb_color"].([]int); ok {
		serviceData["rgb_color"] = rgb
		resultData["rgb_color"] = rgb
	}
	if b, ok := numberArg(args, "brightness"); ok {
		serviceData["brightness"] = int(b)
		resultData["brightness"] = int(b)
	}

	if err := t.hub.CallService(ctx, "light", "turn_on", serviceData); err != nil {
		return tools.NewToolError(t.Name(), errors.WrapError(err, "failed to control light")), nil
	}

	return tools.NewToolResultData(t.Name(),
		fmt.Sprintf("Turned on %s", entity), resultData), nil
}

// controllable 检查实体是否在可控灯列表内
func (t *ControlLights) controllable(entity string) bool {
	for _, e := range t.cfg.ControllableLights {
		if e == entity {
			return true
		}
	}
	return false
}

// compile-time interface check
var _ tools.Tool = (*ControlLights)(nil)
var _ tools.ToolWithValidators = (*ControlLights)(nil)
