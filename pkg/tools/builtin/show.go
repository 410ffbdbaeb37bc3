package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/glitchcube/glitchcube-go/pkg/core/errors"
	"github.com/glitchcube/glitchcube-go/pkg/hub"
	"github.com/glitchcube/glitchcube-go/pkg/tools"
)

// RunLightShow 灯光秀编排工具
//
// agent 类型:灯光秀是多步骤的长时编排,和异步工具一样通过
// 队列边界派发到后台执行。
type RunLightShow struct {
	hub *hub.Client
}

// NewRunLightShow 创建灯光秀工具
func NewRunLightShow(hubClient *hub.Client) *RunLightShow {
	return &RunLightShow{hub: hubClient}
}

// Name 返回工具名称
func (t *RunLightShow) Name() string {
	return "run_light_show"
}

// Description 返回工具描述
func (t *RunLightShow) Description() string {
	return "Run a named choreographed light show across all cube lights."
}

// ExecutionType 返回执行类型
func (t *RunLightShow) ExecutionType() tools.ExecutionType {
	return tools.ExecutionAgent
}

// Parameters 返回参数 Schema
func (t *RunLightShow) Parameters() tools.ParameterSchema {
	return tools.ParameterSchema{
		Type: "object",
		Properties: map[string]tools.PropertySchema{
			"show": {
				Type:        "string",
				Description: "Name of the light show script, e.g. sunrise, thunderstorm",
			},
			"duration": {
				Type:        "integer",
				Description: "Duration of the show in seconds",
				Minimum:     float64Ptr(5),
				Maximum:     float64Ptr(600),
			},
		},
		Required: []string{"show"},
	}
}

// Execute 启动灯光秀
func (t *RunLightShow) Execute(ctx context.Context, args map[string]interface{}) (*tools.Result, error) {
	rawShow, _ := stringArg(args, "show")
	show := strings.ToLower(strings.TrimSpace(rawShow))

	serviceData := map[string]interface{}{
		"entity_id": "script.light_show_" + show,
	}
	if duration, ok := numberArg(args, "duration"); ok {
		serviceData["variables"] = map[string]interface{}{
			"duration": int(duration),
		}
	}

	if err := t.hub.CallService(ctx, "script", "turn_on", serviceData); err != nil {
		return tools.NewToolError(t.Name(), errors.WrapError(err, "failed to start light show")), nil
	}

	return tools.NewToolResultData(t.Name(),
		fmt.Sprintf("Started light show '%s'", show),
		map[string]interface{}{"show": show}), nil
}

// compile-time interface check
var _ tools.Tool = (*RunLightShow)(nil)
