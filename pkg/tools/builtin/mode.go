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

// AvailableModes Cube 的运行模式
//
// 与特效名一样,模式名在执行阶段检查,未知模式返回带可选项的
// 独立错误形态。
var AvailableModes = []string{
	"ambient",
	"party",
	"meditation",
	"alert",
	"sleep",
}

// SetMode 运行模式切换工具
type SetMode struct {
	hub *hub.Client
	cfg config.CubeConfig
}

// NewSetMode 创建模式切换工具
func NewSetMode(hubClient *hub.Client, cfg config.CubeConfig) *SetMode {
	return &SetMode{hub: hubClient, cfg: cfg}
}

// Name 返回工具名称
func (t *SetMode) Name() string {
	return "set_mode"
}

// Description 返回工具描述
func (t *SetMode) Description() string {
	return fmt.Sprintf("Switch the cube's operating mode. Available modes: %s.",
		strings.Join(AvailableModes, ", "))
}

// ExecutionType 返回执行类型
func (t *SetMode) ExecutionType() tools.ExecutionType {
	return tools.ExecutionSync
}

// Parameters 返回参数 Schema
func (t *SetMode) Parameters() tools.ParameterSchema {
	return tools.ParameterSchema{
		Type: "object",
		Properties: map[string]tools.PropertySchema{
			"mode": {
				Type:        "string",
				Description: "Name of the operating mode",
			},
		},
		Required: []string{"mode"},
	}
}

// Execute 切换运行模式
func (t *SetMode) Execute(ctx context.Context, args map[string]interface{}) (*tools.Result, error) {
	rawMode, _ := stringArg(args, "mode")
	mode := strings.ToLower(strings.TrimSpace(rawMode))

	if !contains(AvailableModes, mode) {
		return tools.NewToolFailureData(t.Name(),
			fmt.Sprintf("Unknown mode '%s'", rawMode),
			map[string]interface{}{"available_modes": AvailableModes}), nil
	}

	err := t.hub.CallService(ctx, "input_select", "select_option", map[string]interface{}{
		"entity_id": t.cfg.ModeEntity,
		"option":    mode,
	})
	if err != nil {
		return tools.NewToolError(t.Name(), errors.WrapError(err, "failed to set mode")), nil
	}

	return tools.NewToolResultData(t.Name(),
		fmt.Sprintf("Cube mode set to '%s'", mode),
		map[string]interface{}{"mode": mode}), nil
}

// compile-time interface check
var _ tools.Tool = (*SetMode)(nil)
