package builtin

import (
	"context"
	"fmt"

	"github.com/glitchcube/glitchcube-go/pkg/core/errors"
	"github.com/glitchcube/glitchcube-go/pkg/hub"
	"github.com/glitchcube/glitchcube-go/pkg/tools"
)

// ReadSensor 传感器读取工具
//
// 读取任意实体的当前状态。实体不存在是正常情况(传感器掉线、
// 枢纽重启中),返回成功形态的 "not reporting" 消息而不是错误。
type ReadSensor struct {
	hub *hub.Client
}

// NewReadSensor 创建传感器读取工具
func NewReadSensor(hubClient *hub.Client) *ReadSensor {
	return &ReadSensor{hub: hubClient}
}

// Name 返回工具名称
func (t *ReadSensor) Name() string {
	return "read_sensor"
}

// Description 返回工具描述
func (t *ReadSensor) Description() string {
	return "Read the current state of a sensor or any other entity, e.g. temperature, motion, battery."
}

// ExecutionType 返回执行类型
func (t *ReadSensor) ExecutionType() tools.ExecutionType {
	return tools.ExecutionSync
}

// Parameters 返回参数 Schema
func (t *ReadSensor) Parameters() tools.ParameterSchema {
	return tools.ParameterSchema{
		Type: "object",
		Properties: map[string]tools.PropertySchema{
			"entity": {
				Type:        "string",
				Description: "Entity ID of the sensor to read, e.g. sensor.cube_temperature",
			},
		},
		Required: []string{"entity"},
	}
}

// Execute 读取传感器状态
func (t *ReadSensor) Execute(ctx context.Context, args map[string]interface{}) (*tools.Result, error) {
	entity, _ := stringArg(args, "entity")

	state, err := t.hub.GetEntity(ctx, entity)
	if err != nil {
		return tools.NewToolError(t.Name(), errors.WrapError(err, "failed to read sensor")), nil
	}
	if state == nil {
		return tools.NewToolResult(t.Name(),
			fmt.Sprintf("Sensor '%s' is not reporting", entity)), nil
	}

	return tools.NewToolResultData(t.Name(),
		fmt.Sprintf("Sensor '%s' reads %s", entity, state.State),
		map[string]interface{}{
			"entity":     entity,
			"state":      state.State,
			"attributes": state.Attributes,
		}), nil
}

// compile-time interface check
var _ tools.Tool = (*ReadSensor)(nil)
