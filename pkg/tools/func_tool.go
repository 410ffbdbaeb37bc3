package tools

import (
	"context"
	"fmt"
)

// FuncTool 通过函数快速创建工具
//
// 使用示例:
//
//	pingTool := tools.NewFuncTool(
//	    "ping_hub",
//	    "Check connectivity to the automation hub",
//	    tools.ParameterSchema{Type: "object"},
//	    func(ctx context.Context, args map[string]interface{}) (*tools.Result, error) {
//	        return tools.NewToolResult("ping_hub", "hub reachable"), nil
//	    },
//	)
type FuncTool struct {
	name        string
	description string
	execType    ExecutionType
	params      ParameterSchema
	fn          ToolFunc
	validators  []Validator
}

// ToolFunc 工具执行函数类型
type ToolFunc func(ctx context.Context, args map[string]interface{}) (*Result, error)

// FuncToolOption FuncTool 配置选项
type FuncToolOption func(*FuncTool)

// NewFuncTool 创建函数工具,默认同步执行
func NewFuncTool(name, description string, params ParameterSchema, fn ToolFunc, opts ...FuncToolOption) *FuncTool {
	t := &FuncTool{
		name:        name,
		description: description,
		execType:    ExecutionSync,
		params:      params,
		fn:          fn,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// WithExecutionType 设置执行类型
func WithExecutionType(et ExecutionType) FuncToolOption {
	return func(t *FuncTool) {
		if et.IsValid() {
			t.execType = et
		}
	}
}

// WithToolValidator 追加一个自定义校验器
//
// 校验器在 Schema 校验之后执行,可叠加多个。
func WithToolValidator(v Validator) FuncToolOption {
	return func(t *FuncTool) {
		if v != nil {
			t.validators = append(t.validators, v)
		}
	}
}

// Name 返回工具名称
func (t *FuncTool) Name() string {
	return t.name
}

// Description 返回工具描述
func (t *FuncTool) Description() string {
	return t.description
}

// ExecutionType 返回执行类型
func (t *FuncTool) ExecutionType() ExecutionType {
	return t.execType
}

// Parameters 返回参数 Schema
func (t *FuncTool) Parameters() ParameterSchema {
	return t.params
}

// Execute 执行工具
func (t *FuncTool) Execute(ctx context.Context, args map[string]interface{}) (*Result, error) {
	if t.fn == nil {
		return nil, fmt.Errorf("tool function not set")
	}
	return t.fn(ctx, args)
}

// Validators 返回自定义校验器列表
func (t *FuncTool) Validators() []Validator {
	return t.validators
}

// compile-time interface check
var _ Tool = (*FuncTool)(nil)
var _ ToolWithValidators = (*FuncTool)(nil)
