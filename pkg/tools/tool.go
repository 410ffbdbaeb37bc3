// Package tools 提供工具注册、校验与执行能力。
//
// 每个工具声明自己的执行类型(sync/async/agent)、参数 Schema 和可选的
// 自定义校验器。执行器按执行类型分流:同步工具就地执行,异步与 agent
// 工具通过队列边界派发。
package tools

import (
	"context"
)

// ExecutionType 工具执行类型
type ExecutionType string

const (
	// ExecutionSync 同步执行,调用方等待结果
	ExecutionSync ExecutionType = "sync"
	// ExecutionAsync 异步执行,入队后由 worker 执行
	ExecutionAsync ExecutionType = "async"
	// ExecutionAgent 多步编排执行,同样走队列边界
	ExecutionAgent ExecutionType = "agent"
)

// IsValid 检查执行类型是否合法
func (t ExecutionType) IsValid() bool {
	switch t {
	case ExecutionSync, ExecutionAsync, ExecutionAgent:
		return true
	}
	return false
}

// Tool 工具接口
//
// 所有工具必须实现此接口。Execute 收到的参数已经过规范化
// (键名 snake_case、简写编码已展开),实现不需要再做键名兼容。
type Tool interface {
	// Name 返回工具名称(唯一标识)
	Name() string

	// Description 返回工具描述(供 LLM 理解用途)
	Description() string

	// ExecutionType 返回执行类型
	ExecutionType() ExecutionType

	// Parameters 返回参数 Schema
	Parameters() ParameterSchema

	// Execute 执行工具
	//
	// 参数:
	//   - ctx: 上下文(超时与取消)
	//   - args: 规范化后的工具参数
	//
	// 返回:
	//   - *Result: 执行结果,失败时用 Success=false 表达
	//   - error: 基础设施层面的错误(结果无法构造时)
	Execute(ctx context.Context, args map[string]interface{}) (*Result, error)
}

// Validator 自定义参数校验器
//
// 校验器只负责追加错误信息,不中断后续校验器的执行,
// 以便一次调用收集到全部问题。
type Validator func(args map[string]interface{}, errs *ErrorList)

// ToolWithValidators 带自定义校验器的工具
//
// 实现此接口的工具在 Schema 校验之后还会执行自定义校验器,
// 两类错误合并返回。
type ToolWithValidators interface {
	Tool

	// Validators 返回自定义校验器列表
	Validators() []Validator
}
