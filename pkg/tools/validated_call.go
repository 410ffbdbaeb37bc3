package tools

import (
	"fmt"

	"github.com/glitchcube/glitchcube-go/pkg/core/message"
)

// ValidatedCall 一次工具调用的校验视图
//
// 构造时完成参数规范化(仅此一处),校验结果在首次 Validate 后缓存,
// 重复校验得到相同结论且无副作用。
type ValidatedCall struct {
	request message.ToolCall
	tool    Tool
	args    map[string]interface{}

	validated bool
	errs      []string
}

// NewValidatedCall 从原始调用请求构造校验视图
//
// tool 为 nil 表示注册表中没有该工具,后续校验会报告
// "Tool '<name>' not found" 而不是中断流程。
func NewValidatedCall(request message.ToolCall, tool Tool) *ValidatedCall {
	args := NormalizeArguments(request.Arguments)
	if tool != nil {
		args = CoerceToSchema(tool.Parameters(), args)
	}
	return &ValidatedCall{
		request: request,
		tool:    tool,
		args:    args,
	}
}

// Name 工具名称
func (vc *ValidatedCall) Name() string {
	return vc.request.Name
}

// ID 调用标识
func (vc *ValidatedCall) ID() string {
	return vc.request.ID
}

// Tool 解析到的工具,未注册时为 nil
func (vc *ValidatedCall) Tool() Tool {
	return vc.tool
}

// Arguments 规范化后的参数
func (vc *ValidatedCall) Arguments() map[string]interface{} {
	return vc.args
}

// Validate 执行校验并返回全部错误信息
//
// 先做 Schema 校验,再执行工具自定义校验器,两类错误合并。
// 返回空切片表示通过。结果在首次调用后缓存。
func (vc *ValidatedCall) Validate() []string {
	if vc.validated {
		return vc.errs
	}
	vc.validated = true

	if vc.tool == nil {
		vc.errs = []string{fmt.Sprintf("Tool '%s' not found", vc.request.Name)}
		return vc.errs
	}

	errs := ValidateAll(vc.tool.Parameters(), vc.args)

	if withValidators, ok := vc.tool.(ToolWithValidators); ok {
		sink := &ErrorList{}
		for _, validator := range withValidators.Validators() {
			validator(vc.args, sink)
		}
		errs = append(errs, sink.Messages()...)
	}

	vc.errs = errs
	return vc.errs
}

// IsValid 校验是否通过
func (vc *ValidatedCall) IsValid() bool {
	return len(vc.Validate()) == 0
}
