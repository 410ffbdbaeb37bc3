package tools

// ParameterSchema 定义工具参数的 JSON Schema
type ParameterSchema struct {
	// Type 参数类型（通常为 "object"）
	Type string `json:"type"`
	// Properties 参数属性定义
	Properties map[string]PropertySchema `json:"properties,omitempty"`
	// Required 必需参数列表
	Required []string `json:"required,omitempty"`
	// AdditionalProperties 是否允许额外属性
	AdditionalProperties bool `json:"additionalProperties,omitempty"`
}

// PropertySchema 定义单个属性的 Schema
type PropertySchema struct {
	// Type 属性类型: "string", "number", "integer", "boolean", "array", "object"
	Type string `json:"type"`
	// Description 属性描述
	Description string `json:"description,omitempty"`
	// Enum 枚举值（可选）
	Enum []string `json:"enum,omitempty"`
	// Default 默认值（可选）
	Default interface{} `json:"default,omitempty"`
	// Items 数组元素 Schema（当 Type="array" 时）
	Items *PropertySchema `json:"items,omitempty"`
	// Properties 对象属性（当 Type="object" 时）
	Properties map[string]PropertySchema `json:"properties,omitempty"`
	// Required 必需属性（当 Type="object" 时）
	Required []string `json:"required,omitempty"`
	// Minimum 最小值（数值类型）
	Minimum *float64 `json:"minimum,omitempty"`
	// Maximum 最大值（数值类型）
	Maximum *float64 `json:"maximum,omitempty"`
	// MinLength 最小长度（字符串类型）
	MinLength *int `json:"minLength,omitempty"`
	// MaxLength 最大长度（字符串类型）
	MaxLength *int `json:"maxLength,omitempty"`
	// Pattern 正则模式（字符串类型）
	Pattern string `json:"pattern,omitempty"`
}

// ToolDefinition 工具定义（用于序列化）
type ToolDefinition struct {
	// Name 工具名称
	Name string `json:"name"`
	// Description 工具描述
	Description string `json:"description"`
	// Parameters 参数 Schema
	Parameters ParameterSchema `json:"parameters"`
}

// ToDefinition 将 Tool 转换为 ToolDefinition
func ToDefinition(t Tool) ToolDefinition {
	return ToolDefinition{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters:  t.Parameters(),
	}
}

// ToLLMToolDefinition 将 Tool 转换为 LLM 工具定义格式
func ToLLMToolDefinition(t Tool) map[string]interface{} {
	schema := t.Parameters()
	return map[string]interface{}{
		"name":        t.Name(),
		"description": t.Description(),
		"parameters": map[string]interface{}{
			"type":       schema.Type,
			"properties": schema.Properties,
			"required":   schema.Required,
		},
	}
}

// ValidationFailedError 校验失败结果的固定错误文案
//
// 逐条问题在 Details 中,纠正反馈的形态匹配依赖这个固定值。
const ValidationFailedError = "Validation failed"

// QueuedMessage 异步调用入队成功后的乐观结果文案
const QueuedMessage = "Queued for execution"

// Result 工具执行结果
//
// 成功结果带 Message(可附带 Data),失败结果带 Error。
// 校验失败时 Error 固定为 "Validation failed",逐条问题放在 Details。
type Result struct {
	// ToolName 工具名称
	ToolName string `json:"tool_name"`
	// Success 是否成功
	Success bool `json:"success"`
	// Message 人类可读的结果描述
	Message string `json:"message,omitempty"`
	// Error 错误信息（如有）
	Error string `json:"error,omitempty"`
	// Details 校验失败的逐条说明
	Details []string `json:"details,omitempty"`
	// Data 结构化附加数据（如可用选项列表、回显的参数）
	Data map[string]interface{} `json:"data,omitempty"`
	// DurationMs 执行耗时（毫秒）,校验失败时为 0
	DurationMs float64 `json:"duration_ms"`
}

// NewToolResult 创建成功的工具结果
func NewToolResult(name, message string) *Result {
	return &Result{
		ToolName: name,
		Success:  true,
		Message:  message,
	}
}

// NewToolResultData 创建带附加数据的成功结果
func NewToolResultData(name, message string, data map[string]interface{}) *Result {
	return &Result{
		ToolName: name,
		Success:  true,
		Message:  message,
		Data:     data,
	}
}

// NewToolError 创建失败的工具结果
func NewToolError(name string, err error) *Result {
	return &Result{
		ToolName: name,
		Success:  false,
		Error:    err.Error(),
	}
}

// NewToolFailure 创建带自定义错误文案的失败结果
func NewToolFailure(name, errMsg string) *Result {
	return &Result{
		ToolName: name,
		Success:  false,
		Error:    errMsg,
	}
}

// NewToolFailureData 创建带附加数据的失败结果
//
// 用于在错误中携带可用选项,供上层生成纠正反馈。
func NewToolFailureData(name, errMsg string, data map[string]interface{}) *Result {
	return &Result{
		ToolName: name,
		Success:  false,
		Error:    errMsg,
		Data:     data,
	}
}

// NewValidationFailure 创建校验失败结果
//
// Error 固定为 "Validation failed",耗时为 0,逐条问题在 Details 中。
func NewValidationFailure(name string, details []string) *Result {
	return &Result{
		ToolName: name,
		Success:  false,
		Error:    ValidationFailedError,
		Details:  details,
	}
}
