package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/glitchcube/glitchcube-go/pkg/core/errors"
)

// Registry 工具注册表
//
// 管理已注册的工具和各 persona 的工具白名单。启动阶段完成注册后
// 只读使用,支持任意并发读取。
type Registry struct {
	tools    map[string]Tool
	personas map[string][]string
	mu       sync.RWMutex
}

// NewRegistry 创建新的工具注册表
func NewRegistry() *Registry {
	return &Registry{
		tools:    make(map[string]Tool),
		personas: make(map[string][]string),
	}
}

// Register 注册工具
//
// 如果工具名已存在，将返回错误。
func (r *Registry) Register(tool Tool) error {
	if tool == nil {
		return errors.ErrInvalidTool
	}

	name := tool.Name()
	if name == "" || !tool.ExecutionType().IsValid() {
		return errors.ErrInvalidTool
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return errors.ErrToolAlreadyRegistered
	}

	r.tools[name] = tool
	return nil
}

// MustRegister 注册工具，失败则 panic
func (r *Registry) MustRegister(tool Tool) {
	if err := r.Register(tool); err != nil {
		panic(err)
	}
}

// RegisterAll 批量注册工具
//
// 如果任一工具注册失败，将停止注册并返回错误。
// 已成功注册的工具不会被回滚。
func (r *Registry) RegisterAll(tools ...Tool) error {
	for _, tool := range tools {
		if err := r.Register(tool); err != nil {
			return err
		}
	}
	return nil
}

// RegisterPersona 登记 persona 的工具白名单
//
// 白名单按给定顺序保留。名单中未注册的工具名在查询时被跳过,
// 这样 persona 配置可以先于工具装配加载。
func (r *Registry) RegisterPersona(personaID string, toolNames []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, len(toolNames))
	copy(names, toolNames)
	r.personas[personaID] = names
}

// Get 获取工具
//
// 如果工具不存在，返回 nil 和 ErrToolNotFound。
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.tools[name]
	if !exists {
		return nil, errors.ErrToolNotFound
	}

	return tool, nil
}

// Has 检查工具是否存在
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.tools[name]
	return exists
}

// Unregister 取消注册工具
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; !exists {
		return errors.ErrToolNotFound
	}

	delete(r.tools, name)
	return nil
}

// List 返回所有已注册工具的名称,按名称排序
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All 返回所有已注册的工具,按名称排序
//
// 排序保证同一注册表生成的工具 Schema 列表顺序稳定,
// 发给 LLM 的提示内容可复现。
func (r *Registry) All() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.allLocked()
}

func (r *Registry) allLocked() []Tool {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	tools := make([]Tool, 0, len(names))
	for _, name := range names {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// ToolsForPersona 返回 persona 可用的工具列表
//
// 未登记白名单的 persona 得到全部工具,保证新 persona 不会
// 因配置缺失而失去行动能力。白名单顺序即返回顺序。
func (r *Registry) ToolsForPersona(personaID string) []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names, exists := r.personas[personaID]
	if !exists {
		return r.allLocked()
	}

	tools := make([]Tool, 0, len(names))
	for _, name := range names {
		if tool, ok := r.tools[name]; ok {
			tools = append(tools, tool)
		}
	}
	return tools
}

// SyncTools 返回所有同步执行的工具,按名称排序
//
// 两层模式下叙事层只暴露同步工具时使用的受限视图。
func (r *Registry) SyncTools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.allLocked()
	syncTools := make([]Tool, 0, len(all))
	for _, tool := range all {
		if tool.ExecutionType() == ExecutionSync {
			syncTools = append(syncTools, tool)
		}
	}
	return syncTools
}

// Count 返回已注册工具数量
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Clear 清空所有已注册工具和 persona 白名单
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools = make(map[string]Tool)
	r.personas = make(map[string][]string)
}

// ExecuteTool 按名称查找并执行工具
//
// 未注册的工具名返回失败 Result("Tool '<name>' not found"),
// 不返回 error 也不 panic。参数应当已经规范化,来自 LLM 的调用
// 请通过 Executor 进入。
func (r *Registry) ExecuteTool(ctx context.Context, name string, args map[string]interface{}) *Result {
	tool, err := r.Get(name)
	if err != nil {
		return NewToolFailure(name, fmt.Sprintf("Tool '%s' not found", name))
	}

	result, execErr := tool.Execute(ctx, args)
	if execErr != nil {
		return NewToolError(name, execErr)
	}
	if result == nil {
		result = NewToolResult(name, "")
	}
	result.ToolName = name
	return result
}

// ToDefinitions 将所有工具转换为定义列表
func (r *Registry) ToDefinitions() []ToolDefinition {
	return DefinitionsFor(r.All())
}

// DefinitionsFor 将工具列表转换为定义列表
func DefinitionsFor(tools []Tool) []ToolDefinition {
	defs := make([]ToolDefinition, 0, len(tools))
	for _, tool := range tools {
		defs = append(defs, ToDefinition(tool))
	}
	return defs
}
