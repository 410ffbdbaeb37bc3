package agents

import (
	"fmt"
	"sort"
	"strings"

	"github.com/glitchcube/glitchcube-go/pkg/tools"
)

// ValidationIssue 一条可通过重述意图纠正的失败
type ValidationIssue struct {
	// Tool 出错的工具名
	Tool string
	// Message 错误文案
	Message string
	// Alternatives 失败结果附带的可用选项（如有）
	Alternatives []string
}

// issuePattern 一种已识别的可纠正失败形态
type issuePattern struct {
	name    string
	match   func(r *tools.Result) bool
	extract func(r *tools.Result) ValidationIssue
}

// issuePatterns 可纠正失败形态的封闭集合
//
// 新的失败形态在这里登记,不要在循环代码里散落字符串判断。
// 不匹配任何形态的失败（hub 不可达、入队失败等基础设施故障）
// 不触发重试,重述意图纠正不了它们。
var issuePatterns = []issuePattern{
	{
		name: "unknown_effect",
		match: func(r *tools.Result) bool {
			return strings.HasPrefix(r.Error, "Unknown effect")
		},
		extract: func(r *tools.Result) ValidationIssue {
			return ValidationIssue{
				Tool:         r.ToolName,
				Message:      r.Error,
				Alternatives: stringList(r.Data, "available_effects"),
			}
		},
	},
	{
		name: "unknown_mode",
		match: func(r *tools.Result) bool {
			return strings.HasPrefix(r.Error, "Unknown mode")
		},
		extract: func(r *tools.Result) ValidationIssue {
			return ValidationIssue{
				Tool:         r.ToolName,
				Message:      r.Error,
				Alternatives: stringList(r.Data, "available_modes"),
			}
		},
	},
	{
		name: "not_controllable_light",
		match: func(r *tools.Result) bool {
			return strings.Contains(r.Error, "is not a controllable light")
		},
		extract: func(r *tools.Result) ValidationIssue {
			return ValidationIssue{
				Tool:         r.ToolName,
				Message:      r.Error,
				Alternatives: stringList(r.Data, "controllable_lights"),
			}
		},
	},
	{
		name: "tool_not_found",
		match: func(r *tools.Result) bool {
			return strings.HasPrefix(r.Error, "Tool '") && strings.HasSuffix(r.Error, "' not found")
		},
		extract: func(r *tools.Result) ValidationIssue {
			return ValidationIssue{Tool: r.ToolName, Message: r.Error}
		},
	},
	{
		name: "validation_failed",
		match: func(r *tools.Result) bool {
			return r.Error == tools.ValidationFailedError
		},
		extract: func(r *tools.Result) ValidationIssue {
			msg := strings.Join(r.Details, "; ")
			if msg == "" {
				msg = r.Error
			}
			return ValidationIssue{Tool: r.ToolName, Message: msg}
		},
	},
}

// ExtractValidationIssues 从结果映射中提取全部可纠正的失败
//
// 按工具名排序遍历,纠正反馈的内容和顺序对相同输入可复现。
// 返回空切片表示本轮没有需要重试的问题。
func ExtractValidationIssues(results map[string]*tools.Result) []ValidationIssue {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	var issues []ValidationIssue
	for _, name := range names {
		res := results[name]
		if res == nil || res.Success {
			continue
		}
		for _, pattern := range issuePatterns {
			if pattern.match(res) {
				issue := pattern.extract(res)
				if issue.Tool == "" {
					issue.Tool = name
				}
				issues = append(issues, issue)
				break
			}
		}
	}
	return issues
}

// renderIssue 渲染单条纠正反馈
//
// 带可用选项的失败直接列出选项,LLM 只需从中挑一个;
// 其余失败标明工具名和错误文案。
func renderIssue(issue ValidationIssue) string {
	if len(issue.Alternatives) > 0 {
		return fmt.Sprintf("%s. Available options: %s",
			issue.Message, strings.Join(issue.Alternatives, ", "))
	}
	return fmt.Sprintf("%s error: %s", issue.Tool, issue.Message)
}

// BuildCorrectiveIntent 在原始意图上追加纠正指示
//
// 始终从原始意图出发重建,多轮重试的反馈不会逐层嵌套。
func BuildCorrectiveIntent(originalIntent string, issues []ValidationIssue) string {
	rendered := make([]string, 0, len(issues))
	for _, issue := range issues {
		rendered = append(rendered, renderIssue(issue))
	}
	return originalIntent + "\n\nIMPORTANT CORRECTIONS NEEDED: " + strings.Join(rendered, "; ")
}

// stringList 从附加数据中取出字符串列表
//
// 进程内传递时是 []string,经 JSON 反序列化后是 []interface{},
// 两种形态都要支持。
func stringList(data map[string]interface{}, key string) []string {
	if data == nil {
		return nil
	}
	switch v := data[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
