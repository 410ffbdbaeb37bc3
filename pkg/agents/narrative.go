package agents

import (
	"fmt"
	"sort"
	"strings"

	"github.com/glitchcube/glitchcube-go/pkg/tools"
)

// genericAcknowledgment 没有实际执行内容时的兜底答复
const genericAcknowledgment = "Done! Let me know if you need anything else."

// toolPhrases 工具名到口语短语的静态映射
//
// 叙事层把短语转述给访客,这里不出现实体 ID 或参数细节。
var toolPhrases = map[string]string{
	"control_lights":  "adjusting the lights",
	"control_effects": "changing the light effect",
	"set_mode":        "switching modes",
	"read_sensor":     "checking the sensors",
	"play_sound":      "playing a sound",
	"run_light_show":  "running a light show",
}

// humanizeTool 把工具标识转成口语短语
//
// 不在映射里的工具退化为下划线转空格,新工具不登记短语也能转述。
func humanizeTool(name string) string {
	if phrase, ok := toolPhrases[name]; ok {
		return phrase
	}
	return strings.ReplaceAll(name, "_", " ")
}

// FormatResultsForNarrative 把一批执行结果汇总成一句自然语言
//
// 分三类陈述:已完成的、已入队后台执行的、失败的。空映射返回
// 兜底答复。返回值永远是非空的自然语言,不暴露堆栈或原始错误
// 结构,叙事层可以原样转述。
func FormatResultsForNarrative(results map[string]*tools.Result) string {
	if len(results) == 0 {
		return genericAcknowledgment
	}

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	var completed, queued, failed []string
	for _, name := range names {
		res := results[name]
		if res == nil {
			continue
		}
		phrase := humanizeTool(name)
		switch {
		case res.Success && res.Message == tools.QueuedMessage:
			queued = append(queued, phrase)
		case res.Success:
			completed = append(completed, phrase)
		default:
			failed = append(failed, fmt.Sprintf("%s (%s)", phrase, failureText(res)))
		}
	}

	var parts []string
	if len(completed) > 0 {
		parts = append(parts, joinNatural(completed)+" completed")
	}
	if len(queued) > 0 {
		parts = append(parts, "started "+joinNatural(queued)+" in the background")
	}
	if len(failed) > 0 {
		clause := joinNatural(failed) + " failed"
		if len(parts) > 0 {
			clause = "but " + clause
		}
		parts = append(parts, clause)
	}
	if len(parts) == 0 {
		return genericAcknowledgment
	}
	return "Okay, " + strings.Join(parts, ", ") + "."
}

// failureText 提取失败结果的简短原因
func failureText(res *tools.Result) string {
	if res.Error != "" {
		return res.Error
	}
	return "failed"
}

// joinNatural 用自然语言连接词合并短语列表
func joinNatural(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}
