package builtin

import (
	"github.com/glitchcube/glitchcube-go/pkg/core/config"
	"github.com/glitchcube/glitchcube-go/pkg/hub"
	"github.com/glitchcube/glitchcube-go/pkg/tools"
)

// RegisterCubeTools 向注册表注册全部 Cube 内置工具
func RegisterCubeTools(registry *tools.Registry, hubClient *hub.Client, cfg config.CubeConfig) error {
	return registry.RegisterAll(
		NewControlLights(hubClient, cfg),
		NewControlEffects(hubClient, cfg),
		NewSetMode(hubClient, cfg),
		NewReadSensor(hubClient),
		NewPlaySound(hubClient, cfg),
		NewRunLightShow(hubClient),
	)
}

// stringArg 读取字符串参数,不存在或为空时返回 false
func stringArg(args map[string]interface{}, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// numberArg 读取数值参数,兼容 JSON 反序列化产生的各种数值类型
func numberArg(args map[string]interface{}, key string) (float64, bool) {
	v, ok := args[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}

// contains 检查字符串是否在列表中
func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// float64Ptr 返回 float64 指针,用于 Schema 的边界字段
func float64Ptr(f float64) *float64 {
	return &f
}
