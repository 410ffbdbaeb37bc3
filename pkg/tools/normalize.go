package tools

import (
	"strconv"
	"strings"
	"unicode"
)

// NormalizeArguments 规范化参数键名
//
// LLM 生成的键名不稳定("rgbColor"、"RGB_Color"、" rgb color "),
// 统一转为小写 snake_case 后,工具实现只需面对一种写法。
// 值保持原样,简写编码的展开见 CoerceToSchema。
func NormalizeArguments(args map[string]interface{}) map[string]interface{} {
	normalized := make(map[string]interface{}, len(args))
	for key, value := range args {
		normalized[toSnakeCase(strings.TrimSpace(key))] = value
	}
	return normalized
}

// toSnakeCase 将 camelCase/PascalCase/空格/连字符写法转为 snake_case
func toSnakeCase(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	sb.Grow(len(s) + 4)

	var prev rune
	for i, r := range runes {
		switch {
		case r == ' ' || r == '-' || r == '_':
			if sb.Len() > 0 && prev != '_' {
				sb.WriteByte('_')
				prev = '_'
			}
		case unicode.IsUpper(r):
			if sb.Len() > 0 && prev != '_' {
				// 缩写词结尾处断词: "RGBColor" -> rgb_color
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if !unicode.IsUpper(prev) || nextLower {
					sb.WriteByte('_')
				}
			}
			sb.WriteRune(unicode.ToLower(r))
			prev = r
		default:
			sb.WriteRune(r)
			prev = r
		}
	}

	return strings.Trim(sb.String(), "_")
}

// CoerceToSchema 按 Schema 展开参数值的简写编码
//
// LLM 偶尔把数组参数写成逗号分隔字符串("255,128,0"),或把整数
// 数组生成为浮点字面量。校验之前按目标类型展开:
//   - 数组属性收到字符串时,按逗号拆分并解析元素
//   - 整数数组属性收到 []interface{} 且元素均为整值时,转为 []int
//
// 无法展开的值保持原样,由校验环节报错。不修改传入的 map。
func CoerceToSchema(schema ParameterSchema, args map[string]interface{}) map[string]interface{} {
	coerced := make(map[string]interface{}, len(args))
	for name, value := range args {
		prop, ok := schema.Properties[name]
		if ok && prop.Type == "array" && value != nil {
			coerced[name] = coerceArray(prop, value)
			continue
		}
		coerced[name] = value
	}
	return coerced
}

// coerceArray 展开单个数组属性的简写编码
func coerceArray(prop PropertySchema, value interface{}) interface{} {
	itemType := ""
	if prop.Items != nil {
		itemType = prop.Items.Type
	}

	switch v := value.(type) {
	case string:
		if coerced, ok := coerceCommaList(v, itemType); ok {
			return coerced
		}
	case []interface{}:
		if itemType == "integer" {
			if ints, ok := intSlice(v); ok {
				return ints
			}
		}
	}

	return value
}

// coerceCommaList 将 "255,128,0" 解析为目标元素类型的数组
func coerceCommaList(s string, itemType string) (interface{}, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	parts := strings.Split(s, ",")

	switch itemType {
	case "integer":
		ints := make([]int, 0, len(parts))
		for _, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return nil, false
			}
			ints = append(ints, n)
		}
		return ints, true
	case "number":
		nums := make([]float64, 0, len(parts))
		for _, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, false
			}
			nums = append(nums, f)
		}
		return nums, true
	default:
		items := make([]interface{}, 0, len(parts))
		for _, p := range parts {
			items = append(items, strings.TrimSpace(p))
		}
		return items, true
	}
}

// intSlice 当所有元素都是整值时转换为 []int
func intSlice(items []interface{}) ([]int, bool) {
	ints := make([]int, 0, len(items))
	for _, item := range items {
		switch n := item.(type) {
		case int:
			ints = append(ints, n)
		case int64:
			ints = append(ints, int(n))
		case float64:
			if n != float64(int64(n)) {
				return nil, false
			}
			ints = append(ints, int(n))
		default:
			return nil, false
		}
	}
	return ints, true
}
