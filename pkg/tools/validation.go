package tools

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
)

// ErrorList 校验错误收集器
//
// 校验过程不短路:所有检查把问题追加到这里,最终一次性返回,
// 供重试循环整体反馈给 LLM。
type ErrorList struct {
	msgs []string
}

// Add 追加一条错误信息
func (e *ErrorList) Add(msg string) {
	e.msgs = append(e.msgs, msg)
}

// Addf 按格式追加一条错误信息
func (e *ErrorList) Addf(format string, args ...interface{}) {
	e.msgs = append(e.msgs, fmt.Sprintf(format, args...))
}

// Empty 是否未收集到任何错误
func (e *ErrorList) Empty() bool {
	return len(e.msgs) == 0
}

// Messages 返回收集到的全部错误信息
func (e *ErrorList) Messages() []string {
	return e.msgs
}

// ValidateAll 按 Schema 校验参数并收集全部违规项
//
// 参数按名称排序后校验,保证同样的输入产生同样顺序的错误列表。
// 返回空切片表示校验通过。
func ValidateAll(schema ParameterSchema, args map[string]interface{}) []string {
	errs := &ErrorList{}

	// 必需参数
	for _, req := range schema.Required {
		if _, ok := args[req]; !ok {
			errs.Addf("missing required parameter: %s", req)
		}
	}

	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	// 逐个参数的类型和约束
	for _, name := range names {
		propSchema, exists := schema.Properties[name]
		if !exists {
			if !schema.AdditionalProperties {
				errs.Addf("unexpected parameter: %s", name)
			}
			continue
		}
		validateProperty(name, propSchema, args[name], errs)
	}

	return errs.Messages()
}

// validateProperty 校验单个属性
func validateProperty(name string, schema PropertySchema, value interface{}, errs *ErrorList) {
	if value == nil {
		return // nil 值跳过类型检查
	}

	// 类型不符时不再做约束检查,避免产生误导性的连带错误
	if !validateType(name, schema.Type, value, errs) {
		return
	}

	switch schema.Type {
	case "string":
		validateString(name, schema, value.(string), errs)
	case "number", "integer":
		validateNumber(name, schema, value, errs)
	case "array":
		validateArray(name, schema, value, errs)
	}
}

// validateType 校验值类型,返回是否匹配
func validateType(name, expectedType string, value interface{}, errs *ErrorList) bool {
	v := reflect.ValueOf(value)
	kind := v.Kind()

	switch expectedType {
	case "string":
		if kind != reflect.String {
			errs.Addf("parameter %s: expected string, got %T", name, value)
			return false
		}
	case "number":
		if kind != reflect.Float64 && kind != reflect.Float32 &&
			kind != reflect.Int && kind != reflect.Int64 && kind != reflect.Int32 {
			errs.Addf("parameter %s: expected number, got %T", name, value)
			return false
		}
	case "integer":
		if kind != reflect.Int && kind != reflect.Int64 && kind != reflect.Int32 {
			// JSON 数字可能解析为 float64
			if kind == reflect.Float64 {
				f := value.(float64)
				if f != float64(int64(f)) {
					errs.Addf("parameter %s: expected integer, got float", name)
					return false
				}
			} else {
				errs.Addf("parameter %s: expected integer, got %T", name, value)
				return false
			}
		}
	case "boolean":
		if kind != reflect.Bool {
			errs.Addf("parameter %s: expected boolean, got %T", name, value)
			return false
		}
	case "array":
		if kind != reflect.Slice && kind != reflect.Array {
			errs.Addf("parameter %s: expected array, got %T", name, value)
			return false
		}
	case "object":
		if kind != reflect.Map {
			errs.Addf("parameter %s: expected object, got %T", name, value)
			return false
		}
	}

	return true
}

// validateString 校验字符串约束
func validateString(name string, schema PropertySchema, value string, errs *ErrorList) {
	if schema.MinLength != nil && len(value) < *schema.MinLength {
		errs.Addf("parameter %s: length %d is less than minimum %d",
			name, len(value), *schema.MinLength)
	}
	if schema.MaxLength != nil && len(value) > *schema.MaxLength {
		errs.Addf("parameter %s: length %d exceeds maximum %d",
			name, len(value), *schema.MaxLength)
	}

	if schema.Pattern != "" {
		matched, err := regexp.MatchString(schema.Pattern, value)
		if err != nil {
			errs.Addf("parameter %s: invalid pattern %s: %v", name, schema.Pattern, err)
		} else if !matched {
			errs.Addf("parameter %s: value does not match pattern %s", name, schema.Pattern)
		}
	}

	if len(schema.Enum) > 0 {
		found := false
		for _, e := range schema.Enum {
			if e == value {
				found = true
				break
			}
		}
		if !found {
			errs.Addf("parameter %s: value '%s' not in allowed values %v",
				name, value, schema.Enum)
		}
	}
}

// validateNumber 校验数值约束
func validateNumber(name string, schema PropertySchema, value interface{}, errs *ErrorList) {
	var num float64

	switch v := value.(type) {
	case float64:
		num = v
	case float32:
		num = float64(v)
	case int:
		num = float64(v)
	case int64:
		num = float64(v)
	case int32:
		num = float64(v)
	default:
		errs.Addf("parameter %s: cannot convert %T to number", name, value)
		return
	}

	if schema.Minimum != nil && num < *schema.Minimum {
		errs.Addf("parameter %s: value %g is less than minimum %g",
			name, num, *schema.Minimum)
	}
	if schema.Maximum != nil && num > *schema.Maximum {
		errs.Addf("parameter %s: value %g exceeds maximum %g",
			name, num, *schema.Maximum)
	}
}

// validateArray 校验数组约束
func validateArray(name string, schema PropertySchema, value interface{}, errs *ErrorList) {
	v := reflect.ValueOf(value)
	length := v.Len()

	if schema.Items != nil {
		for i := 0; i < length; i++ {
			elem := v.Index(i).Interface()
			elemName := name + "[" + strconv.Itoa(i) + "]"
			validateProperty(elemName, *schema.Items, elem, errs)
		}
	}
}
