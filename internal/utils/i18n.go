package utils

import "fmt"

// Server-side messages shown to respondents. Keys for validation failures are
// "validation.<rule>.<field>"; "validation.oneof" is the generic fallback
// taking the field name and the allowed values.
var translations = map[string]map[string]string{
	"en": {
		"health.ok":                    "ok",
		"validation.required.name":     "Name is required",
		"validation.required.age":      "Age is required",
		"validation.number.age":        "Age must be a whole number",
		"validation.required.model":    "Model is required",
		"validation.required.metric_a": "Metric A is required",
		"validation.required.metric_b": "Metric B is required",
		"validation.required.metric_c": "Metric C is required",
		"validation.oneof":             "%s must be one of %s",
		"validation.oneof.metric_a":    "Metric A must be one of %s",
		"validation.oneof.metric_b":    "Metric B must be one of %s",
		"validation.oneof.metric_c":    "Metric C must be one of %s",
		"validation.min.index":         "Gallery index must not be negative",
	},
	"zh": {
		"health.ok":                    "好的",
		"validation.required.name":     "请填写姓名",
		"validation.required.age":      "请填写年龄",
		"validation.number.age":        "年龄必须是整数",
		"validation.required.model":    "请选择模型",
		"validation.required.metric_a": "请为指标 A 打分",
		"validation.required.metric_b": "请为指标 B 打分",
		"validation.required.metric_c": "请为指标 C 打分",
		"validation.oneof":             "%s 必须是 %s 之一",
		"validation.oneof.metric_a":    "指标 A 必须是 %s 之一",
		"validation.oneof.metric_b":    "指标 B 必须是 %s 之一",
		"validation.oneof.metric_c":    "指标 C 必须是 %s 之一",
		"validation.min.index":         "图库序号不能为负数",
	},
}

// T returns the translated string for key in locale; falls back to English,
// then to the key itself.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if v, ok := translations["en"][key]; ok {
		return v
	}
	return key
}

// Tf is T followed by fmt.Sprintf.
func Tf(locale, key string, args ...any) string {
	return fmt.Sprintf(T(locale, key), args...)
}

// HasT reports whether key has an English translation.
func HasT(key string) bool {
	_, ok := translations["en"][key]
	return ok
}
