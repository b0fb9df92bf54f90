package binding

import (
	"fmt"
	"regexp"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${name} 替换为 vars 中的值，例如输出路径模板 "output/${expr}.${format}"。
// 名称不存在时保留原占位符。
func Interpolate(text string, vars map[string]any) string {
	if len(vars) == 0 {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		name := strings.TrimSpace(groups[1])
		if val, ok := vars[name]; ok && name != "" {
			return fmt.Sprint(val)
		}
		return match
	})
}

// Unresolved 返回文本中仍未被替换的占位符名称。
func Unresolved(text string) []string {
	var names []string
	for _, m := range exprPattern.FindAllStringSubmatch(text, -1) {
		names = append(names, strings.TrimSpace(m[1]))
	}
	return names
}
