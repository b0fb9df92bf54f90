package fonts

import (
	"embed"
	"fmt"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10regular"
	"golang.org/x/image/font/gofont/goregular"
)

//go:embed data/*.metrics
var dataFS embed.FS

// DefaultMetricsPath 是内置 Main_Regular 度量表的路径。
const DefaultMetricsPath = "embed:data/main_regular.metrics"

// MainFamily 是内置度量表对应的字体族名。
const MainFamily = "Main_Regular"

// Load 返回内置资源的字节数据，path 可写为 "embed:data/main_regular.metrics" 或直接 "main_regular.metrics"。
func Load(path string) ([]byte, error) {
	path = strings.TrimPrefix(path, "embed:")
	clean := strings.TrimPrefix(path, "data/")
	target := "data/" + clean
	data, err := dataFS.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("读取内置资源 %s 失败: %w", target, err)
	}
	return data, nil
}

// Main 返回 Main_Regular 字体族使用的字形（Latin Modern Roman 10）。
func Main() []byte {
	return lmroman10regular.TTF
}

// Fallback 返回渲染器在找不到字体族时使用的 TTF（Go Regular）。
func Fallback() []byte {
	return goregular.TTF
}

// Builtin 返回内置字体族名到字体数据的映射。
func Builtin() map[string][]byte {
	return map[string][]byte{MainFamily: Main()}
}
