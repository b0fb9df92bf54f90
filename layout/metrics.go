package layout

import (
	"errors"
	"fmt"
)

// ErrMetricsNotFound 表示某个字体中缺少字符的字形度量。这是引擎唯一的失败类型。
var ErrMetricsNotFound = errors.New("metrics not found")

// MetricsNotFoundError 记录缺失度量的字体与字符，errors.Is(err, ErrMetricsNotFound) 成立。
type MetricsNotFoundError struct {
	Font FontID
	Char string
}

func (e *MetricsNotFoundError) Error() string {
	return fmt.Sprintf("%v: font %s char %q", ErrMetricsNotFound, e.Font, e.Char)
}

// Is 让 errors.Is 可以与哨兵错误匹配。
func (e *MetricsNotFoundError) Is(target error) bool {
	return target == ErrMetricsNotFound
}

// Metrics 是以 1 个字号单位为基准的字形尺寸。
type Metrics struct {
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
	Width  float64 `json:"width"`
}

// MetricsProvider 按 (font, char) 查询字形度量，必须是纯函数。
// 缺失时返回 *MetricsNotFoundError。
type MetricsProvider interface {
	Lookup(font FontID, char string) (Metrics, error)
}
