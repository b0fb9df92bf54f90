package layout

import (
	"fmt"
	"log/slog"
)

// DefaultFontSize 为每个字号单位对应的设备单位数。
const DefaultFontSize = 32.0

// CharPolicy 决定 VBox 中裸字符的处理方式。
type CharPolicy int

const (
	// CharsStacked 像盒子一样竖直堆叠字符（先下移 height，在基线绘制，再下移 depth）。
	CharsStacked CharPolicy = iota
	// CharsDropped 不绘制 VBox 中的字符，但仍按 height+depth 推进画笔。
	CharsDropped
)

// Options 配置度量与排版阶段所需的依赖，例如字形度量后端。
type Options struct {
	Metrics     MetricsProvider
	FontSize    float64            // 设备单位/字号单位，<=0 时使用 DefaultFontSize
	Families    map[FontID]string  // 输出 text 图元的字体族；缺省为 FontID 本身
	Multipliers map[Style]float64  // 字号类别倍率；缺省 D/T=1.0、S=0.7、SS=0.5
	VListChars  CharPolicy
	Logger      *slog.Logger // 为空时使用包级 Logger()
}

// DefaultMultipliers 返回 TeX 字号类别的默认倍率。
func DefaultMultipliers() map[Style]float64 {
	return map[Style]float64{
		StyleDisplay:      1.0,
		StyleText:         1.0,
		StyleScript:       0.7,
		StyleScriptScript: 0.5,
	}
}

// Engine 持有显式的排版上下文（度量后端、字号、字体族、倍率），替代全局常量。
// Engine 不含可变状态，可并发使用。
type Engine struct {
	metrics     MetricsProvider
	fontSize    float64
	families    map[FontID]string
	multipliers map[Style]float64
	charPolicy  CharPolicy
	logger      *slog.Logger
}

// New 校验配置并创建 Engine。
func New(opts Options) (*Engine, error) {
	if opts.Metrics == nil {
		return nil, fmt.Errorf("layout: 缺少字形度量后端 Metrics")
	}
	size := opts.FontSize
	if size < 0 {
		return nil, fmt.Errorf("layout: 字号不能为负数: %g", size)
	}
	if size == 0 {
		size = DefaultFontSize
	}
	mult := DefaultMultipliers()
	for k, v := range opts.Multipliers {
		mult[k] = v
	}
	families := make(map[FontID]string, len(opts.Families))
	for k, v := range opts.Families {
		families[k] = v
	}
	return &Engine{
		metrics:     opts.Metrics,
		fontSize:    size,
		families:    families,
		multipliers: mult,
		charPolicy:  opts.VListChars,
		logger:      opts.Logger,
	}, nil
}

// FontSize 返回设备单位/字号单位。
func (e *Engine) FontSize() float64 { return e.fontSize }

func (e *Engine) log() *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return Logger()
}

func (e *Engine) family(font FontID) string {
	if f, ok := e.families[font]; ok && f != "" {
		return f
	}
	return string(font)
}

// multiplier 返回字号类别倍率，未知类别按 1.0 处理。
func (e *Engine) multiplier(s Style) float64 {
	if m, ok := e.multipliers[s]; ok {
		return m
	}
	return 1.0
}
